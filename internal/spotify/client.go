// Package spotify wraps the Spotify Web API as the recommendation and
// playlist-export collaborator.
package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// NewFromToken builds an authenticated client from a bearer credential. The
// token may carry only an access token; a refresh token, when present, lets
// the oauth2 transport renew it transparently.
func NewFromToken(ctx context.Context, auth *spotifyauth.Authenticator, token *oauth2.Token) *Client {
	return New(spotify.New(auth.Client(ctx, token), spotify.WithRetry(true)))
}

// UserID returns the current user's Spotify ID.
func (c *Client) UserID(ctx context.Context) (string, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("getting current user: %w", err)
	}
	return user.ID, nil
}
