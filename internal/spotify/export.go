package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-playlist/internal/playlist"
)

const maxTracksPerRequest = 100

// Export creates a real playlist in the user's Spotify account from an
// assembled playlist and returns its external URL. Tracks whose IDs do not
// name a real Spotify track (offline catalog entries, blank IDs) are
// skipped.
func (c *Client) Export(ctx context.Context, name, description string, trackIDs []string) (string, error) {
	userID, err := c.UserID(ctx)
	if err != nil {
		return "", err
	}

	created, err := c.api.CreatePlaylistForUser(ctx, userID, name, description, false, false)
	if err != nil {
		return "", fmt.Errorf("creating playlist: %w", err)
	}

	if err := c.addTracks(ctx, created.ID, trackIDs); err != nil {
		return "", err
	}

	return created.ExternalURLs["spotify"], nil
}

// addTracks adds tracks to a playlist, handling batching for large sets.
// Spotify allows max 100 tracks per request.
func (c *Client) addTracks(ctx context.Context, playlistID spotify.ID, trackIDs []string) error {
	ids := exportableIDs(trackIDs)
	if len(ids) == 0 {
		return nil
	}

	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))
		batch := ids[i:end]

		if _, err := c.api.AddTracksToPlaylist(ctx, playlistID, batch...); err != nil {
			return fmt.Errorf("adding tracks (batch %d-%d): %w", i+1, end, err)
		}
	}

	return nil
}

// exportableIDs filters a playlist's track IDs down to real Spotify IDs.
// Offline catalog IDs and blanks are dropped.
func exportableIDs(trackIDs []string) []spotify.ID {
	ids := make([]spotify.ID, 0, len(trackIDs))
	for _, id := range trackIDs {
		if id == "" || playlist.IsOfflineID(id) {
			continue
		}
		ids = append(ids, spotify.ID(id))
	}
	return ids
}
