// Package session owns the mood-to-playlist flow: one Session record per
// user interaction, driven through an explicit state machine.
package session

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/justestif/go-mood-playlist/internal/mood"
	"github.com/justestif/go-mood-playlist/internal/playlist"
	"github.com/justestif/go-mood-playlist/internal/target"
)

// Screen identifies where a session is in the flow.
type Screen string

// The flow states. Reset returns to ScreenWelcome from any state.
const (
	ScreenWelcome               Screen = "welcome"
	ScreenAwaitingCapture       Screen = "awaiting-capture"
	ScreenMoodDetected          Screen = "mood-detected"
	ScreenAwaitingGoal          Screen = "awaiting-goal"
	ScreenAwaitingAuthorization Screen = "awaiting-authorization"
	ScreenAssembling            Screen = "assembling"
	ScreenResult                Screen = "result"
)

// Credential is the bearer token pair delivered by the authorization
// collaborator. It lives only inside the session and is cleared on reset;
// it is never logged or persisted.
type Credential struct {
	AccessToken  string
	RefreshToken string
}

// IsZero reports whether no credential is present.
func (c Credential) IsZero() bool {
	return c.AccessToken == ""
}

// Token converts the credential into an oauth2 token for API clients.
func (c Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
	}
}

// Session is the single in-memory record tracking one user's progress
// through the mood-to-playlist flow. Mood and Goal keep their zero values
// until set; Playlist is nil until the first assembly completes.
type Session struct {
	ID         string
	Screen     Screen
	Mood       mood.Mood
	Goal       target.Goal
	Credential Credential
	Playlist   *playlist.Playlist
	CreatedAt  time.Time
}

// Authenticated reports whether the session holds a credential.
func (s Session) Authenticated() bool {
	return !s.Credential.IsZero()
}
