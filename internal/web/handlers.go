package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/justestif/go-mood-playlist/internal/playlist"
	"github.com/justestif/go-mood-playlist/internal/session"
	"github.com/justestif/go-mood-playlist/internal/spotify"
	"github.com/justestif/go-mood-playlist/internal/target"
)

// Detector is the emotion classifier collaborator as the handlers see it.
type Detector interface {
	Detect(ctx context.Context, imageBase64 string, heartRate int) (string, error)
}

// Handlers contains the HTTP handlers driving the session flow.
type Handlers struct {
	auth     *spotifyauth.Authenticator
	store    *Store
	detector Detector
}

// NewHandlers creates a Handlers instance. detector may be nil; captures then
// behave like a classifier outage and normalize to neutral.
func NewHandlers(auth *spotifyauth.Authenticator, store *Store, detector Detector) *Handlers {
	return &Handlers{
		auth:     auth,
		store:    store,
		detector: detector,
	}
}

// sessionView is the JSON shape rendered to the browser. The credential is
// never part of it.
type sessionView struct {
	SessionID     string             `json:"session_id"`
	Screen        session.Screen     `json:"screen"`
	Mood          string             `json:"mood,omitempty"`
	Goal          string             `json:"goal,omitempty"`
	Authenticated bool               `json:"authenticated"`
	Playlist      *playlist.Playlist `json:"playlist,omitempty"`
}

func viewOf(m *session.Machine) sessionView {
	snap := m.Snapshot()
	return sessionView{
		SessionID:     snap.ID,
		Screen:        snap.Screen,
		Mood:          string(snap.Mood),
		Goal:          string(snap.Goal),
		Authenticated: m.Authenticated(),
		Playlist:      snap.Playlist,
	}
}

// State reports the current session state (GET /api/session).
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetOrCreate(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(m))
}

// Start begins the flow (POST /api/session/start).
func (h *Handlers) Start(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetOrCreate(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	h.respond(w, m, m.Start())
}

type captureRequest struct {
	ImageBase64 string `json:"image_base64"`
	HeartRate   int    `json:"heart_rate,omitempty"`
}

// Capture accepts a camera frame, runs emotion detection, and records the
// mood (POST /api/session/capture). Classifier failures are not surfaced:
// the capture degrades to a neutral detection.
func (h *Handlers) Capture(w http.ResponseWriter, r *http.Request) {
	m := h.store.Get(r)
	if m == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageBase64 == "" {
		// No usable frame is a skip-equivalent outcome, not a client error.
		h.respond(w, m, m.Skip())
		return
	}

	label := ""
	if h.detector != nil {
		detected, err := h.detector.Detect(r.Context(), req.ImageBase64, req.HeartRate)
		if err != nil {
			log.Printf("web: emotion detection failed, defaulting to neutral: %v", err)
		} else {
			label = detected
		}
	}

	h.respond(w, m, m.Capture(label, req.HeartRate))
}

// Skip records a neutral mood without a capture (POST /api/session/skip).
func (h *Handlers) Skip(w http.ResponseWriter, r *http.Request) {
	m := h.store.Get(r)
	if m == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	h.respond(w, m, m.Skip())
}

// Advance moves from the mood screen to goal selection (POST
// /api/session/advance).
func (h *Handlers) Advance(w http.ResponseWriter, r *http.Request) {
	m := h.store.Get(r)
	if m == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	h.respond(w, m, m.Advance())
}

type goalRequest struct {
	Goal string `json:"goal"`
}

// Goal records the user's goal (POST /api/session/goal).
func (h *Handlers) Goal(w http.ResponseWriter, r *http.Request) {
	m := h.store.Get(r)
	if m == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := target.ParseGoal(req.Goal)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "choose one of: energize, maintain, calm")
		return
	}

	h.respond(w, m, m.SelectGoal(g))
}

// Continue assembles without a credential (POST /api/session/continue). The
// offline generator guarantees a playlist.
func (h *Handlers) Continue(w http.ResponseWriter, r *http.Request) {
	m := h.store.Get(r)
	if m == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	h.respond(w, m, m.Authorize(r.Context(), session.Credential{}))
}

// Login initiates the Spotify OAuth flow (GET /auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state, err := generateOAuthState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate state")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300, // 5 minutes
	})

	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback completes authorization (GET /callback). Two shapes are accepted:
// the standard authorization-code redirect, and a collaborator that returns
// ready-made access_token/refresh_token query parameters. Either way the
// browser is redirected to a token-free URL immediately so no credential
// stays in history.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	m := h.store.Get(r)
	if m == nil {
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		log.Printf("web: authorization declined: %s", errMsg)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	cred, err := h.credentialFromCallback(r)
	if err != nil {
		log.Printf("web: callback rejected: %v", err)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	if err := m.Authorize(r.Context(), cred); err != nil {
		log.Printf("web: authorize failed: %v", err)
	}

	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// credentialFromCallback extracts a credential from either callback shape.
func (h *Handlers) credentialFromCallback(r *http.Request) (session.Credential, error) {
	query := r.URL.Query()

	if access := query.Get("access_token"); access != "" {
		return session.Credential{
			AccessToken:  access,
			RefreshToken: query.Get("refresh_token"),
		}, nil
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		return session.Credential{}, fmt.Errorf("missing state cookie")
	}
	if query.Get("state") != stateCookie.Value {
		return session.Credential{}, fmt.Errorf("state mismatch")
	}

	token, err := h.auth.Token(r.Context(), stateCookie.Value, r)
	if err != nil {
		return session.Credential{}, fmt.Errorf("exchanging code: %w", err)
	}

	return session.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

// Refresh reassembles the playlist with the existing mood and goal (POST
// /api/session/refresh).
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	m := h.store.Get(r)
	if m == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	h.respond(w, m, m.Refresh(r.Context()))
}

// Reset abandons the session (POST /api/session/reset).
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	m := h.store.Get(r)
	if m != nil {
		m.Reset()
	}
	h.store.Drop(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// Export saves the assembled playlist to the user's Spotify account (POST
// /api/session/export). Requires a credential and a result.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	m := h.store.Get(r)
	if m == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}

	snap := m.Snapshot()
	if snap.Playlist == nil {
		writeError(w, http.StatusConflict, "no playlist to export")
		return
	}

	cred := m.Credential()
	if cred.IsZero() {
		writeError(w, http.StatusUnauthorized, "connect Spotify to export playlists")
		return
	}

	trackIDs := make([]string, 0, len(snap.Playlist.Tracks))
	for _, t := range snap.Playlist.Tracks {
		if t.ID == "" || playlist.IsOfflineID(t.ID) {
			continue
		}
		trackIDs = append(trackIDs, t.ID)
	}
	if len(trackIDs) == 0 {
		writeError(w, http.StatusConflict, "this playlist came from the offline catalog and has no exportable tracks")
		return
	}

	client := spotify.NewFromToken(r.Context(), h.auth, cred.Token())
	url, err := client.Export(r.Context(), snap.Playlist.Name, snap.Playlist.Description, trackIDs)
	if err != nil {
		log.Printf("web: export failed: %v", err)
		writeError(w, http.StatusBadGateway, "export to Spotify failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"external_url": url})
}

// respond renders the machine's state after an event, mapping the machine's
// sentinel errors onto HTTP statuses. Only missing goal selection carries a
// user-facing prompt; everything else leaves the session where it was.
func (h *Handlers) respond(w http.ResponseWriter, m *session.Machine, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, viewOf(m))
	case errors.Is(err, session.ErrNoGoal):
		writeError(w, http.StatusUnprocessableEntity, "choose a goal before continuing")
	case errors.Is(err, session.ErrAssemblyInFlight):
		writeError(w, http.StatusConflict, "a playlist is already being assembled")
	case errors.Is(err, session.ErrSuperseded):
		writeJSON(w, http.StatusOK, viewOf(m))
	case errors.Is(err, session.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "that action is not available right now")
	default:
		log.Printf("web: unexpected machine error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// generateOAuthState creates a random state string for OAuth.
func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
