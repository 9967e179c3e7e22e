package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-mood-playlist/internal/mood"
	"github.com/justestif/go-mood-playlist/internal/playlist"
	"github.com/justestif/go-mood-playlist/internal/target"
)

// Sentinel errors. ErrNoGoal is the only user-actionable condition in the
// flow; everything else is a programming or sequencing fault surfaced to the
// presentation layer as a prompt to stay put.
var (
	// ErrInvalidTransition is returned when an event arrives in a state that
	// does not accept it. The session remains where it was.
	ErrInvalidTransition = errors.New("event not valid in current state")

	// ErrNoGoal is returned when the flow is asked to advance past goal
	// selection without a goal set.
	ErrNoGoal = errors.New("a goal must be chosen before proceeding")

	// ErrAssemblyInFlight is returned when an assembly-triggering event
	// arrives while a prior assembly is still outstanding.
	ErrAssemblyInFlight = errors.New("an assembly is already in flight")

	// ErrSuperseded is returned to the goroutine whose assembly result was
	// discarded because the session was reset while it was outstanding.
	ErrSuperseded = errors.New("assembly superseded by session reset")
)

// RecommenderFactory builds a recommendation client from a credential. The
// machine calls it once per assembly so a refreshed token is picked up.
type RecommenderFactory func(ctx context.Context, cred Credential) playlist.Recommender

// Machine sequences one Session through the flow. All methods are safe for
// concurrent use; assembly network I/O happens outside the lock with a
// stale-response guard keyed by session and request identifiers.
type Machine struct {
	mu             sync.Mutex
	session        Session
	assembler      *playlist.Assembler
	newRecommender RecommenderFactory

	// pendingAssembly is the identifier of the in-flight assembly request,
	// empty when idle. Single-flight: at most one assembly at a time.
	pendingAssembly string
}

// NewMachine creates a machine with a fresh session on the welcome screen.
// factory may be nil, in which case every assembly uses the offline
// generator.
func NewMachine(assembler *playlist.Assembler, factory RecommenderFactory) *Machine {
	return &Machine{
		session:        newSession(),
		assembler:      assembler,
		newRecommender: factory,
	}
}

func newSession() Session {
	return Session{
		ID:        uuid.NewString(),
		Screen:    ScreenWelcome,
		CreatedAt: time.Now(),
	}
}

// Snapshot returns a copy of the session for rendering. The credential is
// blanked so it cannot leak into templates, logs, or JSON responses.
func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	s.Credential = Credential{}
	if m.session.Playlist != nil {
		p := *m.session.Playlist
		p.Tracks = append([]playlist.Track(nil), p.Tracks...)
		s.Playlist = &p
	}
	return s
}

// Authenticated reports whether the live session holds a credential.
func (m *Machine) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Authenticated()
}

// Credential returns the live credential for building API clients. Callers
// must not retain it across a reset.
func (m *Machine) Credential() Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Credential
}

// Start begins the flow: welcome -> awaiting-capture.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Screen != ScreenWelcome {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, m.session.Screen)
	}
	m.session.Screen = ScreenAwaitingCapture
	return nil
}

// Capture records a normalized mood from the classifier label:
// awaiting-capture -> mood-detected. The heart-rate reading is advisory.
// An unusable label is not an error; it normalizes to neutral.
func (m *Machine) Capture(rawLabel string, heartRate int) error {
	return m.setMood(mood.NormalizeWithHeartRate(rawLabel, heartRate))
}

// Skip records a neutral mood without a capture: awaiting-capture ->
// mood-detected. Declined camera permission and capture failure take this
// path; it is equivalent to a successful neutral detection.
func (m *Machine) Skip() error {
	return m.setMood(mood.Neutral)
}

func (m *Machine) setMood(detected mood.Mood) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Screen != ScreenAwaitingCapture {
		return fmt.Errorf("%w: capture from %s", ErrInvalidTransition, m.session.Screen)
	}
	m.session.Mood = detected
	m.session.Screen = ScreenMoodDetected
	return nil
}

// Advance moves mood-detected -> awaiting-goal. Advancing past awaiting-goal
// without a goal set returns ErrNoGoal and stays in place; goal selection is
// the one step the user cannot skip.
func (m *Machine) Advance() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.session.Screen {
	case ScreenMoodDetected:
		m.session.Screen = ScreenAwaitingGoal
		return nil
	case ScreenAwaitingGoal:
		if m.session.Goal == "" {
			return ErrNoGoal
		}
		return nil
	default:
		return fmt.Errorf("%w: advance from %s", ErrInvalidTransition, m.session.Screen)
	}
}

// SelectGoal records the user's goal: mood-detected/awaiting-goal ->
// awaiting-authorization. Goal selection UI shares the mood-detected screen
// in practice, so both states accept the event.
func (m *Machine) SelectGoal(g target.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Screen != ScreenMoodDetected && m.session.Screen != ScreenAwaitingGoal {
		return fmt.Errorf("%w: goal from %s", ErrInvalidTransition, m.session.Screen)
	}
	m.session.Goal = g
	m.session.Screen = ScreenAwaitingAuthorization
	return nil
}

// Authorize accepts the credential from the authorization collaborator and
// runs the first assembly: awaiting-authorization -> assembling -> result.
// An empty credential is valid and routes assembly to the offline generator.
func (m *Machine) Authorize(ctx context.Context, cred Credential) error {
	m.mu.Lock()
	if m.session.Screen == ScreenAssembling {
		m.mu.Unlock()
		return ErrAssemblyInFlight
	}
	if m.session.Screen != ScreenAwaitingAuthorization {
		m.mu.Unlock()
		return fmt.Errorf("%w: authorize from %s", ErrInvalidTransition, m.session.Screen)
	}
	if m.session.Mood == "" || m.session.Goal == "" {
		m.mu.Unlock()
		return ErrNoGoal
	}
	m.session.Credential = cred
	m.session.Screen = ScreenAssembling
	sessionID := m.session.ID
	m.mu.Unlock()

	return m.assemble(ctx, sessionID)
}

// Refresh re-runs mapping and assembly with the existing mood and goal:
// result -> assembling -> result. No recapture is needed.
func (m *Machine) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.session.Screen == ScreenAssembling {
		m.mu.Unlock()
		return ErrAssemblyInFlight
	}
	if m.session.Screen != ScreenResult {
		m.mu.Unlock()
		return fmt.Errorf("%w: refresh from %s", ErrInvalidTransition, m.session.Screen)
	}
	m.session.Screen = ScreenAssembling
	sessionID := m.session.ID
	m.mu.Unlock()

	return m.assemble(ctx, sessionID)
}

// assemble recomputes the target and invokes the assembler outside the lock.
// The (session, request) identifier pair guards against applying a stale
// result to a session that was reset mid-flight. sessionID is captured by the
// caller in the same critical section that entered the assembling state.
func (m *Machine) assemble(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	if m.session.ID != sessionID {
		m.mu.Unlock()
		return ErrSuperseded
	}
	requestID := uuid.NewString()
	m.pendingAssembly = requestID
	tgt := target.MapToTarget(m.session.Mood, m.session.Goal)

	var rec playlist.Recommender
	if !m.session.Credential.IsZero() && m.newRecommender != nil {
		rec = m.newRecommender(ctx, m.session.Credential)
	}
	m.mu.Unlock()

	assembled := m.assembler.Assemble(ctx, tgt, rec)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.ID != sessionID || m.pendingAssembly != requestID {
		log.Printf("session: discarding assembly %s for replaced session", requestID)
		return ErrSuperseded
	}

	m.pendingAssembly = ""
	m.session.Playlist = &assembled
	m.session.Screen = ScreenResult
	return nil
}

// Reset abandons the current session from any state and starts a fresh one
// on the welcome screen. The credential and playlist are dropped with the
// old session, and any in-flight assembly result will be discarded when it
// arrives.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = newSession()
	m.pendingAssembly = ""
}
