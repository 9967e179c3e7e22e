package web

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/justestif/go-mood-playlist/internal/playlist"
	"github.com/justestif/go-mood-playlist/internal/session"
	"github.com/justestif/go-mood-playlist/internal/spotify"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Detector     Detector
}

// Server is the HTTP server exposing the session flow.
type Server struct {
	router   chi.Router
	server   *http.Server
	store    *Store
	handlers *Handlers
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) *Server {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopeUserTopRead,
			spotifyauth.ScopeUserReadRecentlyPlayed,
		),
	)

	assembler := playlist.NewAssembler()
	factory := func(ctx context.Context, cred session.Credential) playlist.Recommender {
		return spotify.NewFromToken(ctx, auth, cred.Token())
	}

	store := NewStore(func() *session.Machine {
		return session.NewMachine(assembler, factory)
	})

	handlers := NewHandlers(auth, store, cfg.Detector)

	router := chi.NewRouter()
	s := &Server{
		router:   router,
		store:    store,
		handlers: handlers,
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	s.router.Route("/api/session", func(r chi.Router) {
		r.Get("/", s.handlers.State)
		r.Post("/start", s.handlers.Start)
		r.Post("/capture", s.handlers.Capture)
		r.Post("/skip", s.handlers.Skip)
		r.Post("/advance", s.handlers.Advance)
		r.Post("/goal", s.handlers.Goal)
		r.Post("/continue", s.handlers.Continue)
		r.Post("/refresh", s.handlers.Refresh)
		r.Post("/reset", s.handlers.Reset)
		r.Post("/export", s.handlers.Export)
	})

	s.router.Get("/auth/login", s.handlers.Login)
	s.router.Get("/callback", s.handlers.Callback)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return err
	}

	log.Println("Server stopped")
	return nil
}
