// Command mood-playlist runs the mood-to-playlist web service.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/justestif/go-mood-playlist/internal/emotion"
	"github.com/justestif/go-mood-playlist/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may be set directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	clientID := os.Getenv("SPOTIFY_ID")
	clientSecret := os.Getenv("SPOTIFY_SECRET")
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("please set SPOTIFY_ID and SPOTIFY_SECRET environment variables")
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = web.DefaultAddr
	}
	redirectURL := os.Getenv("SPOTIFY_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = fmt.Sprintf("http://%s/callback", addr)
	}

	// Without a classifier endpoint every capture degrades to neutral, which
	// keeps the flow usable in development.
	var detector web.Detector
	if emotionCfg, err := emotion.LoadConfig(); err != nil {
		log.Printf("emotion classifier disabled, captures will default to neutral: %v", err)
	} else {
		detector = emotion.NewClient(emotionCfg)
	}

	server := web.NewServer(web.ServerConfig{
		Addr:         addr,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Detector:     detector,
	})

	return server.Run()
}
