// Package emotion provides a client for the facial-emotion classifier
// service. Detection failures are expected and map to a neutral mood at the
// caller, never to a blocking error.
package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrMissingEndpoint is returned when EMOTION_API_ENDPOINT is not set.
var ErrMissingEndpoint = errors.New("missing EMOTION_API_ENDPOINT environment variable")

const (
	requestTimeout = 10 * time.Second

	// The classifier vendor throttles aggressively; stay well under its cap.
	requestsPerSecond = 2
	burstSize         = 4
)

// Config holds classifier service configuration.
type Config struct {
	Endpoint string
	APIKey   string
}

// LoadConfig reads classifier configuration from environment variables.
// Returns ErrMissingEndpoint if EMOTION_API_ENDPOINT is not set. The API key
// is optional; some deployments sit behind an unauthenticated proxy.
func LoadConfig() (*Config, error) {
	endpoint := os.Getenv("EMOTION_API_ENDPOINT")
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	return &Config{
		Endpoint: endpoint,
		APIKey:   os.Getenv("EMOTION_API_KEY"),
	}, nil
}

// Client calls the emotion classifier service with outbound rate limiting.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a classifier client from the provided configuration.
func NewClient(cfg *Config) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
	}
}

// detectRequest is the classifier wire format. Heart rate is forwarded for
// observability only; the classifier label decides the mood.
type detectRequest struct {
	ImageBase64 string `json:"image_base64"`
	HeartRate   int    `json:"heart_rate,omitempty"`
}

type detectResponse struct {
	Emotion string `json:"emotion"`
}

// Detect posts a captured image to the classifier and returns the raw emotion
// label. Transport failures, non-2xx statuses, and unparseable bodies are
// returned as errors; the caller treats any error as a neutral detection.
func (c *Client) Detect(ctx context.Context, imageBase64 string, heartRate int) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	body, err := json.Marshal(detectRequest{ImageBase64: imageBase64, HeartRate: heartRate})
	if err != nil {
		return "", fmt.Errorf("encoding detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/detect-emotion", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("classifier status %d", resp.StatusCode)
	}

	var parsed detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding classifier response: %w", err)
	}

	return parsed.Emotion, nil
}
