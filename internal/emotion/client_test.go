package emotion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(&Config{Endpoint: server.URL, APIKey: "test-key"})
	return client, server
}

func TestDetect(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect-emotion" {
			t.Errorf("path = %q, want /detect-emotion", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}

		var req detectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.ImageBase64 != "aW1hZ2U=" {
			t.Errorf("image = %q", req.ImageBase64)
		}
		if req.HeartRate != 72 {
			t.Errorf("heart rate = %d, want 72", req.HeartRate)
		}

		_ = json.NewEncoder(w).Encode(detectResponse{Emotion: "happiness"})
	})
	defer server.Close()

	got, err := client.Detect(context.Background(), "aW1hZ2U=", 72)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got != "happiness" {
		t.Errorf("Detect() = %q, want happiness", got)
	}
}

func TestDetectNon2xxIsError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})
	defer server.Close()

	if _, err := client.Detect(context.Background(), "aW1hZ2U=", 0); err == nil {
		t.Fatal("Detect() error = nil, want error on 503")
	}
}

func TestDetectUnparseableBodyIsError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})
	defer server.Close()

	if _, err := client.Detect(context.Background(), "aW1hZ2U=", 0); err == nil {
		t.Fatal("Detect() error = nil, want decode error")
	}
}

func TestDetectCanceledContext(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(detectResponse{Emotion: "happy"})
	})
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Detect(ctx, "aW1hZ2U=", 0); err == nil {
		t.Fatal("Detect() error = nil, want context error")
	}
}
