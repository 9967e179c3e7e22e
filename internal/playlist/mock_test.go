package playlist

import (
	"reflect"
	"strings"
	"testing"

	"github.com/justestif/go-mood-playlist/internal/mood"
	"github.com/justestif/go-mood-playlist/internal/target"
)

func TestGenerateDeterministic(t *testing.T) {
	tgt := target.MapToTarget(mood.Happy, target.Maintain)

	first := Generate(tgt)
	for i := 0; i < 5; i++ {
		if got := Generate(tgt); !reflect.DeepEqual(got, first) {
			t.Fatalf("Generate is not deterministic: run %d differs", i)
		}
	}
}

func TestGenerateMatchesMood(t *testing.T) {
	tests := []struct {
		name     string
		mood     mood.Mood
		goal     target.Goal
		wantName string
		wantNear string // a track expected near the top of the ranking
	}{
		{name: "happy maintain", mood: mood.Happy, goal: target.Maintain, wantName: "Upbeat Party", wantNear: "Here Comes the Sun"},
		{name: "angry maintain", mood: mood.Angry, goal: target.Maintain, wantName: "Intense & Dark", wantNear: "Master of Puppets"},
		{name: "calm goal", mood: mood.Angry, goal: target.Calm, wantName: "Reflective & Melancholy (Acoustic)", wantNear: "Clair de Lune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(target.MapToTarget(tt.mood, tt.goal))

			if len(got.Tracks) == 0 {
				t.Fatal("generated playlist is empty")
			}
			if !strings.HasPrefix(got.Name, tt.wantName) {
				t.Errorf("Name = %q, want prefix %q", got.Name, tt.wantName)
			}

			found := false
			for _, tr := range got.Tracks[:4] {
				if tr.Title == tt.wantNear {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected %q in top picks, got %v", tt.wantNear, got.Tracks[:4])
			}
		})
	}
}

func TestGenerateFullyPopulated(t *testing.T) {
	got := Generate(target.MapToTarget(mood.Stressed, target.Maintain))

	if got.Tracks == nil {
		t.Fatal("Tracks is nil")
	}
	for _, tr := range got.Tracks {
		if tr.ID == "" || tr.Title == "" {
			t.Errorf("track missing identity: %+v", tr)
		}
		if tr.AlbumArtURL == "" {
			t.Errorf("track %s missing album art placeholder", tr.ID)
		}
		if len(tr.Artists) == 0 {
			t.Errorf("track %s missing artists", tr.ID)
		}
	}
}

func TestGenerateTrackIDsAreOffline(t *testing.T) {
	// Offline catalog IDs must be recognizable so export paths can skip
	// them instead of sending fake IDs to the playlist API.
	got := Generate(target.MapToTarget(mood.Sad, target.Maintain))

	for _, tr := range got.Tracks {
		if !IsOfflineID(tr.ID) {
			t.Errorf("track %q has ID %q, want offline-prefixed", tr.Title, tr.ID)
		}
	}
}
