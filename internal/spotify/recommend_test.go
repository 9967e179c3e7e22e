package spotify

import (
	"reflect"
	"testing"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-playlist/internal/mood"
	"github.com/justestif/go-mood-playlist/internal/target"
)

func TestMapTrackTolerance(t *testing.T) {
	t.Run("full track", func(t *testing.T) {
		st := spotify.SimpleTrack{
			ID:   "abc123",
			Name: "Some Song",
			Artists: []spotify.SimpleArtist{
				{Name: "First"},
				{Name: "Second"},
			},
			ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/abc123"},
		}
		st.Album.Name = "Some Album"
		st.Album.Images = []spotify.Image{{URL: "https://img.example/art.jpg"}}

		got := mapTrack(st)
		if got.ID != "abc123" || got.Title != "Some Song" {
			t.Errorf("identity mapping wrong: %+v", got)
		}
		if !reflect.DeepEqual(got.Artists, []string{"First", "Second"}) {
			t.Errorf("Artists = %v", got.Artists)
		}
		if got.AlbumArtURL != "https://img.example/art.jpg" {
			t.Errorf("AlbumArtURL = %q", got.AlbumArtURL)
		}
		if got.ExternalURL != "https://open.spotify.com/track/abc123" {
			t.Errorf("ExternalURL = %q", got.ExternalURL)
		}
	})

	t.Run("missing album artists and urls", func(t *testing.T) {
		st := spotify.SimpleTrack{ID: "bare", Name: "Bare Track"}

		got := mapTrack(st)
		if got.AlbumArtURL != "" {
			t.Errorf("AlbumArtURL = %q, want empty for normalization downstream", got.AlbumArtURL)
		}
		if len(got.Artists) != 0 {
			t.Errorf("Artists = %v, want empty", got.Artists)
		}
		if got.ExternalURL != "" {
			t.Errorf("ExternalURL = %q, want empty", got.ExternalURL)
		}
	})
}

func TestSeedGenresCoverQuadrants(t *testing.T) {
	tests := []struct {
		name string
		m    mood.Mood
		g    target.Goal
		want []string
	}{
		{name: "happy is pop", m: mood.Happy, g: target.Maintain, want: []string{"pop", "dance"}},
		{name: "angry is rock", m: mood.Angry, g: target.Maintain, want: []string{"rock", "electronic"}},
		{name: "calm goal is acoustic", m: mood.Happy, g: target.Calm, want: []string{"acoustic", "chill"}},
		{name: "sad is ambient", m: mood.Sad, g: target.Maintain, want: []string{"ambient", "classical"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seedGenres(target.MapToTarget(tt.m, tt.g))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("seedGenres = %v, want %v", got, tt.want)
			}
			if len(got) == 0 || len(got) > 5 {
				t.Errorf("seed count %d outside API limits", len(got))
			}
		})
	}
}

func TestBuildTrackAttributesCoversAllBoundKinds(t *testing.T) {
	// angry: energy min 0.9, tempo target 140; relaxed: energy max 0.4.
	// The builder must not panic and must accept every bound kind for every
	// feature in the closed set.
	vectors := []target.AudioFeatures{
		target.MapToTarget(mood.Angry, target.Maintain),
		target.MapToTarget(mood.Relaxed, target.Maintain),
		target.MapToTarget(mood.Happy, target.Maintain),
		target.MapToTarget(mood.Focused, target.Maintain),
		{
			target.Valence:          target.MinOf(0.2),
			target.Energy:           target.MaxOf(0.9),
			target.Tempo:            target.MinOf(80),
			target.Acousticness:     target.MaxOf(0.5),
			target.Instrumentalness: target.MinOf(0.1),
		},
	}

	for i, v := range vectors {
		if attrs := buildTrackAttributes(v); attrs == nil {
			t.Errorf("vector %d: nil attributes", i)
		}
	}
}

func TestArtistSeedIDs(t *testing.T) {
	artists := make([]spotify.FullArtist, 0, 7)
	for _, id := range []string{"a1", "", "a2", "a3", "a4", "a5", "a6"} {
		var a spotify.FullArtist
		a.ID = spotify.ID(id)
		artists = append(artists, a)
	}

	got := artistSeedIDs(artists)
	want := []spotify.ID{"a1", "a2", "a3", "a4", "a5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("artistSeedIDs = %v, want blanks skipped and capped at %d", got, maxSeeds)
	}
}

func TestTrackSeedIDsDistinct(t *testing.T) {
	// Repeat plays of one track seed it once, most recent first.
	history := []string{"t1", "t1", "", "t2", "t1", "t3", "t4", "t5", "t6"}
	items := make([]spotify.RecentlyPlayedItem, 0, len(history))
	for _, id := range history {
		items = append(items, spotify.RecentlyPlayedItem{Track: spotify.SimpleTrack{ID: spotify.ID(id)}})
	}

	got := trackSeedIDs(items)
	want := []spotify.ID{"t1", "t2", "t3", "t4", "t5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("trackSeedIDs = %v, want %v", got, want)
	}
}
