package playlist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muesli/clusters"

	"github.com/justestif/go-mood-playlist/internal/target"
)

// mockPlaylistSize caps how many catalog tracks a generated playlist holds.
const mockPlaylistSize = 8

// offlineIDPrefix marks track IDs that exist only in the built-in catalog
// and do not refer to real Spotify tracks.
const offlineIDPrefix = "offline-"

// IsOfflineID reports whether id names a built-in catalog track rather than
// a real Spotify track. Export paths must never send such IDs upstream.
func IsOfflineID(id string) bool {
	return strings.HasPrefix(id, offlineIDPrefix)
}

// catalogEntry pairs a track with its position in feature space. Coordinates
// follow the same fixed order as target.AudioFeatures.Coordinates:
// valence, energy, tempo (scaled), acousticness, instrumentalness.
type catalogEntry struct {
	track  Track
	coords clusters.Coordinates
}

// mockCatalog is the built-in track pool used when no credential is present
// or the recommendation collaborator fails. Feature values are hand-assigned
// so every mood quadrant has nearby tracks.
var mockCatalog = []catalogEntry{
	{Track{ID: "offline-lose-yourself", Title: "Lose Yourself", Artists: []string{"Eminem"}, ExternalURL: "https://open.spotify.com/track/4cluDES4hQEUhmXj6TXkSo"}, clusters.Coordinates{0.45, 0.92, 0.86, 0.05, 0.0}},
	{Track{ID: "offline-never-gonna", Title: "Never Gonna Give You Up", Artists: []string{"Rick Astley"}, ExternalURL: "https://open.spotify.com/track/7GhIk7Il098yCjg4BQjzvb"}, clusters.Coordinates{0.92, 0.82, 0.56, 0.1, 0.0}},
	{Track{ID: "offline-billie-jean", Title: "Billie Jean", Artists: []string{"Michael Jackson"}, ExternalURL: "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT"}, clusters.Coordinates{0.8, 0.75, 0.58, 0.02, 0.02}},
	{Track{ID: "offline-imagine", Title: "Imagine", Artists: []string{"John Lennon"}, ExternalURL: "https://open.spotify.com/track/1jDJFeK9x3OZboIAHsY9k2"}, clusters.Coordinates{0.4, 0.25, 0.38, 0.85, 0.15}},
	{Track{ID: "offline-bohemian", Title: "Bohemian Rhapsody", Artists: []string{"Queen"}, ExternalURL: "https://open.spotify.com/track/3SdTKo2uVsxFblQjpScoHy"}, clusters.Coordinates{0.35, 0.6, 0.36, 0.3, 0.0}},
	{Track{ID: "offline-weightless", Title: "Weightless", Artists: []string{"Marconi Union"}, ExternalURL: "https://open.spotify.com/track/6kkwzB6hXLIONkEk9JciA6"}, clusters.Coordinates{0.3, 0.08, 0.3, 0.9, 0.95}},
	{Track{ID: "offline-clair-de-lune", Title: "Clair de Lune", Artists: []string{"Claude Debussy"}, ExternalURL: "https://open.spotify.com/track/5NGtFXVpXSvwunEIGeviY3"}, clusters.Coordinates{0.35, 0.1, 0.33, 0.98, 0.9}},
	{Track{ID: "offline-hurt", Title: "Hurt", Artists: []string{"Johnny Cash"}, ExternalURL: "https://open.spotify.com/track/28cnXtME493VX9NOw9cIUh"}, clusters.Coordinates{0.1, 0.25, 0.45, 0.7, 0.0}},
	{Track{ID: "offline-everybody-hurts", Title: "Everybody Hurts", Artists: []string{"R.E.M."}, ExternalURL: "https://open.spotify.com/track/6PypGyiu0Y2lCDBN1XZEnP"}, clusters.Coordinates{0.15, 0.3, 0.35, 0.5, 0.0}},
	{Track{ID: "offline-killing-in-the-name", Title: "Killing in the Name", Artists: []string{"Rage Against the Machine"}, ExternalURL: "https://open.spotify.com/track/59WN2psjkt1tyaxjspN8fp"}, clusters.Coordinates{0.3, 0.95, 0.44, 0.01, 0.01}},
	{Track{ID: "offline-master-of-puppets", Title: "Master of Puppets", Artists: []string{"Metallica"}, ExternalURL: "https://open.spotify.com/track/2MuWTIM3b0YEAskbeeFE1i"}, clusters.Coordinates{0.25, 0.98, 0.7, 0.0, 0.3}},
	{Track{ID: "offline-here-comes-the-sun", Title: "Here Comes the Sun", Artists: []string{"The Beatles"}, ExternalURL: "https://open.spotify.com/track/6dGnYIeXmHdcikdzNNDMm2"}, clusters.Coordinates{0.9, 0.54, 0.65, 0.55, 0.0}},
	{Track{ID: "offline-walking-on-sunshine", Title: "Walking on Sunshine", Artists: []string{"Katrina & The Waves"}, ExternalURL: "https://open.spotify.com/track/05wIrZSwuaVWhcv5FfqeH0"}, clusters.Coordinates{0.94, 0.87, 0.55, 0.07, 0.0}},
	{Track{ID: "offline-time", Title: "Time", Artists: []string{"Hans Zimmer"}, ExternalURL: "https://open.spotify.com/track/6ZFbXIJkuI1dVNWvzJzown"}, clusters.Coordinates{0.2, 0.4, 0.3, 0.4, 0.95}},
	{Track{ID: "offline-gymnopedie", Title: "Gymnopédie No. 1", Artists: []string{"Erik Satie"}, ExternalURL: "https://open.spotify.com/track/5NGtFXVpXSvwunEIGeviY4"}, clusters.Coordinates{0.3, 0.05, 0.25, 1.0, 0.92}},
	{Track{ID: "offline-dont-stop-me-now", Title: "Don't Stop Me Now", Artists: []string{"Queen"}, ExternalURL: "https://open.spotify.com/track/7hQJA50XrCWABAu5v6QZ4i"}, clusters.Coordinates{0.6, 0.9, 0.78, 0.05, 0.0}},
}

// Generate builds a deterministic offline playlist for a target vector by
// ranking the built-in catalog by feature distance. Same target, same
// playlist, so a refresh without a credential is stable and testable.
func Generate(t target.AudioFeatures) Playlist {
	point := t.Coordinates()

	type ranked struct {
		entry catalogEntry
		dist  float64
		index int
	}

	rankings := make([]ranked, len(mockCatalog))
	for i, e := range mockCatalog {
		rankings[i] = ranked{entry: e, dist: e.coords.Distance(point), index: i}
	}

	// Catalog index breaks distance ties so ordering never depends on sort
	// internals.
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].dist != rankings[j].dist {
			return rankings[i].dist < rankings[j].dist
		}
		return rankings[i].index < rankings[j].index
	})

	n := mockPlaylistSize
	if n > len(rankings) {
		n = len(rankings)
	}

	tracks := make([]Track, 0, n)
	for _, r := range rankings[:n] {
		tracks = append(tracks, r.entry.track)
	}

	name := vibeName(point)
	return Playlist{
		Name:        name,
		Description: fmt.Sprintf("%s picks from the offline catalog, matched to your mood.", name),
		Tracks:      tracks,
	}.Normalize()
}

// vibeName names a feature-space point using an energy/valence quadrant with
// an acousticness modifier.
//
// Quadrants:
//   - High Energy + High Valence = "Upbeat Party"
//   - High Energy + Low Valence  = "Intense & Dark"
//   - Low Energy  + High Valence = "Chill & Happy"
//   - Low Energy  + Low Valence  = "Reflective & Melancholy"
func vibeName(point clusters.Coordinates) string {
	valence, energy, acousticness := point[0], point[1], point[3]

	highEnergy := energy > 0.6
	highValence := valence > 0.5

	var baseName string
	switch {
	case highEnergy && highValence:
		baseName = "Upbeat Party"
	case highEnergy && !highValence:
		baseName = "Intense & Dark"
	case !highEnergy && highValence:
		baseName = "Chill & Happy"
	default:
		baseName = "Reflective & Melancholy"
	}

	if acousticness > 0.6 {
		return baseName + " (Acoustic)"
	}
	return baseName
}
