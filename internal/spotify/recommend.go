package spotify

import (
	"context"
	"fmt"
	"log"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-playlist/internal/playlist"
	"github.com/justestif/go-mood-playlist/internal/target"
)

// recommendLimit is how many tracks one recommendation request asks for.
const recommendLimit = 20

// maxSeeds is the recommendation endpoint's cap on combined seed values.
const maxSeeds = 5

// Recommend asks the Spotify recommendation endpoint for tracks matching the
// target feature bounds and maps the response into a playlist. Missing
// response fields (album, artists, images) map to zero values; callers
// normalize them. An empty track list is returned as-is, not an error.
func (c *Client) Recommend(ctx context.Context, t target.AudioFeatures) (playlist.Playlist, error) {
	recs, err := c.api.GetRecommendations(ctx, c.seeds(ctx, t), buildTrackAttributes(t), spotify.Limit(recommendLimit))
	if err != nil {
		return playlist.Playlist{}, fmt.Errorf("fetching recommendations: %w", err)
	}

	tracks := make([]playlist.Track, 0, len(recs.Tracks))
	for _, st := range recs.Tracks {
		tracks = append(tracks, mapTrack(st))
	}

	name := fmt.Sprintf("Mood Mix · %s", vibeLabel(t))
	return playlist.Playlist{
		Name:        name,
		Description: "Recommendations tuned to your current mood and goal.",
		Tracks:      tracks,
	}, nil
}

// buildTrackAttributes translates the bounded feature vector into the
// attribute set the recommendation endpoint understands.
func buildTrackAttributes(t target.AudioFeatures) *spotify.TrackAttributes {
	attrs := spotify.NewTrackAttributes()

	for feature, bound := range t {
		switch feature {
		case target.Valence:
			switch bound.Kind {
			case target.MinBound:
				attrs = attrs.MinValence(bound.Value)
			case target.MaxBound:
				attrs = attrs.MaxValence(bound.Value)
			default:
				attrs = attrs.TargetValence(bound.Value)
			}
		case target.Energy:
			switch bound.Kind {
			case target.MinBound:
				attrs = attrs.MinEnergy(bound.Value)
			case target.MaxBound:
				attrs = attrs.MaxEnergy(bound.Value)
			default:
				attrs = attrs.TargetEnergy(bound.Value)
			}
		case target.Tempo:
			switch bound.Kind {
			case target.MinBound:
				attrs = attrs.MinTempo(bound.Value)
			case target.MaxBound:
				attrs = attrs.MaxTempo(bound.Value)
			default:
				attrs = attrs.TargetTempo(bound.Value)
			}
		case target.Acousticness:
			switch bound.Kind {
			case target.MinBound:
				attrs = attrs.MinAcousticness(bound.Value)
			case target.MaxBound:
				attrs = attrs.MaxAcousticness(bound.Value)
			default:
				attrs = attrs.TargetAcousticness(bound.Value)
			}
		case target.Instrumentalness:
			switch bound.Kind {
			case target.MinBound:
				attrs = attrs.MinInstrumentalness(bound.Value)
			case target.MaxBound:
				attrs = attrs.MaxInstrumentalness(bound.Value)
			default:
				attrs = attrs.TargetInstrumentalness(bound.Value)
			}
		}
	}

	return attrs
}

// seeds personalizes the recommendation request when it can: the user's top
// artists are tried first, then recently played tracks, then the static
// genre quadrant when no listening history is available. Each history call
// failing is a degradation, never an error.
func (c *Client) seeds(ctx context.Context, t target.AudioFeatures) spotify.Seeds {
	if top, err := c.api.CurrentUsersTopArtists(ctx, spotify.Limit(maxSeeds)); err != nil {
		log.Printf("spotify: top-artist seeds unavailable: %v", err)
	} else if ids := artistSeedIDs(top.Artists); len(ids) > 0 {
		return spotify.Seeds{Artists: ids}
	}

	if recent, err := c.api.PlayerRecentlyPlayed(ctx); err != nil {
		log.Printf("spotify: recently-played seeds unavailable: %v", err)
	} else if ids := trackSeedIDs(recent); len(ids) > 0 {
		return spotify.Seeds{Tracks: ids}
	}

	return spotify.Seeds{Genres: seedGenres(t)}
}

// artistSeedIDs collects at most maxSeeds artist IDs, skipping blanks.
func artistSeedIDs(artists []spotify.FullArtist) []spotify.ID {
	ids := make([]spotify.ID, 0, maxSeeds)
	for _, a := range artists {
		if a.ID == "" {
			continue
		}
		ids = append(ids, a.ID)
		if len(ids) == maxSeeds {
			break
		}
	}
	return ids
}

// trackSeedIDs collects at most maxSeeds distinct track IDs from listening
// history, most recent first. Repeat plays of one track count once.
func trackSeedIDs(items []spotify.RecentlyPlayedItem) []spotify.ID {
	ids := make([]spotify.ID, 0, maxSeeds)
	seen := make(map[spotify.ID]struct{}, maxSeeds)
	for _, it := range items {
		id := it.Track.ID
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		if len(ids) == maxSeeds {
			break
		}
	}
	return ids
}

// seedGenres picks recommendation seed genres from the target's
// energy/valence quadrant. The endpoint requires at least one seed.
func seedGenres(t target.AudioFeatures) []string {
	point := t.Coordinates()
	valence, energy, acousticness := point[0], point[1], point[3]

	if acousticness > 0.6 {
		return []string{"acoustic", "chill"}
	}

	switch {
	case energy > 0.6 && valence > 0.5:
		return []string{"pop", "dance"}
	case energy > 0.6:
		return []string{"rock", "electronic"}
	case valence > 0.5:
		return []string{"indie", "chill"}
	default:
		return []string{"ambient", "classical"}
	}
}

// vibeLabel gives a short display label for the playlist name.
func vibeLabel(t target.AudioFeatures) string {
	point := t.Coordinates()
	valence, energy := point[0], point[1]

	switch {
	case energy > 0.6 && valence > 0.5:
		return "Upbeat"
	case energy > 0.6:
		return "Intense"
	case valence > 0.5:
		return "Sunny"
	default:
		return "Mellow"
	}
}

// mapTrack converts a Spotify track to the domain representation, tolerating
// absent album, artist, and image data.
func mapTrack(st spotify.SimpleTrack) playlist.Track {
	var artists []string
	for _, a := range st.Artists {
		if a.Name != "" {
			artists = append(artists, a.Name)
		}
	}

	art := ""
	if len(st.Album.Images) > 0 {
		art = st.Album.Images[0].URL
	}

	return playlist.Track{
		ID:          st.ID.String(),
		Title:       st.Name,
		Artists:     artists,
		AlbumArtURL: art,
		ExternalURL: st.ExternalURLs["spotify"],
	}
}
