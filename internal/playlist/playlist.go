// Package playlist defines the playlist domain model and the assembler that
// turns a target feature vector into a displayable playlist.
package playlist

// PlaceholderArtURL is substituted when a track or playlist has no artwork.
const PlaceholderArtURL = "/static/img/cover-placeholder.svg"

// Track is one entry of a playlist. Immutable once constructed from an API
// response.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists"`
	AlbumArtURL string   `json:"album_art_url"`
	ExternalURL string   `json:"external_url"`
}

// Playlist is a fully-populated, renderable playlist. An empty Tracks slice
// is a valid state, not an error; Tracks is never nil.
type Playlist struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CoverURL    string  `json:"cover_url"`
	Tracks      []Track `json:"tracks"`
	ExternalURL string  `json:"external_url,omitempty"`
}

// Normalize fills the gaps an upstream response may leave: nil track slices
// become empty, missing artwork becomes the placeholder, unnamed artists
// become "Unknown Artist". It returns the playlist for chaining.
func (p Playlist) Normalize() Playlist {
	if p.Name == "" {
		p.Name = "Your Mix"
	}
	if p.CoverURL == "" {
		p.CoverURL = PlaceholderArtURL
	}
	if p.Tracks == nil {
		p.Tracks = []Track{}
	}
	for i := range p.Tracks {
		if p.Tracks[i].AlbumArtURL == "" {
			p.Tracks[i].AlbumArtURL = PlaceholderArtURL
		}
		if len(p.Tracks[i].Artists) == 0 {
			p.Tracks[i].Artists = []string{"Unknown Artist"}
		}
	}
	return p
}
