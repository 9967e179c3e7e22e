package playlist

import (
	"context"
	"log"

	"github.com/justestif/go-mood-playlist/internal/target"
)

// Recommender is the external recommendation collaborator. Implementations
// may fail; the assembler absorbs every failure.
type Recommender interface {
	Recommend(ctx context.Context, t target.AudioFeatures) (Playlist, error)
}

// Assembler turns a target feature vector into a playlist. Its one guarantee
// is that Assemble always returns a fully-populated Playlist: recommendation
// failures substitute the offline generator instead of propagating.
type Assembler struct{}

// NewAssembler constructs an Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble produces a playlist for the target. A nil recommender means no
// credential is present and the offline generator is used directly. Any
// recommender error, of any kind, falls back to the offline generator; the
// caller never sees a failure. An empty recommendation is a valid result and
// does not trigger the fallback.
func (a *Assembler) Assemble(ctx context.Context, t target.AudioFeatures, rec Recommender) Playlist {
	if rec == nil {
		return Generate(t)
	}

	p, err := rec.Recommend(ctx, t)
	if err != nil {
		log.Printf("playlist: recommendation failed, using offline catalog: %v", err)
		return Generate(t)
	}

	return p.Normalize()
}
