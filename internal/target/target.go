// Package target maps (mood, goal) pairs to bounded audio-feature vectors
// understood by the recommendation API.
package target

import (
	"errors"
	"strings"

	"github.com/muesli/clusters"

	"github.com/justestif/go-mood-playlist/internal/mood"
)

// ErrUnknownGoal is returned when a goal string is not one of the closed set.
var ErrUnknownGoal = errors.New("unknown goal")

// Goal is the user's desired transition of emotional state.
type Goal string

// The closed goal set.
const (
	Energize Goal = "energize"
	Maintain Goal = "maintain"
	Calm     Goal = "calm"
)

// Goals lists every goal in the closed set.
var Goals = []Goal{Energize, Maintain, Calm}

// ParseGoal converts user input into a Goal. Unlike mood normalization, an
// unknown goal is an error: goal selection is the one step the user must get
// right before the flow may proceed.
func ParseGoal(raw string) (Goal, error) {
	switch Goal(strings.ToLower(strings.TrimSpace(raw))) {
	case Energize:
		return Energize, nil
	case Maintain:
		return Maintain, nil
	case Calm:
		return Calm, nil
	}
	return "", ErrUnknownGoal
}

// Feature names an audio feature the recommendation API understands.
type Feature string

// The features a target vector may bound. Valence, energy, acousticness and
// instrumentalness are in [0,1]; tempo is in BPM.
const (
	Valence          Feature = "valence"
	Energy           Feature = "energy"
	Tempo            Feature = "tempo"
	Acousticness     Feature = "acousticness"
	Instrumentalness Feature = "instrumentalness"
)

// featureOrder fixes the coordinate order used by Coordinates.
var featureOrder = []Feature{Valence, Energy, Tempo, Acousticness, Instrumentalness}

// BoundKind distinguishes exact targets from one-sided limits.
type BoundKind int

// Bound kinds.
const (
	TargetBound BoundKind = iota
	MinBound
	MaxBound
)

// Bound constrains a single feature: an exact target, a minimum, or a maximum.
type Bound struct {
	Kind  BoundKind
	Value float64
}

// TargetOf builds an exact-target bound.
func TargetOf(v float64) Bound { return Bound{Kind: TargetBound, Value: v} }

// MinOf builds a minimum bound.
func MinOf(v float64) Bound { return Bound{Kind: MinBound, Value: v} }

// MaxOf builds a maximum bound.
func MaxOf(v float64) Bound { return Bound{Kind: MaxBound, Value: v} }

// AudioFeatures is a bounded feature vector. It is derived deterministically
// from (mood, goal) and recomputed fresh on every refresh; callers must not
// mutate it after creation.
type AudioFeatures map[Feature]Bound

// baselines holds the per-mood feature bounds. Moods absent from this table
// degrade to the neutral baseline. Values follow the tuning of the reference
// recommendation parameters.
var baselines = map[mood.Mood]AudioFeatures{
	mood.Happy: {
		Valence: TargetOf(0.7),
		Energy:  TargetOf(0.8),
	},
	mood.Sad: {
		Valence:      TargetOf(0.2),
		Energy:       TargetOf(0.3),
		Acousticness: TargetOf(0.5),
	},
	mood.Angry: {
		Energy: MinOf(0.9),
		Tempo:  TargetOf(140),
	},
	mood.Relaxed: {
		Energy:       MaxOf(0.4),
		Acousticness: TargetOf(0.8),
	},
	mood.Energetic: {
		Energy: TargetOf(0.9),
		Tempo:  TargetOf(130),
	},
	mood.Focused: {
		Energy:           TargetOf(0.5),
		Instrumentalness: TargetOf(0.7),
	},
	mood.Surprised: {
		Energy:       TargetOf(0.7),
		Valence:      TargetOf(0.6),
		Acousticness: TargetOf(0.3),
	},
	mood.Fearful: {
		Energy:       TargetOf(0.3),
		Valence:      TargetOf(0.2),
		Acousticness: TargetOf(0.6),
	},
	mood.Disgusted: {
		Energy:       TargetOf(0.6),
		Valence:      TargetOf(0.3),
		Acousticness: TargetOf(0.4),
	},
	mood.Contempt: {
		Energy:       TargetOf(0.5),
		Valence:      TargetOf(0.3),
		Acousticness: TargetOf(0.5),
	},
	// stressed intentionally has no baseline and degrades to neutral.
	mood.Neutral: {
		Valence: TargetOf(0.5),
		Energy:  TargetOf(0.5),
	},
}

// Baseline returns a copy of the baseline bounds for a mood, falling back to
// the neutral baseline for moods without a table entry.
func Baseline(m mood.Mood) AudioFeatures {
	b, ok := baselines[m]
	if !ok {
		b = baselines[mood.Neutral]
	}
	out := make(AudioFeatures, len(b))
	for f, v := range b {
		out[f] = v
	}
	return out
}

// MapToTarget derives the target feature vector for a (mood, goal) pair.
// The goal dominates the mood when the user wants to change state: energize
// always yields the energetic baseline and calm the relaxed baseline, while
// maintain keeps the detected mood's own baseline. MapToTarget is pure and
// total over the full mood x goal product.
func MapToTarget(m mood.Mood, g Goal) AudioFeatures {
	switch g {
	case Energize:
		return Baseline(mood.Energetic)
	case Calm:
		return Baseline(mood.Relaxed)
	default:
		return Baseline(m)
	}
}

// Coordinates projects the target onto a fixed-order point for feature-space
// distance ranking. One-sided bounds contribute their limit value; missing
// features contribute the neutral midpoint. Tempo is scaled into [0,1].
func (t AudioFeatures) Coordinates() clusters.Coordinates {
	point := make(clusters.Coordinates, len(featureOrder))
	for i, f := range featureOrder {
		v := 0.5
		if b, ok := t[f]; ok {
			v = b.Value
			if f == Tempo {
				v = b.Value / 200
				if v > 1 {
					v = 1
				}
			}
		}
		point[i] = v
	}
	return point
}
