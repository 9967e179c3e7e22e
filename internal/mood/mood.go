// Package mood normalizes raw emotion-classifier output into a closed mood set.
package mood

import (
	"log"
	"strings"
)

// Mood is a normalized emotional-state label. It is a closed set: every value
// produced by this package is one of the constants below.
type Mood string

// The full mood vocabulary. Classifier output outside this set normalizes to
// Neutral.
const (
	Happy     Mood = "happy"
	Sad       Mood = "sad"
	Angry     Mood = "angry"
	Relaxed   Mood = "relaxed"
	Energetic Mood = "energetic"
	Focused   Mood = "focused"
	Stressed  Mood = "stressed"
	Surprised Mood = "surprised"
	Fearful   Mood = "fearful"
	Disgusted Mood = "disgusted"
	Contempt  Mood = "contempt"
	Neutral   Mood = "neutral"
)

// All lists every mood in the closed set.
var All = []Mood{
	Happy, Sad, Angry, Relaxed, Energetic, Focused,
	Stressed, Surprised, Fearful, Disgusted, Contempt, Neutral,
}

// moodSet indexes the closed set for case-insensitive lookup.
var moodSet = func() map[string]Mood {
	m := make(map[string]Mood, len(All))
	for _, v := range All {
		m[string(v)] = v
	}
	return m
}()

// classifierAliases maps vendor emotion names onto the closed set. The
// Microsoft-style classifiers use noun forms ("happiness") where we use
// adjectives.
var classifierAliases = map[string]Mood{
	"happiness": Happy,
	"joy":       Happy,
	"sadness":   Sad,
	"anger":     Angry,
	"calm":      Relaxed,
	"excited":   Energetic,
	"surprise":  Surprised,
	"fear":      Fearful,
	"disgust":   Disgusted,
	"stress":    Stressed,
	"focus":     Focused,
}

// Normalize converts an open-vocabulary classifier label into a Mood.
// Matching is case-insensitive; unrecognized or empty input yields Neutral.
// Normalize is total and idempotent: its output is always a valid label that
// normalizes to itself.
func Normalize(raw string) Mood {
	label := strings.ToLower(strings.TrimSpace(raw))
	if m, ok := moodSet[label]; ok {
		return m
	}
	if m, ok := classifierAliases[label]; ok {
		return m
	}
	return Neutral
}

// NormalizeWithHeartRate applies Normalize to the classifier label and logs
// the physiological reading when one is present. The classifier label is
// authoritative; the heart-rate signal is advisory only and never changes the
// result.
func NormalizeWithHeartRate(raw string, heartRate int) Mood {
	m := Normalize(raw)
	if heartRate > 0 {
		log.Printf("mood: heart rate %d bpm (advisory, classifier label %q wins)", heartRate, m)
	}
	return m
}

// String returns the mood label.
func (m Mood) String() string {
	return string(m)
}

// Valid reports whether m is a member of the closed mood set.
func (m Mood) Valid() bool {
	_, ok := moodSet[string(m)]
	return ok
}
