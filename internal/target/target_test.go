package target

import (
	"errors"
	"reflect"
	"testing"

	"github.com/justestif/go-mood-playlist/internal/mood"
)

func TestParseGoal(t *testing.T) {
	tests := []struct {
		raw     string
		want    Goal
		wantErr error
	}{
		{raw: "energize", want: Energize},
		{raw: "Maintain", want: Maintain},
		{raw: " calm ", want: Calm},
		{raw: "chill", wantErr: ErrUnknownGoal},
		{raw: "", wantErr: ErrUnknownGoal},
	}

	for _, tt := range tests {
		got, err := ParseGoal(tt.raw)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseGoal(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseGoal(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestMapToTargetTotal(t *testing.T) {
	// Every (mood, goal) combination yields a non-empty vector with values in range.
	for _, m := range mood.All {
		for _, g := range Goals {
			got := MapToTarget(m, g)
			if len(got) == 0 {
				t.Errorf("MapToTarget(%s, %s) returned empty vector", m, g)
			}
			for f, b := range got {
				if f == Tempo {
					if b.Value <= 0 {
						t.Errorf("MapToTarget(%s, %s) tempo = %v, want positive", m, g, b.Value)
					}
					continue
				}
				if b.Value < 0 || b.Value > 1 {
					t.Errorf("MapToTarget(%s, %s) %s = %v, want [0,1]", m, g, f, b.Value)
				}
			}
		}
	}
}

func TestMapToTargetGoalOverride(t *testing.T) {
	// energize yields the energetic baseline and calm the relaxed baseline,
	// for every detected mood.
	for _, m := range mood.All {
		if got, want := MapToTarget(m, Energize), MapToTarget(mood.Energetic, Maintain); !reflect.DeepEqual(got, want) {
			t.Errorf("MapToTarget(%s, energize) = %v, want energetic baseline %v", m, got, want)
		}
		if got, want := MapToTarget(m, Calm), MapToTarget(mood.Relaxed, Maintain); !reflect.DeepEqual(got, want) {
			t.Errorf("MapToTarget(%s, calm) = %v, want relaxed baseline %v", m, got, want)
		}
	}
}

func TestMapToTargetNeutralFallback(t *testing.T) {
	// stressed has no baseline entry and must degrade to neutral.
	got := MapToTarget(mood.Stressed, Maintain)
	want := MapToTarget(mood.Neutral, Maintain)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MapToTarget(stressed, maintain) = %v, want neutral baseline %v", got, want)
	}
}

func TestMapToTargetIdempotent(t *testing.T) {
	a := MapToTarget(mood.Happy, Maintain)
	b := MapToTarget(mood.Happy, Maintain)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated MapToTarget calls differ: %v vs %v", a, b)
	}

	// Returned vectors are copies: mutating one must not leak into the table.
	a[Energy] = TargetOf(0.1)
	c := MapToTarget(mood.Happy, Maintain)
	if reflect.DeepEqual(a, c) {
		t.Error("mutating a returned vector leaked into the baseline table")
	}
}

func TestHappyMaintainScenario(t *testing.T) {
	got := MapToTarget(mood.Happy, Maintain)
	if b := got[Valence]; b.Kind != TargetBound || b.Value != 0.7 {
		t.Errorf("happy/maintain valence = %+v, want target 0.7", b)
	}
	if b := got[Energy]; b.Kind != TargetBound || b.Value != 0.8 {
		t.Errorf("happy/maintain energy = %+v, want target 0.8", b)
	}
}

func TestCoordinatesFixedOrder(t *testing.T) {
	got := MapToTarget(mood.Angry, Maintain).Coordinates()
	if len(got) != 5 {
		t.Fatalf("Coordinates() len = %d, want 5", len(got))
	}
	// angry: energy min 0.9, tempo target 140 -> 0.7 scaled; rest midpoint.
	want := []float64{0.5, 0.9, 0.7, 0.5, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Coordinates()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
