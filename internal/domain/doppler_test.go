package domain

import (
	"errors"
	"math"
	"testing"
)

func TestRelativisticDoppler(t *testing.T) {
	const f = 1e9
	cases := []struct {
		name     string
		velocity float64
		want     float64
		kind     ShiftKind
		gamma    float64
	}{
		{"approaching 0.6c", 0.6 * SpeedOfLight, 2 * f, BlueShift, 1.25},
		{"receding 0.6c", -0.6 * SpeedOfLight, 0.5 * f, RedShift, 1.25},
		{"stationary", 0, f, NoShift, 1},
		{"approaching 0.8c", 0.8 * SpeedOfLight, 3 * f, BlueShift, 5.0 / 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := RelativisticDoppler(f, tc.velocity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(d.ObservedFrequency-tc.want) > 1e-3 {
				t.Errorf("observed: expected %.3f, got %.3f", tc.want, d.ObservedFrequency)
			}
			if d.Kind != tc.kind {
				t.Errorf("kind: expected %s, got %s", tc.kind, d.Kind)
			}
			if math.Abs(d.Gamma-tc.gamma) > 1e-12 {
				t.Errorf("gamma: expected %.12f, got %.12f", tc.gamma, d.Gamma)
			}
			if math.Abs(d.ObservedWavelength*d.ObservedFrequency-SpeedOfLight) > 1e-3 {
				t.Errorf("λ'f' should equal c, got %.3f", d.ObservedWavelength*d.ObservedFrequency)
			}
			if math.Abs(d.FrequencyShift-(tc.want-f)) > 1e-3 {
				t.Errorf("shift: expected %.3f, got %.3f", tc.want-f, d.FrequencyShift)
			}
		})
	}
}

func TestRelativisticDoppler_Superluminal(t *testing.T) {
	for _, v := range []float64{SpeedOfLight, -SpeedOfLight, 2 * SpeedOfLight} {
		d, err := RelativisticDoppler(1e9, v)
		if !errors.Is(err, ErrSuperluminal) {
			t.Errorf("v=%g: expected ErrSuperluminal, got %v", v, err)
		}
		if d.SourceVelocity != v {
			t.Errorf("v=%g: source velocity not preserved", v)
		}
	}
	if ErrSuperluminal.Error() != "velocity cannot exceed speed of light" {
		t.Errorf("unexpected message %q", ErrSuperluminal.Error())
	}
}
