package domain

import (
	"math"
	"testing"
)

func TestNewWave(t *testing.T) {
	w, err := NewWave(1e9, 2)
	if err != nil {
		t.Fatalf("NewWave: %v", err)
	}
	if math.Abs(w.Wavelength()-0.299792458) > 1e-12 {
		t.Errorf("Wavelength: expected 0.299792458, got %.12f", w.Wavelength())
	}
	if math.Abs(w.Period()-1e-9) > 1e-21 {
		t.Errorf("Period: expected 1e-9, got %g", w.Period())
	}
	if math.Abs(w.WaveNumber()*w.Wavelength()-2*math.Pi) > 1e-12 {
		t.Errorf("k·λ should be 2π, got %.12f", w.WaveNumber()*w.Wavelength())
	}
	if math.Abs(w.MagneticAmplitude()-2/SpeedOfLight) > 1e-20 {
		t.Errorf("MagneticAmplitude: got %g", w.MagneticAmplitude())
	}

	cases := []struct {
		freq, amp float64
		want      string
	}{
		{0, 1, "frequency must be positive"},
		{-5, 1, "frequency must be positive"},
		{math.NaN(), 1, "frequency must be positive"},
		{1e9, 0, "amplitude must be positive"},
		{1e9, -1, "amplitude must be positive"},
	}
	for _, tc := range cases {
		_, err := NewWave(tc.freq, tc.amp)
		if err == nil || err.Error() != tc.want {
			t.Errorf("NewWave(%g, %g): expected %q, got %v", tc.freq, tc.amp, tc.want, err)
		}
	}
}

func TestMediumProperties(t *testing.T) {
	glass, ok := GetMedium("glass")
	if !ok {
		t.Fatal("glass should be found case-insensitively")
	}
	if math.Abs(glass.RefractiveIndex()-1.5) > 1e-12 {
		t.Errorf("Glass n: expected 1.5, got %.12f", glass.RefractiveIndex())
	}
	if math.Abs(glass.WaveSpeed()-SpeedOfLight/1.5) > 1e-3 {
		t.Errorf("Glass wave speed: got %.3f", glass.WaveSpeed())
	}
	if math.Abs(glass.Impedance()-VacuumImpedance/1.5) > 1e-9 {
		t.Errorf("Glass impedance: expected %.6f, got %.6f", VacuumImpedance/1.5, glass.Impedance())
	}

	// Zero permeability falls back to a non-magnetic medium.
	m := Medium{Name: "Test", RelativePermittivity: 4}
	if math.Abs(m.RefractiveIndex()-2) > 1e-12 {
		t.Errorf("Unset μr: expected n = 2, got %.12f", m.RefractiveIndex())
	}
	if !m.Valid() {
		t.Error("Medium with unset μr should be valid")
	}
	if (Medium{Name: "Bad", RelativePermittivity: -1}).Valid() {
		t.Error("Negative permittivity should be invalid")
	}

	if _, ok := GetMedium("Unobtainium"); ok {
		t.Error("Unknown medium should not be found")
	}
}

func TestGetAllMediaSortedByIndex(t *testing.T) {
	media := GetAllMedia()
	if len(media) != len(StandardMedia) {
		t.Fatalf("expected %d media, got %d", len(StandardMedia), len(media))
	}
	want := []string{"Air", "Glass", "Diamond", "Water"}
	for i, name := range want {
		if media[i].Name != name {
			t.Errorf("media[%d]: expected %s, got %s", i, name, media[i].Name)
		}
	}
}

func TestParsePhenomenon(t *testing.T) {
	for _, p := range Phenomena {
		got, err := ParsePhenomenon(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePhenomenon(%s) = %s, %v", p, got, err)
		}
		if p.Title() == string(p) {
			t.Errorf("%s has no title", p)
		}
	}
	if _, err := ParsePhenomenon("gravity_wave"); err == nil {
		t.Error("expected error for unknown phenomenon")
	}
	if !PhenomenonWaveguide.HasFieldGrid() || PhenomenonDoppler.HasFieldGrid() {
		t.Error("HasFieldGrid mismatch")
	}
}
