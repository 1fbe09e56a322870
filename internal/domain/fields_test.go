package domain

import (
	"math"
	"testing"
)

func testWave(t *testing.T) Wave {
	t.Helper()
	w, err := NewWave(1e9, 1)
	if err != nil {
		t.Fatalf("NewWave: %v", err)
	}
	return w
}

func TestSamplePlaneWave(t *testing.T) {
	w := testWave(t)
	p := SamplePlaneWave(w, 301)
	if len(p.X) != 301 || math.Abs(p.X[300]-3*w.Wavelength()) > 1e-12 {
		t.Fatalf("unexpected span: len %d, end %.6f", len(p.X), p.X[len(p.X)-1])
	}
	for i := range p.X {
		if math.Abs(p.B[i]-p.E[i]/SpeedOfLight) > 1e-20 {
			t.Fatalf("B = E/c violated at %d", i)
		}
		// Electric and magnetic energy densities are equal in vacuum.
		if p.TotalEnergy[i] > 0 && math.Abs(p.ElectricEnergy[i]-p.MagneticEnergy[i])/p.TotalEnergy[i] > 1e-6 {
			t.Fatalf("uE != uB at %d: %g vs %g", i, p.ElectricEnergy[i], p.MagneticEnergy[i])
		}
	}
	// Quarter wavelength: E = E0 sin(π/2).
	if math.Abs(p.E[25]-1) > 1e-9 {
		t.Errorf("E at λ/4: expected 1, got %.9f", p.E[25])
	}

	// A quarter period later the crest has moved a quarter wavelength.
	q := SamplePlaneWaveAt(w, w.Period()/4, 301)
	if math.Abs(q.E[50]-1) > 1e-9 {
		t.Errorf("E at λ/2, T/4: expected 1, got %.9f", q.E[50])
	}
}

func TestStandingWaveNodes(t *testing.T) {
	nodes, antinodes := StandingWaveNodes(1, 2.5)
	wantNodes := []float64{0.25, 0.75, 1.25, 1.75, 2.25}
	wantAnti := []float64{0, 0.5, 1, 1.5, 2, 2.5}
	if len(nodes) != len(wantNodes) || len(antinodes) != len(wantAnti) {
		t.Fatalf("expected %d nodes and %d antinodes, got %v and %v", len(wantNodes), len(wantAnti), nodes, antinodes)
	}
	for i := range wantNodes {
		if math.Abs(nodes[i]-wantNodes[i]) > 1e-12 {
			t.Errorf("node %d: expected %.3f, got %.3f", i, wantNodes[i], nodes[i])
		}
	}
	for i := range wantAnti {
		if math.Abs(antinodes[i]-wantAnti[i]) > 1e-12 {
			t.Errorf("antinode %d: expected %.3f, got %.3f", i, wantAnti[i], antinodes[i])
		}
	}
}

func TestSampleStandingWave(t *testing.T) {
	w := testWave(t)
	sw := SampleStandingWave(w, 201, 8)
	if len(sw.Snapshots) != 8 || len(sw.Snapshots[0]) != 201 {
		t.Fatalf("unexpected snapshot shape %dx%d", len(sw.Snapshots), len(sw.Snapshots[0]))
	}
	if math.Abs(sw.CavityLength-2.5*w.Wavelength()) > 1e-12 {
		t.Errorf("cavity: expected 2.5λ, got %.6f", sw.CavityLength)
	}
	// The field vanishes at every node at every instant.
	for _, n := range sw.Nodes {
		for _, tt := range sw.Times {
			if v := StandingWaveAt(w, []float64{n}, tt)[0]; math.Abs(v) > 1e-9 {
				t.Errorf("node %.4f m, t %.3g s: expected 0, got %.3g", n, tt, v)
			}
		}
	}
	// Envelope reaches 2E0 at the wall.
	if math.Abs(sw.Envelope[0]-2) > 1e-12 {
		t.Errorf("envelope at x=0: expected 2, got %.12f", sw.Envelope[0])
	}
	// Snapshot at t=0 equals the signed envelope.
	if math.Abs(sw.Snapshots[0][0]-2) > 1e-12 {
		t.Errorf("E(0,0): expected 2, got %.12f", sw.Snapshots[0][0])
	}
}

func TestReflectionFieldMap(t *testing.T) {
	w := testWave(t)
	g := ReflectionFieldMap(w, 1.0, 1.5, Deg2Rad(30), 61)
	if len(g.X) != 61 || len(g.Values) != 61 {
		t.Fatalf("unexpected grid shape")
	}
	if math.Abs(g.X[60]-3*w.Wavelength()) > 1e-12 {
		t.Errorf("window: expected ±3λ, got %.6f", g.X[60])
	}

	// Under TIR the field below the interface decays away from it.
	tir := ReflectionFieldMap(w, 1.5, 1.0, Deg2Rad(60), 61)
	deep := 0.0
	for _, v := range tir.Values[0] {
		deep = math.Max(deep, math.Abs(v))
	}
	if deep > 1e-3 {
		t.Errorf("evanescent field three wavelengths below the interface: expected < 1e-3, got %.3g", deep)
	}
}

func TestSampleInterference(t *testing.T) {
	w := testWave(t)
	in := SampleInterference(w, 2, 2, 201)
	if len(in.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(in.Sources))
	}
	if math.Abs(in.Sources[1].Y-in.Sources[0].Y-2*w.Wavelength()) > 1e-12 {
		t.Errorf("separation: expected 2λ, got %.6f", in.Sources[1].Y-in.Sources[0].Y)
	}
	if math.Abs(in.Intensity.MaxAbs()-1) > 1e-12 {
		t.Errorf("intensity should be normalized, max %.12f", in.Intensity.MaxAbs())
	}

	y, profile := in.ScreenProfile()
	peaks := FindPeaks(y, profile, 0.5)
	if len(peaks) < 3 {
		t.Fatalf("expected a central and two side fringes, got %d peaks", len(peaks))
	}
	central := false
	for _, p := range peaks {
		if math.Abs(p.Position) < w.Wavelength()/10 {
			central = true
		}
	}
	if !central {
		t.Errorf("expected a bright fringe on the axis, got %+v", peaks)
	}

	if s := AngularFringeSpacing(1, 4); s != 0.25 {
		t.Errorf("AngularFringeSpacing: expected 0.25, got %.6f", s)
	}
}
