package domain

import "math"

// Peak is a local maximum of a sampled profile.
type Peak struct {
	Position float64
	Value    float64
}

// FindPeaks returns the local maxima of y(x) whose value is at least
// threshold, refined by parabolic interpolation.
func FindPeaks(x, y []float64, threshold float64) []Peak {
	peaks := make([]Peak, 0)
	if len(x) < 3 || len(x) != len(y) {
		return peaks
	}

	for i := 1; i < len(y)-1; i++ {
		if y[i] < threshold {
			continue
		}
		// Plateaus count once, on their first sample.
		if y[i] > y[i-1] && y[i] >= y[i+1] {
			pos, val := RefinePeak(x[i-1], x[i], x[i+1], y[i-1], y[i], y[i+1])
			peaks = append(peaks, Peak{Position: pos, Value: val})
		}
	}
	return peaks
}

// RefinePeak fits a parabola through three uniformly spaced samples and
// returns its vertex. The discrete sample is returned when the spacing is
// uneven, the samples are collinear or the vertex falls outside the interval.
func RefinePeak(x0, x1, x2, y0, y1, y2 float64) (float64, float64) {
	dx := x1 - x0
	if math.Abs(dx-(x2-x1)) > 1e-9*math.Abs(dx) {
		return x1, y1
	}

	a := (y2 - 2*y1 + y0) / (2 * dx * dx)
	b := (y2 - y0) / (2 * dx)
	if math.Abs(a) < 1e-12 {
		return x1, y1
	}

	off := -b / (2 * a)
	if math.Abs(off) > dx {
		return x1, y1
	}
	return x1 + off, y1 + b*off + a*off*off
}

// MeanSpacing returns the average distance between consecutive peaks, or
// zero when fewer than two peaks are given.
func MeanSpacing(peaks []Peak) float64 {
	if len(peaks) < 2 {
		return 0
	}
	return (peaks[len(peaks)-1].Position - peaks[0].Position) / float64(len(peaks)-1)
}
