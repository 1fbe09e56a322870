package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"
)

// paletteSize is the number of colours in each generated palette.
const paletteSize = 256

// colors is a palette.Palette backed by a fixed slice.
type colors []color.Color

func (c colors) Colors() []color.Color { return c }

var (
	coolBlue = colorful.Color{R: 0.230, G: 0.299, B: 0.754}
	warmRed  = colorful.Color{R: 0.706, G: 0.016, B: 0.150}
	white    = colorful.Color{R: 1, G: 1, B: 1}
	black    = colorful.Color{R: 0, G: 0, B: 0}
	red      = colorful.Color{R: 0.85, G: 0.1, B: 0.05}
	yellow   = colorful.Color{R: 1, G: 0.9, B: 0.1}
)

// gradient blends evenly through the stops in CIE-L*a*b* space.
func gradient(n int, stops ...colorful.Color) palette.Palette {
	if n < 2 {
		n = 2
	}
	out := make(colors, n)
	segments := len(stops) - 1
	for i := range out {
		t := float64(i) / float64(n-1) * float64(segments)
		s := int(t)
		if s >= segments {
			s = segments - 1
		}
		out[i] = stops[s].BlendLab(stops[s+1], t-float64(s)).Clamped()
	}
	return out
}

// Diverging is a blue-white-red map for signed fields.
func Diverging(n int) palette.Palette {
	return gradient(n, coolBlue, white, warmRed)
}

// Hot is a black-red-yellow-white map for intensities.
func Hot(n int) palette.Palette {
	return gradient(n, black, red, yellow, white)
}

// Jet sweeps the hue from blue to red at full saturation.
func Jet(n int) palette.Palette {
	if n < 2 {
		n = 2
	}
	out := make(colors, n)
	for i := range out {
		h := 240 * (1 - float64(i)/float64(n-1))
		out[i] = colorful.Hsv(h, 1, 1).Clamped()
	}
	return out
}

// Series colours for line plots.
var (
	colorE     = colorful.Color{R: 0.12, G: 0.47, B: 0.71}
	colorB     = colorful.Color{R: 0.84, G: 0.15, B: 0.16}
	colorTotal = colorful.Color{R: 0.17, G: 0.63, B: 0.17}
	colorAlt   = colorful.Color{R: 1.00, G: 0.50, B: 0.05}
	colorMuted = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
)

// seriesColor picks a colour for the i-th of n overlaid curves.
func seriesColor(i, n int) color.Color {
	if n < 2 {
		return colorE
	}
	return coolBlue.BlendLab(warmRed, float64(i)/float64(n-1)).Clamped()
}
