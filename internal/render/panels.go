package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"go.ngs.io/emwave-api/internal/domain"
)

// fieldGrid adapts a domain.Grid to plotter.GridXYZ with scaled axes.
type fieldGrid struct {
	g     domain.Grid
	scale float64
}

var _ plotter.GridXYZ = fieldGrid{}

func (f fieldGrid) Dims() (c, r int)   { return len(f.g.X), len(f.g.Y) }
func (f fieldGrid) Z(c, r int) float64 { return f.g.Values[r][c] }
func (f fieldGrid) X(c int) float64    { return f.g.X[c] * f.scale }
func (f fieldGrid) Y(r int) float64    { return f.g.Y[r] * f.scale }

func newPanel(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func xys(x, y []float64, xScale, yScale float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i] * xScale
		pts[i].Y = y[i] * yScale
	}
	return pts
}

// addLine draws y(x) and adds it to the legend when name is set.
func addLine(p *plot.Plot, pts plotter.XYs, clr color.Color, name string, dashed bool) error {
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Color = clr
	l.LineStyle.Width = vg.Points(1.5)
	if dashed {
		l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	}
	p.Add(l)
	if name != "" {
		p.Legend.Add(name, l)
	}
	return nil
}

// addMarkers draws glyphs at the given points.
func addMarkers(p *plot.Plot, pts plotter.XYs, clr color.Color, shape draw.GlyphDrawer, name string) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = clr
	s.GlyphStyle.Shape = shape
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)
	if name != "" {
		p.Legend.Add(name, s)
	}
	return nil
}

// addVLine draws a vertical marker at x spanning [y0, y1].
func addVLine(p *plot.Plot, x, y0, y1 float64, clr color.Color, name string) error {
	return addLine(p, plotter.XYs{{X: x, Y: y0}, {X: x, Y: y1}}, clr, name, true)
}

// addHeatMap draws a grid with the palette, scaling coordinates by scale.
// Flat grids get a unit range so the palette stays defined.
func addHeatMap(p *plot.Plot, g domain.Grid, scale float64, pal palette.Palette, symmetric bool) {
	h := plotter.NewHeatMap(fieldGrid{g: g, scale: scale}, pal)
	h.Rasterized = true
	if symmetric {
		m := math.Max(math.Abs(h.Min), math.Abs(h.Max))
		h.Min, h.Max = -m, m
	}
	if !(h.Max > h.Min) {
		h.Max = h.Min + 1
	}
	p.Add(h)
}

// infoPanel lists text lines top to bottom on a blank panel.
func infoPanel(title string, lines []string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	if len(lines) == 0 {
		return p, nil
	}

	pts := make(plotter.XYs, len(lines))
	step := 1.0 / float64(len(lines)+1)
	for i := range lines {
		pts[i] = plotter.XY{X: 0.02, Y: 1 - float64(i+1)*step}
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: lines})
	if err != nil {
		return nil, err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(l)
	return p, nil
}

// symmetricRange sets equal limits on both axes around the origin.
func symmetricRange(p *plot.Plot, r float64) {
	p.X.Min, p.X.Max = -r, r
	p.Y.Min, p.Y.Max = -r, r
}
