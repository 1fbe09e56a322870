// Package render draws the visualizer figures with gonum/plot and encodes
// them as PNG.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"go.ngs.io/emwave-api/internal/usecase"
)

// Options controls figure size and sampling density.
type Options struct {
	Width      vg.Length
	Height     vg.Length
	DPI        int
	Resolution int // Side of sampled field grids.
	Samples    int // Points per line plot.
}

// DefaultOptions returns a 14×10 inch figure at 100 DPI.
func DefaultOptions() Options {
	return Options{
		Width:      14 * vg.Inch,
		Height:     10 * vg.Inch,
		DPI:        100,
		Resolution: 200,
		Samples:    1000,
	}
}

// Renderer implements usecase.FigureRenderer.
type Renderer struct {
	opts Options
}

var _ usecase.FigureRenderer = (*Renderer)(nil)

// New returns a renderer; zero fields in opts take their defaults.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.DPI <= 0 {
		opts.DPI = def.DPI
	}
	if opts.Resolution < 2 {
		opts.Resolution = def.Resolution
	}
	if opts.Samples < 2 {
		opts.Samples = def.Samples
	}
	return &Renderer{opts: opts}
}

// Render draws the figure for a resolved request and returns PNG bytes.
func (r *Renderer) Render(p usecase.Params, cfg *usecase.Configuration) (out []byte, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration")
	}
	// gonum/plot panics on degenerate input.
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("plot %s: %v", p.Phenomenon, rec)
		}
	}()

	fig, err := r.build(p, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s figure: %w", p.Phenomenon, err)
	}
	return r.encode(fig)
}

// titleBand is the height in points reserved above the panels for the title.
const titleBand vg.Length = 30

func (r *Renderer) encode(fig figure) ([]byte, error) {
	if fig.rows*fig.cols != len(fig.panels) {
		return nil, fmt.Errorf("figure has %d panels for a %dx%d layout", len(fig.panels), fig.rows, fig.cols)
	}

	img := vgimg.NewWith(vgimg.UseWH(r.opts.Width, r.opts.Height), vgimg.UseDPI(r.opts.DPI))
	dc := draw.New(img)

	sty := text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, vg.Points(16)),
		XAlign:  draw.XCenter,
		YAlign:  draw.YTop,
		Handler: plot.DefaultTextHandler,
	}
	dc.FillText(sty, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - vg.Points(6)}, fig.title)

	body := draw.Crop(dc, 0, 0, 0, -titleBand)
	tiles := draw.Tiles{
		Rows:      fig.rows,
		Cols:      fig.cols,
		PadX:      vg.Millimeter * 8,
		PadY:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}

	grid := make([][]*plot.Plot, fig.rows)
	for i := range grid {
		grid[i] = fig.panels[i*fig.cols : (i+1)*fig.cols]
	}
	canvases := plot.Align(grid, tiles, body)
	for i, row := range grid {
		for j, p := range row {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
