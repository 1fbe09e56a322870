// Package interp provides bilinear sampling of regular field grids.
package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.ngs.io/emwave-api/internal/domain"
)

// ErrOutOfRange is returned for points outside the grid.
var ErrOutOfRange = errors.New("point outside grid")

// Cell is one rectangle of a regular grid with its four corner values.
type Cell struct {
	X0, X1 float64
	Y0, Y1 float64

	// V00 at (X0, Y0), V10 at (X1, Y0), V01 at (X0, Y1), V11 at (X1, Y1).
	V00, V10, V01, V11 float64
}

// Bilinear interpolates inside a cell:
//
//	f(x,y) ≈ (1-t)(1-u)V00 + t(1-u)V10 + (1-t)u V01 + tu V11
//
// with t = (x-X0)/(X1-X0) and u = (y-Y0)/(Y1-Y0).
func Bilinear(cell Cell, x, y float64) (float64, error) {
	if cell.X1 <= cell.X0 {
		return 0, fmt.Errorf("invalid cell: X1 must be > X0")
	}
	if cell.Y1 <= cell.Y0 {
		return 0, fmt.Errorf("invalid cell: Y1 must be > Y0")
	}

	// Relative tolerance so that millimetre grids behave like metre grids.
	epsX := 1e-9 * (cell.X1 - cell.X0)
	epsY := 1e-9 * (cell.Y1 - cell.Y0)
	if x < cell.X0-epsX || x > cell.X1+epsX {
		return 0, fmt.Errorf("%w: x %.6g not in [%.6g, %.6g]", ErrOutOfRange, x, cell.X0, cell.X1)
	}
	if y < cell.Y0-epsY || y > cell.Y1+epsY {
		return 0, fmt.Errorf("%w: y %.6g not in [%.6g, %.6g]", ErrOutOfRange, y, cell.Y0, cell.Y1)
	}

	t := math.Max(0, math.Min(1, (x-cell.X0)/(cell.X1-cell.X0)))
	u := math.Max(0, math.Min(1, (y-cell.Y0)/(cell.Y1-cell.Y0)))

	return (1-t)*(1-u)*cell.V00 +
		t*(1-u)*cell.V10 +
		(1-t)*u*cell.V01 +
		t*u*cell.V11, nil
}

// Grid2D is a rectilinear grid of samples.
type Grid2D struct {
	X      []float64   // Strictly increasing.
	Y      []float64   // Strictly increasing.
	Values [][]float64 // Values[i][j] is the sample at (X[j], Y[i]).
}

// FromDomain wraps a domain grid without copying.
func FromDomain(g domain.Grid) *Grid2D {
	return &Grid2D{X: g.X, Y: g.Y, Values: g.Values}
}

// Validate checks shape and monotonic coordinates.
func (g *Grid2D) Validate() error {
	if len(g.X) < 2 {
		return fmt.Errorf("grid must have at least 2 X coordinates")
	}
	if len(g.Y) < 2 {
		return fmt.Errorf("grid must have at least 2 Y coordinates")
	}
	if len(g.Values) != len(g.Y) {
		return fmt.Errorf("number of value rows (%d) must match Y coordinates (%d)", len(g.Values), len(g.Y))
	}
	for i, row := range g.Values {
		if len(row) != len(g.X) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.X))
		}
	}
	for i := 1; i < len(g.X); i++ {
		if g.X[i] <= g.X[i-1] {
			return fmt.Errorf("X coordinates must be strictly increasing")
		}
	}
	for i := 1; i < len(g.Y); i++ {
		if g.Y[i] <= g.Y[i-1] {
			return fmt.Errorf("Y coordinates must be strictly increasing")
		}
	}
	return nil
}

// cellIndex returns i such that axis[i] ≤ v ≤ axis[i+1].
func cellIndex(axis []float64, v float64) (int, bool) {
	n := len(axis)
	span := axis[n-1] - axis[0]
	eps := 1e-9 * span
	if v < axis[0]-eps || v > axis[n-1]+eps {
		return 0, false
	}
	i := sort.SearchFloat64s(axis, v) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	return i, true
}

// InterpolateAt returns the bilinear estimate at (x, y).
func (g *Grid2D) InterpolateAt(x, y float64) (float64, error) {
	if err := g.Validate(); err != nil {
		return 0, fmt.Errorf("invalid grid: %w", err)
	}

	xi, okX := cellIndex(g.X, x)
	yi, okY := cellIndex(g.Y, y)
	if !okX || !okY {
		x0, x1, y0, y1 := g.Bounds()
		return 0, fmt.Errorf("%w: (%.6g, %.6g) not in [%.6g, %.6g]×[%.6g, %.6g]", ErrOutOfRange, x, y, x0, x1, y0, y1)
	}

	cell := Cell{
		X0:  g.X[xi],
		X1:  g.X[xi+1],
		Y0:  g.Y[yi],
		Y1:  g.Y[yi+1],
		V00: g.Values[yi][xi],
		V10: g.Values[yi][xi+1],
		V01: g.Values[yi+1][xi],
		V11: g.Values[yi+1][xi+1],
	}
	return Bilinear(cell, x, y)
}

// MinMax returns the smallest and largest samples.
func (g *Grid2D) MinMax() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range g.Values {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// Bounds returns the coordinate extent.
func (g *Grid2D) Bounds() (x0, x1, y0, y1 float64) {
	return g.X[0], g.X[len(g.X)-1], g.Y[0], g.Y[len(g.Y)-1]
}
