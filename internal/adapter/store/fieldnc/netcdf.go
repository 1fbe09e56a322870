// Package fieldnc reads and writes sampled field grids as NetCDF files.
//
// A file holds two coordinate variables, x and y (meters), and one 2-D data
// variable over (y, x) carrying units and long_name attributes. Global
// attributes record the phenomenon, the source frequency and the name of the
// data variable.
package fieldnc

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/emwave-api/internal/adapter/interp"
	"go.ngs.io/emwave-api/internal/adapter/store"
	"go.ngs.io/emwave-api/internal/domain"
)

const (
	xVarName = "x"
	yVarName = "y"

	attrUnits      = "units"
	attrLongName   = "long_name"
	attrPhenomenon = "phenomenon"
	attrFrequency  = "frequency_hz"
	attrFieldVar   = "field_variable"
	attrValidMin   = "valid_min"
	attrValidMax   = "valid_max"
)

// Writer implements store.FieldWriter.
type Writer struct{}

var _ store.FieldWriter = Writer{}

// WriteGrid writes the grid to path, replacing any existing file.
func (Writer) WriteGrid(path string, grid domain.Grid, meta store.FieldMeta) error {
	return WriteGrid(path, grid, meta)
}

// WriteGrid writes the grid to path, replacing any existing file.
func WriteGrid(path string, grid domain.Grid, meta store.FieldMeta) error {
	g := interp.FromDomain(grid)
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	lo, hi := g.MinMax()
	if meta.Variable == "" {
		meta.Variable = "field"
	}

	f, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create NetCDF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	yDim, err := f.AddDim(yVarName, uint64(len(grid.Y)))
	if err != nil {
		return fmt.Errorf("failed to add y dimension: %w", err)
	}
	xDim, err := f.AddDim(xVarName, uint64(len(grid.X)))
	if err != nil {
		return fmt.Errorf("failed to add x dimension: %w", err)
	}

	xVar, err := f.AddVar(xVarName, netcdf.DOUBLE, []netcdf.Dim{xDim})
	if err != nil {
		return fmt.Errorf("failed to add x variable: %w", err)
	}
	yVar, err := f.AddVar(yVarName, netcdf.DOUBLE, []netcdf.Dim{yDim})
	if err != nil {
		return fmt.Errorf("failed to add y variable: %w", err)
	}
	dataVar, err := f.AddVar(meta.Variable, netcdf.DOUBLE, []netcdf.Dim{yDim, xDim})
	if err != nil {
		return fmt.Errorf("failed to add %s variable: %w", meta.Variable, err)
	}

	attrs := []struct {
		a     netcdf.Attr
		value string
	}{
		{xVar.Attr(attrUnits), "m"},
		{xVar.Attr(attrLongName), "x position"},
		{yVar.Attr(attrUnits), "m"},
		{yVar.Attr(attrLongName), "y position"},
		{dataVar.Attr(attrUnits), meta.Units},
		{dataVar.Attr(attrLongName), meta.LongName},
		{f.Attr(attrPhenomenon), meta.Phenomenon},
		{f.Attr(attrFieldVar), meta.Variable},
	}
	for _, at := range attrs {
		if at.value == "" {
			continue
		}
		if err := at.a.WriteBytes([]byte(at.value)); err != nil {
			return fmt.Errorf("failed to write attribute %s: %w", at.a.Name(), err)
		}
	}
	for name, v := range map[string]float64{attrValidMin: lo, attrValidMax: hi} {
		if err := dataVar.Attr(name).WriteFloat64s([]float64{v}); err != nil {
			return fmt.Errorf("failed to write attribute %s: %w", name, err)
		}
	}
	if meta.Frequency > 0 {
		if err := f.Attr(attrFrequency).WriteFloat64s([]float64{meta.Frequency}); err != nil {
			return fmt.Errorf("failed to write attribute %s: %w", attrFrequency, err)
		}
	}

	if err := f.EndDef(); err != nil {
		return fmt.Errorf("failed to end define mode: %w", err)
	}

	if err := xVar.WriteFloat64s(grid.X); err != nil {
		return fmt.Errorf("failed to write x: %w", err)
	}
	if err := yVar.WriteFloat64s(grid.Y); err != nil {
		return fmt.Errorf("failed to write y: %w", err)
	}

	flat := make([]float64, 0, len(grid.X)*len(grid.Y))
	for _, row := range grid.Values {
		flat = append(flat, row...)
	}
	if err := dataVar.WriteFloat64s(flat); err != nil {
		return fmt.Errorf("failed to write %s: %w", meta.Variable, err)
	}
	return nil
}

// ReadGrid loads a field grid. An empty variable name selects the variable
// named by the field_variable global attribute.
func ReadGrid(path, variable string) (*interp.Grid2D, store.FieldMeta, error) {
	var meta store.FieldMeta

	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	meta.Phenomenon = readStringAttr(nc.Attr(attrPhenomenon))
	if variable == "" {
		variable = readStringAttr(nc.Attr(attrFieldVar))
	}
	if variable == "" {
		return nil, meta, fmt.Errorf("no field variable given and %s attribute missing", attrFieldVar)
	}
	meta.Variable = variable
	if buf := make([]float64, 1); readFloatAttr(nc.Attr(attrFrequency), buf) {
		meta.Frequency = buf[0]
	}

	x, err := readAxis(nc, xVarName)
	if err != nil {
		return nil, meta, err
	}
	y, err := readAxis(nc, yVarName)
	if err != nil {
		return nil, meta, err
	}

	v, err := nc.Var(variable)
	if err != nil {
		return nil, meta, fmt.Errorf("variable %s not found: %w", variable, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, meta, fmt.Errorf("failed to get dimensions of %s: %w", variable, err)
	}
	if len(dims) != 2 {
		return nil, meta, fmt.Errorf("expected 2D variable %s, got %dD", variable, len(dims))
	}
	ny, err := dims[0].Len()
	if err != nil {
		return nil, meta, err
	}
	nx, err := dims[1].Len()
	if err != nil {
		return nil, meta, err
	}
	if int(ny) != len(y) || int(nx) != len(x) {
		return nil, meta, fmt.Errorf("%s is %dx%d, coordinates are %dx%d", variable, ny, nx, len(y), len(x))
	}

	flat, err := readFloat64s(v, int(nx*ny))
	if err != nil {
		return nil, meta, fmt.Errorf("failed to read %s: %w", variable, err)
	}
	meta.Units = readStringAttr(v.Attr(attrUnits))
	meta.LongName = readStringAttr(v.Attr(attrLongName))
	buf := make([]float64, 1)
	if readFloatAttr(v.Attr(attrValidMin), buf) {
		meta.ValidMin = buf[0]
	}
	if readFloatAttr(v.Attr(attrValidMax), buf) {
		meta.ValidMax = buf[0]
	}

	grid := &interp.Grid2D{X: x, Y: y, Values: make([][]float64, ny)}
	for i := range grid.Values {
		grid.Values[i] = flat[i*int(nx) : (i+1)*int(nx)]
	}
	if err := grid.Validate(); err != nil {
		return nil, meta, fmt.Errorf("invalid grid: %w", err)
	}
	return grid, meta, nil
}

func readAxis(nc netcdf.Dataset, name string) ([]float64, error) {
	v, err := nc.Var(name)
	if err != nil {
		return nil, fmt.Errorf("coordinate variable %s not found: %w", name, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions of %s: %w", name, err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D coordinate %s, got %dD", name, len(dims))
	}
	n, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	return readFloat64s(v, int(n))
}

// readFloat64s reads a DOUBLE or FLOAT variable as float64.
func readFloat64s(v netcdf.Var, n int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, err
	}
	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, n)
		if err := v.ReadFloat64s(data); err != nil {
			return nil, err
		}
		return data, nil
	case netcdf.FLOAT:
		tmp := make([]float32, n)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported data type: %v", t)
	}
}

func readStringAttr(a netcdf.Attr) string {
	n, err := a.Len()
	if err != nil || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return ""
	}
	return string(buf)
}

func readFloatAttr(a netcdf.Attr, buf []float64) bool {
	n, err := a.Len()
	if err != nil || n == 0 {
		return false
	}
	return a.ReadFloat64s(buf) == nil
}
