package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/emwave-api/internal/domain"
)

func rgb(t *testing.T, c interface{ RGBA() (r, g, b, a uint32) }) (uint32, uint32, uint32) {
	t.Helper()
	r, g, b, a := c.RGBA()
	require.Equal(t, uint32(0xffff), a)
	return r >> 8, g >> 8, b >> 8
}

func TestDiverging(t *testing.T) {
	c := Diverging(paletteSize).Colors()
	require.Len(t, c, paletteSize)

	r, _, b := rgb(t, c[0])
	assert.Greater(t, b, r, "low end is blue")
	r, _, b = rgb(t, c[len(c)-1])
	assert.Greater(t, r, b, "high end is red")

	// The odd-length midpoint is white.
	mid := Diverging(5).Colors()[2]
	r, g, b := rgb(t, mid)
	assert.Equal(t, [3]uint32{255, 255, 255}, [3]uint32{r, g, b})
}

func TestHot(t *testing.T) {
	c := Hot(64).Colors()
	require.Len(t, c, 64)
	r, g, b := rgb(t, c[0])
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r, g, b})
	r, g, b = rgb(t, c[63])
	assert.Equal(t, [3]uint32{255, 255, 255}, [3]uint32{r, g, b})
}

func TestJet(t *testing.T) {
	c := Jet(3).Colors()
	require.Len(t, c, 3)
	r, g, b := rgb(t, c[0])
	assert.Equal(t, [3]uint32{0, 0, 255}, [3]uint32{r, g, b})
	r, g, b = rgb(t, c[2])
	assert.Equal(t, [3]uint32{255, 0, 0}, [3]uint32{r, g, b})

	assert.Len(t, Jet(0).Colors(), 2)
}

func TestFieldGrid(t *testing.T) {
	g := domain.NewGrid(0, 1, 3, 0, 2, 2)
	g.Values[1][2] = 7
	fg := fieldGrid{g: g, scale: 1e3}

	c, r := fg.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.InDelta(t, 7.0, fg.Z(2, 1), 0)
	assert.InDelta(t, 500.0, fg.X(1), 1e-9)
	assert.InDelta(t, 2000.0, fg.Y(1), 1e-9)
}

func TestUnits(t *testing.T) {
	assert.Equal(t, "mm", lengthUnit(0.03).label)
	assert.Equal(t, "nm", lengthUnit(600e-9).label)
	assert.Equal(t, "m", lengthUnit(3).label)
	assert.Equal(t, "GHz", frequencyUnit(10e9).label)
	assert.Equal(t, "THz", frequencyUnit(5e14).label)
	assert.Equal(t, "ps", timeUnit(1e-10).label)
	assert.Equal(t, "10 GHz", formatFrequency(10e9))
	assert.Equal(t, "30 mm", formatLength(0.03))
}
