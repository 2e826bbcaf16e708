package shadecam

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZIncrementPerPoint(t *testing.T) {
	assert.InDelta(t, 0.003125, ZIncrementPerPoint(0.2, 64), 1e-12)
}

func TestSpiralToolpath(t *testing.T) {
	p := testParams()
	p.TotalHeight = 10
	p.LayerHeight = 2
	p.NumPoints = 16

	layers := GenerateLayers(&p)
	tp := SpiralToolpath(layers, &p)

	// duplicate closing point stripped: exactly layers * numPoints
	require.Len(t, tp, len(layers)*p.NumPoints)
	assert.True(t, tp.MonotonicZ())

	// z is strictly increasing within the spiral and each revolution
	// climbs exactly one layer height
	for i := 1; i < len(tp); i++ {
		assert.Greater(t, tp[i].Z(), tp[i-1].Z())
	}
	assert.InDelta(t, p.LayerHeight, tp[p.NumPoints].Z()-tp[0].Z(), 1e-9)

	// first point sits at the first layer height, last just below the top
	assert.InDelta(t, p.LayerHeight, tp[0].Z(), 1e-9)
	zInc := ZIncrementPerPoint(p.LayerHeight, p.NumPoints)
	assert.InDelta(t, p.TotalHeight+float64(p.NumPoints-1)*zInc, tp[len(tp)-1].Z(), 1e-9)
}

func TestTotalDistance(t *testing.T) {
	tp := Toolpath{
		{0, 0, 0},
		{3, 4, 0},
		{3, 4, 2},
	}
	assert.InDelta(t, 7, tp.TotalDistance(), 1e-9)
}

func TestMonotonicZ(t *testing.T) {
	up := Toolpath{{0, 0, 0}, {1, 0, 0.5}, {2, 0, 1}}
	assert.True(t, up.MonotonicZ())

	down := Toolpath{{0, 0, 1}, {1, 0, 0.5}}
	assert.False(t, down.MonotonicZ())
}

func TestSimplified(t *testing.T) {
	// collinear run collapses to its endpoints
	tp := Toolpath{
		{0, 0, 0},
		{1, 1, 0.1},
		{2, 2, 0.2},
		{3, 3, 0.3},
		{3, 10, 0.3},
	}

	got := tp.Simplified()
	require.Len(t, got, 3)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, got[0])
	assert.Equal(t, mgl64.Vec3{3, 3, 0.3}, got[1])
	assert.Equal(t, mgl64.Vec3{3, 10, 0.3}, got[2])

	// a genuine corner in z survives even when xy is collinear
	ramp := Toolpath{
		{0, 0, 0},
		{1, 0, 0},
		{2, 0, 1},
	}
	assert.Len(t, ramp.Simplified(), 3)

	// short paths come back untouched
	short := Toolpath{{0, 0, 0}, {1, 0, 0}}
	assert.Len(t, short.Simplified(), 2)
}
