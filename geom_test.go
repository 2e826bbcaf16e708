package shadecam

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonClosure(t *testing.T) {
	open := Polygon{{0, 0}, {1, 0}, {1, 1}}
	assert.False(t, open.IsClosed())

	closed := open.EnsureClosed()
	require.Len(t, closed, 4)
	assert.True(t, closed.IsClosed())

	// already closed: unchanged
	assert.Len(t, closed.EnsureClosed(), 4)

	assert.Len(t, closed.Open(), 3)
	assert.Len(t, open.Open(), 3)
}

func TestPolygonCentroid(t *testing.T) {
	sq := Rectangle(10, 20, 4, 4)
	c := sq.Centroid()
	assert.InDelta(t, 10, c.X(), 1e-9)
	assert.InDelta(t, 20, c.Y(), 1e-9)
}

func TestPolygonScaled(t *testing.T) {
	sq := Rectangle(10, 10, 20, 20)
	shrunk := sq.Scaled(0.5)

	assert.True(t, shrunk.IsClosed())
	xmin, xmax, ymin, ymax := shrunk.BBox()
	assert.InDelta(t, 10, xmax-xmin, 1e-9)
	assert.InDelta(t, 10, ymax-ymin, 1e-9)

	// centroid is the fixed point
	c := shrunk.Centroid()
	assert.InDelta(t, 10, c.X(), 1e-9)
	assert.InDelta(t, 10, c.Y(), 1e-9)
}

func TestPolygonBBox(t *testing.T) {
	p := Polygon{{-3, 7}, {5, -2}, {0, 0}}
	xmin, xmax, ymin, ymax := p.BBox()
	assert.Equal(t, -3.0, xmin)
	assert.Equal(t, 5.0, xmax)
	assert.Equal(t, -2.0, ymin)
	assert.Equal(t, 7.0, ymax)

	var empty Polygon
	xmin, xmax, ymin, ymax = empty.BBox()
	assert.Zero(t, xmin)
	assert.Zero(t, xmax)
	assert.Zero(t, ymin)
	assert.Zero(t, ymax)
}

func TestArrowPolygonNotch(t *testing.T) {
	arrow := ArrowPolygon(0, 0, 10)
	require.True(t, arrow.IsClosed())

	// the notch vertex sits strictly inside the bounding box
	_, _, ymin, _ := arrow.BBox()
	notch := mgl64.Vec2{0, -10}
	assert.Contains(t, []mgl64.Vec2(arrow), notch)
	assert.Greater(t, notch.Y(), ymin)
}
