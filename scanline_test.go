package shadecam

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanlineIntersectionsSquare(t *testing.T) {
	sq := Rectangle(105, 105, 70, 70) // corners (70,70)..(140,140)

	xs := ScanlineIntersections(sq, 105, 1e-9)
	require.Len(t, xs, 2)
	assert.InDelta(t, 70, xs[0], 1e-9)
	assert.InDelta(t, 140, xs[1], 1e-9)

	// outside the square entirely
	assert.Empty(t, ScanlineIntersections(sq, 150, 1e-9))
	assert.Empty(t, ScanlineIntersections(sq, 60, 1e-9))
}

func TestScanlineVertexGrazing(t *testing.T) {
	// a scanline exactly through a vertex of a diamond must count the
	// shared vertex once, not twice
	diamond := Polygon{
		{10, 0}, {20, 10}, {10, 20}, {0, 10}, {10, 0},
	}

	xs := ScanlineIntersections(diamond, 10, 1e-9)
	assert.Len(t, xs, 2)
}

func TestScanlineConcavePolygon(t *testing.T) {
	arrow := ArrowPolygon(0, 0, 20)

	// through the base notch: two separate interior runs
	_, _, ymin, ymax := arrow.BBox()
	y := ymin + 0.125*(ymax-ymin)
	xs := ScanlineIntersections(arrow, y, 1e-9)
	require.Len(t, xs, 4)

	segs, err := EvenOddSegments(xs, y, 0)
	require.NoError(t, err)
	assert.Len(t, segs, 2)
}

func TestEvenOddSegments(t *testing.T) {
	segs, err := EvenOddSegments([]float64{70, 90, 110, 130}, 100, 0)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.Equal(t, mgl64.Vec2{70, 100}, segs[0].Start)
	assert.Equal(t, mgl64.Vec2{90, 100}, segs[0].End)
	assert.Equal(t, mgl64.Vec2{110, 100}, segs[1].Start)
	assert.Equal(t, mgl64.Vec2{130, 100}, segs[1].End)
}

func TestEvenOddSegmentsMinLength(t *testing.T) {
	segs, err := EvenOddSegments([]float64{0, 0.1, 10, 20}, 5, 0.5)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.InDelta(t, 10, segs[0].Length(), 1e-9)
}

func TestEvenOddSegmentsOddCount(t *testing.T) {
	_, err := EvenOddSegments([]float64{10, 20, 30}, 5, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "odd number of scanline crossings")
}

func TestSerpentineInfillSquare(t *testing.T) {
	sq := Rectangle(105, 105, 70, 70)

	offset, scanYs, path, err := SerpentineInfill(sq, 6.0, 0.96, 0.3)
	require.NoError(t, err)

	// offset polygon shrinks about the centroid
	_, _, ymin, ymax := offset.BBox()
	assert.InDelta(t, 70*0.96, ymax-ymin, 1e-9)
	require.NotEmpty(t, scanYs)
	assert.Greater(t, scanYs[0], ymin)
	assert.Less(t, scanYs[len(scanYs)-1], ymax)

	// every chained point stays inside the offset bounding box
	xmin, xmax, _, _ := offset.BBox()
	require.NotEmpty(t, path)
	for _, pt := range path {
		assert.GreaterOrEqual(t, pt.X(), xmin-1e-9)
		assert.LessOrEqual(t, pt.X(), xmax+1e-9)
	}

	// boustrophedon: row y values never decrease along the path
	prevY := path[0].Y()
	for _, pt := range path[1:] {
		assert.GreaterOrEqual(t, pt.Y(), prevY-1e-9)
		prevY = pt.Y()
	}
}

func TestChainSerpentineDirection(t *testing.T) {
	rows := [][]Segment{
		{{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}},
		{{Start: mgl64.Vec2{0, 6}, End: mgl64.Vec2{10, 6}}},
	}

	pts := chainSerpentine(rows)
	require.Len(t, pts, 4)

	// even row left to right, odd row right to left
	assert.Equal(t, mgl64.Vec2{0, 0}, pts[0])
	assert.Equal(t, mgl64.Vec2{10, 0}, pts[1])
	assert.Equal(t, mgl64.Vec2{10, 6}, pts[2])
	assert.Equal(t, mgl64.Vec2{0, 6}, pts[3])
}
