package contour

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareMask returns an h x w mask with a filled square of the given size at
// (x0, y0).
func squareMask(w, h, x0, y0, size int) [][]bool {
	mask := make([][]bool, h)
	for y := range mask {
		mask[y] = make([]bool, w)
	}
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			mask[y][x] = true
		}
	}
	return mask
}

func TestLargestContourSquare(t *testing.T) {
	mask := squareMask(20, 20, 5, 5, 8)

	ring, err := LargestContour(mask)
	require.NoError(t, err)

	// boundary of an 8x8 square is 28 pixels
	assert.Len(t, ring, 28)
	assert.Equal(t, mgl64.Vec2{5, 5}, ring[0])

	// every contour pixel lies on the square's edge
	for _, p := range ring {
		x, y := p.X(), p.Y()
		onEdge := x == 5 || x == 12 || y == 5 || y == 12
		assert.True(t, onEdge, "interior pixel (%v, %v) in contour", x, y)
	}
}

func TestLargestContourPicksBiggest(t *testing.T) {
	// small blob top-left, big blob bottom-right
	mask := squareMask(30, 30, 2, 2, 3)
	for y := 15; y < 25; y++ {
		for x := 15; x < 25; x++ {
			mask[y][x] = true
		}
	}

	ring, err := LargestContour(mask)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{15, 15}, ring[0])
}

func TestLargestContourErrors(t *testing.T) {
	_, err := LargestContour(nil)
	assert.Error(t, err)

	empty := squareMask(10, 10, 0, 0, 0)
	_, err = LargestContour(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no foreground")
}

func TestLargestContourSinglePixel(t *testing.T) {
	mask := squareMask(5, 5, 2, 2, 1)
	ring, err := LargestContour(mask)
	require.NoError(t, err)
	require.Len(t, ring, 1)
	assert.Equal(t, mgl64.Vec2{2, 2}, ring[0])
}

func TestSmoothClosed(t *testing.T) {
	// smoothing a square ring pulls the corners inward but keeps the
	// centroid
	ring := []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	smoothed := SmoothClosed(ring, 2)
	require.Len(t, smoothed, 4)

	var c0, c1 mgl64.Vec2
	for i := range ring {
		c0 = c0.Add(ring[i])
		c1 = c1.Add(smoothed[i])
	}
	assert.InDelta(t, c0.X(), c1.X(), 1e-9)
	assert.InDelta(t, c0.Y(), c1.Y(), 1e-9)

	// corners moved toward the centre
	assert.Less(t, smoothed[0].Sub(mgl64.Vec2{5, 5}).Len(), ring[0].Sub(mgl64.Vec2{5, 5}).Len())

	// tiny rings pass through untouched
	two := []mgl64.Vec2{{0, 0}, {1, 1}}
	assert.Equal(t, two, SmoothClosed(two, 3))
}

func TestResampleClosed(t *testing.T) {
	// unit square perimeter resampled to 8 points: uniform spacing of 0.5
	ring := []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	out := ResampleClosed(ring, 8)
	require.Len(t, out, 8)
	assert.Equal(t, mgl64.Vec2{0, 0}, out[0])

	for i := range out {
		next := out[(i+1)%len(out)]
		assert.InDelta(t, 0.5, next.Sub(out[i]).Len(), 1e-9)
	}
}

func TestPixelsToMM(t *testing.T) {
	xy := []mgl64.Vec2{{0, 0}, {100, 50}}

	mm := PixelsToMM(xy, 10, 100)
	require.Len(t, mm, 2)

	// 10 px/mm, 100px tall image: (0,0) is the top-left corner, so it
	// maps to y = 10mm
	assert.Equal(t, mgl64.Vec2{0, 10}, mm[0])
	assert.Equal(t, mgl64.Vec2{10, 5}, mm[1])
}

func TestRecenterAndScaleToWidth(t *testing.T) {
	xy := []mgl64.Vec2{{10, 10}, {30, 10}, {30, 20}, {10, 20}}

	out, err := RecenterAndScaleToWidth(xy, 60)
	require.NoError(t, err)

	xmin, xmax := out[0].X(), out[0].X()
	ymin, ymax := out[0].Y(), out[0].Y()
	for _, p := range out[1:] {
		xmin = math.Min(xmin, p.X())
		xmax = math.Max(xmax, p.X())
		ymin = math.Min(ymin, p.Y())
		ymax = math.Max(ymax, p.Y())
	}

	assert.InDelta(t, 60, xmax-xmin, 1e-9)
	assert.InDelta(t, 30, ymax-ymin, 1e-9) // aspect preserved
	assert.InDelta(t, 0, (xmin+xmax)/2, 1e-9)
	assert.InDelta(t, 0, (ymin+ymax)/2, 1e-9)

	_, err = RecenterAndScaleToWidth(nil, 60)
	assert.Error(t, err)

	_, err = RecenterAndScaleToWidth([]mgl64.Vec2{{5, 5}, {5, 9}}, 60)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-positive width")
}

func TestPointsRoundTrip(t *testing.T) {
	xy := []mgl64.Vec2{{1.5, -2.25}, {0, 0}, {1e6, 1e-6}}

	path := filepath.Join(t.TempDir(), "contour.pts")
	require.NoError(t, WritePointsFile(path, xy))

	got, err := ReadPointsFile(path)
	require.NoError(t, err)
	assert.Equal(t, xy, got)
}

func TestReadPointsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pts")
	require.NoError(t, os.WriteFile(path, []byte("NOPE\x00\x00\x00\x00"), 0644))

	_, err := ReadPointsFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad magic")
}
