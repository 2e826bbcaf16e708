package contour

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// mooreOffsets is the clockwise 8-neighbourhood starting at west, in image
// coordinates (y grows downward).
var mooreOffsets = [8][2]int{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// LargestContour extracts the outer boundary of the biggest connected
// foreground region in the mask, as an ordered open ring of (x, y) pixel
// coordinates. Foreground regions are found by flood fill; the winner's
// boundary is walked with Moore neighbour tracing from its topmost-leftmost
// pixel.
func LargestContour(mask [][]bool) ([]mgl64.Vec2, error) {
	if len(mask) == 0 || len(mask[0]) == 0 {
		return nil, errors.New("empty mask")
	}
	h, w := len(mask), len(mask[0])

	labels := make([][]int, h)
	for y := range labels {
		labels[y] = make([]int, w)
	}

	bestLabel, bestSize := 0, 0
	next := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y][x] || labels[y][x] != 0 {
				continue
			}
			next++
			size := floodFill(mask, labels, x, y, next)
			if size > bestSize {
				bestSize = size
				bestLabel = next
			}
		}
	}
	if bestLabel == 0 {
		return nil, errors.New("no foreground pixels in mask")
	}

	inside := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && labels[y][x] == bestLabel
	}

	// topmost-leftmost pixel of the winning region: its west neighbour is
	// guaranteed to be background, which seeds the backtrack direction
	startX, startY := -1, -1
	for y := 0; y < h && startX < 0; y++ {
		for x := 0; x < w; x++ {
			if labels[y][x] == bestLabel {
				startX, startY = x, y
				break
			}
		}
	}

	contour := []mgl64.Vec2{{float64(startX), float64(startY)}}
	if bestSize == 1 {
		return contour, nil
	}

	cx, cy := startX, startY
	dir := 0 // index into mooreOffsets of the backtrack neighbour (west)

	maxSteps := 4 * w * h
	for step := 0; step < maxSteps; step++ {
		found := false
		for i := 1; i <= 8; i++ {
			d := (dir + i) % 8
			nx, ny := cx+mooreOffsets[d][0], cy+mooreOffsets[d][1]
			if inside(nx, ny) {
				// backtrack points at the background neighbour we
				// examined just before entering the new pixel
				dir = (d + 5) % 8
				cx, cy = nx, ny
				found = true
				break
			}
		}
		if !found {
			// isolated pixel ring of one
			break
		}
		if cx == startX && cy == startY {
			break
		}
		contour = append(contour, mgl64.Vec2{float64(cx), float64(cy)})
	}

	return contour, nil
}

func floodFill(mask [][]bool, labels [][]int, x, y, label int) int {
	h, w := len(mask), len(mask[0])
	queue := [][2]int{{x, y}}
	labels[y][x] = label
	size := 0

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		size++

		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nx, ny := c[0]+d[0], c[1]+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if mask[ny][nx] && labels[ny][nx] == 0 {
				labels[ny][nx] = label
				queue = append(queue, [2]int{nx, ny})
			}
		}
	}

	return size
}

// SmoothClosed applies the given number of neighbour-averaging passes to a
// closed ring (given without its duplicate end point), wrapping at the ends.
func SmoothClosed(ring []mgl64.Vec2, passes int) []mgl64.Vec2 {
	if len(ring) < 3 {
		return ring
	}

	out := make([]mgl64.Vec2, len(ring))
	copy(out, ring)

	for pass := 0; pass < passes; pass++ {
		next := make([]mgl64.Vec2, len(out))
		for i := range out {
			prev := out[(i+len(out)-1)%len(out)]
			cur := out[i]
			after := out[(i+1)%len(out)]
			next[i] = prev.Add(cur).Add(after).Mul(1.0 / 3.0)
		}
		out = next
	}

	return out
}

// ResampleClosed redistributes n points evenly by arc length around a closed
// ring (given and returned without the duplicate end point).
func ResampleClosed(ring []mgl64.Vec2, n int) []mgl64.Vec2 {
	if len(ring) < 2 || n < 3 {
		return ring
	}

	// cumulative arc length including the closing edge
	cum := make([]float64, len(ring)+1)
	for i := 1; i <= len(ring); i++ {
		cum[i] = cum[i-1] + ring[i%len(ring)].Sub(ring[i-1]).Len()
	}
	total := cum[len(ring)]
	if total <= 0 {
		return ring
	}

	out := make([]mgl64.Vec2, 0, n)
	seg := 0
	for i := 0; i < n; i++ {
		target := total * float64(i) / float64(n)
		for seg+1 < len(cum) && cum[seg+1] < target {
			seg++
		}

		segLen := cum[seg+1] - cum[seg]
		f := 0.0
		if segLen > 0 {
			f = (target - cum[seg]) / segLen
		}

		a := ring[seg%len(ring)]
		b := ring[(seg+1)%len(ring)]
		out = append(out, a.Add(b.Sub(a).Mul(f)))
	}

	return out
}

// PixelsToMM converts pixel coordinates to millimetres and flips the y axis
// so the shape is upright in machine coordinates.
func PixelsToMM(xy []mgl64.Vec2, pxPerMM float64, imgHeightPx int) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(xy))
	for i, p := range xy {
		out[i] = mgl64.Vec2{p.X() / pxPerMM, (float64(imgHeightPx) - p.Y()) / pxPerMM}
	}
	return out
}

// RecenterAndScaleToWidth translates the ring to the origin and scales it so
// its bounding-box width matches targetWidth.
func RecenterAndScaleToWidth(xy []mgl64.Vec2, targetWidth float64) ([]mgl64.Vec2, error) {
	if len(xy) == 0 {
		return nil, errors.New("empty contour")
	}

	xmin, xmax := xy[0].X(), xy[0].X()
	ymin, ymax := xy[0].Y(), xy[0].Y()
	for _, p := range xy[1:] {
		xmin = math.Min(xmin, p.X())
		xmax = math.Max(xmax, p.X())
		ymin = math.Min(ymin, p.Y())
		ymax = math.Max(ymax, p.Y())
	}

	w := xmax - xmin
	if w <= 0 {
		return nil, errors.New("contour has non-positive width")
	}

	cx, cy := (xmin+xmax)/2, (ymin+ymax)/2
	s := targetWidth / w

	out := make([]mgl64.Vec2, len(xy))
	for i, p := range xy {
		out[i] = mgl64.Vec2{(p.X() - cx) * s, (p.Y() - cy) * s}
	}
	return out, nil
}
