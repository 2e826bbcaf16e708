package shadecam

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Segment is a horizontal run of polygon interior at height Y.
type Segment struct {
	Start mgl64.Vec2
	End   mgl64.Vec2
}

func (s Segment) Length() float64 {
	return s.End.Sub(s.Start).Len()
}

// ScanlineIntersections returns the sorted x-coordinates where the
// horizontal line at height y crosses the boundary of the closed polygon.
//
// Each edge uses the half-open test min(y0,y1) <= y < max(y0,y1) so a vertex
// shared by two edges is counted exactly once, and edges that are themselves
// horizontal (within eps) contribute nothing.
func ScanlineIntersections(poly Polygon, y, eps float64) []float64 {
	poly = poly.EnsureClosed()

	var xs []float64
	for i := 0; i+1 < len(poly); i++ {
		p0, p1 := poly[i], poly[i+1]
		y0, y1 := p0.Y(), p1.Y()

		if math.Abs(y1-y0) < eps {
			continue
		}
		if y < math.Min(y0, y1) || y >= math.Max(y0, y1) {
			continue
		}

		f := (y - y0) / (y1 - y0)
		xs = append(xs, p0.X()+f*(p1.X()-p0.X()))
	}

	sort.Float64s(xs)
	return xs
}

// EvenOddSegments pairs sorted scanline crossings into interior segments at
// height y: under the even-odd rule the region between crossings 0-1 is
// inside, 1-2 outside, and so on. Segments shorter than minSegLen are
// dropped. An odd crossing count means the polygon is non-simple or the
// scanline grazed a vertex; that is reported as an error rather than being
// resolved silently.
func EvenOddSegments(xs []float64, y, minSegLen float64) ([]Segment, error) {
	if len(xs)%2 != 0 {
		return nil, fmt.Errorf("odd number of scanline crossings (%d) at y=%.3f: polygon is degenerate or non-simple", len(xs), y)
	}

	var segs []Segment
	for i := 0; i+1 < len(xs); i += 2 {
		s := Segment{
			Start: mgl64.Vec2{xs[i], y},
			End:   mgl64.Vec2{xs[i+1], y},
		}
		if s.Length() >= minSegLen {
			segs = append(segs, s)
		}
	}

	return segs, nil
}

// SerpentineInfill sweeps horizontal scanlines across the perimeter (shrunk
// by offsetScale so the fill stays clear of the wall) and chains the
// resulting interior segments into one boustrophedon path: even rows run
// left to right, odd rows right to left.
//
// Returns the offset polygon, the scanned y heights and the chained path.
func SerpentineInfill(perimeter Polygon, spacing, offsetScale, minSegLen float64) (Polygon, []float64, []mgl64.Vec2, error) {
	offset := perimeter.Scaled(offsetScale)
	_, _, ymin, ymax := offset.BBox()

	var rows [][]Segment
	var scanYs []float64

	for y := ymin + 0.5*spacing; y <= ymax-0.25*spacing; y += spacing {
		xs := ScanlineIntersections(offset, y, 1e-9)
		segs, err := EvenOddSegments(xs, y, minSegLen)
		if err != nil {
			return nil, nil, nil, err
		}
		rows = append(rows, segs)
		scanYs = append(scanYs, y)
	}

	return offset, scanYs, chainSerpentine(rows), nil
}

func chainSerpentine(rows [][]Segment) []mgl64.Vec2 {
	var pts []mgl64.Vec2

	for rowIdx, row := range rows {
		if len(row) == 0 {
			continue
		}

		sorted := make([]Segment, len(row))
		copy(sorted, row)
		sort.Slice(sorted, func(i, j int) bool {
			return math.Min(sorted[i].Start.X(), sorted[i].End.X()) < math.Min(sorted[j].Start.X(), sorted[j].End.X())
		})

		var rowPts []mgl64.Vec2
		if rowIdx%2 == 0 {
			for _, s := range sorted {
				a, b := s.Start, s.End
				if a.X() > b.X() {
					a, b = b, a
				}
				rowPts = append(rowPts, a, b)
			}
		} else {
			for i := len(sorted) - 1; i >= 0; i-- {
				a, b := sorted[i].Start, sorted[i].End
				if a.X() < b.X() {
					a, b = b, a
				}
				rowPts = append(rowPts, a, b)
			}
		}

		if len(pts) > 0 && pts[len(pts)-1].Sub(rowPts[0]).Len() <= 1e-6 {
			rowPts = rowPts[1:]
		}
		pts = append(pts, rowPts...)
	}

	return pts
}
