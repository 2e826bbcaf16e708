package shadecam

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Polygon is an ordered sequence of 2D vertices. A closed polygon repeats
// its first vertex as the last one.
type Polygon []mgl64.Vec2

const closeEps = 1e-9

// IsClosed reports whether the first and last vertices coincide.
func (poly Polygon) IsClosed() bool {
	if len(poly) < 2 {
		return false
	}
	return poly[0].Sub(poly[len(poly)-1]).Len() <= closeEps
}

// EnsureClosed returns the polygon with its first vertex appended at the end
// if it is not already closed.
func (poly Polygon) EnsureClosed() Polygon {
	if len(poly) == 0 || poly.IsClosed() {
		return poly
	}
	out := make(Polygon, len(poly)+1)
	copy(out, poly)
	out[len(poly)] = poly[0]
	return out
}

// Open returns the polygon without its duplicate closing vertex.
func (poly Polygon) Open() Polygon {
	if poly.IsClosed() {
		return poly[:len(poly)-1]
	}
	return poly
}

// BBox returns the axis-aligned bounds (xmin, xmax, ymin, ymax).
func (poly Polygon) BBox() (xmin, xmax, ymin, ymax float64) {
	if len(poly) == 0 {
		return 0, 0, 0, 0
	}
	xmin, xmax = poly[0].X(), poly[0].X()
	ymin, ymax = poly[0].Y(), poly[0].Y()
	for _, v := range poly[1:] {
		if v.X() < xmin {
			xmin = v.X()
		}
		if v.X() > xmax {
			xmax = v.X()
		}
		if v.Y() < ymin {
			ymin = v.Y()
		}
		if v.Y() > ymax {
			ymax = v.Y()
		}
	}
	return xmin, xmax, ymin, ymax
}

// Centroid returns the vertex mean, ignoring the duplicate closing vertex.
func (poly Polygon) Centroid() mgl64.Vec2 {
	open := poly.Open()
	var c mgl64.Vec2
	if len(open) == 0 {
		return c
	}
	for _, v := range open {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(open)))
}

// Scaled shrinks or grows the polygon about its centroid. Used to offset a
// perimeter inward so infill stays clear of the wall by roughly a line width.
func (poly Polygon) Scaled(scale float64) Polygon {
	open := poly.Open()
	c := open.Centroid()
	out := make(Polygon, 0, len(open)+1)
	for _, v := range open {
		out = append(out, c.Add(v.Sub(c).Mul(scale)))
	}
	return out.EnsureClosed()
}

// Rectangle returns a closed axis-aligned rectangle of size w x h centred at
// (cx, cy).
func Rectangle(cx, cy, w, h float64) Polygon {
	x0, x1 := cx-w/2, cx+w/2
	y0, y1 := cy-h/2, cy+h/2
	return Polygon{
		{x0, y0},
		{x1, y0},
		{x1, y1},
		{x0, y1},
	}.EnsureClosed()
}

// ArrowPolygon returns a closed concave quadrilateral (a dart) centred at
// (cx, cy) with scale s: an upward arrowhead whose base is notched, so a
// horizontal scanline through the notch crosses the boundary four times.
// That makes it the fixture of choice for exercising the even-odd rule.
func ArrowPolygon(cx, cy, s float64) Polygon {
	return Polygon{
		{cx, cy + 2*s},
		{cx + 2*s, cy - 2*s},
		{cx, cy - s},
		{cx - 2*s, cy - 2*s},
	}.EnsureClosed()
}
