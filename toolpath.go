package shadecam

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Toolpath is an ordered sequence of 3D nozzle positions. Within a spiral
// toolpath z never decreases.
type Toolpath []mgl64.Vec3

// ZIncrementPerPoint is the tiny Z rise between consecutive perimeter points
// such that one full revolution climbs exactly one layer height. Computed at
// the point of use instead of being cached on the parameter object.
func ZIncrementPerPoint(layerHeight float64, numPoints int) float64 {
	return layerHeight / float64(numPoints)
}

// SpiralToolpath converts the layer stack into one continuous helix: each
// layer's perimeter is traced with a steadily rising Z, so the seam between
// stacked loops disappears. The duplicate closing point of each perimeter is
// stripped first; the total point count is numLayers * numPoints.
func SpiralToolpath(layers []Layer, p *Params) Toolpath {
	zInc := ZIncrementPerPoint(p.LayerHeight, p.NumPoints)

	tp := make(Toolpath, 0, len(layers)*p.NumPoints)
	for _, layer := range layers {
		perimeter := layer.Perimeter.Open()
		for i, pt := range perimeter {
			tp = append(tp, mgl64.Vec3{pt.X(), pt.Y(), layer.Z + float64(i)*zInc})
		}
	}

	return tp
}

// TotalDistance sums the 3D segment lengths along the path.
func (tp Toolpath) TotalDistance() float64 {
	dist := 0.0
	for i := 1; i < len(tp); i++ {
		dist += tp[i].Sub(tp[i-1]).Len()
	}
	return dist
}

// MonotonicZ reports whether z never decreases along the path.
func (tp Toolpath) MonotonicZ() bool {
	for i := 1; i < len(tp); i++ {
		if tp[i].Z() < tp[i-1].Z() {
			return false
		}
	}
	return true
}

// Simplified removes points that lie on a straight line between their
// neighbours, comparing segment angles in the xy, xz and yz planes. The
// first and last points always survive.
func (tp Toolpath) Simplified() Toolpath {
	if len(tp) <= 2 {
		return tp
	}

	epsilon := 0.00001

	out := Toolpath{tp[0]}
	prev := tp[1]

	for i := 2; i < len(tp); i++ {
		first := out[len(out)-1]
		cur := tp[i]

		prevXY := math.Atan2(prev.Y()-first.Y(), prev.X()-first.X())
		curXY := math.Atan2(cur.Y()-prev.Y(), cur.X()-prev.X())
		prevXZ := math.Atan2(prev.Z()-first.Z(), prev.X()-first.X())
		curXZ := math.Atan2(cur.Z()-prev.Z(), cur.X()-prev.X())
		prevYZ := math.Atan2(prev.Z()-first.Z(), prev.Y()-first.Y())
		curYZ := math.Atan2(cur.Z()-prev.Z(), cur.Y()-prev.Y())

		// if first->prev and prev->cur run at the same angle then
		// first->prev->cur is a straight line and prev can go
		if math.Abs(curXY-prevXY) > epsilon || math.Abs(curXZ-prevXZ) > epsilon || math.Abs(curYZ-prevYZ) > epsilon {
			out = append(out, prev)
		}
		prev = cur
	}

	out = append(out, prev)

	return out
}
