package shadecam

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ProfileShape selects the radius-vs-height curve of the revolved shade.
type ProfileShape int

const (
	Linear ProfileShape = iota
	Concave
	Convex
	Sinusoidal
)

func ParseProfileShape(s string) (ProfileShape, error) {
	switch s {
	case "linear":
		return Linear, nil
	case "concave":
		return Concave, nil
	case "convex":
		return Convex, nil
	case "sinusoidal":
		return Sinusoidal, nil
	}
	return Linear, fmt.Errorf("unrecognised profile shape: %s", s)
}

func (p ProfileShape) String() string {
	switch p {
	case Concave:
		return "concave"
	case Convex:
		return "convex"
	case Sinusoidal:
		return "sinusoidal"
	default:
		return "linear"
	}
}

func (p ProfileShape) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

func (p *ProfileShape) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	shape, err := ParseProfileShape(s)
	if err != nil {
		return err
	}
	*p = shape
	return nil
}

// TwistCurve selects how the twist angle accumulates over the height.
type TwistCurve int

const (
	TwistLinear TwistCurve = iota
	TwistAccelerating
	TwistDecelerating
)

func ParseTwistCurve(s string) (TwistCurve, error) {
	switch s {
	case "linear":
		return TwistLinear, nil
	case "accelerating":
		return TwistAccelerating, nil
	case "decelerating":
		return TwistDecelerating, nil
	}
	return TwistLinear, fmt.Errorf("unrecognised twist curve: %s", s)
}

func (c TwistCurve) String() string {
	switch c {
	case TwistAccelerating:
		return "accelerating"
	case TwistDecelerating:
		return "decelerating"
	default:
		return "linear"
	}
}

func (c TwistCurve) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c *TwistCurve) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	curve, err := ParseTwistCurve(s)
	if err != nil {
		return err
	}
	*c = curve
	return nil
}

// RadiusAtHeight returns the shade radius at height z, before twist and wave
// are applied. The height is normalised to t in [0,1] and the shape selects
// how t maps onto the base-to-top interpolation:
//
//	Linear:     straight taper
//	Concave:    t^2, slow change near the base
//	Convex:     sqrt(t), rapid change near the base
//	Sinusoidal: linear taper plus a ripple of 4 full periods
//
// The function is total: any out-of-range z is clamped and an unknown shape
// behaves as Linear.
func RadiusAtHeight(z, baseRadius, topRadius, totalHeight float64, shape ProfileShape) float64 {
	t := z / totalHeight
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	switch shape {
	case Concave:
		return baseRadius + t*t*(topRadius-baseRadius)
	case Convex:
		return baseRadius + math.Sqrt(t)*(topRadius-baseRadius)
	case Sinusoidal:
		amplitude := 0.05 * (baseRadius + topRadius) / 2
		return baseRadius + t*(topRadius-baseRadius) + amplitude*math.Sin(4*math.Pi*t)
	default:
		return baseRadius + t*(topRadius-baseRadius)
	}
}

// TwistAngle returns the rotation, in radians, applied to the layer at
// height z. Zero when twist is disabled.
func TwistAngle(z float64, p *Params) float64 {
	if !p.TwistEnabled {
		return 0
	}

	t := z / p.TotalHeight
	totalTwist := p.TwistDegrees * math.Pi / 180

	switch p.TwistType {
	case TwistAccelerating:
		return t * t * totalTwist
	case TwistDecelerating:
		return (1 - (1-t)*(1-t)) * totalTwist
	default:
		return t * totalTwist
	}
}

// RadialWave returns the radial offset in mm at the given untwisted angle and
// height. The sin*cos product forms a helical interference pattern rather
// than straight vertical ribs. Zero when wave is disabled.
func RadialWave(angle, z float64, p *Params) float64 {
	if !p.WaveEnabled {
		return 0
	}
	return p.WaveAmplitude * math.Sin(p.WaveFrequency*angle) * math.Cos(p.WaveVerticalFreq*z)
}

// Layer is one horizontal cross-section of the shade. Perimeter is closed:
// its last point repeats the first. Radius is the profile radius before wave
// displacement.
type Layer struct {
	Z         float64
	Radius    float64
	Perimeter Polygon
}

// GenerateLayer samples the cross-section at height z as a closed polygon.
// numPoints <= 0 means use p.NumPoints. Angles are sampled over [0, 2pi)
// with the endpoint excluded so the closing point is not generated twice.
// The wave offset is evaluated at the untwisted angle: the wave pattern
// rotates together with the twist instead of lagging behind it.
func GenerateLayer(z float64, p *Params, numPoints int) Layer {
	if numPoints <= 0 {
		numPoints = p.NumPoints
	}

	r := RadiusAtHeight(z, p.BaseRadius, p.TopRadius, p.TotalHeight, p.Profile)
	twist := TwistAngle(z, p)

	perimeter := make(Polygon, 0, numPoints+1)
	for i := 0; i < numPoints; i++ {
		theta := 2 * math.Pi * float64(i) / float64(numPoints)
		radius := r + RadialWave(theta, z, p)
		angle := theta + twist
		perimeter = append(perimeter, mgl64.Vec2{
			p.CenterX + radius*math.Cos(angle),
			p.CenterY + radius*math.Sin(angle),
		})
	}
	perimeter = append(perimeter, perimeter[0])

	return Layer{Z: z, Radius: r, Perimeter: perimeter}
}

// GenerateLayers produces the full stack from z = layerHeight to
// z = totalHeight in layerHeight steps. The loop is index-based so repeated
// float addition cannot drift past (or short of) the final layer.
func GenerateLayers(p *Params) []Layer {
	n := int(math.Floor(p.TotalHeight/p.LayerHeight + 1e-9))

	layers := make([]Layer, 0, n)
	for i := 1; i <= n; i++ {
		z := float64(i) * p.LayerHeight
		layers = append(layers, GenerateLayer(z, p, 0))
	}

	return layers
}

// ValidatePrintability samples profile at every layer height and checks the
// slope between consecutive layers against maxOverhangAngle (degrees from
// vertical). The check uses |dr|, so a steep inward taper fails the same as
// a real outward overhang; that is deliberately conservative.
func ValidatePrintability(profile func(float64) float64, totalHeight, layerHeight, maxOverhangAngle float64) error {
	n := int(math.Floor(totalHeight/layerHeight + 1e-9))

	prev := profile(layerHeight)
	for i := 2; i <= n; i++ {
		z := float64(i) * layerHeight
		r := profile(z)
		angle := math.Atan(math.Abs(r-prev)/layerHeight) * 180 / math.Pi
		if angle > maxOverhangAngle {
			return fmt.Errorf("overhang angle %.1f deg exceeds maximum %.1f deg at z=%.1fmm", angle, maxOverhangAngle, z)
		}
		prev = r
	}

	return nil
}
