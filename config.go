package shadecam

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// PrinterSpecs describes the machine the output is destined for. It is
// injected into validation and generation rather than read from a global, so
// tests can run several machine profiles side by side.
type PrinterSpecs struct {
	BedSizeX         float64 `yaml:"bedSizeX"`
	BedSizeY         float64 `yaml:"bedSizeY"`
	BedCenterX       float64 `yaml:"bedCenterX"`
	BedCenterY       float64 `yaml:"bedCenterY"`
	MaxZ             float64 `yaml:"maxZ"`
	NozzleDiameter   float64 `yaml:"nozzleDiameter"`
	FilamentDiameter float64 `yaml:"filamentDiameter"`
	MaxTempNozzle    int     `yaml:"maxTempNozzle"`
	MaxTempBed       int     `yaml:"maxTempBed"`
	MaxOverhangAngle float64 `yaml:"maxOverhangAngle"`
}

// DefaultPrinterSpecs returns the Prusa MK4S limits.
func DefaultPrinterSpecs() PrinterSpecs {
	return PrinterSpecs{
		BedSizeX:         250,
		BedSizeY:         210,
		BedCenterX:       105,
		BedCenterY:       105,
		MaxZ:             220,
		NozzleDiameter:   0.4,
		FilamentDiameter: 1.75,
		MaxTempNozzle:    300,
		MaxTempBed:       120,
		MaxOverhangAngle: 45,
	}
}

// Params holds everything needed to generate and print one lamp shade.
type Params struct {
	// Geometry
	BaseRadius  float64      `yaml:"baseRadius"`
	TopRadius   float64      `yaml:"topRadius"`
	TotalHeight float64      `yaml:"totalHeight"`
	NumPoints   int          `yaml:"numPoints"`
	Profile     ProfileShape `yaml:"profile"`
	CenterX     float64      `yaml:"centerX"`
	CenterY     float64      `yaml:"centerY"`

	// Printing
	LayerHeight    float64 `yaml:"layerHeight"`
	LineWidth      float64 `yaml:"lineWidth"`
	PrintSpeed     float64 `yaml:"printSpeed"`
	TravelSpeed    float64 `yaml:"travelSpeed"`
	FlowMultiplier float64 `yaml:"flowMultiplier"`

	// Temperatures (PLA defaults)
	NozzleTemp int `yaml:"nozzleTemp"`
	BedTemp    int `yaml:"bedTemp"`

	// Twist
	TwistEnabled bool       `yaml:"twistEnabled"`
	TwistDegrees float64    `yaml:"twistDegrees"`
	TwistType    TwistCurve `yaml:"twistType"`

	// Wave texture
	WaveEnabled      bool    `yaml:"waveEnabled"`
	WaveAmplitude    float64 `yaml:"waveAmplitude"`
	WaveFrequency    float64 `yaml:"waveFrequency"`
	WaveVerticalFreq float64 `yaml:"waveVerticalFreq"`

	Quiet bool `yaml:"-"`
}

// DefaultParams returns the stock 30mm->25mm linear shade centred on the
// given bed.
func DefaultParams(spec PrinterSpecs) Params {
	return Params{
		BaseRadius:  30,
		TopRadius:   25,
		TotalHeight: 50,
		NumPoints:   64,
		Profile:     Linear,
		CenterX:     spec.BedCenterX,
		CenterY:     spec.BedCenterY,

		LayerHeight:    0.20,
		LineWidth:      0.48,
		PrintSpeed:     1500,
		TravelSpeed:    6000,
		FlowMultiplier: 1.0,

		NozzleTemp: 215,
		BedTemp:    60,

		TwistType:        TwistLinear,
		WaveFrequency:    6,
		WaveVerticalFreq: 3,
	}
}

// LoadParams reads a YAML parameter file over the top of p, so the file only
// needs to name the fields it changes.
func (p *Params) LoadParams(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration constraints, then the physical
// printability of the profile, before any geometry is generated. Every error
// names the offending value and its limit.
func (p *Params) Validate(spec PrinterSpecs) error {
	if p.BaseRadius <= 0 || p.TopRadius <= 0 {
		return fmt.Errorf("radii must be positive (base %.1f, top %.1f)", p.BaseRadius, p.TopRadius)
	}
	if p.TotalHeight <= 0 {
		return fmt.Errorf("height must be positive (got %.1f)", p.TotalHeight)
	}
	if p.LayerHeight <= 0 || p.LayerHeight > 0.3 {
		return fmt.Errorf("layer height must be in range (0, 0.3] (got %.2f)", p.LayerHeight)
	}
	if p.NumPoints < 12 {
		return fmt.Errorf("need at least 12 points for a smooth circle (got %d)", p.NumPoints)
	}

	maxRadius := p.BaseRadius
	if p.TopRadius > maxRadius {
		maxRadius = p.TopRadius
	}
	if p.CenterX-maxRadius < 0 || p.CenterX+maxRadius > spec.BedSizeX ||
		p.CenterY-maxRadius < 0 || p.CenterY+maxRadius > spec.BedSizeY {
		return fmt.Errorf("shade of radius %.1fmm at (%.1f, %.1f) extends beyond the %gx%gmm bed",
			maxRadius, p.CenterX, p.CenterY, spec.BedSizeX, spec.BedSizeY)
	}

	if p.TotalHeight > spec.MaxZ {
		return fmt.Errorf("height %.1fmm exceeds printer maximum %.0fmm", p.TotalHeight, spec.MaxZ)
	}

	minRadius := p.BaseRadius
	if p.TopRadius < minRadius {
		minRadius = p.TopRadius
	}
	if minRadius < 10 {
		return fmt.Errorf("minimum radius must be >=10mm for stability (got %.1fmm)", minRadius)
	}

	if p.NozzleTemp > spec.MaxTempNozzle {
		return fmt.Errorf("nozzle temperature %dC exceeds maximum %dC", p.NozzleTemp, spec.MaxTempNozzle)
	}
	if p.BedTemp > spec.MaxTempBed {
		return fmt.Errorf("bed temperature %dC exceeds maximum %dC", p.BedTemp, spec.MaxTempBed)
	}

	profile := func(z float64) float64 {
		return RadiusAtHeight(z, p.BaseRadius, p.TopRadius, p.TotalHeight, p.Profile)
	}
	if err := ValidatePrintability(profile, p.TotalHeight, p.LayerHeight, spec.MaxOverhangAngle); err != nil {
		return fmt.Errorf("printability check failed: %w", err)
	}

	return nil
}
