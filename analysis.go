package shadecam

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// PLA density in g/cm^3, used for material estimates.
const plaDensity = 1.24

// Analysis summarises a generated shade: the steepest slope in the profile,
// an approximate shell volume, a print time estimate and the material mass.
type Analysis struct {
	MaxOverhangAngle  float64 // degrees from vertical
	VolumeEstimate    float64 // mm^3
	PrintTimeEstimate float64 // minutes
	MaterialUsage     float64 // grams
}

// Analyze derives the performance summary from the layer stack and the
// emission statistics. Each layer is approximated as a cylindrical shell one
// line width thick; print time is toolpath distance over print speed with
// 10% overhead for accelerations.
func Analyze(layers []Layer, stats Stats, p *Params) Analysis {
	a := Analysis{}

	for i := 1; i < len(layers); i++ {
		dr := layers[i].Radius - layers[i-1].Radius
		dz := layers[i].Z - layers[i-1].Z
		angle := math.Atan(math.Abs(dr)/dz) * 180 / math.Pi
		if angle > a.MaxOverhangAngle {
			a.MaxOverhangAngle = angle
		}
	}

	for _, layer := range layers {
		a.VolumeEstimate += 2 * math.Pi * layer.Radius * p.LineWidth * p.LayerHeight
	}

	a.PrintTimeEstimate = stats.TotalDistance / p.PrintSpeed * 1.1

	a.MaterialUsage = a.VolumeEstimate / 1000 * plaDensity

	return a
}

// ProfileResult pairs one profile shape with its analysis and stats.
type ProfileResult struct {
	Shape    ProfileShape
	Stats    Stats
	Analysis Analysis
}

// CompareProfiles runs the full pipeline (layers, spiral, G-code, analysis)
// once per profile shape, writing each G-code file into outDir. The runs are
// independent; a shape that fails validation or emission is skipped and the
// error reported in its place.
func CompareProfiles(shapes []ProfileShape, base Params, spec PrinterSpecs, outDir string) ([]ProfileResult, error) {
	var results []ProfileResult

	for _, shape := range shapes {
		p := base
		p.Profile = shape

		if err := p.Validate(spec); err != nil {
			return results, fmt.Errorf("profile %s: %w", shape, err)
		}

		layers := GenerateLayers(&p)
		tp := SpiralToolpath(layers, &p)

		w := GcodeWriter{Params: &p, Spec: spec}
		out := filepath.Join(outDir, fmt.Sprintf("lamp_shade_%s.gcode", shape))
		stats, err := w.WriteSpiral(tp, out)
		if err != nil {
			return results, fmt.Errorf("profile %s: %w", shape, err)
		}

		results = append(results, ProfileResult{
			Shape:    shape,
			Stats:    stats,
			Analysis: Analyze(layers, stats, &p),
		})
	}

	return results, nil
}

// FormatComparison renders the side-by-side profile table.
func FormatComparison(results []ProfileResult) string {
	b := strings.Builder{}

	fmt.Fprintf(&b, "| %-12s | %-12s | %-10s | %-10s | %-10s |\n", "Profile", "Max Overhang", "Volume", "Print Time", "Material")
	fmt.Fprintf(&b, "|%s|%s|%s|%s|%s|\n",
		strings.Repeat("-", 14), strings.Repeat("-", 14), strings.Repeat("-", 12), strings.Repeat("-", 12), strings.Repeat("-", 12))

	for _, r := range results {
		fmt.Fprintf(&b, "| %-12s | %-12s | %-10s | %-10s | %-10s |\n",
			r.Shape,
			fmt.Sprintf("%.1f deg", r.Analysis.MaxOverhangAngle),
			fmt.Sprintf("%.0f mm3", r.Analysis.VolumeEstimate),
			fmt.Sprintf("%.1f min", r.Analysis.PrintTimeEstimate),
			fmt.Sprintf("%.1f g", r.Analysis.MaterialUsage))
	}

	return b.String()
}
