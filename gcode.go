package shadecam

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNonMonotonicZ marks a toolpath whose Z decreases mid-spiral. That is a
// generator defect, not bad user input, so emission aborts on it.
var ErrNonMonotonicZ = errors.New("spiral toolpath z decreased")

// ExtrudedArea returns the cross-sectional area in mm^2 of an extruded line,
// modelled as a capsule: a width x height rectangle with a semicircular cap
// of radius height/2 at each end.
func ExtrudedArea(width, height float64) float64 {
	r := height / 2
	return width*height + math.Pi*r*r
}

// DeltaEForMove returns the filament length in mm to feed for a move of the
// given length: extruded volume divided by the filament cross-section,
// scaled by the flow multiplier.
func DeltaEForMove(length, width, height, filamentDiameter, flowMult float64) float64 {
	volumeOut := ExtrudedArea(width, height) * length
	filamentArea := math.Pi * (filamentDiameter / 2) * (filamentDiameter / 2)
	return flowMult * volumeOut / filamentArea
}

// Stats summarises one G-code emission.
type Stats struct {
	GenerationTime time.Duration
	FileSize       int
	LineCount      int
	ToolpathPoints int
	TotalDistance  float64
}

// GcodeWriter serialises toolpaths for one printer/parameter combination.
// The machine specs are injected here rather than read from a global so
// several machine profiles can be emitted side by side.
type GcodeWriter struct {
	Params *Params
	Spec   PrinterSpecs
}

// StartGcode returns the machine preamble: units, positioning modes,
// acceleration limits, heater targets, homing and extruder reset.
func (w *GcodeWriter) StartGcode() []string {
	return []string{
		"; ===== Parametric Lamp Shade Slicer =====",
		fmt.Sprintf("; nozzle_diameter = %g", w.Spec.NozzleDiameter),
		fmt.Sprintf("; filament_diameter = %g", w.Spec.FilamentDiameter),
		"",
		"G21 ; set units to millimeters",
		"G90 ; use absolute coordinates for positioning",
		"M83 ; use relative distances for extrusion",
		"",
		"M201 X2500 Y2500 Z200 E2500 ; maximum accelerations, mm/sec^2",
		"M203 X200 Y200 Z12 E120 ; maximum feedrates, mm/sec",
		"M204 P1250 R1250 T1250 ; print, retract and travel acceleration, mm/sec^2",
		"",
		fmt.Sprintf("M104 S%d ; set hotend temp", w.Params.NozzleTemp),
		fmt.Sprintf("M140 S%d ; set bed temp", w.Params.BedTemp),
		fmt.Sprintf("M190 S%d ; wait for bed temp", w.Params.BedTemp),
		"M109 S170 ; wait for hotend temp (partial)",
		"",
		"G28 ; home all without mesh bed level",
		"",
		fmt.Sprintf("M109 S%d ; wait for hotend temp", w.Params.NozzleTemp),
		"",
		"G92 E0 ; reset extruder position",
	}
}

// EndGcode returns the shutdown footer: heaters and fan off, retract, raise
// Z, disable motors.
func (w *GcodeWriter) EndGcode() []string {
	return []string{
		"",
		"; ===== End of print =====",
		"G92 E0 ; reset extruder",
		"M104 S0 ; turn off hotend temperature",
		"M140 S0 ; turn off heated bed temperature",
		"M107 ; turn off fan",
		"G91 ; relative positioning",
		"G1 E-2 F2700 ; retract filament",
		"G1 Z10 F900 ; raise Z",
		"G90 ; absolute positioning",
		"M84 ; disable motors",
	}
}

// WriteSpiral serialises the spiral toolpath into a G-code file and returns
// the emission statistics. Total distance accumulates over every segment,
// travel or print alike; a decreasing Z aborts with ErrNonMonotonicZ.
func (w *GcodeWriter) WriteSpiral(tp Toolpath, path string) (Stats, error) {
	if len(tp) == 0 {
		return Stats{}, fmt.Errorf("empty toolpath")
	}

	start := time.Now()
	p := w.Params

	lines := w.StartGcode()
	lines = append(lines,
		"",
		"; ===== SPIRAL LAMP SHADE TOOLPATH =====",
		fmt.Sprintf("; Total points: %d", len(tp)),
		fmt.Sprintf("; Profile: %s", p.Profile),
		"",
		fmt.Sprintf("G1 Z%.3f F900 ; move to start Z", tp[0].Z()),
		fmt.Sprintf("G1 X%.3f Y%.3f F%.0f ; travel to start", tp[0].X(), tp[0].Y(), p.TravelSpeed),
		"",
		"; Begin spiral printing",
	)

	totalDistance := 0.0
	prevZ := tp[0].Z()

	for i := 1; i < len(tp); i++ {
		if tp[i].Z() < prevZ {
			return Stats{}, fmt.Errorf("point %d at z=%.4f after z=%.4f: %w", i, tp[i].Z(), prevZ, ErrNonMonotonicZ)
		}
		prevZ = tp[i].Z()

		l := tp[i].Sub(tp[i-1]).Len()
		totalDistance += l

		dE := DeltaEForMove(l, p.LineWidth, p.LayerHeight, w.Spec.FilamentDiameter, p.FlowMultiplier)
		if dE > 0 {
			lines = append(lines, fmt.Sprintf("G1 X%.3f Y%.3f Z%.3f E%.5f F%.0f",
				tp[i].X(), tp[i].Y(), tp[i].Z(), dE, p.PrintSpeed))
		}
	}

	lines = append(lines, "", "; ===== END =====")
	lines = append(lines, w.EndGcode()...)

	content := strings.Join(lines, "\n") + "\n"
	if err := writeFileMkdir(path, content); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		GenerationTime: time.Since(start),
		FileSize:       len(content),
		LineCount:      len(lines),
		ToolpathPoints: len(tp),
		TotalDistance:  totalDistance,
	}

	if !p.Quiet {
		fmt.Fprintf(os.Stderr, "Wrote G-code to %s: %d lines, %.1f KB, %.2f m of toolpath\n",
			path, stats.LineCount, float64(stats.FileSize)/1024, stats.TotalDistance/1000)
	}

	return stats, nil
}

// Perimeter emits a closed perimeter at fixed z using relative extrusion.
// Returns the G-code lines and the filament length used.
func (w *GcodeWriter) Perimeter(poly Polygon, z float64) ([]string, float64) {
	poly = poly.EnsureClosed()
	p := w.Params
	eTotal := 0.0

	lines := []string{
		fmt.Sprintf("G1 Z%.3f F900", z),
		fmt.Sprintf("G1 X%.3f Y%.3f F%.0f", poly[0].X(), poly[0].Y(), p.TravelSpeed),
		"; --- PERIMETER ---",
	}

	for i := 1; i < len(poly); i++ {
		l := poly[i].Sub(poly[i-1]).Len()
		dE := DeltaEForMove(l, p.LineWidth, p.LayerHeight, w.Spec.FilamentDiameter, p.FlowMultiplier)
		if dE <= 0 {
			continue
		}
		eTotal += dE
		lines = append(lines, fmt.Sprintf("G1 X%.3f Y%.3f Z%.3f E%.5f F%.0f",
			poly[i].X(), poly[i].Y(), z, dE, p.PrintSpeed))
	}

	return lines, eTotal
}

// Polyline emits an open polyline at fixed z using relative extrusion.
func (w *GcodeWriter) Polyline(path []mgl64.Vec2, z float64) ([]string, float64) {
	if len(path) < 2 {
		return nil, 0
	}

	p := w.Params
	eTotal := 0.0

	lines := []string{
		fmt.Sprintf("G1 X%.3f Y%.3f Z%.3f F%.0f", path[0].X(), path[0].Y(), z, p.TravelSpeed),
	}

	for i := 1; i < len(path); i++ {
		l := path[i].Sub(path[i-1]).Len()
		if l <= 1e-9 {
			continue
		}
		dE := DeltaEForMove(l, p.LineWidth, p.LayerHeight, w.Spec.FilamentDiameter, p.FlowMultiplier)
		if dE <= 0 {
			continue
		}
		eTotal += dE
		lines = append(lines, fmt.Sprintf("G1 X%.3f Y%.3f Z%.3f E%.5f F%.0f",
			path[i].X(), path[i].Y(), z, dE, p.PrintSpeed))
	}

	return lines, eTotal
}

// WriteFilledLayer emits a single layer as a closed perimeter plus a
// serpentine scanline infill. Useful as a first-layer calibration square.
func (w *GcodeWriter) WriteFilledLayer(perimeter Polygon, z, spacing, offsetScale, minSegLen float64, path string) (Stats, error) {
	start := time.Now()

	_, _, infill, err := SerpentineInfill(perimeter, spacing, offsetScale, minSegLen)
	if err != nil {
		return Stats{}, err
	}

	lines := w.StartGcode()
	lines = append(lines, "", "; ===== FILLED LAYER =====")

	perimLines, _ := w.Perimeter(perimeter, z)
	lines = append(lines, perimLines...)

	lines = append(lines, "; --- INFILL ---")
	infillLines, _ := w.Polyline(infill, z)
	lines = append(lines, infillLines...)

	lines = append(lines, w.EndGcode()...)

	content := strings.Join(lines, "\n") + "\n"
	if err := writeFileMkdir(path, content); err != nil {
		return Stats{}, err
	}

	closed := perimeter.EnsureClosed()
	dist := 0.0
	for i := 1; i < len(closed); i++ {
		dist += closed[i].Sub(closed[i-1]).Len()
	}
	for i := 1; i < len(infill); i++ {
		dist += infill[i].Sub(infill[i-1]).Len()
	}

	return Stats{
		GenerationTime: time.Since(start),
		FileSize:       len(content),
		LineCount:      len(lines),
		ToolpathPoints: len(closed) + len(infill),
		TotalDistance:  dist,
	}, nil
}

func writeFileMkdir(path, content string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}
