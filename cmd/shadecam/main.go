package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shadecam"
)

func main() {
	spec := shadecam.DefaultPrinterSpecs()
	params := shadecam.DefaultParams(spec)

	configPath := pflag.String("config", "", "Read parameters from a YAML file before applying flag overrides.")
	output := pflag.String("output", "", "Output G-code path. Defaults to output/lamp_shade_<profile>.gcode.")

	profileName := pflag.String("profile", params.Profile.String(), "Set the profile shape: linear, concave, convex or sinusoidal.")
	baseRadius := pflag.Float64("base-radius", params.BaseRadius, "Set the radius at the bed in mm.")
	topRadius := pflag.Float64("top-radius", params.TopRadius, "Set the radius at the top in mm.")
	height := pflag.Float64("height", params.TotalHeight, "Set the total height in mm.")
	numPoints := pflag.Int("num-points", params.NumPoints, "Set the number of perimeter points per layer.")

	layerHeight := pflag.Float64("layer-height", params.LayerHeight, "Set the layer height in mm.")
	lineWidth := pflag.Float64("line-width", params.LineWidth, "Set the extruded line width in mm.")
	printSpeed := pflag.Float64("print-speed", params.PrintSpeed, "Set the print feed rate in mm/min.")
	travelSpeed := pflag.Float64("travel-speed", params.TravelSpeed, "Set the travel feed rate in mm/min.")
	flow := pflag.Float64("flow-multiplier", params.FlowMultiplier, "Set the extrusion flow multiplier.")
	nozzleTemp := pflag.Int("nozzle-temp", params.NozzleTemp, "Set the nozzle temperature in C.")
	bedTemp := pflag.Int("bed-temp", params.BedTemp, "Set the bed temperature in C.")

	twistDegrees := pflag.Float64("twist", 0, "Set the total twist in degrees over the full height. 0 disables twist.")
	twistCurveName := pflag.String("twist-curve", params.TwistType.String(), "Set the twist rate curve: linear, accelerating or decelerating.")
	waveAmplitude := pflag.Float64("wave-amplitude", 0, "Set the wave texture amplitude in mm. 0 disables the wave.")
	waveFrequency := pflag.Float64("wave-frequency", params.WaveFrequency, "Set the number of waves around the perimeter.")
	waveVerticalFreq := pflag.Float64("wave-vertical-frequency", params.WaveVerticalFreq, "Set the vertical wave frequency.")

	stlPath := pflag.String("stl", "", "Also write a preview mesh to this STL file.")
	compare := pflag.Bool("compare", false, "Run all four profile shapes through the pipeline and print a comparison table.")
	verify := pflag.Bool("verify", false, "Parse the written G-code back and check it against the toolpath.")
	calibration := pflag.Bool("calibration", false, "Emit a single filled calibration square instead of a lamp shade.")
	calSize := pflag.Float64("cal-size", 70, "Set the side length of the calibration square in mm.")
	quiet := pflag.Bool("quiet", false, "Suppress output of progress and statistics.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *configPath != "" {
		if err := params.LoadParams(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	changed := pflag.CommandLine.Changed
	if changed("profile") {
		shape, err := shadecam.ParseProfileShape(*profileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		params.Profile = shape
	}
	if changed("base-radius") {
		params.BaseRadius = *baseRadius
	}
	if changed("top-radius") {
		params.TopRadius = *topRadius
	}
	if changed("height") {
		params.TotalHeight = *height
	}
	if changed("num-points") {
		params.NumPoints = *numPoints
	}
	if changed("layer-height") {
		params.LayerHeight = *layerHeight
	}
	if changed("line-width") {
		params.LineWidth = *lineWidth
	}
	if changed("print-speed") {
		params.PrintSpeed = *printSpeed
	}
	if changed("travel-speed") {
		params.TravelSpeed = *travelSpeed
	}
	if changed("flow-multiplier") {
		params.FlowMultiplier = *flow
	}
	if changed("nozzle-temp") {
		params.NozzleTemp = *nozzleTemp
	}
	if changed("bed-temp") {
		params.BedTemp = *bedTemp
	}
	if changed("twist") {
		params.TwistDegrees = *twistDegrees
		params.TwistEnabled = *twistDegrees != 0
	}
	if changed("twist-curve") {
		curve, err := shadecam.ParseTwistCurve(*twistCurveName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		params.TwistType = curve
	}
	if changed("wave-amplitude") {
		params.WaveAmplitude = *waveAmplitude
		params.WaveEnabled = *waveAmplitude != 0
	}
	if changed("wave-frequency") {
		params.WaveFrequency = *waveFrequency
	}
	if changed("wave-vertical-frequency") {
		params.WaveVerticalFreq = *waveVerticalFreq
	}
	params.Quiet = *quiet

	writer := shadecam.GcodeWriter{Params: &params, Spec: spec}

	if *calibration {
		square := shadecam.Rectangle(params.CenterX, params.CenterY, *calSize, *calSize)
		out := *output
		if out == "" {
			out = "output/calibration_square.gcode"
		}
		stats, err := writer.WriteFilledLayer(square, params.LayerHeight, 6.0, 0.96, 0.3, out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Wrote calibration square to %s: %d lines, %.0fmm of toolpath\n",
				out, stats.LineCount, stats.TotalDistance)
		}
		return
	}

	if *compare {
		shapes := []shadecam.ProfileShape{shadecam.Linear, shadecam.Concave, shadecam.Convex, shadecam.Sinusoidal}
		results, err := shadecam.CompareProfiles(shapes, params, spec, "output")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Print(shadecam.FormatComparison(results))
		return
	}

	if err := params.Validate(spec); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Generating %s lamp shade: %gmm -> %gmm over %gmm, %d points/layer\n",
			params.Profile, params.BaseRadius, params.TopRadius, params.TotalHeight, params.NumPoints)
	}

	layers := shadecam.GenerateLayers(&params)
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Generated %d layers\n", len(layers))
	}

	toolpath := shadecam.SpiralToolpath(layers, &params)
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Generated %d toolpath points\n", len(toolpath))
	}

	out := *output
	if out == "" {
		out = fmt.Sprintf("output/lamp_shade_%s.gcode", params.Profile)
	}

	stats, err := writer.WriteSpiral(toolpath, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	analysis := shadecam.Analyze(layers, stats, &params)
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Max overhang: %.1f deg\n", analysis.MaxOverhangAngle)
		fmt.Fprintf(os.Stderr, "Volume: %.0f mm3\n", analysis.VolumeEstimate)
		fmt.Fprintf(os.Stderr, "Print time: %.1f min\n", analysis.PrintTimeEstimate)
		fmt.Fprintf(os.Stderr, "Material: %.1f g\n", analysis.MaterialUsage)
	}

	if *stlPath != "" {
		if err := shadecam.WriteSTL(layers, &params, *stlPath); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *stlPath, err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Wrote preview mesh to %s\n", *stlPath)
		}
	}

	if *verify {
		if err := verifyGcode(out, toolpath); err != nil {
			fmt.Fprintf(os.Stderr, "verify %s: %v\n", out, err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Verified %s against the generated toolpath\n", out)
		}
	}
}

func verifyGcode(path string, toolpath shadecam.Toolpath) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	moves, err := shadecam.ParseGcode(f)
	if err != nil {
		return err
	}

	printMoves := 0
	prevZ := 0.0
	for _, m := range moves {
		if m.HasE && m.E > 0 {
			printMoves++
			if m.HasZ && m.Z < prevZ {
				return fmt.Errorf("z decreased to %.3f after %.3f", m.Z, prevZ)
			}
		}
		if m.HasZ && m.HasE {
			prevZ = m.Z
		}
	}

	if printMoves != len(toolpath)-1 {
		return fmt.Errorf("expected %d print moves, parsed %d", len(toolpath)-1, printMoves)
	}
	return nil
}
