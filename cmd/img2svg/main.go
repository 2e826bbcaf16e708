package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shadecam/contour"
)

func main() {
	output := pflag.String("output", "", "Output SVG path. Defaults to the input path with a .svg suffix.")
	pointsPath := pflag.String("points", "", "Also persist the traced contour as a binary point file.")
	targetWidth := pflag.Float64("target-width", 60, "Scale the outline to this width in mm.")
	units := pflag.String("units", "px", "SVG export units: px (96 per inch) or mm.")
	strokeWidth := pflag.Float64("stroke-width", 0.2, "Set the SVG stroke width in mm.")
	margin := pflag.Float64("margin", 2, "Set the SVG margin in mm.")
	resample := pflag.Int("resample", 400, "Resample the contour to this many evenly spaced points.")
	smoothPasses := pflag.Int("smooth", 2, "Number of smoothing passes over the contour.")
	pxPerMM := pflag.Float64("px-per-mm", 10, "Pixel density assumed when converting to mm.")
	threshold := pflag.Int("threshold", -1, "Grayscale threshold for the silhouette (0-255). Negative picks one automatically.")
	maxDim := pflag.Int("max-dim", 1024, "Downscale inputs whose longest side exceeds this many pixels.")
	quiet := pflag.Bool("quiet", false, "Suppress output of dimensions and progress.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: img2svg [options] IMAGEFILE\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	args := pflag.Args()
	if len(args) != 1 {
		pflag.Usage()
		os.Exit(1)
	}
	inputPath := args[0]

	img, err := contour.LoadImage(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	img = contour.Downscale(img, *maxDim)

	gray := contour.Grayscale(img)

	t := uint8(*threshold)
	if *threshold < 0 {
		t = contour.OtsuThreshold(gray)
	}
	mask := contour.Binarize(gray, t)

	ring, err := contour.LargestContour(mask)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		b := img.Bounds()
		fmt.Fprintf(os.Stderr, "%dx%d px image, threshold %d, contour of %d points\n",
			b.Dx(), b.Dy(), t, len(ring))
	}

	if *pointsPath != "" {
		if err := contour.WritePointsFile(*pointsPath, ring); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *pointsPath, err)
			os.Exit(1)
		}
	}

	ring = contour.SmoothClosed(ring, *smoothPasses)
	ring = contour.ResampleClosed(ring, *resample)
	ring = contour.PixelsToMM(ring, *pxPerMM, img.Bounds().Dy())

	ring, err = contour.RecenterAndScaleToWidth(ring, *targetWidth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	out := *output
	if out == "" {
		out = inputPath + ".svg"
	}

	opts := contour.ExportOptions{
		Units:       *units,
		StrokeWidth: *strokeWidth,
		MarginMM:    *margin,
	}
	if err := contour.WriteSVG(out, ring, opts); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	}
}
