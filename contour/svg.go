package contour

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	mmPerInch = 25.4
	pxPerInch = 96.0
	pxPerMM   = pxPerInch / mmPerInch
)

// ExportOptions controls SVG output. Units is "px" (96 per inch) or "mm";
// StrokeWidth and MarginMM are in millimetres.
type ExportOptions struct {
	Units       string
	StrokeWidth float64
	MarginMM    float64
}

// DefaultExportOptions matches what CAM frontends expect: px units, hairline
// stroke, 2mm margin.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Units:       "px",
		StrokeWidth: 0.2,
		MarginMM:    2.0,
	}
}

// WriteSVG exports one closed loop (millimetre coordinates, given without
// the duplicate end point) as a single <path> with absolute move/line
// commands terminated by a close-path. The y axis is flipped into SVG's
// downward orientation so the shape renders upright.
func WriteSVG(path string, ring []mgl64.Vec2, opts ExportOptions) error {
	if len(ring) < 3 {
		return errors.New("need at least 3 points for a closed loop")
	}

	scale := 1.0
	unit := "mm"
	switch opts.Units {
	case "px":
		scale = pxPerMM
		unit = "px"
	case "mm", "":
	default:
		return fmt.Errorf("unrecognised export units: %s", opts.Units)
	}

	xmin, xmax := ring[0].X(), ring[0].X()
	ymin, ymax := ring[0].Y(), ring[0].Y()
	for _, p := range ring[1:] {
		xmin = math.Min(xmin, p.X())
		xmax = math.Max(xmax, p.X())
		ymin = math.Min(ymin, p.Y())
		ymax = math.Max(ymax, p.Y())
	}

	widthMM := xmax - xmin + 2*opts.MarginMM
	heightMM := ymax - ymin + 2*opts.MarginMM

	b := strings.Builder{}
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.3f%s" height="%.3f%s" viewBox="0 0 %.3f %.3f">`+"\n",
		widthMM*scale, unit, heightMM*scale, unit, widthMM*scale, heightMM*scale)

	b.WriteString(`  <path d="`)
	for i, p := range ring {
		x := (p.X() - xmin + opts.MarginMM) * scale
		y := (ymax - p.Y() + opts.MarginMM) * scale
		if i == 0 {
			fmt.Fprintf(&b, "M %.3f %.3f", x, y)
		} else {
			fmt.Fprintf(&b, " L %.3f %.3f", x, y)
		}
	}
	fmt.Fprintf(&b, ` Z" fill="none" stroke="black" stroke-width="%.3f"/>`+"\n", opts.StrokeWidth*scale)

	b.WriteString("</svg>\n")

	return os.WriteFile(path, []byte(b.String()), 0644)
}
