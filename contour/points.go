package contour

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// Persisted contour format: the magic bytes, a little-endian uint32 point
// count, then count (x, y) float64 pairs. Consumed by the downstream
// smoothing/resampling/SVG stages.
var pointsMagic = [4]byte{'S', 'C', 'P', '1'}

// WritePoints persists an N x 2 point list.
func WritePoints(w io.Writer, xy []mgl64.Vec2) error {
	if _, err := w.Write(pointsMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(xy))); err != nil {
		return err
	}
	for _, p := range xy {
		if err := binary.Write(w, binary.LittleEndian, [2]float64{p.X(), p.Y()}); err != nil {
			return err
		}
	}
	return nil
}

// ReadPoints reads back a point list written by WritePoints.
func ReadPoints(r io.Reader) ([]mgl64.Vec2, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != pointsMagic {
		return nil, fmt.Errorf("bad magic %q in points file", magic)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	xy := make([]mgl64.Vec2, 0, count)
	for i := uint32(0); i < count; i++ {
		var pair [2]float64
		if err := binary.Read(r, binary.LittleEndian, &pair); err != nil {
			return nil, err
		}
		xy = append(xy, mgl64.Vec2{pair[0], pair[1]})
	}

	return xy, nil
}

// WritePointsFile persists the point list to a file.
func WritePointsFile(path string, xy []mgl64.Vec2) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePoints(f, xy); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadPointsFile reads a point list from a file.
func ReadPointsFile(path string) ([]mgl64.Vec2, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadPoints(f)
}
