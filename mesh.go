package shadecam

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hschendel/stl"
)

// BuildMesh turns the layer stack into an STL solid for slicer previews.
// Corresponding point indices across layers form ribs, so the wall between
// two adjacent layers is a band of quads, each split into two triangles.
// Triangle-fan caps close the bottom and top.
func BuildMesh(layers []Layer, p *Params) (*stl.Solid, error) {
	if len(layers) < 2 {
		return nil, fmt.Errorf("need at least 2 layers to build a mesh, got %d", len(layers))
	}

	n := len(layers[0].Perimeter.Open())
	for i, layer := range layers {
		if len(layer.Perimeter.Open()) != n {
			return nil, fmt.Errorf("layer %d has %d points, expected %d", i, len(layer.Perimeter.Open()), n)
		}
	}

	solid := &stl.Solid{
		Name:      fmt.Sprintf("lamp_shade_%s", p.Profile),
		Triangles: make([]stl.Triangle, 0, 2*n*(len(layers)-1)+2*n),
	}

	for k := 0; k+1 < len(layers); k++ {
		a := layers[k]
		b := layers[k+1]
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			a0 := vertex(a.Perimeter[i], a.Z)
			a1 := vertex(a.Perimeter[j], a.Z)
			b0 := vertex(b.Perimeter[i], b.Z)
			b1 := vertex(b.Perimeter[j], b.Z)

			solid.Triangles = append(solid.Triangles,
				triangle(a0, a1, b0),
				triangle(a1, b1, b0),
			)
		}
	}

	// caps
	bottom := layers[0]
	top := layers[len(layers)-1]
	bc := vertex(mgl64.Vec2{p.CenterX, p.CenterY}, bottom.Z)
	tc := vertex(mgl64.Vec2{p.CenterX, p.CenterY}, top.Z)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		solid.Triangles = append(solid.Triangles,
			triangle(vertex(bottom.Perimeter[j], bottom.Z), vertex(bottom.Perimeter[i], bottom.Z), bc),
			triangle(vertex(top.Perimeter[i], top.Z), vertex(top.Perimeter[j], top.Z), tc),
		)
	}

	return solid, nil
}

// WriteSTL builds the preview mesh and writes it in binary STL.
func WriteSTL(layers []Layer, p *Params, path string) error {
	solid, err := BuildMesh(layers, p)
	if err != nil {
		return err
	}
	return solid.WriteFile(path)
}

func vertex(pt mgl64.Vec2, z float64) stl.Vec3 {
	return stl.Vec3{float32(pt.X()), float32(pt.Y()), float32(z)}
}

func triangle(a, b, c stl.Vec3) stl.Triangle {
	u := mgl64.Vec3{float64(b[0] - a[0]), float64(b[1] - a[1]), float64(b[2] - a[2])}
	v := mgl64.Vec3{float64(c[0] - a[0]), float64(c[1] - a[1]), float64(c[2] - a[2])}
	normal := u.Cross(v)
	if l := normal.Len(); l > 0 {
		normal = normal.Mul(1 / l)
	}

	return stl.Triangle{
		Normal:   stl.Vec3{float32(normal.X()), float32(normal.Y()), float32(normal.Z())},
		Vertices: [3]stl.Vec3{a, b, c},
	}
}
