// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Solids are signed
// distance fields; meshing runs marching cubes and converts the
// resulting triangle soup into the interleaved TriangleMesh layout.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/darrendavidhumphrey/fsg/pkg/geom"
	"github.com/darrendavidhumphrey/fsg/pkg/kernel"
	"github.com/darrendavidhumphrey/fsg/pkg/mesh"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// marchedSolid wraps an sdf.SDF3 to implement kernel.Solid.
type marchedSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *marchedSolid) BoundingBox() (min, max geom.Vec3) {
	bb := s.s.BoundingBox()
	min = geom.Vec3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z}
	max = geom.Vec3{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
	return min, max
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct{}

// New returns a new sdfx-backed kernel.
func New() *Kernel {
	return &Kernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*marchedSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &marchedSolid{s: s}
}

// Box creates a box with its minimum corner at the origin, matching
// the corner-anchored outlines the polygon side of the system builds.
// sdf.Box3D centers the box on the origin, so shift by half-dimensions.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Cylinder creates a cylinder with the given height and radius,
// centered on the origin.
func (k *Kernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// marchedUV is the placeholder UV triple for marched triangles; SDF
// surfaces carry no parameterization, so this matches the placeholder
// convention of extrusion side faces.
var marchedUV = [3]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}

// ToMesh renders a solid with marching cubes and packs the triangles
// into an interleaved mesh, one shared face normal per triangle.
func (k *Kernel) ToMesh(s kernel.Solid) (*mesh.TriangleMesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	m := mesh.NewTriangleMesh(len(triangles))
	slot := 0
	for _, tri := range triangles {
		n := tri.Normal()
		slot = m.AddTriangle(
			geom.Vec3{X: tri[0].X, Y: tri[0].Y, Z: tri[0].Z},
			geom.Vec3{X: tri[1].X, Y: tri[1].Y, Z: tri[1].Z},
			geom.Vec3{X: tri[2].X, Y: tri[2].Y, Z: tri[2].Z},
			geom.Vec3{X: n.X, Y: n.Y, Z: n.Z},
			marchedUV,
			slot,
		)
	}
	m.RecomputeBounds()
	return m, nil
}
