// Package kernel defines the abstract solid-modeling interface.
// Implementations provide primitives and boolean operations behind
// this interface and render their solids into the same interleaved
// TriangleMesh the polygon tessellator produces, so downstream
// consumers (picking, GPU upload) never care where a mesh came from.
package kernel

import (
	"github.com/darrendavidhumphrey/fsg/pkg/geom"
	"github.com/darrendavidhumphrey/fsg/pkg/mesh"
)

// Solid is an opaque handle to a kernel solid. Implementations wrap
// their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max geom.Vec3)
}

// Kernel is the abstract solid-modeling interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*mesh.TriangleMesh, error)
}
