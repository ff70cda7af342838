// Package pick implements ray-versus-mesh intersection for selection
// and highlighting: a slab test against the mesh's cached bounding box
// followed by per-triangle Möller–Trumbore, keeping the closest hit.
package pick

import (
	"math"

	"github.com/darrendavidhumphrey/fsg/pkg/geom"
	"github.com/darrendavidhumphrey/fsg/pkg/mesh"
)

// DefaultEpsilon is the near-parallel tolerance for triangle tests.
const DefaultEpsilon = 1e-6

// Hit describes the closest intersection between a ray and a mesh.
type Hit struct {
	Mesh     *mesh.TriangleMesh
	Point    geom.Vec3
	Triangle int
	Distance float64
	Normal   geom.Vec3
}

// Intersect tests the ray against m with the default epsilon.
func Intersect(m *mesh.TriangleMesh, ray geom.Ray) *Hit {
	return IntersectMesh(m, ray, DefaultEpsilon)
}

// IntersectMesh returns the closest intersection between the ray and
// any triangle of m, or nil. The mesh's cached bounds serve as a cheap
// pre-check: when the entry parameter is missing or negative the mesh
// is rejected without touching a triangle. Ties between equidistant
// triangles go to the lower triangle index.
func IntersectMesh(m *mesh.TriangleMesh, ray geom.Ray, epsilon float64) *Hit {
	entry, ok := rayBounds(ray, m.Bounds())
	if !ok || entry < 0 {
		return nil
	}

	closest := math.MaxFloat64
	closestTri := -1
	for t := 0; t < m.TriangleCount(); t++ {
		p0, p1, p2 := m.Triangle(t)
		d, hit := rayTriangle(ray, p0, p1, p2, epsilon)
		if hit && d < closest {
			closest = d
			closestTri = t
		}
	}
	if closestTri < 0 {
		return nil
	}
	return &Hit{
		Mesh:     m,
		Point:    ray.At(closest),
		Triangle: closestTri,
		Distance: closest,
		Normal:   m.Normal(closestTri * 3),
	}
}

// rayTriangle runs Möller–Trumbore against one triangle, returning the
// ray parameter of the hit. Intersections behind the origin (t within
// epsilon of zero or below) are rejected.
func rayTriangle(ray geom.Ray, p0, p1, p2 geom.Vec3, epsilon float64) (float64, bool) {
	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)
	h := ray.Dir.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < epsilon {
		// Ray parallel to the triangle's plane.
		return 0, false
	}
	f := 1 / a
	s := ray.Origin.Sub(p0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := f * ray.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := f * edge2.Dot(q)
	if t <= epsilon {
		return 0, false
	}
	return t, true
}

// rayBounds is the slab method against an axis-aligned box. It returns
// the entry parameter without clamping, so a ray that starts inside
// the box reports a negative entry and is rejected by the caller's
// pre-check.
func rayBounds(ray geom.Ray, b mesh.Bounds) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	dir := [3]float64{ray.Dir.X, ray.Dir.Y, ray.Dir.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < DefaultEpsilon {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	return tmin, true
}
