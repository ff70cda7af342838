package geom

import "math"

// planeFitEpsilon is the minimum cross-product magnitude for three
// points to define a usable plane.
const planeFitEpsilon = 1e-6

// Plane is an infinite plane in normal-constant form: a point p lies on
// the plane when Normal·p + Constant == 0.
type Plane struct {
	Normal   Vec3
	Constant float64
}

// DefaultPlane is the placeholder assigned when a plane fit fails: the
// z=0 plane facing +z.
func DefaultPlane() Plane {
	return Plane{Normal: Vec3{0, 0, 1}}
}

// PlaneFromPoints fits a plane through three points. The normal points
// along (b-a) × (c-a). Returns ok=false when the points are coincident
// or collinear (cross-product magnitude within planeFitEpsilon of zero).
func PlaneFromPoints(a, b, c Vec3) (Plane, bool) {
	cross := b.Sub(a).Cross(c.Sub(a))
	if cross.Length() <= planeFitEpsilon {
		return DefaultPlane(), false
	}
	n := cross.Normalized()
	return Plane{Normal: n, Constant: -n.Dot(a)}, true
}

// DistanceToPoint returns the signed distance from p to the plane.
func (pl Plane) DistanceToPoint(p Vec3) float64 {
	return pl.Normal.Dot(p) + pl.Constant
}

// Ray is a finite directed segment from Origin to Origin+Dir. The
// parameter t runs over [0, 1]; Dir carries the full segment length and
// need not be normalized.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectPlane returns the point where the ray crosses the plane.
// Returns ok=false when the ray is parallel to the plane or the
// crossing lies outside the segment parameter range [0, 1].
func (r Ray) IntersectPlane(pl Plane) (Vec3, bool) {
	denom := pl.Normal.Dot(r.Dir)
	if math.Abs(denom) <= planeFitEpsilon {
		return Vec3{}, false
	}
	t := -pl.DistanceToPoint(r.Origin) / denom
	if t < 0 || t > 1 {
		return Vec3{}, false
	}
	return r.At(t), true
}
