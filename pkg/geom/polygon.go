package geom

import "math"

const (
	// containsEpsilon is the tolerance for on-plane and collinearity
	// tests in ContainsPoint.
	containsEpsilon = 1e-6

	// minVertexDistance is the shortest edge length that still counts
	// as a real edge; shorter outgoing edges mark a vertex degenerate.
	minVertexDistance = 1e-4
)

// Polygon is an immutable closed planar polygon. The edge from the
// last vertex back to the first is implicit. Vertices are stored flat,
// three floats per vertex, so the layout matches GPU-uploadable
// buffers.
//
// A plane is fitted once at construction from the first three
// vertices. Operations that depend on the plane fail closed when the
// fit was degenerate (fewer than three vertices, or a collinear first
// triple).
type Polygon struct {
	verts      []float64
	plane      Plane
	planeValid bool
}

// NewPolygon2D builds a polygon from 2D points placed at z=0.
func NewPolygon2D(pts []Vec2) *Polygon {
	verts := make([]float64, 0, len(pts)*3)
	for _, p := range pts {
		verts = append(verts, p.X, p.Y, 0)
	}
	return newPolygon(verts)
}

// NewPolygon3D builds a polygon from 3D points.
func NewPolygon3D(pts []Vec3) *Polygon {
	verts := make([]float64, 0, len(pts)*3)
	for _, p := range pts {
		verts = append(verts, p.X, p.Y, p.Z)
	}
	return newPolygon(verts)
}

// FromIndices builds a new polygon from a subset of p's vertices, in
// the given order. The vertex data is always copied; the result never
// aliases p. Used to drop degenerate vertices after clipping.
func (p *Polygon) FromIndices(indices []int) *Polygon {
	verts := make([]float64, 0, len(indices)*3)
	for _, i := range indices {
		verts = append(verts, p.verts[i*3], p.verts[i*3+1], p.verts[i*3+2])
	}
	return newPolygon(verts)
}

func newPolygon(verts []float64) *Polygon {
	p := &Polygon{verts: verts}
	if p.Len() >= 3 {
		p.plane, p.planeValid = PlaneFromPoints(p.Vertex(0), p.Vertex(1), p.Vertex(2))
	} else {
		p.plane = DefaultPlane()
	}
	return p
}

// Len returns the vertex count.
func (p *Polygon) Len() int {
	return len(p.verts) / 3
}

// Vertex returns vertex i.
func (p *Polygon) Vertex(i int) Vec3 {
	return Vec3{p.verts[i*3], p.verts[i*3+1], p.verts[i*3+2]}
}

// Vertex2D returns the (x, y) projection of vertex i.
func (p *Polygon) Vertex2D(i int) Vec2 {
	return Vec2{p.verts[i*3], p.verts[i*3+1]}
}

// Plane returns the fitted plane. Meaningful only when PlaneValid.
func (p *Polygon) Plane() Plane {
	return p.plane
}

// PlaneValid reports whether the constructor-time plane fit succeeded.
func (p *Polygon) PlaneValid() bool {
	return p.planeValid
}

// ContainsPoint reports whether pt lies on the polygon, boundary
// included. The test requires pt to be on the fitted plane within
// tolerance and then checks that every non-collinear edge sees pt on
// the same side. Correct for convex polygons only; a point exactly on
// an edge produces a near-zero cross product for that edge and is
// skipped rather than treated as a sign break.
func (p *Polygon) ContainsPoint(pt Vec3) bool {
	if !p.planeValid {
		return false
	}
	if math.Abs(p.plane.DistanceToPoint(pt)) > containsEpsilon {
		return false
	}
	n := p.Len()
	sign := 0
	for i := 0; i < n; i++ {
		start := p.Vertex(i)
		edge := p.Vertex((i + 1) % n).Sub(start)
		d := p.plane.Normal.Dot(edge.Cross(pt.Sub(start)))
		if math.Abs(d) <= containsEpsilon {
			// Collinear edge: no side information, skip.
			continue
		}
		if d > 0 {
			if sign < 0 {
				return false
			}
			sign = 1
		} else {
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}

// ValidVertexIndices returns the indices of vertices whose outgoing
// edge (to the next vertex, wrapping) is at least minVertexDistance
// long. A run of coincident vertices collapses to one because each
// redundant vertex is immediately followed by a near-zero edge.
func (p *Polygon) ValidVertexIndices() []int {
	n := p.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if p.Vertex(i).DistanceTo(p.Vertex((i+1)%n)) >= minVertexDistance {
			indices = append(indices, i)
		}
	}
	return indices
}

// Transform returns a new polygon that maps each (x, y)-projected
// vertex v into the plane spanned by xAxis and yAxis at origin:
// origin + xAxis*v.x + yAxis*v.y.
func (p *Polygon) Transform(origin, xAxis, yAxis Vec3) *Polygon {
	pts := make([]Vec3, p.Len())
	for i := range pts {
		v := p.Vertex2D(i)
		pts[i] = origin.Add(xAxis.Scale(v.X)).Add(yAxis.Scale(v.Y))
	}
	return NewPolygon3D(pts)
}

// IntersectRay returns the point where the ray crosses the polygon's
// plane inside the polygon. Returns ok=false when the plane fit was
// degenerate, the ray misses the plane (or crosses outside the segment
// parameter range), or the crossing lies outside the polygon.
func (p *Polygon) IntersectRay(r Ray) (Vec3, bool) {
	if !p.planeValid {
		return Vec3{}, false
	}
	pt, ok := r.IntersectPlane(p.plane)
	if !ok {
		return Vec3{}, false
	}
	if !p.ContainsPoint(pt) {
		return Vec3{}, false
	}
	return pt, true
}

// Bounds2D returns the axis-aligned min/max over the (x, y) projection
// of all vertices. Zero values for an empty polygon.
func (p *Polygon) Bounds2D() (min, max Vec2) {
	if p.Len() == 0 {
		return Vec2{}, Vec2{}
	}
	min = p.Vertex2D(0)
	max = min
	for i := 1; i < p.Len(); i++ {
		v := p.Vertex2D(i)
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	return min, max
}

// Equal reports exact per-vertex equality, order sensitive, with no
// tolerance and no cyclic normalization. Callers wanting
// rotation-invariant comparison must provide it themselves.
func (p *Polygon) Equal(o *Polygon) bool {
	if len(p.verts) != len(o.verts) {
		return false
	}
	for i := range p.verts {
		if p.verts[i] != o.verts[i] {
			return false
		}
	}
	return true
}
