package geom

import "math"

// clipEpsilon bounds the parallel-denominator test and the squared
// distance under which consecutive output points are merged.
const clipEpsilon = 1e-4

// clipEdge is one boundary of a convex clip region: an outward unit
// normal plus any point on the infinite line containing the edge.
// Points with normal·(p - point) > 0 are outside.
type clipEdge struct {
	normal Vec2
	point  Vec2
}

// outside reports whether p lies strictly outside the edge's
// half-plane. Points exactly on the boundary count as inside.
func (e clipEdge) outside(p Vec2) bool {
	return e.normal.Dot(p.Sub(e.point)) > 0
}

// RectClipper clips closed polygons against an axis-aligned rectangle.
// The polygon cascades through the four half-planes; within each pass
// every closed-polygon edge is clipped with the Cyrus–Beck parametric
// method. The edge list is a slice, so the same cascade extends to any
// convex clip window.
type RectClipper struct {
	edges []clipEdge
}

// NewRectClipper builds a clipper for the Y-up rectangle spanning
// [left, right] × [bottom, top].
func NewRectClipper(left, bottom, right, top float64) *RectClipper {
	return &RectClipper{
		edges: []clipEdge{
			{normal: Vec2{-1, 0}, point: Vec2{left, top}},
			{normal: Vec2{0, -1}, point: Vec2{left, bottom}},
			{normal: Vec2{1, 0}, point: Vec2{right, top}},
			{normal: Vec2{0, 1}, point: Vec2{left, top}},
		},
	}
}

// Clip returns the part of polygon inside the rectangle, or nil when
// nothing (or only a degenerate sliver) survives. Inputs with fewer
// than three vertices are rejected outright. Vertices exactly on the
// boundary are kept.
func (c *RectClipper) Clip(polygon *Polygon) *Polygon {
	if polygon.Len() < 3 {
		return nil
	}

	pts := make([]Vec2, polygon.Len())
	for i := range pts {
		pts[i] = polygon.Vertex2D(i)
	}
	for _, e := range c.edges {
		pts = clipPass(pts, e)
		if len(pts) == 0 {
			return nil
		}
	}
	if len(pts) < 3 {
		return nil
	}

	clipped := NewPolygon2D(pts)
	valid := clipped.ValidVertexIndices()
	if len(valid) < 3 {
		return nil
	}
	if len(valid) < clipped.Len() {
		clipped = clipped.FromIndices(valid)
	}
	if !clipped.PlaneValid() {
		return nil
	}
	return clipped
}

// clipPass clips every edge of the closed polygon (including the
// wrap-around edge) against one half-plane and assembles the surviving
// endpoints. A segment's clipped start point is suppressed when it
// nearly coincides with the previously appended point; this is local
// de-duplication only, the wrap-around duplicate is left for
// ValidVertexIndices to strip.
func clipPass(pts []Vec2, e clipEdge) []Vec2 {
	n := len(pts)
	out := make([]Vec2, 0, n+1)
	for i := 0; i < n; i++ {
		c0, c1, ok := clipSegment(pts[i], pts[(i+1)%n], e)
		if !ok {
			continue
		}
		if len(out) == 0 || out[len(out)-1].DistanceSquaredTo(c0) >= clipEpsilon*clipEpsilon {
			out = append(out, c0)
		}
		out = append(out, c1)
	}
	return out
}

// clipSegment clips the segment p0→p1 against one half-plane using
// the parametric entering/leaving method: tE tracks the largest
// entering parameter, tL the smallest leaving one. Returns the clipped
// endpoints, or ok=false when the segment lies entirely outside.
func clipSegment(p0, p1 Vec2, e clipEdge) (Vec2, Vec2, bool) {
	dir := p1.Sub(p0)

	if dir.LengthSquared() < clipEpsilon {
		// Degenerate segment: treat as a point and keep it unless it
		// is outside.
		if e.outside(p0) {
			return Vec2{}, Vec2{}, false
		}
		return p0, p1, true
	}

	tE, tL := 0.0, 1.0
	num := e.normal.Dot(p0.Sub(e.point))
	den := e.normal.Dot(dir)
	if math.Abs(den) < clipEpsilon {
		// Parallel to the edge: entirely outside, or unconstrained.
		if num > 0 {
			return Vec2{}, Vec2{}, false
		}
	} else {
		t := -num / den
		if den > 0 {
			// Leaving through this edge.
			if t < tL {
				tL = t
			}
		} else {
			// Entering through this edge.
			if t > tE {
				tE = t
			}
		}
	}
	if tE > tL {
		return Vec2{}, Vec2{}, false
	}
	return p0.Add(dir.Scale(tE)), p0.Add(dir.Scale(tL)), true
}
