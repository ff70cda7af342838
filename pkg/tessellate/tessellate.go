// Package tessellate turns closed planar polygons into triangle
// meshes: fan triangulation for faces and extrusion into closed
// solids. Triangle budgets are computed up front so the mesh is
// allocated exactly once and never grows.
package tessellate

import (
	"github.com/darrendavidhumphrey/fsg/pkg/geom"
	"github.com/darrendavidhumphrey/fsg/pkg/mesh"
)

// fanCount returns the triangle count for fan-triangulating p, zero
// when the polygon cannot be tessellated (degenerate plane or fewer
// than three vertices).
func fanCount(p *geom.Polygon) int {
	if !p.PlaneValid() || p.Len() < 3 {
		return 0
	}
	return p.Len() - 2
}

// faceUV maps v into the polygon's bounding box, normalized by its
// width and height. An origin coordinate of exactly 0 is replaced by
// 0.5; downstream consumers rely on this exact mapping, so the
// substitution stays even though it skews UVs for outlines anchored
// at zero.
func faceUV(v, min, max geom.Vec2) geom.Vec2 {
	ox, oy := min.X, min.Y
	if ox == 0 {
		ox = 0.5
	}
	if oy == 0 {
		oy = 0.5
	}
	return geom.Vec2{
		X: (v.X - ox) / (max.X - min.X),
		Y: (v.Y - oy) / (max.Y - min.Y),
	}
}

// FromFaces fan-triangulates each polygon into a single mesh. A convex
// N-gon contributes exactly N-2 triangles; polygons with a degenerate
// plane fit contribute nothing. UVs come from each source polygon's
// own 2D bounding box.
func FromFaces(polygons []*geom.Polygon) *mesh.TriangleMesh {
	total := 0
	for _, p := range polygons {
		total += fanCount(p)
	}
	m := mesh.NewTriangleMesh(total)
	slot := 0
	for _, p := range polygons {
		slot = fanFace(m, p, slot, geom.Vec3{})
	}
	m.RecomputeBounds()
	return m
}

// fanFace emits the top-cap fan for p, with every vertex offset by
// off, and returns the next free slot. The second and third fan
// vertices are swapped relative to naive fan order so the winding
// matches the fitted normal.
func fanFace(m *mesh.TriangleMesh, p *geom.Polygon, slot int, off geom.Vec3) int {
	count := fanCount(p)
	if count == 0 {
		return slot
	}
	normal := p.Plane().Normal
	min, max := p.Bounds2D()
	v0 := p.Vertex(0).Add(off)
	uv0 := faceUV(p.Vertex2D(0), min, max)
	for i := 0; i < count; i++ {
		a := p.Vertex(i + 2).Add(off)
		b := p.Vertex(i + 1).Add(off)
		uv := [3]geom.Vec2{
			uv0,
			faceUV(p.Vertex2D(i+2), min, max),
			faceUV(p.Vertex2D(i+1), min, max),
		}
		slot = m.AddTriangle(v0, a, b, normal, uv, slot)
	}
	return slot
}

// reverseFanFace emits the bottom-cap fan for p offset by off: the
// second/third swap is undone relative to the top cap and the normal
// negated, so the cap faces the other way. UV argument order follows
// the vertex order.
func reverseFanFace(m *mesh.TriangleMesh, p *geom.Polygon, slot int, off geom.Vec3) int {
	count := fanCount(p)
	if count == 0 {
		return slot
	}
	normal := p.Plane().Normal.Scale(-1)
	min, max := p.Bounds2D()
	v0 := p.Vertex(0).Add(off)
	uv0 := faceUV(p.Vertex2D(0), min, max)
	for i := 0; i < count; i++ {
		a := p.Vertex(i + 1).Add(off)
		b := p.Vertex(i + 2).Add(off)
		uv := [3]geom.Vec2{
			uv0,
			faceUV(p.Vertex2D(i+1), min, max),
			faceUV(p.Vertex2D(i+2), min, max),
		}
		slot = m.AddTriangle(v0, a, b, normal, uv, slot)
	}
	return slot
}

// Extrude sweeps the outlines along depth into a closed solid: top
// caps, depth-offset bottom caps with reversed winding, and two side
// triangles per outline edge. Side faces are generated per edge, so an
// outline with a failed plane fit still contributes sides even though
// it gets no caps.
func Extrude(outlines []*geom.Polygon, depth geom.Vec3) *mesh.TriangleMesh {
	topCount := 0
	sideCount := 0
	for _, o := range outlines {
		topCount += fanCount(o)
		sideCount += 2 * o.Len()
	}
	m := mesh.NewTriangleMesh(topCount*2 + sideCount)

	slot := 0
	for _, o := range outlines {
		slot = fanFace(m, o, slot, geom.Vec3{})
	}
	for _, o := range outlines {
		slot = reverseFanFace(m, o, slot, depth)
	}
	for _, o := range outlines {
		slot = sideFaces(m, o, slot, depth)
	}
	m.RecomputeBounds()
	return m
}

// Side-face UV placeholders, one triple per triangle of the quad.
// TODO: replace with arc-length unwrapping along the outline so side
// textures are not stretched edge by edge.
var (
	sideUVLower = [3]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	sideUVUpper = [3]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
)

// sideFaces emits two triangles per outline edge connecting the edge
// to its depth-offset counterpart. The face normal is cross(edge,
// depth) normalized.
func sideFaces(m *mesh.TriangleMesh, o *geom.Polygon, slot int, depth geom.Vec3) int {
	n := o.Len()
	for i := 0; i < n; i++ {
		a := o.Vertex(i % n)
		b := o.Vertex((i + 1) % n)
		edge := b.Sub(a)
		normal := edge.Cross(depth).Normalized()
		a2 := a.Add(depth)
		b2 := b.Add(depth)
		slot = m.AddTriangle(a, b, b2, normal, sideUVLower, slot)
		slot = m.AddTriangle(a, b2, a2, normal, sideUVUpper, slot)
	}
	return slot
}
