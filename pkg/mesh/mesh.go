// Package mesh provides the flat interleaved triangle-mesh storage
// shared by the tessellator, the picking layer, and GPU upload.
package mesh

import (
	"github.com/chewxy/math32"

	"github.com/darrendavidhumphrey/fsg/pkg/geom"
)

// Layout of one vertex record in the flat array.
const (
	// VertexStride is the float count per vertex: 3 position, 2 UV,
	// 3 normal.
	VertexStride = 8

	uvOffset     = 3
	normalOffset = 5
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min geom.Vec3
	Max geom.Vec3
}

// TriangleMesh is a fixed-capacity triangle mesh stored as one flat
// float32 array, VertexStride floats per vertex and three vertices per
// triangle. The layout is upload-ready for a GPU vertex buffer.
//
// The capacity is fixed at construction. Triangles are written in
// place by slot via AddTriangle; callers own the slot sequence and
// must call RecomputeBounds once after the last write. A completed
// mesh may be read concurrently.
type TriangleMesh struct {
	data          []float32
	triangleCount int
	bounds        Bounds
}

// NewTriangleMesh allocates storage for exactly triangleCount triangles.
func NewTriangleMesh(triangleCount int) *TriangleMesh {
	return &TriangleMesh{
		data:          make([]float32, triangleCount*3*VertexStride),
		triangleCount: triangleCount,
	}
}

// EmptyTriangleMesh returns a zero-capacity mesh.
func EmptyTriangleMesh() *TriangleMesh {
	return NewTriangleMesh(0)
}

// TriangleCount returns the fixed triangle capacity.
func (m *TriangleMesh) TriangleCount() int {
	return m.triangleCount
}

// VertexCount returns the total vertex count (three per triangle).
func (m *TriangleMesh) VertexCount() int {
	return m.triangleCount * 3
}

// IsEmpty reports whether the mesh holds no geometry.
func (m *TriangleMesh) IsEmpty() bool {
	return m.triangleCount == 0
}

// VertexData exposes the backing array for GPU upload. The layout is
// [x y z u v nx ny nz] per vertex. Callers must treat it as read-only.
func (m *TriangleMesh) VertexData() []float32 {
	return m.data
}

// AddTriangle writes the three vertices of triangle slot using one
// shared normal and per-vertex UVs, and returns slot+1. This is the
// only mutation primitive; callers must never exceed the capacity
// given at construction.
func (m *TriangleMesh) AddTriangle(v0, v1, v2, normal geom.Vec3, uv [3]geom.Vec2, slot int) int {
	base := slot * 3 * VertexStride
	for i, v := range [3]geom.Vec3{v0, v1, v2} {
		o := base + i*VertexStride
		m.data[o] = float32(v.X)
		m.data[o+1] = float32(v.Y)
		m.data[o+2] = float32(v.Z)
		m.data[o+uvOffset] = float32(uv[i].X)
		m.data[o+uvOffset+1] = float32(uv[i].Y)
		m.data[o+normalOffset] = float32(normal.X)
		m.data[o+normalOffset+1] = float32(normal.Y)
		m.data[o+normalOffset+2] = float32(normal.Z)
	}
	return slot + 1
}

// Vertex returns the position of vertex i (vertex index, not triangle
// index).
func (m *TriangleMesh) Vertex(i int) geom.Vec3 {
	o := i * VertexStride
	return geom.Vec3{
		X: float64(m.data[o]),
		Y: float64(m.data[o+1]),
		Z: float64(m.data[o+2]),
	}
}

// UV returns the texture coordinate of vertex i.
func (m *TriangleMesh) UV(i int) geom.Vec2 {
	o := i*VertexStride + uvOffset
	return geom.Vec2{X: float64(m.data[o]), Y: float64(m.data[o+1])}
}

// Normal returns the normal of vertex i.
func (m *TriangleMesh) Normal(i int) geom.Vec3 {
	o := i*VertexStride + normalOffset
	return geom.Vec3{
		X: float64(m.data[o]),
		Y: float64(m.data[o+1]),
		Z: float64(m.data[o+2]),
	}
}

// Triangle returns the three vertex positions of triangle t.
func (m *TriangleMesh) Triangle(t int) (geom.Vec3, geom.Vec3, geom.Vec3) {
	return m.Vertex(t * 3), m.Vertex(t*3 + 1), m.Vertex(t*3 + 2)
}

// Bounds returns the cached bounding box. RecomputeBounds must have
// been called after the last write for the value to be trusted.
func (m *TriangleMesh) Bounds() Bounds {
	return m.bounds
}

// RecomputeBounds rescans every vertex position directly in the flat
// array and refreshes the cached bounding box. An empty mesh gets a
// zero box.
func (m *TriangleMesh) RecomputeBounds() {
	if m.triangleCount == 0 {
		m.bounds = Bounds{}
		return
	}
	minX, minY, minZ := math32.Inf(1), math32.Inf(1), math32.Inf(1)
	maxX, maxY, maxZ := math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)
	for v := 0; v < m.triangleCount*3; v++ {
		o := v * VertexStride
		x, y, z := m.data[o], m.data[o+1], m.data[o+2]
		minX = math32.Min(minX, x)
		minY = math32.Min(minY, y)
		minZ = math32.Min(minZ, z)
		maxX = math32.Max(maxX, x)
		maxY = math32.Max(maxY, y)
		maxZ = math32.Max(maxZ, z)
	}
	m.bounds = Bounds{
		Min: geom.Vec3{X: float64(minX), Y: float64(minY), Z: float64(minZ)},
		Max: geom.Vec3{X: float64(maxX), Y: float64(maxY), Z: float64(maxZ)},
	}
}
