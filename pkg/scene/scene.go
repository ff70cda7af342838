// Package scene holds named mesh parts and answers scene-level pick
// queries. Parts are indexed by name for lookup and by bounding box in
// an R-tree so a pick ray only visits meshes whose bounds it can
// reach.
package scene

import (
	"github.com/dhconnelly/rtreego"

	"github.com/darrendavidhumphrey/fsg/pkg/geom"
	"github.com/darrendavidhumphrey/fsg/pkg/mesh"
	"github.com/darrendavidhumphrey/fsg/pkg/pick"
)

// minExtent pads degenerate bounding-box axes; rtreego rejects
// rectangles with non-positive side lengths.
const minExtent = 1e-9

// Part is one named mesh in the scene.
type Part struct {
	Name  string
	Mesh  *mesh.TriangleMesh
	Color string

	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (p *Part) Bounds() rtreego.Rect {
	return p.rect
}

// Scene is an ordered collection of named parts with a spatial index
// over their mesh bounds. It is not safe for concurrent mutation;
// build it fully, then share it read-only.
type Scene struct {
	parts     []*Part
	nameIndex map[string]*Part
	tree      *rtreego.Rtree
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		nameIndex: make(map[string]*Part),
		tree:      rtreego.NewTree(3, 2, 8),
	}
}

// Add inserts a named mesh into the scene. The mesh's bounds must be
// current (RecomputeBounds already called). A later part replaces an
// earlier one of the same name in the name index but both remain in
// the part list.
func (s *Scene) Add(name string, m *mesh.TriangleMesh, color string) *Part {
	p := &Part{
		Name:  name,
		Mesh:  m,
		Color: color,
		rect:  boundsRect(m.Bounds()),
	}
	s.parts = append(s.parts, p)
	s.nameIndex[name] = p
	s.tree.Insert(p)
	return p
}

// Lookup returns the part with the given name, or nil.
func (s *Scene) Lookup(name string) *Part {
	return s.nameIndex[name]
}

// Parts returns the parts in insertion order.
func (s *Scene) Parts() []*Part {
	return s.parts
}

// PartCount returns the number of parts.
func (s *Scene) PartCount() int {
	return len(s.parts)
}

// PartHit pairs a mesh-level hit with the part it landed on.
type PartHit struct {
	Part *Part
	Hit  *pick.Hit
}

// Pick returns the closest hit across all parts whose bounds the ray's
// extent touches, or nil. The ray is a segment (origin to origin+dir),
// so its direction must be long enough to span the scene; pick rays
// unprojected from near/far clip planes satisfy this.
func (s *Scene) Pick(ray geom.Ray) *PartHit {
	candidates := s.tree.SearchIntersect(rayRect(ray))

	var best *PartHit
	for _, c := range candidates {
		part := c.(*Part)
		hit := pick.Intersect(part.Mesh, ray)
		if hit == nil {
			continue
		}
		if best == nil || hit.Distance < best.Hit.Distance {
			best = &PartHit{Part: part, Hit: hit}
		}
	}
	return best
}

// PartData is the JSON-serializable form of a part for frontend or
// GPU-upload consumers: the raw interleaved vertex array plus the
// counts needed to issue a draw call.
type PartData struct {
	Name          string    `json:"partName"`
	Color         string    `json:"color"`
	Vertices      []float32 `json:"vertices"` // 8 floats per vertex: position, UV, normal
	TriangleCount int       `json:"triangleCount"`
}

// Export returns the scene's parts in upload-ready form.
func (s *Scene) Export() []PartData {
	data := make([]PartData, 0, len(s.parts))
	for _, p := range s.parts {
		data = append(data, PartData{
			Name:          p.Name,
			Color:         p.Color,
			Vertices:      p.Mesh.VertexData(),
			TriangleCount: p.Mesh.TriangleCount(),
		})
	}
	return data
}

// boundsRect converts mesh bounds to an rtreego rectangle, padding
// collapsed axes to minExtent.
func boundsRect(b mesh.Bounds) rtreego.Rect {
	lengths := []float64{
		b.Max.X - b.Min.X,
		b.Max.Y - b.Min.Y,
		b.Max.Z - b.Min.Z,
	}
	for i := range lengths {
		if lengths[i] < minExtent {
			lengths[i] = minExtent
		}
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z}, lengths)
	if err != nil {
		// Lengths are padded positive above, so this cannot happen.
		panic(err)
	}
	return rect
}

// rayRect returns the axis-aligned box spanned by the ray's segment,
// used to query the spatial index for candidate parts.
func rayRect(ray geom.Ray) rtreego.Rect {
	end := ray.Origin.Add(ray.Dir)
	lo := geom.Vec3{
		X: min(ray.Origin.X, end.X),
		Y: min(ray.Origin.Y, end.Y),
		Z: min(ray.Origin.Z, end.Z),
	}
	hi := geom.Vec3{
		X: max(ray.Origin.X, end.X),
		Y: max(ray.Origin.Y, end.Y),
		Z: max(ray.Origin.Z, end.Z),
	}
	return boundsRect(mesh.Bounds{Min: lo, Max: hi})
}
