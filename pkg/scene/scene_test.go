package scene

import (
	"math"
	"testing"

	"github.com/darrendavidhumphrey/fsg/pkg/geom"
	"github.com/darrendavidhumphrey/fsg/pkg/solid"
	"github.com/darrendavidhumphrey/fsg/pkg/tessellate"
)

func TestSceneAddAndLookup(t *testing.T) {
	s := New()
	m := tessellate.FromFaces(solid.BoxFaces(10, 10, 10))

	p := s.Add("base", m, "#ff0000")
	if p == nil {
		t.Fatal("Add() = nil")
	}
	if s.PartCount() != 1 {
		t.Errorf("PartCount() = %d, want 1", s.PartCount())
	}
	if got := s.Lookup("base"); got != p {
		t.Errorf("Lookup() = %v, want the added part", got)
	}
	if got := s.Lookup("missing"); got != nil {
		t.Errorf("Lookup(missing) = %v, want nil", got)
	}
	if p.Name != "base" || p.Color != "#ff0000" {
		t.Errorf("part = %q/%q, want base/#ff0000", p.Name, p.Color)
	}
}

func TestScenePick(t *testing.T) {
	s := New()
	near := tessellate.FromFaces(solid.BoxFaces(10, 10, 10))
	s.Add("near", near, "#ff0000")

	// Shoot straight down the z axis from above the box.
	ray := geom.Ray{Origin: geom.Vec3{X: 5, Y: 5, Z: 50}, Dir: geom.Vec3{X: 0, Y: 0, Z: -100}}
	hit := s.Pick(ray)
	if hit == nil {
		t.Fatal("Pick() = nil, want hit")
	}
	if hit.Part.Name != "near" {
		t.Errorf("Pick() part = %q, want near", hit.Part.Name)
	}
	if math.Abs(hit.Hit.Point.Z-10) > 1e-5 {
		t.Errorf("Pick() point z = %v, want 10", hit.Hit.Point.Z)
	}
}

func TestScenePickClosestPart(t *testing.T) {
	s := New()
	faces := solid.Rect(10, 10)
	low := tessellate.Extrude([]*geom.Polygon{faces}, geom.Vec3{Z: -2})
	s.Add("low", low, "#00ff00")

	lifted := faces.Transform(geom.Vec3{Z: 20}, geom.Vec3{X: 1}, geom.Vec3{Y: 1})
	high := tessellate.Extrude([]*geom.Polygon{lifted}, geom.Vec3{Z: -2})
	s.Add("high", high, "#0000ff")

	ray := geom.Ray{Origin: geom.Vec3{X: 5, Y: 5, Z: 50}, Dir: geom.Vec3{X: 0, Y: 0, Z: -100}}
	hit := s.Pick(ray)
	if hit == nil {
		t.Fatal("Pick() = nil, want hit")
	}
	if hit.Part.Name != "high" {
		t.Errorf("Pick() part = %q, want high (the nearer part)", hit.Part.Name)
	}
}

func TestScenePickMiss(t *testing.T) {
	s := New()
	s.Add("box", tessellate.FromFaces(solid.BoxFaces(10, 10, 10)), "#ff0000")

	ray := geom.Ray{Origin: geom.Vec3{X: 500, Y: 500, Z: 50}, Dir: geom.Vec3{X: 0, Y: 0, Z: -100}}
	if hit := s.Pick(ray); hit != nil {
		t.Errorf("Pick() = %+v, want nil", hit)
	}
	if hit := New().Pick(ray); hit != nil {
		t.Errorf("Pick() on empty scene = %+v, want nil", hit)
	}
}

func TestSceneExport(t *testing.T) {
	s := New()
	m := tessellate.FromFaces(solid.BoxFaces(10, 10, 10))
	s.Add("base", m, "#ff0000")

	data := s.Export()
	if len(data) != 1 {
		t.Fatalf("Export() returned %d parts, want 1", len(data))
	}
	pd := data[0]
	if pd.Name != "base" || pd.Color != "#ff0000" {
		t.Errorf("exported part = %q/%q, want base/#ff0000", pd.Name, pd.Color)
	}
	if pd.TriangleCount != m.TriangleCount() {
		t.Errorf("exported TriangleCount = %d, want %d", pd.TriangleCount, m.TriangleCount())
	}
	if len(pd.Vertices) != len(m.VertexData()) {
		t.Errorf("exported %d floats, want %d", len(pd.Vertices), len(m.VertexData()))
	}
}
