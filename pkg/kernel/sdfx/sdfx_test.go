package sdfx

import (
	"math"
	"testing"

	"github.com/darrendavidhumphrey/fsg/pkg/geom"
)

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)

	min, max := box.BoundingBox()
	if min.X > 1e-6 || min.Y > 1e-6 || min.Z > 1e-6 {
		t.Errorf("box min corner = %v, want origin", min)
	}
	if math.Abs(max.X-100) > 1e-6 || math.Abs(max.Y-50) > 1e-6 || math.Abs(max.Z-25) > 1e-6 {
		t.Errorf("box max corner = %v, want {100 50 25}", max)
	}

	m, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if m.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	t.Logf("box triangle count: %d", m.TriangleCount())

	// Marching cubes overshoots slightly, but the mesh should stay
	// close to the analytic bounds.
	b := m.Bounds()
	if b.Max.X < 90 || b.Max.Y < 40 || b.Max.Z < 20 {
		t.Errorf("mesh bounds %v %v too small for a 100x50x25 box", b.Min, b.Max)
	}
}

func TestCylinder(t *testing.T) {
	k := New()
	cyl := k.Cylinder(50, 10)
	m, err := k.ToMesh(cyl)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	t.Logf("cylinder triangle count: %d", m.TriangleCount())
}

func TestDifference(t *testing.T) {
	k := New()

	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	cyl := k.Cylinder(120, 20)
	diff := k.Difference(box, k.Translate(cyl, 50, 50, -10))
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	// A box with a hole through it needs more triangles than the box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should exceed box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := New()
	a := k.Box(50, 50, 50)
	b := k.Translate(k.Box(50, 50, 50), 100, 0, 0)

	m, err := k.ToMesh(k.Union(a, b))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	bounds := m.Bounds()
	if bounds.Max.X < 140 {
		t.Errorf("union bounds max x = %v, want near 150", bounds.Max.X)
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	a := k.Box(50, 50, 50)
	b := k.Translate(k.Box(50, 50, 50), 25, 0, 0)

	m, err := k.ToMesh(k.Intersection(a, b))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
	bounds := m.Bounds()
	if bounds.Min.X < 20 || bounds.Max.X > 55 {
		t.Errorf("intersection x range [%v, %v], want roughly [25, 50]", bounds.Min.X, bounds.Max.X)
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	s := k.Translate(k.Box(10, 10, 10), 100, 200, 300)
	min, max := s.BoundingBox()
	want := geom.Vec3{X: 100, Y: 200, Z: 300}
	if math.Abs(min.X-want.X) > 1e-6 || math.Abs(min.Y-want.Y) > 1e-6 || math.Abs(min.Z-want.Z) > 1e-6 {
		t.Errorf("translated min = %v, want %v", min, want)
	}
	if math.Abs(max.X-110) > 1e-6 {
		t.Errorf("translated max x = %v, want 110", max.X)
	}
}

func TestRotate(t *testing.T) {
	k := New()
	// Rotating a tall box 90 degrees about x swaps its y and z extents.
	s := k.Rotate(k.Box(10, 10, 100), 90, 0, 0)
	min, max := s.BoundingBox()
	if max.Z-min.Z > 50 {
		t.Errorf("rotated z extent = %v, want collapsed to ~10", max.Z-min.Z)
	}
	if max.Y-min.Y < 50 {
		t.Errorf("rotated y extent = %v, want ~100", max.Y-min.Y)
	}
}
