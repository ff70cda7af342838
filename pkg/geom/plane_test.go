package geom

import "testing"

func TestPlaneFromPoints(t *testing.T) {
	t.Run("xy plane", func(t *testing.T) {
		p, ok := PlaneFromPoints(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0})
		if !ok {
			t.Fatal("PlaneFromPoints() ok = false, want true")
		}
		if !vec3Equal(p.Normal, Vec3{Z: 1}) {
			t.Errorf("Normal = %v, want {0 0 1}", p.Normal)
		}
		if !almostEqual(p.Constant, 0) {
			t.Errorf("Constant = %v, want 0", p.Constant)
		}
	})

	t.Run("offset plane", func(t *testing.T) {
		p, ok := PlaneFromPoints(Vec3{0, 0, 5}, Vec3{1, 0, 5}, Vec3{0, 1, 5})
		if !ok {
			t.Fatal("PlaneFromPoints() ok = false, want true")
		}
		if !almostEqual(p.DistanceToPoint(Vec3{7, -3, 5}), 0) {
			t.Error("point on plane has nonzero distance")
		}
		if !almostEqual(p.DistanceToPoint(Vec3{0, 0, 7}), 2) {
			t.Errorf("DistanceToPoint() = %v, want 2", p.DistanceToPoint(Vec3{0, 0, 7}))
		}
	})

	t.Run("collinear points", func(t *testing.T) {
		if _, ok := PlaneFromPoints(Vec3{}, Vec3{1, 1, 1}, Vec3{2, 2, 2}); ok {
			t.Error("PlaneFromPoints() ok = true for collinear points, want false")
		}
	})
}

func TestRayIntersectPlane(t *testing.T) {
	plane := Plane{Normal: Vec3{Z: 1}, Constant: 0}

	tests := []struct {
		name    string
		ray     Ray
		wantHit bool
		wantPt  Vec3
	}{
		{"straight down", Ray{Origin: Vec3{1, 2, 10}, Dir: Vec3{0, 0, -20}}, true, Vec3{1, 2, 0}},
		{"touches at end", Ray{Origin: Vec3{0, 0, 10}, Dir: Vec3{0, 0, -10}}, true, Vec3{}},
		{"falls short", Ray{Origin: Vec3{0, 0, 10}, Dir: Vec3{0, 0, -5}}, false, Vec3{}},
		{"points away", Ray{Origin: Vec3{0, 0, 10}, Dir: Vec3{0, 0, 5}}, false, Vec3{}},
		{"parallel", Ray{Origin: Vec3{0, 0, 10}, Dir: Vec3{1, 0, 0}}, false, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectPlane(plane)
			if hit != tt.wantHit {
				t.Fatalf("IntersectPlane() hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && !vec3Equal(got, tt.wantPt) {
				t.Errorf("IntersectPlane() = %v, want %v", got, tt.wantPt)
			}
		})
	}
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: Vec3{1, 1, 1}, Dir: Vec3{2, 0, -2}}
	if got := r.At(0.5); !vec3Equal(got, Vec3{2, 1, 0}) {
		t.Errorf("At(0.5) = %v, want {2 1 0}", got)
	}
}
