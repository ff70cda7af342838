package geom

import (
	"fmt"
	"math"
)

// The kernel's predicates do not guard against NaN or infinite
// coordinates; sign comparisons against NaN are always false and would
// silently mask bad input. These checks run where external data enters
// the system (script builtins, scene loading), not inside the hot
// paths.

// ValidateVec3 returns an error when any coordinate is NaN or infinite.
func ValidateVec3(v Vec3) error {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("non-finite coordinate in (%v, %v, %v)", v.X, v.Y, v.Z)
		}
	}
	return nil
}

// ValidateVec2 returns an error when either coordinate is NaN or infinite.
func ValidateVec2(v Vec2) error {
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		return fmt.Errorf("non-finite coordinate in (%v, %v)", v.X, v.Y)
	}
	return nil
}

// ValidatePolygon returns an error when any vertex of p has a
// non-finite coordinate.
func ValidatePolygon(p *Polygon) error {
	for i := 0; i < p.Len(); i++ {
		if err := ValidateVec3(p.Vertex(i)); err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	return nil
}
