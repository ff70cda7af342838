// Package solid builds polygon outlines for common shapes. The
// outlines feed the tessellator: box faces go straight to
// tessellate.FromFaces, flat outlines to tessellate.Extrude.
package solid

import (
	"math"

	"github.com/darrendavidhumphrey/fsg/pkg/geom"
)

// Rect returns a w×h rectangle outline at z=0 with its corner at the
// origin, counterclockwise.
func Rect(w, h float64) *geom.Polygon {
	return geom.NewPolygon2D([]geom.Vec2{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	})
}

// RegularPolygon returns an n-gon of the given radius centered on the
// origin at z=0, counterclockwise. n is clamped to at least 3.
func RegularPolygon(n int, radius float64) *geom.Polygon {
	if n < 3 {
		n = 3
	}
	pts := make([]geom.Vec2, n)
	for i := range pts {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Vec2{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}
	}
	return geom.NewPolygon2D(pts)
}

// BoxFaces returns the six face polygons of a w×h×d box with its
// minimum corner at the origin. Each face is a 2D rectangle remapped
// into place with Polygon.Transform; the basis vectors are chosen so
// every fitted normal points out of the box.
func BoxFaces(w, h, d float64) []*geom.Polygon {
	x := geom.Vec3{X: 1}
	y := geom.Vec3{Y: 1}
	z := geom.Vec3{Z: 1}
	return []*geom.Polygon{
		// front (+z) and back (-z)
		Rect(w, h).Transform(geom.Vec3{Z: d}, x, y),
		Rect(h, w).Transform(geom.Vec3{}, y, x),
		// right (+x) and left (-x)
		Rect(h, d).Transform(geom.Vec3{X: w}, y, z),
		Rect(d, h).Transform(geom.Vec3{}, z, y),
		// top (+y) and bottom (-y)
		Rect(d, w).Transform(geom.Vec3{Y: h}, z, x),
		Rect(w, d).Transform(geom.Vec3{}, x, z),
	}
}
