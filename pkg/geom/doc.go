// Package geom implements the planar-polygon geometry kernel: 3D
// vector and plane primitives, closed planar polygons with plane
// fitting and containment, and Cyrus–Beck rectangle clipping.
//
// Everything here is a deterministic pure computation over immutable
// data. Polygons never change after construction, so completed values
// may be read from multiple goroutines without synchronization.
package geom
