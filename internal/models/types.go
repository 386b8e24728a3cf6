package models

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Point is a position in voxel-index space: X is the AP axis, Y the DV axis
// and Z the LR axis. Coordinates are continuous; lookups round them to the
// nearest voxel.
type Point = mgl32.Vec3

// Size holds the extents of an annotation volume along each axis
type Size struct {
	// AP is the number of coronal slices (anterior to posterior)
	AP int `yaml:"ap"`

	// DV is the number of voxels from dorsal to ventral
	DV int `yaml:"dv"`

	// LR is the number of voxels from left to right
	LR int `yaml:"lr"`
}

// Len returns the total number of voxels
func (s Size) Len() int {
	return s.AP * s.DV * s.LR
}

// Contains reports whether the index lies inside [0, size) on every axis
func (s Size) Contains(ap, dv, lr int) bool {
	return ap >= 0 && ap < s.AP &&
		dv >= 0 && dv < s.DV &&
		lr >= 0 && lr < s.LR
}

// Index returns the flat row-major offset of a voxel, LR varying fastest.
// The index must satisfy Contains.
func (s Size) Index(ap, dv, lr int) int {
	return (ap*s.DV+dv)*s.LR + lr
}

// Coords is the inverse of Index
func (s Size) Coords(i int) (ap, dv, lr int) {
	lr = i % s.LR
	dv = (i / s.LR) % s.DV
	ap = i / (s.LR * s.DV)
	return ap, dv, lr
}

// Undefined returns the sentinel point reported when no surface crossing exists
func Undefined() Point {
	nan := float32(math.NaN())
	return Point{nan, nan, nan}
}

// IsUndefined reports whether any axis of p is NaN
func IsUndefined(p Point) bool {
	return p[0] != p[0] || p[1] != p[1] || p[2] != p[2]
}

// RoundIndex rounds a continuous coordinate to the nearest voxel index.
// Halfway values round to the even neighbour.
func RoundIndex(v float32) int {
	return int(math.RoundToEven(float64(v)))
}
