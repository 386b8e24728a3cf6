package annotation

import (
	"ccfatlas/internal/models"
)

const (
	// DefaultSearchDistance is the ray length used by callers that have no
	// better bound, in voxel-space units
	DefaultSearchDistance float32 = 400

	// SurfaceSamples is the number of evenly spaced points evaluated along a
	// ray, start and end included
	SurfaceSamples = 2001
)

// sampleAt returns sample i of SurfaceSamples on the segment from start to end
func sampleAt(start, end models.Point, i int) models.Point {
	t := float32(i) / float32(SurfaceSamples-1)
	return start.Add(end.Sub(start).Mul(t))
}

// FindSurfaceCoordinate marches from start along direction for searchDistance
// and returns the first sample that lies outside tissue after the ray has been
// inside tissue at least once. A ray that starts outside therefore has to
// enter before an exit is reported. direction does not need to be unit length;
// the ray ends at start + direction*searchDistance.
//
// When no such exit is found, including when the ray never enters tissue, the
// result is models.Undefined().
//
// A start point sitting on a boundary can produce an exit within the first
// sample or two.
func (d *Dataset) FindSurfaceCoordinate(start, direction models.Point, searchDistance float32) models.Point {
	// starting inside counts as having crossed into tissue
	crossed := d.ValueAt(start) > 0
	end := start.Add(direction.Mul(searchDistance))

	for i := 0; i < SurfaceSamples; i++ {
		point := sampleAt(start, end, i)
		if crossed {
			if d.ValueAt(point) <= 0 {
				return point
			}
		} else if d.ValueAt(point) > 0 {
			crossed = true
		}
	}

	return models.Undefined()
}

// FindWorldSurfaceCoordinate is FindSurfaceCoordinate for a ray given in world
// coordinates. The ray still ends at start + direction*searchDistance in
// world units. The result is in world coordinates, or models.Undefined() when
// there is no crossing.
func (d *Dataset) FindWorldSurfaceCoordinate(start, direction models.Point, searchDistance float32) models.Point {
	surface := d.FindSurfaceCoordinate(
		d.space.World2Space(start),
		d.space.World2SpaceDirection(direction),
		searchDistance,
	)
	if models.IsUndefined(surface) {
		return surface
	}
	return d.space.Space2World(surface)
}
