// Package coords maps between continuous world coordinates and the discrete
// voxel-index space of an annotation volume.
package coords

import (
	"github.com/go-gl/mathgl/mgl32"

	"ccfatlas/internal/models"
)

// Space converts points and directions between world units and voxel indices
type Space interface {
	// World2Space converts a world position into voxel-index space
	World2Space(world models.Point) models.Point

	// Space2World converts a voxel-index position into world units
	Space2World(space models.Point) models.Point

	// World2SpaceDirection converts a world direction, ignoring translation
	World2SpaceDirection(world models.Point) models.Point

	// Space2WorldDirection converts a voxel-space direction, ignoring translation
	Space2WorldDirection(space models.Point) models.Point

	// Dimensions returns the extent of the space in voxels
	Dimensions() models.Size
}

// AffineSpace is a Space described by a per-axis resolution and the voxel
// position of the world origin
type AffineSpace struct {
	size       models.Size
	resolution mgl32.Vec3

	toSpace mgl32.Mat4
	toWorld mgl32.Mat4
}

// NewAffineSpace creates a space where one voxel along each axis spans
// resolution world units, and the world origin sits at voxel position origin.
// Every resolution component must be non-zero.
func NewAffineSpace(size models.Size, resolution, origin mgl32.Vec3) *AffineSpace {
	inv := mgl32.Vec3{1 / resolution[0], 1 / resolution[1], 1 / resolution[2]}
	toSpace := mgl32.Translate3D(origin[0], origin[1], origin[2]).
		Mul4(mgl32.Scale3D(inv[0], inv[1], inv[2]))

	return &AffineSpace{
		size:       size,
		resolution: resolution,
		toSpace:    toSpace,
		toWorld:    toSpace.Inv(),
	}
}

// CCF25 describes the 25 um Allen common coordinate framework grid
var CCF25 = models.Size{AP: 528, DV: 320, LR: 456}

// NewCCFSpace25 returns the 25 um CCF space with world units in millimetres
// and the world origin at the centre of the atlas volume
func NewCCFSpace25() *AffineSpace {
	centre := mgl32.Vec3{float32(CCF25.AP) / 2, float32(CCF25.DV) / 2, float32(CCF25.LR) / 2}
	return NewAffineSpace(CCF25, mgl32.Vec3{0.025, 0.025, 0.025}, centre)
}

// World2Space scales a world position into voxels and offsets it by the origin
func (s *AffineSpace) World2Space(world models.Point) models.Point {
	return mgl32.TransformCoordinate(world, s.toSpace)
}

// Space2World maps a voxel-index position back to world units
func (s *AffineSpace) Space2World(space models.Point) models.Point {
	return mgl32.TransformCoordinate(space, s.toWorld)
}

// World2SpaceDirection scales a world direction into voxels per world unit
func (s *AffineSpace) World2SpaceDirection(world models.Point) models.Point {
	return mgl32.TransformNormal(world, s.toSpace)
}

// Space2WorldDirection scales a voxel-space direction back to world units
func (s *AffineSpace) Space2WorldDirection(space models.Point) models.Point {
	return mgl32.TransformNormal(space, s.toWorld)
}

// Dimensions returns the volume extents the space was built for
func (s *AffineSpace) Dimensions() models.Size {
	return s.size
}

// Resolution returns the world length of one voxel along each axis
func (s *AffineSpace) Resolution() mgl32.Vec3 {
	return s.resolution
}
