// Package annotation implements the spatial queries of an annotation atlas:
// region lookups, the border mask used to draw region outlines, and ray
// marching to find where a planned insertion crosses the tissue surface.
//
// A Dataset is created once at load time and then shared by pointer. All
// queries are read-only and safe for concurrent use once ComputeBorders has
// returned; ComputeBorders itself must run before any reader starts and must
// not be called from more than one goroutine.
package annotation

import (
	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"ccfatlas/internal/models"
	"ccfatlas/pkg/coords"
	"ccfatlas/pkg/volume"
)

// Dataset owns an annotation volume and the data derived from it
type Dataset struct {
	name  string
	field *volume.VoxelField
	space coords.Space

	// borders is nil until ComputeBorders runs, then never replaced
	borders []bool

	log *log.Entry
}

// NewDataset creates a dataset over field. When space is nil an identity
// space with the field's extents is used. When logger is nil the standard
// logrus logger is used.
func NewDataset(name string, field *volume.VoxelField, space coords.Space, logger *log.Entry) *Dataset {
	if space == nil {
		space = coords.NewAffineSpace(field.Size(), mgl32.Vec3{1, 1, 1}, mgl32.Vec3{})
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	return &Dataset{
		name:  name,
		field: field,
		space: space,
		log:   logger.WithFields(log.Fields{"component": "annotation", "dataset": name}),
	}
}

// Name returns the dataset name
func (d *Dataset) Name() string {
	return d.name
}

// Size returns the extents of the underlying volume
func (d *Dataset) Size() models.Size {
	return d.field.Size()
}

// Space returns the coordinate space of the dataset
func (d *Dataset) Space() coords.Space {
	return d.space
}

// Field returns the underlying voxel field
func (d *Dataset) Field() *volume.VoxelField {
	return d.field
}

// ValueAtIndex returns the region id at a voxel index, 0 outside the volume
func (d *Dataset) ValueAtIndex(ap, dv, lr int) int {
	return d.field.ValueAtIndex(ap, dv, lr)
}

// ValueAt returns the region id of the voxel nearest to p, 0 outside the volume
func (d *Dataset) ValueAt(p models.Point) int {
	return d.field.ValueAt(p)
}
