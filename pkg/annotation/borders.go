package annotation

import (
	"time"

	"ccfatlas/internal/models"
)

// ComputeBorders builds the border mask. A voxel is a border voxel when its
// region id differs from the voxel at dv+1 or the voxel at lr+1. Neighbours
// along AP are not compared, so outlines follow coronal slices, and the last
// index along DV and LR is never marked.
//
// The mask is computed once. Further calls log a warning and return.
func (d *Dataset) ComputeBorders() {
	if d.borders != nil {
		d.log.Warn("Borders were going to be re-computed unnecessarily, skipping")
		return
	}

	start := time.Now()
	size := d.field.Size()
	borders := make([]bool, size.Len())
	count := 0

	// Walk each coronal slice, marking a voxel whenever the next voxel down
	// or to the right holds a different id
	for ap := 0; ap < size.AP; ap++ {
		for lr := 0; lr < size.LR-1; lr++ {
			for dv := 0; dv < size.DV-1; dv++ {
				value := d.field.ValueAtIndex(ap, dv, lr)
				if value != d.field.ValueAtIndex(ap, dv+1, lr) || value != d.field.ValueAtIndex(ap, dv, lr+1) {
					borders[size.Index(ap, dv, lr)] = true
					count++
				}
			}
		}
	}

	d.borders = borders
	d.log.WithField("borderVoxels", count).
		WithField("elapsed", time.Since(start)).
		Debug("Computed area borders")
}

// BordersComputed reports whether ComputeBorders has run
func (d *Dataset) BordersComputed() bool {
	return d.borders != nil
}

// BorderAtIndex reports whether the voxel is a border voxel. Indices outside
// the volume, and every query made before ComputeBorders, return false.
func (d *Dataset) BorderAtIndex(ap, dv, lr int) bool {
	size := d.field.Size()
	if d.borders == nil || !size.Contains(ap, dv, lr) {
		return false
	}
	return d.borders[size.Index(ap, dv, lr)]
}

// BorderAt rounds p to the nearest voxel and reports whether it is a border voxel
func (d *Dataset) BorderAt(p models.Point) bool {
	if models.IsUndefined(p) {
		return false
	}
	return d.BorderAtIndex(models.RoundIndex(p[0]), models.RoundIndex(p[1]), models.RoundIndex(p[2]))
}
