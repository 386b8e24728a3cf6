package annotation

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"ccfatlas/internal/models"
)

// RegionSummary describes where a region sits in the volume
type RegionSummary struct {
	ID     int
	Voxels int

	// Centroid is the mean voxel position of the region
	Centroid models.Point

	// Spread is the population standard deviation of voxel positions per axis
	Spread models.Point
}

// Region scans the volume for voxels labelled id. It returns false when id is
// background or no voxel carries it.
func (d *Dataset) Region(id int) (RegionSummary, bool) {
	if id <= 0 {
		return RegionSummary{}, false
	}

	size := d.field.Size()
	var aps, dvs, lrs []float64
	for i := 0; i < size.Len(); i++ {
		if d.field.Decode(i) != id {
			continue
		}
		ap, dv, lr := size.Coords(i)
		aps = append(aps, float64(ap))
		dvs = append(dvs, float64(dv))
		lrs = append(lrs, float64(lr))
	}

	if len(aps) == 0 {
		return RegionSummary{}, false
	}

	summary := RegionSummary{ID: id, Voxels: len(aps)}
	for axis, values := range [][]float64{aps, dvs, lrs} {
		mean, std := stat.PopMeanStdDev(values, nil)
		summary.Centroid[axis] = float32(mean)
		summary.Spread[axis] = float32(std)
	}

	return summary, true
}

// RegionCounts returns the number of voxels per region id, background excluded
func (d *Dataset) RegionCounts() map[int]int {
	counts := make(map[int]int)
	for i := 0; i < d.field.Size().Len(); i++ {
		if id := d.field.Decode(i); id > 0 {
			counts[id]++
		}
	}
	return counts
}

// RegionIDs returns every region id present in the volume, ascending
func (d *Dataset) RegionIDs() []int {
	counts := d.RegionCounts()
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
