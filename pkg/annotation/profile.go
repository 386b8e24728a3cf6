package annotation

import (
	"ccfatlas/internal/models"
)

// Segment is a run of consecutive ray samples that share a region id
type Segment struct {
	// RegionID is the id shared by every sample in the run, 0 for background
	RegionID int

	// Entry and Exit are the first and last samples of the run
	Entry models.Point
	Exit  models.Point

	// Depth is the distance from the ray start to Entry
	Depth float32

	// Length is the distance from Entry to Exit
	Length float32
}

// RegionsAlong samples the ray exactly as FindSurfaceCoordinate does and
// returns the regions it passes through, in order. Background runs are
// included so that entry and exit depths of tissue can be read directly.
func (d *Dataset) RegionsAlong(start, direction models.Point, searchDistance float32) []Segment {
	end := start.Add(direction.Mul(searchDistance))
	segments := make([]Segment, 0, 8)

	var current *Segment
	for i := 0; i < SurfaceSamples; i++ {
		point := sampleAt(start, end, i)
		id := d.ValueAt(point)

		if current != nil && current.RegionID == id {
			current.Exit = point
			continue
		}

		if current != nil {
			current.Length = current.Exit.Sub(current.Entry).Len()
		}
		segments = append(segments, Segment{
			RegionID: id,
			Entry:    point,
			Exit:     point,
			Depth:    point.Sub(start).Len(),
		})
		current = &segments[len(segments)-1]
	}

	if current != nil {
		current.Length = current.Exit.Sub(current.Entry).Len()
	}

	return segments
}
