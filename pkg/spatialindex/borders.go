// Package spatialindex answers proximity queries against the border mask,
// such as snapping a probe tip to the closest region outline.
package spatialindex

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"ccfatlas/internal/models"
	"ccfatlas/pkg/annotation"
)

// voxel is a border voxel position indexed by axis (AP, DV, LR), usable as
// a kdtree.Comparable
type voxel [3]float64

// Compare implements the kdtree.Comparable interface
func (v voxel) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return v[d] - c.(voxel)[d]
}

func (v voxel) Dims() int { return len(v) }

// Distance returns the squared Euclidean distance between two voxels
func (v voxel) Distance(c kdtree.Comparable) float64 {
	q := c.(voxel)
	var sum float64
	for i := range v {
		d := v[i] - q[i]
		sum += d * d
	}
	return sum
}

func (v voxel) point() models.Point {
	return models.Point{float32(v[0]), float32(v[1]), float32(v[2])}
}

func fromPoint(p models.Point) voxel {
	return voxel{float64(p[0]), float64(p[1]), float64(p[2])}
}

// voxels satisfies kdtree.Interface and, bound to an axis, kdtree.SortSlicer
type voxels []voxel

func (v voxels) Index(i int) kdtree.Comparable         { return v[i] }
func (v voxels) Len() int                              { return len(v) }
func (v voxels) Slice(start, end int) kdtree.Interface { return v[start:end] }

func (v voxels) Pivot(d kdtree.Dim) int {
	axis := byAxis{voxels: v, axis: d}
	return kdtree.Partition(axis, kdtree.MedianOfRandoms(axis, 100))
}

// byAxis orders voxels along one axis
type byAxis struct {
	voxels
	axis kdtree.Dim
}

func (b byAxis) Less(i, j int) bool { return b.voxels[i][b.axis] < b.voxels[j][b.axis] }
func (b byAxis) Swap(i, j int)      { b.voxels[i], b.voxels[j] = b.voxels[j], b.voxels[i] }

func (b byAxis) Slice(start, end int) kdtree.SortSlicer {
	return byAxis{voxels: b.voxels[start:end], axis: b.axis}
}

// Match is a border voxel found by a proximity query
type Match struct {
	Voxel    models.Point
	Distance float64
}

// BorderIndex is a KD-tree over every border voxel of a dataset. It is
// immutable after construction.
type BorderIndex struct {
	tree  *kdtree.Tree
	count int
}

// NewBorderIndex indexes the border voxels of ds. ComputeBorders must have
// run; otherwise the index is empty.
func NewBorderIndex(ds *annotation.Dataset) *BorderIndex {
	size := ds.Size()
	points := make(voxels, 0, 1024)
	for ap := 0; ap < size.AP; ap++ {
		for dv := 0; dv < size.DV; dv++ {
			for lr := 0; lr < size.LR; lr++ {
				if ds.BorderAtIndex(ap, dv, lr) {
					points = append(points, voxel{float64(ap), float64(dv), float64(lr)})
				}
			}
		}
	}

	idx := &BorderIndex{count: len(points)}
	if len(points) > 0 {
		idx.tree = kdtree.New(points, false)
	}
	return idx
}

// Len returns the number of indexed border voxels
func (b *BorderIndex) Len() int {
	return b.count
}

// Nearest returns the border voxel closest to p and its distance. It returns
// false when the index is empty or p is undefined.
func (b *BorderIndex) Nearest(p models.Point) (Match, bool) {
	if b.tree == nil || models.IsUndefined(p) {
		return Match{}, false
	}

	c, dist := b.tree.Nearest(fromPoint(p))
	if c == nil {
		return Match{}, false
	}
	return Match{Voxel: c.(voxel).point(), Distance: math.Sqrt(dist)}, true
}

// Within returns every border voxel no further than radius from p, closest
// first
func (b *BorderIndex) Within(p models.Point, radius float64) []Match {
	if b.tree == nil || models.IsUndefined(p) || radius < 0 {
		return nil
	}

	keeper := kdtree.NewDistKeeper(radius * radius)
	b.tree.NearestSet(keeper, fromPoint(p))

	matches := make([]Match, 0, keeper.Len())
	for _, item := range keeper.Heap {
		// Skip the sentinel value
		if item.Comparable == nil {
			continue
		}
		matches = append(matches, Match{
			Voxel:    item.Comparable.(voxel).point(),
			Distance: math.Sqrt(item.Dist),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches
}
