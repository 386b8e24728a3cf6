// Package volume provides the compressed annotation voxel field that every
// atlas query is built on.
package volume

import (
	"fmt"
	"math"

	"ccfatlas/internal/models"
)

// MaxRegions is the number of distinct non-zero region ids a field can hold.
// Code 0 is reserved for background.
const MaxRegions = math.MaxUint16

// VoxelField is an immutable 3D grid of region ids stored in its two-stage
// compressed form.
//
// The encoding keeps three arrays:
//   - indexMap: one byte per voxel; zero marks a voxel outside the annotated
//     volume, any other value marks a voxel that carries a code
//   - codes: one uint16 per voxel, an index into idMap
//   - idMap: the region id for each code
//
// The arrays are expected to be consistent with the declared size. Checking
// that is the loader's job; a VoxelField built from inconsistent inputs has
// undefined behaviour.
type VoxelField struct {
	size     models.Size
	indexMap []byte
	idMap    []uint32
	codes    []uint16
}

// NewVoxelField wraps the compressed arrays without copying them. The caller
// must not modify the slices afterwards.
func NewVoxelField(size models.Size, indexMap []byte, idMap []uint32, codes []uint16) *VoxelField {
	return &VoxelField{
		size:     size,
		indexMap: indexMap,
		idMap:    idMap,
		codes:    codes,
	}
}

// FromLabels builds a field from already decoded region ids. Each distinct id
// is assigned a code, so the result round-trips through Decode. It is mostly
// useful for synthetic volumes. It fails when labels holds more than
// MaxRegions distinct non-zero ids, since codes are 16 bit.
func FromLabels(size models.Size, labels []uint32) (*VoxelField, error) {
	indexMap := make([]byte, len(labels))
	codes := make([]uint16, len(labels))
	idMap := []uint32{0}
	lookup := map[uint32]uint16{0: 0}

	for i, id := range labels {
		if id == 0 {
			continue
		}
		code, ok := lookup[id]
		if !ok {
			if len(idMap) > MaxRegions {
				return nil, fmt.Errorf("labels hold more than %d distinct region ids", MaxRegions)
			}
			code = uint16(len(idMap))
			lookup[id] = code
			idMap = append(idMap, id)
		}
		indexMap[i] = 1
		codes[i] = code
	}

	return NewVoxelField(size, indexMap, idMap, codes), nil
}

// MustFromLabels is like FromLabels but panics if the labels cannot be encoded
func MustFromLabels(size models.Size, labels []uint32) *VoxelField {
	field, err := FromLabels(size, labels)
	if err != nil {
		panic(err)
	}
	return field
}

// Size returns the extents of the field
func (f *VoxelField) Size() models.Size {
	return f.size
}

// Decode returns the region id stored at flat offset i
func (f *VoxelField) Decode(i int) int {
	if f.indexMap[i] == 0 {
		return 0
	}
	return int(f.idMap[f.codes[i]])
}

// ValueAtIndex returns the region id at a voxel index, or 0 when any axis is
// out of range
func (f *VoxelField) ValueAtIndex(ap, dv, lr int) int {
	if !f.size.Contains(ap, dv, lr) {
		return 0
	}
	return f.Decode(f.size.Index(ap, dv, lr))
}

// ValueAt rounds p to the nearest voxel and returns its region id. The
// undefined point has no voxel and reads as 0.
func (f *VoxelField) ValueAt(p models.Point) int {
	if models.IsUndefined(p) {
		return 0
	}
	return f.ValueAtIndex(models.RoundIndex(p[0]), models.RoundIndex(p[1]), models.RoundIndex(p[2]))
}
