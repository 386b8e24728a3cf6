package volume

import (
	"math"
	"testing"

	"ccfatlas/internal/models"
)

// newSingleVoxelField builds a 4x4x4 field that is empty except for voxel (1,1,1)
func newSingleVoxelField() *VoxelField {
	size := models.Size{AP: 4, DV: 4, LR: 4}
	labels := make([]uint32, size.Len())
	labels[size.Index(1, 1, 1)] = 5
	return MustFromLabels(size, labels)
}

// TestDecodeTwoStage verifies that the byte index map gates the code lookup
func TestDecodeTwoStage(t *testing.T) {
	size := models.Size{AP: 1, DV: 1, LR: 4}
	indexMap := []byte{1, 0, 1, 1}
	idMap := []uint32{0, 997, 315}
	codes := []uint16{1, 2, 2, 0}

	field := NewVoxelField(size, indexMap, idMap, codes)

	expected := []int{997, 0, 315, 0}
	for i, want := range expected {
		if got := field.Decode(i); got != want {
			t.Errorf("Expected Decode(%d) = %d, got %d", i, want, got)
		}
	}
}

// TestFromLabels verifies that synthetic labels survive compression
func TestFromLabels(t *testing.T) {
	size := models.Size{AP: 2, DV: 2, LR: 2}
	labels := []uint32{0, 7, 7, 0, 12, 0, 7, 4000000}

	field, err := FromLabels(size, labels)
	if err != nil {
		t.Fatalf("Failed to build field: %v", err)
	}

	for i, want := range labels {
		if got := field.Decode(i); got != int(want) {
			t.Errorf("Expected label %d at offset %d, got %d", want, i, got)
		}
	}

	if len(field.idMap) != 4 {
		t.Errorf("Expected 4 distinct codes, got %d", len(field.idMap))
	}
}

// TestFromLabelsTooManyRegions verifies ids beyond the 16 bit code space are rejected
func TestFromLabelsTooManyRegions(t *testing.T) {
	// every distinct id fits when there are exactly MaxRegions of them
	labels := make([]uint32, MaxRegions)
	for i := range labels {
		labels[i] = uint32(i + 1)
	}
	size := models.Size{AP: 1, DV: 1, LR: len(labels)}

	field, err := FromLabels(size, labels)
	if err != nil {
		t.Fatalf("Expected %d distinct ids to fit, got %v", MaxRegions, err)
	}
	for i, want := range labels {
		if got := field.Decode(i); got != int(want) {
			t.Fatalf("Expected label %d at offset %d, got %d", want, i, got)
		}
	}

	// one more wraps the code space
	labels = append(labels, 70000)
	size.LR = len(labels)
	if _, err := FromLabels(size, labels); err == nil {
		t.Error("Expected an error for more than MaxRegions distinct ids, got nil")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected MustFromLabels to panic on too many ids")
		}
	}()
	MustFromLabels(size, labels)
}

// TestValueAtIndexBounds verifies out-of-range indices read as background
func TestValueAtIndexBounds(t *testing.T) {
	field := newSingleVoxelField()

	if v := field.ValueAtIndex(1, 1, 1); v != 5 {
		t.Errorf("Expected 5 at (1,1,1), got %d", v)
	}

	outside := [][3]int{
		{-1, 1, 1}, {1, -1, 1}, {1, 1, -1},
		{4, 1, 1}, {1, 4, 1}, {1, 1, 4},
		{100, -100, 2},
	}
	for _, idx := range outside {
		if v := field.ValueAtIndex(idx[0], idx[1], idx[2]); v != 0 {
			t.Errorf("Expected 0 outside the grid at %v, got %d", idx, v)
		}
	}
}

// TestValueAtRounding verifies nearest-voxel rounding of continuous points
func TestValueAtRounding(t *testing.T) {
	field := newSingleVoxelField()

	inside := []models.Point{
		{1, 1, 1},
		{1.4, 0.6, 1.49},
		{0.51, 1.2, 1.5 - 1e-3},
	}
	for _, p := range inside {
		if v := field.ValueAt(p); v != 5 {
			t.Errorf("Expected %v to round into voxel (1,1,1), got value %d", p, v)
		}
	}

	outside := []models.Point{
		{1, 1, 1.6},
		{1, 1, 0.4},
		{1, 1, 1.5}, // ties round to even, so 1.5 -> 2
		{-3, 1, 1},
	}
	for _, p := range outside {
		if v := field.ValueAt(p); v != 0 {
			t.Errorf("Expected %v to read as background, got value %d", p, v)
		}
	}
}

// TestValueAtUndefined verifies the sentinel point never reads a voxel
func TestValueAtUndefined(t *testing.T) {
	size := models.Size{AP: 1, DV: 1, LR: 1}
	field := MustFromLabels(size, []uint32{9})

	if v := field.ValueAt(models.Undefined()); v != 0 {
		t.Errorf("Expected 0 for the undefined point, got %d", v)
	}

	nan := float32(math.NaN())
	if v := field.ValueAt(models.Point{0, nan, 0}); v != 0 {
		t.Errorf("Expected 0 for a partially undefined point, got %d", v)
	}
}
