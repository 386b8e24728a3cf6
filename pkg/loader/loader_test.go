package loader

import (
	"os"
	"path/filepath"
	"testing"

	"ccfatlas/internal/models"
	"ccfatlas/pkg/config"
)

// testDatasetConfig points every dataset file into dir
func testDatasetConfig(dir string, size models.Size) config.DatasetConfig {
	return config.DatasetConfig{
		Name:         "test",
		IndexMapFile: filepath.Join(dir, "data_indexes"),
		CodesFile:    filepath.Join(dir, "indexes"),
		IDMapFile:    filepath.Join(dir, "indexes_map"),
		Size:         size,
	}
}

// TestLoadAnnotationRoundTrip verifies saved arrays load into the same field
func TestLoadAnnotationRoundTrip(t *testing.T) {
	dir := t.TempDir()
	size := models.Size{AP: 2, DV: 2, LR: 3}
	cfg := testDatasetConfig(dir, size)

	indexMap := []byte{0, 1, 1, 1, 0, 1, 1, 1, 1, 0, 0, 1}
	idMap := []uint32{0, 997, 70000, 8}
	codes := []uint16{0, 1, 1, 2, 3, 3, 0, 1, 2, 2, 0, 3}

	if err := SaveAnnotation(cfg, indexMap, idMap, codes); err != nil {
		t.Fatalf("Failed to save annotation: %v", err)
	}

	field, err := LoadAnnotation(cfg)
	if err != nil {
		t.Fatalf("Failed to load annotation: %v", err)
	}

	if field.Size() != size {
		t.Errorf("Expected size %v, got %v", size, field.Size())
	}

	for i := range codes {
		want := 0
		if indexMap[i] != 0 {
			want = int(idMap[codes[i]])
		}
		if got := field.Decode(i); got != want {
			t.Errorf("Expected %d at voxel %d, got %d", want, i, got)
		}
	}
}

// TestLoadAnnotationMissingFile verifies a missing file is reported
func TestLoadAnnotationMissingFile(t *testing.T) {
	cfg := testDatasetConfig(t.TempDir(), models.Size{AP: 1, DV: 1, LR: 1})
	if _, err := LoadAnnotation(cfg); err == nil {
		t.Error("Expected an error for missing files, got nil")
	}
}

// TestLoadUint16sOddLength verifies truncated files are rejected
func TestLoadUint16sOddLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := LoadUint16s(path); err == nil {
		t.Error("Expected an error for an odd-length uint16 file, got nil")
	}
	if _, err := LoadUint32s(path); err == nil {
		t.Error("Expected an error for a truncated uint32 file, got nil")
	}
}

// TestLoadUint32sLittleEndian verifies byte order
func TestLoadUint32sLittleEndian(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map")
	if err := os.WriteFile(path, []byte{0x01, 0x02, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff}, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	values, err := LoadUint32s(path)
	if err != nil {
		t.Fatalf("Failed to load values: %v", err)
	}
	if len(values) != 2 || values[0] != 0x0201 || values[1] != 0xffffffff {
		t.Errorf("Expected [513 4294967295], got %v", values)
	}
}

// TestValidate verifies inconsistent arrays are rejected
func TestValidate(t *testing.T) {
	size := models.Size{AP: 1, DV: 1, LR: 2}

	if err := Validate(size, []byte{1, 1}, []uint32{0, 5}, []uint16{1, 0}); err != nil {
		t.Errorf("Expected consistent arrays to validate, got %v", err)
	}
	if err := Validate(size, []byte{1}, []uint32{0, 5}, []uint16{1, 0}); err == nil {
		t.Error("Expected an error for a short index map, got nil")
	}
	if err := Validate(size, []byte{1, 1}, []uint32{0, 5}, []uint16{1}); err == nil {
		t.Error("Expected an error for a short code array, got nil")
	}
	if err := Validate(size, []byte{1, 1}, []uint32{0, 5}, []uint16{1, 2}); err == nil {
		t.Error("Expected an error for a code outside the id map, got nil")
	}
	// codes behind a zero index byte are never decoded
	if err := Validate(size, []byte{1, 0}, []uint32{0, 5}, []uint16{1, 9}); err != nil {
		t.Errorf("Expected masked codes to be ignored, got %v", err)
	}
	if err := Validate(models.Size{AP: -1, DV: 1, LR: 1}, nil, nil, nil); err == nil {
		t.Error("Expected an error for a negative size, got nil")
	}
}
