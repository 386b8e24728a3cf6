// Package loader reads the raw annotation arrays from disk and assembles
// them into a volume.VoxelField.
//
// Each file is a flat little-endian array with no header: the voxel index
// map is one byte per voxel, the code array one uint16 per voxel, and the id
// map one uint32 per code.
package loader

import (
	"encoding/binary"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"ccfatlas/internal/models"
	"ccfatlas/pkg/config"
	"ccfatlas/pkg/volume"
)

// LoadBytes reads a file of raw bytes
func LoadBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, nil
}

// LoadUint16s reads a file of little-endian uint16 values
func LoadUint16s(path string) ([]uint16, error) {
	data, err := LoadBytes(path)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("file %s has %d bytes, not a multiple of 2", path, len(data))
	}

	values := make([]uint16, len(data)/2)
	for i := range values {
		values[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return values, nil
}

// LoadUint32s reads a file of little-endian uint32 values
func LoadUint32s(path string) ([]uint32, error) {
	data, err := LoadBytes(path)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("file %s has %d bytes, not a multiple of 4", path, len(data))
	}

	values := make([]uint32, len(data)/4)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return values, nil
}

// Validate checks that the compressed arrays agree with each other and with
// size. VoxelField does not repeat these checks.
func Validate(size models.Size, indexMap []byte, idMap []uint32, codes []uint16) error {
	if size.AP < 0 || size.DV < 0 || size.LR < 0 {
		return fmt.Errorf("invalid volume size %dx%dx%d", size.AP, size.DV, size.LR)
	}

	n := size.Len()
	if len(indexMap) != n {
		return fmt.Errorf("index map has %d entries, expected %d", len(indexMap), n)
	}
	if len(codes) != n {
		return fmt.Errorf("code array has %d entries, expected %d", len(codes), n)
	}

	for i, code := range codes {
		if indexMap[i] != 0 && int(code) >= len(idMap) {
			return fmt.Errorf("code %d at voxel %d is outside the id map (%d entries)", code, i, len(idMap))
		}
	}
	return nil
}

// LoadAnnotation reads and validates the three arrays named by cfg
func LoadAnnotation(cfg config.DatasetConfig) (*volume.VoxelField, error) {
	logger := log.WithField("component", "loader")

	logger.WithField("file", cfg.IndexMapFile).Debug("Loading the voxel index map")
	indexMap, err := LoadBytes(cfg.IndexMapFile)
	if err != nil {
		return nil, err
	}

	logger.WithField("file", cfg.CodesFile).Debug("Loading the annotation codes")
	codes, err := LoadUint16s(cfg.CodesFile)
	if err != nil {
		return nil, err
	}

	logger.WithField("file", cfg.IDMapFile).Debug("Loading the annotation id map")
	idMap, err := LoadUint32s(cfg.IDMapFile)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg.Size, indexMap, idMap, codes); err != nil {
		return nil, fmt.Errorf("invalid annotation data: %w", err)
	}

	logger.WithFields(log.Fields{
		"ap": cfg.Size.AP, "dv": cfg.Size.DV, "lr": cfg.Size.LR,
		"codes": len(idMap),
	}).Info("Loaded annotation volume")

	return volume.NewVoxelField(cfg.Size, indexMap, idMap, codes), nil
}

// SaveAnnotation writes the three arrays in the format LoadAnnotation reads
func SaveAnnotation(cfg config.DatasetConfig, indexMap []byte, idMap []uint32, codes []uint16) error {
	if err := os.WriteFile(cfg.IndexMapFile, indexMap, 0644); err != nil {
		return fmt.Errorf("error writing index map: %w", err)
	}

	codeBytes := make([]byte, len(codes)*2)
	for i, c := range codes {
		binary.LittleEndian.PutUint16(codeBytes[i*2:], c)
	}
	if err := os.WriteFile(cfg.CodesFile, codeBytes, 0644); err != nil {
		return fmt.Errorf("error writing codes: %w", err)
	}

	idBytes := make([]byte, len(idMap)*4)
	for i, id := range idMap {
		binary.LittleEndian.PutUint32(idBytes[i*4:], id)
	}
	if err := os.WriteFile(cfg.IDMapFile, idBytes, 0644); err != nil {
		return fmt.Errorf("error writing id map: %w", err)
	}

	return nil
}
