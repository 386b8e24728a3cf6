package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"ccfatlas/pkg/annotation"
)

// Grey levels used when rendering outline slices
const (
	BackgroundLevel = 0
	TissueLevel     = 96
	BorderLevel     = 255
)

// Viewer renders slices of an annotation dataset with region outlines
// highlighted. Border voxels are only drawn after ComputeBorders has run.
type Viewer struct {
	// dataset holds the annotation volume and its border mask
	dataset *annotation.Dataset

	// scale is the number of output pixels per voxel along each image axis
	scale int
}

// NewViewer creates a viewer. A scale below 1 is treated as 1.
func NewViewer(dataset *annotation.Dataset, scale int) *Viewer {
	if scale < 1 {
		scale = 1
	}
	return &Viewer{
		dataset: dataset,
		scale:   scale,
	}
}

// level returns the grey level of a voxel
func (v *Viewer) level(ap, dv, lr int) uint8 {
	switch {
	case v.dataset.BorderAtIndex(ap, dv, lr):
		return BorderLevel
	case v.dataset.ValueAtIndex(ap, dv, lr) > 0:
		return TissueLevel
	default:
		return BackgroundLevel
	}
}

// ExtractSlice renders the plane at position along axis, which is one of
// "ap" (coronal), "dv" (horizontal) or "lr" (sagittal). The image is scaled
// by the viewer scale.
func (v *Viewer) ExtractSlice(axis string, position int) (*image.Gray, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	size := v.dataset.Size()
	var img *image.Gray

	switch axis {
	case "ap", "AP":
		// Coronal plane: LR across, DV down
		if position >= size.AP {
			return nil, fmt.Errorf("position %d exceeds AP size %d", position, size.AP)
		}
		img = image.NewGray(image.Rect(0, 0, size.LR, size.DV))
		for dv := 0; dv < size.DV; dv++ {
			for lr := 0; lr < size.LR; lr++ {
				img.SetGray(lr, dv, color.Gray{Y: v.level(position, dv, lr)})
			}
		}

	case "dv", "DV":
		// Horizontal plane: LR across, AP down
		if position >= size.DV {
			return nil, fmt.Errorf("position %d exceeds DV size %d", position, size.DV)
		}
		img = image.NewGray(image.Rect(0, 0, size.LR, size.AP))
		for ap := 0; ap < size.AP; ap++ {
			for lr := 0; lr < size.LR; lr++ {
				img.SetGray(lr, ap, color.Gray{Y: v.level(ap, position, lr)})
			}
		}

	case "lr", "LR":
		// Sagittal plane: AP across, DV down
		if position >= size.LR {
			return nil, fmt.Errorf("position %d exceeds LR size %d", position, size.LR)
		}
		img = image.NewGray(image.Rect(0, 0, size.AP, size.DV))
		for dv := 0; dv < size.DV; dv++ {
			for ap := 0; ap < size.AP; ap++ {
				img.SetGray(ap, dv, color.Gray{Y: v.level(ap, dv, position)})
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be ap, dv, or lr)", axis)
	}

	return v.upscale(img), nil
}

// upscale enlarges img by the viewer scale with nearest-neighbour sampling so
// outlines stay one voxel wide
func (v *Viewer) upscale(img *image.Gray) *image.Gray {
	if v.scale == 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*v.scale, b.Dy()*v.scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// SaveSlice saves an extracted slice as a JPEG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	size := v.dataset.Size()
	var maxPos int
	switch axis {
	case "ap", "AP":
		maxPos = size.AP
	case "dv", "DV":
		maxPos = size.DV
	case "lr", "LR":
		maxPos = size.LR
	default:
		return fmt.Errorf("invalid axis: %s (must be ap, dv, or lr)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
