package service

import (
	"image"
)

// maskThreshold is the last grey level that still means "keep".
const maskThreshold = 127

// MaskProcessor prepares uploaded masks for inpainting.
// ToGray, Binarize and Normalize run through OpenCV in gocv builds and in pure Go otherwise;
// both use BT.601 luminance in 14-bit fixed point and a binary threshold at 127.
type MaskProcessor struct{}

func NewMaskProcessor() *MaskProcessor {
	return &MaskProcessor{}
}

// CountMasked returns the number of pixels selected for inpainting.
func (mp *MaskProcessor) CountMasked(mask *image.Gray) int {
	n := 0
	for y := 0; y < mask.Rect.Dy(); y++ {
		for _, v := range mask.Pix[y*mask.Stride : y*mask.Stride+mask.Rect.Dx()] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
