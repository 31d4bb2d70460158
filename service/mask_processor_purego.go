//go:build !gocv
// +build !gocv

package service

import (
	"image"
)

// ToGray reduces a colour image to luminance, matching cv::cvtColor(COLOR_BGR2GRAY).
func (mp *MaskProcessor) ToGray(img *image.NRGBA) (*image.Gray, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			r := uint32(src[x*4])
			g := uint32(src[x*4+1])
			b := uint32(src[x*4+2])
			dst[x] = uint8((r*4899 + g*9617 + b*1868 + 8192) >> 14)
		}
	}
	return gray, nil
}

// Binarize maps every pixel above the threshold to 255 and the rest to 0, in place.
func (mp *MaskProcessor) Binarize(gray *image.Gray) error {
	for i, v := range gray.Pix {
		if v > maskThreshold {
			gray.Pix[i] = 255
		} else {
			gray.Pix[i] = 0
		}
	}
	return nil
}

// Normalize converts an uploaded mask into a binary selector: 255 = inpaint, 0 = keep.
func (mp *MaskProcessor) Normalize(img *image.NRGBA) (*image.Gray, error) {
	gray, err := mp.ToGray(img)
	if err != nil {
		return nil, err
	}
	if err := mp.Binarize(gray); err != nil {
		return nil, err
	}
	return gray, nil
}
