//go:build gocv
// +build gocv

package service

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ToGray converts a colour image to luminance with cv::cvtColor.
func (mp *MaskProcessor) ToGray(img *image.NRGBA) (*image.Gray, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("mask to mat: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	return matToGray(gray)
}

// Binarize thresholds gray in place with cv::threshold(127, 255, THRESH_BINARY).
func (mp *MaskProcessor) Binarize(gray *image.Gray) error {
	src, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return fmt.Errorf("mask to mat: %w", err)
	}
	defer src.Close()

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(src, &binary, maskThreshold, 255, gocv.ThresholdBinary)

	out, err := matToGray(binary)
	if err != nil {
		return err
	}
	w := gray.Rect.Dx()
	for y := 0; y < gray.Rect.Dy(); y++ {
		copy(gray.Pix[y*gray.Stride:y*gray.Stride+w], out.Pix[y*out.Stride:y*out.Stride+w])
	}
	return nil
}

// Normalize keeps the mask in a Mat from colour conversion through thresholding.
func (mp *MaskProcessor) Normalize(img *image.NRGBA) (*image.Gray, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("mask to mat: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, maskThreshold, 255, gocv.ThresholdBinary)

	return matToGray(binary)
}

func matToGray(m gocv.Mat) (*image.Gray, error) {
	if m.Empty() {
		return nil, fmt.Errorf("empty mask mat")
	}
	img, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("mat to image: %w", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("unexpected mask image type %T", img)
	}
	return gray, nil
}
