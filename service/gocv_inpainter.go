//go:build gocv
// +build gocv

package service

import (
	"context"
	"fmt"
	"image"

	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
	"gocv.io/x/gocv"
)

// GoCVInpainter runs OpenCV's Telea inpainting through gocv.
type GoCVInpainter struct {
	radius int
}

func NewGoCVInpainter(radius int) *GoCVInpainter {
	return &GoCVInpainter{radius: clampRadius(radius)}
}

func (g *GoCVInpainter) Name() string { return config.StrategyOpenCV }

// Inpaint converts to Mats, calls cv::inpaint and converts back.
func (g *GoCVInpainter) Inpaint(ctx context.Context, src *image.NRGBA, mask *image.Gray) (*image.NRGBA, error) {
	if src.Rect.Size() != mask.Rect.Size() {
		return nil, ErrDimensionMismatch
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer img.Close()

	maskMat, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return nil, fmt.Errorf("mask to mat: %w", err)
	}
	defer maskMat.Close()

	result := gocv.NewMat()
	defer result.Close()
	gocv.Inpaint(img, maskMat, &result, float32(g.radius), gocv.Telea)
	if result.Empty() {
		return nil, fmt.Errorf("inpaint produced an empty image")
	}

	decoded, err := result.ToImage()
	if err != nil {
		return nil, fmt.Errorf("mat to image: %w", err)
	}

	out := toNRGBA(decoded)
	restoreUnmasked(out, src, mask)
	return out, nil
}
