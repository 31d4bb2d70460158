//go:build gocv
// +build gocv

package service

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoCVInpainter_FillsUniformRegion(t *testing.T) {
	src := solidImage(100, 100, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	for y := 45; y < 55; y++ {
		for x := 45; x < 55; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	mask := rectMask(100, 100, image.Rect(45, 45, 55, 55))

	out, err := NewGoCVInpainter(3).Inpaint(context.Background(), src, mask)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), out.Bounds())

	got := out.NRGBAAt(50, 50)
	assert.LessOrEqual(t, absDiff(got.R, 128), 2)
	assert.Equal(t, src.NRGBAAt(10, 10), out.NRGBAAt(10, 10))
}

func TestGoCVInpainter_DimensionMismatch(t *testing.T) {
	_, err := NewGoCVInpainter(3).Inpaint(context.Background(), solidImage(4, 4, color.NRGBA{A: 255}), image.NewGray(image.Rect(0, 0, 5, 4)))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
