//go:build !gocv
// +build !gocv

package service

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoCVInpainter_DisabledWithoutTag(t *testing.T) {
	inp := NewGoCVInpainter(3)
	assert.Equal(t, "opencv", inp.Name())

	_, err := inp.Inpaint(context.Background(), solidImage(4, 4, color.NRGBA{A: 255}), image.NewGray(image.Rect(0, 0, 4, 4)))
	assert.ErrorIs(t, err, errGoCVDisabled)
}
