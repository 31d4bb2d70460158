//go:build !gocv
// +build !gocv

package service

import (
	"context"
	"errors"
	"image"

	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
)

var errGoCVDisabled = errors.New("opencv strategy requires building with -tags gocv")

// GoCVInpainter is a placeholder used when the binary is built without OpenCV.
type GoCVInpainter struct {
	radius int
}

func NewGoCVInpainter(radius int) *GoCVInpainter {
	return &GoCVInpainter{radius: clampRadius(radius)}
}

func (g *GoCVInpainter) Name() string { return config.StrategyOpenCV }

// Inpaint returns an error, since the build has no gocv tag.
func (g *GoCVInpainter) Inpaint(context.Context, *image.NRGBA, *image.Gray) (*image.NRGBA, error) {
	return nil, errGoCVDisabled
}
