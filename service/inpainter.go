package service

import (
	"context"
	"fmt"
	"image"

	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
)

// Inpainter fills the pixels selected by mask (value 255) using the rest of src.
// Implementations must not modify src and must return an image of the same size.
type Inpainter interface {
	Name() string
	Inpaint(ctx context.Context, src *image.NRGBA, mask *image.Gray) (*image.NRGBA, error)
}

// NewInpainter builds the strategy named in cfg.Inpaint.Strategy.
func NewInpainter(cfg *config.Config) (Inpainter, error) {
	switch cfg.Inpaint.Strategy {
	case config.StrategyFastMarching:
		return NewFastMarchingInpainter(cfg.Inpaint.Radius), nil
	case config.StrategyOpenCV:
		return NewGoCVInpainter(cfg.Inpaint.Radius), nil
	case config.StrategyLearned:
		return NewLearnedModelInpainter(&cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown inpaint strategy %q", cfg.Inpaint.Strategy)
	}
}

func clampRadius(radius int) int {
	return min(max(radius, 1), 100)
}

// restoreUnmasked copies src into out wherever mask is 0 and forces full opacity.
func restoreUnmasked(out, src *image.NRGBA, mask *image.Gray) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride:]
		d := out.Pix[y*out.Stride:]
		m := mask.Pix[y*mask.Stride:]
		for x := 0; x < w; x++ {
			if m[x] == 0 {
				copy(d[x*4:x*4+4], s[x*4:x*4+4])
			}
			d[x*4+3] = 0xff
		}
	}
}
