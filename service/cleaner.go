package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/utils"
	"go.uber.org/zap"
)

// CleanResult is the outcome of one cleaning request.
type CleanResult struct {
	CleanedImage string
	Key          string
	Cached       bool
}

// SlideCleaner runs the decode, normalize, inpaint, encode pipeline.
// At most max_concurrent pipelines run at once; callers beyond that wait up to queue_timeout.
type SlideCleaner struct {
	inpainter     Inpainter
	maskProcessor *MaskProcessor
	cache         ResultCache
	semaphore     chan struct{}
	queueTimeout  time.Duration
	jpegQuality   int
	radius        int
	maxPixels     int
}

// NewSlideCleaner wires a cleaner. cache may be nil.
func NewSlideCleaner(cfg *config.InpaintConfig, inpainter Inpainter, cache ResultCache) *SlideCleaner {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.NumCPU()
	}

	return &SlideCleaner{
		inpainter:     inpainter,
		maskProcessor: NewMaskProcessor(),
		cache:         cache,
		semaphore:     make(chan struct{}, maxConcurrent),
		queueTimeout:  cfg.QueueTimeout,
		jpegQuality:   cfg.JPEGQuality,
		radius:        cfg.Radius,
		maxPixels:     cfg.MaxPixels,
	}
}

// Strategy names the inpainting strategy in use.
func (s *SlideCleaner) Strategy() string {
	return s.inpainter.Name()
}

// Clean removes the region selected by encodedMask from encodedImage.
func (s *SlideCleaner) Clean(ctx context.Context, encodedImage, encodedMask string) (*CleanResult, error) {
	key := utils.PartsMD5(encodedImage, encodedMask, s.inpainter.Name(),
		strconv.Itoa(s.radius), strconv.Itoa(s.jpegQuality))

	if s.cache != nil {
		cached, ok, err := s.cache.GetCleanedImage(ctx, key)
		if err != nil {
			utils.Logger.Warn("failed to get cache", zap.String("key", key), zap.Error(err))
		} else if ok {
			utils.Logger.Info("cache hit", zap.String("key", key))
			return &CleanResult{CleanedImage: cached, Key: key, Cached: true}, nil
		}
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	startTime := time.Now()

	img, err := DecodeDataURL(encodedImage, s.maxPixels)
	if err != nil {
		return nil, &DecodeError{Field: "image", Err: err}
	}
	maskImg, err := DecodeDataURL(encodedMask, s.maxPixels)
	if err != nil {
		return nil, &DecodeError{Field: "mask", Err: err}
	}

	mask, err := s.maskProcessor.Normalize(maskImg)
	if err != nil {
		return nil, &ProcessingError{Op: "normalize", Err: err}
	}
	if img.Rect.Size() != mask.Rect.Size() {
		return nil, &ProcessingError{
			Op: "validate",
			Err: fmt.Errorf("%w: image is %dx%d, mask is %dx%d", ErrDimensionMismatch,
				img.Rect.Dx(), img.Rect.Dy(), mask.Rect.Dx(), mask.Rect.Dy()),
		}
	}

	masked := s.maskProcessor.CountMasked(mask)
	utils.Logger.Info("processing slide",
		zap.String("key", key),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()),
		zap.Int("masked_pixels", masked),
		zap.String("strategy", s.inpainter.Name()))

	result := img
	if masked > 0 {
		result, err = s.inpainter.Inpaint(ctx, img, mask)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, &ProcessingError{Op: "inpaint", Err: err}
		}
	}

	cleaned, err := EncodeJPEGDataURL(result, s.jpegQuality)
	if err != nil {
		return nil, &ProcessingError{Op: "encode", Err: err}
	}

	if s.cache != nil {
		if err := s.cache.SetCleanedImage(ctx, key, cleaned); err != nil {
			utils.Logger.Warn("failed to set cache", zap.String("key", key), zap.Error(err))
		}
	}

	utils.Logger.Info("slide cleaned successfully",
		zap.String("key", key),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("output_bytes", len(cleaned)))

	return &CleanResult{CleanedImage: cleaned, Key: key}, nil
}

// Lookup returns a previously cleaned image by key.
func (s *SlideCleaner) Lookup(ctx context.Context, key string) (string, bool, error) {
	if s.cache == nil {
		return "", false, ErrCacheDisabled
	}
	return s.cache.GetCleanedImage(ctx, key)
}

// acquire takes a worker slot, waiting at most queueTimeout.
func (s *SlideCleaner) acquire(ctx context.Context) (func(), error) {
	release := func() { <-s.semaphore }

	select {
	case s.semaphore <- struct{}{}:
		return release, nil
	default:
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.queueTimeout)
	defer cancel()

	select {
	case s.semaphore <- struct{}{}:
		return release, nil
	case <-waitCtx.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrQueueFull
	}
}
