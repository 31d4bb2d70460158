package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
)

const maxModelResponseSize = 64 << 20

// LearnedModelInpainter delegates inpainting to an external model server.
//
// The server receives {"image": <png data url>, "mask": <png data url>} and
// must answer {"image": <data url>} with an image of the same size.
// Pixels outside the mask are always restored from the source.
type LearnedModelInpainter struct {
	endpoint string
	client   *http.Client
}

type modelRequest struct {
	Image string `json:"image"`
	Mask  string `json:"mask"`
}

type modelResponse struct {
	Image string `json:"image"`
	Error string `json:"error,omitempty"`
}

func NewLearnedModelInpainter(cfg *config.ModelConfig) *LearnedModelInpainter {
	return &LearnedModelInpainter{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

func (l *LearnedModelInpainter) Name() string { return config.StrategyLearned }

func (l *LearnedModelInpainter) Inpaint(ctx context.Context, src *image.NRGBA, mask *image.Gray) (*image.NRGBA, error) {
	if src.Rect.Size() != mask.Rect.Size() {
		return nil, ErrDimensionMismatch
	}

	imageURL, err := EncodePNGDataURL(src)
	if err != nil {
		return nil, err
	}
	maskURL, err := EncodePNGDataURL(mask)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(modelRequest{Image: imageURL, Mask: maskURL})
	if err != nil {
		return nil, fmt.Errorf("marshal model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxModelResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read model response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model request failed with status %d: %s", resp.StatusCode, truncate(data, 256))
	}

	var payload modelResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal model response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("model error: %s", payload.Error)
	}
	if payload.Image == "" {
		return nil, fmt.Errorf("model response has no image")
	}

	out, err := DecodeDataURL(payload.Image, 0)
	if err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	if out.Rect.Size() != src.Rect.Size() {
		return nil, fmt.Errorf("model output is %dx%d, want %dx%d",
			out.Rect.Dx(), out.Rect.Dy(), src.Rect.Dx(), src.Rect.Dy())
	}

	restoreUnmasked(out, src, mask)
	return out, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
