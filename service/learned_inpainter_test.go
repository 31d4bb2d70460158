package service

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelServer(t *testing.T, handler func(w http.ResponseWriter, req modelRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req modelRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLearnedModelInpainter_Inpaint(t *testing.T) {
	green := color.NRGBA{G: 220, A: 255}
	srv := newModelServer(t, func(w http.ResponseWriter, req modelRequest) {
		img, err := DecodeDataURL(req.Image, 0)
		require.NoError(t, err)
		m, err := DecodeDataURL(req.Mask, 0)
		require.NoError(t, err)
		assert.Equal(t, img.Bounds(), m.Bounds())
		assert.Equal(t, uint8(255), m.NRGBAAt(5, 5).R)

		// the fake model paints everything green, including pixels it should keep
		out, err := EncodePNGDataURL(solidImage(img.Rect.Dx(), img.Rect.Dy(), green))
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(modelResponse{Image: out})
	})

	src := solidImage(20, 10, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	mask := rectMask(20, 10, image.Rect(4, 4, 8, 8))

	inp := NewLearnedModelInpainter(&config.ModelConfig{Endpoint: srv.URL, Timeout: 5 * time.Second})
	assert.Equal(t, "learned", inp.Name())

	out, err := inp.Inpaint(context.Background(), src, mask)
	require.NoError(t, err)
	assert.Equal(t, green, out.NRGBAAt(5, 5))
	assert.Equal(t, src.NRGBAAt(0, 0), out.NRGBAAt(0, 0))
	assert.Equal(t, src.NRGBAAt(19, 9), out.NRGBAAt(19, 9))
}

func TestLearnedModelInpainter_Errors(t *testing.T) {
	src := solidImage(8, 8, color.NRGBA{A: 255})
	mask := rectMask(8, 8, image.Rect(2, 2, 4, 4))

	tests := []struct {
		name    string
		respond func(w http.ResponseWriter)
		wantErr string
	}{
		{
			name: "server error",
			respond: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("model crashed"))
			},
			wantErr: "status 500",
		},
		{
			name:    "invalid json",
			respond: func(w http.ResponseWriter) { _, _ = w.Write([]byte("{not json")) },
			wantErr: "unmarshal model response",
		},
		{
			name:    "model reported error",
			respond: func(w http.ResponseWriter) { _, _ = w.Write([]byte(`{"error":"out of memory"}`)) },
			wantErr: "out of memory",
		},
		{
			name:    "missing image",
			respond: func(w http.ResponseWriter) { _, _ = w.Write([]byte(`{}`)) },
			wantErr: "no image",
		},
		{
			name: "wrong size",
			respond: func(w http.ResponseWriter) {
				out, _ := EncodePNGDataURL(solidImage(4, 4, color.NRGBA{A: 255}))
				_ = json.NewEncoder(w).Encode(modelResponse{Image: out})
			},
			wantErr: "model output is 4x4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newModelServer(t, func(w http.ResponseWriter, _ modelRequest) { tt.respond(w) })
			inp := NewLearnedModelInpainter(&config.ModelConfig{Endpoint: srv.URL, Timeout: 5 * time.Second})

			_, err := inp.Inpaint(context.Background(), src, mask)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLearnedModelInpainter_Timeout(t *testing.T) {
	srv := newModelServer(t, func(w http.ResponseWriter, _ modelRequest) {
		time.Sleep(200 * time.Millisecond)
	})
	inp := NewLearnedModelInpainter(&config.ModelConfig{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})

	_, err := inp.Inpaint(context.Background(), solidImage(4, 4, color.NRGBA{A: 255}), rectMask(4, 4, image.Rect(1, 1, 2, 2)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call model")
}

func TestLearnedModelInpainter_DimensionMismatch(t *testing.T) {
	inp := NewLearnedModelInpainter(&config.ModelConfig{Endpoint: "http://127.0.0.1:0", Timeout: time.Second})
	_, err := inp.Inpaint(context.Background(), solidImage(4, 4, color.NRGBA{A: 255}), image.NewGray(image.Rect(0, 0, 3, 4)))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
