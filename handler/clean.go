package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/middleware"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/model"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/service"
	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/utils"
	"go.uber.org/zap"
)

const (
	ResultKeyHeader = "X-Result-Key"
	CacheHeader     = "X-Cache"
)

// Cleaner is the part of service.SlideCleaner the handler depends on.
type Cleaner interface {
	Clean(ctx context.Context, image, mask string) (*service.CleanResult, error)
	Lookup(ctx context.Context, key string) (string, bool, error)
}

type CleanHandler struct {
	cleaner     Cleaner
	maxBodySize int64
}

func NewCleanHandler(cfg *config.UploadConfig, cleaner Cleaner) *CleanHandler {
	return &CleanHandler{
		cleaner:     cleaner,
		maxBodySize: cfg.MaxSize,
	}
}

// Clean handles POST /clean-slide.
func (h *CleanHandler) Clean(c *gin.Context) {
	form, err := h.readForm(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{
				Success: false,
				Message: "request body too large",
				Error:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "invalid form body",
			Error:   err.Error(),
		})
		return
	}

	image, mask := form.Get("image"), form.Get("mask")
	if image == "" {
		h.writeError(c, &service.DecodeError{Field: "image", Err: service.ErrEmptyPayload})
		return
	}
	if mask == "" {
		h.writeError(c, &service.DecodeError{Field: "mask", Err: service.ErrEmptyPayload})
		return
	}

	result, err := h.cleaner.Clean(c.Request.Context(), image, mask)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header(ResultKeyHeader, result.Key)
	if result.Cached {
		c.Header(CacheHeader, "HIT")
	} else {
		c.Header(CacheHeader, "MISS")
	}
	c.JSON(http.StatusOK, model.CleanResponse{CleanedImage: result.CleanedImage})
}

// Lookup handles GET /clean-slide/:key.
func (h *CleanHandler) Lookup(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "missing result key",
		})
		return
	}

	cleaned, ok, err := h.cleaner.Lookup(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, service.ErrCacheDisabled) {
			c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
				Success: false,
				Message: "result cache is not enabled",
			})
			return
		}
		utils.Logger.Error("failed to get cleaned image", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "lookup failed",
			Error:   err.Error(),
		})
		return
	}

	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: "no cleaned image for this key",
		})
		return
	}

	c.Header(ResultKeyHeader, key)
	c.Header(CacheHeader, "HIT")
	c.JSON(http.StatusOK, model.CleanResponse{CleanedImage: cleaned})
}

// readForm parses urlencoded or multipart fields with the body capped at maxBodySize.
func (h *CleanHandler) readForm(c *gin.Context) (url.Values, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := c.Request.ParseMultipartForm(h.maxBodySize); err != nil {
			return nil, err
		}
		return c.Request.MultipartForm.Value, nil
	}

	// net/http caps urlencoded bodies at 10MB, so read it here against our own limit
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	return url.ParseQuery(string(body))
}

func (h *CleanHandler) writeError(c *gin.Context, err error) {
	status, message := classifyError(err)

	fields := []zap.Field{
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		utils.Logger.Error("failed to clean slide", fields...)
	} else {
		utils.Logger.Warn("rejected clean request", fields...)
	}

	c.JSON(status, model.ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

func classifyError(err error) (int, string) {
	var decodeErr *service.DecodeError
	var procErr *service.ProcessingError

	switch {
	case errors.As(err, &decodeErr):
		return http.StatusBadRequest, "invalid " + decodeErr.Field
	case errors.As(err, &procErr):
		return http.StatusUnprocessableEntity, "image processing failed"
	case errors.Is(err, service.ErrQueueFull):
		return http.StatusServiceUnavailable, "server busy, try again later"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
