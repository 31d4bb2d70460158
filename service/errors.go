package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPayload      = errors.New("empty image payload")
	ErrInvalidBase64     = errors.New("invalid base64 payload")
	ErrUnsupportedImage  = errors.New("unsupported or corrupt image data")
	ErrImageTooLarge     = errors.New("image exceeds the pixel budget")
	ErrDimensionMismatch = errors.New("mask dimensions do not match image dimensions")
	ErrQueueFull         = errors.New("processing queue is full, retry later")
	ErrCacheDisabled     = errors.New("result cache is disabled")
)

// DecodeError reports an input field that could not be turned into an image.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProcessingError reports a failure after both inputs decoded successfully.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
