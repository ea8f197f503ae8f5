package processor

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownProfile    = errors.New("unknown device profile")
	ErrInvalidCustomSize = errors.New("invalid custom size")
	ErrInvalidDensity    = errors.New("density must be 1, 2 or 3")
	ErrDecode            = errors.New("failed to decode image")
	ErrImageTimeout      = errors.New("image processing timed out")
	ErrSourceTooLarge    = errors.New("source image too large")
	ErrEmptyBatch        = errors.New("batch contains no images")
	ErrArchiveFinalize   = errors.New("failed to finalize archive")
)

// DecodeError identifies the source image that could not be rasterized.
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
