// Package ocr is the boundary to the optical character recognizer. The rest
// of the module only sees Recognizer.
package ocr

import (
	"context"
	"image"

	"github.com/pkg/errors"
)

// ErrUnavailable means the recognizer could not be brought up: missing
// language data, missing native library, and so on. It is not recoverable.
var ErrUnavailable = errors.New("recognizer unavailable")

// Recognizer returns the plain text candidates found in a binary mask, in
// reading order. An empty result is not an error.
type Recognizer interface {
	Recognize(ctx context.Context, mask *image.Gray) ([]string, error)
}

// Func adapts a plain function to Recognizer.
type Func func(ctx context.Context, mask *image.Gray) ([]string, error)

func (f Func) Recognize(ctx context.Context, mask *image.Gray) ([]string, error) {
	return f(ctx, mask)
}
