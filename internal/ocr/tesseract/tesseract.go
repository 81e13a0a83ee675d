// Package tesseract provides the cgo-backed recognizer. It is kept apart
// from package ocr so that nothing else links libtesseract.
package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/WIZARDISHUNGRY/uno-await/internal/logger"
	"github.com/WIZARDISHUNGRY/uno-await/internal/ocr"
	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"
)

const DefaultLanguage = "eng"

// Tesseract wraps one long-lived tesseract client. Build it once per process
// and Close it on exit.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
	enc    png.Encoder
}

var _ ocr.Recognizer = &Tesseract{}

// New initializes the client for lang and runs a probe so that
// missing models surface here instead of on the first card.
func New(lang string) (*Tesseract, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	client := gosseract.NewClient()
	t := &Tesseract{
		client: client,
		enc:    png.Encoder{CompressionLevel: png.BestSpeed},
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, errors.Wrapf(ocr.ErrUnavailable, "SetLanguage(%s): %v", lang, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, errors.Wrapf(ocr.ErrUnavailable, "SetPageSegMode: %v", err)
	}
	if err := t.probe(); err != nil {
		client.Close()
		return nil, errors.Wrapf(ocr.ErrUnavailable, "probe: %v", err)
	}
	return t, nil
}

func (t *Tesseract) probe() error {
	blank := image.NewGray(image.Rect(0, 0, 16, 16))
	buf, err := t.encode(blank)
	if err != nil {
		return err
	}
	if err := t.client.SetImageFromBytes(buf); err != nil {
		return err
	}
	_, err = t.client.Text()
	return err
}

func (t *Tesseract) encode(mask *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.enc.Encode(&buf, mask); err != nil {
		return nil, errors.Wrap(err, "png.Encode")
	}
	return buf.Bytes(), nil
}

// Recognize returns one candidate per recognized word.
func (t *Tesseract) Recognize(ctx context.Context, mask *image.Gray) ([]string, error) {
	if mask.Bounds().Empty() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := t.encode(mask)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.client.SetImageFromBytes(buf); err != nil {
		return nil, errors.Wrap(err, "SetImageFromBytes")
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, errors.Wrap(err, "GetBoundingBoxes")
	}
	out := make([]string, 0, len(boxes))
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		out = append(out, b.Word)
	}
	logger.Entry(ctx).WithField("candidates", out).Trace("tesseract")
	return out, nil
}

func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}

// Version reports the linked tesseract version.
func Version() string {
	return gosseract.Version()
}
