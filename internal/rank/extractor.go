// Package rank reads the printed number off a card photo.
package rank

import (
	"context"
	"image"

	"github.com/WIZARDISHUNGRY/uno-await/internal/binarize"
	"github.com/WIZARDISHUNGRY/uno-await/internal/card"
	"github.com/WIZARDISHUNGRY/uno-await/internal/diag"
	"github.com/WIZARDISHUNGRY/uno-await/internal/logger"
	"github.com/WIZARDISHUNGRY/uno-await/internal/ocr"
	"github.com/pkg/errors"
)

type Option func(e *Extractor)

// WithSink enables diagnostic rendering of each pipeline stage.
func WithSink(s diag.Sink) Option {
	return func(e *Extractor) {
		e.sink = s
	}
}

// WithPipeline overrides the binarization parameters.
func WithPipeline(p binarize.Pipeline) Option {
	return func(e *Extractor) {
		e.pipeline = p
	}
}

// Extractor turns a photo into a digit silhouette and asks the recognizer
// what it says. The recognizer is shared, never owned.
type Extractor struct {
	recognizer ocr.Recognizer
	pipeline   binarize.Pipeline
	sink       diag.Sink
}

func New(r ocr.Recognizer, opts ...Option) *Extractor {
	e := &Extractor{
		recognizer: r,
		pipeline:   binarize.RankPipeline,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the longest all-digit candidate the recognizer reports, or
// card.NoRank. An error means the image could not be handed to OpenCV or
// the recognizer itself failed.
func (e *Extractor) Extract(ctx context.Context, img image.Image) (card.Rank, error) {
	log := logger.Entry(ctx)

	var stage binarize.StageFunc
	if e.sink != nil {
		stage = func(title string, img *image.Gray) {
			e.sink.Show(ctx, title, img)
		}
	}
	mask, err := e.pipeline.Run(img, stage)
	if err != nil {
		return card.NoRank, errors.Wrap(err, "binarize")
	}
	if e.sink != nil {
		if err := e.sink.Wait(ctx); err != nil {
			log.WithError(err).Debug("diagnostic wait")
		}
	}

	if mask.Bounds().Empty() {
		return card.NoRank, nil
	}
	candidates, err := e.recognizer.Recognize(ctx, mask)
	if err != nil {
		return card.NoRank, errors.Wrap(err, "Recognize")
	}
	r := LongestDigits(candidates)
	log.WithField("candidates", candidates).Tracef("rank %s", r)
	return r, nil
}
