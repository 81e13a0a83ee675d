// Package filter holds stateful checks run over consecutive card photos.
package filter

import (
	"context"
	"image"
	"sync"

	"github.com/WIZARDISHUNGRY/uno-await/internal/logger"
	"github.com/corona10/goimagehash"
	"github.com/pkg/errors"
)

// FilterFunc reports whether an image passes. It must be safe for concurrent use.
type FilterFunc func(context.Context, image.Image) (bool, error)

const (
	DefaultReshootDim     = 16
	DefaultReshootMaxDist = 4
)

// Reshoot returns a filter that rejects an image whose ExtPerceptionHash is
// within maxDist of the image seen just before it, i.e. the same card
// photographed twice in a row. The first image always passes.
func Reshoot(dim, maxDist int) FilterFunc {
	var (
		mu   sync.Mutex
		prev *goimagehash.ExtImageHash
	)
	return func(ctx context.Context, img image.Image) (bool, error) {
		log := logger.Entry(ctx)

		hash, err := goimagehash.ExtPerceptionHash(img, dim, dim)
		if err != nil {
			return false, errors.Wrap(err, "ExtPerceptionHash error")
		}

		mu.Lock()
		last := prev
		prev = hash
		mu.Unlock()

		if last == nil {
			return true, nil
		}
		distance, err := last.Distance(hash)
		if err != nil {
			return false, errors.Wrap(err, "ExtPerceptionHash Distance error")
		}
		ok := distance > maxDist
		if !ok {
			log.Tracef("ExtPerceptionHash distance is %d, threshold is %d", distance, maxDist)
		}
		return ok, nil
	}
}
