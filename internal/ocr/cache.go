package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"image"

	"github.com/WIZARDISHUNGRY/uno-await/internal/logger"
	"github.com/die-net/lrucache"
	"github.com/gregjones/httpcache"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Cached memoizes another Recognizer by mask content. Masks are
// deterministic, so a hit returns exactly what the recognizer said last time.
type Cached struct {
	next  Recognizer
	cache httpcache.Cache
}

var _ Recognizer = &Cached{}

func NewCached(next Recognizer, cache httpcache.Cache) *Cached {
	return &Cached{next: next, cache: cache}
}

// NewCache sizes a cache for NewCached: maxBytes > 0 is an LRU bounded to
// that many bytes, maxBytes < 0 is unbounded, 0 returns nil.
func NewCache(maxBytes int64) httpcache.Cache {
	switch {
	case maxBytes > 0:
		return lrucache.New(maxBytes, 0)
	case maxBytes < 0:
		return httpcache.NewMemoryCache()
	default:
		return nil
	}
}

// WithCache wraps r when cache is non-nil.
func WithCache(r Recognizer, cache httpcache.Cache) Recognizer {
	if cache == nil {
		return r
	}
	return NewCached(r, cache)
}

func (c *Cached) Recognize(ctx context.Context, mask *image.Gray) ([]string, error) {
	log := logger.Entry(ctx)
	key := MaskKey(mask)
	if b, ok := c.cache.Get(key); ok {
		var out []string
		if err := yaml.Unmarshal(b, &out); err == nil {
			log.WithField("key", key[:12]).Trace("recognizer cache hit")
			return out, nil
		}
		c.cache.Delete(key)
	}
	out, err := c.next.Recognize(ctx, mask)
	if err != nil {
		return nil, err
	}
	b, err := yaml.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "yaml.Marshal")
	}
	c.cache.Set(key, b)
	return out, nil
}

// MaskKey hashes the dimensions and pixels of mask.
func MaskKey(mask *image.Gray) string {
	h := sha256.New()
	b := mask.Bounds()
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[:4], uint32(b.Dx()))
	binary.BigEndian.PutUint32(dims[4:], uint32(b.Dy()))
	h.Write(dims[:])
	for y := b.Min.Y; y < b.Max.Y; y++ {
		h.Write(mask.Pix[mask.PixOffset(b.Min.X, y):mask.PixOffset(b.Max.X, y)])
	}
	return hex.EncodeToString(h.Sum(nil))
}
