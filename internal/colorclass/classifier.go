// Package colorclass decides which of the four UNO colors dominates a card
// photo by voting over the hue of strongly colored pixels.
package colorclass

import (
	"context"
	"image"

	"github.com/WIZARDISHUNGRY/uno-await/internal/card"
	"github.com/WIZARDISHUNGRY/uno-await/internal/diag"
	"github.com/WIZARDISHUNGRY/uno-await/internal/logger"
)

const (
	// pixels must be strictly above both to vote
	minSaturation = 100
	minValue      = 100
)

// Hue band edges, in half degrees. Red wraps around 0.
const (
	yellowFrom = 10
	greenFrom  = 30
	blueFrom   = 85
	redFrom    = 170
)

type Option func(c *Classifier)

// WithSink enables diagnostic rendering of the intermediate images.
func WithSink(s diag.Sink) Option {
	return func(c *Classifier) {
		c.sink = s
	}
}

// Classifier is stateless apart from its configuration and safe for
// concurrent use when its sink is.
type Classifier struct {
	sink diag.Sink
}

func New(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the color whose hue band holds the most common hue among
// saturated, bright pixels. It always returns a label; an image with no
// such pixels, or one that cannot be converted, is red.
func (c *Classifier) Classify(ctx context.Context, img image.Image) card.Label {
	log := logger.Entry(ctx)

	planes, err := ToHSV(img)
	if err != nil {
		// no votes
		log.WithError(err).Warn("ToHSV")
		planes = &HSV{}
	}
	hist, mask := Histogram(planes)
	dom := DominantHue(hist)
	label := LabelForHue(dom)

	if c.sink != nil {
		c.sink.Show(ctx, "1 - original", img)
		c.sink.Show(ctx, "2 - hsv", planes.Image())
		c.sink.Show(ctx, "3 - mask s>100 v>100", mask)
		if err := c.sink.Wait(ctx); err != nil {
			log.WithError(err).Debug("diagnostic wait")
		}
	}

	log.WithField("hue", dom).WithField("votes", hist[dom]).Tracef("classified %s", label)
	return label
}

// Histogram counts hues of the pixels passing the saturation/value mask and
// returns the mask as a two-valued image alongside.
func Histogram(p *HSV) ([HueBuckets]int, *image.Gray) {
	var hist [HueBuckets]int
	mask := image.NewGray(image.Rect(0, 0, p.Rect.Dx(), p.Rect.Dy()))
	for i := range p.H {
		if p.S[i] > minSaturation && p.V[i] > minValue {
			hist[p.H[i]]++
			mask.Pix[i] = 0xff
		}
	}
	return hist, mask
}

// DominantHue returns the index of the first largest bucket. An all-zero
// histogram yields 0.
func DominantHue(hist [HueBuckets]int) int {
	dom := 0
	for i, n := range hist {
		if n > hist[dom] {
			dom = i
		}
	}
	return dom
}

func LabelForHue(h int) card.Label {
	switch {
	case h < yellowFrom || h >= redFrom:
		return card.Red
	case h < greenFrom:
		return card.Yellow
	case h < blueFrom:
		return card.Green
	default:
		return card.Blue
	}
}
