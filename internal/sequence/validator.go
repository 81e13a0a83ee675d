// Package sequence walks a directory of card photos in order and checks
// that every card may follow the one before it.
package sequence

import (
	"context"
	"image"
	"sync"

	"github.com/WIZARDISHUNGRY/uno-await/internal/card"
	"github.com/WIZARDISHUNGRY/uno-await/internal/filter"
	"github.com/WIZARDISHUNGRY/uno-await/internal/logger"
	"github.com/WIZARDISHUNGRY/uno-await/internal/source"
	"github.com/pkg/errors"
)

type ColorClassifier interface {
	Classify(ctx context.Context, img image.Image) card.Label
}

type RankExtractor interface {
	Extract(ctx context.Context, img image.Image) (card.Rank, error)
}

// Cards is the ordered input of a run; *source.Dir satisfies it.
type Cards interface {
	Entries() []source.Entry
	Load(i int) (image.Image, error)
}

var _ Cards = &source.Dir{}

// Skipped is a file that could not be decoded.
type Skipped struct {
	File   string `yaml:"file"`
	Reason string `yaml:"reason"`
}

// Mismatch is the first adjacent pair sharing neither color nor rank. Index
// is the position of Current among the observations.
type Mismatch struct {
	Index    int              `yaml:"index"`
	Previous card.Observation `yaml:"previous"`
	Current  card.Observation `yaml:"current"`
}

type Result struct {
	Observations []card.Observation
	Skipped      []Skipped
	Reshoots     []string
	Failure      *Mismatch
	State        string
}

func (r *Result) OK() bool { return r.Failure == nil }

type Option func(v *Validator)

// WithReshoot flags consecutive near-identical photos. Advisory only.
func WithReshoot(f filter.FilterFunc) Option {
	return func(v *Validator) {
		v.reshoot = f
	}
}

// WithPreview is called for every card after it has been read.
func WithPreview(f func(ctx context.Context, obs card.Observation, img image.Image)) Option {
	return func(v *Validator) {
		v.preview = f
	}
}

type Validator struct {
	classifier ColorClassifier
	extractor  RankExtractor
	reshoot    filter.FilterFunc
	preview    func(ctx context.Context, obs card.Observation, img image.Image)

	mu     sync.Mutex
	status Status
}

// Status is a snapshot of a run in progress.
type Status struct {
	State string
	File  string // card being read, empty between cards
	Read  int
}

// Status may be called from any goroutine while Run is going.
func (v *Validator) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *Validator) track(f func(s *Status)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	f(&v.status)
}

func New(c ColorClassifier, e RankExtractor, opts ...Option) *Validator {
	v := &Validator{classifier: c, extractor: e}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run processes cards strictly in order and stops at the first
// incompatible pair. Unreadable files are skipped. A returned error means
// the run could not be completed (recognizer failure, cancellation); the
// verdict lives in Result.
func (v *Validator) Run(ctx context.Context, cards Cards) (*Result, error) {
	log := logger.Entry(ctx)
	game := newGame(log)
	res := &Result{}
	v.track(func(s *Status) { *s = Status{State: game.Current()} })
	defer func() {
		v.track(func(s *Status) {
			s.State, s.File = game.Current(), ""
		})
	}()

	var (
		prev    card.Observation
		started bool
	)
	for i, entry := range cards.Entries() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ctx, log := logger.WithField(ctx, "file", entry.Name)
		log.Info("processing")
		v.track(func(s *Status) { s.File = entry.Name })

		img, err := cards.Load(i)
		if err != nil {
			log.WithError(err).Warn("unreadable, skipping")
			res.Skipped = append(res.Skipped, Skipped{File: entry.Name, Reason: err.Error()})
			continue
		}

		obs, err := v.observe(ctx, entry.Name, img)
		if err != nil {
			return res, err
		}
		res.Observations = append(res.Observations, obs)
		v.track(func(s *Status) { s.Read = len(res.Observations) })
		log.WithField("color", obs.Label).WithField("rank", obs.Rank).Info("read card")

		if v.reshoot != nil {
			ok, err := v.reshoot(ctx, img)
			if err != nil {
				log.WithError(err).Warn("reshoot check")
			} else if !ok {
				log.Warn("looks like the previous photo again")
				res.Reshoots = append(res.Reshoots, entry.Name)
			}
		}
		if v.preview != nil {
			v.preview(ctx, obs, img)
		}

		if !started {
			if err := push(game, eventDeal); err != nil {
				return res, errors.Wrap(err, "fsm")
			}
		} else if !card.Compatible(prev, obs) {
			res.Failure = &Mismatch{
				Index:    len(res.Observations) - 1,
				Previous: prev,
				Current:  obs,
			}
			log.WithField("previous", prev.String()).
				WithField("current", obs.String()).
				Warn("neither color nor rank match the previous card")
			if err := push(game, eventMismatch); err != nil {
				return res, errors.Wrap(err, "fsm")
			}
			break
		} else if err := push(game, eventPlay); err != nil {
			return res, errors.Wrap(err, "fsm")
		}
		prev, started = obs, true
		v.track(func(s *Status) { s.State = game.Current() })
	}

	if res.Failure == nil {
		if err := push(game, eventFinish); err != nil {
			return res, errors.Wrap(err, "fsm")
		}
	}
	res.State = game.Current()
	return res, nil
}

func (v *Validator) observe(ctx context.Context, name string, img image.Image) (card.Observation, error) {
	label := v.classifier.Classify(ctx, img)
	rank, err := v.extractor.Extract(ctx, img)
	if err != nil {
		return card.Observation{}, errors.Wrapf(err, "extract rank from %s", name)
	}
	return card.Observation{File: name, Label: label, Rank: rank}, nil
}

// Check applies the adjacency rule to already-read cards. failAt is the
// index of the first card that may not follow its predecessor, or -1.
func Check(obs []card.Observation) (ok bool, failAt int) {
	for i := 1; i < len(obs); i++ {
		if !card.Compatible(obs[i-1], obs[i]) {
			return false, i
		}
	}
	return true, -1
}
