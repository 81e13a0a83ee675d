package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	imgcolor "image/color"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/WIZARDISHUNGRY/uno-await/internal/card"
	"github.com/WIZARDISHUNGRY/uno-await/internal/colorclass"
	"github.com/WIZARDISHUNGRY/uno-await/internal/config"
	"github.com/WIZARDISHUNGRY/uno-await/internal/diag"
	"github.com/WIZARDISHUNGRY/uno-await/internal/filter"
	"github.com/WIZARDISHUNGRY/uno-await/internal/logger"
	"github.com/WIZARDISHUNGRY/uno-await/internal/ocr"
	"github.com/WIZARDISHUNGRY/uno-await/internal/ocr/tesseract"
	"github.com/WIZARDISHUNGRY/uno-await/internal/rank"
	"github.com/WIZARDISHUNGRY/uno-await/internal/report"
	"github.com/WIZARDISHUNGRY/uno-await/internal/sequence"
	"github.com/WIZARDISHUNGRY/uno-await/internal/source"
	"github.com/disintegration/imaging"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

const (
	exitOK          = 0
	exitIllegal     = 1
	exitFailure     = 2
	exitInterrupted = 130
)

var log = logrus.New()

var flagEnv = flag.String("env", config.DefaultEnvFile, "dotenv file with UNOCHECK_* defaults")

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so deferred cleanup runs first.
func realMain() int {
	cfg, err := config.Load(envFileArg(os.Args[1:]))
	if err != nil {
		log.WithError(err).Error("config.Load")
		return exitFailure
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if cfg.DumpFSM {
		fmt.Println(sequence.Visualize())
		return exitOK
	}

	lvl, err := cfg.Level()
	if err != nil {
		log.WithError(err).Error("config")
		return exitFailure
	}
	log.SetLevel(lvl)

	rec, err := tesseract.New(cfg.Lang)
	if err != nil {
		log.WithError(err).Error("tesseract.New")
		return exitFailure
	}
	defer func() {
		if err := rec.Close(); err != nil {
			log.WithError(err).Warn("tesseract Close")
		}
	}()
	log.Debugf("tesseract %s", tesseract.Version())

	ctx, ctxCancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, os.Interrupt,
	)
	defer ctxCancel()
	ctx = logger.WithLogEntry(ctx, logrus.NewEntry(log))

	term := diag.NewTerminal()
	validator := newValidator(cfg, rec, term)

	g, ctx := errgroup.WithContext(ctx)
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	var ok bool
	g.Go(func() error {
		// the key reader lives only as long as the run
		defer stop()
		var err error
		ok, err = run(ctx, cfg, validator, term)
		return err
	})
	if cfg.Keys && !cfg.DebugColor && !cfg.DebugRank {
		g.Go(func() error {
			watchKeys(ctx, validator, stop)
			return nil
		})
	}

	return exitCode(g.Wait(), ok)
}

func exitCode(err error, ok bool) int {
	switch {
	case errors.Is(err, context.Canceled):
		log.Warn("interrupted")
		return exitInterrupted
	case err != nil:
		log.WithError(err).Error("run")
		return exitFailure
	case !ok:
		return exitIllegal
	}
	return exitOK
}

// envFileArg finds -env before flag parsing so the file can seed the
// defaults of every other flag.
func envFileArg(args []string) string {
	fs := flag.NewFlagSet("env", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	env := fs.String("env", *flagEnv, "")
	for i, a := range args {
		if strings.TrimLeft(strings.SplitN(a, "=", 2)[0], "-") == "env" {
			_ = fs.Parse(args[i:])
			break
		}
	}
	return *env
}

func newValidator(cfg *config.Config, rec ocr.Recognizer, term *diag.Terminal) *sequence.Validator {
	var (
		colorOpts []colorclass.Option
		rankOpts  []rank.Option
	)
	if cfg.DebugColor {
		colorOpts = append(colorOpts, colorclass.WithSink(term))
	}
	if cfg.DebugRank {
		rankOpts = append(rankOpts, rank.WithSink(term))
	}

	classifier := colorclass.New(colorOpts...)
	extractor := rank.New(ocr.WithCache(rec, ocr.NewCache(cfg.CacheBytes)), rankOpts...)

	opts := []sequence.Option{
		sequence.WithPreview(func(ctx context.Context, obs card.Observation, img image.Image) {
			fmt.Printf("%s color: %s | rank: %s\n", obs.File, obs.Label.Paint(), obs.Rank)
			if cfg.Show {
				term.Show(ctx, fmt.Sprintf("%s %s", obs.Label, obs.Rank), img)
			}
		}),
	}
	if cfg.ReshootDist >= 0 {
		opts = append(opts, sequence.WithReshoot(filter.Reshoot(filter.DefaultReshootDim, cfg.ReshootDist)))
	}
	return sequence.New(classifier, extractor, opts...)
}

func run(ctx context.Context, cfg *config.Config, validator *sequence.Validator, term *diag.Terminal) (bool, error) {
	dir, err := source.Open(cfg.Dir, cfg.Prefix, cfg.Suffix)
	if err != nil {
		return false, err
	}
	logger.Entry(ctx).Infof("checking %d cards in %s", dir.Len(), dir.Path())

	res, err := validator.Run(ctx, dir)
	if err != nil {
		return false, err
	}
	summarize(ctx, res)

	verdict := "all cards fit"
	if res.OK() {
		color.New(color.FgHiGreen, color.Bold).Println(verdict)
	} else {
		verdict = "illegal play"
		color.New(color.FgHiRed, color.Bold).Printf("%s: %s cannot follow %s\n",
			verdict, res.Failure.Current, res.Failure.Previous)
	}
	if cfg.Show {
		term.Show(ctx, verdict, verdictFrame(res.OK()))
	}

	if cfg.Report != "" {
		if err := report.Write(report.FromResult(dir.Path(), res, time.Now()), cfg.Report); err != nil {
			return false, err
		}
		logger.Entry(ctx).Infof("report written to %s", cfg.Report)
	}
	return res.OK(), nil
}

var (
	fitColor     = imgcolor.RGBA{R: 0x2e, G: 0xcc, B: 0x40, A: 0xff}
	illegalColor = imgcolor.RGBA{R: 0xff, G: 0x41, B: 0x36, A: 0xff}
)

// verdictFrame is a flat green or red card-shaped frame.
func verdictFrame(ok bool) image.Image {
	c := illegalColor
	if ok {
		c = fitColor
	}
	return imaging.New(64, 96, c)
}

func summarize(ctx context.Context, res *sequence.Result) {
	tally := map[card.Label]int{}
	for _, obs := range res.Observations {
		tally[obs.Label]++
	}
	labels := maps.Keys(tally)
	slices.Sort(labels)
	log := logger.Entry(ctx)
	for _, l := range labels {
		log = log.WithField(l.String(), tally[l])
	}
	log.WithField("skipped", len(res.Skipped)).
		WithField("reshoots", len(res.Reshoots)).
		Info("read cards")
}
