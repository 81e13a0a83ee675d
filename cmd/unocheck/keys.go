package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/WIZARDISHUNGRY/uno-await/internal/sequence"
	"github.com/mattn/go-tty"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type runeReader interface {
	ReadRune() (rune, error)
}

type kmt = map[rune]struct {
	cb   func()
	desc string
}

func keyMap(out io.Writer, v *sequence.Validator, stop func()) kmt {
	var keys kmt
	keys = kmt{
		's': {
			cb: func() {
				st := v.Status()
				fmt.Fprintf(out, "state %s, %d cards read, current %q\n", st.State, st.Read, st.File)
			},
			desc: "Show run status",
		},
		'q': {cb: stop, desc: "Stop checking"},
		3:   {cb: stop, desc: "Stop checking (ctrl-c)"}, // the tty is raw, so no SIGINT
		'?': {
			cb: func() {
				runes := maps.Keys(keys)
				slices.Sort(runes)
				for _, r := range runes {
					fmt.Fprintf(out, "%q: %s\n", r, keys[r].desc)
				}
			},
			desc: "Help",
		},
	}
	return keys
}

// scanKeys dispatches key presses until r fails, which is how a closed tty
// ends the loop.
func scanKeys(ctx context.Context, r runeReader, keys kmt) {
	log := log.WithField("component", "keys")
	for {
		c, err := r.ReadRune()
		if err != nil {
			if ctx.Err() == nil && err != io.EOF {
				log.WithError(err).Warn("ReadRune")
			}
			return
		}
		h, ok := keys[c]
		if !ok {
			continue
		}
		h.cb()
	}
}

// watchKeys runs scanKeys on the controlling terminal until ctx is done,
// then restores the terminal. Without a terminal it returns at once.
func watchKeys(ctx context.Context, v *sequence.Validator, stop func()) {
	t, err := tty.Open()
	if err != nil {
		log.WithError(err).Debug("no tty, hotkeys off")
		return
	}
	log.Info("press ? for hotkeys")
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanKeys(ctx, t, keyMap(os.Stdout, v, stop))
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}
	if err := t.Close(); err != nil {
		log.WithError(err).Warn("tty Close")
	}
}
