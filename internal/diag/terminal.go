package diag

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/WIZARDISHUNGRY/uno-await/internal/logger"
	"github.com/disintegration/imaging"
	"github.com/eliukblau/pixterm/pkg/ansimage"
	"github.com/mattn/go-tty"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	defaultCols = 80
	defaultRows = 24
)

// Terminal draws each stage as ANSI art and blocks on a key press in Wait.
type Terminal struct {
	Out io.Writer
	// Fraction of the terminal height a single frame may use.
	Fraction int
	// Open returns the tty used for acknowledgment; tests swap it out.
	Open func() (io.ReadCloser, error)
}

var _ Sink = &Terminal{}

func NewTerminal() *Terminal {
	return &Terminal{
		Out:      os.Stdout,
		Fraction: 2,
		Open:     openTTY,
	}
}

func (t *Terminal) Show(ctx context.Context, title string, img image.Image) {
	log := logger.Entry(ctx)
	fmt.Fprintf(t.Out, "--- %s (%dx%d)\n", title, img.Bounds().Dx(), img.Bounds().Dy())

	cols, rows := winsize()
	frac := t.Fraction
	if frac < 1 {
		frac = 1
	}
	rows /= frac
	w, h := ansimage.BlockSizeX*cols, ansimage.BlockSizeY*rows
	// shrink first so multi-megapixel photos stay cheap to dither
	small := padMin(imaging.Fit(img, w, h, imaging.Box))
	ansi, err := ansimage.NewScaledFromImage(small, h, w, color.Black, ansimage.ScaleModeFit, ansimage.DitheringWithChars)
	if err != nil {
		log.WithError(err).Warn("ansimage.NewScaledFromImage")
		return
	}
	fmt.Fprint(t.Out, ansi.Render())
}

// ansimage needs at least two character cells each way
const (
	minFrameW = 2 * ansimage.BlockSizeX
	minFrameH = 2 * ansimage.BlockSizeY
)

// padMin centers img on a black canvas when it is smaller than one
// renderable frame.
func padMin(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() >= minFrameW && b.Dy() >= minFrameH {
		return img
	}
	w, h := b.Dx(), b.Dy()
	if w < minFrameW {
		w = minFrameW
	}
	if h < minFrameH {
		h = minFrameH
	}
	return imaging.PasteCenter(imaging.New(w, h, color.Black), img)
}

// Wait blocks until any key is read from the terminal or ctx is done.
func (t *Terminal) Wait(ctx context.Context) error {
	open := t.Open
	if open == nil {
		open = openTTY
	}
	fmt.Fprintln(t.Out, "press any key to continue")
	r, err := open()
	if err != nil {
		return errors.Wrap(err, "tty.Open")
	}
	done := make(chan error, 1)
	go func() {
		var b [1]byte
		_, err := r.Read(b[:])
		done <- err
	}()
	select {
	case <-ctx.Done():
		r.Close()
		return ctx.Err()
	case err := <-done:
		r.Close()
		if err != nil {
			return errors.Wrap(err, "tty read")
		}
		return nil
	}
}

type ttyReader struct{ *tty.TTY }

func (t ttyReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	r, err := t.ReadRune()
	if err != nil {
		return 0, err
	}
	p[0] = byte(r)
	return 1, nil
}

func openTTY() (io.ReadCloser, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}
	return ttyReader{t}, nil
}

func winsize() (cols, rows int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return defaultCols, defaultRows
	}
	return int(ws.Col), int(ws.Row)
}
