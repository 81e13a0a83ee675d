// Package diag renders intermediate pipeline images for a human to inspect.
// Nothing in the functional path depends on a sink being present.
package diag

import (
	"context"
	"image"
	"sync"
)

// Sink receives the intermediate images of one extraction call, then Wait is
// called once after the last stage.
type Sink interface {
	Show(ctx context.Context, title string, img image.Image)
	Wait(ctx context.Context) error
}

// Frame is one recorded Show call.
type Frame struct {
	Title string
	Image image.Image
}

// Recorder keeps every frame it is shown. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
	waits  int
}

var _ Sink = &Recorder{}

func (r *Recorder) Show(_ context.Context, title string, img image.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, Frame{Title: title, Image: img})
}

func (r *Recorder) Wait(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits++
	return nil
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.frames))
	for _, f := range r.frames {
		out = append(out, f.Title)
	}
	return out
}

func (r *Recorder) Waits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waits
}
