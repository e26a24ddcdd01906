// Package sketch runs a Sketch: it owns the ticker, the framebuffer, the
// post-processing chain and the output sinks.
package sketch

import (
	"context"

	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

// Sketch is a drawable program hosted by a Sketchpad. All methods run on
// the loop goroutine except Preload.
type Sketch interface {
	Name() string
	// Preload fetches assets before Init; it may block.
	Preload(ctx context.Context) error
	Init(pad *Sketchpad) error
	Resize(width, height int, pixelRatio float64)
	// Tick advances the sketch by delta milliseconds; time is the ticker
	// clock in milliseconds.
	Tick(delta, time float64)
	Render(dst *render.Frame)
	Dispose()
}

// Authored sketches add their author to the title.
type Authored interface {
	Author() string
}

// Base is a no-op Sketch to embed.
type Base struct {
	Title  string
	By     string
	Pad    *Sketchpad
	Width  int
	Height int
}

func (b *Base) Name() string {
	if b.Title == "" {
		return "Untitled"
	}
	return b.Title
}

func (b *Base) Author() string { return b.By }

func (b *Base) Preload(context.Context) error { return nil }

func (b *Base) Init(pad *Sketchpad) error {
	b.Pad = pad
	return nil
}

func (b *Base) Resize(width, height int, _ float64) {
	b.Width, b.Height = width, height
}

func (b *Base) Tick(float64, float64) {}

func (b *Base) Render(*render.Frame) {}

func (b *Base) Dispose() { b.Pad = nil }
