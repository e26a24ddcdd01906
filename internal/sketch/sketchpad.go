package sketch

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/funtimes-sketchpad/internal/diagnostics"
	"github.com/coreman2200/funtimes-sketchpad/internal/input"
	"github.com/coreman2200/funtimes-sketchpad/internal/output"
	"github.com/coreman2200/funtimes-sketchpad/internal/render"
	"github.com/coreman2200/funtimes-sketchpad/internal/ticker"
)

var ErrNoSketch = errors.New("sketch: no sketch open")

type Options struct {
	// Window supplies the viewport size and resize events. Optional.
	Window input.Source
	Driver ticker.Driver
	FPS    int

	// Width and Height fix the canvas; 0 follows the viewport.
	Width, Height int
	PixelRatio    float64

	// NoAutoStart leaves the ticker stopped after Open.
	NoAutoStart bool
	// Title overrides the computed title.
	Title string

	Effects     *render.Effects
	Sinks       []output.Sink
	Diagnostics diag.Publisher
	// SnapshotDir receives SavePNG files; "" is the working directory.
	SnapshotDir string
}

// Sketchpad is driven by its Ticker and must be used from the goroutine
// the ticker driver runs frames on.
type Sketchpad struct {
	Ticker  *ticker.Ticker
	Frame   *render.Frame
	Effects *render.Effects

	// Width and Height are the requested size; 0 follows the viewport.
	Width, Height int

	window      input.Source
	sinks       output.Multi
	diagnostics diag.Publisher
	title       string
	pixelRatio  float64
	scale       float64
	autoStart   bool
	snapshotDir string

	sketch           Sketch
	needsResize      bool
	savePNGRequested bool
	lastSnapshot     string
	frames           uint64
	slowFrames       int

	resizeID input.ListenerID
	disposed bool
}

func New(opts Options) (*Sketchpad, error) {
	if opts.Driver == nil {
		return nil, errors.New("sketch: driver is required")
	}
	pr := opts.PixelRatio
	if pr <= 0 {
		pr = 1
	}
	effects := opts.Effects
	if effects == nil {
		effects = render.NewEffects()
	}
	publisher := opts.Diagnostics
	if publisher == nil {
		publisher = diag.Log
	}

	p := &Sketchpad{
		Frame:       render.NewFrame(0, 0),
		Effects:     effects,
		Width:       opts.Width,
		Height:      opts.Height,
		window:      opts.Window,
		sinks:       output.Multi(opts.Sinks),
		diagnostics: publisher,
		title:       opts.Title,
		pixelRatio:  pr,
		scale:       1,
		autoStart:   !opts.NoAutoStart,
		snapshotDir: opts.SnapshotDir,
	}
	p.Ticker = ticker.New(opts.Driver, opts.FPS, p)
	p.Resize(p.Width, p.Height)

	if p.window != nil {
		p.resizeID = p.window.AddEventListener(input.Resize, func(*input.Event) {
			p.needsResize = true
		})
	}
	return p, nil
}

// Open preloads and initialises s, then starts the ticker unless
// NoAutoStart was set.
func (p *Sketchpad) Open(ctx context.Context, s Sketch) error {
	if err := s.Preload(ctx); err != nil {
		return fmt.Errorf("sketch: preload %s: %w", s.Name(), err)
	}
	if err := s.Init(p); err != nil {
		return fmt.Errorf("sketch: init %s: %w", s.Name(), err)
	}
	p.sketch = s
	log.Info().Str("title", p.Title()).Msg("sketch opened")
	if p.autoStart {
		p.Start(0)
	}
	return nil
}

// Start resets the clock to t (ms) and starts ticking; the canvas is
// resized on the first frame.
func (p *Sketchpad) Start(t float64) {
	p.needsResize = true
	p.Ticker.SetTime(t)
	p.Ticker.Start()
}

// Resize stores the requested size and applies it, falling back to the
// viewport for zero values.
func (p *Sketchpad) Resize(width, height int) {
	p.Width, p.Height = width, height
	p.SetSize(width, height)
	p.needsResize = false
}

// SetSize applies a canvas size without changing the requested one.
func (p *Sketchpad) SetSize(width, height int) {
	if p.window != nil {
		vw, vh := p.window.Size()
		if width == 0 {
			width = vw
		}
		if height == 0 {
			height = vh
		}
	}
	w := int(float64(width) * p.pixelRatio)
	h := int(float64(height) * p.pixelRatio)
	if w != p.Frame.Width || h != p.Frame.Height {
		p.Frame.Resize(w, h)
	}
	if p.sketch != nil {
		p.sketch.Resize(width, height, p.pixelRatio)
	}
}

// SetScale records the display zoom.
func (p *Sketchpad) SetScale(scale float64) { p.scale = scale }

func (p *Sketchpad) Scale() float64 { return p.scale }

// Tick renders one frame. It is the ticker handler.
func (p *Sketchpad) Tick(delta, t float64) {
	began := time.Now()
	if p.needsResize {
		p.Resize(p.Width, p.Height)
	}
	if p.sketch != nil {
		p.sketch.Tick(delta, t)
		p.sketch.Render(p.Frame)
	}
	p.Effects.Apply(p.Frame)
	p.frames++

	if len(p.sinks) > 0 {
		if err := p.sinks.Write(p.Frame); err != nil {
			p.diagnostics.Publish(diag.OutputFailed(output.Name(p.sinks), err))
		}
	}
	if p.savePNGRequested {
		p.savePNGRequested = false
		if _, err := p.writePNG(); err != nil {
			log.Error().Err(err).Msg("save png")
		}
	}

	budget := p.Ticker.FrameDuration()
	took := float64(time.Since(began).Microseconds()) / 1000.0
	if budget > 0 && took > budget {
		// first slow frame, then every 60th
		if p.slowFrames%60 == 0 {
			p.diagnostics.Publish(diag.SlowFrame(took, budget))
		}
		p.slowFrames++
	}
}

// SavePNG writes the next rendered frame to SnapshotDir, rendering one
// immediately when paused.
func (p *Sketchpad) SavePNG() error {
	if p.sketch == nil {
		return ErrNoSketch
	}
	p.savePNGRequested = true
	if !p.Ticker.Playing() {
		p.Ticker.Tick(0)
	}
	return nil
}

func (p *Sketchpad) writePNG() (string, error) {
	name := slug(p.sketch.Name()) + "-" + time.Now().Format("20060102-150405") + ".png"
	path := filepath.Join(p.snapshotDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, p.Frame.Image()); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	p.lastSnapshot = path
	log.Info().Str("path", path).Msg("snapshot saved")
	return path, nil
}

// LastSnapshot is the path of the most recent PNG.
func (p *Sketchpad) LastSnapshot() string { return p.lastSnapshot }

// Title is "<name> - <author>", the sketch name, or "Sketchpad" when empty.
func (p *Sketchpad) Title() string {
	if p.title != "" {
		return p.title
	}
	if p.sketch == nil {
		return "Sketchpad"
	}
	name := p.sketch.Name()
	if name == "" {
		name = "Untitled Sketch"
	}
	if a, ok := p.sketch.(Authored); ok && a.Author() != "" {
		return name + " - " + a.Author()
	}
	return name
}

func (p *Sketchpad) Sketch() Sketch { return p.sketch }

func (p *Sketchpad) Window() input.Source { return p.window }

func (p *Sketchpad) PixelRatio() float64 { return p.pixelRatio }

// Publish forwards a diagnostic to the configured publisher.
func (p *Sketchpad) Publish(d diag.Diagnostic) { p.diagnostics.Publish(d) }

// Status summarises the pad for health endpoints.
func (p *Sketchpad) Status() map[string]any {
	return map[string]any{
		"title":   p.Title(),
		"fps":     p.Ticker.FPS(),
		"playing": p.Ticker.Playing(),
		"time_ms": p.Ticker.Time(),
		"frames":  p.frames,
		"canvas":  map[string]int{"width": p.Frame.Width, "height": p.Frame.Height},
		"scale":   p.scale,
		"effects": p.Effects.Names(),
	}
}

// Dispose stops the ticker, disposes the sketch and closes the sinks.
// Safe to call twice.
func (p *Sketchpad) Dispose() error {
	if p.disposed {
		return nil
	}
	p.disposed = true
	if p.window != nil {
		p.window.RemoveEventListener(input.Resize, p.resizeID)
	}
	p.Ticker.Stop()
	p.Ticker.Remove(p)
	if p.sketch != nil {
		p.sketch.Dispose()
		p.sketch = nil
	}
	return p.sinks.Close()
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, s)
	if s == "" {
		return "sketch"
	}
	return s
}
