// Package demo is the stock sketch: a swipeable gallery of backgrounds with
// keyboard shortcuts, pointer-driven motion and persisted settings.
package demo

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-sketchpad/internal/background"
	"github.com/coreman2200/funtimes-sketchpad/internal/config"
	diag "github.com/coreman2200/funtimes-sketchpad/internal/diagnostics"
	"github.com/coreman2200/funtimes-sketchpad/internal/input"
	"github.com/coreman2200/funtimes-sketchpad/internal/pointer"
	"github.com/coreman2200/funtimes-sketchpad/internal/random"
	"github.com/coreman2200/funtimes-sketchpad/internal/render"
	"github.com/coreman2200/funtimes-sketchpad/internal/resizer"
	"github.com/coreman2200/funtimes-sketchpad/internal/sequence"
	"github.com/coreman2200/funtimes-sketchpad/internal/settings"
	"github.com/coreman2200/funtimes-sketchpad/internal/shortcuts"
	"github.com/coreman2200/funtimes-sketchpad/internal/sketch"
	"github.com/coreman2200/funtimes-sketchpad/internal/swiper"
)

var (
	ErrNoBackgrounds     = errors.New("demo: no backgrounds configured")
	ErrUnknownTransition = errors.New("demo: unknown transition mode")
)

const (
	minSpeed      = 0.25 // with the pointer at the far left
	powerEvery    = 1000 // ms of ticker time between power estimates
	chanMilliAmps = 20
	exposureStep  = 0.5
	blurStrength  = 0.15
)

// Values are the persisted gallery settings.
type Values struct {
	Background int     `json:"background"`
	Pointer    bool    `json:"pointer"`
	FPS        int     `json:"fps"`
	Exposure   float64 `json:"exposure_ev"`
	Blur       float64 `json:"radial_blur"`
	Bloom      float64 `json:"bloom"`
	Autoplay   bool    `json:"autoplay"`
	Preset     string  `json:"preset,omitempty"`
	Zoom       float64 `json:"zoom,omitempty"`
}

type Options struct {
	Config *config.Config
	// Registry builds the configured backgrounds; nil uses background.Default.
	Registry *background.Registry
	// Store persists Values; nil keeps them in memory only.
	Store settings.Store
	// Dispatcher receives pointer, wheel, swipe and click input; nil uses
	// the pad's window.
	Dispatcher input.Source
}

// Gallery renders one background at a time and wipes between them.
type Gallery struct {
	sketch.Base

	Swiper     *swiper.Swiper[int]
	Arrows     *swiper.NavigationArrows
	Shortcuts  *shortcuts.Shortcuts
	Pointer    *pointer.Tracker
	Resizer    *resizer.Resizer
	Settings   *settings.Settings[Values]
	Autoplay   *sequence.Autoplay
	Transition *sequence.Transition
	// Intro is added to the exposure during the first seconds.
	Intro sequence.Envelope

	cfg         *config.Config
	registry    *background.Registry
	store       settings.Store
	dispatcher  input.Source
	backgrounds []background.Background

	prev, current int
	from, to      *render.Frame
	clock         float64
	sincePower    float64

	bloom   *render.Bloom
	tone    *render.ToneMap
	blur    *render.RadialBlur
	limiter *render.Limiter
}

func New(opts Options) *Gallery {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = background.Default()
	}
	store := opts.Store
	if store == nil {
		store = settings.NewMemoryStore()
	}
	return &Gallery{
		Base:       sketch.Base{Title: cfg.Name, By: cfg.Author},
		cfg:        cfg,
		registry:   reg,
		store:      store,
		dispatcher: opts.Dispatcher,
		Intro: sequence.Envelope{Keys: []sequence.Keyframe{
			{T: 0, V: -4, Ease: "smooth"},
			{T: 1.5, V: 0},
		}},
		from: render.NewFrame(0, 0),
		to:   render.NewFrame(0, 0),
	}
}

func (g *Gallery) Init(pad *sketch.Sketchpad) error {
	if err := g.Base.Init(pad); err != nil {
		return err
	}
	if len(g.cfg.Backgrounds) == 0 {
		return ErrNoBackgrounds
	}
	switch g.cfg.Swiper.Mode {
	case "", "wipe", "fade":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransition, g.cfg.Swiper.Mode)
	}
	g.backgrounds = g.backgrounds[:0]
	indices := make([]int, 0, len(g.cfg.Backgrounds))
	for i, spec := range g.cfg.Backgrounds {
		bg, err := g.registry.New(spec)
		if err != nil {
			return fmt.Errorf("demo: background %d: %w", i, err)
		}
		g.backgrounds = append(g.backgrounds, bg)
		indices = append(indices, i)
	}

	var err error
	g.Settings, err = settings.New(g.defaults(), settings.Options{
		Key:      g.cfg.Settings.Key,
		Store:    g.store,
		AutoLoad: g.cfg.Settings.AutoLoad,
		AutoSave: g.cfg.Settings.AutoSave,
	})
	if err != nil {
		return err
	}
	v := &g.Settings.Value

	window := pad.Window()
	dispatcher := g.dispatcher
	if dispatcher == nil {
		dispatcher = window
	}

	g.Arrows = swiper.NewNavigationArrows(dispatcher, "gallery")
	so := swiper.DefaultOptions()
	so.Loop = g.cfg.Swiper.Loop
	so.Horizontal = !g.cfg.Swiper.Vertical
	so.StartAt = g.clampIndex(v.Background)
	so.Window = window
	so.Dispatcher = dispatcher
	so.Arrows = g.Arrows
	so.OnChange = g.onChange
	so.Keyboard = window != nil
	so.Wheel = dispatcher != nil
	so.Swipe = dispatcher != nil
	g.Swiper, err = swiper.New(indices, so)
	if err != nil {
		return err
	}
	g.current = g.Swiper.Index()
	g.prev = g.current

	g.Transition = sequence.NewTransition(float64(g.cfg.Swiper.TransitionMs), g.cfg.Swiper.Ease)
	if g.cfg.Swiper.AutoplayMs > 0 {
		g.Autoplay, err = sequence.NewAutoplay(float64(g.cfg.Swiper.AutoplayMs), sequence.Hooks{
			Advance: g.Swiper.Forward,
			StateChanged: func(s sequence.State) {
				log.Debug().Str("state", string(s)).Msg("autoplay")
			},
		})
		if err != nil {
			return err
		}
	}

	g.Pointer = pointer.New(pointer.Options{
		Dispatcher: dispatcher,
		Margin:     pointer.Uniform(0.05),
		Disabled:   !v.Pointer,
	})

	ro := resizer.DefaultOptions()
	ro.Window = window
	ro.OnResize = g.onResize
	g.Resizer, err = resizer.New(pad, ro)
	if err != nil {
		return err
	}

	bc := g.cfg.Bloom
	g.bloom = &render.Bloom{
		Strength:  v.Bloom,
		Threshold: bc.Threshold,
		Radius:    bc.Radius,
		Dither:    bc.Dither,
		Rand:      random.New(g.cfg.Seed),
	}
	pad.Effects.Add("bloom", g.bloom)
	g.tone = &render.ToneMap{ExposureEV: v.Exposure}
	g.blur = &render.RadialBlur{CenterX: 0.5, CenterY: 0.5, Strength: v.Blur}
	pad.Effects.Add("tone", g.tone)
	pad.Effects.Add("radialBlur", g.blur)
	if p := g.cfg.Output.Power; p.LimitAmps > 0 || (p.WhiteCap > 0 && p.WhiteCap < 3) {
		g.limiter = &render.Limiter{
			WhiteCap:        p.WhiteCap,
			ChanMilliAmps:   chanMilliAmps,
			BudgetMilliAmps: p.LimitAmps * 1000,
		}
		pad.Effects.Add("limiter", g.limiter)
	}

	g.Shortcuts = shortcuts.New(window, shortcuts.Options{Bindings: g.bindings()})

	g.apply()
	return nil
}

func (g *Gallery) defaults() Values {
	preset := g.cfg.Preset
	if preset == "" {
		preset = resizer.DefaultPresets[0].Name
	}
	return Values{
		Background: min(1, len(g.backgrounds)-1),
		Pointer:    true,
		FPS:        g.cfg.FPS,
		Exposure:   g.cfg.Exposure,
		Bloom:      g.cfg.Bloom.Strength,
		Autoplay:   g.cfg.Swiper.AutoplayMs > 0,
		Preset:     preset,
		Zoom:       g.cfg.Zoom,
	}
}

func (g *Gallery) bindings() map[string]shortcuts.Action {
	toggle := func(*input.Event) { g.Pad.Ticker.Toggle() }
	snapshot := func(*input.Event) {
		if err := g.Pad.SavePNG(); err != nil {
			log.Warn().Err(err).Msg("snapshot")
		}
	}
	return map[string]shortcuts.Action{
		"Space":     toggle,
		"Shift + P": toggle,
		"S":         snapshot,
		"Shift + S": snapshot,
		"Shift + O": func(*input.Event) { g.TogglePointer() },
		"A":         func(*input.Event) { g.ToggleAutoplay() },
		"B":         func(*input.Event) { g.ToggleBlur() },
		"G":         func(*input.Event) { g.ToggleBloom() },
		"]":         func(*input.Event) { g.SetExposure(g.Settings.Value.Exposure + exposureStep) },
		"[":         func(*input.Event) { g.SetExposure(g.Settings.Value.Exposure - exposureStep) },
		"R":         func(*input.Event) { g.Reset() },
		"Ctrl + S":  func(*input.Event) { g.Save() },
	}
}

// apply pushes the current settings into the components.
func (g *Gallery) apply() {
	v := g.Settings.Value
	_ = g.Swiper.Goto(g.clampIndex(v.Background), true)
	g.Pointer.Enabled = v.Pointer
	if v.FPS > 0 {
		g.Pad.Ticker.SetFPS(v.FPS)
	}
	g.tone.ExposureEV = v.Exposure
	g.blur.Strength = v.Blur
	g.bloom.Strength = v.Bloom
	if g.Autoplay != nil {
		if v.Autoplay {
			g.Autoplay.Start()
		} else {
			g.Autoplay.Stop()
		}
	}
	if v.Preset != "" && !g.Resizer.SetPreset(v.Preset) {
		log.Warn().Str("preset", v.Preset).Msg("unknown preset")
	}
	if v.Zoom > 0 {
		g.Resizer.SetZoom(v.Zoom)
	}
}

func (g *Gallery) clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if last := len(g.backgrounds) - 1; i > last {
		return last
	}
	return i
}

/*---------------------------------------------------------------------------/
	Callbacks
/---------------------------------------------------------------------------*/

func (g *Gallery) onChange() {
	g.prev, g.current = g.current, g.Swiper.Index()
	g.Transition.Begin(g.Swiper.Backwards())
	g.Settings.Value.Background = g.current
	if g.Autoplay != nil {
		g.Autoplay.Restart()
	}
	log.Debug().
		Str("background", g.backgrounds[g.current].Name()).
		Bool("backwards", g.Swiper.Backwards()).
		Msg("background changed")
}

func (g *Gallery) onResize() {
	g.Pad.Width, g.Pad.Height = g.Resizer.Width(), g.Resizer.Height()
}

/*---------------------------------------------------------------------------/
	Controls
/---------------------------------------------------------------------------*/

// Save stores the current settings, including the resizer preset and zoom.
func (g *Gallery) Save() {
	g.Settings.Value.Preset = g.Resizer.Preset()
	g.Settings.Value.Zoom = g.Resizer.Zoom()
	if err := g.Settings.Save(); err != nil {
		log.Warn().Err(err).Msg("settings save")
	}
}

// Reset restores the default settings and re-applies them.
func (g *Gallery) Reset() {
	if err := g.Settings.Reset(); err != nil {
		log.Warn().Err(err).Msg("settings reset")
	}
	g.apply()
	g.Pad.Resize(g.Pad.Width, g.Pad.Height)
}

func (g *Gallery) TogglePointer() {
	g.Pointer.Enabled = !g.Pointer.Enabled
	g.Settings.Value.Pointer = g.Pointer.Enabled
}

// ToggleAutoplay starts or stops autoplay; a no-op without an interval.
func (g *Gallery) ToggleAutoplay() {
	if g.Autoplay == nil {
		return
	}
	g.Autoplay.Toggle()
	g.Settings.Value.Autoplay = g.Autoplay.State == sequence.Running
}

func (g *Gallery) ToggleBlur() {
	if g.blur.Strength > 0 {
		g.blur.Strength = 0
	} else {
		g.blur.Strength = blurStrength
	}
	g.Settings.Value.Blur = g.blur.Strength
}

// ToggleBloom switches bloom off, or back on at the configured strength.
func (g *Gallery) ToggleBloom() {
	if g.bloom.Strength > 0 {
		g.bloom.Strength = 0
	} else {
		g.bloom.Strength = g.cfg.Bloom.Strength
	}
	g.Settings.Value.Bloom = g.bloom.Strength
}

func (g *Gallery) SetExposure(ev float64) {
	g.Settings.Value.Exposure = ev
	g.tone.ExposureEV = ev
}

// Speed scales the animation clock from the pointer's horizontal position.
func (g *Gallery) Speed() float64 {
	if !g.Pointer.Enabled {
		return 1
	}
	return math.Max(minSpeed, 1+g.Pointer.XSign())
}

// Background is the name of the current background.
func (g *Gallery) Background() string { return g.backgrounds[g.current].Name() }

/*---------------------------------------------------------------------------/
	Sketch
/---------------------------------------------------------------------------*/

func (g *Gallery) Tick(delta, t float64) {
	g.clock += delta * g.Speed()
	g.sincePower += delta
	g.Transition.Tick(delta)
	if g.Autoplay != nil {
		g.Autoplay.Tick(delta)
	}
	g.tone.ExposureEV = g.Settings.Value.Exposure + g.Intro.Eval(t/1000)
	if g.Pointer.Enabled {
		g.blur.CenterX, g.blur.CenterY = g.Pointer.X, g.Pointer.Y
	}
}

func (g *Gallery) Render(dst *render.Frame) {
	t := g.clock / 1000
	next := g.backgrounds[g.current]
	if g.Transition.Active() && g.prev != g.current {
		g.fit(dst)
		g.backgrounds[g.prev].Render(g.from, t)
		next.Render(g.to, t)
		if g.cfg.Swiper.Mode == "fade" {
			render.Mix(dst, g.from, g.to, g.Transition.Alpha())
		} else {
			render.Wipe(dst, g.from, g.to, g.Transition.Alpha(), g.Transition.Backwards())
		}
	} else {
		next.Render(dst, t)
	}

	if g.limiter != nil && g.limiter.BudgetMilliAmps > 0 && g.sincePower >= powerEvery {
		g.sincePower = 0
		g.Pad.Publish(g.estimatePower(dst))
	}
}

func (g *Gallery) fit(dst *render.Frame) {
	if g.from.Width != dst.Width || g.from.Height != dst.Height {
		g.from.Resize(dst.Width, dst.Height)
		g.to.Resize(dst.Width, dst.Height)
	}
}

// estimatePower scales the canvas average up to the LED count of the
// output matrix.
func (g *Gallery) estimatePower(f *render.Frame) diag.Diagnostic {
	est := 0.0
	if n := f.Len(); n > 0 {
		leds := g.cfg.Output.Matrix.Count()
		est = render.EstimateMilliAmps(f.Pix, chanMilliAmps) * float64(leds) / float64(n)
	}
	return diag.PowerBudget(est, g.limiter.BudgetMilliAmps)
}

// State summarises the gallery for the preview health endpoint.
func (g *Gallery) State() map[string]any {
	st := map[string]any{
		"background": g.Background(),
		"index":      g.current,
		"arrows":     g.Arrows.State(),
		"pointer":    map[string]any{"enabled": g.Pointer.Enabled, "x": g.Pointer.X, "y": g.Pointer.Y},
		"preset":     g.Resizer.Preset(),
		"zoom":       g.Resizer.Zoom(),
		"exposure":   g.Settings.Value.Exposure,
	}
	if g.Autoplay != nil {
		st["autoplay"] = string(g.Autoplay.State)
	}
	return st
}

func (g *Gallery) Dispose() {
	if g.Pad == nil {
		return
	}
	if g.Settings.AutoSave {
		g.Save()
	}
	g.Swiper.Dispose()
	g.Shortcuts.Dispose()
	g.Pointer.Dispose()
	g.Resizer.Dispose()
	for _, name := range []string{"bloom", "tone", "radialBlur", "limiter"} {
		g.Pad.Effects.Remove(name)
	}
	if g.Autoplay != nil {
		g.Autoplay.Stop()
	}
	g.Base.Dispose()
}
