// Package swiper drives a presentation from keyboard, wheel and swipe input
// and tracks the direction of each transition.
package swiper

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-sketchpad/internal/input"
	"github.com/coreman2200/funtimes-sketchpad/internal/presentation"
)

// ErrInvalidConfiguration aliases the presentation error so callers can
// test a single sentinel.
var ErrInvalidConfiguration = presentation.ErrInvalidConfiguration

// Options configure a Swiper. Start from DefaultOptions.
type Options struct {
	Loop         bool
	StartAt      int
	InitCallback bool
	Debug        bool
	OnBegin      func()
	OnChange     func()
	OnComplete   func()

	Enabled    bool
	Horizontal bool

	// Window receives keyboard listeners.
	Window input.Source
	// Dispatcher receives wheel and swipe listeners; nil means Window.
	Dispatcher input.Source
	// Arrows is optional.
	Arrows Arrows

	Keyboard bool
	Wheel    bool
	Swipe    bool

	WheelThrottle    time.Duration
	CancelSwipeDelay time.Duration
	// MinSwipeMovement is the fraction of the viewport a swipe must cover.
	MinSwipeMovement float64
}

func DefaultOptions() Options {
	return Options{
		Enabled:          true,
		Horizontal:       true,
		Keyboard:         true,
		Wheel:            true,
		Swipe:            true,
		WheelThrottle:    250 * time.Millisecond,
		CancelSwipeDelay: time.Second,
		MinSwipeMovement: 0.0618,
	}
}

type point struct{ x, y float64 }

// Swiper is not safe for concurrent use; feed it events from one goroutine.
type Swiper[T comparable] struct {
	p *presentation.Presentation[T]

	backwards  bool
	enabled    bool
	horizontal bool

	window     input.Source
	dispatcher input.Source
	arrows     Arrows

	wheelThrottle    time.Duration
	cancelSwipeDelay time.Duration
	minSwipeMovement float64

	// wheel throttle
	wheeled   bool
	lastWheel time.Duration

	// swipe gesture
	swiping    bool
	swipeStart point
	swipeAt    time.Duration

	listeners []binding
}

type binding struct {
	src input.Source
	typ input.Type
	id  input.ListenerID
}

func New[T comparable](items []T, opts Options) (*Swiper[T], error) {
	p, err := presentation.New(items, presentation.Options{
		Loop:         opts.Loop,
		StartAt:      opts.StartAt,
		InitCallback: opts.InitCallback,
		Debug:        opts.Debug,
		OnBegin:      opts.OnBegin,
		OnChange:     opts.OnChange,
		OnComplete:   opts.OnComplete,
	})
	if err != nil {
		return nil, err
	}

	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = opts.Window
	}
	if opts.Keyboard && opts.Window == nil {
		return nil, fmt.Errorf("%w: keyboard input needs a window source", ErrInvalidConfiguration)
	}
	if (opts.Wheel || opts.Swipe) && dispatcher == nil {
		return nil, fmt.Errorf("%w: wheel and swipe input need a dispatcher", ErrInvalidConfiguration)
	}

	minSwipe := opts.MinSwipeMovement
	if minSwipe <= 0 {
		minSwipe = DefaultOptions().MinSwipeMovement
	}

	s := &Swiper[T]{
		p:                p,
		enabled:          opts.Enabled,
		horizontal:       opts.Horizontal,
		window:           opts.Window,
		dispatcher:       dispatcher,
		arrows:           opts.Arrows,
		wheelThrottle:    opts.WheelThrottle,
		cancelSwipeDelay: opts.CancelSwipeDelay,
		minSwipeMovement: minSwipe,
	}

	if s.arrows != nil {
		s.arrows.SetHorizontal(s.horizontal)
		s.refreshArrows()
	}

	if opts.Keyboard {
		s.listen(s.window, input.KeyDown, s.onKeyDown)
		s.listen(s.window, input.KeyUp, s.onKeyUp)
	}
	if opts.Wheel {
		s.listen(s.dispatcher, input.Wheel, s.onWheel)
	}
	if opts.Swipe {
		s.listen(s.dispatcher, input.MouseDown, s.onPress)
		s.listen(s.dispatcher, input.MouseUp, s.onRelease)
		s.listen(s.dispatcher, input.TouchStart, s.onPress)
		s.listen(s.dispatcher, input.TouchEnd, s.onRelease)
	}
	if s.arrows != nil {
		s.arrows.Bind(s.gated(s.Back), s.gated(s.Forward))
	}
	return s, nil
}

func (s *Swiper[T]) listen(src input.Source, t input.Type, l input.Listener) {
	id := src.AddEventListener(t, l)
	s.listeners = append(s.listeners, binding{src: src, typ: t, id: id})
}

// Goto records the transition direction, commits index and refreshes the
// arrows. A forward wrap (last -> 0) is not backwards; a backward wrap
// (0 -> last) is.
func (s *Swiper[T]) Goto(index int, trigger bool) error {
	if index == s.p.Index() {
		return nil
	}
	if index < 0 || index >= s.p.Len() {
		return s.p.Goto(index, trigger)
	}
	decreasing := index < s.p.Index()
	if s.p.Loop() {
		loopingForward := s.p.IsEnding() && index == 0
		loopingBackwards := s.p.IsStarting() && index == s.p.LastIndex()
		s.backwards = (decreasing && !loopingForward) || loopingBackwards
	} else {
		s.backwards = decreasing
	}

	if err := s.p.Goto(index, trigger); err != nil {
		return err
	}
	s.refreshArrows()
	return nil
}

func (s *Swiper[T]) SetIndex(index int) error { return s.Goto(index, true) }

func (s *Swiper[T]) Forward() {
	if i, ok := s.p.NextIndex(); ok {
		_ = s.Goto(i, true)
	}
}

func (s *Swiper[T]) Back() {
	if i, ok := s.p.PrevIndex(); ok {
		_ = s.Goto(i, true)
	}
}

// SetItem moves to the first occurrence of item; absent items are ignored.
func (s *Swiper[T]) SetItem(item T) bool {
	i := s.p.IndexOf(item)
	if i < 0 {
		return false
	}
	_ = s.Goto(i, true)
	return true
}

func (s *Swiper[T]) refreshArrows() {
	if s.arrows == nil {
		return
	}
	s.arrows.Disable(s.p.IsStarting() && !s.p.Loop(), s.p.IsEnding() && !s.p.Loop())
}

/*---------------------------------------------------------------------------/
	Events
/---------------------------------------------------------------------------*/

// gated wraps fn so it does nothing while the swiper is disabled.
func (s *Swiper[T]) gated(fn func()) func() {
	return func() {
		if s.enabled {
			fn()
		}
	}
}

func matchKey(key string, keys []string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func (s *Swiper[T]) onKeyDown(ev *input.Event) {
	if !s.enabled {
		return
	}
	if matchKey(ev.Key, s.ActiveKeys()) {
		ev.PreventDefault()
	}
}

func (s *Swiper[T]) onKeyUp(ev *input.Event) {
	if !s.enabled || !matchKey(ev.Key, s.ActiveKeys()) {
		return
	}
	ev.PreventDefault()
	if matchKey(ev.Key, s.BackKeys()) {
		s.Back()
		return
	}
	s.Forward()
}

func (s *Swiper[T]) onWheel(ev *input.Event) {
	if !s.enabled {
		return
	}
	if s.wheeled && ev.Time-s.lastWheel < s.wheelThrottle {
		return
	}
	s.wheeled = true
	s.lastWheel = ev.Time

	backwards := ev.DeltaY < 0
	if ev.DeltaX != 0 {
		backwards = ev.DeltaX < 0
	}
	if backwards {
		s.Back()
	} else {
		s.Forward()
	}
}

func (s *Swiper[T]) onPress(ev *input.Event) {
	if !s.enabled || ev.Button > 0 {
		return
	}
	x, y := ev.Primary()
	s.swipeStart = point{x, y}
	s.swipeAt = ev.Time
	s.swiping = true
}

func (s *Swiper[T]) onRelease(ev *input.Event) {
	if !s.swiping {
		return
	}
	s.swiping = false
	if !s.enabled {
		return
	}
	if ev.Time-s.swipeAt > s.cancelSwipeDelay {
		log.Debug().Dur("elapsed", ev.Time-s.swipeAt).Msg("swipe cancelled")
		return
	}

	w, h := s.dispatcher.Size()
	x, y := ev.Primary()
	var movement float64
	if s.horizontal {
		movement = ratio(x-s.swipeStart.x, w)
	} else {
		movement = ratio(y-s.swipeStart.y, h)
	}
	if math.Abs(movement) < s.minSwipeMovement {
		return
	}
	if movement > 0 {
		s.Back()
	} else {
		s.Forward()
	}
}

func ratio(d float64, size int) float64 {
	if size <= 0 {
		return 0
	}
	return d / float64(size)
}

// Dispose removes every listener and disposes the arrows. Safe to call
// more than once.
func (s *Swiper[T]) Dispose() {
	for _, b := range s.listeners {
		b.src.RemoveEventListener(b.typ, b.id)
	}
	s.listeners = nil
	s.swiping = false
	if s.arrows != nil {
		s.arrows.Dispose()
		s.arrows = nil
	}
}

/*---------------------------------------------------------------------------/
	Getters & Setters
/---------------------------------------------------------------------------*/

func (s *Swiper[T]) Backwards() bool             { return s.backwards }
func (s *Swiper[T]) SetBackwards(backwards bool) { s.backwards = backwards }
func (s *Swiper[T]) Enabled() bool               { return s.enabled }
func (s *Swiper[T]) SetEnabled(enabled bool)     { s.enabled = enabled }
func (s *Swiper[T]) Horizontal() bool            { return s.horizontal }

func (s *Swiper[T]) SetHorizontal(horizontal bool) {
	s.horizontal = horizontal
	if s.arrows != nil {
		s.arrows.SetHorizontal(horizontal)
	}
}

func (s *Swiper[T]) SetLoop(loop bool) {
	s.p.SetLoop(loop)
	s.refreshArrows()
}

func (s *Swiper[T]) BackKeys() []string {
	if s.horizontal {
		return []string{"ArrowLeft"}
	}
	return []string{"ArrowUp"}
}

func (s *Swiper[T]) ForwardKeys() []string {
	if s.horizontal {
		return []string{"ArrowRight"}
	}
	return []string{"ArrowDown"}
}

func (s *Swiper[T]) ActiveKeys() []string {
	return append(s.BackKeys(), s.ForwardKeys()...)
}

/*---------------------------------------------------------------------------/
	Read-only
/---------------------------------------------------------------------------*/

func (s *Swiper[T]) Index() int                { return s.p.Index() }
func (s *Swiper[T]) Item() T                   { return s.p.Item() }
func (s *Swiper[T]) Items() []T                { return s.p.Items() }
func (s *Swiper[T]) Len() int                  { return s.p.Len() }
func (s *Swiper[T]) LastIndex() int            { return s.p.LastIndex() }
func (s *Swiper[T]) IsStarting() bool          { return s.p.IsStarting() }
func (s *Swiper[T]) IsEnding() bool            { return s.p.IsEnding() }
func (s *Swiper[T]) Loop() bool                { return s.p.Loop() }
func (s *Swiper[T]) Phase() presentation.Phase { return s.p.Phase() }

func (s *Swiper[T]) OnBegin(fn func()) func()    { return s.p.OnBegin(fn) }
func (s *Swiper[T]) OnChange(fn func()) func()   { return s.p.OnChange(fn) }
func (s *Swiper[T]) OnComplete(fn func()) func() { return s.p.OnComplete(fn) }
