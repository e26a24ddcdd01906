// Package ticker calls a set of handlers on every display frame, or at a
// capped rate with drift-compensated frame accumulation.
package ticker

import "math"

// Driver is the host environment: a way to be called near the next display
// refresh and a monotonic clock in milliseconds.
type Driver interface {
	RequestFrame(cb func())
	Now() float64
}

// Handler receives the frame delta and the accumulated ticker time, both in
// milliseconds. Handlers are compared by identity, so implement it on a
// pointer type (or wrap a func with Func).
type Handler interface {
	Tick(delta, time float64)
}

type funcHandler struct {
	fn func(delta, time float64)
}

func (f *funcHandler) Tick(delta, time float64) { f.fn(delta, time) }

// Func wraps fn in a Handler. Each call returns a distinct handler; keep it
// to Remove it later.
func Func(fn func(delta, time float64)) Handler { return &funcHandler{fn: fn} }

const DefaultMaxDelta = 1000

// Ticker is driven from a single goroutine: the one its Driver runs frame
// callbacks on. Handler panics are not recovered.
type Ticker struct {
	// MaxDelta caps a single frame sample, so a stalled or backgrounded
	// host does not produce one huge jump.
	MaxDelta float64

	driver   Driver
	handlers []Handler

	fps           int
	frameDuration float64
	time          float64
	playing       bool

	last          float64
	frameProgress float64
	// gen retires frame callbacks requested by an earlier Start.
	gen uint64
}

// New returns a paused ticker. fps 0 means one tick per frame.
func New(driver Driver, fps int, handlers ...Handler) *Ticker {
	t := &Ticker{
		MaxDelta: DefaultMaxDelta,
		driver:   driver,
	}
	t.SetFPS(fps)
	for _, h := range handlers {
		t.Add(h)
	}
	return t
}

/*---------------------------------------------------------------------------/
	Handler management
/---------------------------------------------------------------------------*/

// Add appends h unless it is already registered.
func (t *Ticker) Add(h Handler) {
	if h == nil || t.Has(h) {
		return
	}
	t.handlers = append(t.handlers, h)
}

// Remove drops h if registered.
func (t *Ticker) Remove(h Handler) {
	for i, x := range t.handlers {
		if x == h {
			t.handlers = append(t.handlers[:i:i], t.handlers[i+1:]...)
			return
		}
	}
}

func (t *Ticker) Has(h Handler) bool {
	for _, x := range t.handlers {
		if x == h {
			return true
		}
	}
	return false
}

// Len returns the number of registered handlers.
func (t *Ticker) Len() int { return len(t.handlers) }

/*---------------------------------------------------------------------------/
	Ticks
/---------------------------------------------------------------------------*/

func (t *Ticker) request() {
	gen := t.gen
	t.driver.RequestFrame(func() { t.onFrame(gen) })
}

func (t *Ticker) onFrame(gen uint64) {
	if !t.playing || gen != t.gen {
		return
	}
	t.request()

	now := t.driver.Now()
	delta := math.Min(now-t.last, t.MaxDelta)
	t.last = now
	t.time += delta

	if t.fps == 0 {
		t.Tick(delta)
		return
	}

	// capped: carry the overshoot into the next frame
	t.frameProgress += delta
	remaining := t.frameDuration - t.frameProgress
	if remaining <= 0 {
		t.frameProgress = math.Mod(math.Abs(remaining), t.frameDuration)
		t.Tick(t.frameDuration)
	}
}

// Tick calls every handler once with delta and the current time, in
// insertion order. Handlers added or removed during a tick take effect on
// the next one.
func (t *Ticker) Tick(delta float64) {
	for _, h := range append([]Handler(nil), t.handlers...) {
		h.Tick(delta, t.time)
	}
}

/*---------------------------------------------------------------------------/
	Playback control
/---------------------------------------------------------------------------*/

// Reset sets the accumulated time back to 0 without touching play state.
func (t *Ticker) Reset() { t.time = 0 }

// Start begins requesting frames. It is a no-op while playing.
func (t *Ticker) Start() {
	if t.playing {
		return
	}
	t.gen++
	t.last = t.driver.Now()
	t.frameProgress = 0
	t.playing = true
	t.request()
}

// Pause stops scheduling; a frame already in flight completes.
func (t *Ticker) Pause() { t.playing = false }

func (t *Ticker) Toggle() {
	if t.playing {
		t.Pause()
	} else {
		t.Start()
	}
}

// Stop pauses and resets time.
func (t *Ticker) Stop() {
	t.Pause()
	t.Reset()
}

func (t *Ticker) Playing() bool { return t.playing }

func (t *Ticker) FPS() int { return t.fps }

// SetFPS sets the rate cap; fps <= 0 removes it.
func (t *Ticker) SetFPS(fps int) {
	if fps < 0 {
		fps = 0
	}
	t.fps = fps
	t.frameDuration = 0
	if fps > 0 {
		t.frameDuration = math.Round(1000 / float64(fps))
	}
}

// FrameDuration is the nominal delta handed to handlers when capped.
func (t *Ticker) FrameDuration() float64 { return t.frameDuration }

func (t *Ticker) Time() float64        { return t.time }
func (t *Ticker) SetTime(time float64) { t.time = time }

// Progress is the real time accumulated toward the next capped tick.
func (t *Ticker) Progress() float64 { return t.frameProgress }
