package ticker

import (
	"context"
	"sync"
	"time"
)

// Loop is a Driver backed by a time.Ticker. Frame callbacks and posted
// tasks all run on the goroutine calling Run, which plays the part of a UI
// thread: state touched from callbacks needs no locking.
type Loop struct {
	interval time.Duration
	start    time.Time

	mu     sync.Mutex
	frames []func()
	tasks  []func()
}

// NewLoop returns a driver refreshing hz times per second (60 if hz <= 0).
func NewLoop(hz int) *Loop {
	if hz <= 0 {
		hz = 60
	}
	return &Loop{
		interval: time.Second / time.Duration(hz),
		start:    time.Now(),
	}
}

func (l *Loop) RequestFrame(cb func()) {
	l.mu.Lock()
	l.frames = append(l.frames, cb)
	l.mu.Unlock()
}

// Now returns milliseconds since the loop was created.
func (l *Loop) Now() float64 {
	return float64(time.Since(l.start).Microseconds()) / 1000.0
}

// Post queues task to run on the loop goroutine before the next frame. It
// is safe to call from any goroutine.
func (l *Loop) Post(task func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
}

// Run services posted tasks and frame requests until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	tick := time.NewTicker(l.interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			l.step()
		}
	}
}

func (l *Loop) step() {
	l.mu.Lock()
	tasks := l.tasks
	frames := l.frames
	l.tasks = nil
	l.frames = nil
	l.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	for _, cb := range frames {
		cb()
	}
}

// Manual is a Driver whose clock only moves when told to. Used by tests
// and the headless simulator.
type Manual struct {
	now     float64
	pending []func()
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) RequestFrame(cb func()) { m.pending = append(m.pending, cb) }

func (m *Manual) Now() float64 { return m.now }

// Advance moves the clock by ms and runs the frames requested so far.
// Frames requested while running wait for the next Advance.
func (m *Manual) Advance(ms float64) {
	m.now += ms
	pending := m.pending
	m.pending = nil
	for _, cb := range pending {
		cb()
	}
}

// Pending returns the number of queued frame callbacks.
func (m *Manual) Pending() int { return len(m.pending) }
