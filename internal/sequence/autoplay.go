// Package sequence schedules time-based behaviour on top of ticker deltas:
// autoplay, slide transitions and keyframed envelopes.
package sequence

import "errors"

// State enumerates autoplay states.
type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
)

var ErrNoInterval = errors.New("sequence: interval must be positive")

// Hooks are callbacks into the owner; all are optional.
type Hooks struct {
	// Advance moves the target forward one step.
	Advance func()
	// StateChanged reports every state transition.
	StateChanged func(State)
}

// Autoplay calls Hooks.Advance every Interval milliseconds of ticked time
// while Running.
type Autoplay struct {
	State State

	interval float64
	elapsed  float64
	hooks    Hooks
}

func NewAutoplay(intervalMs float64, h Hooks) (*Autoplay, error) {
	if intervalMs <= 0 {
		return nil, ErrNoInterval
	}
	return &Autoplay{State: Idle, interval: intervalMs, hooks: h}, nil
}

// Start moves to Running from any state, keeping elapsed time when paused.
func (a *Autoplay) Start() {
	if a.State == Running {
		return
	}
	if a.State == Idle {
		a.elapsed = 0
	}
	a.set(Running)
}

// Pause pauses playback.
func (a *Autoplay) Pause() {
	if a.State == Running {
		a.set(Paused)
	}
}

// Resume resumes playback.
func (a *Autoplay) Resume() {
	if a.State == Paused {
		a.set(Running)
	}
}

// Stop stops and resets to start.
func (a *Autoplay) Stop() {
	a.elapsed = 0
	if a.State != Idle {
		a.set(Idle)
	}
}

func (a *Autoplay) Toggle() {
	if a.State == Running {
		a.Pause()
	} else {
		a.Start()
	}
}

// Restart zeroes the countdown without changing state. Call it when the
// target was moved by hand.
func (a *Autoplay) Restart() { a.elapsed = 0 }

func (a *Autoplay) Interval() float64 { return a.interval }

func (a *Autoplay) SetInterval(ms float64) error {
	if ms <= 0 {
		return ErrNoInterval
	}
	a.interval = ms
	return nil
}

// Remaining is the time left until the next advance.
func (a *Autoplay) Remaining() float64 { return a.interval - a.elapsed }

// Tick advances by delta milliseconds. Long deltas advance several times.
func (a *Autoplay) Tick(delta float64) {
	if a.State != Running || delta <= 0 {
		return
	}
	a.elapsed += delta
	for a.elapsed >= a.interval && a.State == Running {
		a.elapsed -= a.interval
		if a.hooks.Advance != nil {
			a.hooks.Advance()
		}
	}
}

func (a *Autoplay) set(s State) {
	a.State = s
	if a.hooks.StateChanged != nil {
		a.hooks.StateChanged(s)
	}
}
