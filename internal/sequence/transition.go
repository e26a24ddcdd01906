package sequence

// Transition tracks an eased 0..1 progress over Duration milliseconds,
// along with the direction it was started in.
type Transition struct {
	Duration float64
	Ease     string
	// Done runs once when progress reaches 1.
	Done func()

	elapsed   float64
	active    bool
	backwards bool
}

func NewTransition(durationMs float64, ease string) *Transition {
	return &Transition{Duration: durationMs, Ease: ease}
}

// Begin restarts the transition. A zero Duration completes on the next Tick.
func (t *Transition) Begin(backwards bool) {
	t.elapsed = 0
	t.active = true
	t.backwards = backwards
}

func (t *Transition) Tick(delta float64) {
	if !t.active {
		return
	}
	t.elapsed += delta
	if t.Duration > 0 && t.elapsed < t.Duration {
		return
	}
	t.elapsed = t.Duration
	t.active = false
	if t.Done != nil {
		t.Done()
	}
}

// Progress is the linear 0..1 position; 1 when idle.
func (t *Transition) Progress() float64 {
	if !t.active {
		return 1
	}
	if t.Duration <= 0 {
		return 0
	}
	return clamp01(t.elapsed / t.Duration)
}

// Alpha is Progress through the easing curve.
func (t *Transition) Alpha() float64 { return Ease(t.Ease, t.Progress()) }

func (t *Transition) Active() bool    { return t.active }
func (t *Transition) Backwards() bool { return t.backwards }
