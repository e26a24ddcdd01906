package sequence

import (
	"math"
	"testing"
)

func TestEnvelopeEval(t *testing.T) {
	env := Envelope{Keys: []Keyframe{
		{T: 0, V: 0, Ease: "linear"},
		{T: 10, V: 10, Ease: "linear"},
	}}
	if v := env.Eval(-1); v != 0 {
		t.Fatalf("expected 0 before start, got %v", v)
	}
	if v := env.Eval(0); v != 0 {
		t.Fatalf("expected 0 at t=0, got %v", v)
	}
	if v := env.Eval(5); v != 5 {
		t.Fatalf("expected 5 at t=5, got %v", v)
	}
	if v := env.Eval(10); v != 10 {
		t.Fatalf("expected 10 at t=10, got %v", v)
	}
	if v := env.Eval(11); v != 10 {
		t.Fatalf("expected 10 after end, got %v", v)
	}
	if d := env.Duration(); d != 10 {
		t.Fatalf("expected duration 10, got %v", d)
	}
	if v := (Envelope{}).Eval(3); v != 0 {
		t.Fatalf("expected 0 for empty envelope, got %v", v)
	}
}

func TestEaseCurves(t *testing.T) {
	for _, kind := range []string{"linear", "smooth", "cubic", "bogus"} {
		if Ease(kind, 0) != 0 || Ease(kind, 1) != 1 {
			t.Fatalf("%s: endpoints must be fixed", kind)
		}
		if v := Ease(kind, 0.5); math.Abs(v-0.5) > 1e-9 {
			t.Fatalf("%s: expected symmetric midpoint, got %v", kind, v)
		}
	}
	if Ease("smooth", 0.25) >= 0.25 {
		t.Fatalf("smooth should ease in")
	}
	if Ease("cubic", 2) != 1 {
		t.Fatalf("input should be clamped")
	}
}

func TestAutoplayAdvances(t *testing.T) {
	var advances int
	var states []State
	a, err := NewAutoplay(1000, Hooks{
		Advance:      func() { advances++ },
		StateChanged: func(s State) { states = append(states, s) },
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	a.Tick(5000)
	if advances != 0 {
		t.Fatalf("idle autoplay advanced")
	}

	a.Start()
	a.Tick(600)
	a.Tick(600) // 1200 -> one advance, 200 carried
	if advances != 1 || a.Remaining() != 800 {
		t.Fatalf("expected 1 advance and 800 remaining, got %d / %v", advances, a.Remaining())
	}

	a.Pause()
	a.Tick(5000)
	if advances != 1 {
		t.Fatalf("paused autoplay advanced")
	}
	a.Resume()
	a.Tick(2800) // 3000 -> three advances
	if advances != 4 {
		t.Fatalf("expected 4 advances, got %d", advances)
	}

	a.Restart()
	if a.Remaining() != 1000 {
		t.Fatalf("restart should reset countdown")
	}
	a.Stop()
	want := []State{Running, Paused, Running, Idle}
	if len(states) != len(want) {
		t.Fatalf("unexpected states %v", states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("unexpected states %v", states)
		}
	}
}

func TestAutoplayStopFromAdvance(t *testing.T) {
	var a *Autoplay
	n := 0
	a, _ = NewAutoplay(10, Hooks{Advance: func() { n++; a.Stop() }})
	a.Start()
	a.Tick(100)
	if n != 1 || a.State != Idle {
		t.Fatalf("stop inside advance should end the burst, got %d advances", n)
	}
}

func TestAutoplayToggleAndInterval(t *testing.T) {
	if _, err := NewAutoplay(0, Hooks{}); err != ErrNoInterval {
		t.Fatalf("expected ErrNoInterval, got %v", err)
	}
	a, _ := NewAutoplay(10, Hooks{})
	a.Toggle()
	if a.State != Running {
		t.Fatalf("toggle should start")
	}
	a.Toggle()
	if a.State != Paused {
		t.Fatalf("toggle should pause")
	}
	if err := a.SetInterval(-1); err != ErrNoInterval {
		t.Fatalf("expected ErrNoInterval")
	}
	if err := a.SetInterval(50); err != nil || a.Interval() != 50 {
		t.Fatalf("set interval failed")
	}
}

func TestTransition(t *testing.T) {
	done := 0
	tr := NewTransition(100, "linear")
	tr.Done = func() { done++ }

	if tr.Active() || tr.Progress() != 1 {
		t.Fatalf("idle transition should report full progress")
	}
	tr.Begin(true)
	if !tr.Active() || !tr.Backwards() || tr.Alpha() != 0 {
		t.Fatalf("begin should reset progress")
	}
	tr.Tick(25)
	if tr.Progress() != 0.25 {
		t.Fatalf("expected 0.25, got %v", tr.Progress())
	}
	tr.Tick(100)
	if tr.Active() || tr.Alpha() != 1 || done != 1 {
		t.Fatalf("transition should complete once")
	}
	tr.Tick(100)
	if done != 1 {
		t.Fatalf("done fired twice")
	}

	instant := NewTransition(0, "smooth")
	instant.Begin(false)
	instant.Tick(0)
	if instant.Active() || instant.Backwards() {
		t.Fatalf("zero duration should finish on the next tick")
	}
}
