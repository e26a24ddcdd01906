package ticker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct{ delta, time float64 }

type recorder struct{ calls []call }

func (r *recorder) Tick(delta, time float64) { r.calls = append(r.calls, call{delta, time}) }

func TestFrameDuration(t *testing.T) {
	cases := map[int]float64{0: 0, -5: 0, 30: 33, 60: 17, 24: 42, 1: 1000}
	for fps, want := range cases {
		tk := New(NewManual(), fps)
		assert.Equal(t, want, tk.FrameDuration(), "fps %d", fps)
	}
}

func TestUncappedFiresEveryFrame(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	tk := New(m, 0, r)
	tk.Start()

	for i := 0; i < 5; i++ {
		m.Advance(16)
	}
	require.Len(t, r.calls, 5)
	for i, c := range r.calls {
		assert.Equal(t, 16.0, c.delta)
		assert.Equal(t, float64(16*(i+1)), c.time)
	}
}

func TestMaxDeltaClampsSamples(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	tk := New(m, 0, r)
	tk.MaxDelta = 100
	tk.Start()

	m.Advance(5000)
	m.Advance(40)
	require.Len(t, r.calls, 2)
	assert.Equal(t, 100.0, r.calls[0].delta)
	assert.Equal(t, 40.0, r.calls[1].delta)
	assert.Equal(t, 140.0, tk.Time())
}

func TestCappedScenario(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	tk := New(m, 30, r)
	require.Equal(t, 33.0, tk.FrameDuration())
	tk.Start()

	for _, d := range []float64{10, 10, 10, 10} {
		m.Advance(d)
	}
	require.Len(t, r.calls, 1)
	assert.Equal(t, 33.0, r.calls[0].delta)
	assert.Equal(t, 40.0, r.calls[0].time)
	assert.Equal(t, 7.0, tk.Progress())
}

func TestCappedCountAndResidual(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	tk := New(m, 50, r) // 20ms frames
	tk.Start()

	// 7ms frames: cumulative 7*29 = 203 -> 10 ticks, residual 3
	for i := 0; i < 29; i++ {
		m.Advance(7)
	}
	require.Len(t, r.calls, 10)
	for _, c := range r.calls {
		assert.Equal(t, 20.0, c.delta)
	}
	assert.InDelta(t, 3.0, tk.Progress(), 1e-9)
}

func TestCappedOvershootCarriesModulo(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	tk := New(m, 50, r)
	tk.Start()

	m.Advance(45) // one tick, 25 over; carried as 25 % 20 = 5
	require.Len(t, r.calls, 1)
	assert.Equal(t, 5.0, tk.Progress())
}

func TestPauseStopsScheduling(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	tk := New(m, 0, r)
	tk.Start()
	m.Advance(10)
	tk.Pause()
	m.Advance(10)
	m.Advance(10)
	assert.Len(t, r.calls, 1)
	assert.Zero(t, m.Pending())
	assert.False(t, tk.Playing())
}

func TestPauseStartDoesNotDoubleChain(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	tk := New(m, 0, r)
	tk.Start()
	tk.Pause()
	tk.Start()
	tk.Start()

	m.Advance(10)
	m.Advance(10)
	assert.Len(t, r.calls, 2)
	assert.Equal(t, 1, m.Pending())
}

func TestStopResetsTime(t *testing.T) {
	m := NewManual()
	tk := New(m, 0)
	tk.Start()
	m.Advance(50)
	assert.Equal(t, 50.0, tk.Time())
	tk.Stop()
	assert.False(t, tk.Playing())
	assert.Zero(t, tk.Time())
}

func TestResetKeepsPlaying(t *testing.T) {
	m := NewManual()
	tk := New(m, 0)
	tk.Start()
	m.Advance(50)
	tk.Reset()
	assert.True(t, tk.Playing())
	m.Advance(5)
	assert.Equal(t, 5.0, tk.Time())
}

func TestToggle(t *testing.T) {
	tk := New(NewManual(), 0)
	tk.Toggle()
	assert.True(t, tk.Playing())
	tk.Toggle()
	assert.False(t, tk.Playing())
}

func TestStartMeasuresFromStartTime(t *testing.T) {
	m := NewManual()
	r := &recorder{}
	m.Advance(1000)
	tk := New(m, 0, r)
	tk.Start()
	m.Advance(12)
	require.Len(t, r.calls, 1)
	assert.Equal(t, 12.0, r.calls[0].delta)
}

func TestHandlerMembership(t *testing.T) {
	tk := New(NewManual(), 0)
	a := &recorder{}
	b := Func(func(float64, float64) {})
	tk.Add(a)
	tk.Add(a)
	tk.Add(b)
	tk.Add(nil)
	assert.Equal(t, 2, tk.Len())
	assert.True(t, tk.Has(a))
	assert.True(t, tk.Has(b))

	tk.Remove(a)
	tk.Remove(a)
	assert.False(t, tk.Has(a))
	assert.Equal(t, 1, tk.Len())
}

func TestInsertionOrderAndStopInsideFrame(t *testing.T) {
	m := NewManual()
	var order []string
	var tk *Ticker
	first := Func(func(float64, float64) {
		order = append(order, "first")
		tk.Stop()
	})
	second := Func(func(float64, float64) { order = append(order, "second") })
	tk = New(m, 0, first, second)
	tk.Start()

	m.Advance(16)
	m.Advance(16)
	assert.Equal(t, []string{"first", "second"}, order, "siblings in the same frame still run")
}

func TestHandlerPanicPropagates(t *testing.T) {
	m := NewManual()
	tk := New(m, 0, Func(func(float64, float64) { panic("boom") }))
	tk.Start()
	assert.Panics(t, func() { m.Advance(16) })
}

func TestManualTickWhilePaused(t *testing.T) {
	r := &recorder{}
	tk := New(NewManual(), 60, r)
	tk.SetTime(500)
	tk.Tick(0)
	require.Len(t, r.calls, 1)
	assert.Equal(t, call{0, 500}, r.calls[0])
}

func TestLoopDriverRunsFramesAndTasks(t *testing.T) {
	loop := NewLoop(200)
	var ticks int32
	var posted int32
	tk := New(loop, 0, Func(func(float64, float64) { atomic.AddInt32(&ticks, 1) }))
	loop.Post(func() { tk.Start() })
	loop.Post(func() { atomic.AddInt32(&posted, 1) })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), atomic.LoadInt32(&posted))
	assert.Greater(t, atomic.LoadInt32(&ticks), int32(3))
}
