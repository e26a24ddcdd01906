package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}

	first := New(7).Int63()
	r := New(7)
	r.Int63()
	r.Reseed(7)
	assert.Equal(t, first, r.Int63())
	assert.Equal(t, int64(7), r.Seed())
}

func TestRanges(t *testing.T) {
	r := New(1)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		n := r.Number(2, 3)
		assert.GreaterOrEqual(t, n, 2.0)
		assert.Less(t, n, 3.0)

		v := r.Noise()
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)

		k := r.Integer(5, 3)
		assert.GreaterOrEqual(t, k, 3)
		assert.LessOrEqual(t, k, 5)
		seen[k] = true

		s := r.Sign(0.5)
		assert.True(t, s == 1 || s == -1)
	}
	assert.Len(t, seen, 3, "both ends are inclusive")
}

func TestChanceExtremes(t *testing.T) {
	r := New(3)
	for i := 0; i < 100; i++ {
		assert.False(t, r.Chance(0))
		assert.True(t, r.Chance(1))
		assert.Equal(t, 1.0, r.Sign(1))
	}
}

func TestItem(t *testing.T) {
	r := New(9)
	assert.Equal(t, "", Item(r, []string(nil)))
	for i := 0; i < 20; i++ {
		assert.Contains(t, []string{"a", "b", "c"}, Item(r, []string{"a", "b", "c"}))
	}
}
