package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexRowMajor(t *testing.T) {
	m := Matrix{Width: 4, Height: 3}
	assert.Equal(t, 12, m.Count())
	assert.Equal(t, 0, m.Index(0, 0))
	assert.Equal(t, 5, m.Index(1, 1))
	assert.Equal(t, 11, m.Index(3, 2))
}

func TestIndexSerpentine(t *testing.T) {
	m := Matrix{Width: 4, Height: 3, Serpentine: true}
	assert.Equal(t, 3, m.Index(3, 0))
	assert.Equal(t, 7, m.Index(0, 1), "odd rows run backwards")
	assert.Equal(t, 4, m.Index(3, 1))
	assert.Equal(t, 8, m.Index(0, 2))
}

func TestCoordInvertsIndex(t *testing.T) {
	for _, m := range []Matrix{
		{Width: 5, Height: 4},
		{Width: 5, Height: 4, Serpentine: true},
		{Width: 5, Height: 4, Serpentine: true, FlipY: true},
	} {
		seen := map[int]bool{}
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				i := m.Index(x, y)
				assert.False(t, seen[i], "duplicate index %d in %+v", i, m)
				seen[i] = true
				cx, cy := m.Coord(i)
				assert.Equal(t, [2]int{x, y}, [2]int{cx, cy}, "%+v", m)
			}
		}
		assert.Len(t, seen, m.Count())
	}
}

func TestEmpty(t *testing.T) {
	assert.Zero(t, Matrix{}.Count())
	x, y := Matrix{}.Coord(3)
	assert.Zero(t, x+y)
}
