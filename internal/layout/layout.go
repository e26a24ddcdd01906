// Package layout maps 2D frame coordinates onto the wiring order of an LED
// matrix.
package layout

// Matrix describes a Width x Height panel wired row by row from the top
// left. With Serpentine set, odd rows run right to left.
type Matrix struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Serpentine bool `yaml:"serpentine"`
	// FlipY starts wiring at the bottom row.
	FlipY bool `yaml:"flip_y"`
}

// Index maps x,y -> linear LED index (0..N-1)
func (m Matrix) Index(x, y int) int {
	yy := y
	if m.FlipY {
		yy = m.Height - 1 - y
	}
	xx := x
	if m.Serpentine && yy%2 == 1 {
		xx = m.Width - 1 - x
	}
	return yy*m.Width + xx
}

// Coord is the inverse of Index.
func (m Matrix) Coord(i int) (x, y int) {
	if m.Width <= 0 {
		return 0, 0
	}
	yy := i / m.Width
	xx := i % m.Width
	if m.Serpentine && yy%2 == 1 {
		xx = m.Width - 1 - xx
	}
	y = yy
	if m.FlipY {
		y = m.Height - 1 - yy
	}
	return xx, y
}

func (m Matrix) Count() int {
	if m.Width <= 0 || m.Height <= 0 {
		return 0
	}
	return m.Width * m.Height
}
