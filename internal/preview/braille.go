package preview

import "strings"

// brailleBase is the Unicode code point for an empty braille character.
const brailleBase = '⠀'

// dotBits maps (x, y) within a 2x4 braille cell to its dot bit.
//
//	┌───┬───┐
//	│ 1 │ 4 │
//	│ 2 │ 5 │
//	│ 3 │ 6 │
//	│ 7 │ 8 │
//	└───┴───┘
var dotBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Braille is a monochrome dot grid rendered with braille characters,
// eight dots per terminal cell.
type Braille struct {
	width  int
	height int
	dots   []bool
}

// NewBraille creates a grid of at least width x height dots, rounded up to
// whole cells (width to a multiple of 2, height to a multiple of 4).
func NewBraille(width, height int) *Braille {
	width += width % 2
	if height%4 != 0 {
		height += 4 - height%4
	}
	return &Braille{
		width:  width,
		height: height,
		dots:   make([]bool, width*height),
	}
}

// Width returns the grid width in dots.
func (b *Braille) Width() int { return b.width }

// Height returns the grid height in dots.
func (b *Braille) Height() int { return b.height }

// Cols returns the grid width in terminal cells.
func (b *Braille) Cols() int { return b.width / 2 }

// Rows returns the grid height in terminal cells.
func (b *Braille) Rows() int { return b.height / 4 }

func (b *Braille) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set turns on the dot at (x, y). Out-of-range coordinates are ignored.
func (b *Braille) Set(x, y int) {
	if b.inBounds(x, y) {
		b.dots[y*b.width+x] = true
	}
}

// Get reports whether the dot at (x, y) is on.
func (b *Braille) Get(x, y int) bool {
	return b.inBounds(x, y) && b.dots[y*b.width+x]
}

func (b *Braille) cell(cx, cy int) rune {
	r := brailleBase
	for dx := 0; dx < 2; dx++ {
		for dy := 0; dy < 4; dy++ {
			if b.Get(cx*2+dx, cy*4+dy) {
				r += dotBits[dx][dy]
			}
		}
	}
	return r
}

// Row renders one row of cells, or "" when cy is out of range.
func (b *Braille) Row(cy int) string {
	if cy < 0 || cy >= b.Rows() {
		return ""
	}
	var sb strings.Builder
	for cx := 0; cx < b.Cols(); cx++ {
		sb.WriteRune(b.cell(cx, cy))
	}
	return sb.String()
}

// String renders the whole grid, one line per cell row.
func (b *Braille) String() string {
	rows := make([]string, b.Rows())
	for cy := range rows {
		rows[cy] = b.Row(cy)
	}
	return strings.Join(rows, "\n")
}
