package core

import "github.com/gdamore/tcell/v2"

// Cell is a single terminal cell.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// NewBuffer allocates a w by h cell grid filled with blanks in the given style.
func NewBuffer(w, h int, style tcell.Style) [][]Cell {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	buf := make([][]Cell, h)
	for y := 0; y < h; y++ {
		row := make([]Cell, w)
		for x := 0; x < w; x++ {
			row[x] = Cell{Ch: ' ', Style: style}
		}
		buf[y] = row
	}
	return buf
}
