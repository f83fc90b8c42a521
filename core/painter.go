package core

import (
	"github.com/gdamore/tcell/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mattn/go-runewidth"
)

// widthCache memoizes measured string widths; labels repeat across frames.
var widthCache, _ = lru.New[string, int](1024)

// TextWidth returns the number of terminal columns text occupies.
func TextWidth(text string) int {
	if w, ok := widthCache.Get(text); ok {
		return w
	}
	w := runewidth.StringWidth(text)
	widthCache.Add(text, w)
	return w
}

// Painter writes cells into a framebuffer, restricted to a clip region.
// Coordinates are absolute unless the painter came from Region, which
// translates them to the region's origin.
type Painter struct {
	buf    [][]Cell
	clip   Rect
	dx, dy int
}

// NewPainter wraps buf with the given clip. The clip is trimmed to the
// buffer bounds.
func NewPainter(buf [][]Cell, clip Rect) *Painter {
	h := len(buf)
	w := 0
	if h > 0 {
		w = len(buf[0])
	}
	return &Painter{buf: buf, clip: clip.Intersect(Rect{W: w, H: h})}
}

// Size returns the clip dimensions.
func (p *Painter) Size() Size { return p.clip.Size() }

// Clip returns the clip rectangle in buffer coordinates.
func (p *Painter) Clip() Rect { return p.clip }

// SetCell writes one cell if it falls inside the clip.
func (p *Painter) SetCell(x, y int, ch rune, style tcell.Style) {
	x += p.dx
	y += p.dy
	if !p.clip.Contains(x, y) {
		return
	}
	p.buf[y][x] = Cell{Ch: ch, Style: style}
}

// Fill covers r with ch.
func (p *Painter) Fill(r Rect, ch rune, style tcell.Style) {
	r.X += p.dx
	r.Y += p.dy
	r = r.Intersect(p.clip)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p.buf[y][x] = Cell{Ch: ch, Style: style}
		}
	}
}

// DrawText writes text starting at (x, y). Wide runes advance two
// columns; the shadowed cell is left untouched for the terminal to skip.
func (p *Painter) DrawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		p.SetCell(x, y, ch, style)
		x += runewidth.RuneWidth(ch)
	}
}

// Region returns a painter whose origin is r's top-left corner and whose
// clip is r trimmed to this painter's clip. Widgets draw through regions
// so their coordinates stay local.
func (p *Painter) Region(r Rect) *Painter {
	r.X += p.dx
	r.Y += p.dy
	return &Painter{
		buf:  p.buf,
		clip: r.Intersect(p.clip),
		dx:   r.X,
		dy:   r.Y,
	}
}
