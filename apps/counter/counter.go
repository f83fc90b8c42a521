// Package counter provides a focusable counter widget whose footprint
// grows with the number it shows.
package counter

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelkit/core"
)

// State is the counter's current value and increment.
type State struct {
	Count int
	Step  int
}

// New builds the counter canvas. Plus and minus runes (shifted or not)
// adjust the count by step, '0' resets it. milestone, when non-nil, runs
// after dispatch each time the count lands on a multiple of ten.
func New(step int, milestone func(count int)) *core.Canvas[State] {
	if step <= 0 {
		step = 1
	}
	return core.NewCanvas(State{Step: step}).
		WithDraw(func(st *State, p *core.Painter) {
			size := p.Size()
			style := tcell.StyleDefault.Bold(true)
			str := label(st.Count)
			y := size.H / 2
			x := (size.W - core.TextWidth(str)) / 2
			if x < 0 {
				x = 0
			}
			p.DrawText(x, y, str, style)
		}).
		WithHandleEvent(func(st *State, ev tcell.Event) core.EventResult {
			key, ok := ev.(*tcell.EventKey)
			if !ok || key.Key() != tcell.KeyRune {
				return core.Ignored()
			}
			switch key.Rune() {
			case '+', '=':
				st.Count += st.Step
			case '-', '_':
				st.Count -= st.Step
			case '0':
				st.Count = 0
			default:
				return core.Ignored()
			}
			if milestone != nil && st.Count != 0 && st.Count%10 == 0 {
				n := st.Count
				return core.ConsumedWith(func() { milestone(n) })
			}
			return core.Consumed()
		}).
		WithRequiredSize(func(st *State, constraint core.Size) core.Size {
			return core.Size{W: core.TextWidth(label(st.Count)) + 4, H: 3}
		}).
		WithTakeFocus(func(st *State, dir core.Direction) bool {
			return true
		})
}

func label(count int) string {
	return fmt.Sprintf("[ %d ]", count)
}
