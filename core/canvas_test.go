package core_test

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/framegrace/texelkit/core"
)

// render draws w into a fresh buffer and returns the rune rows.
func render(w core.Widget, width, height int) []string {
	buf := core.NewBuffer(width, height, tcell.StyleDefault)
	w.Draw(core.NewPainter(buf, core.Rect{W: width, H: height}))
	rows := make([]string, len(buf))
	for y, row := range buf {
		rs := make([]rune, len(row))
		for x, c := range row {
			rs[x] = c.Ch
		}
		rows[y] = string(rs)
	}
	return rows
}

func TestCanvasDefaults(t *testing.T) {
	c := core.NewCanvas(struct{}{})

	want := []string{"    ", "    "}
	if diff := cmp.Diff(want, render(c, 4, 2)); diff != "" {
		t.Errorf("default Draw touched the buffer (-want +got):\n%s", diff)
	}
	if res := c.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); res.Consumed {
		t.Error("default HandleEvent should ignore events")
	}
	if got := c.RequiredSize(core.Size{W: 80, H: 24}); got != (core.Size{W: 1, H: 1}) {
		t.Errorf("default RequiredSize = %v, want {1 1}", got)
	}
	c.Layout(core.Size{W: 10, H: 3}) // must not panic
	if c.TakeFocus(core.DirForward) {
		t.Error("default TakeFocus should refuse")
	}
	if !c.NeedsRelayout() {
		t.Error("default NeedsRelayout should report stale")
	}
}

func TestRequiredSizeIdempotent(t *testing.T) {
	c := core.NewCanvas(0).WithRequiredSize(func(state *int, constraint core.Size) core.Size {
		return core.Size{W: constraint.W / 2, H: 3}
	})
	constraint := core.Size{W: 40, H: 12}
	first := c.RequiredSize(constraint)
	second := c.RequiredSize(constraint)
	if first != second {
		t.Errorf("RequiredSize not stable: %v then %v", first, second)
	}
}

func TestRequiredSizeMayExceedConstraint(t *testing.T) {
	c := core.NewCanvas(0).WithRequiredSize(func(state *int, constraint core.Size) core.Size {
		return core.Size{W: 200, H: 100}
	})
	got := c.RequiredSize(core.Size{W: 40, H: 12})
	if got != (core.Size{W: 200, H: 100}) {
		t.Errorf("oversized requirement must pass through unclamped, got %v", got)
	}
}

func TestCanvasDelegatesWithStatePointer(t *testing.T) {
	type model struct {
		label   string
		layouts int
	}

	var sawConstraint core.Size
	c := core.NewCanvas(model{label: "hi"}).
		WithDraw(func(state *model, p *core.Painter) {
			p.DrawText(0, 0, state.label, tcell.StyleDefault)
		}).
		WithRequiredSize(func(state *model, constraint core.Size) core.Size {
			sawConstraint = constraint
			return core.Size{W: 2, H: 2}
		}).
		WithLayout(func(state *model, size core.Size) {
			state.layouts++
		})

	want := []string{"hi  "}
	if diff := cmp.Diff(want, render(c, 4, 1)); diff != "" {
		t.Errorf("draw did not see the owned state (-want +got):\n%s", diff)
	}
	if got := c.State().label; got != "hi" {
		t.Errorf("draw mutated state: %q", got)
	}

	c.RequiredSize(core.Size{W: 7, H: 5})
	if sawConstraint != (core.Size{W: 7, H: 5}) {
		t.Errorf("constraint not forwarded, got %v", sawConstraint)
	}

	c.Layout(core.Size{W: 2, H: 2})
	if got := c.State().layouts; got != 1 {
		t.Errorf("layout mutation lost, layouts = %d", got)
	}
}

func TestTakeFocusMutationObservable(t *testing.T) {
	type model struct{ focused bool }
	c := core.NewCanvas(model{}).
		WithTakeFocus(func(state *model, dir core.Direction) bool {
			if dir == core.DirForward {
				state.focused = true
				return true
			}
			return false
		})

	if c.TakeFocus(core.DirBackward) {
		t.Fatal("unexpected focus accept for backward")
	}
	if !c.TakeFocus(core.DirForward) {
		t.Fatal("focus should be accepted for forward")
	}
	if !c.State().focused {
		t.Error("take_focus mutation not observable through the accessor")
	}
}

func TestPartialChainKeepsOtherDefaults(t *testing.T) {
	type model struct{ laid core.Size }
	c := core.NewCanvas(model{}).
		WithDraw(func(state *model, p *core.Painter) {
			p.DrawText(0, 0, "x", tcell.StyleDefault)
		}).
		WithLayout(func(state *model, size core.Size) { state.laid = size })

	c.Layout(core.Size{W: 3, H: 1})
	if c.State().laid != (core.Size{W: 3, H: 1}) {
		t.Errorf("layout override not installed, got %v", c.State().laid)
	}
	if diff := cmp.Diff([]string{"x "}, render(c, 2, 1)); diff != "" {
		t.Errorf("draw override not installed (-want +got):\n%s", diff)
	}
	if res := c.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)); res.Consumed {
		t.Error("handle_event should stay at the ignoring default")
	}
	if got := c.RequiredSize(core.Size{W: 9, H: 9}); got != (core.Size{W: 1, H: 1}) {
		t.Errorf("required_size should stay at the default, got %v", got)
	}
	if c.TakeFocus(core.DirNone) {
		t.Error("take_focus should stay at the refusing default")
	}
	if !c.NeedsRelayout() {
		t.Error("needs_relayout should stay at the always-true default")
	}
}

func TestStateMutationVisibleToLaterCalls(t *testing.T) {
	type model struct{ text string }
	c := core.NewCanvas(model{text: "a"}).
		WithDraw(func(state *model, p *core.Painter) {
			p.DrawText(0, 0, state.text, tcell.StyleDefault)
		}).
		WithHandleEvent(func(state *model, ev tcell.Event) core.EventResult {
			if key, ok := ev.(*tcell.EventKey); ok && key.Key() == tcell.KeyRune {
				state.text += string(key.Rune())
				return core.Consumed()
			}
			return core.Ignored()
		})

	c.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone))
	c.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))

	want := []string{"abc "}
	if diff := cmp.Diff(want, render(c, 4, 1)); diff != "" {
		t.Errorf("draw after events (-want +got):\n%s", diff)
	}
}

func TestStateAccessorAliasesCanvasState(t *testing.T) {
	type model struct{ n int }
	c := core.NewCanvas(model{n: 1}).
		WithRequiredSize(func(state *model, constraint core.Size) core.Size {
			return core.Size{W: state.n, H: 1}
		})

	c.State().n = 9
	if got := c.RequiredSize(core.Size{W: 80, H: 24}); got.W != 9 {
		t.Errorf("external mutation invisible to behavior, got %v", got)
	}
}

func TestWithSettersReturnSameCanvas(t *testing.T) {
	c := core.NewCanvas(0)
	got := c.
		WithDraw(func(state *int, p *core.Painter) {}).
		WithHandleEvent(func(state *int, ev tcell.Event) core.EventResult { return core.Ignored() }).
		WithRequiredSize(func(state *int, constraint core.Size) core.Size { return core.Size{W: 1, H: 1} }).
		WithLayout(func(state *int, size core.Size) {}).
		WithTakeFocus(func(state *int, dir core.Direction) bool { return false }).
		WithNeedsRelayout(func(state *int) bool { return false })
	if got != c {
		t.Error("chainable setters must return the receiver")
	}
}

func TestSetAndWithAreEquivalent(t *testing.T) {
	size := func(state *int, constraint core.Size) core.Size {
		return core.Size{W: 5, H: 2}
	}
	a := core.NewCanvas(0)
	a.SetRequiredSize(size)
	b := core.NewCanvas(0).WithRequiredSize(size)

	constraint := core.Size{W: 80, H: 24}
	if a.RequiredSize(constraint) != b.RequiredSize(constraint) {
		t.Error("SetRequiredSize and WithRequiredSize should configure identically")
	}
}

func TestNilBehaviorRestoresDefault(t *testing.T) {
	c := core.NewCanvas(0).
		WithRequiredSize(func(state *int, constraint core.Size) core.Size {
			return core.Size{W: 30, H: 10}
		}).
		WithTakeFocus(func(state *int, dir core.Direction) bool { return true }).
		WithNeedsRelayout(func(state *int) bool { return false })

	if !c.TakeFocus(core.DirNone) {
		t.Fatal("replacement TakeFocus should accept")
	}

	c.SetRequiredSize(nil)
	c.SetTakeFocus(nil)
	c.SetNeedsRelayout(nil)

	if got := c.RequiredSize(core.Size{W: 80, H: 24}); got != (core.Size{W: 1, H: 1}) {
		t.Errorf("RequiredSize after nil = %v, want default {1 1}", got)
	}
	if c.TakeFocus(core.DirNone) {
		t.Error("TakeFocus after nil should refuse again")
	}
	if !c.NeedsRelayout() {
		t.Error("NeedsRelayout after nil should report stale again")
	}
}

func TestConsumedWithCarriesCallback(t *testing.T) {
	fired := false
	c := core.NewCanvas(0).WithHandleEvent(func(state *int, ev tcell.Event) core.EventResult {
		return core.ConsumedWith(func() { fired = true })
	})

	res := c.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if !res.Consumed {
		t.Fatal("result should be consumed")
	}
	if res.Callback == nil {
		t.Fatal("callback should be carried on the result")
	}
	if fired {
		t.Fatal("callback must not run during dispatch")
	}
	res.Callback()
	if !fired {
		t.Error("invoking the callback should run the closure")
	}
}

func TestCounterCanvas(t *testing.T) {
	type counter struct{ count int }
	c := core.NewCanvas(counter{}).
		WithDraw(func(state *counter, p *core.Painter) {
			p.DrawText(0, 0, "n=", tcell.StyleDefault)
			p.DrawText(2, 0, string(rune('0'+state.count)), tcell.StyleDefault)
		}).
		WithHandleEvent(func(state *counter, ev tcell.Event) core.EventResult {
			key, ok := ev.(*tcell.EventKey)
			if !ok || key.Key() != tcell.KeyRune {
				return core.Ignored()
			}
			switch key.Rune() {
			case '+':
				state.count++
				return core.Consumed()
			case '-':
				state.count--
				return core.Consumed()
			}
			return core.Ignored()
		}).
		WithTakeFocus(func(state *counter, dir core.Direction) bool { return true })

	var w core.Widget = c // the canvas is used through the widget contract

	if !w.TakeFocus(core.DirNone) {
		t.Fatal("counter should accept focus")
	}
	plus := tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone)
	for i := 0; i < 3; i++ {
		if res := w.HandleEvent(plus); !res.Consumed {
			t.Fatal("'+' should be consumed")
		}
	}
	if res := w.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); res.Consumed {
		t.Error("'x' should be ignored")
	}

	want := []string{"n=3 "}
	if diff := cmp.Diff(want, render(w, 4, 1)); diff != "" {
		t.Errorf("draw after three increments (-want +got):\n%s", diff)
	}
	if got := c.State().count; got != 3 {
		t.Errorf("state count = %d, want 3", got)
	}
}
