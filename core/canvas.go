package core

import "github.com/gdamore/tcell/v2"

// Canvas adapts plain functions into a Widget. It owns a state value of
// type S, passes a pointer to that state into every behaviour function,
// and delegates each Widget operation to the matching function.
// Behaviours are independent: replace the ones a widget needs and leave
// the rest on their defaults.
//
// The zero Canvas is usable; NewCanvas merely sets the initial state.
type Canvas[S any] struct {
	state S

	draw          func(state *S, p *Painter)
	handleEvent   func(state *S, ev tcell.Event) EventResult
	requiredSize  func(state *S, constraint Size) Size
	layout        func(state *S, size Size)
	takeFocus     func(state *S, dir Direction) bool
	needsRelayout func(state *S) bool
}

// NewCanvas returns a canvas owning state. Every behaviour starts on its
// default: draw nothing, ignore events, require a single cell, accept no
// focus, and always report the layout as stale.
func NewCanvas[S any](state S) *Canvas[S] {
	return &Canvas[S]{state: state}
}

// State returns a pointer to the owned state so callers can mutate it
// from outside the behaviour functions, e.g. from a ticker goroutine.
// After mutating, request a screen refresh so the change becomes visible.
func (c *Canvas[S]) State() *S { return &c.state }

// SetDraw replaces the draw behaviour. The function must treat state as
// read-only. Passing nil restores the default, which draws nothing.
func (c *Canvas[S]) SetDraw(f func(state *S, p *Painter)) { c.draw = f }

// WithDraw is SetDraw returning the canvas, for chained construction.
func (c *Canvas[S]) WithDraw(f func(state *S, p *Painter)) *Canvas[S] {
	c.SetDraw(f)
	return c
}

// SetHandleEvent replaces the event behaviour. Passing nil restores the
// default, which ignores every event.
func (c *Canvas[S]) SetHandleEvent(f func(state *S, ev tcell.Event) EventResult) {
	c.handleEvent = f
}

// WithHandleEvent is SetHandleEvent returning the canvas.
func (c *Canvas[S]) WithHandleEvent(f func(state *S, ev tcell.Event) EventResult) *Canvas[S] {
	c.SetHandleEvent(f)
	return c
}

// SetRequiredSize replaces the size behaviour. Passing nil restores the
// default, which requires a single cell.
func (c *Canvas[S]) SetRequiredSize(f func(state *S, constraint Size) Size) {
	c.requiredSize = f
}

// WithRequiredSize is SetRequiredSize returning the canvas.
func (c *Canvas[S]) WithRequiredSize(f func(state *S, constraint Size) Size) *Canvas[S] {
	c.SetRequiredSize(f)
	return c
}

// SetLayout replaces the layout behaviour. Passing nil restores the
// default, which does nothing.
func (c *Canvas[S]) SetLayout(f func(state *S, size Size)) { c.layout = f }

// WithLayout is SetLayout returning the canvas.
func (c *Canvas[S]) WithLayout(f func(state *S, size Size)) *Canvas[S] {
	c.SetLayout(f)
	return c
}

// SetTakeFocus replaces the focus behaviour. Passing nil restores the
// default, which refuses focus.
func (c *Canvas[S]) SetTakeFocus(f func(state *S, dir Direction) bool) {
	c.takeFocus = f
}

// WithTakeFocus is SetTakeFocus returning the canvas.
func (c *Canvas[S]) WithTakeFocus(f func(state *S, dir Direction) bool) *Canvas[S] {
	c.SetTakeFocus(f)
	return c
}

// SetNeedsRelayout replaces the relayout probe. The function must treat
// state as read-only. Passing nil restores the default, which always
// reports stale.
func (c *Canvas[S]) SetNeedsRelayout(f func(state *S) bool) { c.needsRelayout = f }

// WithNeedsRelayout is SetNeedsRelayout returning the canvas.
func (c *Canvas[S]) WithNeedsRelayout(f func(state *S) bool) *Canvas[S] {
	c.SetNeedsRelayout(f)
	return c
}

func (c *Canvas[S]) Draw(p *Painter) {
	if c.draw != nil {
		c.draw(&c.state, p)
	}
}

func (c *Canvas[S]) HandleEvent(ev tcell.Event) EventResult {
	if c.handleEvent != nil {
		return c.handleEvent(&c.state, ev)
	}
	return Ignored()
}

func (c *Canvas[S]) RequiredSize(constraint Size) Size {
	if c.requiredSize != nil {
		return c.requiredSize(&c.state, constraint)
	}
	return Size{W: 1, H: 1}
}

func (c *Canvas[S]) Layout(size Size) {
	if c.layout != nil {
		c.layout(&c.state, size)
	}
}

func (c *Canvas[S]) TakeFocus(dir Direction) bool {
	if c.takeFocus != nil {
		return c.takeFocus(&c.state, dir)
	}
	return false
}

func (c *Canvas[S]) NeedsRelayout() bool {
	if c.needsRelayout != nil {
		return c.needsRelayout(&c.state)
	}
	return true
}

// Compile-time interface check
var _ Widget = (*Canvas[struct{}])(nil)
