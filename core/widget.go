// Package core provides the widget contract for terminal UIs, a
// closure-backed canvas widget that adapts plain functions and caller
// state into that contract, and a compositing screen that drives widgets
// through it.
package core

import "github.com/gdamore/tcell/v2"

// Widget is the contract the screen drives every element through. The
// screen negotiates sizes with RequiredSize, fixes them with Layout,
// renders with Draw, and routes input through HandleEvent and TakeFocus.
type Widget interface {
	// Draw renders the widget through p, which is clipped and translated
	// to the region granted by the last Layout call. Draw must not mutate
	// widget state; for identical state it paints identical output.
	Draw(p *Painter)

	// HandleEvent offers ev to the widget. It returns Ignored() to let
	// the screen try fallback handlers, or a consumed result, optionally
	// carrying a callback the screen runs after dispatch. Mouse events
	// arrive with coordinates relative to the widget's granted region.
	HandleEvent(ev tcell.Event) EventResult

	// RequiredSize reports the size the widget wants given the space the
	// screen can offer. Results at or under the constraint are granted
	// as-is; a larger result declares the widget cannot fit and leaves
	// the decision to the screen. Repeated calls without intervening
	// mutation return the same value.
	RequiredSize(constraint Size) Size

	// Layout fixes the widget's size once negotiation settles. After it
	// returns the widget must be ready to draw at exactly this size.
	Layout(size Size)

	// TakeFocus offers keyboard focus arriving from dir. Returning false
	// sends the screen to the next candidate. There is no matching blur
	// call; widgets that track focus clear it out of band.
	TakeFocus(dir Direction) bool

	// NeedsRelayout reports whether the last layout became stale. The
	// screen re-runs RequiredSize and Layout before the next draw when
	// true. Reporting true when unsure only costs extra layout passes.
	NeedsRelayout() bool
}

// Base provides the default behaviour for every Widget operation: draw
// nothing, ignore events, require a single cell, refuse focus, always
// report the layout stale. Embed it to implement only what a widget needs.
type Base struct{}

func (Base) Draw(*Painter)                       {}
func (Base) HandleEvent(tcell.Event) EventResult { return Ignored() }
func (Base) RequiredSize(Size) Size              { return Size{W: 1, H: 1} }
func (Base) Layout(Size)                         {}
func (Base) TakeFocus(Direction) bool            { return false }
func (Base) NeedsRelayout() bool                 { return true }

var _ Widget = Base{}
