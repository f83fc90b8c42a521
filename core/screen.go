// Copyright © 2025 Texelkit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: core/screen.go
// Summary: Compositing screen and event loop driving widgets through the Widget contract.

package core

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
)

const keyQuit = tcell.KeyCtrlQ

// slot places a widget at a fixed origin and tracks the size granted by
// the last layout pass.
type slot struct {
	w       Widget
	x, y    int
	granted Size
	laidOut bool
}

func (sl *slot) rect() Rect {
	return Rect{X: sl.x, Y: sl.y, W: sl.granted.W, H: sl.granted.H}
}

// Screen owns the terminal surface and a z-ordered set of widgets. It
// negotiates sizes, lays widgets out, composes their output and routes
// events, driving every widget through the Widget contract alone.
type Screen struct {
	drv Driver

	mu      sync.Mutex // protects slots, focus, buffers, styles
	slots   []*slot
	focused int // index into slots, -1 when nothing has focus
	w, h    int
	buf     [][]Cell
	prevBuf [][]Cell
	bgStyle tcell.Style
	quitKey tcell.Key
	tracer  DispatchTracer

	dirtyMu  sync.Mutex // protects dirty list
	dirty    []Rect
	dirtyAll bool

	quit        chan struct{}
	refreshChan chan bool
	closeOnce   sync.Once
	seq         atomic.Uint64
}

// NewScreen initializes the terminal with tcell.
func NewScreen() (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreenWithDriver(NewTcellDriver(tcellScreen))
}

// NewScreenWithDriver builds a screen on a caller-supplied driver.
func NewScreenWithDriver(drv Driver) (*Screen, error) {
	if err := drv.Init(); err != nil {
		return nil, fmt.Errorf("failed to init driver: %w", err)
	}

	defStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)
	drv.SetStyle(defStyle)
	drv.HideCursor()

	w, h := drv.Size()
	return &Screen{
		drv:         drv,
		focused:     -1,
		w:           w,
		h:           h,
		bgStyle:     defStyle,
		quitKey:     keyQuit,
		quit:        make(chan struct{}),
		refreshChan: make(chan bool, 1),
	}, nil
}

// SetBackgroundStyle sets the style used to clear the surface.
func (s *Screen) SetBackgroundStyle(style tcell.Style) {
	s.mu.Lock()
	s.bgStyle = style
	s.buf = nil
	s.mu.Unlock()
	s.Refresh()
}

// SetQuitKey overrides the key that shuts the screen down (Ctrl-Q by default).
func (s *Screen) SetQuitKey(key tcell.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quitKey = key
}

// SetTracer installs a dispatch tracer. Passing nil disables tracing.
func (s *Screen) SetTracer(t DispatchTracer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracer = t
}

// EnableMouse turns on mouse reporting. Presses focus the widget under
// the cursor and events are offered to it with local coordinates.
func (s *Screen) EnableMouse() {
	s.drv.EnableMouse()
}

// Size returns the surface dimensions.
func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

// AddWidget places w with its top-left corner at (x, y). Later additions
// draw on top. The first widget to accept focus keeps it until events or
// Focus move it elsewhere.
func (s *Screen) AddWidget(w Widget, x, y int) {
	s.mu.Lock()
	s.slots = append(s.slots, &slot{w: w, x: x, y: y})
	if s.focused < 0 && w.TakeFocus(DirNone) {
		s.focused = len(s.slots) - 1
	}
	s.mu.Unlock()
	s.Refresh()
}

// Focus offers focus to w directly, reporting whether it accepted.
func (s *Screen) Focus(w Widget) bool {
	s.mu.Lock()
	for i, sl := range s.slots {
		if sl.w != w {
			continue
		}
		if !w.TakeFocus(DirNone) {
			s.mu.Unlock()
			return false
		}
		s.focused = i
		s.trace(TraceFocus, DirNone.String(), true, w)
		s.mu.Unlock()
		s.Refresh()
		return true
	}
	s.mu.Unlock()
	return false
}

// RefreshNotifier returns a channel whose sends schedule a redraw. Sends
// never block; the loop coalesces pending requests.
func (s *Screen) RefreshNotifier() chan<- bool {
	return s.refreshChan
}

// Refresh invalidates the whole surface and schedules a redraw. Call it
// after mutating widget state from outside the event loop.
func (s *Screen) Refresh() {
	s.dirtyMu.Lock()
	s.dirtyAll = true
	s.dirtyMu.Unlock()
	s.requestRefresh()
}

// Invalidate marks a region for redraw.
func (s *Screen) Invalidate(r Rect) {
	if r.Empty() {
		return
	}
	s.dirtyMu.Lock()
	if !s.dirtyAll {
		s.dirty = append(s.dirty, r)
	}
	s.dirtyMu.Unlock()
	s.requestRefresh()
}

// requestRefresh signals the main loop to redraw.
func (s *Screen) requestRefresh() {
	select {
	case s.refreshChan <- true:
	default:
	}
}

// Run starts the event and rendering loop, blocking until Close or the
// quit key.
func (s *Screen) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	eventChan := make(chan tcell.Event, 10)
	go func() {
		for {
			select {
			case <-s.quit:
				return
			default:
				eventChan <- s.drv.PollEvent()
			}
		}
	}()

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	dirty := true
	s.handleResize()
	s.draw()
	for {
		select {
		case <-sigChan:
			s.drv.Sync()
			s.handleResize()
			dirty = true
		case ev := <-eventChan:
			s.handleEvent(ev)
			dirty = true
		case <-s.refreshChan:
			dirty = true
		case <-ticker.C:
			if dirty {
				s.draw()
				dirty = false
			}
		case <-s.quit:
			return nil
		}
	}
}

// Close shuts the loop down and restores the terminal.
func (s *Screen) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.drv.Fini()
	})
}

func (s *Screen) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		s.handleKey(ev)
	case *tcell.EventMouse:
		s.handleMouse(ev)
	case *tcell.EventResize:
		s.handleResize()
	}
}

// handleKey offers a key to the focused widget first, then to the
// built-in traversal fallbacks: Tab and Backtab cycle in placement
// order, Alt+arrows move spatially.
func (s *Screen) handleKey(ev *tcell.EventKey) {
	s.mu.Lock()
	if ev.Key() == s.quitKey {
		s.mu.Unlock()
		s.Close()
		return
	}

	var (
		cb       Callback
		slotRect Rect
		full     bool
		target   Widget
	)
	consumed := false

	if sl := s.focusedSlotLocked(); sl != nil {
		if res := sl.w.HandleEvent(ev); res.Consumed {
			consumed = true
			target = sl.w
			cb = res.Callback
			slotRect = sl.rect()
		}
	}

	if !consumed {
		key := ev.Key()
		mods := ev.Modifiers()
		switch {
		case key == tcell.KeyTab && mods&tcell.ModShift == 0:
			consumed = s.cycleFocusLocked(DirForward)
		case key == tcell.KeyBacktab || (key == tcell.KeyTab && mods&tcell.ModShift != 0):
			consumed = s.cycleFocusLocked(DirBackward)
		case mods&tcell.ModAlt != 0:
			switch key {
			case tcell.KeyUp:
				consumed = s.moveFocusLocked(DirUp)
			case tcell.KeyDown:
				consumed = s.moveFocusLocked(DirDown)
			case tcell.KeyLeft:
				consumed = s.moveFocusLocked(DirLeft)
			case tcell.KeyRight:
				consumed = s.moveFocusLocked(DirRight)
			}
		}
		if consumed {
			full = true
			if sl := s.focusedSlotLocked(); sl != nil {
				target = sl.w
			}
		}
	}

	s.trace(TraceKey, ev.Name(), consumed, target)
	s.mu.Unlock()

	if full {
		s.Refresh()
	} else if consumed {
		s.Invalidate(slotRect)
	}
	s.runCallback(cb)
}

// handleMouse routes mouse events to the topmost widget under the
// cursor, focusing it on press. Coordinates are translated so the widget
// sees positions relative to its own region.
func (s *Screen) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()

	s.mu.Lock()
	idx := s.topmostAtLocked(x, y)
	if idx < 0 {
		s.trace(TraceMouse, fmt.Sprintf("%d,%d", x, y), false, nil)
		s.mu.Unlock()
		return
	}
	sl := s.slots[idx]

	focusChanged := false
	if ev.Buttons()&tcell.Button1 != 0 && idx != s.focused {
		if sl.w.TakeFocus(DirNone) {
			s.focused = idx
			focusChanged = true
			s.trace(TraceFocus, DirNone.String(), true, sl.w)
		}
	}

	local := tcell.NewEventMouse(x-sl.x, y-sl.y, ev.Buttons(), ev.Modifiers())
	res := sl.w.HandleEvent(local)
	s.trace(TraceMouse, fmt.Sprintf("%d,%d", x, y), res.Consumed, sl.w)
	slotRect := sl.rect()
	s.mu.Unlock()

	if focusChanged {
		s.Refresh()
	} else if res.Consumed {
		s.Invalidate(slotRect)
	}
	s.runCallback(res.Callback)
}

// handleResize re-reads the surface size and marks every layout stale.
func (s *Screen) handleResize() {
	s.mu.Lock()
	w, h := s.drv.Size()
	s.w, s.h = w, h
	s.buf = nil
	s.prevBuf = nil
	for _, sl := range s.slots {
		sl.laidOut = false
	}
	s.trace(TraceResize, fmt.Sprintf("%dx%d", w, h), true, nil)
	s.mu.Unlock()
	s.Refresh()
}

func (s *Screen) focusedSlotLocked() *slot {
	if s.focused < 0 || s.focused >= len(s.slots) {
		return nil
	}
	return s.slots[s.focused]
}

// cycleFocusLocked offers focus widget by widget in placement order
// (reversed for DirBackward) until one accepts.
func (s *Screen) cycleFocusLocked(dir Direction) bool {
	n := len(s.slots)
	if n == 0 {
		return false
	}
	start := s.focused
	if start < 0 {
		if dir == DirBackward {
			start = n
		} else {
			start = -1
		}
	}
	for off := 1; off <= n; off++ {
		var idx int
		if dir == DirBackward {
			idx = ((start-off)%n + n) % n
		} else {
			idx = ((start+off)%n + n) % n
		}
		if s.slots[idx].w.TakeFocus(dir) {
			s.focused = idx
			s.trace(TraceFocus, dir.String(), true, s.slots[idx].w)
			return true
		}
	}
	return false
}

// moveFocusLocked offers focus to widgets lying along d, nearest first,
// until one accepts. Distance is measured between widget centers.
func (s *Screen) moveFocusLocked(d Direction) bool {
	cur := s.focusedSlotLocked()
	if cur == nil {
		return s.cycleFocusLocked(d)
	}
	from := cur.rect()
	cx := from.X + from.W/2
	cy := from.Y + from.H/2

	type candidate struct {
		idx       int
		dist, off int
	}
	var cands []candidate
	for i, sl := range s.slots {
		if i == s.focused {
			continue
		}
		r := sl.rect()
		if r.Empty() {
			continue
		}
		ox := r.X + r.W/2
		oy := r.Y + r.H/2
		var dist, off int
		switch d {
		case DirUp:
			if oy >= cy {
				continue
			}
			dist, off = cy-oy, abs(ox-cx)
		case DirDown:
			if oy <= cy {
				continue
			}
			dist, off = oy-cy, abs(ox-cx)
		case DirLeft:
			if ox >= cx {
				continue
			}
			dist, off = cx-ox, abs(oy-cy)
		case DirRight:
			if ox <= cx {
				continue
			}
			dist, off = ox-cx, abs(oy-cy)
		default:
			return false
		}
		cands = append(cands, candidate{idx: i, dist: dist, off: off})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].off < cands[j].off
	})
	for _, c := range cands {
		if s.slots[c.idx].w.TakeFocus(d) {
			s.focused = c.idx
			s.trace(TraceFocus, d.String(), true, s.slots[c.idx].w)
			return true
		}
	}
	return false
}

func (s *Screen) topmostAtLocked(x, y int) int {
	for i := len(s.slots) - 1; i >= 0; i-- {
		if s.slots[i].rect().Contains(x, y) {
			return i
		}
	}
	return -1
}

// draw runs the layout pass, composes dirty regions into the buffer, and
// blits the difference to the driver.
func (s *Screen) draw() {
	s.mu.Lock()
	s.ensureBufferLocked()
	s.layoutLocked()

	s.dirtyMu.Lock()
	all := s.dirtyAll
	pending := s.dirty
	s.dirtyAll = false
	s.dirty = nil
	s.dirtyMu.Unlock()

	full := Rect{W: s.w, H: s.h}
	clips := []Rect{full}
	if !all && len(pending) > 0 {
		clips = mergeRects(pending)
	}
	for _, clip := range clips {
		clip = clip.Intersect(full)
		if clip.Empty() {
			continue
		}
		p := NewPainter(s.buf, clip)
		p.Fill(clip, ' ', s.bgStyle)
		for _, sl := range s.slots {
			r := sl.rect()
			if !r.Overlaps(clip) {
				continue
			}
			sl.w.Draw(p.Region(r))
		}
	}
	s.blitLocked()
	s.mu.Unlock()
	s.drv.Show()
}

// layoutLocked renegotiates sizes for widgets whose layout went stale,
// invalidating the regions they vacated and now occupy. Oversized
// requirements are clamped to the space between the widget's origin and
// the screen edge.
func (s *Screen) layoutLocked() {
	var stale []Rect
	for _, sl := range s.slots {
		if sl.laidOut && !sl.w.NeedsRelayout() {
			continue
		}
		old := sl.rect()
		constraint := Size{W: s.w - sl.x, H: s.h - sl.y}.Clamped()
		required := sl.w.RequiredSize(constraint)
		granted := required.Min(constraint).Clamped()
		sl.w.Layout(granted)
		sl.granted = granted
		sl.laidOut = true
		if !old.Empty() && old != sl.rect() {
			stale = append(stale, old)
		}
		stale = append(stale, sl.rect())
	}
	if len(stale) == 0 {
		return
	}
	s.dirtyMu.Lock()
	if !s.dirtyAll {
		s.dirty = append(s.dirty, stale...)
	}
	s.dirtyMu.Unlock()
}

func (s *Screen) ensureBufferLocked() {
	if s.buf != nil && len(s.buf) == s.h && (s.h == 0 || len(s.buf[0]) == s.w) {
		return
	}
	s.buf = NewBuffer(s.w, s.h, s.bgStyle)
	s.prevBuf = nil
	s.dirtyMu.Lock()
	s.dirtyAll = true
	s.dirtyMu.Unlock()
}

// blitLocked pushes changed cells to the driver and remembers the frame.
func (s *Screen) blitLocked() {
	if s.prevBuf == nil {
		for y, row := range s.buf {
			for x, cell := range row {
				s.drv.SetContent(x, y, cell.Ch, nil, cell.Style)
			}
		}
		s.prevBuf = NewBuffer(s.w, s.h, s.bgStyle)
	} else {
		for y, row := range s.buf {
			for x, cell := range row {
				if cell != s.prevBuf[y][x] {
					s.drv.SetContent(x, y, cell.Ch, nil, cell.Style)
				}
			}
		}
	}
	for y, row := range s.buf {
		copy(s.prevBuf[y], row)
	}
}

func (s *Screen) runCallback(cb Callback) {
	if cb == nil {
		return
	}
	cb()
	s.Refresh()
}

func (s *Screen) trace(kind, detail string, consumed bool, target Widget) {
	if s.tracer == nil {
		return
	}
	name := ""
	if target != nil {
		name = fmt.Sprintf("%T", target)
	}
	s.tracer.TraceDispatch(DispatchTrace{
		Seq:      s.seq.Add(1),
		Time:     time.Now(),
		Kind:     kind,
		Detail:   detail,
		Consumed: consumed,
		Target:   name,
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
