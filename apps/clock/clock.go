// Package clock provides a ticking wall-clock widget built on core.Canvas.
package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelkit/core"
)

const defaultFormat = "15:04:05"

// State holds the formatted time shown on the next draw.
type State struct {
	Now    string
	Format string
}

// Clock pairs a canvas widget with the ticker goroutine that feeds it.
type Clock struct {
	mu          sync.RWMutex
	canvas      *core.Canvas[State]
	stop        chan struct{}
	refreshChan chan<- bool
}

// New creates a clock rendering time.Now in the given format. An empty
// format falls back to 15:04:05.
func New(format string) *Clock {
	if format == "" {
		format = defaultFormat
	}
	c := &Clock{stop: make(chan struct{})}
	c.canvas = core.NewCanvas(State{Now: time.Now().Format(format), Format: format}).
		WithDraw(func(st *State, p *core.Painter) {
			c.mu.RLock()
			defer c.mu.RUnlock()

			size := p.Size()
			style := tcell.StyleDefault.Foreground(tcell.PaletteColor(6))
			str := fmt.Sprintf("Time: %s", st.Now)
			y := size.H / 2
			x := (size.W - core.TextWidth(str)) / 2
			if x < 0 {
				x = 0
			}
			p.DrawText(x, y, str, style)
		}).
		WithRequiredSize(func(st *State, constraint core.Size) core.Size {
			c.mu.RLock()
			defer c.mu.RUnlock()
			return core.Size{W: core.TextWidth(st.Now) + 10, H: 3}
		})
	return c
}

// Widget returns the drawable widget for screen placement.
func (c *Clock) Widget() core.Widget {
	return c.canvas
}

// SetRefreshNotifier wires the screen's refresh channel. Call before Run.
func (c *Clock) SetRefreshNotifier(refreshChan chan<- bool) {
	c.refreshChan = refreshChan
}

// Run ticks once a second until Stop.
func (c *Clock) Run() error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			st := c.canvas.State()
			st.Now = time.Now().Format(st.Format)
			c.mu.Unlock()
			if c.refreshChan != nil {
				// Non-blocking send
				select {
				case c.refreshChan <- true:
				default:
				}
			}
		case <-c.stop:
			return nil
		}
	}
}

// Stop signals the Run loop to terminate.
func (c *Clock) Stop() {
	close(c.stop)
}
