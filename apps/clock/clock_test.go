package clock

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelkit/core"
)

func renderRow(w core.Widget, width, height, row int) string {
	buf := core.NewBuffer(width, height, tcell.StyleDefault)
	w.Draw(core.NewPainter(buf, core.Rect{W: width, H: height}))
	rs := make([]rune, width)
	for x, cell := range buf[row] {
		rs[x] = cell.Ch
	}
	return string(rs)
}

func TestClockDrawsCenteredTime(t *testing.T) {
	c := New("15:04:05")
	c.canvas.State().Now = "12:34:56"

	row := renderRow(c.Widget(), 24, 3, 1)
	if !strings.Contains(row, "Time: 12:34:56") {
		t.Fatalf("middle row = %q, want the time label", row)
	}
	if strings.HasPrefix(row, "T") {
		t.Errorf("label not centered: %q", row)
	}
}

func TestClockRequiredSizeTracksLabel(t *testing.T) {
	c := New("")
	c.canvas.State().Now = "12:34:56"

	got := c.Widget().RequiredSize(core.Size{W: 80, H: 24})
	if got.H != 3 {
		t.Errorf("height = %d, want 3", got.H)
	}
	if got.W <= core.TextWidth("12:34:56") {
		t.Errorf("width = %d, want room for label and padding", got.W)
	}
}

func TestClockRefusesFocus(t *testing.T) {
	c := New("")
	if c.Widget().TakeFocus(core.DirNone) {
		t.Error("clock should not accept focus")
	}
}

func TestRunStops(t *testing.T) {
	c := New("")
	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	c.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
