// Copyright © 2025 Texelkit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelkit-demo/main.go
// Summary: Interactive demo wiring clock, counter, status and help widgets to a screen.
// Usage: Run `texelkit-demo` in a terminal; Tab cycles focus, Ctrl-Q quits.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/framegrace/texelkit/apps/clock"
	"github.com/framegrace/texelkit/apps/counter"
	"github.com/framegrace/texelkit/config"
	"github.com/framegrace/texelkit/core"
	"github.com/framegrace/texelkit/tracelog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("texelkit-demo", flag.ContinueOnError)
	traceDB := fs.String("trace-db", "", "Path to the dispatch trace database (overrides config)")
	showTrace := fs.Int("show-trace", 0, "Print the last N dispatch traces on exit")
	logFile := fs.String("log", "", "File to append log output")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal")
	}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	sysCfg := config.System()

	// Query terminal colors before tcell takes the terminal over.
	bgStyle := tcell.StyleDefault
	useBG := sysCfg.GetString("screen", "background", "auto") == "auto"
	if useBG {
		fg, bg, err := core.QueryDefaultColors()
		if err != nil {
			log.Printf("Demo: default color query failed: %v", err)
		}
		bgStyle = tcell.StyleDefault.Foreground(fg).Background(bg)
	}

	scr, err := core.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	defer scr.Close()

	if useBG {
		scr.SetBackgroundStyle(bgStyle)
	}
	if sysCfg.GetBool("screen", "mouse", true) {
		scr.EnableMouse()
	}

	dbPath := *traceDB
	if dbPath == "" {
		dbPath = sysCfg.GetString("screen", "trace_db", "")
	}
	var tl *tracelog.Log
	if dbPath != "" {
		tl, err = tracelog.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open trace log: %w", err)
		}
		defer tl.Close()
		scr.SetTracer(tl)
	}

	clk := clock.New(config.App("clock").GetString("clock", "format", ""))
	clk.SetRefreshNotifier(scr.RefreshNotifier())
	scr.AddWidget(clk.Widget(), 2, 1)
	go func() {
		if err := clk.Run(); err != nil {
			log.Printf("Demo: clock exited with error: %v", err)
		}
	}()
	defer clk.Stop()

	status := newStatus("Press + or - to count; every tenth milestone lands here.")
	cnt := counter.New(config.App("counter").GetInt("counter", "step", 1), func(count int) {
		status.State().Text = fmt.Sprintf("Milestone: reached %d", count)
		scr.Refresh()
	})
	scr.AddWidget(cnt, 2, 5)
	scr.AddWidget(status, 2, 9)
	scr.AddWidget(newHelp(), 2, 12)

	if err := scr.Run(); err != nil {
		return err
	}

	if tl != nil && *showTrace > 0 {
		tl.Flush()
		traces, err := tl.Tail(*showTrace)
		if err != nil {
			return fmt.Errorf("failed to read traces: %w", err)
		}
		for i := len(traces) - 1; i >= 0; i-- {
			tr := traces[i]
			fmt.Printf("%6d %s %-7s %-20s consumed=%-5t %s\n",
				tr.Seq, tr.Time.Format("15:04:05.000"), tr.Kind, tr.Detail, tr.Consumed, tr.Target)
		}
		if n, err := tl.CountConsumed(); err == nil {
			fmt.Printf("%d consumed dispatches total\n", n)
		}
	}
	return nil
}

type statusState struct {
	Text string
}

// newStatus builds a one-line message bar. Milestone callbacks and draws
// both run on the screen's loop goroutine, so the state needs no lock.
func newStatus(initial string) *core.Canvas[statusState] {
	return core.NewCanvas(statusState{Text: initial}).
		WithDraw(func(st *statusState, p *core.Painter) {
			p.DrawText(0, 0, st.Text, tcell.StyleDefault.Dim(true))
		}).
		WithRequiredSize(func(st *statusState, constraint core.Size) core.Size {
			return core.Size{W: constraint.W, H: 1}
		})
}

func newHelp() *core.Canvas[struct{}] {
	lines := []string{
		"Tab / Shift-Tab cycle focus, Alt+arrows move spatially",
		"Click focuses the widget under the cursor, Ctrl-Q quits",
	}
	width := 0
	for _, l := range lines {
		if w := core.TextWidth(l); w > width {
			width = w
		}
	}
	return core.NewCanvas(struct{}{}).
		WithDraw(func(_ *struct{}, p *core.Painter) {
			style := tcell.StyleDefault.Dim(true)
			for i, l := range lines {
				p.DrawText(0, i, l, style)
			}
		}).
		WithRequiredSize(func(_ *struct{}, constraint core.Size) core.Size {
			return core.Size{W: width, H: len(lines)}
		})
}
