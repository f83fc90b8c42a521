// Copyright © 2025 Texelkit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/sourceview/sourceview.go
// Summary: Scrollable syntax-highlighted file viewer built on core.Canvas.

// Package sourceview renders a source file with Chroma highlighting. The
// widget reports the full content size as its requirement and scrolls
// within whatever the screen grants.
package sourceview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/go-enry/go-enry/v2"

	"github.com/framegrace/texelkit/core"
)

const (
	defaultStyleName = "catppuccin-mocha"
	defaultTabWidth  = 4
	wheelLines       = 3
)

// Options selects the Chroma style and tab rendering width.
type Options struct {
	Style    string
	TabWidth int
}

// span is a styled run of text within one line.
type span struct {
	text  string
	style tcell.Style
}

// State is the viewer's content and scroll position.
type State struct {
	Path     string
	lines    [][]span
	width    int
	offset   int // top visible line
	col      int // leftmost visible column
	viewport core.Size
	laidOut  bool
}

// Open reads and highlights path, returning a scrollable canvas widget.
func Open(path string, opts Options) (*core.Canvas[State], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if opts.Style == "" {
		opts.Style = defaultStyleName
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = defaultTabWidth
	}

	lines, width := highlight(path, string(data), opts.Style, opts.TabWidth)
	return core.NewCanvas(State{Path: path, lines: lines, width: width}).
		WithDraw(drawSource).
		WithHandleEvent(handleScroll).
		WithRequiredSize(func(st *State, constraint core.Size) core.Size {
			// The full content size; the screen clamps what it grants.
			return core.Size{W: st.width, H: len(st.lines)}
		}).
		WithLayout(func(st *State, size core.Size) {
			st.viewport = size
			st.laidOut = true
			clampScroll(st)
		}).
		WithTakeFocus(func(st *State, dir core.Direction) bool {
			return true
		}).
		WithNeedsRelayout(func(st *State) bool {
			return !st.laidOut
		}), nil
}

func drawSource(st *State, p *core.Painter) {
	size := p.Size()
	for row := 0; row < size.H; row++ {
		idx := st.offset + row
		if idx >= len(st.lines) {
			break
		}
		x := -st.col
		for _, sp := range st.lines[idx] {
			p.DrawText(x, row, sp.text, sp.style)
			x += core.TextWidth(sp.text)
		}
	}
}

func handleScroll(st *State, ev tcell.Event) core.EventResult {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyUp:
			st.offset--
		case tcell.KeyDown:
			st.offset++
		case tcell.KeyLeft:
			st.col--
		case tcell.KeyRight:
			st.col++
		case tcell.KeyPgUp:
			st.offset -= st.viewport.H
		case tcell.KeyPgDn:
			st.offset += st.viewport.H
		case tcell.KeyHome:
			st.offset, st.col = 0, 0
		case tcell.KeyEnd:
			st.offset = len(st.lines) - st.viewport.H
		default:
			return core.Ignored()
		}
	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			st.offset -= wheelLines
		case ev.Buttons()&tcell.WheelDown != 0:
			st.offset += wheelLines
		default:
			return core.Ignored()
		}
	default:
		return core.Ignored()
	}
	clampScroll(st)
	return core.Consumed()
}

func clampScroll(st *State) {
	maxOffset := len(st.lines) - st.viewport.H
	if maxOffset < 0 {
		maxOffset = 0
	}
	if st.offset > maxOffset {
		st.offset = maxOffset
	}
	if st.offset < 0 {
		st.offset = 0
	}

	maxCol := st.width - st.viewport.W
	if maxCol < 0 {
		maxCol = 0
	}
	if st.col > maxCol {
		st.col = maxCol
	}
	if st.col < 0 {
		st.col = 0
	}
}

// highlight tokenizes content and splits it into styled lines, returning
// the lines and the widest line's cell width.
func highlight(path, content, styleName string, tabWidth int) ([][]span, int) {
	style := styles.Get(styleName)
	lexer := chroma.Coalesce(lexerFor(path, content))

	tokens, err := chroma.Tokenise(lexer, nil, content)
	if err != nil {
		return plainLines(content, tabWidth)
	}

	var (
		lines [][]span
		cur   []span
		width int
		maxW  int
	)
	flush := func() {
		lines = append(lines, cur)
		if width > maxW {
			maxW = width
		}
		cur = nil
		width = 0
	}
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		st := styleFor(style.Get(tok.Type))
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				flush()
			}
			if part == "" {
				continue
			}
			part = expandTabs(part, tabWidth)
			cur = append(cur, span{text: part, style: st})
			width += core.TextWidth(part)
		}
	}
	flush()
	// A trailing newline leaves an empty artifact line; drop it.
	if strings.HasSuffix(content, "\n") && len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines, maxW
}

// lexerFor picks a lexer via enry's filename+content detection, then
// Chroma's own filename match and content analysis.
func lexerFor(path, content string) chroma.Lexer {
	if lang := enry.GetLanguage(filepath.Base(path), []byte(content)); lang != "" && lang != "Other" {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if l := lexers.Match(filepath.Base(path)); l != nil {
		return l
	}
	if l := lexers.Analyse(content); l != nil {
		return l
	}
	return lexers.Fallback
}

func styleFor(entry chroma.StyleEntry) tcell.Style {
	st := tcell.StyleDefault
	if entry.Colour.IsSet() {
		st = st.Foreground(tcell.NewRGBColor(
			int32(entry.Colour.Red()),
			int32(entry.Colour.Green()),
			int32(entry.Colour.Blue()),
		))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func plainLines(content string, tabWidth int) ([][]span, int) {
	var lines [][]span
	maxW := 0
	for _, raw := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		raw = expandTabs(raw, tabWidth)
		var cur []span
		if raw != "" {
			cur = append(cur, span{text: raw, style: tcell.StyleDefault})
		}
		if w := core.TextWidth(raw); w > maxW {
			maxW = w
		}
		lines = append(lines, cur)
	}
	return lines, maxW
}

func expandTabs(s string, tabWidth int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
