// Copyright © 2025 Texelkit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: core/termcolors.go
// Summary: Queries the terminal's default foreground and background colors via OSC 10/11.

package core

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

// QueryDefaultColors asks the controlling terminal for its default
// foreground and background colors using OSC 10 and OSC 11. It must run
// before the screen takes over the terminal. Terminals that do not
// answer within the deadline get the white-on-black fallback and a
// non-nil error.
func QueryDefaultColors() (fg, bg tcell.Color, err error) {
	fg = tcell.ColorWhite
	bg = tcell.ColorBlack

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return fg, bg, fmt.Errorf("failed to open /dev/tty: %w", err)
	}
	defer tty.Close()

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return fg, bg, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(int(tty.Fd()), oldState)

	if c, qerr := queryOSCColor(tty, 10); qerr == nil {
		fg = c
	} else {
		err = qerr
	}
	if c, qerr := queryOSCColor(tty, 11); qerr == nil {
		bg = c
	} else if err == nil {
		err = qerr
	}
	return fg, bg, err
}

// queryOSCColor sends an OSC color query and parses the rgb: reply. The
// read is deadline-bounded so an unresponsive terminal costs at most
// half a second.
func queryOSCColor(tty *os.File, code int) (tcell.Color, error) {
	if _, err := fmt.Fprintf(tty, "\x1b]%d;?\a", code); err != nil {
		return 0, fmt.Errorf("failed to write query: %w", err)
	}

	if err := tty.SetReadDeadline(time.Now().Add(500 * time.Millisecond)); err != nil {
		return 0, err
	}
	defer tty.SetReadDeadline(time.Time{})

	var resp []byte
	buf := make([]byte, 1)
	for {
		n, err := tty.Read(buf)
		if err != nil {
			return 0, fmt.Errorf("failed to read response: %w", err)
		}
		if n == 0 {
			continue
		}
		resp = append(resp, buf[0])
		if buf[0] == '\a' {
			break
		}
		if len(resp) >= 2 && resp[len(resp)-2] == '\x1b' && resp[len(resp)-1] == '\\' {
			break
		}
	}

	re := regexp.MustCompile(fmt.Sprintf(`\x1b\]%d;rgb:([0-9A-Fa-f]+)/([0-9A-Fa-f]+)/([0-9A-Fa-f]+)`, code))
	m := re.FindStringSubmatch(string(resp))
	if m == nil {
		return 0, fmt.Errorf("unexpected response %q", resp)
	}
	return tcell.NewRGBColor(
		parseColorComponent(m[1]),
		parseColorComponent(m[2]),
		parseColorComponent(m[3]),
	), nil
}

// parseColorComponent scales a 1 to 4 digit hex component to 8 bits.
func parseColorComponent(s string) int32 {
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0
	}
	switch len(s) {
	case 1:
		return int32(v * 17)
	case 2:
		return int32(v)
	case 3:
		return int32(v >> 4)
	default:
		return int32(v >> 8)
	}
}
