// Copyright © 2025 Texelkit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: core/driver_tcell.go
// Summary: Implements the tcell-backed Driver used by the screen.
// Usage: Wrap a tcell.Screen (real or simulation) and hand it to NewScreenWithDriver.

package core

import "github.com/gdamore/tcell/v2"

// TcellDriver adapts a tcell.Screen to the Driver interface.
type TcellDriver struct {
	screen tcell.Screen
}

// NewTcellDriver wraps the provided screen.
func NewTcellDriver(screen tcell.Screen) *TcellDriver {
	return &TcellDriver{screen: screen}
}

func (d *TcellDriver) Init() error {
	return d.screen.Init()
}

func (d *TcellDriver) Fini() {
	d.screen.Fini()
}

func (d *TcellDriver) Size() (int, int) {
	return d.screen.Size()
}

func (d *TcellDriver) SetStyle(style tcell.Style) {
	d.screen.SetStyle(style)
}

func (d *TcellDriver) HideCursor() {
	d.screen.HideCursor()
}

func (d *TcellDriver) EnableMouse() {
	d.screen.EnableMouse()
}

func (d *TcellDriver) Show() {
	d.screen.Show()
}

func (d *TcellDriver) Sync() {
	d.screen.Sync()
}

func (d *TcellDriver) PollEvent() tcell.Event {
	return d.screen.PollEvent()
}

func (d *TcellDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	d.screen.SetContent(x, y, mainc, combc, style)
}

// Underlying exposes the wrapped tcell.Screen for code paths that need
// direct access.
func (d *TcellDriver) Underlying() tcell.Screen {
	return d.screen
}

var _ Driver = (*TcellDriver)(nil)
