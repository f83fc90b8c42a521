package core

import "github.com/gdamore/tcell/v2"

// Driver abstracts the terminal surface the screen renders to. It mirrors
// the subset of tcell.Screen functionality the screen needs so tests can
// run against a simulation screen and remote surfaces can slot in later.
type Driver interface {
	Init() error
	Fini()
	Size() (int, int)
	SetStyle(style tcell.Style)
	HideCursor()
	EnableMouse()
	Show()
	Sync()
	PollEvent() tcell.Event
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}
