package core

// Direction tells a widget where focus is coming from when the screen
// offers it, and which neighbour the screen should try when traversing.
type Direction int

const (
	// DirNone carries no positional information, e.g. programmatic focus
	// or a mouse click.
	DirNone Direction = iota
	// DirForward and DirBackward follow widget order (Tab traversal).
	DirForward
	DirBackward
	// The remaining directions are spatial (arrow-key traversal).
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirForward:
		return "forward"
	case DirBackward:
		return "backward"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "unknown"
}
