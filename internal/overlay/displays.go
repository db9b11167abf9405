package overlay

import (
	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// Displays lists the active displays.
type Displays interface {
	Bounds() []Rect
}

// ScreenDisplays reads display geometry through kbinani/screenshot. The
// first entry is the primary display.
type ScreenDisplays struct{}

func (ScreenDisplays) Bounds() []Rect {
	n := screenshot.NumActiveDisplays()
	out := make([]Rect, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		out = append(out, Rect{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()})
	}
	return out
}

// Cursor reports the mouse position.
type Cursor interface {
	Position() Point
}

// RobotgoCursor reads the mouse position through robotgo.
type RobotgoCursor struct{}

func (RobotgoCursor) Position() Point {
	x, y := robotgo.Location()
	return Point{X: x, Y: y}
}
