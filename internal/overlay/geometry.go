package overlay

// Point is a position in global screen coordinates.
type Point struct {
	X, Y int
}

// Rect is a display's bounds in global screen coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Place returns the top-left corner that centers a w×h window on display.
// A window larger than the display is pinned to its top-left corner. An
// empty display centers the window on fallback.
func Place(display Rect, w, h int, fallback Point) (x, y int) {
	if display.W <= 0 || display.H <= 0 {
		return fallback.X - w/2, fallback.Y - h/2
	}
	x = display.X + (display.W-w)/2
	y = display.Y + (display.H-h)/2
	if x < display.X {
		x = display.X
	}
	if y < display.Y {
		y = display.Y
	}
	return x, y
}
