package clipboard

import (
	"fmt"
	"sync"
)

// Guard snapshots the clipboard text and puts it back on Release.
// Acquire it before anything writes to the clipboard and defer Release:
//
//	g, err := clipboard.Acquire(board)
//	if err != nil { ... }
//	defer g.Release()
type Guard struct {
	board    Board
	original string
	once     sync.Once
	err      error
}

// Acquire reads and retains the current clipboard text.
func Acquire(board Board) (*Guard, error) {
	original, err := board.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read clipboard: %w", err)
	}
	return &Guard{board: board, original: original}, nil
}

// Original returns the snapshot taken by Acquire.
func (g *Guard) Original() string {
	return g.original
}

// Changed reports whether text counts as new clipboard content: non-empty
// and different from the snapshot.
func (g *Guard) Changed(text string) bool {
	return text != "" && text != g.original
}

// Release writes the snapshot back. Only the first call touches the
// clipboard; later calls return the first result.
func (g *Guard) Release() error {
	g.once.Do(func() {
		if err := g.board.WriteAll(g.original); err != nil {
			g.err = fmt.Errorf("failed to restore clipboard: %w", err)
		}
	})
	return g.err
}
