package clipboard

import (
	atotto "github.com/atotto/clipboard"
)

// Board is the system clipboard's text interface.
type Board interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System is the real clipboard, backed by atotto/clipboard.
type System struct{}

func (System) ReadAll() (string, error) {
	return atotto.ReadAll()
}

func (System) WriteAll(text string) error {
	return atotto.WriteAll(text)
}
