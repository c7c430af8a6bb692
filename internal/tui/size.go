package tui

import (
	"errors"
	"fmt"

	"golang.org/x/term"
)

// Minimum terminal size for the practice screen.
const (
	MinWidth  = 43
	MinHeight = 14
)

// ErrTerminalTooSmall is returned when the terminal cannot fit the screen.
var ErrTerminalTooSmall = errors.New("terminal too small")

// CheckSize reports whether a width x height terminal fits the screen.
func CheckSize(width, height int) error {
	if height < MinHeight {
		return fmt.Errorf("%w: screen height too small (%d < %d)", ErrTerminalTooSmall, height, MinHeight)
	}
	if width < MinWidth {
		return fmt.Errorf("%w: screen width too small (%d < %d)", ErrTerminalTooSmall, width, MinWidth)
	}
	return nil
}

// TerminalSize returns the size of the terminal on fd and checks it fits.
func TerminalSize(fd int) (width, height int, err error) {
	width, height, err = term.GetSize(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("read terminal size: %w", err)
	}
	return width, height, CheckSize(width, height)
}

// DefaultLength is the random question length that fits on one line of a
// terminal width columns wide.
func DefaultLength(width int) int {
	n := width/cellWidth - 1
	if n < 1 {
		return 1
	}
	return n
}
