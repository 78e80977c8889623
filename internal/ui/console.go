package ui

import (
	"fmt"
	"io"
)

// clearScreen clears the terminal and homes the cursor.
const clearScreen = "\x1B[2J\x1B[H"

// Renderer consumes one formatted table per render cycle.
type Renderer interface {
	Draw(table Table) error
	Close()
}

// Console is the plain renderer: full clear and reprint on every cycle,
// writing to any io.Writer. Used with -no-ui and in tests.
type Console struct {
	w io.Writer
}

// NewConsole returns a renderer writing ANSI-cleared redraws to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Draw(table Table) error {
	if _, err := io.WriteString(c.w, clearScreen); err != nil {
		return err
	}
	for _, line := range table.Lines() {
		if _, err := fmt.Fprintln(c.w, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) Close() {}
