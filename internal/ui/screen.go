package ui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Screen renders the table full-screen via tcell: bold header, one row per
// target, rows flagged unreachable drawn in red. The event loop translates
// q and Ctrl-C into the onQuit callback so the run can wind down cleanly.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen
	closed bool
}

// NewScreen initializes the terminal and starts the key event loop.
func NewScreen(onQuit func()) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	s := &Screen{screen: screen}
	go s.pollEvents(onQuit)
	return s, nil
}

func (s *Screen) pollEvents(onQuit func()) {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				onQuit()
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

// Draw repaints the whole table.
func (s *Screen) Draw(table Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	s.screen.Clear()
	width, height := s.screen.Size()
	if width < 20 || height < 2 {
		s.screen.Show()
		return nil
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	drawText(s.screen, 0, 0, width, " pingmon  "+now+"  (q to quit)", tcell.StyleDefault.Bold(true))
	drawText(s.screen, 0, 1, width, table.Header, tcell.StyleDefault.Bold(true))

	for i, row := range table.Rows {
		y := i + 2
		if y >= height {
			break
		}
		style := tcell.StyleDefault
		if row.Unreachable {
			style = style.Foreground(tcell.ColorRed)
		}
		drawText(s.screen, 0, y, width, row.Text, style)
	}

	s.screen.Show()
	return nil
}

// Close restores the terminal. Draw calls after Close are no-ops.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.screen.Fini()
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+width {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
	for col < x+width {
		screen.SetContent(col, y, ' ', nil, tcell.StyleDefault)
		col++
	}
}
