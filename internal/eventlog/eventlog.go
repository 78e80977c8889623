package eventlog

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeLayout = "2006-01-02 15:04:05"

// Log is the durable append-only record of reachability-loss events and the
// final-state summary. A write failure disables the log for the rest of the
// run rather than aborting: the monitor keeps probing, a diagnostic is
// emitted once.
type Log struct {
	mu       sync.Mutex
	w        io.Writer
	disabled bool
}

// New opens (or creates) the append log at path. The lumberjack writer keeps
// the file from growing without bound on indefinite runs.
func New(path string) *Log {
	return &Log{w: &lumberjack.Logger{
		Filename: path,
		MaxSize:  100, // MB
	}}
}

// NewWithWriter wraps an arbitrary writer; used by tests and by callers that
// manage the file themselves.
func NewWithWriter(w io.Writer) *Log {
	return &Log{w: w}
}

// Unreachable appends one event line naming every target that lost
// reachability this cycle.
func (l *Log) Unreachable(at time.Time, targets []string) {
	if len(targets) == 0 {
		return
	}
	l.append(fmt.Sprintf("[%s] unreachable: %s", at.Format(timeLayout), strings.Join(targets, ", ")))
}

// FinalState appends the trailing summary block: a header line followed by
// the last rendered table.
func (l *Log) FinalState(at time.Time, lines []string) {
	block := make([]string, 0, len(lines)+1)
	block = append(block, fmt.Sprintf("[%s] Final state:", at.Format(timeLayout)))
	block = append(block, lines...)
	l.append(block...)
}

func (l *Log) append(lines ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disabled {
		return
	}
	for _, line := range lines {
		if _, err := io.WriteString(l.w, line+"\n"); err != nil {
			l.disabled = true
			logrus.WithError(err).Warn("event log write failed, logging disabled for the rest of the run")
			return
		}
	}
}

// Close flushes the underlying writer when it supports closing.
func (l *Log) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if closer, ok := l.w.(io.Closer); ok {
		_ = closer.Close()
	}
}
