package contract

import (
	"fmt"
	"io"
	"os"
	"time"
)

// LogOutput is where verbose messages go. Reports own stdout.
var LogOutput io.Writer = os.Stderr

// Logger writes informational messages gated by a verbosity level.
// A nil *Logger discards everything.
type Logger struct {
	Verbosity int
	Out       io.Writer
	now       func() time.Time
}

// NewLogger creates a logger writing to out at the given verbosity.
func NewLogger(verbosity int, out io.Writer) *Logger {
	return &Logger{Verbosity: verbosity, Out: out, now: time.Now}
}

// Infof writes a message unconditionally.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(0, format, args...)
}

// V writes a message only when the verbosity is at least level.
func (l *Logger) V(level int, format string, args ...any) {
	l.logf(level, format, args...)
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level int) bool {
	return l != nil && l.Out != nil && l.Verbosity >= level
}

func (l *Logger) logf(level int, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	prefix := fmt.Sprintf("%s %s", InfoColor.Sprint("INFO"), now().Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(l.Out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
