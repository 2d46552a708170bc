// Package logx wraps github.com/voodooEntity/archivist with the level and
// formatting conventions observed across the retrieval pack: short,
// occasionally emoji-prefixed messages, Printf-style formatting rather
// than archivist's own comma-joined variadic style.
package logx

import (
	"fmt"

	"github.com/voodooEntity/archivist"
)

// Logger is the logging handle threaded through the Dispatcher,
// Orchestrator, Transport and HTTP layer.
type Logger struct {
	level Level
}

// Level names the archivist log level to report at and above.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

func (l Level) archivistName() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "warning"
	}
}

// New builds a Logger writing to stdout at the given level. debugDepth
// only matters when level is LevelDebug; archivist itself has no
// granular debug depths, so it is accepted for API compatibility but
// does not change behavior beyond enabling debug-level output.
func New(level Level, debugDepth int) *Logger {
	archivist.SetLogLevel(level.archivistName())
	return &Logger{level: level}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	archivist.Debug(fmt.Sprintf(format, args...))
}

// DebugDetail logs at a deeper debug level for per-connection chatter
// that's too verbose for regular Debug. archivist has no separate
// granular debug levels, so this logs at the same debug level.
func (l *Logger) DebugDetail(format string, args ...interface{}) {
	archivist.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...interface{}) {
	archivist.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warning(format string, args ...interface{}) {
	archivist.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	archivist.Error(fmt.Sprintf(format, args...))
}

// Fatal logs at fatal severity. Unlike the stdlib log.Fatal it does not
// exit the process — the core is a long-running service component, and
// fatal chain errors are reported to the caller via on_error instead.
func (l *Logger) Fatal(format string, args ...interface{}) {
	archivist.Fatal(fmt.Sprintf(format, args...))
}

// Discard returns a Logger that writes nowhere but stdout at error level,
// used by tests that don't want startup log noise but still want a
// non-nil Logger.
func Discard() *Logger {
	return New(LevelError, 0)
}
