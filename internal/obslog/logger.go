// Package obslog provides the structured logger used across the
// simulator: a zerolog-backed console/JSON logger behind a small
// interface, generalized from the teacher logger package so each
// simulation run (see internal/sweep) can carry its own sub-logger
// instead of mutating a single process-wide default.
package obslog

import "io"

// Level represents the logging level.
type Level uint

// Logging levels, ordered from most to least verbose.
const (
	LevelTrace Level = iota + 1
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelPanic
)

const (
	levelTraceStr = "trace"
	levelDebugStr = "debug"
	levelInfoStr  = "info"
	levelWarnStr  = "warn"
	levelErrorStr = "error"
	levelPanicStr = "panic"
)

// Logger is the logging interface used throughout the simulator.
type Logger interface {
	Trace(args ...any)
	Tracef(format string, args ...any)
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warning(args ...any)
	Warningf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Panic(args ...any)
	Panicf(format string, args ...any)

	SetLevel(level Level)
	GetLevel() Level

	SetOutput(out ...io.Writer)
	GetOutput() []io.Writer

	AddField(key string, value any)
	SetLogID(value any)

	// SubLogger returns a new Logger that shares this one's output and
	// level but prefixes every message, e.g. with a per-run identifier
	// in internal/sweep's parallel fan-out.
	SubLogger(format string, args ...any) Logger
}
