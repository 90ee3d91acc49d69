package obslog

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type logger struct {
	logger zerolog.Logger

	hasLogID bool
	prefix   string
	outputs  []io.Writer
}

func (l *logger) Trace(args ...any) { l.logger.Trace().Msg(l.prefix + fmt.Sprint(args...)) }

func (l *logger) Tracef(format string, args ...any) {
	l.logger.Trace().Msgf(l.prefix+format, args...)
}

func (l *logger) Debug(args ...any) { l.logger.Debug().Msg(l.prefix + fmt.Sprint(args...)) }

func (l *logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(l.prefix+format, args...)
}

func (l *logger) Info(args ...any) { l.logger.Info().Msg(l.prefix + fmt.Sprint(args...)) }

func (l *logger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(l.prefix+format, args...)
}

func (l *logger) Warning(args ...any) { l.logger.Warn().Msg(l.prefix + fmt.Sprint(args...)) }

func (l *logger) Warningf(format string, args ...any) {
	l.logger.Warn().Msgf(l.prefix+format, args...)
}

func (l *logger) Error(args ...any) { l.logger.Error().Msg(l.prefix + fmt.Sprint(args...)) }

func (l *logger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(l.prefix+format, args...)
}

// Panic logs at Panic level and panics via zerolog's Panic event.
func (l *logger) Panic(args ...any) { l.logger.Panic().Msg(l.prefix + fmt.Sprint(args...)) }

func (l *logger) Panicf(format string, args ...any) {
	l.logger.Panic().Msgf(l.prefix+format, args...)
}

func (l *logger) SetLevel(level Level) {
	zerologLvl := zerolog.NoLevel
	switch level {
	case LevelTrace:
		zerologLvl = zerolog.TraceLevel
	case LevelDebug:
		zerologLvl = zerolog.DebugLevel
	case LevelInfo:
		zerologLvl = zerolog.InfoLevel
	case LevelWarning:
		zerologLvl = zerolog.WarnLevel
	case LevelError:
		zerologLvl = zerolog.ErrorLevel
	case LevelPanic:
		zerologLvl = zerolog.PanicLevel
	}
	l.logger = l.logger.Level(zerologLvl)
}

func (l *logger) GetLevel() Level {
	switch l.logger.GetLevel().String() {
	case levelTraceStr:
		return LevelTrace
	case levelDebugStr:
		return LevelDebug
	case levelInfoStr:
		return LevelInfo
	case levelWarnStr:
		return LevelWarning
	case levelErrorStr:
		return LevelError
	case levelPanicStr:
		return LevelPanic
	default:
		return LevelInfo
	}
}

func (l *logger) SetOutput(out ...io.Writer) {
	if len(out) == 1 {
		l.logger = l.logger.Output(out[0])
	} else {
		l.logger = l.logger.Output(zerolog.MultiLevelWriter(out...))
	}

	l.outputs = append([]io.Writer{}, out...)
}

func (l *logger) GetOutput() []io.Writer { return l.outputs }

func (l *logger) AddField(key string, value any) {
	l.logger = l.logger.With().Interface(key, value).Logger()
}

func (l *logger) SetLogID(value any) {
	if !l.hasLogID {
		l.logger = l.logger.With().Interface("LogID", value).Logger()
		l.hasLogID = true
	}
}

// SubLogger returns a new Logger sharing this one's zerolog.Logger and
// outputs but with an additional message prefix, used by internal/sweep
// to tag each parallel run's log lines.
func (l *logger) SubLogger(format string, args ...any) Logger {
	sub := *l
	sub.prefix = l.prefix + "[" + fmt.Sprintf(format, args...) + "] "
	return &sub
}

// Fatal logs msg at Error level with args, then terminates the process
// with a non-zero exit code. This is the single funnel point for the
// "invariant violation" and "unrecoverable I/O error" branches of the
// error taxonomy in SPEC_FULL.md §7 — never an ordinary error return.
func Fatal(l Logger, msg string, args ...any) {
	l.Errorf(msg, args...)
	os.Exit(1)
}
