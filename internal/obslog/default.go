package obslog

import "os"

var dLog Logger = NewConsoleLogger(os.Stdout)

// SetDefault sets the package-level default logger.
func SetDefault(l Logger) {
	if l != nil {
		dLog = l
	}
}

// Default returns the package-level default logger. Prefer carrying a
// Logger explicitly (driver.Driver, sweep.Run) over calling this;
// it exists for cmd/tiercache-sim's early startup before a per-run
// logger has been constructed.
func Default() Logger { return dLog }

func Info(args ...any)  { dLog.Info(args...) }
func Debug(args ...any) { dLog.Debug(args...) }
func Warning(args ...any) { dLog.Warning(args...) }
func Error(args ...any) { dLog.Error(args...) }
