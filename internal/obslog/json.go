package obslog

import (
	"io"

	"github.com/rs/zerolog"
)

// NewJSONLogger returns a Logger that writes structured JSON to out.
func NewJSONLogger(out io.Writer) Logger {
	zl := zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &logger{logger: zl, outputs: []io.Writer{out}}
}
