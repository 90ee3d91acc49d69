package obslog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewConsoleLogger returns a Logger with a human-readable console
// format (UTC timestamps, bracketed level) writing to out.
func NewConsoleLogger(out io.Writer) Logger {
	writer := zerolog.ConsoleWriter{
		Out:              out,
		TimeFormat:       time.RFC3339,
		TimeLocation:     time.UTC,
		FormatLevel:      formatLevel,
		FormatTimestamp:  formatTimestamp,
		PartsOrder:       []string{"time", "level", "LogID", "message"},
		FieldsExclude:    []string{"LogID"},
		FormatPrepare:    formatLogID,
		FormatFieldValue: removeNilFields,
	}

	zl := zerolog.New(writer).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &logger{logger: zl}
}

func formatLogID(m map[string]interface{}) error {
	if ok := m["LogID"]; ok != nil {
		m["LogID"] = "[" + fmt.Sprint(m["LogID"]) + "]"
	}
	return nil
}

func formatTimestamp(input interface{}) string {
	return fmt.Sprintf("[%s]", input)
}

func removeNilFields(input interface{}) string {
	if input == nil {
		return ""
	}
	return fmt.Sprintf("%v", input)
}

func formatLevel(input interface{}) string {
	const tmpl = "[%s]"
	strLvl, ok := input.(string)
	if !ok {
		return ""
	}
	switch strLvl {
	case levelTraceStr:
		return fmt.Sprintf(tmpl, "TRC")
	case levelDebugStr:
		return fmt.Sprintf(tmpl, "DBG")
	case levelInfoStr:
		return fmt.Sprintf(tmpl, "INF")
	case levelWarnStr:
		return fmt.Sprintf(tmpl, "WRN")
	case levelErrorStr:
		return fmt.Sprintf(tmpl, "ERR")
	case levelPanicStr:
		return fmt.Sprintf(tmpl, "PNC")
	default:
		return strings.ToUpper(fmt.Sprintf(tmpl, strLvl[:min(3, len(strLvl))]))
	}
}
