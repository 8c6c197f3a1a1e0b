/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Custom log formatter for jsonlens. Prints a colored level, an event prefix
for the pipeline's own log lines, the caller, and key=value fields in sorted order.
*/

package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CustomFormatter provides compact, human readable log lines
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
}

// Format formats a log entry
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var output strings.Builder

	if f.Timestamp {
		f.write(&output, 36, entry.Time.Format("2006-01-02 15:04:05.000"))
		output.WriteString(" ")
	}

	f.write(&output, f.getLevelColor(entry.Level), strings.ToUpper(entry.Level.String()))
	output.WriteString(" ")

	if prefix := eventPrefix(entry.Message); prefix != "" {
		f.write(&output, 35, "["+prefix+"]")
		output.WriteString(" ")
	}

	if f.Caller && entry.HasCaller() {
		f.write(&output, 33, fmt.Sprintf("[%s:%d]", filepath.Base(entry.Caller.File), entry.Caller.Line))
		output.WriteString(" ")
	}

	output.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		output.WriteString(" ")
		output.WriteString(f.formatFields(entry.Data))
	}

	output.WriteString("\n")
	return []byte(output.String()), nil
}

func (f *CustomFormatter) write(b *strings.Builder, color int, s string) {
	if f.Colors {
		fmt.Fprintf(b, "\033[%dm%s\033[0m", color, s)
		return
	}
	b.WriteString(s)
}

// getLevelColor returns the ANSI color code for a log level
func (f *CustomFormatter) getLevelColor(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return 37
	case logrus.InfoLevel:
		return 32
	case logrus.WarnLevel:
		return 33
	case logrus.ErrorLevel:
		return 31
	default:
		return 35
	}
}

// formatFields renders fields as key=value pairs, sorted by key
func (f *CustomFormatter) formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := formatValue(key, fields[key])
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", key, value))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", key, value))
		}
	}
	return strings.Join(parts, " ")
}

// eventPrefix tags the messages emitted by the Logger helpers
func eventPrefix(message string) string {
	switch message {
	case "Request completed", "Request failed":
		return "REQUEST"
	case "Schema inferred":
		return "INFER"
	case "Diff computed":
		return "DIFF"
	case "Records filtered":
		return "FILTER"
	}
	return ""
}

func formatValue(key string, value interface{}) string {
	switch v := value.(type) {
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format("15:04:05.000")
	case error:
		return v.Error()
	case string:
		if key == "request_id" && len(v) > 8 {
			return v[:8]
		}
		if len(v) > 80 {
			return v[:80] + "..."
		}
		return v
	case []byte:
		return fmt.Sprintf("[%d bytes]", len(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}
