/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Structured logging for jsonlens. Wraps logrus with an optional timestamped
log file, selectable output formats, and helpers that attach consistent fields to
request, inference, diff and filter events.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatCustom LogFormat = "custom"
)

// filePrefix names every log file this package writes
const filePrefix = "jsonlens_"

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level     LogLevel  `json:"level" mapstructure:"level"`
	Format    LogFormat `json:"format" mapstructure:"format"`
	OutputDir string    `json:"output_dir" mapstructure:"output_dir"` // empty disables the log file
	MaxFiles  int       `json:"max_files" mapstructure:"max_files"`
	Timestamp bool      `json:"timestamp" mapstructure:"timestamp"`
	Caller    bool      `json:"caller" mapstructure:"caller"`
	Colors    bool      `json:"colors" mapstructure:"colors"`
}

// DefaultConfig returns console-only text logging at info level
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatText,
		MaxFiles:  10,
		Timestamp: true,
		Colors:    true,
	}
}

// Validate checks the LoggerConfig for invalid values
func (c *LoggerConfig) Validate() error {
	if c.OutputDir != "" && c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive when output_dir is set")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

// Logger provides structured logging for the inspection pipeline
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	fileHandle *os.File
	filePath   string
	startTime  time.Time
}

// NewLogger creates a new logger instance. A nil config uses DefaultConfig.
func NewLogger(config *LoggerConfig) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := &Logger{
		config:    config,
		logger:    logrus.New(),
		startTime: time.Now(),
	}

	if err := l.setup(os.Stderr); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return l, nil
}

// NewWithWriter creates a logger that writes only to w, with no log file
func NewWithWriter(config *LoggerConfig, w io.Writer) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.OutputDir = ""
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := &Logger{config: &cfg, logger: logrus.New(), startTime: time.Now()}
	if err := l.setup(w); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return l, nil
}

func (l *Logger) setup(console io.Writer) error {
	level, err := logrus.ParseLevel(string(l.config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)
	l.logger.SetReportCaller(l.config.Caller)
	l.logger.SetOutput(console)

	formatter, err := NewFormatter(l.config)
	if err != nil {
		return err
	}
	l.logger.SetFormatter(formatter)

	return l.setupFileOutput(console)
}

// NewFormatter builds the logrus formatter selected by the config
func NewFormatter(config *LoggerConfig) (logrus.Formatter, error) {
	callerPrettyfier := func(f *runtime.Frame) (string, string) {
		return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
	}

	switch config.Format {
	case LogFormatJSON:
		return &logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339,
			DisableTimestamp: !config.Timestamp,
			CallerPrettyfier: callerPrettyfier,
		}, nil
	case LogFormatText:
		return &logrus.TextFormatter{
			FullTimestamp:    config.Timestamp,
			DisableTimestamp: !config.Timestamp,
			TimestampFormat:  time.RFC3339,
			ForceColors:      config.Colors,
			DisableColors:    !config.Colors,
			CallerPrettyfier: callerPrettyfier,
		}, nil
	case LogFormatCustom:
		return &CustomFormatter{
			Timestamp: config.Timestamp,
			Caller:    config.Caller,
			Colors:    config.Colors,
		}, nil
	}
	return nil, fmt.Errorf("unsupported log format: %s", config.Format)
}

func (l *Logger) setupFileOutput(console io.Writer) error {
	if l.config.OutputDir == "" {
		return nil
	}

	if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("%s%s.log", filePrefix, l.startTime.Format("2006-01-02_15-04-05.000"))
	path := filepath.Join(l.config.OutputDir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	l.fileHandle = file
	l.filePath = path
	l.logger.SetOutput(io.MultiWriter(console, file))

	l.logger.WithFields(logrus.Fields{
		"start_time": l.startTime.Format(time.RFC3339),
		"log_file":   path,
		"level":      l.config.Level,
		"format":     l.config.Format,
	}).Debug("Logging initialized")

	return nil
}

// FilePath returns the active log file, or "" when logging to the console only
func (l *Logger) FilePath() string {
	return l.filePath
}

// LogRequest logs a completed HTTP execution
func (l *Logger) LogRequest(id, method, url string, status int, duration time.Duration, err error) {
	entry := l.logger.WithFields(logrus.Fields{
		"request_id": id,
		"method":     method,
		"url":        url,
		"status":     status,
		"duration":   duration,
	})
	if err != nil {
		entry.WithError(err).Warn("Request failed")
		return
	}
	entry.Info("Request completed")
}

// LogInference logs a schema inference
func (l *Logger) LogInference(bodyBytes int, fields, numericFields int, cached bool) {
	l.logger.WithFields(logrus.Fields{
		"body_bytes":     bodyBytes,
		"fields":         fields,
		"numeric_fields": numericFields,
		"cached":         cached,
	}).Debug("Schema inferred")
}

// LogDiff logs the outcome of a structural diff
func (l *Logger) LogDiff(added, removed, changed, unchanged int) {
	l.logger.WithFields(logrus.Fields{
		"added":     added,
		"removed":   removed,
		"changed":   changed,
		"unchanged": unchanged,
	}).Info("Diff computed")
}

// LogFilter logs a filter pass
func (l *Logger) LogFilter(rules, in, out int) {
	l.logger.WithFields(logrus.Fields{
		"rules":   rules,
		"records": in,
		"matched": out,
	}).Debug("Records filtered")
}

// Close closes the log file and prunes old ones down to MaxFiles
func (l *Logger) Close() error {
	if l.fileHandle == nil {
		return nil
	}
	if err := l.fileHandle.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	l.fileHandle = nil

	if _, err := PruneLogFiles(l.config.OutputDir, l.config.MaxFiles); err != nil {
		return fmt.Errorf("failed to cleanup log files: %w", err)
	}
	return nil
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// Entry returns a logrus entry for ad hoc structured logging
func (l *Logger) Entry() *logrus.Entry {
	return logrus.NewEntry(l.logger)
}
