// Package logging provides structured logging for the task scheduler using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json, console).
	Format string

	// Output is where logs are written (defaults to stderr).
	Output io.Writer

	// EnableCaller adds caller information to logs.
	EnableCaller bool

	// File, when set, replaces Output with an appended JSON log file.
	File string
}

// FieldTaskID is the key under which task ids are logged.
const FieldTaskID = "task_id"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

// Init initializes the global logger.
func Init(cfg Config) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.EnableCaller {
		ctx = ctx.Caller()
	}
	Logger = ctx.Logger()
}

// Setup initializes the global logger like Init, first opening cfg.File
// when one is named. The returned closer releases that file.
func Setup(cfg Config) (io.Closer, error) {
	if cfg.File == "" {
		Init(cfg)
		return nopCloser{}, nil
	}
	f, err := openFile(cfg.File)
	if err != nil {
		return nil, err
	}
	cfg.Output = f
	cfg.Format = "json"
	Init(cfg)
	return f, nil
}

// openFile opens path for appending, creating parent directories.
func openFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Component creates a logger with a component field.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// ForTask derives a logger that tags every line with taskID.
func ForTask(base zerolog.Logger, taskID string) zerolog.Logger {
	return base.With().Str(FieldTaskID, taskID).Logger()
}

func init() {
	Init(DefaultConfig())
}
