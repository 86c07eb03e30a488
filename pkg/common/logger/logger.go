package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the logger configuration
type Config struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"` // "json" or "console"
	TimeFormat string `json:"time_format" yaml:"time_format"`
	Output     string `json:"output" yaml:"output"` // "stdout", "stderr", or file path
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     "stdout",
	}
}

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init initializes the global logger with the provided configuration.
// A previously opened log file is closed once the new output is in place.
func Init(config *Config) error {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	var (
		output io.Writer
		file   *os.File
	)
	switch config.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err = os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		output = file
	}

	if config.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: config.TimeFormat,
		}
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = config.TimeFormat
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	return nil
}

// Setup applies level and format on top of DefaultConfig, the shape used by
// the application config file.
func Setup(level, format string) error {
	c := DefaultConfig()
	if level != "" {
		c.Level = level
	}
	if format != "" {
		c.Format = format
	}
	return Init(c)
}

// GetLogger returns the global logger instance
func GetLogger() *zerolog.Logger {
	return &log.Logger
}

// WithComponent returns a logger with a component field
func WithComponent(component string) *zerolog.Logger {
	logger := log.Logger.With().Str("component", component).Logger()
	return &logger
}

// WithFields returns a logger with additional fields
func WithFields(fields map[string]interface{}) *zerolog.Logger {
	ctx := log.Logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}
	logger := ctx.Logger()
	return &logger
}

// WithFrame tags a component logger with the message type of a frame.
func WithFrame(component, typeName string, tag uint64) *zerolog.Logger {
	logger := log.Logger.With().
		Str("component", component).
		Str("msg_type", typeName).
		Uint64("tag", tag).
		Logger()
	return &logger
}
