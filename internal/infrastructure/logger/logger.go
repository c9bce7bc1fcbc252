package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultService is stamped on every line when Config.Service is empty.
const DefaultService = "payinstr"

// Config holds logger configuration.
type Config struct {
	Level   string // trace, debug, info, warn, error
	Format  string // json, console
	Service string
	Output  io.Writer
}

// New builds the process logger. Every line carries a timestamp, the caller and
// the service name.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.Output != nil,
		}
	}

	service := cfg.Service
	if service == "" {
		service = DefaultService
	}

	return zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Caller().
		Logger()
}

// parseLevel falls back to info for empty, unknown or disabling levels.
func parseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel || l == zerolog.Disabled {
		return zerolog.InfoLevel
	}
	return l
}
