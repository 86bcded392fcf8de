// internal/logging/logging.go - Global zerolog configuration
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/valpere/geojson_overlay/internal/config"
)

// Setup configures the global zerolog logger from the logging section
func Setup(cfg config.LoggingConfig) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	log.Logger = logger
	return nil
}

// New builds a logger without touching the global one
func New(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level := cfg.Level
	if cfg.Verbose {
		level = "debug"
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		out = os.Stdout
	case "", "stderr":
		out = os.Stderr
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log output %q", cfg.Output)
	}

	return NewWithWriter(out, cfg.Format, parsed), nil
}

// NewWithWriter builds a logger writing to out in "text" or "json" format
func NewWithWriter(out io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stderr && out != os.Stdout}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
