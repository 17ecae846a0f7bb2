package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName is attached to every log line
const ServiceName = "antmart"

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level   string
	Format  string
	Output  io.Writer
	Version string
}

// LevelFromString converts a configured level to a zerolog level
func LevelFromString(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger builds a logger. Console format is used when requested, or in
// auto mode when the output is a terminal; otherwise lines are JSON.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	auto := cfg.Format == "" || cfg.Format == "auto"
	if cfg.Format == "console" || (auto && isTerminal(out)) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: !isTerminal(out)}
	}

	ctx := zerolog.New(out).Level(LevelFromString(cfg.Level)).With().Timestamp().Str("service", ServiceName)
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	return ctx.Logger()
}

// InitLogger builds a logger, installs it as the global zerolog logger and
// returns it
func InitLogger(cfg LoggerConfig) zerolog.Logger {
	logger := NewLogger(cfg)
	log.Logger = logger
	return logger
}

// WithRun tags a logger with a fresh run id and the command name
func WithRun(logger zerolog.Logger, command string) (zerolog.Logger, string) {
	runID := uuid.NewString()
	return logger.With().Str("run_id", runID).Str("command", command).Logger(), runID
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
