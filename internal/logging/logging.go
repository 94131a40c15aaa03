package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"aifsfetch/internal/config"
)

const appName = "aifsfetch"

// New builds the process logger. Text format uses tint for terminals,
// json is meant for log shippers.
func New(cfg config.LoggingConfig, version string) (*slog.Logger, error) {
	return newLogger(os.Stderr, cfg, version)
}

func newLogger(w io.Writer, cfg config.LoggingConfig, version string) (*slog.Logger, error) {
	level, err := config.ParseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.Format == "json" {
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
		return slog.New(h).With(
			"app", appName,
			"version", version,
		), nil
	}

	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  level == slog.LevelDebug,
		TimeFormat: time.Kitchen,
	})
	return slog.New(h).With("app", appName), nil
}
