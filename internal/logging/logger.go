package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// InitLogger installs a tinted slog handler as the process default and
// returns it. Components receive child loggers via For so log configuration
// stays tied to construction rather than package state.
func InitLogger(level slog.Level) *slog.Logger {
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// For returns a child logger tagged with a component name.
func For(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", component))
}
