package core

import (
	"log/slog"
	"os"
)

// Logger wraps slog with per-feature child loggers.
type Logger struct {
	*slog.Logger
	features map[string]*slog.Logger
}

// NewLogger creates a logger writing text records to stdout.
func NewLogger() *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return &Logger{
		Logger:   slog.New(handler),
		features: make(map[string]*slog.Logger),
	}
}

// ForFeature returns a logger that tags every record with the feature name.
func (l *Logger) ForFeature(featureName string) *Logger {
	if featureLogger, exists := l.features[featureName]; exists {
		return &Logger{
			Logger:   featureLogger,
			features: l.features,
		}
	}

	featureLogger := l.Logger.With("feature", featureName)
	l.features[featureName] = featureLogger

	return &Logger{
		Logger:   featureLogger,
		features: l.features,
	}
}

// With returns a logger with additional fixed attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:   l.Logger.With(args...),
		features: l.features,
	}
}
