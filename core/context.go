package core

import (
	"context"
	"log/slog"

	"github.com/huangsam/scanreport/internal/contract"
)

// Context keys for run options
type contextKey string

const (
	loggerKey         contextKey = "logger"
	suppressHeaderKey contextKey = "suppressHeader"
)

// WithLogger attaches the diagnostic logger used by the pipeline.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// loggerFromContext returns the attached logger or slog.Default.
func loggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithSuppressHeader marks the context so report headers are not printed.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && suppress
}

// optionsFromContext builds pipeline options from the config and the context logger.
func optionsFromContext(ctx context.Context, cfg *contract.Config) Options {
	return Options{
		Limits:        cfg.Limits(),
		MaxEntryBytes: cfg.ArchiveLimit(),
		Logger:        loggerFromContext(ctx),
	}
}
