// Package logger wires up structured logging for the service. Production
// emits JSON; everything else gets human-readable text.
package logger

import (
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/internal/config"
)

// Setup builds the slog logger from config and installs it as the default.
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithRequestID tags a logger with the request id for correlation.
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithAdventureID tags a logger with the adventure being played.
func WithAdventureID(logger *slog.Logger, id uuid.UUID) *slog.Logger {
	return logger.With("adventure_id", id.String())
}
