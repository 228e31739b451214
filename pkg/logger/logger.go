// Package logger builds the application's zap logger and threads request
// identifiers through context for request-scoped logging.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// Config selects the log level and output encoding ("json" or "console").
type Config struct {
	Level    string
	Encoding string
}

// New builds a production zap logger. Unknown levels fall back to info and
// unknown encodings to JSON, so a bad env value never prevents boot.
func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level.SetLevel(parsed)
	}

	encoding := cfg.Encoding
	if encoding != "console" {
		encoding = "json"
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	zapCfg.Encoding = encoding
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stdout"}

	return zapCfg.Build()
}

// ContextWithRequestID stores the request ID for later retrieval.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// WithRequestID returns a child logger tagged with the context's request ID,
// or the base logger unchanged when none is present.
func WithRequestID(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}
	if requestID, ok := ctx.Value(ctxKey{}).(string); ok && requestID != "" {
		return base.With(zap.String("request_id", requestID))
	}
	return base
}
