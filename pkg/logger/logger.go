package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the package-level logger. It is a no-op until Initialize is called.
var Log = zap.NewNop()

// Initialize builds the global logger. Format is "json" or "console"; level
// is one of debug, info, warn, error.
func Initialize(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = log
	return nil
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = Log.Sync()
}

// Error wraps an error as a zap field.
func Error(err error) zap.Field {
	return zap.Error(err)
}

// String wraps a key/value pair as a zap field.
func String(key, value string) zap.Field {
	return zap.String(key, value)
}
