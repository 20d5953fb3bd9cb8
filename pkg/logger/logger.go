package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// Init replaces the process logger with a production zap logger at the
// requested level. Unrecognised level strings fall back to info.
func Init(level string) error {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := cfg.Build()
	if err != nil {
		return err
	}

	global.Store(built)
	return nil
}

// Logger returns the current process logger.
func Logger() *zap.Logger {
	return global.Load()
}

// Sync flushes buffered entries.
func Sync() error {
	return Logger().Sync()
}

// WithModule returns a child logger tagged with the owning module.
func WithModule(module string) *zap.Logger {
	return Logger().With(zap.String("module", module))
}
