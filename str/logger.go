package str

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the package logger. It uses a no-op logger by default.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger installs a logger. Safe to call at any time, from any
// goroutine; a nil l restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}
