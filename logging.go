package archspec

import (
	"io"
	"log/slog"
	"sync"

	"github.com/gocpuspec/archspec/internal/hostprobe"
)

// SetLogger installs the *slog.Logger used for the library's side-channel
// warnings (compiler-entry Warnings fields, probe degradation). The default
// is a no-op handler, so importers who never call SetLogger see no output.
func SetLogger(l *slog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	activeLogger = l
}

var (
	loggerMu     sync.RWMutex
	activeLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return activeLogger
}

func init() {
	hostprobe.SetDegradationHook(func(msg string, args ...any) {
		logger().Warn(msg, args...)
	})
}
