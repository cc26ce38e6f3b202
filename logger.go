package ddraw

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ddraw/backend"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for ddraw and the devices it drives.
// By default, ddraw produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by ddraw:
//   - [slog.LevelDebug]: per-call tracing (lock pitches, copy paths, attachment edges)
//   - [slog.LevelInfo]: lifecycle events (resource materialized, device changed)
//   - [slog.LevelWarn]: recovered anomalies (unclassified surfaces, format fallbacks, skipped levels)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	ddraw.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	ddraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	// Propagate to every device an interface currently drives.
	devicesMu.Lock()
	defer devicesMu.Unlock()
	for d := range devices {
		propagateLogger(d, l)
	}
}

// Logger returns the current logger used by ddraw.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// devices counts, per device, the interfaces currently using it.
var (
	devicesMu sync.Mutex
	devices   = make(map[backend.Device]int)
)

// trackDevice moves one interface from old to next and hands next the
// current logger. Called from SetDevice so a device always logs through
// the logger configured by SetLogger.
func trackDevice(old, next backend.Device) {
	devicesMu.Lock()
	defer devicesMu.Unlock()
	if old != nil {
		if devices[old]--; devices[old] <= 0 {
			delete(devices, old)
		}
	}
	if next != nil {
		devices[next]++
		propagateLogger(next, Logger())
	}
}

// propagateLogger passes the logger to a device if it implements the
// loggerSetter interface.
func propagateLogger(d backend.Device, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
