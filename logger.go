package compositor

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// nopHandler drops every record. Enabled reports false, so slog never
// formats the attributes of a disabled call.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var (
	silent        = slog.New(nopHandler{})
	defaultLogger atomic.Pointer[slog.Logger]
)

func init() {
	defaultLogger.Store(silent)
}

// SetLogger sets the logger that new swap chains use when no [WithLogger]
// option is given. The package is silent until SetLogger is called; nil
// makes it silent again.
//
// A swap chain resolves its logger once, in New, and tags it with the
// chain ID. Chains that already exist keep the logger they started with.
//
// Records by level:
//   - [slog.LevelDebug]: client waits, compositor reusing an old frame
//   - [slog.LevelInfo]: swap chain created, shut down, closed
//   - [slog.LevelWarn]: release of a buffer not owned by the caller
//
// Example:
//
//	compositor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	defaultLogger.Store(l)
}

// Logger returns the logger new swap chains start from.
func Logger() *slog.Logger {
	return defaultLogger.Load()
}

// chainLogger returns the logger of one swap chain: the WithLogger value
// or the package default, tagged with the chain ID.
func chainLogger(override *slog.Logger, id uuid.UUID) *slog.Logger {
	l := override
	if l == nil {
		l = Logger()
	}
	return l.With("swapchain", id.String())
}
