package compositor

import (
	"log/slog"

	"github.com/gogpu/compositor/buffer"
)

// Option configures a SwapChain during creation.
//
// Example:
//
//	// Double buffering with eager client wakeups
//	sc, err := compositor.New(alloc, spec,
//	    compositor.WithBufferCount(2),
//	    compositor.WithEagerWake())
type Option func(*chainOptions)

// chainOptions holds optional configuration for SwapChain creation.
type chainOptions struct {
	bufferCount int
	eagerWake   bool
	logger      *slog.Logger
}

// defaultOptions returns the default swap chain options.
func defaultOptions() chainOptions {
	return chainOptions{
		bufferCount: buffer.MaxPoolSize,
		logger:      nil, // Will be set to Logger() if nil
	}
}

// WithBufferCount sets the number of buffers New allocates: 2 for double
// buffering, 3 (the default) for triple buffering.
// NewFromBuffers ignores this option.
func WithBufferCount(n int) Option {
	return func(o *chainOptions) {
		o.bufferCount = n
	}
}

// WithEagerWake makes every client release wake a waiting client acquire.
//
// By default only compositor releases wake client waiters, which is
// enough for a single rendering goroutine. Enable this when several
// goroutines acquire on behalf of the client.
func WithEagerWake() Option {
	return func(o *chainOptions) {
		o.eagerWake = true
	}
}

// WithLogger sets the logger of this swap chain, overriding [Logger].
func WithLogger(l *slog.Logger) Option {
	return func(o *chainOptions) {
		o.logger = l
	}
}
