package runtime

import (
	"io"
	"log/slog"

	"github.com/aretw0/markmenu/pkg/clock"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/ports"
	"github.com/google/uuid"
)

// Option configures a Machine, a Navigator or a Replay run.
type Option func(*options)

type options struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	clock  ports.Clock
	newID  func() string
	buffer int
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  clock.Real{},
		newID:  uuid.NewString,
		buffer: 16,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithClock injects the clock used to schedule dwell timers.
func WithClock(c ports.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithIDGenerator overrides how gesture IDs are generated (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithBufferSize sets the capacity of the notification channel returned by
// Navigator.Run.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.buffer = n
		}
	}
}
