package markmenu

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/markmenu/internal/logging"
	"github.com/aretw0/markmenu/internal/runtime"
	"github.com/aretw0/markmenu/pkg/config"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/aretw0/markmenu/pkg/ports"
)

// Menu is the high-level entry point of the library: a validated menu tree
// bound to a configuration, ready to navigate pointer gestures.
type Menu struct {
	root      *menu.Node
	cfg       domain.Config
	options   map[string]any
	logger    *slog.Logger
	clock     ports.Clock
	hooks     domain.LifecycleHooks
	eventHook func(domain.Notification)
}

// Option defines a functional option for configuring a Menu.
type Option func(*Menu)

// WithConfig sets the base configuration. Defaults to domain.DefaultConfig.
func WithConfig(cfg domain.Config) Option {
	return func(m *Menu) {
		m.cfg = cfg
	}
}

// WithOptions overrides configuration values using the flat option keys of
// pkg/config (minSelectionDist, subMenuOpeningDelay in ms, ...).
func WithOptions(opts map[string]any) Option {
	return func(m *Menu) {
		if m.options == nil {
			m.options = make(map[string]any, len(opts))
		}
		for k, v := range opts {
			m.options[k] = v
		}
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Menu) {
		m.logger = logger
	}
}

// WithClock injects the clock that schedules dwell timers during Navigate.
func WithClock(c ports.Clock) Option {
	return func(m *Menu) {
		m.clock = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Menu) {
		m.hooks = hooks
	}
}

// WithEventHook registers a callback invoked with every notification before
// it is delivered, typically to swallow the underlying device event.
func WithEventHook(fn func(domain.Notification)) Option {
	return func(m *Menu) {
		m.eventHook = fn
	}
}

// New builds the menu tree from items and validates the configuration.
func New(items []any, opts ...Option) (*Menu, error) {
	root, err := menu.Build(items)
	if err != nil {
		return nil, err
	}
	return FromRoot(root, opts...)
}

// FromRoot binds an already built menu tree.
func FromRoot(root *menu.Node, opts ...Option) (*Menu, error) {
	m := &Menu{
		root: root,
		cfg:  domain.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}

	if m.options != nil {
		cfg, err := config.Apply(m.cfg, m.options)
		if err != nil {
			return nil, err
		}
		m.cfg = cfg
	}
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}
	if root == nil || !root.IsRoot() {
		return nil, &menu.MalformedMenuError{Reason: "a menu needs a root node"}
	}
	return m, nil
}

// Root returns the menu tree.
func (m *Menu) Root() *menu.Node { return m.root }

// Config returns the effective configuration.
func (m *Menu) Config() domain.Config { return m.cfg }

func (m *Menu) runtimeOptions() []runtime.Option {
	hooks := m.hooks
	if m.eventHook != nil {
		next := hooks.OnNotification
		hook := m.eventHook
		hooks.OnNotification = func(ctx context.Context, n *domain.Notification) {
			hook(*n)
			if next != nil {
				next(ctx, n)
			}
		}
	}
	opts := []runtime.Option{
		runtime.WithLogger(m.logger),
		runtime.WithLifecycleHooks(hooks),
	}
	if m.clock != nil {
		opts = append(opts, runtime.WithClock(m.clock))
	}
	return opts
}

// Navigate runs gestures from samples in real time. The returned channel is
// closed once samples is closed or ctx is done.
func (m *Menu) Navigate(ctx context.Context, samples <-chan domain.Sample) (<-chan domain.Notification, error) {
	nav, err := runtime.NewNavigator(m.root, m.cfg, m.runtimeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to start navigator: %w", err)
	}
	return nav.Run(ctx, samples), nil
}

// Selections is Navigate reduced to the selected items.
func (m *Menu) Selections(ctx context.Context, samples <-chan domain.Sample) (<-chan *menu.Node, error) {
	ns, err := m.Navigate(ctx, samples)
	if err != nil {
		return nil, err
	}
	out := make(chan *menu.Node)
	go func() {
		defer close(out)
		for n := range ns {
			if n.Type != domain.NotifySelect {
				continue
			}
			select {
			case out <- n.Selection:
			case <-ctx.Done():
				// Keep draining so the navigator can exit.
			}
		}
	}()
	return out, nil
}

// Replay runs recorded samples through the engine in virtual time.
func (m *Menu) Replay(ctx context.Context, samples []domain.Sample) ([]domain.Notification, error) {
	return runtime.Replay(ctx, m.root, m.cfg, samples, m.runtimeOptions()...)
}

// ForTrace returns a Menu bound to the menu description and options
// embedded in t, keeping the logger, clock and hooks of m. A trace that
// embeds neither yields m itself.
func (m *Menu) ForTrace(t *domain.Trace) (*Menu, error) {
	if len(t.Menu) == 0 && len(t.Options) == 0 {
		return m, nil
	}
	bound := *m
	if len(t.Menu) > 0 {
		root, err := menu.Build(t.Menu)
		if err != nil {
			return nil, fmt.Errorf("failed to build trace menu: %w", err)
		}
		bound.root = root
	}
	if len(t.Options) > 0 {
		cfg, err := config.Apply(m.cfg, t.Options)
		if err != nil {
			return nil, err
		}
		bound.cfg = cfg
	}
	return &bound, nil
}

// ReplayTrace replays a recorded trace against the menu and options it
// embeds. Offsets are anchored at the trace's creation time, or the Unix
// epoch when it has none.
func (m *Menu) ReplayTrace(ctx context.Context, t *domain.Trace) ([]domain.Notification, error) {
	bound, err := m.ForTrace(t)
	if err != nil {
		return nil, err
	}
	return bound.Replay(ctx, t.SamplesAt(TraceStart(t)))
}

// TraceStart is the instant the offsets of t are relative to.
func TraceStart(t *domain.Trace) time.Time {
	if t.CreatedAt.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return t.CreatedAt
}
