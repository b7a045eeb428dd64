package runtime

import (
	"context"
	"time"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/aretw0/markmenu/pkg/ports"
)

// Navigator runs the navigation engine in real time over a stream of pointer
// samples, arming dwell timers on the injected clock.
type Navigator struct {
	root *menu.Node
	cfg  domain.Config
	opts options
}

// NewNavigator validates the configuration and returns a navigator for root.
func NewNavigator(root *menu.Node, cfg domain.Config, opts ...Option) (*Navigator, error) {
	if err := validate(root, cfg); err != nil {
		return nil, err
	}
	return &Navigator{root: root, cfg: cfg, opts: applyOptions(opts)}, nil
}

// Root returns the navigated menu.
func (n *Navigator) Root() *menu.Node { return n.root }

// Config returns the engine configuration.
func (n *Navigator) Config() domain.Config { return n.cfg }

// Run consumes samples until the channel is closed or ctx is done and
// returns the notifications of every gesture found in the stream. A sample
// with a zero timestamp is stamped with the clock's current time.
//
// The returned channel is closed when Run stops. A gesture still in progress
// at that point is cancelled first.
func (n *Navigator) Run(ctx context.Context, samples <-chan domain.Sample) <-chan domain.Notification {
	out := make(chan domain.Notification, n.opts.buffer)
	go n.loop(ctx, samples, out)
	return out
}

func (n *Navigator) loop(ctx context.Context, samples <-chan domain.Sample, out chan<- domain.Notification) {
	defer close(out)

	d := newDriver(n.root, n.cfg, n.opts)
	clk := n.opts.clock
	logger := n.opts.logger

	var (
		timer ports.Timer
		armed time.Time
	)
	disarm := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			armed = time.Time{}
		}
	}
	defer disarm()

	// flush delivers ns without blocking once ctx is done.
	flush := func(ns []domain.Notification) {
		for _, x := range ns {
			select {
			case out <- x:
			default:
				logger.Warn("dropping notification on shutdown", "type", x.Type, "gesture", x.GestureID)
			}
		}
	}
	// shutdown ends the gesture in progress with a best-effort cancel.
	shutdown := func() {
		flush(d.cancel(context.WithoutCancel(ctx), clk.Now()))
	}
	send := func(ns []domain.Notification) bool {
		for i, x := range ns {
			select {
			case out <- x:
			case <-ctx.Done():
				flush(ns[i:])
				return false
			}
		}
		return true
	}

	for {
		if deadline, ok := d.deadline(); ok {
			if timer == nil || !deadline.Equal(armed) {
				disarm()
				timer = clk.NewTimer(deadline.Sub(clk.Now()))
				armed = deadline
			}
		} else {
			disarm()
		}

		var fire <-chan time.Time
		if timer != nil {
			fire = timer.C()
		}

		select {
		case <-ctx.Done():
			shutdown()
			return

		case s, ok := <-samples:
			if !ok {
				send(d.cancel(ctx, clk.Now()))
				return
			}
			if s.Timestamp.IsZero() {
				s.Timestamp = clk.Now()
			}
			if !send(d.feed(ctx, s)) {
				shutdown()
				return
			}

		case <-fire:
			timer = nil
			armed = time.Time{}
			if !send(d.advance(ctx, clk.Now())) {
				shutdown()
				return
			}
		}
	}
}
