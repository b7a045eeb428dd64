package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
)

// driver splits a sample stream into gestures, one Machine each, and reports
// their lifecycle to the configured hooks.
type driver struct {
	root *menu.Node
	cfg  domain.Config
	opts options

	cur      *Machine
	resolved bool
}

func newDriver(root *menu.Node, cfg domain.Config, o options) *driver {
	return &driver{root: root, cfg: cfg, opts: o}
}

// inGesture reports whether a gesture is currently being tracked.
func (d *driver) inGesture() bool {
	return d.cur != nil && d.cur.Started()
}

func (d *driver) deadline() (time.Time, bool) {
	if d.cur == nil {
		return time.Time{}, false
	}
	return d.cur.Deadline()
}

func (d *driver) feed(ctx context.Context, s domain.Sample) []domain.Notification {
	fresh := false
	if d.cur == nil {
		if s.Kind != domain.SampleDown {
			return nil
		}
		d.cur = newMachine(d.root, d.cfg, d.opts)
		d.resolved = false
		fresh = true
	}

	ns, err := d.cur.Step(s)
	if errors.Is(err, domain.ErrGestureEnded) {
		d.opts.logger.Debug("dropping ended gesture", "err", err)
		d.cur = nil
		return d.feed(ctx, s)
	}
	if fresh {
		if !d.cur.Started() {
			d.cur = nil
			return nil
		}
		if d.opts.hooks.OnGestureStart != nil {
			d.opts.hooks.OnGestureStart(ctx, d.event(s.Timestamp))
		}
	}
	return d.post(ctx, ns)
}

func (d *driver) advance(ctx context.Context, now time.Time) []domain.Notification {
	if d.cur == nil {
		return nil
	}
	return d.post(ctx, d.cur.Advance(now))
}

func (d *driver) cancel(ctx context.Context, at time.Time) []domain.Notification {
	if d.cur == nil {
		return nil
	}
	return d.post(ctx, d.cur.Cancel(at))
}

func (d *driver) post(ctx context.Context, ns []domain.Notification) []domain.Notification {
	m := d.cur
	for i := range ns {
		n := &ns[i]
		if !d.resolved && n.Mode != domain.ModeUnresolved {
			d.resolved = true
			if d.opts.hooks.OnModeResolved != nil {
				d.opts.hooks.OnModeResolved(ctx, d.event(n.Timestamp))
			}
		}
		if d.opts.hooks.OnNotification != nil {
			d.opts.hooks.OnNotification(ctx, n)
		}
		if n.Type.IsTerminal() {
			ev := d.event(n.Timestamp)
			ev.Duration = n.Timestamp.Sub(m.StartedAt())
			ev.Outcome = n.Type
			if n.Selection != nil {
				ev.Selection = n.Selection.Path()
			}
			d.opts.logger.Info("gesture ended",
				"gesture", m.ID(),
				"outcome", n.Type,
				"mode", n.Mode,
				"selection", n.Selection.String(),
				"duration", ev.Duration)
			if d.opts.hooks.OnGestureEnd != nil {
				d.opts.hooks.OnGestureEnd(ctx, ev)
			}
			d.cur = nil
		}
	}
	return ns
}

func (d *driver) event(at time.Time) *domain.GestureEvent {
	return &domain.GestureEvent{
		Timestamp: at,
		GestureID: d.cur.ID(),
		Mode:      d.cur.Mode(),
		Start:     d.cur.Origin(),
	}
}
