package runtime

import (
	"context"
	"time"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
)

// Replay runs samples through the engine synchronously, in virtual time:
// dwell timers fire when a later sample's timestamp reaches their deadline.
// A gesture left open at the end of the sequence is cancelled.
func Replay(ctx context.Context, root *menu.Node, cfg domain.Config, samples []domain.Sample, opts ...Option) ([]domain.Notification, error) {
	if err := validate(root, cfg); err != nil {
		return nil, err
	}
	d := newDriver(root, cfg, applyOptions(opts))

	var (
		out  []domain.Notification
		last time.Time
	)
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, d.feed(ctx, s)...)
		if s.Timestamp.After(last) {
			last = s.Timestamp
		}
	}
	out = append(out, d.cancel(ctx, last)...)
	return out, nil
}
