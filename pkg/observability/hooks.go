package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/markmenu/pkg/domain"
)

// LoggingHooks logs the gesture lifecycle on logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGestureStart: func(ctx context.Context, e *domain.GestureEvent) {
			logger.Debug("gesture_start", "gesture", e.GestureID, "x", e.Start.X, "y", e.Start.Y)
		},
		OnModeResolved: func(ctx context.Context, e *domain.GestureEvent) {
			logger.Debug("mode_resolved", "gesture", e.GestureID, "mode", e.Mode)
		},
		OnNotification: func(ctx context.Context, n *domain.Notification) {
			logger.Debug("notification",
				"gesture", n.GestureID,
				"type", n.Type,
				"menu", n.Menu.String(),
				"item", n.Selection.String(),
			)
		},
		OnGestureEnd: func(ctx context.Context, e *domain.GestureEvent) {
			logger.Info("gesture_end",
				"gesture", e.GestureID,
				"mode", e.Mode,
				"outcome", e.Outcome,
				"selection", e.Selection,
				"duration", e.Duration,
			)
		},
	}
}

// Chain merges hooks; each callback runs in the given order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnGestureStart = chainEvent(out.OnGestureStart, h.OnGestureStart)
		out.OnModeResolved = chainEvent(out.OnModeResolved, h.OnModeResolved)
		out.OnGestureEnd = chainEvent(out.OnGestureEnd, h.OnGestureEnd)
		out.OnNotification = chainNotification(out.OnNotification, h.OnNotification)
	}
	return out
}

func chainEvent(a, b func(context.Context, *domain.GestureEvent)) func(context.Context, *domain.GestureEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.GestureEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainNotification(a, b func(context.Context, *domain.Notification)) func(context.Context, *domain.Notification) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, n *domain.Notification) {
		a(ctx, n)
		b(ctx, n)
	}
}
