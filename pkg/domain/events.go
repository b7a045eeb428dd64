package domain

import (
	"context"
	"time"
)

// GestureEvent describes a gesture lifecycle step.
type GestureEvent struct {
	Timestamp time.Time `json:"timestamp"`
	GestureID string    `json:"gesture_id"`
	Mode      Mode      `json:"mode"`
	Start     Point     `json:"start"`
	// Duration is set on gesture end.
	Duration time.Duration `json:"duration,omitempty"`
	// Outcome is the terminal notification type, set on gesture end.
	Outcome NotificationType `json:"outcome,omitempty"`
	// Selection is the selected item path, set on a select outcome.
	Selection []string `json:"selection,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any of them may be nil.
type LifecycleHooks struct {
	OnGestureStart func(context.Context, *GestureEvent)
	OnModeResolved func(context.Context, *GestureEvent)
	OnNotification func(context.Context, *Notification)
	OnGestureEnd   func(context.Context, *GestureEvent)
}
