package observability

import (
	"context"
	"strings"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the navigation hooks.
type Metrics struct {
	Gestures      *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Selections    *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Gestures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "markmenu_gestures_total",
				Help: "Gestures ended, by resolved mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "markmenu_notifications_total",
				Help: "Notifications emitted by the navigation engine",
			},
			[]string{"type"},
		),
		Selections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "markmenu_selections_total",
				Help: "Selected items, by path",
			},
			[]string{"item"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "markmenu_gesture_duration_seconds",
				Help:    "Time from press to release",
				Buckets: []float64{.05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"mode"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Gestures, m.Notifications, m.Selections, m.Duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNotification: func(ctx context.Context, n *domain.Notification) {
			m.Notifications.WithLabelValues(string(n.Type)).Inc()
		},
		OnGestureEnd: func(ctx context.Context, e *domain.GestureEvent) {
			mode := string(e.Mode)
			m.Gestures.WithLabelValues(mode, string(e.Outcome)).Inc()
			m.Duration.WithLabelValues(mode).Observe(e.Duration.Seconds())
			if e.Outcome == domain.NotifySelect {
				m.Selections.WithLabelValues(strings.Join(e.Selection, "/")).Inc()
			}
		},
	}
}
