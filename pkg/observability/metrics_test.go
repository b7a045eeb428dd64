package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/markmenu/internal/runtime"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/aretw0/markmenu/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replay(t *testing.T, hooks domain.LifecycleHooks, samples ...domain.Sample) {
	t.Helper()
	root := menu.MustBuild([]any{"A", map[string]any{"name": "B", "children": []any{"B1", "B2"}}})
	_, err := runtime.Replay(context.Background(), root, domain.DefaultConfig(), samples, runtime.WithLifecycleHooks(hooks))
	require.NoError(t, err)
}

func at(ms int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(ms) * time.Millisecond)
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	replay(t, m.Hooks(),
		domain.Down(0, 0, at(0)),
		domain.Move(0, -50, at(10)),
		domain.Up(0, -50, at(200)),
		domain.Down(0, 0, at(300)),
		domain.Up(0, 0, at(310)),
	)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Gestures.WithLabelValues("expert", "select")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Gestures.WithLabelValues("unresolved", "cancel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("active")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Selections.WithLabelValues("A")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestMetrics_NilRegisterer(t *testing.T) {
	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m.Hooks().OnGestureEnd)
}

func TestChain_LoggingAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)

	calls := 0
	counting := domain.LifecycleHooks{
		OnGestureEnd: func(context.Context, *domain.GestureEvent) { calls++ },
	}
	replay(t, observability.Chain(observability.LoggingHooks(logger), m.Hooks(), counting),
		domain.Down(0, 0, at(0)),
		domain.Move(0, 60, at(10)),
		domain.Up(0, 60, at(20)),
	)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Gestures.WithLabelValues("expert", "cancel")))
	out := buf.String()
	assert.Contains(t, out, "gesture_start")
	assert.Contains(t, out, "mode_resolved")
	assert.Contains(t, out, "gesture_end")
}
