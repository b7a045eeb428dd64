package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/markmenu"
	adapter "github.com/aretw0/markmenu/pkg/adapters/http"
	"github.com/aretw0/markmenu/pkg/adapters/file"
	"github.com/aretw0/markmenu/pkg/adapters/memory"
	"github.com/aretw0/markmenu/pkg/clock"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/observability"
	"github.com/aretw0/markmenu/pkg/trace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newMenu(t *testing.T, opts ...markmenu.Option) *markmenu.Menu {
	t.Helper()
	m, err := markmenu.New([]any{
		"Copy",
		map[string]any{"name": "Edit", "children": []any{"Undo", "Redo"}},
	}, opts...)
	require.NoError(t, err)
	return m
}

func synth(t *testing.T, m *markmenu.Menu, labels ...string) []byte {
	t.Helper()
	return synthID(t, m, "", labels...)
}

// synthID synthesizes an expert trace; a non-empty id replaces the generated one.
func synthID(t *testing.T, m *markmenu.Menu, id string, labels ...string) []byte {
	t.Helper()
	tr, err := trace.Synthesize(m.Root(), m.Config(), trace.StyleExpert, labels...)
	require.NoError(t, err)
	if id != "" {
		tr.ID = id
	}
	data, err := json.Marshal(tr)
	require.NoError(t, err)
	return data
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGetMenu(t *testing.T) {
	h := adapter.NewHandler(newMenu(t))

	w := do(t, h, http.MethodGet, "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp adapter.MenuResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Menu.Children, 2)
	assert.Equal(t, "Edit", resp.Menu.Children[1].Label)
	assert.Equal(t, 25.0, resp.Options["subMenuOpeningDelay"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetGraphAndInfo(t *testing.T) {
	h := adapter.NewHandler(newMenu(t))

	w := do(t, h, http.MethodGet, "/menu/graph", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `m1[["Edit"]]`)

	w = do(t, h, http.MethodGet, "/info", nil)
	assert.Contains(t, w.Body.String(), strings.TrimSpace(markmenu.Version))

	w = do(t, h, http.MethodOptions, "/replay", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReplay(t *testing.T) {
	m := newMenu(t)
	h := adapter.NewHandler(m)

	w := do(t, h, http.MethodPost, "/replay", synth(t, m, "Edit", "Redo"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp adapter.ReplayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Edit", "Redo"}, resp.Selection)
	require.NotEmpty(t, resp.Notifications)
	assert.Equal(t, domain.NotifySelect, resp.Notifications[len(resp.Notifications)-1].Type)
}

func TestReplay_BadInput(t *testing.T) {
	h := adapter.NewHandler(newMenu(t))

	w := do(t, h, http.MethodPost, "/replay", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/replay", []byte(`{"samples":[{"kind":"hover","x":0,"y":0,"t":0}]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/replay", []byte(`{"options":{"minSelectionDist":-1},"samples":[]}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReplayPNG(t *testing.T) {
	m := newMenu(t)
	h := adapter.NewHandler(m)

	w := do(t, h, http.MethodPost, "/replay.png", synth(t, m, "Copy"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
}

func TestTraces(t *testing.T) {
	m := newMenu(t)
	h := adapter.NewHandler(m, adapter.WithStore(memory.NewStore()), adapter.WithClock(clock.NewManual(epoch)))

	w := do(t, h, http.MethodGet, "/traces", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"traces":[]}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/traces", []byte(`{"samples":[
		{"kind":"down","x":0,"y":0,"t":0},
		{"kind":"move","x":0,"y":-60,"t":10},
		{"kind":"up","x":0,"y":-60,"t":20}]}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"]
	require.NotEmpty(t, id)

	w = do(t, h, http.MethodGet, "/traces/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored domain.Trace
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, epoch, stored.CreatedAt)
	assert.Len(t, stored.Samples, 3)

	w = do(t, h, http.MethodPost, "/traces/"+id+"/replay", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp adapter.ReplayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.TraceID)
	assert.Equal(t, []string{"Copy"}, resp.Selection)
	assert.Equal(t, epoch.Add(10*time.Millisecond), resp.Notifications[0].Timestamp)

	w = do(t, h, http.MethodDelete, "/traces/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/traces/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTraces_InvalidID(t *testing.T) {
	h := adapter.NewHandler(newMenu(t), adapter.WithStore(file.New(t.TempDir())))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/traces/tmp-x", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodDelete, "/traces/tmp-x", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/traces/tmp-x/replay", nil).Code)
}

func TestTraces_NoStore(t *testing.T) {
	h := adapter.NewHandler(newMenu(t))
	w := do(t, h, http.MethodGet, "/traces", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	m := newMenu(t, markmenu.WithLifecycleHooks(metrics.Hooks()))
	h := adapter.NewHandler(m, adapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/replay", synth(t, m, "Copy")).Code)

	w := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "markmenu_gestures_total")
}

func TestSubscribeEvents(t *testing.T) {
	m := newMenu(t)
	h := adapter.NewHandler(m)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	// The ping is flushed after the subscription is registered.
	post, err := http.Post(srv.URL+"/replay", "application/json", bytes.NewReader(synth(t, m, "Copy")))
	require.NoError(t, err)
	post.Body.Close()

	var events []string
	for lines.Scan() {
		if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok && data != "connected" {
			events = append(events, data)
			if strings.Contains(data, `"type":"select"`) {
				break
			}
		}
	}
	require.NotEmpty(t, events)
	assert.Contains(t, events[0], `"type":"active"`)
}

func TestSubscribeEvents_FilteredByTrace(t *testing.T) {
	m := newMenu(t)
	h := adapter.NewHandler(m)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?trace=wanted", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	for _, body := range [][]byte{
		synthID(t, m, "other", "Copy"),
		synthID(t, m, "wanted", "Edit", "Undo"),
	} {
		post, err := http.Post(srv.URL+"/replay", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, post.StatusCode)
		post.Body.Close()
	}

	var events []string
	for lines.Scan() {
		if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok && data != "connected" {
			events = append(events, data)
			if strings.Contains(data, `"type":"select"`) {
				break
			}
		}
	}
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.NotContains(t, e, `"selection_path":["Copy"]`)
	}
	assert.Contains(t, events[len(events)-1], `"selection_path":["Edit","Undo"]`)
}
