package runtime_test

import (
	"math"
	"testing"
	"time"

	"github.com/aretw0/markmenu/internal/runtime"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms float64) time.Time {
	return epoch.Add(time.Duration(ms * float64(time.Millisecond)))
}

// sampleMenu is [A, {B: [B1, B2]}]. With screen coordinates A sits up and
// B down; inside B, B1 is up and B2 down.
func sampleMenu(t *testing.T) *menu.Node {
	t.Helper()
	root, err := menu.Build([]any{
		"A",
		map[string]any{"name": "B", "children": []any{"B1", "B2"}},
	})
	require.NoError(t, err)
	return root
}

func newMachine(t *testing.T, root *menu.Node, cfg domain.Config) *runtime.Machine {
	t.Helper()
	m, err := runtime.NewMachine(root, cfg, runtime.WithIDGenerator(func() string { return "g-1" }))
	require.NoError(t, err)
	return m
}

func feedAll(m *runtime.Machine, samples ...domain.Sample) []domain.Notification {
	var out []domain.Notification
	for _, s := range samples {
		out = append(out, m.Feed(s)...)
	}
	return out
}

type step struct {
	typ  domain.NotificationType
	menu string
	item string
}

func steps(ns []domain.Notification) []step {
	out := make([]step, 0, len(ns))
	for _, n := range ns {
		s := step{typ: n.Type, menu: n.Menu.String()}
		if n.Selection != nil {
			s.item = n.Selection.String()
		}
		out = append(out, s)
	}
	return out
}

func assertTerminalOnce(t *testing.T, ns []domain.Notification) {
	t.Helper()
	terminals := 0
	for i, n := range ns {
		if n.Type.IsTerminal() {
			terminals++
			assert.Equal(t, len(ns)-1, i, "terminal notification must be last")
		}
	}
	assert.Equal(t, 1, terminals)
}

func TestNewMachine_Validation(t *testing.T) {
	root := sampleMenu(t)

	cfg := domain.DefaultConfig()
	cfg.MinSelectionDist = -1
	_, err := runtime.NewMachine(root, cfg)
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "minSelectionDist", cfgErr.Field)

	_, err = runtime.NewMachine(nil, domain.DefaultConfig())
	var menuErr *menu.MalformedMenuError
	require.ErrorAs(t, err, &menuErr)

	_, err = runtime.NewMachine(root.Child(1), domain.DefaultConfig())
	require.ErrorAs(t, err, &menuErr)
}

func TestMachine_ExpertSelection(t *testing.T) {
	root := sampleMenu(t)
	m := newMachine(t, root, domain.DefaultConfig())

	ns := feedAll(m,
		domain.Down(100, 100, at(0)),
		domain.Move(100, 150, at(10)), // resolves expert, B hot
		domain.Move(100, 190, at(20)), // past minMenuSelectionDist: dwell armed
		domain.Move(100, 192, at(50)), // dwell fired at 45ms, B opened at (100,190)
		domain.Move(100, 140, at(60)), // up from B's center: B1 hot
		domain.Up(100, 140, at(70)),
	)

	assert.Equal(t, []step{
		{domain.NotifyActive, "<root>", "B"},
		{domain.NotifyOpen, "B", ""},
		{domain.NotifyActive, "B", "B/B1"},
		{domain.NotifySelect, "B", "B/B1"},
	}, steps(ns))
	assertTerminalOnce(t, ns)

	open := ns[1]
	assert.Equal(t, domain.Pt(100, 190), open.Center)
	assert.Equal(t, at(45), open.Timestamp)

	for _, n := range ns {
		assert.Equal(t, domain.ModeExpert, n.Mode)
		assert.Equal(t, "g-1", n.GestureID)
	}
	assert.True(t, m.Done())
	assert.Equal(t, root.Child(1).Child(0), domain.Selected(ns))
}

func TestMachine_NoviceRevealsRoot(t *testing.T) {
	root := sampleMenu(t)
	m := newMachine(t, root, domain.DefaultConfig())

	ns := feedAll(m,
		domain.Down(100, 100, at(0)),
		domain.Move(101, 101, at(100)), // within movementsThreshold
		domain.Move(102, 100, at(400)), // novice dwell due at ~333ms
	)
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyOpen, ns[0].Type)
	assert.Equal(t, root, ns[0].Menu)
	assert.Equal(t, domain.Pt(100, 100), ns[0].Center)
	assert.Equal(t, domain.ModeNovice, ns[0].Mode)
	assert.Equal(t, domain.ModeNovice, m.Mode())

	ns = feedAll(m,
		domain.Move(100, 50, at(500)),
		domain.Up(100, 45, at(600)),
	)
	assert.Equal(t, []step{
		{domain.NotifyActive, "<root>", "A"},
		{domain.NotifySelect, "<root>", "A"},
	}, steps(ns))
	assert.Equal(t, domain.ModeNovice, ns[1].Mode)
}

func TestMachine_AdvanceFiresWithoutSamples(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	m.Feed(domain.Down(0, 0, at(0)))

	deadline, ok := m.Deadline()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(time.Second/3), deadline)

	assert.Empty(t, m.Advance(at(100)))
	ns := m.Advance(deadline)
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyOpen, ns[0].Type)

	_, ok = m.Deadline()
	assert.False(t, ok)
}

func TestMachine_MovementBeatsDwell(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := feedAll(m,
		domain.Down(0, 0, at(0)),
		domain.Move(0, -10, at(50)),
		domain.Move(0, -20, at(1000)),
	)
	for _, n := range ns {
		assert.NotEqual(t, domain.NotifyOpen, n.Type, "novice dwell must not fire after expert resolution")
	}
	assert.Equal(t, domain.ModeExpert, m.Mode())
}

func TestMachine_ReleaseInsideDeadZoneCancels(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := feedAll(m,
		domain.Down(0, 0, at(0)),
		domain.Move(0, -50, at(10)),
		domain.Move(0, -10, at(20)),
		domain.Up(0, -10, at(30)),
	)
	assert.Equal(t, []step{
		{domain.NotifyActive, "<root>", "A"},
		{domain.NotifyActive, "<root>", ""},
		{domain.NotifyCancel, "<root>", ""},
	}, steps(ns))
	assertTerminalOnce(t, ns)
}

func TestMachine_ReleaseOnBranchCancels(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := feedAll(m,
		domain.Down(0, 0, at(0)),
		domain.Move(0, 50, at(10)),
		domain.Up(0, 50, at(20)),
	)
	require.Len(t, ns, 2)
	assert.Equal(t, domain.NotifyCancel, ns[1].Type)
	assert.Nil(t, ns[1].Selection)
}

func TestMachine_UpFirstIsStartThenCancel(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := m.Feed(domain.Up(5, 5, at(0)))
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyCancel, ns[0].Type)
	assert.Equal(t, domain.ModeUnresolved, ns[0].Mode)
	assert.True(t, m.Done())
}

func TestMachine_QuickClick(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := feedAll(m,
		domain.Down(5, 5, at(0)),
		domain.Up(5, 5, at(0)),
	)
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyCancel, ns[0].Type)
}

func TestMachine_ReleaseFarAwayInOneJump(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := feedAll(m,
		domain.Down(0, 0, at(0)),
		domain.Up(0, -60, at(15)),
	)
	assert.Equal(t, []step{
		{domain.NotifyActive, "<root>", "A"},
		{domain.NotifySelect, "<root>", "A"},
	}, steps(ns))
}

func TestMachine_IgnoredSamples(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := feedAll(m,
		domain.Down(0, 0, at(0)),
		domain.Move(0, -50, at(10)),
		domain.Move(0, 50, at(10)),          // duplicate timestamp
		domain.Move(0, 50, at(5)),           // out of order
		domain.Move(math.NaN(), 50, at(20)), // not a number
		domain.Down(0, 50, at(25)),          // second press
		domain.Move(0, -60, at(30)),
	)
	assert.Equal(t, []step{
		{domain.NotifyActive, "<root>", "A"},
	}, steps(ns))
	assert.Equal(t, []domain.Point{domain.Pt(0, 0), domain.Pt(0, -50), domain.Pt(0, -60)}, m.History())
}

func TestMachine_NothingAfterTerminal(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	feedAll(m, domain.Down(0, 0, at(0)), domain.Up(0, 0, at(10)))
	require.True(t, m.Done())

	assert.Empty(t, m.Feed(domain.Move(0, 80, at(20))))
	assert.Empty(t, m.Feed(domain.Up(0, 80, at(30))))
	assert.Empty(t, m.Advance(at(5000)))
	assert.Empty(t, m.Cancel(at(6000)))
}

func TestMachine_StepAfterTerminal(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())

	ns, err := m.Step(domain.Down(0, 0, at(0)))
	require.NoError(t, err)
	assert.Empty(t, ns)
	ns, err = m.Step(domain.Up(0, -60, at(10)))
	require.NoError(t, err)
	require.NotEmpty(t, ns)
	assert.Equal(t, domain.NotifySelect, ns[len(ns)-1].Type)

	ns, err = m.Step(domain.Move(0, 80, at(20)))
	require.ErrorIs(t, err, domain.ErrGestureEnded)
	assert.Empty(t, ns)
}

func TestMachine_Cancel(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	assert.Empty(t, m.Cancel(at(0)), "cancel before start is a no-op")

	feedAll(m, domain.Down(0, 0, at(0)), domain.Move(0, 50, at(10)))
	ns := m.Cancel(at(20))
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyCancel, ns[0].Type)
	assert.Equal(t, at(20), ns[0].Timestamp)
	_, pending := m.Deadline()
	assert.False(t, pending)
}

func TestMachine_LeavingBranchCancelsDwell(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := feedAll(m,
		domain.Down(100, 100, at(0)),
		domain.Move(100, 190, at(10)), // B hot, dwell due at 35ms
		domain.Move(100, 10, at(20)),  // A hot, dwell dropped
		domain.Move(100, 11, at(100)),
	)
	assert.Equal(t, []step{
		{domain.NotifyActive, "<root>", "B"},
		{domain.NotifyActive, "<root>", "A"},
	}, steps(ns))
}

func TestMachine_DwellRestartsAfterMovement(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := feedAll(m,
		domain.Down(100, 100, at(0)),
		domain.Move(100, 190, at(20)), // dwell due at 45ms
		domain.Move(110, 200, at(40)), // moved past movementsThreshold: due at 65ms
		domain.Move(110, 201, at(60)), // small jitter keeps the timer
	)
	assert.Equal(t, []step{{domain.NotifyActive, "<root>", "B"}}, steps(ns))

	deadline, ok := m.Deadline()
	require.True(t, ok)
	assert.Equal(t, at(65), deadline)

	ns = m.Feed(domain.Move(110, 202, at(70)))
	require.NotEmpty(t, ns)
	assert.Equal(t, domain.NotifyOpen, ns[0].Type)
	assert.Equal(t, domain.Pt(110, 201), ns[0].Center)
}

func TestMachine_MovementOneMillisecondBeforeOpenSuppressesIt(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	ns := feedAll(m,
		domain.Down(100, 100, at(0)),
		domain.Move(100, 190, at(20)), // dwell due at 45ms
		domain.Move(110, 200, at(44)),
	)
	assert.Equal(t, []step{{domain.NotifyActive, "<root>", "B"}}, steps(ns))

	assert.Empty(t, m.Advance(at(45)), "interrupted dwell must not open B")
	assert.True(t, m.Menu().IsRoot())

	deadline, ok := m.Deadline()
	require.True(t, ok)
	assert.Equal(t, at(69), deadline)
}

func TestMachine_NoDwellBelowMenuSelectionDist(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	feedAll(m,
		domain.Down(100, 100, at(0)),
		domain.Move(100, 160, at(10)),
	)
	_, ok := m.Deadline()
	assert.False(t, ok)
	assert.Equal(t, "B", m.Active().Label())
}

func TestMachine_BackNavigation(t *testing.T) {
	root := sampleMenu(t)
	m := newMachine(t, root, domain.DefaultConfig())

	feedAll(m,
		domain.Down(100, 100, at(0)),
		domain.Move(100, 190, at(20)),
		domain.Move(100, 191, at(50)), // B opens at (100,190)
	)
	require.Equal(t, root.Child(1), m.Menu())

	ns := feedAll(m,
		domain.Move(100, 240, at(60)), // B2 hot, level armed
		domain.Move(100, 195, at(70)), // back into B's dead zone
	)
	assert.Equal(t, []step{
		{domain.NotifyActive, "B", "B/B2"},
		{domain.NotifyClose, "B", ""},
	}, steps(ns))
	assert.Equal(t, domain.Pt(100, 100), ns[1].Center, "close reports the parent center")
	assert.Equal(t, root, m.Menu())
	assert.Nil(t, m.Active())

	ns = m.Feed(domain.Move(100, 10, at(80)))
	assert.Equal(t, []step{{domain.NotifyActive, "<root>", "A"}}, steps(ns))
	ns = m.Feed(domain.Up(100, 10, at(90)))
	assert.Equal(t, []step{{domain.NotifySelect, "<root>", "A"}}, steps(ns))
}

func TestMachine_BackNavigationRequiresArming(t *testing.T) {
	root := sampleMenu(t)
	m := newMachine(t, root, domain.DefaultConfig())

	ns := feedAll(m,
		domain.Down(100, 100, at(0)),
		domain.Move(100, 190, at(20)),
		domain.Move(100, 191, at(50)), // B opens, pointer inside its dead zone
		domain.Move(100, 189, at(60)),
	)
	for _, n := range ns {
		assert.NotEqual(t, domain.NotifyClose, n.Type)
	}
	assert.Equal(t, root.Child(1), m.Menu())
}

func TestMachine_BackNavigationDisabled(t *testing.T) {
	root := sampleMenu(t)
	cfg := domain.DefaultConfig()
	cfg.BackNavigation = false
	m := newMachine(t, root, cfg)

	ns := feedAll(m,
		domain.Down(100, 100, at(0)),
		domain.Move(100, 190, at(20)),
		domain.Move(100, 191, at(50)),
		domain.Move(100, 240, at(60)),
		domain.Move(100, 195, at(70)),
	)
	last := ns[len(ns)-1]
	assert.Equal(t, domain.NotifyActive, last.Type)
	assert.Nil(t, last.Selection)
	assert.Equal(t, root.Child(1), m.Menu())
}

func TestMachine_OriginalEventIsCarried(t *testing.T) {
	m := newMachine(t, sampleMenu(t), domain.DefaultConfig())
	down := domain.Down(0, 0, at(0))
	down.OriginalEvent = "press"
	move := domain.Move(0, -50, at(10))
	move.OriginalEvent = "drag"
	up := domain.Up(0, -50, at(20))
	up.OriginalEvent = "release"

	ns := feedAll(m, down, move, up)
	require.Len(t, ns, 2)
	assert.Equal(t, "drag", ns[0].OriginalEvent)
	assert.Equal(t, "release", ns[1].OriginalEvent)
}

func TestMachine_EmptyMenu(t *testing.T) {
	root, err := menu.Build(nil)
	require.NoError(t, err)
	m := newMachine(t, root, domain.DefaultConfig())

	ns := feedAll(m,
		domain.Down(0, 0, at(0)),
		domain.Move(0, -80, at(10)),
		domain.Up(0, -80, at(20)),
	)
	assert.Equal(t, []step{{domain.NotifyCancel, "<root>", ""}}, steps(ns))
}
