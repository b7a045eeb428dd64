package runtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
)

type phase int

const (
	phaseIdle phase = iota
	phaseUnresolved
	phaseActive
	phaseEnded
)

type dwellKind int

const (
	dwellNovice dwellKind = iota + 1
	dwellSubMenu
)

// dwell is a pending timer. At most one exists at a time.
type dwell struct {
	kind     dwellKind
	target   *menu.Node
	anchor   domain.Point
	deadline time.Time
}

// level is one entry of the navigation stack.
type level struct {
	menu   *menu.Node
	center domain.Point
	// armed is set once the pointer has left this level's dead zone.
	armed bool
}

// Machine is the navigation state machine of a single gesture.
//
// It is driven entirely by sample timestamps: Feed processes a pointer sample
// and Advance fires the dwell timers that are due at a given instant. Machine
// performs no I/O and starts no goroutines, so it is not safe for concurrent
// use; Navigator and Replay serialize access to it.
type Machine struct {
	cfg    domain.Config
	root   *menu.Node
	id     string
	logger *slog.Logger

	phase   phase
	mode    domain.Mode
	levels  []level
	active  *menu.Node
	pending *dwell

	pointer domain.Point
	last    time.Time
	started time.Time
	event   any
	history []domain.Point
}

// NewMachine creates a machine for one gesture over root. The configuration is
// validated before anything else.
func NewMachine(root *menu.Node, cfg domain.Config, opts ...Option) (*Machine, error) {
	if err := validate(root, cfg); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	return newMachine(root, cfg, o), nil
}

func newMachine(root *menu.Node, cfg domain.Config, o options) *Machine {
	id := o.newID()
	return &Machine{
		cfg:    cfg,
		root:   root,
		id:     id,
		logger: o.logger.With("gesture", id),
		mode:   domain.ModeUnresolved,
	}
}

func validate(root *menu.Node, cfg domain.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if root == nil {
		return &menu.MalformedMenuError{Reason: "menu is nil"}
	}
	if !root.IsRoot() {
		return &menu.MalformedMenuError{Reason: "navigation must start at the root of a menu"}
	}
	return nil
}

// ID returns the gesture identifier carried by every notification.
func (m *Machine) ID() string { return m.id }

// Mode returns the current interaction mode.
func (m *Machine) Mode() domain.Mode { return m.mode }

// Started reports whether the gesture has received its first sample.
func (m *Machine) Started() bool { return m.phase != phaseIdle }

// Done reports whether a terminal notification has been emitted.
func (m *Machine) Done() bool { return m.phase == phaseEnded }

// StartedAt returns the timestamp of the first sample.
func (m *Machine) StartedAt() time.Time { return m.started }

// Origin returns the position of the first sample.
func (m *Machine) Origin() domain.Point {
	if len(m.history) == 0 {
		return domain.Point{}
	}
	return m.history[0]
}

// Active returns the highlighted item of the current level, or nil.
func (m *Machine) Active() *menu.Node { return m.active }

// Menu returns the menu of the current navigation level, or nil before start.
func (m *Machine) Menu() *menu.Node {
	if len(m.levels) == 0 {
		return nil
	}
	return m.levels[len(m.levels)-1].menu
}

// Center returns the center of the current navigation level.
func (m *Machine) Center() domain.Point {
	if len(m.levels) == 0 {
		return domain.Point{}
	}
	return m.levels[len(m.levels)-1].center
}

// History returns a copy of the accepted pointer positions, in order.
func (m *Machine) History() []domain.Point {
	out := make([]domain.Point, len(m.history))
	copy(out, m.history)
	return out
}

// Deadline returns the instant the pending dwell timer is due, if any.
func (m *Machine) Deadline() (time.Time, bool) {
	if m.pending == nil {
		return time.Time{}, false
	}
	return m.pending.deadline, true
}

// Feed processes one pointer sample and returns the notifications it caused,
// in order. Timers due at or before the sample's timestamp fire first.
func (m *Machine) Feed(s domain.Sample) []domain.Notification {
	switch m.phase {
	case phaseEnded:
		return nil
	case phaseIdle:
		return m.start(s)
	}

	switch s.Kind {
	case domain.SampleUp:
		return m.end(s)
	case domain.SampleDown:
		m.logger.Debug("ignoring press during gesture")
		return nil
	}

	if !s.Point().Valid() || !s.Timestamp.After(m.last) {
		m.logger.Debug("ignoring sample", "x", s.X, "y", s.Y, "timestamp", s.Timestamp)
		return nil
	}

	out := m.Advance(s.Timestamp)
	m.observe(s)
	return append(out, m.move(s.Timestamp, true)...)
}

// Step is Feed for callers that keep a Machine past its gesture: it fails
// with domain.ErrGestureEnded once the terminal notification was emitted.
func (m *Machine) Step(s domain.Sample) ([]domain.Notification, error) {
	if m.phase == phaseEnded {
		return nil, fmt.Errorf("gesture %s: %w", m.id, domain.ErrGestureEnded)
	}
	return m.Feed(s), nil
}

// Advance fires every pending timer due at or before now.
func (m *Machine) Advance(now time.Time) []domain.Notification {
	var out []domain.Notification
	for m.pending != nil && !m.pending.deadline.After(now) {
		out = append(out, m.fire()...)
	}
	return out
}

// Cancel ends the gesture without a selection. It is a no-op once the
// gesture has ended or before it started.
func (m *Machine) Cancel(at time.Time) []domain.Notification {
	if m.phase == phaseIdle || m.phase == phaseEnded {
		return nil
	}
	m.cancelDwell()
	if at.IsZero() || at.Before(m.last) {
		at = m.last
	}
	n := m.notify(domain.NotifyCancel, m.Menu(), m.Center(), nil, at)
	m.phase = phaseEnded
	return []domain.Notification{n}
}

func (m *Machine) start(s domain.Sample) []domain.Notification {
	p := s.Point()
	if !p.Valid() {
		m.logger.Debug("ignoring invalid start sample", "x", s.X, "y", s.Y)
		return nil
	}
	m.phase = phaseUnresolved
	m.started = s.Timestamp
	m.levels = []level{{menu: m.root, center: p}}
	m.observe(s)
	m.schedule(dwellNovice, nil, p, m.cfg.NoviceDwellingTime)
	m.logger.Debug("gesture started", "x", p.X, "y", p.Y)

	if s.Kind == domain.SampleUp {
		return m.end(s)
	}
	return nil
}

func (m *Machine) end(s domain.Sample) []domain.Notification {
	var out []domain.Notification
	at := m.last
	if s.Point().Valid() && !s.Timestamp.Before(m.last) {
		out = m.Advance(s.Timestamp)
		if s.Timestamp.After(m.last) || m.pointer != s.Point() {
			m.observe(s)
			out = append(out, m.move(s.Timestamp, false)...)
		}
		at = s.Timestamp
	}
	m.event = s.OriginalEvent
	m.cancelDwell()

	center := m.Center()
	if m.active != nil && m.active.IsLeaf() && m.pointer.Dist(center) >= m.cfg.MinSelectionDist {
		out = append(out, m.notify(domain.NotifySelect, m.Menu(), center, m.active, at))
		m.logger.Debug("item selected", "item", m.active.String())
	} else {
		out = append(out, m.notify(domain.NotifyCancel, m.Menu(), center, nil, at))
		m.logger.Debug("gesture cancelled")
	}
	m.phase = phaseEnded
	return out
}

func (m *Machine) observe(s domain.Sample) {
	m.pointer = s.Point()
	m.last = s.Timestamp
	m.event = s.OriginalEvent
	m.history = append(m.history, m.pointer)
}

func (m *Machine) move(at time.Time, allowDwell bool) []domain.Notification {
	if m.phase == phaseUnresolved {
		if m.pointer.Dist(m.levels[0].center) <= m.cfg.MovementsThreshold {
			return nil
		}
		m.cancelDwell()
		m.phase = phaseActive
		m.mode = domain.ModeExpert
		m.logger.Debug("mode resolved", "mode", m.mode)
	}
	return m.navigate(at, allowDwell)
}

func (m *Machine) navigate(at time.Time, allowDwell bool) []domain.Notification {
	lvl := &m.levels[len(m.levels)-1]
	d := m.pointer.Dist(lvl.center)

	if d < m.cfg.MinSelectionDist {
		if m.cfg.BackNavigation && len(m.levels) > 1 && lvl.armed {
			return m.retreat(at)
		}
		m.cancelDwell()
		return m.setActive(nil, at)
	}

	lvl.armed = true
	child := menu.ChildAt(lvl.menu, m.pointer.AngleFrom(lvl.center))
	out := m.setActive(child, at)
	if !allowDwell {
		return out
	}

	if child != nil && !child.IsLeaf() && d >= m.cfg.MinMenuSelectionDist {
		p := m.pending
		if p == nil || p.kind != dwellSubMenu || p.target != child ||
			m.pointer.Dist(p.anchor) > m.cfg.MovementsThreshold {
			m.schedule(dwellSubMenu, child, m.pointer, m.cfg.SubMenuOpeningDelay)
		}
	} else {
		m.cancelDwell()
	}
	return out
}

func (m *Machine) setActive(child *menu.Node, at time.Time) []domain.Notification {
	if child == m.active {
		return nil
	}
	m.active = child
	if m.pending != nil && m.pending.kind == dwellSubMenu && m.pending.target != child {
		m.cancelDwell()
	}
	return []domain.Notification{m.notify(domain.NotifyActive, m.Menu(), m.Center(), child, at)}
}

// retreat pops the current sub-menu after the pointer returned to its
// center, making the parent level current again.
func (m *Machine) retreat(at time.Time) []domain.Notification {
	m.cancelDwell()
	closing := m.levels[len(m.levels)-1]
	m.levels = m.levels[:len(m.levels)-1]
	m.active = nil
	m.logger.Debug("sub-menu closed", "menu", closing.menu.String())
	return []domain.Notification{m.notify(domain.NotifyClose, closing.menu, m.Center(), nil, at)}
}

func (m *Machine) fire() []domain.Notification {
	p := m.pending
	m.pending = nil

	switch p.kind {
	case dwellNovice:
		if m.phase != phaseUnresolved {
			return nil
		}
		m.phase = phaseActive
		m.mode = domain.ModeNovice
		m.logger.Debug("mode resolved", "mode", m.mode)
		root := m.levels[0]
		return []domain.Notification{m.notify(domain.NotifyOpen, root.menu, root.center, nil, p.deadline)}
	case dwellSubMenu:
		if m.phase != phaseActive || p.target != m.active {
			return nil
		}
		m.levels = append(m.levels, level{menu: p.target, center: m.pointer})
		m.active = nil
		m.logger.Debug("sub-menu opened", "menu", p.target.String())
		return []domain.Notification{m.notify(domain.NotifyOpen, p.target, m.pointer, nil, p.deadline)}
	}
	return nil
}

func (m *Machine) schedule(kind dwellKind, target *menu.Node, anchor domain.Point, delay time.Duration) {
	m.pending = &dwell{
		kind:     kind,
		target:   target,
		anchor:   anchor,
		deadline: m.last.Add(delay),
	}
}

func (m *Machine) cancelDwell() {
	m.pending = nil
}

func (m *Machine) notify(t domain.NotificationType, mn *menu.Node, center domain.Point, sel *menu.Node, at time.Time) domain.Notification {
	return domain.Notification{
		Type:          t,
		GestureID:     m.id,
		Mode:          m.mode,
		Menu:          mn,
		Center:        center,
		Current:       m.pointer,
		Selection:     sel,
		Timestamp:     at,
		OriginalEvent: m.event,
	}
}
