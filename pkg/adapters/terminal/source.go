// Package terminal drives the navigation engine from terminal mouse events
// and draws the revealed menu with character cells.
package terminal

import (
	"context"
	"log/slog"

	"github.com/aretw0/markmenu/internal/logging"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/gdamore/tcell/v2"
)

// Default cell size in pixels. Terminal cells are roughly twice as tall as
// they are wide.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

const wheel = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

// Source converts terminal mouse events into pointer samples. Cell
// coordinates are scaled to pixels so menu distances keep their meaning.
type Source struct {
	screen   tcell.Screen
	cellW    float64
	cellH    float64
	pressed  bool
	observer func(domain.Sample)
	logger   *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithCellSize sets the pixel size of a cell.
func WithCellSize(w, h float64) Option {
	return func(s *Source) {
		if w > 0 && h > 0 {
			s.cellW, s.cellH = w, h
		}
	}
}

// WithObserver registers fn to see every sample before it is sent.
func WithObserver(fn func(domain.Sample)) Option {
	return func(s *Source) { s.observer = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) { s.logger = logger }
}

// NewSource creates a Source reading from an initialized screen.
func NewSource(screen tcell.Screen, opts ...Option) *Source {
	s := &Source{
		screen: screen,
		cellW:  DefaultCellWidth,
		cellH:  DefaultCellHeight,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Point returns the pixel at the center of a cell.
func (s *Source) Point(x, y int) domain.Point {
	return domain.Pt((float64(x)+0.5)*s.cellW, (float64(y)+0.5)*s.cellH)
}

// Cell returns the cell containing a pixel.
func (s *Source) Cell(p domain.Point) (int, int) {
	return int(p.X / s.cellW), int(p.Y / s.cellH)
}

// Convert maps a mouse event to a sample. The primary button starts and ends
// gestures; wheel events are dropped.
func (s *Source) Convert(ev *tcell.EventMouse) (domain.Sample, bool) {
	buttons := ev.Buttons()
	if buttons&wheel != 0 {
		return domain.Sample{}, false
	}
	x, y := ev.Position()
	p := s.Point(x, y)
	down := buttons&tcell.Button1 != 0

	var sample domain.Sample
	switch {
	case down && !s.pressed:
		sample = domain.Down(p.X, p.Y, ev.When())
	case !down && s.pressed:
		sample = domain.Up(p.X, p.Y, ev.When())
	default:
		sample = domain.Move(p.X, p.Y, ev.When())
	}
	sample.OriginalEvent = ev
	s.pressed = down
	return sample, true
}

// Pump polls screen events and sends samples to out until ctx is done or
// the user presses Escape, Ctrl-C or q. It closes out before returning.
func (s *Source) Pump(ctx context.Context, out chan<- domain.Sample) error {
	defer close(out)

	stop := context.AfterFunc(ctx, func() {
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; event queue may be full
	})
	defer stop()

	for {
		ev := s.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return ctx.Err()
			}
		case *tcell.EventKey:
			if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC || (e.Key() == tcell.KeyRune && e.Rune() == 'q') {
				s.logger.Debug("terminal source stopped by key")
				return nil
			}
		case *tcell.EventMouse:
			sample, ok := s.Convert(e)
			if !ok {
				continue
			}
			if s.observer != nil {
				s.observer(sample)
			}
			select {
			case out <- sample:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
