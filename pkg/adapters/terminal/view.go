package terminal

import (
	"fmt"
	"math"
	"sync"

	"github.com/aretw0/markmenu/internal/render"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/gdamore/tcell/v2"
)

var (
	styleItem   = tcell.StyleDefault.Foreground(tcell.ColorLightSteelBlue)
	styleBranch = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue).Bold(true)
	styleActive = tcell.StyleDefault.Reverse(true).Bold(true)
	styleTrail  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStart  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

// View draws the state of the current gesture on a screen. It is safe for
// concurrent use.
type View struct {
	mu     sync.Mutex
	screen tcell.Screen
	source *Source
	cfg    domain.Config
	ns     []domain.Notification
	points []domain.Point
	status string
}

// NewView creates a view drawing on the screen of source.
func NewView(source *Source, cfg domain.Config) *View {
	return &View{screen: source.screen, source: source, cfg: cfg}
}

// Record adds a sample to the trail. A down sample starts a new trail.
func (v *View) Record(s domain.Sample) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case s.Kind == domain.SampleDown:
		v.ns = nil
		v.points = []domain.Point{s.Point()}
	case len(v.points) > 0 && !v.ended():
		v.points = append(v.points, s.Point())
	}
}

// Apply folds a notification into the view.
func (v *View) Apply(n domain.Notification) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ns = append(v.ns, n)
	switch n.Type {
	case domain.NotifySelect:
		v.status = fmt.Sprintf("selected %s (%s)", n.Selection, n.Mode)
	case domain.NotifyCancel:
		v.status = fmt.Sprintf("cancelled (%s)", n.Mode)
	default:
		v.status = fmt.Sprintf("%s %s", n.Type, n.Mode)
	}
}

func (v *View) ended() bool {
	return len(v.ns) > 0 && v.ns[len(v.ns)-1].Type.IsTerminal()
}

// Draw repaints the screen.
func (v *View) Draw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.screen.Clear()
	scene := render.SceneOf(v.ns, v.points)
	for _, p := range scene.Points {
		x, y := v.source.Cell(p)
		v.screen.SetContent(x, y, '·', nil, styleTrail)
	}
	if len(scene.Points) > 0 {
		x, y := v.source.Cell(scene.Points[0])
		v.screen.SetContent(x, y, '●', nil, styleStart)
	}
	if n := len(scene.Levels); n > 0 && !v.ended() {
		v.drawLevel(scene.Levels[n-1], scene.Active)
	}

	_, h := v.screen.Size()
	v.text(0, h-1, "drag with the left button · q to quit · "+v.status, styleStatus)
	v.screen.Show()
}

func (v *View) drawLevel(level render.Level, active *menu.Node) {
	radius := math.Max(v.cfg.MinMenuSelectionDist, v.cfg.MinSelectionDist) * 1.2
	for _, child := range level.Menu.Children() {
		a := child.Angle() * math.Pi / 180
		p := level.Center.Add(domain.Pt(radius*math.Cos(a), radius*math.Sin(a)))
		x, y := v.source.Cell(p)

		label := child.Label()
		style := styleItem
		if !child.IsLeaf() {
			label += " ▸"
			style = styleBranch
		}
		if child == active {
			style = styleActive
		}
		v.text(x-len([]rune(label))/2, y, label, style)
	}
}

func (v *View) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}
