package render

import (
	"math"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
)

const margin = 16

// Level is a menu level visible in a scene.
type Level struct {
	Menu   *menu.Node
	Center domain.Point
}

// Scene is what the user sees at the end of a notification stream.
type Scene struct {
	Levels []Level
	Active *menu.Node
	Points []domain.Point
}

// SceneOf folds a notification stream into the scene it leaves on screen.
// Terminal notifications do not clear the scene so the outcome stays
// visible.
func SceneOf(ns []domain.Notification, points []domain.Point) Scene {
	s := Scene{Points: points}
	for _, n := range ns {
		switch n.Type {
		case domain.NotifyOpen:
			s.Levels = append(s.Levels, Level{Menu: n.Menu, Center: n.Center})
			s.Active = nil
		case domain.NotifyClose:
			if len(s.Levels) > 0 {
				s.Levels = s.Levels[:len(s.Levels)-1]
			}
			s.Active = nil
		case domain.NotifyActive, domain.NotifySelect:
			s.Active = n.Selection
		}
	}
	return s
}

// Snapshot draws the scene on a canvas sized to fit it. Only the innermost
// open level is drawn. The caller owns the returned canvas.
func Snapshot(cfg domain.Config, scene Scene) (*StrokeCanvas, error) {
	radius := math.Max(cfg.MinMenuSelectionDist, cfg.MinSelectionDist) * 1.5

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(p domain.Point, r float64) {
		minX, minY = math.Min(minX, p.X-r), math.Min(minY, p.Y-r)
		maxX, maxY = math.Max(maxX, p.X+r), math.Max(maxY, p.Y+r)
	}
	for _, p := range scene.Points {
		extend(p, math.Max(cfg.StrokeWidth, cfg.StrokeStartPointRadius))
	}
	var top *Level
	if len(scene.Levels) > 0 {
		top = &scene.Levels[len(scene.Levels)-1]
		extend(top.Center, radius)
	}
	if math.IsInf(minX, 0) {
		extend(domain.Point{}, radius)
	}

	width := int(math.Ceil(maxX-minX)) + 2*margin
	height := int(math.Ceil(maxY-minY)) + 2*margin
	c, err := NewStrokeCanvas(width, height, cfg)
	if err != nil {
		return nil, err
	}
	c.SetOffset(domain.Pt(margin-minX, margin-minY))
	c.Fill(DefaultPalette.Background)

	if top != nil {
		center := top.Center.Add(c.offset)
		active := scene.Active
		if active != nil && active.Parent() != top.Menu {
			active = nil
		}
		if err := DrawMenu(c.dc, top.Menu, center, active, radius, cfg.MinSelectionDist, DefaultPalette); err != nil {
			c.Close()
			return nil, err
		}
	}
	if err := c.DrawStroke(scene.Points); err != nil {
		c.Close()
		return nil, err
	}
	if len(scene.Points) > 0 {
		if err := c.DrawPoint(scene.Points[0]); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}
