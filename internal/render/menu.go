package render

import (
	"math"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/gogpu/gg"
)

// Palette holds the colours used for menu levels.
type Palette struct {
	Background gg.RGBA
	Item       gg.RGBA
	Branch     gg.RGBA
	Active     gg.RGBA
	Outline    gg.RGBA
	DeadZone   gg.RGBA
}

// DefaultPalette is a light theme.
var DefaultPalette = Palette{
	Background: gg.White,
	Item:       gg.Hex("#e8eef4"),
	Branch:     gg.Hex("#c9d8e6"),
	Active:     gg.Hex("#4682b4"),
	Outline:    gg.Hex("#8a9aa9"),
	DeadZone:   gg.White,
}

// DrawMenu draws one menu level around center: a wedge per child, the active
// child highlighted, and the dead zone of the given radius cleared on top.
func DrawMenu(dc *gg.Context, node *menu.Node, center domain.Point, active *menu.Node, radius, deadZone float64, pal Palette) error {
	n := node.Len()
	if n == 0 || radius <= 0 {
		return nil
	}
	half := math.Pi / float64(n)
	for _, child := range node.Children() {
		mid := child.Angle() * math.Pi / 180
		a1, a2 := mid-half, mid+half

		dc.MoveTo(center.X, center.Y)
		dc.LineTo(center.X+radius*math.Cos(a1), center.Y+radius*math.Sin(a1))
		dc.DrawArc(center.X, center.Y, radius, a1, a2)
		dc.ClosePath()

		fill := pal.Item
		switch {
		case child == active:
			fill = pal.Active
		case !child.IsLeaf():
			fill = pal.Branch
		}
		dc.SetColor(fill.Color())
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetColor(pal.Outline.Color())
		dc.SetLineWidth(1)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	if deadZone > 0 && deadZone < radius {
		dc.SetColor(pal.DeadZone.Color())
		dc.DrawCircle(center.X, center.Y, deadZone)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetColor(pal.Outline.Color())
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}
