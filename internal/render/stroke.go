package render

import (
	"image"
	"io"
	"math"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/gogpu/gg"
)

// StrokeCanvas is the layer the gesture stroke is drawn on.
type StrokeCanvas struct {
	dc     *gg.Context
	color  gg.RGBA
	width  float64
	radius float64
	offset domain.Point
}

// NewStrokeCanvas creates a transparent canvas of the given size using the
// stroke options of cfg.
func NewStrokeCanvas(width, height int, cfg domain.Config) (*StrokeCanvas, error) {
	col, err := ParseColor(cfg.StrokeColor)
	if err != nil {
		return nil, &domain.ConfigError{Field: "strokeColor", Value: cfg.StrokeColor, Err: err}
	}
	return &StrokeCanvas{
		dc:     gg.NewContext(width, height),
		color:  col,
		width:  cfg.StrokeWidth,
		radius: cfg.StrokeStartPointRadius,
	}, nil
}

// SetOffset shifts every point drawn afterwards by off.
func (c *StrokeCanvas) SetOffset(off domain.Point) {
	c.offset = off
}

// Project returns the pixel a gesture point lands on.
func (c *StrokeCanvas) Project(p domain.Point) (int, int) {
	q := p.Add(c.offset)
	return int(math.Round(q.X)), int(math.Round(q.Y))
}

// Context exposes the underlying drawing context.
func (c *StrokeCanvas) Context() *gg.Context { return c.dc }

// Image returns the rendered pixels.
func (c *StrokeCanvas) Image() image.Image { return c.dc.Image() }

// Clear erases the canvas.
func (c *StrokeCanvas) Clear() {
	c.dc.ClearWithColor(gg.Transparent)
}

// Fill paints the whole canvas with col.
func (c *StrokeCanvas) Fill(col gg.RGBA) {
	c.dc.ClearWithColor(col)
}

// DrawStroke draws the polyline through points with round caps and joins.
// Fewer than two points draw nothing.
func (c *StrokeCanvas) DrawStroke(points []domain.Point) error {
	if len(points) < 2 {
		return nil
	}
	c.dc.SetColor(c.color.Color())
	c.dc.SetLineWidth(c.width)
	c.dc.SetLineCap(gg.LineCapRound)
	c.dc.SetLineJoin(gg.LineJoinRound)

	first := points[0].Add(c.offset)
	c.dc.MoveTo(first.X, first.Y)
	for _, p := range points[1:] {
		q := p.Add(c.offset)
		c.dc.LineTo(q.X, q.Y)
	}
	return c.dc.Stroke()
}

// DrawPoint draws the disc marking where the gesture started.
func (c *StrokeCanvas) DrawPoint(p domain.Point) error {
	if c.radius <= 0 {
		return nil
	}
	q := p.Add(c.offset)
	c.dc.SetColor(c.color.Color())
	c.dc.DrawCircle(q.X, q.Y, c.radius)
	return c.dc.Fill()
}

// EncodePNG writes the canvas as PNG.
func (c *StrokeCanvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// Close releases the drawing context.
func (c *StrokeCanvas) Close() error {
	return c.dc.Close()
}
