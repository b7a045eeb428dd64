package domain

import "math"

// Point is a position in screen coordinates (y grows downwards).
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// AngleFrom returns the direction of p as seen from origin, in degrees.
// With y growing downwards, 0 points right, -90 up and 90 down.
// The result is NaN when p and origin coincide.
func (p Point) AngleFrom(origin Point) float64 {
	d := p.Sub(origin)
	if d.X == 0 && d.Y == 0 {
		return math.NaN()
	}
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// Valid reports whether both coordinates are finite numbers.
func (p Point) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
