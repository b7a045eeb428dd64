package domain

import "time"

// SampleKind tells where a sample sits in a gesture.
type SampleKind string

const (
	SampleDown SampleKind = "down" // Pointer pressed: starts a gesture
	SampleMove SampleKind = "move" // Pointer moved while pressed
	SampleUp   SampleKind = "up"   // Pointer released: ends the gesture
)

// Sample is one pointer report from a position source.
type Sample struct {
	Kind      SampleKind `json:"kind"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Timestamp time.Time  `json:"timestamp"`

	// OriginalEvent is the device event the sample was derived from. It is
	// carried, untouched, on every notification the sample triggers.
	OriginalEvent any `json:"-"`
}

// Point returns the sample position.
func (s Sample) Point() Point {
	return Point{X: s.X, Y: s.Y}
}

// Down builds a down sample.
func Down(x, y float64, at time.Time) Sample {
	return Sample{Kind: SampleDown, X: x, Y: y, Timestamp: at}
}

// Move builds a move sample.
func Move(x, y float64, at time.Time) Sample {
	return Sample{Kind: SampleMove, X: x, Y: y, Timestamp: at}
}

// Up builds an up sample.
func Up(x, y float64, at time.Time) Sample {
	return Sample{Kind: SampleUp, X: x, Y: y, Timestamp: at}
}
