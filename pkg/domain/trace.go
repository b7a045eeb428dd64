package domain

import (
	"time"
)

// TraceSample is a recorded sample. T is the offset from the start of the
// trace in milliseconds.
type TraceSample struct {
	Kind SampleKind `json:"kind" yaml:"kind"`
	X    float64    `json:"x" yaml:"x"`
	Y    float64    `json:"y" yaml:"y"`
	T    float64    `json:"t" yaml:"t"`
}

// Trace is a recorded (or synthesized) pointer sequence, optionally bundled
// with the menu description and options it was recorded against.
type Trace struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Menu      []any          `json:"menu,omitempty" yaml:"menu,omitempty"`
	Options   map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	Samples   []TraceSample  `json:"samples" yaml:"samples"`
}

// SamplesAt converts the recorded offsets into absolute samples starting at start.
func (t *Trace) SamplesAt(start time.Time) []Sample {
	out := make([]Sample, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = Sample{
			Kind:      s.Kind,
			X:         s.X,
			Y:         s.Y,
			Timestamp: start.Add(time.Duration(s.T * float64(time.Millisecond))),
		}
	}
	return out
}

// Record appends a sample to the trace, converting its timestamp into an
// offset from start.
func (t *Trace) Record(start time.Time, s Sample) {
	t.Samples = append(t.Samples, TraceSample{
		Kind: s.Kind,
		X:    s.X,
		Y:    s.Y,
		T:    float64(s.Timestamp.Sub(start)) / float64(time.Millisecond),
	})
}

// Clone returns a copy of t that shares no slices or maps with it. Menu
// entries are copied one level deep.
func (t *Trace) Clone() *Trace {
	out := *t
	if t.Menu != nil {
		out.Menu = append([]any(nil), t.Menu...)
	}
	if t.Options != nil {
		out.Options = make(map[string]any, len(t.Options))
		for k, v := range t.Options {
			out.Options[k] = v
		}
	}
	if t.Samples != nil {
		out.Samples = append([]TraceSample(nil), t.Samples...)
	}
	return &out
}
