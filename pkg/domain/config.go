package domain

import (
	"math"
	"strings"
	"time"
)

// Config holds the thresholds of the gesture state machine and the visual
// options of the renderers.
type Config struct {
	// MinSelectionDist is the dead-zone radius around a level's center.
	MinSelectionDist float64
	// MinMenuSelectionDist is the distance a branch must be aimed from before
	// its sub-menu can open.
	MinMenuSelectionDist float64
	// SubMenuOpeningDelay is how long the pointer must dwell on a branch.
	SubMenuOpeningDelay time.Duration
	// MovementsThreshold is the largest displacement still considered "not moving".
	MovementsThreshold float64
	// NoviceDwellingTime is the initial dwell that reveals the menu.
	NoviceDwellingTime time.Duration
	// BackNavigation enables retreating to the parent level by coming back
	// into the dead zone of a sub-menu.
	BackNavigation bool

	StrokeColor            string
	StrokeWidth            float64
	StrokeStartPointRadius float64
}

// DefaultConfig returns the defaults of the original marking menu factory.
func DefaultConfig() Config {
	return Config{
		MinSelectionDist:       40,
		MinMenuSelectionDist:   80,
		SubMenuOpeningDelay:    25 * time.Millisecond,
		MovementsThreshold:     5,
		NoviceDwellingTime:     time.Second / 3,
		BackNavigation:         true,
		StrokeColor:            "black",
		StrokeWidth:            4,
		StrokeStartPointRadius: 8,
	}
}

// Validate checks every threshold and returns a *ConfigError for the first
// invalid one.
func (c Config) Validate() error {
	distances := []struct {
		field string
		value float64
	}{
		{"minSelectionDist", c.MinSelectionDist},
		{"minMenuSelectionDist", c.MinMenuSelectionDist},
		{"movementsThreshold", c.MovementsThreshold},
		{"strokeWidth", c.StrokeWidth},
	}
	for _, d := range distances {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) {
			return &ConfigError{Field: d.field, Value: d.value, Reason: "must be a finite number"}
		}
		if d.value <= 0 {
			return &ConfigError{Field: d.field, Value: d.value, Reason: "must be positive"}
		}
	}

	delays := []struct {
		field string
		value time.Duration
	}{
		{"subMenuOpeningDelay", c.SubMenuOpeningDelay},
		{"noviceDwellingTime", c.NoviceDwellingTime},
	}
	for _, d := range delays {
		if d.value <= 0 {
			return &ConfigError{Field: d.field, Value: d.value, Reason: "must be positive"}
		}
	}

	if math.IsNaN(c.StrokeStartPointRadius) || c.StrokeStartPointRadius < 0 {
		return &ConfigError{Field: "strokeStartPointRadius", Value: c.StrokeStartPointRadius, Reason: "must not be negative"}
	}
	if strings.TrimSpace(c.StrokeColor) == "" {
		return &ConfigError{Field: "strokeColor", Value: c.StrokeColor, Reason: "is required"}
	}
	return nil
}
