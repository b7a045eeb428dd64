// Package config turns the flat option set of a marking menu into a
// domain.Config.
//
// Options use the camelCase keys of the original factory (minSelectionDist,
// subMenuOpeningDelay, ...). Delays are milliseconds when given as numbers and
// Go durations ("25ms", "1s") when given as strings. Unknown keys are
// rejected.
package config

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// fields mirrors domain.Config with the option keys as tags.
type fields struct {
	MinSelectionDist       float64       `mapstructure:"minSelectionDist"`
	MinMenuSelectionDist   float64       `mapstructure:"minMenuSelectionDist"`
	SubMenuOpeningDelay    time.Duration `mapstructure:"subMenuOpeningDelay"`
	MovementsThreshold     float64       `mapstructure:"movementsThreshold"`
	NoviceDwellingTime     time.Duration `mapstructure:"noviceDwellingTime"`
	BackNavigation         bool          `mapstructure:"backNavigation"`
	StrokeColor            string        `mapstructure:"strokeColor"`
	StrokeWidth            float64       `mapstructure:"strokeWidth"`
	StrokeStartPointRadius float64       `mapstructure:"strokeStartPointRadius"`
}

// Decode applies opts over the defaults and validates the result.
func Decode(opts map[string]any) (domain.Config, error) {
	return Apply(domain.DefaultConfig(), opts)
}

// Apply overrides base with the keys present in opts and validates the
// result. Keys absent from opts keep their base value.
func Apply(base domain.Config, opts map[string]any) (domain.Config, error) {
	f := fields(base)
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(milliseconds),
		Metadata:   &md,
		Result:     &f,
	})
	if err != nil {
		return base, fmt.Errorf("failed to create option decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return base, &domain.ConfigError{Field: "options", Reason: "cannot decode", Err: err}
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return base, &domain.ConfigError{
			Field:  md.Unused[0],
			Reason: "unknown option (known: " + strings.Join(Keys(), ", ") + ")",
		}
	}

	cfg := domain.Config(f)
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Encode returns the option set describing cfg, delays in milliseconds.
func Encode(cfg domain.Config) map[string]any {
	return map[string]any{
		"minSelectionDist":       cfg.MinSelectionDist,
		"minMenuSelectionDist":   cfg.MinMenuSelectionDist,
		"subMenuOpeningDelay":    ms(cfg.SubMenuOpeningDelay),
		"movementsThreshold":     cfg.MovementsThreshold,
		"noviceDwellingTime":     ms(cfg.NoviceDwellingTime),
		"backNavigation":         cfg.BackNavigation,
		"strokeColor":            cfg.StrokeColor,
		"strokeWidth":            cfg.StrokeWidth,
		"strokeStartPointRadius": cfg.StrokeStartPointRadius,
	}
}

// Keys returns the accepted option keys, sorted.
func Keys() []string {
	t := reflect.TypeOf(fields{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, t.Field(i).Tag.Get("mapstructure"))
	}
	sort.Strings(keys)
	return keys
}

// Load reads an option file. YAML and JSON are both accepted.
func Load(path string) (domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON option document over the defaults.
func Parse(data []byte) (domain.Config, error) {
	var opts map[string]any
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return domain.Config{}, &domain.ConfigError{Field: "options", Reason: "cannot parse", Err: err}
	}
	return Decode(opts)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var durationType = reflect.TypeOf(time.Duration(0))

// milliseconds converts numbers to durations in milliseconds and strings with
// time.ParseDuration.
func milliseconds(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return time.ParseDuration(v)
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("delay %v is not a number of milliseconds", v)
		}
		return time.Duration(v * float64(time.Millisecond)), nil
	}
	return data, nil
}
