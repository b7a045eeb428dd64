// Package trace reads, writes and synthesizes recorded pointer traces.
package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/markmenu/pkg/config"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"gopkg.in/yaml.v3"
)

// ErrNoMenu is returned when a trace does not embed a menu description.
var ErrNoMenu = errors.New("trace has no menu")

// FormatFor picks "json" for .json paths and "yaml" otherwise.
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

// Read loads a trace file.
func Read(path string) (*domain.Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}
	return Parse(data, FormatFor(path))
}

// Parse decodes and validates a trace. format is "json" or "yaml".
func Parse(data []byte, format string) (*domain.Trace, error) {
	var t domain.Trace
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse trace json: %w", err)
		}
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse trace yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported trace format %q", format)
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks sample kinds and offsets.
func Validate(t *domain.Trace) error {
	prev := 0.0
	for i, s := range t.Samples {
		switch s.Kind {
		case domain.SampleDown, domain.SampleMove, domain.SampleUp:
		default:
			return fmt.Errorf("sample %d: unknown kind %q", i, s.Kind)
		}
		if s.T < 0 {
			return fmt.Errorf("sample %d: negative offset %v", i, s.T)
		}
		if s.T < prev {
			return fmt.Errorf("sample %d: offset %v goes back in time", i, s.T)
		}
		prev = s.T
	}
	return nil
}

// Write encodes a trace. format is "json" or "yaml".
func Write(w io.Writer, t *domain.Trace, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case "yaml", "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("failed to encode trace: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported trace format %q", format)
	}
}

// Menu builds the menu embedded in t.
func Menu(t *domain.Trace) (*menu.Node, error) {
	if len(t.Menu) == 0 {
		return nil, ErrNoMenu
	}
	return menu.Build(t.Menu)
}

// Config applies the options embedded in t over base.
func Config(t *domain.Trace, base domain.Config) (domain.Config, error) {
	return config.Apply(base, t.Options)
}
