package menu

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a menu description when stored as an object.
// A bare list is accepted too.
type File struct {
	Items []any `yaml:"items" json:"items"`
}

// ReadItems reads a menu description from a YAML or JSON file.
// The format is picked from the extension (".json" is JSON, anything else YAML).
func ReadItems(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return ParseItems(data, format)
}

// ParseItems decodes a menu description. format is "json" or "yaml".
func ParseItems(data []byte, format string) ([]any, error) {
	var doc any
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse menu json: %w", err)
		}
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse menu yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported menu format %q", format)
	}

	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		items, ok := v["items"].([]any)
		if !ok {
			return nil, &MalformedMenuError{Reason: "document has no items list"}
		}
		return items, nil
	case nil:
		return nil, &MalformedMenuError{Reason: "empty document"}
	default:
		return nil, &MalformedMenuError{Reason: fmt.Sprintf("unsupported document type %T", doc)}
	}
}

// LoadFile reads and builds a menu from a YAML or JSON file.
func LoadFile(path string) (*Node, error) {
	items, err := ReadItems(path)
	if err != nil {
		return nil, err
	}
	return Build(items)
}
