// Package render draws gesture strokes and menu layouts into raster images.
package render

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// ParseColor accepts CSS colour names ("black", "steelblue") and hex
// notation ("#333", "#ff000080").
func ParseColor(s string) (gg.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		switch len(s) {
		case 4, 5, 7, 9:
			return gg.Hex(s), nil
		}
		return gg.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return gg.FromColor(c), nil
	}
	return gg.RGBA{}, fmt.Errorf("unknown colour %q", s)
}
