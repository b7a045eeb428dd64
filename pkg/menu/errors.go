package menu

import (
	"fmt"
	"strings"
)

// MalformedMenuError is returned when a menu description cannot be turned
// into a well-formed tree.
type MalformedMenuError struct {
	// Path locates the offending element as indexes from the top-level list.
	Path []int
	// Reason describes what is wrong with the element.
	Reason string
}

func (e *MalformedMenuError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("malformed menu: %s", e.Reason)
	}
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return fmt.Sprintf("malformed menu item [%s]: %s", strings.Join(parts, "."), e.Reason)
}

func malformed(path []int, format string, args ...any) *MalformedMenuError {
	return &MalformedMenuError{
		Path:   append([]int(nil), path...),
		Reason: fmt.Sprintf(format, args...),
	}
}
