package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the markmenu banner to w, coloured when w is a terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{"                      _                            ", "#818cf8"},
		{"  _ __ ___   __ _ _ __| | ___ __ ___   ___ _ __  _   _ ", "#a78bfa"},
		{" | '_ ` _ \\ / _` | '__| |/ / '_ ` _ \\ / _ \\ '_ \\| | | |", "#c084fc"},
		{" | | | | | | (_| | |  |   <| | | | | |  __/ | | | |_| |", "#e879f9"},
		{" |_| |_| |_|\\__,_|_|  |_|\\_\\_| |_| |_|\\___|_| |_|\\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
