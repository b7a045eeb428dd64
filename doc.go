/*
Package markmenu is a gesture-driven radial menu engine: a marking menu.

A marking menu is a hierarchy of items laid out on circles. The user presses a
pointer and strokes toward an item. Strokes through sub-menus pause briefly
on the branch so its level opens around the current position. A user who
presses and waits gets the menu revealed first (novice mode); a user who
moves right away marks without any menu on screen (expert mode). Both end the
same way: releasing over a leaf selects it, releasing anywhere else cancels.

# Concept

The engine consumes pointer samples (down, move, up with a timestamp) and
emits notifications (open, close, active, select, cancel). It never draws and
never reads devices: position sources and renderers are adapters around it.
Timers are driven through an injectable clock, so recorded traces replay
deterministically.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/markmenu"
		"github.com/aretw0/markmenu/pkg/domain"
	)

	func main() {
		m, err := markmenu.New([]any{
			"Copy",
			map[string]any{"name": "Edit", "children": []any{"Undo", "Redo"}},
		}, markmenu.WithOptions(map[string]any{"minSelectionDist": 30}))
		if err != nil {
			log.Fatal(err)
		}

		samples := make(chan domain.Sample)
		notifications, err := m.Navigate(context.Background(), samples)
		if err != nil {
			log.Fatal(err)
		}

		// Feed samples from a device in another goroutine, then:
		for n := range notifications {
			fmt.Println(n.Type, n.Selection)
		}
	}
*/
package markmenu
