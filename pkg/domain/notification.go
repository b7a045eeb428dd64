package domain

import (
	"encoding/json"
	"time"

	"github.com/aretw0/markmenu/pkg/menu"
)

// NotificationType is the kind of a navigation notification.
type NotificationType string

const (
	NotifyOpen   NotificationType = "open"   // A menu level is revealed (root in novice mode, or a sub-menu)
	NotifyClose  NotificationType = "close"  // The pointer retreated to the parent level
	NotifyActive NotificationType = "active" // The hot item changed (Selection may be nil)
	NotifySelect NotificationType = "select" // Terminal: a leaf was selected
	NotifyCancel NotificationType = "cancel" // Terminal: the gesture ended without a selection
)

// IsTerminal reports whether t ends a gesture.
func (t NotificationType) IsTerminal() bool {
	return t == NotifySelect || t == NotifyCancel
}

// Notification is one step of the navigation output stream.
type Notification struct {
	Type      NotificationType
	GestureID string
	Mode      Mode

	// Menu is the menu level the notification refers to. For close it is the
	// level being closed.
	Menu *menu.Node
	// Center is the anchor of the level (for close, the restored parent anchor).
	Center Point
	// Current is the pointer position.
	Current Point
	// Selection is the active item for active/select, nil for none.
	Selection *menu.Node

	Timestamp time.Time
	// OriginalEvent is the event of the sample that caused the notification.
	OriginalEvent any
}

// NotificationView is the serializable form of a Notification.
type NotificationView struct {
	Type          NotificationType `json:"type"`
	GestureID     string           `json:"gesture_id,omitempty"`
	Mode          Mode             `json:"mode"`
	MenuID        string           `json:"menu_id"`
	MenuPath      []string         `json:"menu_path"`
	Center        Point            `json:"center"`
	Current       Point            `json:"current"`
	SelectionID   *string          `json:"selection_id,omitempty"`
	SelectionPath []string         `json:"selection_path,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

// View returns the serializable form of n.
func (n Notification) View() NotificationView {
	v := NotificationView{
		Type:      n.Type,
		GestureID: n.GestureID,
		Mode:      n.Mode,
		Center:    n.Center,
		Current:   n.Current,
		Timestamp: n.Timestamp,
		MenuPath:  []string{},
	}
	if n.Menu != nil {
		v.MenuID = n.Menu.ID()
		if p := n.Menu.Path(); p != nil {
			v.MenuPath = p
		}
	}
	if n.Selection != nil {
		id := n.Selection.ID()
		v.SelectionID = &id
		v.SelectionPath = n.Selection.Path()
	}
	return v
}

// MarshalJSON encodes the notification through its view.
func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.View())
}

// Views converts a slice of notifications.
func Views(ns []Notification) []NotificationView {
	out := make([]NotificationView, len(ns))
	for i, n := range ns {
		out[i] = n.View()
	}
	return out
}

// Selected returns the selected leaf of a terminal select notification found
// in ns, or nil.
func Selected(ns []Notification) *menu.Node {
	for _, n := range ns {
		if n.Type == NotifySelect {
			return n.Selection
		}
	}
	return nil
}
