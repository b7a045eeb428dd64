package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/muesli/termenv"
)

var typeColors = map[domain.NotificationType]string{
	domain.NotifyOpen:   "#818cf8",
	domain.NotifyClose:  "#a78bfa",
	domain.NotifyActive: "#e879f9",
	domain.NotifySelect: "#34d399",
	domain.NotifyCancel: "#fb7185",
}

// NotificationPrinter writes one line per notification.
type NotificationPrinter struct {
	out   *termenv.Output
	start time.Time
}

// NewNotificationPrinter creates a printer writing to w. Offsets are
// reported relative to the first notification printed.
func NewNotificationPrinter(w io.Writer) *NotificationPrinter {
	return &NotificationPrinter{out: termenv.NewOutput(w)}
}

// Print writes n.
func (p *NotificationPrinter) Print(n domain.Notification) {
	if p.start.IsZero() {
		p.start = n.Timestamp
	}
	kind := p.out.String(fmt.Sprintf("%-6s", n.Type)).Foreground(p.out.Color(typeColors[n.Type]))
	if n.Type.IsTerminal() {
		kind = kind.Bold()
	}
	fmt.Fprintf(p.out, "%8s %s %-6s menu=%s item=%s at=(%g,%g)\n",
		n.Timestamp.Sub(p.start), kind, n.Mode, n.Menu, n.Selection, n.Current.X, n.Current.Y)
}
