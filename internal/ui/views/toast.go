package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"openingfinder/internal/domain"
)

// RenderToast renders the notification slot, or "" when nothing is visible
func (r *Renderer) RenderToast(n domain.Notification, width int) string {
	if !n.Visible {
		return ""
	}
	color := lipgloss.Color(SeverityColor(n.Severity))
	style := r.styles.Toast.BorderForeground(color).Foreground(color)

	maxText := width - style.GetHorizontalFrameSize()
	if maxText < 10 {
		maxText = 10
	}
	icon := "✓ "
	switch n.Severity {
	case domain.SeverityError:
		icon = "✗ "
	case domain.SeverityWarning:
		icon = "! "
	}
	return style.Render(ansi.Truncate(icon+n.Message, maxText, "…"))
}
