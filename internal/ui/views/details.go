package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"openingfinder/internal/domain"
)

// RenderDetails builds the colored detail page shown in the pager
func RenderDetails(o domain.Opening, applied bool) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(o.Title))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	field("ID", fmt.Sprintf("%d", o.ID))
	field("Project", o.ProjectName)
	field("Location", o.Location)
	if o.Level > 0 {
		field("Level", fmt.Sprintf("%d", o.Level))
	}
	if o.Status != "" {
		field("Status", lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(o.Status))).Render(o.Status))
	}
	field("Skills", strings.Join(o.Skills, ", "))
	if applied {
		field("Applied", lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Render("yes"))
	}

	if o.Details != "" {
		b.WriteString("\n")
		b.WriteString(o.Details)
		b.WriteString("\n")
	}
	b.WriteString("\nPress q to close")
	return b.String()
}

// Summary is the plain text copied to the clipboard
func Summary(o domain.Opening) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (#%d)\n", o.Title, o.ID)
	if parts := metaParts(o); len(parts) > 0 {
		b.WriteString(strings.Join(parts, " · "))
		b.WriteString("\n")
	}
	if len(o.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(o.Skills, ", "))
	}
	if o.Details != "" {
		b.WriteString("\n")
		b.WriteString(o.Details)
		b.WriteString("\n")
	}
	return b.String()
}
