package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"openingfinder/internal/domain"
)

// CardHeight is the number of lines one rendered card occupies
const CardHeight = 3

// CardRenderer renders opening cards
type CardRenderer struct {
	styles *Styles
}

// NewCardRenderer creates a new card renderer
func NewCardRenderer(styles *Styles) *CardRenderer {
	return &CardRenderer{styles: styles}
}

// RenderCard renders one opening as a three line card no wider than width
func (r *CardRenderer) RenderCard(o domain.Opening, selected, applied bool, width int) string {
	style := r.styles.Card
	if selected {
		style = r.styles.CardSelected
	}
	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	badge := ""
	if applied {
		badge = " " + r.styles.Applied.Render("✓ applied")
	}
	title := o.Title
	if title == "" {
		title = fmt.Sprintf("Opening #%d", o.ID)
	}
	title = ansi.Truncate(title, inner-lipgloss.Width(badge), "…")
	titleLine := r.styles.CardTitle.Render(title) + badge

	metaLine := r.styles.CardMeta.Render(ansi.Truncate(metaText(o), inner, "…"))
	if o.Status != "" {
		status := lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(o.Status))).Render(o.Status)
		meta := ansi.Truncate(metaText(o), inner-lipgloss.Width(o.Status)-3, "…")
		metaLine = r.styles.CardMeta.Render(meta) + r.styles.Dim.Render(" · ") + status
	}

	skills := "no skills listed"
	if len(o.Skills) > 0 {
		skills = strings.Join(o.Skills, ", ")
	}
	skillsLine := r.styles.CardSkills.Render(ansi.Truncate(skills, inner, "…"))

	return style.Render(strings.Join([]string{titleLine, metaLine, skillsLine}, "\n"))
}

func metaText(o domain.Opening) string {
	parts := metaParts(o)
	if len(parts) == 0 {
		return fmt.Sprintf("#%d", o.ID)
	}
	return strings.Join(parts, " · ")
}

func metaParts(o domain.Opening) []string {
	var parts []string
	if o.ProjectName != "" {
		parts = append(parts, o.ProjectName)
	}
	if o.Location != "" {
		parts = append(parts, o.Location)
	}
	if o.Level > 0 {
		parts = append(parts, fmt.Sprintf("level %d", o.Level))
	}
	return parts
}
