package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"openingfinder/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Prompt        lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	InfoBox       lipgloss.Style
	CardTitle     lipgloss.Style
	CardMeta      lipgloss.Style
	CardSkills    lipgloss.Style
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	Applied       lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Toast         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:    lipgloss.NewStyle().Faint(true),
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		CardTitle:  lipgloss.NewStyle().Bold(true),
		CardMeta:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		CardSkills: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1),
		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("99")).
			PaddingLeft(1),
		Applied:       lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
	}
}

// SeverityColor returns the color used for a notification severity
func SeverityColor(s domain.Severity) string {
	switch s {
	case domain.SeveritySuccess:
		return "78" // green
	case domain.SeverityWarning:
		return "214" // yellow
	default:
		return "203" // red
	}
}

// StatusColor returns the color for an opening status
func StatusColor(status string) string {
	switch strings.ToUpper(status) {
	case "OPEN":
		return "78"
	case "CLOSED":
		return "203"
	default:
		return "214"
	}
}
