package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"openingfinder/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	InputMode     string
	TextInput     string
	Items         []domain.Opening
	Applied       map[int64]bool
	SelectedIndex int
	PageIndex     int
	PageSize      int
	TotalPages    int
	TotalElements int
	Loading       bool
	Loaded        bool
	Spinner       string
	Paginator     string
	Notification  domain.Notification
	ShowHelp      bool
	HelpView      string
	UserID        int64
}

// Renderer handles all view rendering
type Renderer struct {
	styles     *Styles
	cardRender *CardRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:     styles,
		cardRender: NewCardRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	availableWidth := termWidth - r.styles.Main.GetHorizontalFrameSize()

	content := &strings.Builder{}
	content.WriteString(r.renderTitle(state, availableWidth))
	content.WriteString("\n\n")

	prompt := r.styles.Dim.Render("Search: ")
	if state.InputMode == "search" {
		prompt = r.styles.Prompt.Render("Search: ")
	}
	content.WriteString(prompt + state.TextInput)
	content.WriteString("\n\n")

	if state.ShowHelp {
		content.WriteString(r.styles.InfoBox.Render(r.renderHelpContent()))
	} else {
		content.WriteString(r.renderCards(state, availableWidth))
		if line := r.renderPageLine(state); line != "" {
			content.WriteString("\n\n")
			content.WriteString(line)
		}
	}

	var footer []string
	if toast := r.RenderToast(state.Notification, availableWidth); toast != "" {
		footer = append(footer, toast)
	}
	if state.HelpView != "" {
		footer = append(footer, r.styles.Help.Render(state.HelpView))
	}
	bottom := strings.Join(footer, "\n")

	// push the toast and key help to the bottom of the screen
	if bottom != "" {
		currentLines := strings.Count(content.String(), "\n") + 1
		availableLines := state.Height - r.styles.Main.GetVerticalFrameSize()
		if availableLines <= 0 {
			availableLines = 22
		}
		paddingNeeded := availableLines - currentLines - lipgloss.Height(bottom)
		if paddingNeeded > 0 {
			content.WriteString(strings.Repeat("\n", paddingNeeded))
		}
		content.WriteString("\n")
		content.WriteString(bottom)
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState, width int) string {
	logo := r.styles.Title.Render("openingfinder")

	var indicators []string
	if state.Loading {
		indicators = append(indicators, r.styles.StatusLoading.Render(strings.TrimSpace(state.Spinner+" Searching")))
	}
	if state.UserID != 0 {
		indicators = append(indicators, r.styles.Dim.Render(fmt.Sprintf("user #%d", state.UserID)))
	}
	if len(indicators) == 0 {
		return logo
	}

	right := strings.Join(indicators, r.styles.Dim.Render(" | "))
	padding := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderCards(state ViewState, width int) string {
	if !state.Loaded {
		return r.styles.Dim.Render("Loading openings...")
	}
	if len(state.Items) == 0 {
		return r.styles.Dim.Render("No openings found.")
	}

	cards := make([]string, 0, len(state.Items))
	for i, o := range state.Items {
		selected := state.InputMode == "browse" && i == state.SelectedIndex
		cards = append(cards, r.cardRender.RenderCard(o, selected, state.Applied[o.ID], width))
	}
	return strings.Join(cards, "\n\n")
}

func (r *Renderer) renderPageLine(state ViewState) string {
	if !state.Loaded || state.TotalPages == 0 {
		return ""
	}
	info := fmt.Sprintf("Page %d of %d · %d openings · %d per page",
		state.PageIndex+1, state.TotalPages, state.TotalElements, state.PageSize)
	if state.Paginator == "" {
		return r.styles.Status.Render(info)
	}
	return state.Paginator + "  " + r.styles.Status.Render(info)
}

// renderHelpContent renders the help information
func (r *Renderer) renderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	row := func(keys, desc string) string {
		return fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-12s", keys)), descStyle.Render(desc))
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("openingfinder help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	help.WriteString(row("type", "Edit the search text (results update as you type)"))
	help.WriteString(row("tab/↓/enter", "Browse results"))
	help.WriteString(row("/", "Back to the search box"))

	help.WriteString(sectionStyle.Render("Browse"))
	help.WriteString("\n")
	help.WriteString(row("↑/↓, j/k", "Select opening"))
	help.WriteString(row("←/→, h/l", "Previous/next page"))
	help.WriteString(row("g/G", "First/last page"))
	help.WriteString(row("+/-", "Change page size"))
	help.WriteString(row("r", "Refresh results"))

	help.WriteString(sectionStyle.Render("Openings"))
	help.WriteString("\n")
	help.WriteString(row("enter, a", "Apply for the selected opening"))
	help.WriteString(row("v", "View details"))
	help.WriteString(row("y", "Copy to clipboard"))

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(row("esc", "Dismiss notification"))
	help.WriteString(row("?", "Toggle this help"))
	help.WriteString(strings.TrimRight(row("q, ctrl+c", "Quit"), "\n"))

	return help.String()
}
