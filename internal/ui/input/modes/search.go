package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"openingfinder/internal/ui/input/types"
)

// SearchMode edits the search text. The text survives leaving and
// re-entering the mode.
type SearchMode struct {
	textInput *textinput.Model
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{textInput: ti}
}

func (m *SearchMode) Name() string {
	return "search"
}

func (m *SearchMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Focus()
		m.textInput.CursorEnd()
	}
	return nil
}

func (m *SearchMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
	}
	return nil
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		if ctx.HasNotification() {
			return []types.Action{types.DismissNotificationAction{}}, true
		}
		return nil, true
	case "tab", "down", "enter":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBrowse}}, true
	default:
		// the handler feeds everything else to the text input
		return nil, false
	}
}
