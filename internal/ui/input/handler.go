package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"openingfinder/internal/ui/input/modes"
	"openingfinder/internal/ui/input/types"
)

// Handler routes key presses to the active mode and owns the search box
type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model
}

// New creates a handler starting in search mode with text as the search box value
func New(text string) *Handler {
	ti := textinput.New()
	ti.Placeholder = "Search openings"
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.SetValue(text)

	h := &Handler{
		currentMode: types.ModeSearch,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}
	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)
	h.modes[types.ModeBrowse] = modes.NewBrowseMode()

	h.textInput.Focus()
	return h
}

// HandleKey returns the actions for msg and an optional command from the text input
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var (
		cmd        tea.Cmd
		allActions []types.Action
	)
	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}
		switched, ok := h.switchMode(changeMode.Mode, ctx)
		if !ok {
			continue
		}
		allActions = append(allActions, switched...)
		allActions = append(allActions, changeMode)
		if h.isTextMode(h.currentMode) {
			cmd = textinput.Blink
		}
	}

	if h.isTextMode(h.currentMode) && !consumed {
		before := h.textInput.Value()
		*h.textInput, cmd = h.textInput.Update(msg)
		if after := h.textInput.Value(); after != before {
			allActions = append(allActions, types.UpdateTextAction{Text: after})
		}
	}

	return allActions, cmd
}

// Update handles non-keyboard messages for the text input (cursor blink)
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if !h.isTextMode(h.currentMode) {
		return nil
	}
	var cmd tea.Cmd
	*h.textInput, cmd = h.textInput.Update(msg)
	return cmd
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// TextInput returns the search box in any mode; it stays on screen while browsing
func (h *Handler) TextInput() *textinput.Model {
	return h.textInput
}

// switchMode runs the exit and enter hooks; it reports false when already in mode
func (h *Handler) switchMode(mode types.Mode, ctx types.Context) ([]types.Action, bool) {
	if mode == h.currentMode || h.modes[mode] == nil {
		return nil, false
	}
	actions := h.modes[h.currentMode].Exit(ctx)
	h.currentMode = mode
	return append(actions, h.modes[mode].Enter(ctx)...), true
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeSearch
}
