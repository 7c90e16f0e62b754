package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"openingfinder/internal/ui/input/types"
)

// BrowseMode moves over the displayed cards and pages
type BrowseMode struct{}

func NewBrowseMode() *BrowseMode {
	return &BrowseMode{}
}

func (m *BrowseMode) Name() string {
	return "browse"
}

func (m *BrowseMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *BrowseMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *BrowseMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		if ctx.HasNotification() {
			return []types.Action{types.DismissNotificationAction{}}, true
		}
		return nil, false

	case tea.KeyTab:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true

	case tea.KeyUp:
		if ctx.CurrentIndex() == 0 {
			// leaving the first card goes back to the search box
			return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
		}
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft, tea.KeyPgUp:
		return pageIf(ctx.PageIndex() > 0, "prev")

	case tea.KeyRight, tea.KeyPgDown:
		return pageIf(ctx.PageIndex() < ctx.TotalPages()-1, "next")

	case tea.KeyHome:
		return pageIf(ctx.PageIndex() > 0, "first")

	case tea.KeyEnd:
		return pageIf(ctx.PageIndex() < ctx.TotalPages()-1, "last")

	case tea.KeyEnter:
		return onItem(ctx, types.ApplyAction{})
	}

	switch msg.String() {
	case "q":
		return []types.Action{types.QuitAction{}}, true
	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "h":
		return pageIf(ctx.PageIndex() > 0, "prev")
	case "l":
		return pageIf(ctx.PageIndex() < ctx.TotalPages()-1, "next")
	case "g":
		return pageIf(ctx.PageIndex() > 0, "first")
	case "G":
		return pageIf(ctx.PageIndex() < ctx.TotalPages()-1, "last")
	case "a":
		return onItem(ctx, types.ApplyAction{})
	case "v":
		return onItem(ctx, types.ShowDetailsAction{})
	case "y":
		return onItem(ctx, types.CopyAction{})
	case "+", "=":
		return []types.Action{types.ResizePageAction{Delta: 1}}, true
	case "-":
		return []types.Action{types.ResizePageAction{Delta: -1}}, true
	case "r":
		return []types.Action{types.RefreshAction{}}, true
	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	}

	return nil, false
}

func pageIf(ok bool, direction string) ([]types.Action, bool) {
	if !ok {
		return nil, false
	}
	return []types.Action{types.PageAction{Direction: direction}}, true
}

func onItem(ctx types.Context, action types.Action) ([]types.Action, bool) {
	if ctx.ItemCount() == 0 {
		return nil, false
	}
	return []types.Action{action}, true
}
