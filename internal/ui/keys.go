package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	inputtypes "openingfinder/internal/ui/input/types"
)

// keyMap documents the bindings for the footer; dispatch lives in the input modes
type keyMap struct {
	Browse   key.Binding
	Search   key.Binding
	Select   key.Binding
	Page     key.Binding
	Apply    key.Binding
	Details  key.Binding
	Copy     key.Binding
	Size     key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Help     key.Binding
	Quit     key.Binding
	ForceOut key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Browse:   key.NewBinding(key.WithKeys("tab", "down", "enter"), key.WithHelp("tab", "browse")),
		Search:   key.NewBinding(key.WithKeys("/", "tab"), key.WithHelp("/", "search")),
		Select:   key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "select")),
		Page:     key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←/→", "page")),
		Apply:    key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "apply")),
		Details:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "details")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Size:     key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "page size")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ForceOut: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// modeKeys selects the bindings relevant to the active input mode
type modeKeys struct {
	keys keyMap
	mode inputtypes.Mode
}

var _ help.KeyMap = modeKeys{}

func (k modeKeys) ShortHelp() []key.Binding {
	if k.mode == inputtypes.ModeSearch {
		return []key.Binding{k.keys.Browse, k.keys.Dismiss, k.keys.ForceOut}
	}
	return []key.Binding{k.keys.Select, k.keys.Page, k.keys.Apply, k.keys.Details, k.keys.Search, k.keys.Help, k.keys.Quit}
}

func (k modeKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.keys.Select, k.keys.Page, k.keys.Size, k.keys.Refresh},
		{k.keys.Apply, k.keys.Details, k.keys.Copy},
		{k.keys.Search, k.keys.Browse, k.keys.Dismiss, k.keys.Help, k.keys.Quit},
	}
}
