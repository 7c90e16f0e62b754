package types

import tea "github.com/charmbracelet/bubbletea"

// Mode represents an input mode
type Mode int

const (
	ModeSearch Mode = iota
	ModeBrowse
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeBrowse:
		return "browse"
	default:
		return "unknown"
	}
}

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	CurrentIndex() int
	ItemCount() int
	PageIndex() int
	TotalPages() int
	HasNotification() bool
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether the key was consumed
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	Enter(ctx Context) []Action
	Exit(ctx Context) []Action

	Name() string
}
