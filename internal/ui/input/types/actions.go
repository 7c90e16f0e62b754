package types

// NavigateAction moves the card selection within the page
type NavigateAction struct {
	Direction string // "up" or "down"
}

func (a NavigateAction) Type() string { return "navigate" }

// PageAction moves between result pages
type PageAction struct {
	Direction string // "prev", "next", "first", "last"
}

func (a PageAction) Type() string { return "page" }

type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

// ApplyAction applies for the selected opening
type ApplyAction struct{}

func (a ApplyAction) Type() string { return "apply" }

type ShowDetailsAction struct{}

func (a ShowDetailsAction) Type() string { return "show_details" }

type CopyAction struct{}

func (a CopyAction) Type() string { return "copy" }

type ResizePageAction struct {
	Delta int
}

func (a ResizePageAction) Type() string { return "resize_page" }

type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type DismissNotificationAction struct{}

func (a DismissNotificationAction) Type() string { return "dismiss_notification" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
