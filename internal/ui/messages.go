package ui

import (
	"openingfinder/internal/domain"
	"openingfinder/internal/ui/services/action"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event domain.DomainEvent
}

// applyResultMsg carries the outcome of an apply command
type applyResultMsg struct {
	openingID int64
	result    action.Result
}

// detailsPagerMsg contains the result of showing an opening in the pager
type detailsPagerMsg struct {
	openingID int64
	err       error
}

// clipboardMsg contains the result of copying an opening
type clipboardMsg struct {
	openingID int64
	err       error
}

// quitMsg signals that the application should quit
type quitMsg struct {
	saveConfig bool
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
