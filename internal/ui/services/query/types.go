package query

import (
	"context"

	"openingfinder/internal/domain"
)

// DefaultPageSize matches the page size of the web view
const DefaultPageSize = 4

// Searcher performs the remote search
type Searcher interface {
	Search(ctx context.Context, token string, q domain.Query) (domain.Page[domain.Opening], error)
}

// Notifier surfaces user-facing messages
type Notifier interface {
	Show(message string, severity domain.Severity) domain.Notification
}

// State is a point-in-time copy of the controller
type State struct {
	Query         domain.Query
	Items         []domain.Opening
	TotalElements int
	TotalPages    int
	Loading       bool   // at least one fetch in flight
	Loaded        bool   // some result has been displayed
	Seq           uint64 // sequence number of the displayed result
}

// Policy decides what happens to out-of-order completions
type Policy int

const (
	// DiscardStale drops a completion older than the one already displayed
	DiscardStale Policy = iota
	// LastWriteWins applies completions in whatever order they arrive
	LastWriteWins
)
