package domain

import (
	"errors"
	"time"
)

// MaxPageSize bounds the number of openings requested per page
const MaxPageSize = 100

var (
	ErrInvalidPageSize  = errors.New("page size must be between 1 and 100")
	ErrInvalidPageIndex = errors.New("page index must not be negative")
)

// Opening represents a postable unit a user can apply to
type Opening struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Details     string   `json:"details"`
	Level       int      `json:"level"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	ProjectName string   `json:"projectName"`
	Skills      []string `json:"skills"`
}

// Query is the user-controlled part of a search
type Query struct {
	Text      string
	PageIndex int // 0-based
	PageSize  int
}

// Validate checks the paging fields
func (q Query) Validate() error {
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}
	if q.PageIndex < 0 {
		return ErrInvalidPageIndex
	}
	return nil
}

// Page is one windowed slice of a larger result set
type Page[T any] struct {
	Items         []T
	TotalElements int
}

// TotalPages returns ceil(TotalElements / pageSize), or 0 for an empty result
func (p Page[T]) TotalPages(pageSize int) int {
	if p.TotalElements <= 0 || pageSize <= 0 {
		return 0
	}
	return (p.TotalElements + pageSize - 1) / pageSize
}

// ActionRequest is constructed per apply click and never stored
type ActionRequest struct {
	OpeningID int64
	UserID    int64
	AuthToken string
}

// Severity classifies a notification
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityError
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Notification is the single transient message slot
type Notification struct {
	ID       string // keys the auto-hide timer to this instance
	Message  string
	Severity Severity
	Visible  bool
	ShownAt  time.Time
}

// User-facing notification texts
const (
	MsgNetworkError   = "Network error. Please try again later."
	MsgApplySucceeded = "Successfully applied for the opening."
	MsgTokenExpired   = "Your session token has expired. Please log in again."
)
