package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryChanged       EventType = "QueryChanged"
	EventResultsUpdated     EventType = "ResultsUpdated"
	EventSearchFailed       EventType = "SearchFailed"
	EventApplySucceeded     EventType = "ApplySucceeded"
	EventApplyFailed        EventType = "ApplyFailed"
	EventNotificationShown  EventType = "NotificationShown"
	EventNotificationHidden EventType = "NotificationHidden"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventConfigSaved        EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryChangedEvent is emitted when a new fetch is issued
type QueryChangedEvent struct {
	Query Query
	Seq   uint64
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// ResultsUpdatedEvent is emitted when a fetch result replaces the displayed page
type ResultsUpdatedEvent struct {
	Query      Query
	Seq        uint64
	Count      int
	TotalPages int
}

func (e ResultsUpdatedEvent) Type() EventType { return EventResultsUpdated }

// SearchFailedEvent is emitted when the current fetch fails
type SearchFailedEvent struct {
	Query Query
	Seq   uint64
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// ApplySucceededEvent is emitted after a successful application
type ApplySucceededEvent struct {
	OpeningID int64
	UserID    int64
}

func (e ApplySucceededEvent) Type() EventType { return EventApplySucceeded }

// ApplyFailedEvent is emitted when the allocation service rejects or cannot be reached
type ApplyFailedEvent struct {
	OpeningID int64
	UserID    int64
	Message   string
	Err       error
}

func (e ApplyFailedEvent) Type() EventType { return EventApplyFailed }

// NotificationShownEvent is emitted when the toast slot is (re)filled
type NotificationShownEvent struct {
	Notification Notification
}

func (e NotificationShownEvent) Type() EventType { return EventNotificationShown }

// NotificationHiddenEvent is emitted on auto-hide or dismiss
type NotificationHiddenEvent struct {
	ID     string
	Manual bool
}

func (e NotificationHiddenEvent) Type() EventType { return EventNotificationHidden }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path     string
	PageSize int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
