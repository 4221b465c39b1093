package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventHostsLoaded     EventType = "HostsLoaded"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSelectionMoved  EventType = "SelectionMoved"
	EventPanelClosed     EventType = "PanelClosed"
	EventNavigated       EventType = "Navigated"
	EventNoticeRaised    EventType = "NoticeRaised"
	EventError           EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// HostsLoadedEvent is emitted when a host list has been (re)loaded
type HostsLoadedEvent struct {
	Source string
	Count  int
}

func (e HostsLoadedEvent) Type() EventType { return EventHostsLoaded }

// SearchCompletedEvent is emitted after a search pass rebuilt the results
type SearchCompletedEvent struct {
	Query      string
	MatchCount int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SelectionMovedEvent is emitted when keyboard navigation changes the selection
type SelectionMovedEvent struct {
	OldIndex int // -1 when nothing was selected
	NewIndex int
	Name     string
}

func (e SelectionMovedEvent) Type() EventType { return EventSelectionMoved }

// PanelClosedEvent is emitted when an open results panel is closed
type PanelClosedEvent struct{}

func (e PanelClosedEvent) Type() EventType { return EventPanelClosed }

// NavigatedEvent is emitted when a target frame was sent to a new location
type NavigatedEvent struct {
	Target string
	URL    string
}

func (e NavigatedEvent) Type() EventType { return EventNavigated }

// NoticeRaisedEvent is emitted when the user was shown a blocking notice
type NoticeRaisedEvent struct {
	Message string
}

func (e NoticeRaisedEvent) Type() EventType { return EventNoticeRaised }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
