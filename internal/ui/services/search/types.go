package search

import "hostgrip/internal/domain"

// noSelection marks State.Selected when no result is selected
const noSelection = -1

// State is everything the widget knows between two input events
type State struct {
	Results     []domain.SearchResult
	Selected    int // index into Results, noSelection when none
	LastQuery   string
	TargetFrame string
}

// Open reports whether the results panel is shown
func (s State) Open() bool {
	return len(s.Results) > 0
}

// SelectedIndex returns the selected result index, if any
func (s State) SelectedIndex() (int, bool) {
	if s.Selected == noSelection {
		return 0, false
	}
	return s.Selected, true
}

// EventKind identifies an input event delivered by a field
type EventKind int

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventKeyPress
	EventClick
	EventDoubleClick
)

func (k EventKind) String() string {
	switch k {
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	case EventKeyPress:
		return "keypress"
	case EventClick:
		return "click"
	case EventDoubleClick:
		return "dblclick"
	default:
		return "unknown"
	}
}

// Key is the subset of keys the widget reacts to
type Key int

const (
	KeyOther Key = iota
	KeyEnter
	KeyEscape
	KeyArrowUp
	KeyArrowDown
	KeyTab
)

// Event is one input event on the bound field
type Event struct {
	Kind EventKind
	Key  Key
}

// Handler reacts to an event. Returning true suppresses the field's
// default action and keeps the event from reaching the page.
type Handler func(Event) bool

// Field is the text input the widget is bound to
type Field interface {
	Value() string
	SetValue(v string)
	On(kind EventKind, h Handler) (dispose func())
}

// Page locates fields by identifier
type Page interface {
	Field(id string) (Field, bool)
}

// HostSource supplies the hosts to search
type HostSource interface {
	Hosts() ([]domain.HostEntry, error)
}

// Navigator sends a named target frame to a location
type Navigator interface {
	Navigate(target, url string) error
}

// Notifier shows the user a blocking notice
type Notifier interface {
	Notify(message string)
}
