package ui

import (
	"hostgrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// hostsReloadedMsg carries the result of a host list reload
type hostsReloadedMsg struct {
	err error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}
