// Package search implements the quick host search: matching the field
// value against the host list, keyboard selection in the results panel and
// navigation to the chosen host.
package search

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"hostgrip/internal/domain"
	"hostgrip/internal/eventbus"
	"hostgrip/internal/logging"
)

// NoHostsMessage is shown when a search runs without a host list
const NoHostsMessage = "No hosts to search for"

// Widget is the search state machine for one input field. The panel is
// open exactly when there are results.
type Widget struct {
	state   State
	hosts   HostSource
	nav     Navigator
	notify  Notifier
	bus     eventbus.EventBus
	field   Field
	binding *Binding
}

// New creates a closed widget. notify and bus may be nil.
func New(hosts HostSource, nav Navigator, notify Notifier, bus eventbus.EventBus) *Widget {
	return &Widget{
		state: State{
			Selected:    noSelection,
			TargetFrame: domain.DefaultTargetFrame,
		},
		hosts:  hosts,
		nav:    nav,
		notify: notify,
		bus:    bus,
	}
}

// Binding holds the handlers registered on a field
type Binding struct {
	Field     Field
	disposers []func()
	once      sync.Once
}

// Detach removes every handler. Calling it again does nothing.
func (b *Binding) Detach() {
	if b == nil {
		return
	}
	b.once.Do(func() {
		for _, dispose := range b.disposers {
			dispose()
		}
		b.disposers = nil
	})
}

// Attach binds the widget to the field fieldID on page. A missing field is
// not an error: the widget just stays unbound. A non-empty targetFrame
// replaces the navigation target.
func (w *Widget) Attach(page Page, fieldID, targetFrame string) (*Binding, bool) {
	field, ok := page.Field(fieldID)
	if !ok || field == nil {
		logging.Log.WithField("field", fieldID).Debug("search field not found, not attaching")
		return nil, false
	}

	if w.binding != nil {
		w.binding.Detach()
	}
	if targetFrame != "" {
		w.state.TargetFrame = targetFrame
	}

	w.field = field
	b := &Binding{Field: field}
	b.disposers = append(b.disposers,
		field.On(EventKeyDown, w.handleKeyDown),
		field.On(EventKeyUp, w.handleKeyUp),
		field.On(EventKeyPress, w.handleKeyPress),
		field.On(EventClick, w.handleClick),
		field.On(EventDoubleClick, w.handleDoubleClick),
	)
	w.binding = b

	logging.Log.WithFields(logrus.Fields{
		"field":  fieldID,
		"target": w.state.TargetFrame,
	}).Info("search field attached")
	return b, true
}

// State returns a copy of the current state
func (w *Widget) State() State {
	s := w.state
	s.Results = append([]domain.SearchResult(nil), w.state.Results...)
	return s
}

// Open reports whether the results panel is shown
func (w *Widget) Open() bool {
	return w.state.Open()
}

// SelectedIndex returns the selected result index, if any
func (w *Widget) SelectedIndex() (int, bool) {
	return w.state.SelectedIndex()
}

// Search rebuilds the results for query. Repeating the last query does
// nothing; a query without matches closes the panel.
func (w *Widget) Search(query string) {
	if query == w.state.LastQuery {
		return
	}

	hosts, err := w.hostList()
	if err != nil {
		logging.Log.WithError(err).Warn("search aborted")
		w.raise(NoHostsMessage)
		return
	}
	w.state.LastQuery = query

	needle := strings.ToLower(query)
	results := make([]domain.SearchResult, 0)
	for _, h := range hosts {
		if strings.Contains(strings.ToLower(h.Name), needle) {
			results = append(results, domain.NewSearchResult(h))
		}
	}

	logging.Log.WithFields(logrus.Fields{
		"query":   query,
		"matches": len(results),
	}).Debug("search completed")
	w.publish(eventbus.SearchCompletedEvent{Query: query, MatchCount: len(results)})

	if len(results) == 0 {
		w.Close()
		return
	}
	w.state.Results = results
	w.state.Selected = noSelection
}

// MoveSelection moves the selection by step (+1 down, -1 up), wrapping
// around at both ends. With the panel closed it searches the field value
// first.
func (w *Widget) MoveSelection(step int) {
	if !w.Open() && w.field != nil {
		w.Search(w.field.Value())
	}

	n := len(w.state.Results)
	if n == 0 {
		return
	}

	// noSelection is -1: the first step down lands on 0, up on the last
	old := w.state.Selected
	next := old + step
	if next < 0 {
		next = n - 1
	}
	if next > n-1 {
		next = 0
	}
	w.state.Selected = next

	w.publish(eventbus.SelectionMovedEvent{
		OldIndex: old,
		NewIndex: next,
		Name:     w.state.Results[next].Name,
	})
}

// Close hides the panel and drops results and selection. The last query is
// kept, so searching the same text again stays a no-op.
func (w *Widget) Close() {
	wasOpen := w.Open()
	w.state.Results = nil
	w.state.Selected = noSelection
	if wasOpen {
		w.publish(eventbus.PanelClosedEvent{})
	}
}

// Toggle closes an open panel or searches the field value
func (w *Widget) Toggle() {
	if w.Open() {
		w.Close()
		return
	}
	if w.field != nil {
		w.Search(w.field.Value())
	}
}

// ResolveHostURL scans the whole host list for names containing query. A
// unique match yields that host's view and its exact name is written back
// into the field; anything else yields the host list view for query.
func (w *Widget) ResolveHostURL(query string) string {
	hosts, err := w.hostList()
	if err != nil {
		logging.Log.WithError(err).Warn("cannot resolve host, using host list view")
		return domain.HostsURL(query)
	}

	var found *domain.HostEntry
	for i := range hosts {
		if !strings.Contains(hosts[i].Name, query) {
			continue
		}
		if found != nil {
			return domain.HostsURL(query)
		}
		found = &hosts[i]
	}
	if found == nil {
		return domain.HostsURL(query)
	}

	if w.field != nil {
		w.field.SetValue(found.Name)
	}
	return domain.HostURL(found.Name, found.Site)
}

// Commit navigates to the selected result, or to whatever the field value
// resolves to, and closes the panel.
func (w *Widget) Commit() {
	if sel, ok := w.SelectedIndex(); ok {
		r := w.state.Results[sel]
		w.navigate(r.URL)
		if w.field != nil {
			w.field.SetValue(r.Name)
		}
	} else {
		value := ""
		if w.field != nil {
			value = w.field.Value()
		}
		w.navigate(w.ResolveHostURL(value))
	}
	w.Close()
}

// Follow opens result i directly, as clicking its entry does, and closes
// the panel. The field value is left alone.
func (w *Widget) Follow(i int) {
	if i < 0 || i >= len(w.state.Results) {
		return
	}
	w.navigate(w.state.Results[i].URL)
	w.Close()
}

func (w *Widget) handleKeyDown(ev Event) bool {
	switch ev.Key {
	case KeyEnter:
		w.Commit()
		return true
	case KeyEscape:
		w.Close()
		return true
	case KeyArrowUp:
		w.MoveSelection(-1)
		return true
	case KeyArrowDown:
		w.MoveSelection(1)
		return true
	case KeyTab:
		if w.Open() {
			w.Close()
		}
		return false
	}
	return false
}

func (w *Widget) handleKeyUp(ev Event) bool {
	switch ev.Key {
	case KeyEnter, KeyEscape:
		w.Close()
		return true
	case KeyArrowUp, KeyArrowDown:
		// handled on key down
		return true
	}

	if w.field.Value() == "" {
		w.Close()
		return true
	}
	w.Search(w.field.Value())
	return false
}

func (w *Widget) handleKeyPress(ev Event) bool {
	return ev.Key == KeyEnter
}

func (w *Widget) handleClick(Event) bool {
	return true
}

func (w *Widget) handleDoubleClick(Event) bool {
	w.Toggle()
	return false
}

func (w *Widget) hostList() ([]domain.HostEntry, error) {
	if w.hosts == nil {
		return nil, errors.New("no host source")
	}
	return w.hosts.Hosts()
}

func (w *Widget) navigate(url string) {
	if w.nav == nil {
		return
	}
	if err := w.nav.Navigate(w.state.TargetFrame, url); err != nil {
		logging.Log.WithError(err).WithField("url", url).Error("navigation failed")
		w.publish(eventbus.ErrorEvent{Message: "navigation failed", Err: err})
	}
}

func (w *Widget) raise(message string) {
	if w.notify != nil {
		w.notify.Notify(message)
	}
	w.publish(eventbus.NoticeRaisedEvent{Message: message})
}

func (w *Widget) publish(e eventbus.DomainEvent) {
	if w.bus != nil {
		w.bus.Publish(e)
	}
}
