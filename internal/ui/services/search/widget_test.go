package search

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgrip/internal/domain"
	"hostgrip/internal/eventbus"
)

type fakeHosts struct {
	hosts []domain.HostEntry
	err   error
	calls int
}

func (f *fakeHosts) Hosts() ([]domain.HostEntry, error) {
	f.calls++
	return f.hosts, f.err
}

type navigation struct{ target, url string }

type fakeNav struct {
	visits []navigation
	err    error
}

func (f *fakeNav) Navigate(target, url string) error {
	f.visits = append(f.visits, navigation{target, url})
	return f.err
}

// recordingBus keeps published events in order
type recordingBus struct{ events []eventbus.DomainEvent }

func (b *recordingBus) Publish(e eventbus.DomainEvent) { b.events = append(b.events, e) }
func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}
func (b *recordingBus) Close() {}

func (b *recordingBus) errors() []eventbus.ErrorEvent {
	var out []eventbus.ErrorEvent
	for _, e := range b.events {
		if ee, ok := e.(eventbus.ErrorEvent); ok {
			out = append(out, ee)
		}
	}
	return out
}

type fakeNotifier struct{ messages []string }

func (f *fakeNotifier) Notify(message string) { f.messages = append(f.messages, message) }

type fakeField struct {
	value    string
	handlers map[EventKind]Handler
}

func newFakeField() *fakeField {
	return &fakeField{handlers: make(map[EventKind]Handler)}
}

func (f *fakeField) Value() string     { return f.value }
func (f *fakeField) SetValue(v string) { f.value = v }

func (f *fakeField) On(kind EventKind, h Handler) func() {
	f.handlers[kind] = h
	return func() { delete(f.handlers, kind) }
}

func (f *fakeField) fire(kind EventKind, key Key) bool {
	h, ok := f.handlers[kind]
	if !ok {
		return false
	}
	return h(Event{Kind: kind, Key: key})
}

// press delivers a full key stroke: down, press, then up
func (f *fakeField) press(key Key) {
	f.fire(EventKeyDown, key)
	f.fire(EventKeyPress, key)
	f.fire(EventKeyUp, key)
}

// typeText appends text one character at a time like a user typing
func (f *fakeField) typeText(text string) {
	for _, r := range text {
		f.fire(EventKeyDown, KeyOther)
		f.value += string(r)
		f.fire(EventKeyUp, KeyOther)
	}
}

// backspaceAll empties the field one key stroke at a time
func (f *fakeField) backspaceAll() {
	for len(f.value) > 0 {
		f.fire(EventKeyDown, KeyOther)
		f.value = f.value[:len(f.value)-1]
		f.fire(EventKeyUp, KeyOther)
	}
}

type fakePage map[string]Field

func (p fakePage) Field(id string) (Field, bool) {
	f, ok := p[id]
	return f, ok
}

var scenarioHosts = []domain.HostEntry{
	{Site: "site1", Name: "web01"},
	{Site: "site1", Name: "web02"},
	{Site: "site2", Name: "db01"},
}

type fixture struct {
	widget *Widget
	field  *fakeField
	hosts  *fakeHosts
	nav    *fakeNav
	notes  *fakeNotifier
}

func newFixture(t *testing.T, hosts []domain.HostEntry) *fixture {
	t.Helper()
	fx := &fixture{
		field: newFakeField(),
		hosts: &fakeHosts{hosts: hosts},
		nav:   &fakeNav{},
		notes: &fakeNotifier{},
	}
	fx.widget = New(fx.hosts, fx.nav, fx.notes, nil)
	_, ok := fx.widget.Attach(fakePage{"search": fx.field}, "search", "")
	require.True(t, ok)
	return fx
}

func resultNames(s State) []string {
	var names []string
	for _, r := range s.Results {
		names = append(names, r.Name)
	}
	return names
}

func selected(t *testing.T, w *Widget) int {
	t.Helper()
	i, ok := w.SelectedIndex()
	require.True(t, ok, "expected a selection")
	return i
}

func TestSearchScenarioWithWrappingSelection(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	w := fx.widget

	w.Search("web")
	require.True(t, w.Open())
	require.Equal(t, []string{"web01", "web02"}, resultNames(w.State()))
	_, ok := w.SelectedIndex()
	require.False(t, ok)

	w.MoveSelection(1)
	require.Equal(t, 0, selected(t, w))
	w.MoveSelection(1)
	require.Equal(t, 1, selected(t, w))
	w.MoveSelection(1)
	require.Equal(t, 0, selected(t, w), "wraps to the first result")
}

func TestSearchResultsAreDerivedFromHost(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.widget.Search("db")

	require.Equal(t, []domain.SearchResult{{
		ID:   "result_db01",
		Name: "db01",
		Site: "site2",
		URL:  "view?view_name=host&host=db01&site=site2",
	}}, fx.widget.State().Results)
}

func TestSearchIsCaseInsensitiveInfixInSourceOrder(t *testing.T) {
	hosts := []domain.HostEntry{
		{Site: "s", Name: "zeta-WEB"},
		{Site: "s", Name: "alpha"},
		{Site: "s", Name: "Web-alpha"},
		{Site: "s", Name: "backweb"},
	}
	fx := newFixture(t, hosts)

	fx.widget.Search("wEb")
	require.Equal(t, []string{"zeta-WEB", "Web-alpha", "backweb"}, resultNames(fx.widget.State()))
}

func TestEmptyQueryMatchesEveryHost(t *testing.T) {
	fx := newFixture(t, scenarioHosts)

	fx.widget.Search("db")
	fx.widget.Search("")
	require.Equal(t, []string{"web01", "web02", "db01"}, resultNames(fx.widget.State()))
}

func TestRepeatedQueryIsNoOp(t *testing.T) {
	fx := newFixture(t, scenarioHosts)

	fx.widget.Search("web")
	fx.widget.MoveSelection(1)
	fx.widget.Search("web")

	require.Equal(t, 1, fx.hosts.calls, "second search must not scan")
	require.Equal(t, 0, selected(t, fx.widget), "selection survives the no-op")
}

func TestResearchResetsSelection(t *testing.T) {
	fx := newFixture(t, scenarioHosts)

	fx.widget.Search("0")
	fx.widget.MoveSelection(1)
	fx.widget.Search("01")

	require.Equal(t, []string{"web01", "db01"}, resultNames(fx.widget.State()))
	_, ok := fx.widget.SelectedIndex()
	require.False(t, ok)
}

func TestSearchWithoutMatchesCloses(t *testing.T) {
	fx := newFixture(t, scenarioHosts)

	fx.widget.Search("web")
	require.True(t, fx.widget.Open())

	fx.widget.Search("zz")
	require.False(t, fx.widget.Open())
	require.Empty(t, fx.widget.State().Results)
	require.Equal(t, "zz", fx.widget.State().LastQuery)
}

func TestSearchWithoutHostListRaisesNoticeAndKeepsState(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.widget.Search("web")
	fx.widget.MoveSelection(1)
	before := fx.widget.State()

	fx.hosts.err = errors.New("no hosts to search for")
	fx.widget.Search("db")

	require.Equal(t, []string{NoHostsMessage}, fx.notes.messages)
	require.Equal(t, before, fx.widget.State())
}

func TestSearchWithNilSourceRaisesNotice(t *testing.T) {
	notes := &fakeNotifier{}
	w := New(nil, &fakeNav{}, notes, nil)

	require.NotPanics(t, func() { w.Search("web") })
	require.Equal(t, []string{NoHostsMessage}, notes.messages)
	require.False(t, w.Open())
}

func TestMoveSelectionIsCircular(t *testing.T) {
	hosts := []domain.HostEntry{
		{Name: "a1"}, {Name: "a2"}, {Name: "a3"}, {Name: "a4"}, {Name: "a5"},
	}
	for _, step := range []int{1, -1} {
		fx := newFixture(t, hosts)
		fx.widget.Search("a")
		fx.widget.MoveSelection(1)
		fx.widget.MoveSelection(1)
		start := selected(t, fx.widget)

		for i := 0; i < len(hosts); i++ {
			fx.widget.MoveSelection(step)
		}
		assert.Equal(t, start, selected(t, fx.widget), "step %d", step)
	}
}

func TestFirstMoveUpSelectsLastResult(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.widget.Search("0")

	fx.widget.MoveSelection(-1)
	require.Equal(t, 2, selected(t, fx.widget))
	fx.widget.MoveSelection(-1)
	require.Equal(t, 1, selected(t, fx.widget))
}

func TestMoveSelectionOnClosedPanelSearchesFieldValue(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.value = "web"

	fx.widget.MoveSelection(1)
	require.True(t, fx.widget.Open())
	require.Equal(t, 0, selected(t, fx.widget))
}

func TestMoveSelectionWithoutResultsIsNoOp(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.value = "zz"

	fx.widget.MoveSelection(1)
	require.False(t, fx.widget.Open())
	_, ok := fx.widget.SelectedIndex()
	require.False(t, ok)
}

func TestCloseIsIdempotent(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.widget.Search("web")
	fx.widget.MoveSelection(1)

	fx.widget.Close()
	once := fx.widget.State()
	fx.widget.Close()

	require.Equal(t, once, fx.widget.State())
	require.False(t, fx.widget.Open())
	require.Equal(t, "web", once.LastQuery, "closing keeps the last query")
}

func TestResolveHostURL(t *testing.T) {
	t.Run("unique match", func(t *testing.T) {
		fx := newFixture(t, scenarioHosts)
		fx.field.value = "db"

		url := fx.widget.ResolveHostURL("db")
		require.Equal(t, "view?view_name=host&host=db01&site=site2", url)
		require.Equal(t, "db01", fx.field.value)
	})

	t.Run("ambiguous", func(t *testing.T) {
		fx := newFixture(t, scenarioHosts)
		fx.field.value = "web"

		url := fx.widget.ResolveHostURL("web")
		require.Equal(t, "view?view_name=hosts&host=web", url)
		require.Equal(t, "web", fx.field.value)
	})

	t.Run("no match", func(t *testing.T) {
		fx := newFixture(t, scenarioHosts)
		fx.field.value = "mail"

		url := fx.widget.ResolveHostURL("mail")
		require.Equal(t, "view?view_name=hosts&host=mail", url)
		require.Equal(t, "mail", fx.field.value)
	})

	t.Run("rescans instead of using results", func(t *testing.T) {
		fx := newFixture(t, scenarioHosts)
		fx.widget.Search("web")
		calls := fx.hosts.calls

		fx.widget.ResolveHostURL("web02")
		require.Equal(t, calls+1, fx.hosts.calls)
		require.Equal(t, "web02", fx.field.value)
	})
}

func TestAttachMissingFieldIsSilent(t *testing.T) {
	notes := &fakeNotifier{}
	w := New(&fakeHosts{hosts: scenarioHosts}, &fakeNav{}, notes, nil)

	b, ok := w.Attach(fakePage{}, "absent", "side")
	require.False(t, ok)
	require.Nil(t, b)
	require.Empty(t, notes.messages)
	require.Equal(t, domain.DefaultTargetFrame, w.State().TargetFrame)
}

func TestAttachBindsEveryEventAndSetsTarget(t *testing.T) {
	field := newFakeField()
	w := New(&fakeHosts{hosts: scenarioHosts}, &fakeNav{}, nil, nil)

	b, ok := w.Attach(fakePage{"f": field}, "f", "dashboard")
	require.True(t, ok)
	require.Equal(t, "dashboard", w.State().TargetFrame)
	for _, kind := range []EventKind{EventKeyDown, EventKeyUp, EventKeyPress, EventClick, EventDoubleClick} {
		require.Contains(t, field.handlers, kind, kind.String())
	}

	b.Detach()
	b.Detach()
	require.Empty(t, field.handlers)
}

func TestAttachWithoutTargetKeepsCurrent(t *testing.T) {
	w := New(&fakeHosts{}, &fakeNav{}, nil, nil)
	page := fakePage{"a": newFakeField(), "b": newFakeField()}

	_, ok := w.Attach(page, "a", "side")
	require.True(t, ok)
	_, ok = w.Attach(page, "b", "")
	require.True(t, ok)

	require.Equal(t, "side", w.State().TargetFrame)
	require.Empty(t, page["a"].(*fakeField).handlers, "rebinding detaches the old field")
}

func TestTypingOpensPanel(t *testing.T) {
	fx := newFixture(t, scenarioHosts)

	fx.field.typeText("we")
	require.Equal(t, []string{"web01", "web02"}, resultNames(fx.widget.State()))

	fx.field.typeText("b02")
	require.Equal(t, []string{"web02"}, resultNames(fx.widget.State()))
}

func TestEnterWithSelectionNavigatesToResult(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.typeText("web")
	fx.field.press(KeyArrowDown)
	fx.field.press(KeyArrowDown)

	fx.field.press(KeyEnter)

	require.Equal(t, []navigation{{"main", "view?view_name=host&host=web02&site=site1"}}, fx.nav.visits)
	require.Equal(t, "web02", fx.field.value)
	require.False(t, fx.widget.Open())
}

func TestEnterWithoutSelectionResolvesFieldValue(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.typeText("web")

	fx.field.press(KeyEnter)
	require.Equal(t, []navigation{{"main", "view?view_name=hosts&host=web"}}, fx.nav.visits)
	require.Equal(t, "web", fx.field.value)
	require.False(t, fx.widget.Open())

	fx.field.backspaceAll()
	fx.field.typeText("db")
	fx.field.press(KeyEnter)
	require.Equal(t, navigation{"main", "view?view_name=host&host=db01&site=site2"}, fx.nav.visits[1])
	require.Equal(t, "db01", fx.field.value)
}

func TestEnterUsesAttachedTargetFrame(t *testing.T) {
	field := newFakeField()
	nav := &fakeNav{}
	w := New(&fakeHosts{hosts: scenarioHosts}, nav, nil, nil)
	_, ok := w.Attach(fakePage{"f": field}, "f", "dashboard")
	require.True(t, ok)

	field.typeText("db")
	field.press(KeyEnter)
	require.Equal(t, "dashboard", nav.visits[0].target)
}

func TestEnterKeyPressIsSuppressed(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	require.True(t, fx.field.fire(EventKeyPress, KeyEnter))
	require.False(t, fx.field.fire(EventKeyPress, KeyOther))
}

func TestEscapeClosesButRemembersQuery(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.typeText("web")
	fx.field.press(KeyEscape)
	require.False(t, fx.widget.Open())
	require.Empty(t, fx.nav.visits)

	// same text again does not reopen until it changes
	fx.field.backspaceAll()
	fx.field.typeText("web")
	require.True(t, fx.widget.Open(), "intermediate values differ, so the panel reopens")

	fx.field.press(KeyEscape)
	fx.field.fire(EventKeyUp, KeyOther)
	require.False(t, fx.widget.Open(), "key up with unchanged value stays closed")
}

func TestEmptyFieldOnKeyUpCloses(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.typeText("w")
	require.True(t, fx.widget.Open())

	fx.field.backspaceAll()
	require.False(t, fx.widget.Open())
	_, ok := fx.widget.SelectedIndex()
	require.False(t, ok)
}

func TestArrowKeyUpIsIgnored(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.value = "web"

	require.True(t, fx.field.fire(EventKeyUp, KeyArrowDown))
	require.False(t, fx.widget.Open(), "arrow key up must not search")
	require.Zero(t, fx.hosts.calls)
}

func TestArrowDownOnClosedPanelOpensAndSelects(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.value = "web"

	require.True(t, fx.field.fire(EventKeyDown, KeyArrowDown))
	require.True(t, fx.widget.Open())
	require.Equal(t, 0, selected(t, fx.widget))

	fx.field.fire(EventKeyUp, KeyArrowDown)
	require.Equal(t, 0, selected(t, fx.widget), "key up does not move again")
}

func TestTabClosesWithoutConsuming(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.typeText("web")

	require.False(t, fx.field.fire(EventKeyDown, KeyTab))
	require.False(t, fx.widget.Open())

	require.False(t, fx.field.fire(EventKeyDown, KeyTab), "tab on a closed panel")
}

func TestDoubleClickToggles(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.value = "db"

	fx.field.fire(EventDoubleClick, KeyOther)
	require.Equal(t, []string{"db01"}, resultNames(fx.widget.State()))

	fx.field.fire(EventDoubleClick, KeyOther)
	require.False(t, fx.widget.Open())
}

func TestClickIsConsumed(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	require.True(t, fx.field.fire(EventClick, KeyOther))
	require.False(t, fx.widget.Open())
}

func TestFollowOpensClickedResult(t *testing.T) {
	fx := newFixture(t, scenarioHosts)
	fx.field.typeText("web")

	fx.widget.Follow(5)
	require.Empty(t, fx.nav.visits, "out of range index is ignored")
	require.True(t, fx.widget.Open())

	fx.widget.Follow(1)
	require.Equal(t, []navigation{{"main", "view?view_name=host&host=web02&site=site1"}}, fx.nav.visits)
	require.Equal(t, "web", fx.field.value)
	require.False(t, fx.widget.Open())
}

func TestFailedNavigationStillClosesAndReportsError(t *testing.T) {
	hosts := &fakeHosts{hosts: scenarioHosts}
	navErr := errors.New("exec: \"xdg-open\": not found")
	nav := &fakeNav{err: navErr}
	bus := &recordingBus{}
	field := newFakeField()

	w := New(hosts, nav, &fakeNotifier{}, bus)
	_, ok := w.Attach(fakePage{"search": field}, "search", "")
	require.True(t, ok)

	field.typeText("web")
	field.fire(EventKeyDown, KeyArrowDown)
	require.True(t, w.Open())

	field.press(KeyEnter)

	require.False(t, w.Open(), "the panel closes even when navigation fails")
	require.Len(t, nav.visits, 1)
	assert.Equal(t, "web01", field.value)

	errs := bus.errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "navigation failed", errs[0].Message)
	assert.Equal(t, navErr, errs[0].Err)
}

func TestFailedFollowStillCloses(t *testing.T) {
	nav := &fakeNav{err: errors.New("boom")}
	bus := &recordingBus{}
	w := New(&fakeHosts{hosts: scenarioHosts}, nav, nil, bus)

	w.Search("db")
	require.True(t, w.Open())
	w.Follow(0)

	require.False(t, w.Open())
	require.Len(t, bus.errors(), 1)
}
