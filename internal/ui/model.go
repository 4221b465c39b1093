package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"hostgrip/internal/config"
	"hostgrip/internal/domain"
	"hostgrip/internal/eventbus"
	"hostgrip/internal/hostlist"
	"hostgrip/internal/logging"
	"hostgrip/internal/ui/logic"
	"hostgrip/internal/ui/services/search"
	"hostgrip/internal/ui/views"
)

// doubleClickInterval is the longest gap between two clicks of a double click
const doubleClickInterval = 400 * time.Millisecond

// Options are the collaborators a Model is built from
type Options struct {
	Config    *config.Config
	Store     *hostlist.Store
	Navigator search.Navigator
	Bus       eventbus.EventBus
}

// Model is the bubbletea model of the search page
type Model struct {
	ctx      context.Context
	cfg      *config.Config
	store    *hostlist.Store
	page     *Page
	field    *Field
	widget   *search.Widget
	binding  *search.Binding
	notices  *noticeQueue
	renderer *views.Renderer
	help     help.Model
	keys     keyMap

	width      int
	height     int
	status     string
	statusKind views.StatusKind

	lastClick time.Time
	now       func() time.Time
}

// NewModel builds the page, binds the search widget to its field and
// returns the model ready to run
func NewModel(ctx context.Context, opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := &Model{
		ctx:      ctx,
		cfg:      cfg,
		store:    opts.Store,
		page:     NewPage(),
		notices:  &noticeQueue{},
		renderer: views.NewRenderer(cfg.UISettings.MaxResults, cfg.UISettings.ShowSites),
		help:     help.New(),
		keys:     defaultKeyMap(),
		now:      time.Now,
	}
	m.field = m.page.AddField(cfg.FieldID, "host name")

	var hosts search.HostSource
	if opts.Store != nil {
		hosts = opts.Store
	}
	m.widget = search.New(hosts, opts.Navigator, m.notices, opts.Bus)
	m.binding, _ = m.widget.Attach(m.page, cfg.FieldID, cfg.TargetFrame)

	return m
}

// Widget exposes the search widget, mainly for tests
func (m *Model) Widget() *search.Widget {
	return m.widget
}

// Close detaches the widget from the field
func (m *Model) Close() {
	m.binding.Detach()
}

// Init focuses the field and loads the host list. The load runs once the
// program is up, so its HostsLoaded or Error event reaches the status line.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.field.Focus(), m.reloadHosts())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.field.SetWidth(msg.Width - 14)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.notices.pending() {
			// blocking: the key only dismisses the notice
			m.notices.dismiss()
			return m, nil
		}
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case hostsReloadedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Host list load failed: %v", msg.err), views.StatusError)
		}
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			logging.Log.WithError(msg.err).Warn("help pager failed")
		}
		return m, nil
	}

	// cursor blink and friends
	var cmd tea.Cmd
	m.field.input, cmd = m.field.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		return tea.Exec(&pagerCommand{content: renderHelpContent()}, func(err error) tea.Msg {
			return helpPagerMsg{err: err}
		})
	case key.Matches(msg, m.keys.Reload):
		return m.reloadHosts()
	case key.Matches(msg, m.keys.Toggle):
		before := m.widget.State().LastQuery
		m.field.Dispatch(search.EventDoubleClick, search.KeyOther)
		m.afterInput(before)
		return nil
	}

	before := m.widget.State().LastQuery
	cmd := m.field.HandleKey(msg)
	m.afterInput(before)
	return cmd
}

// afterInput shows a spelling hint when the input just produced a search
// without matches, and drops a stale hint otherwise
func (m *Model) afterInput(queryBefore string) {
	st := m.widget.State()
	if st.LastQuery == queryBefore {
		return
	}
	if st.Open() {
		if m.statusKind == views.StatusHint {
			m.setStatus("", views.StatusInfo)
		}
		return
	}

	hosts, err := m.hosts()
	if err != nil {
		return
	}
	if name, ok := logic.ClosestHost(st.LastQuery, hosts); ok {
		m.setStatus(fmt.Sprintf("No host matches %q. Did you mean %s?", st.LastQuery, name), views.StatusHint)
	} else {
		m.setStatus(fmt.Sprintf("No host matches %q", st.LastQuery), views.StatusHint)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	if m.notices.pending() {
		m.notices.dismiss()
		return
	}

	if msg.Y == m.renderer.FieldRow() {
		now := m.now()
		before := m.widget.State().LastQuery
		if !m.lastClick.IsZero() && now.Sub(m.lastClick) <= doubleClickInterval {
			m.lastClick = time.Time{}
			m.field.Dispatch(search.EventDoubleClick, search.KeyOther)
		} else {
			m.lastClick = now
			m.field.Dispatch(search.EventClick, search.KeyOther)
		}
		m.afterInput(before)
		return
	}

	st := m.widget.State()
	if !st.Open() {
		return
	}
	if i, ok := m.renderer.Results().ResultAt(st, msg.Y-m.renderer.PanelRow()); ok {
		m.widget.Follow(i)
	}
}

func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch e := e.(type) {
	case eventbus.NavigatedEvent:
		m.setStatus(fmt.Sprintf("%s → %s", e.Target, e.URL), views.StatusInfo)
	case eventbus.HostsLoadedEvent:
		m.setStatus(fmt.Sprintf("Loaded %d hosts from %s", e.Count, e.Source), views.StatusInfo)
	case eventbus.ErrorEvent:
		msg := e.Message
		if e.Err != nil {
			msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		m.setStatus(msg, views.StatusError)
	}
}

func (m *Model) reloadHosts() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		if store == nil {
			return hostsReloadedMsg{err: hostlist.ErrNoHosts}
		}
		return hostsReloadedMsg{err: store.Reload(ctx)}
	}
}

func (m *Model) hosts() ([]domain.HostEntry, error) {
	if m.store == nil {
		return nil, hostlist.ErrNoHosts
	}
	return m.store.Hosts()
}

func (m *Model) setStatus(s string, kind views.StatusKind) {
	m.status, m.statusKind = s, kind
}

func (m *Model) View() string {
	state := views.ViewState{
		Width:      m.width,
		Height:     m.height,
		FieldView:  m.field.View(),
		Search:     m.widget.State(),
		Status:     m.status,
		StatusKind: m.statusKind,
		Notice:     m.notices.current(),
		HelpView:   m.help.View(m.keys),
	}
	if m.store != nil {
		state.HostCount = m.store.Len()
		state.HostSource = m.store.Source()
	}
	return m.renderer.Render(state)
}
