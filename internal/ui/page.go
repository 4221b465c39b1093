package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"hostgrip/internal/ui/services/search"
)

// Page is the set of input fields the program shows, by identifier
type Page struct {
	fields map[string]*Field
}

// NewPage creates an empty page
func NewPage() *Page {
	return &Page{fields: make(map[string]*Field)}
}

// AddField registers a text field under id
func (p *Page) AddField(id, placeholder string) *Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 256
	f := &Field{
		ID:       id,
		input:    ti,
		handlers: make(map[search.EventKind]registration),
	}
	p.fields[id] = f
	return f
}

// Field implements search.Page
func (p *Page) Field(id string) (search.Field, bool) {
	f, ok := p.fields[id]
	if !ok {
		return nil, false
	}
	return f, true
}

type registration struct {
	id      int
	handler search.Handler
}

// Field is a textinput that reports key and mouse events to one handler per
// event kind
type Field struct {
	ID       string
	input    textinput.Model
	handlers map[search.EventKind]registration
	nextID   int
}

func (f *Field) Value() string {
	return f.input.Value()
}

func (f *Field) SetValue(v string) {
	f.input.SetValue(v)
	f.input.CursorEnd()
}

// On sets the handler for kind, replacing any previous one. The returned
// func removes it again unless it was replaced in the meantime.
func (f *Field) On(kind search.EventKind, h search.Handler) func() {
	f.nextID++
	id := f.nextID
	f.handlers[kind] = registration{id: id, handler: h}
	return func() {
		if r, ok := f.handlers[kind]; ok && r.id == id {
			delete(f.handlers, kind)
		}
	}
}

// Dispatch delivers an event and reports whether the handler consumed it
func (f *Field) Dispatch(kind search.EventKind, key search.Key) bool {
	r, ok := f.handlers[kind]
	if !ok {
		return false
	}
	return r.handler(search.Event{Kind: kind, Key: key})
}

// HandleKey runs a terminal key press through the same sequence a browser
// would: key down, key press, the default edit unless consumed, key up.
func (f *Field) HandleKey(msg tea.KeyMsg) tea.Cmd {
	key := classifyKey(msg)

	consumed := f.Dispatch(search.EventKeyDown, key)
	if f.Dispatch(search.EventKeyPress, key) {
		consumed = true
	}

	var cmd tea.Cmd
	if !consumed {
		f.input, cmd = f.input.Update(msg)
	}

	f.Dispatch(search.EventKeyUp, key)
	return cmd
}

// Focus gives the field the cursor
func (f *Field) Focus() tea.Cmd {
	return f.input.Focus()
}

// View renders the field
func (f *Field) View() string {
	return f.input.View()
}

// SetWidth sets the visible width of the field
func (f *Field) SetWidth(w int) {
	f.input.Width = w
}

func classifyKey(msg tea.KeyMsg) search.Key {
	switch msg.Type {
	case tea.KeyEnter:
		return search.KeyEnter
	case tea.KeyEsc:
		return search.KeyEscape
	case tea.KeyUp:
		return search.KeyArrowUp
	case tea.KeyDown:
		return search.KeyArrowDown
	case tea.KeyTab:
		return search.KeyTab
	default:
		return search.KeyOther
	}
}
