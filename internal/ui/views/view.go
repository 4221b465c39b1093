package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hostgrip/internal/ui/services/search"
)

// StatusKind selects the style of the status line
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusError
	StatusHint
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width      int
	Height     int
	HostCount  int
	HostSource string
	FieldLabel string
	FieldView  string
	Search     search.State
	Status     string
	StatusKind StatusKind
	Notice     string
	HelpView   string
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	resultsRender *ResultsRenderer
	popupRender   *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(maxResults int, showSites bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		resultsRender: NewResultsRenderer(styles, maxResults, showSites),
		popupRender:   NewPopupRenderer(styles),
	}
}

// Results exposes the panel renderer for hit testing
func (r *Renderer) Results() *ResultsRenderer {
	return r.resultsRender
}

// FieldRow is the screen row of the search field
func (r *Renderer) FieldRow() int {
	return r.styles.Main.GetPaddingTop() + lipgloss.Height(r.styles.Title.Render("hostgrip"))
}

// PanelRow is the screen row of the results panel's top border
func (r *Renderer) PanelRow() int {
	return r.FieldRow() + 1
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	title := r.renderTitle(state)
	if state.Notice != "" {
		return r.popupRender.RenderNotice(title, state.Notice, state.Width, state.Height)
	}

	content := &strings.Builder{}
	content.WriteString(title)
	content.WriteString("\n")

	label := state.FieldLabel
	if label == "" {
		label = "Host"
	}
	content.WriteString(r.styles.Label.Render(label+": ") + state.FieldView)

	if panel := r.resultsRender.Render(state.Search, state.Width-r.styles.Main.GetHorizontalPadding()); panel != "" {
		content.WriteString("\n")
		content.WriteString(panel)
	}

	footer := r.renderStatus(state)
	if state.HelpView != "" {
		if footer != "" {
			footer += "\n"
		}
		footer += r.styles.Help.Render(state.HelpView)
	}

	if footer != "" {
		// push the footer to the bottom
		currentLines := lipgloss.Height(content.String())
		availableLines := state.Height - r.styles.Main.GetVerticalPadding()
		if availableLines <= 0 {
			availableLines = 22
		}
		padding := availableLines - currentLines - lipgloss.Height(footer)
		if padding < 1 {
			padding = 1
		}
		content.WriteString(strings.Repeat("\n", padding))
		content.WriteString(footer)
	}

	return r.styles.Main.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("hostgrip")
	if state.HostSource == "" {
		return logo
	}

	info := r.styles.Dim.Render(fmt.Sprintf("%d hosts · %s", state.HostCount, state.HostSource))
	// the title's bottom margin is part of logo; put info on its first line
	logoLine, rest, _ := strings.Cut(logo, "\n")
	return logoLine + "  " + info + "\n" + rest
}

func (r *Renderer) renderStatus(state ViewState) string {
	if state.Status == "" {
		return ""
	}
	switch state.StatusKind {
	case StatusError:
		return r.styles.StatusError.Render(state.Status)
	case StatusHint:
		return r.styles.StatusHint.Render(state.Status)
	default:
		return r.styles.StatusInfo.Render(state.Status)
	}
}
