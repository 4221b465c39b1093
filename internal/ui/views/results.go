package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"hostgrip/internal/ui/services/search"
)

// ResultsRenderer draws the results panel from the widget state. Only
// result lines count as entries; the header and scroll markers do not.
type ResultsRenderer struct {
	styles     *Styles
	maxResults int
	showSites  bool
}

// NewResultsRenderer creates a results renderer showing at most maxResults
// lines at once (0 means all)
func NewResultsRenderer(styles *Styles, maxResults int, showSites bool) *ResultsRenderer {
	return &ResultsRenderer{
		styles:     styles,
		maxResults: maxResults,
		showSites:  showSites,
	}
}

// PanelLayout describes which results are visible and where they are drawn
type PanelLayout struct {
	Start, End      int // visible results are Results[Start:End]
	FirstResultLine int // line of Results[Start], counted from the panel top
}

// Layout computes the visible window so that the selection stays in view
func (r *ResultsRenderer) Layout(state search.State) PanelLayout {
	total := len(state.Results)
	l := PanelLayout{Start: 0, End: total}
	if r.maxResults > 0 && total > r.maxResults {
		if sel, ok := state.SelectedIndex(); ok && sel >= r.maxResults {
			l.Start = sel - r.maxResults + 1
		}
		l.End = l.Start + r.maxResults
	}

	// top border, header
	l.FirstResultLine = 2
	if l.Start > 0 {
		l.FirstResultLine++
	}
	return l
}

// ResultAt maps a line of the rendered panel to a result index
func (r *ResultsRenderer) ResultAt(state search.State, line int) (int, bool) {
	l := r.Layout(state)
	i := l.Start + line - l.FirstResultLine
	if line < l.FirstResultLine || i >= l.End {
		return 0, false
	}
	return i, true
}

// Render renders the panel, or "" when it is closed
func (r *ResultsRenderer) Render(state search.State, width int) string {
	if !state.Open() {
		return ""
	}

	l := r.Layout(state)
	total := len(state.Results)
	sel, hasSel := state.SelectedIndex()

	// panel border and padding take 4 columns
	lineWidth := width - 4
	if lineWidth < 10 {
		lineWidth = 10
	}

	var lines []string
	noun := "hosts"
	if total == 1 {
		noun = "host"
	}
	lines = append(lines, r.styles.PanelHeader.Render(fmt.Sprintf("%d %s", total, noun)))
	if l.Start > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more", l.Start)))
	}

	for i := l.Start; i < l.End; i++ {
		res := state.Results[i]
		style := r.styles.Inactive
		if hasSel && i == sel {
			style = r.styles.Active
		}

		line := highlightMatch(res.Name, state.LastQuery, style.Inherit(r.styles.Highlight), style)
		if r.showSites && res.Site != "" {
			line += style.Render(" ") + style.Inherit(r.styles.Site).Render("@"+res.Site)
		}
		lines = append(lines, ansi.Truncate(line, lineWidth, "…"))
	}

	if l.End < total {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more", total-l.End)))
	}

	return r.styles.Panel.Render(strings.Join(lines, "\n"))
}

// highlightMatch renders text with the first case-insensitive occurrence
// of query in highlightStyle
func highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	index := strings.Index(lowerText, lowerQuery)
	// lowering may change byte lengths outside ASCII
	if query == "" || index == -1 || len(lowerText) != len(text) || len(lowerQuery) != len(query) {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}
