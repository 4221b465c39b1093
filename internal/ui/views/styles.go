package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Dim         lipgloss.Style
	Panel       lipgloss.Style
	PanelHeader lipgloss.Style
	Active      lipgloss.Style
	Inactive    lipgloss.Style
	Highlight   lipgloss.Style
	Site        lipgloss.Style
	Scroll      lipgloss.Style
	Notice      lipgloss.Style
	NoticeTitle lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	StatusInfo  lipgloss.Style
	StatusError lipgloss.Style
	StatusHint  lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Label: lipgloss.NewStyle().Bold(true),
		Dim:   lipgloss.NewStyle().Faint(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		PanelHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Active:      lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true),
		Inactive:    lipgloss.NewStyle(),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Site:        lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Notice: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(1, 2),
		NoticeTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		Help:        lipgloss.NewStyle().Faint(true),
		Main:        lipgloss.NewStyle().Padding(1, 2),
		StatusInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusHint:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
	}
}
