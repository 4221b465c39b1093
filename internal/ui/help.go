package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// renderHelpContent renders the full key reference shown in the pager
func renderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	line := func(k, desc string) {
		help.WriteString(fmt.Sprintf("  %-12s %s\n", keyStyle.Render(k), descStyle.Render(desc)))
	}

	help.WriteString(titleStyle.Render("hostgrip - quick host search"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Searching"))
	help.WriteString("\n")
	line("type", "Filter hosts whose name contains the text (any case)")
	line("↓ / ↑", "Select next/previous host, wrapping around")
	line("enter", "Open the selected host, or the typed name")
	line("esc", "Close the result list")
	line("tab", "Close the result list")
	line("ctrl+space", "Toggle the result list (also double click)")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Opening"))
	help.WriteString("\n")
	help.WriteString("  A unique match opens the host view; otherwise the host\n")
	help.WriteString("  list view is opened filtered by the typed text.\n")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	line("ctrl+r", "Reload the host list")
	line("f1", "Show this help")
	line("ctrl+c", "Quit")

	return help.String()
}

// pagerCommand shows content in the ov pager. It satisfies tea.ExecCommand
// so bubbletea releases and restores the terminal around it.
type pagerCommand struct {
	content string
}

func (c *pagerCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(c.content))
	if err != nil {
		return err
	}

	// do not write on exit, that would mess with our screen
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

func (c *pagerCommand) SetStdin(io.Reader)  {}
func (c *pagerCommand) SetStdout(io.Writer) {}
func (c *pagerCommand) SetStderr(io.Writer) {}
