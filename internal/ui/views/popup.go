package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderNotice centres a blocking notice below a greyed out header line
func (pr *PopupRenderer) RenderNotice(header, message string, width, height int) string {
	body := pr.styles.NoticeTitle.Render("Notice") + "\n\n" + message + "\n\n" +
		pr.styles.Dim.Render("press any key")
	modal := pr.styles.Notice.Render(body)

	grey := desaturateANSI(firstLine(header))
	if width <= 0 || height <= 1 {
		return grey + "\n" + modal
	}

	return grey + "\n" + lipgloss.Place(width, height-1, lipgloss.Center, lipgloss.Center, modal)
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	plain := ansiRE.ReplaceAllString(s, "")
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(plain)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
