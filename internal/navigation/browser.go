package navigation

import (
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// BrowserNavigator records the navigation in its frames and hands the
// resulting URL to an external command such as xdg-open.
type BrowserNavigator struct {
	*Frames
	command []string
	start   func(name string, args ...string) error
}

// NewBrowserNavigator wraps frames with openCommand. The command line is
// split on whitespace; the URL is appended as the last argument.
func NewBrowserNavigator(frames *Frames, openCommand string) *BrowserNavigator {
	return &BrowserNavigator{
		Frames:  frames,
		command: strings.Fields(openCommand),
		start:   startDetached,
	}
}

func (b *BrowserNavigator) Navigate(target, location string) error {
	if err := b.Frames.Navigate(target, location); err != nil {
		return err
	}
	if len(b.command) == 0 {
		return nil
	}

	abs, _ := b.Frames.Location(target)
	args := append(append([]string{}, b.command[1:]...), abs)
	if err := b.start(b.command[0], args...); err != nil {
		return errors.Wrapf(err, "run %s", b.command[0])
	}
	return nil
}

// startDetached launches the command without waiting for the browser
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
