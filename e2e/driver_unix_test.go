//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

const ringSize = 1 << 20

var binPath = "hostgrip_e2e"

// Terminal input sequences
const (
	KeyEnter = "\r"
	KeyEsc   = "\x1b"
	KeyCtrlC = "\x03"
	KeyUp    = "\x1b[A"
	KeyDown  = "\x1b[B"
	KeyF1    = "\x1bOP"
)

var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` + // CSI
		`(?:\x1b\][^\x07]*\x07)|` + // OSC
		`(?:\x1b[\(\)][A-Za-z])|` + // charset
		`(?:\x1b=|\x1b>)|` + // keypad mode
		`\r`,
)

// TUITest runs the hostgrip binary in a pty inside a throwaway workspace
type TUITest struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	Workspace string

	mu   sync.Mutex
	buf  []byte
	head int
	full bool
}

func NewTUITest(t *testing.T) *TUITest {
	t.Helper()
	return &TUITest{
		t:         t,
		Workspace: t.TempDir(),
		buf:       make([]byte, ringSize),
	}
}

// WriteFile creates a file in the workspace and returns its path
func (tt *TUITest) WriteFile(name, content string, mode os.FileMode) string {
	tt.t.Helper()
	p := filepath.Join(tt.Workspace, name)
	if err := os.WriteFile(p, []byte(content), mode); err != nil {
		tt.t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// OpenRecorder installs an open command that appends every URL it gets to
// opened.txt, and returns that file's path
func (tt *TUITest) OpenRecorder() (command, log string) {
	tt.t.Helper()
	log = filepath.Join(tt.Workspace, "opened.txt")
	command = tt.WriteFile("open.sh", "#!/bin/sh\necho \"$1\" >> "+log+"\n", 0755)
	return command, log
}

// Start launches hostgrip with args in a 120x40 pty
func (tt *TUITest) Start(args ...string) error {
	tt.cmd = exec.Command(binPath, args...)
	tt.cmd.Dir = tt.Workspace
	tt.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tt.Workspace,
		"XDG_CONFIG_HOME="+filepath.Join(tt.Workspace, ".config"),
	)

	f, err := pty.StartWithSize(tt.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("start in pty: %w", err)
	}
	tt.pty = f
	go tt.read()
	return nil
}

func (tt *TUITest) read() {
	chunk := make([]byte, 8192)
	for {
		n, err := tt.pty.Read(chunk)
		if n > 0 {
			tt.mu.Lock()
			for _, b := range chunk[:n] {
				tt.buf[tt.head] = b
				tt.head = (tt.head + 1) % ringSize
				if tt.head == 0 {
					tt.full = true
				}
			}
			tt.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Send writes raw input to the terminal
func (tt *TUITest) Send(keys ...string) {
	tt.t.Helper()
	for _, k := range keys {
		if _, err := tt.pty.Write([]byte(k)); err != nil {
			tt.t.Fatalf("send %q: %v", k, err)
		}
		// separate escape sequences so they are not read as alt+key
		time.Sleep(30 * time.Millisecond)
	}
}

// Type sends text one character at a time, as a user types it
func (tt *TUITest) Type(text string) {
	tt.t.Helper()
	for _, r := range text {
		tt.Send(string(r))
	}
}

// Snapshot returns everything the program has written, without ANSI codes
func (tt *TUITest) Snapshot() string {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	var raw []byte
	if tt.full {
		raw = append(append(raw, tt.buf[tt.head:]...), tt.buf[:tt.head]...)
	} else {
		raw = append(raw, tt.buf[:tt.head]...)
	}
	return ansiRe.ReplaceAllString(string(raw), "")
}

// Mark returns the current output length; SeeAfter only looks past it
func (tt *TUITest) Mark() int {
	return len(tt.Snapshot())
}

// See waits until text shows up in the output
func (tt *TUITest) See(text string) bool {
	tt.t.Helper()
	return tt.SeeAfter(0, text)
}

// SeeAfter waits until text shows up in output written after mark
func (tt *TUITest) SeeAfter(mark int, text string) bool {
	tt.t.Helper()
	return tt.waitFor(3*time.Second, func() bool {
		s := tt.Snapshot()
		return len(s) > mark && strings.Contains(s[mark:], text)
	})
}

// WaitForFile waits until path exists and contains text
func (tt *TUITest) WaitForFile(path, text string) bool {
	tt.t.Helper()
	return tt.waitFor(3*time.Second, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(data), text)
	})
}

// WaitExit waits for the process to end
func (tt *TUITest) WaitExit(timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- tt.cmd.Wait() }()
	select {
	case err := <-done:
		tt.cmd = nil
		return err
	case <-time.After(timeout):
		return fmt.Errorf("process still running after %s", timeout)
	}
}

func (tt *TUITest) waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			tail := tt.Snapshot()
			if len(tail) > 2048 {
				tail = tail[len(tail)-2048:]
			}
			tt.t.Logf("--- output tail ---\n%s", tail)
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// Cleanup closes the pty and kills the program if it is still running
func (tt *TUITest) Cleanup() {
	if tt.pty != nil {
		_ = tt.pty.Close()
		tt.pty = nil
	}
	if tt.cmd != nil && tt.cmd.Process != nil {
		_ = tt.cmd.Process.Kill()
		_, _ = tt.cmd.Process.Wait()
		tt.cmd = nil
	}
}
