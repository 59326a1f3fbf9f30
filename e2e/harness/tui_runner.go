package harness

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/artpar/gallery/internal/app"
	"github.com/artpar/gallery/internal/tui"
	"github.com/artpar/gallery/internal/tui/views"
	tea "github.com/charmbracelet/bubbletea"
)

// TUIRunner provides TUI testing capabilities.
type TUIRunner struct {
	harness *E2EHarness
}

// TUISession drives a MainView directly, running commands synchronously.
type TUISession struct {
	runner    *TUIRunner
	app       *app.App
	model     *views.MainView
	t         *testing.T
	width     int
	height    int
	quit      bool
	clipboard []string
	notices   []tui.NoticeMsg
}

// Start starts a new TUI session against the harness config.
func (r *TUIRunner) Start(t *testing.T, opts ...app.Option) *TUISession {
	t.Helper()
	return r.StartWithSize(t, 120, 40, opts...)
}

// StartWithSize starts a TUI session with custom dimensions.
func (r *TUIRunner) StartWithSize(t *testing.T, width, height int, opts ...app.Option) *TUISession {
	t.Helper()

	s := &TUISession{runner: r, t: t, width: width, height: height}
	s.open(opts...)
	t.Cleanup(s.Quit)
	return s
}

func (s *TUISession) open(opts ...app.Option) {
	s.t.Helper()

	a, err := app.Open(context.Background(), s.runner.harness.config, opts...)
	if err != nil {
		s.t.Fatalf("failed to open app: %v", err)
	}
	s.app = a
	s.quit = false
	s.model = views.NewMainView(a,
		views.WithNoticeDuration(time.Millisecond),
		views.WithClipboard(func(text string) error {
			s.clipboard = append(s.clipboard, text)
			return nil
		}),
	)
	s.model.SetSize(s.width, s.height)
}

// Restart closes the app and opens it again from the same data directory.
func (s *TUISession) Restart(opts ...app.Option) *TUISession {
	s.t.Helper()
	s.Quit()
	s.open(opts...)
	return s
}

// SendKey sends a key press.
func (s *TUISession) SendKey(key string) *TUISession {
	updated, cmd := s.model.Update(parseKeyMsg(key))
	s.model = updated.(*views.MainView)
	s.executeCmd(cmd)
	return s
}

// SendKeys sends multiple key presses.
func (s *TUISession) SendKeys(keys ...string) *TUISession {
	for _, key := range keys {
		s.SendKey(key)
	}
	return s
}

// executeCmd executes a tea.Cmd and feeds the resulting message back into
// Update. Batches are run in order.
func (s *TUISession) executeCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case nil:
		return
	case tea.QuitMsg:
		s.quit = true
	case tea.BatchMsg:
		for _, c := range msg {
			s.executeCmd(c)
		}
	case tui.NoticeMsg:
		s.notices = append(s.notices, msg)
		updated, next := s.model.Update(msg)
		s.model = updated.(*views.MainView)
		s.executeCmd(next)
	default:
		updated, next := s.model.Update(msg)
		s.model = updated.(*views.MainView)
		s.executeCmd(next)
	}
}

// Output returns the current TUI output.
func (s *TUISession) Output() string {
	return s.model.View()
}

// Quit closes the app. It is safe to call more than once.
func (s *TUISession) Quit() {
	if s.app == nil {
		return
	}
	s.model.Close()
	if err := s.app.Close(context.Background()); err != nil {
		s.t.Errorf("failed to close app: %v", err)
	}
	s.app = nil
}

// Quitted reports whether the view asked the program to exit.
func (s *TUISession) Quitted() bool {
	return s.quit
}

// Model returns the underlying MainView for direct assertions.
func (s *TUISession) Model() *views.MainView {
	return s.model
}

// App returns the running application.
func (s *TUISession) App() *app.App {
	return s.app
}

// Clipboard returns everything copied during the session.
func (s *TUISession) Clipboard() []string {
	return s.clipboard
}

// Notices returns every notification shown during the session. Notices
// expire almost immediately, so the view itself rarely still shows them.
func (s *TUISession) Notices() []tui.NoticeMsg {
	return s.notices
}

// LastNotice returns the most recent notification text.
func (s *TUISession) LastNotice() string {
	if len(s.notices) == 0 {
		return ""
	}
	return s.notices[len(s.notices)-1].Text
}

// ShowingHelp returns true if help overlay is visible.
func (s *TUISession) ShowingHelp() bool {
	return s.model.ShowingHelp()
}

// parseKeyMsg converts key string to tea.KeyMsg.
func parseKeyMsg(key string) tea.KeyMsg {
	switch strings.ToLower(key) {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc", "escape":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
