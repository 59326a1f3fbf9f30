package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/artpar/gallery/internal/app"
	"github.com/artpar/gallery/internal/favorites"
	"github.com/artpar/gallery/internal/tui"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NoticeDuration is how long a notification stays in the status bar by
// default.
const NoticeDuration = 2 * time.Second

// Page indexes.
const (
	PageViewer = iota
	PageFavorites
)

// MainView hosts the viewer and favorites pages, the help overlay and the
// status bar.
type MainView struct {
	width     int
	height    int
	app       *app.App
	pages     *tui.PageList
	viewer    *Viewer
	favorites *FavoritesView
	styles    tui.Styles
	showHelp  bool
	notice    tui.NoticeMsg
	noticeSeq int
	noticeTTL time.Duration
	copyText  func(string) error
	// favCount mirrors the favorites store through its subscription.
	favCount    int
	unsubscribe func()
}

// Option configures a MainView.
type Option func(*MainView)

// WithNoticeDuration sets how long notifications stay visible.
func WithNoticeDuration(d time.Duration) Option {
	return func(v *MainView) {
		v.noticeTTL = d
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(v *MainView) {
		v.copyText = write
	}
}

// NewMainView creates the main view for a.
func NewMainView(a *app.App, opts ...Option) *MainView {
	viewer := NewViewer(a)
	favorites := NewFavoritesView(a)
	v := &MainView{
		app:       a,
		viewer:    viewer,
		favorites: favorites,
		pages:     tui.NewPageList(viewer, favorites),
		styles:    tui.DefaultStyles(),
		noticeTTL: NoticeDuration,
		copyText:  clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.favCount = a.Favorites().Count()
	v.unsubscribe = a.Favorites().Subscribe(v.onFavoritesChange)
	return v
}

// Close detaches the view from the favorites store.
func (v *MainView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// onFavoritesChange runs on the goroutine that mutated the store, which for
// the pages is the bubbletea update loop.
func (v *MainView) onFavoritesChange(c favorites.Change) {
	v.favCount = v.app.Favorites().Count()
	v.app.Logger().Debug("favorites changed", "kind", c.Kind, "url", c.URL, "count", v.favCount)
}

// Init initializes the view.
func (v *MainView) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (v *MainView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	if v.showHelp {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case keyMsg.Type == tea.KeyCtrlC:
				return v, tea.Quit
			case keyMsg.Type == tea.KeyEsc, string(keyMsg.Runes) == "?":
				v.showHelp = false
			}
			return v, nil
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tui.NoticeMsg:
		return v.showNotice(msg)

	case tui.CopyMsg:
		if err := v.copyText(msg.Content); err != nil {
			v.app.Logger().Warn("clipboard write failed", "error", err)
			return v, tui.Notify("Copy failed", true)
		}
		return v, tui.Notify("Copied URL", false)

	case tui.ClearNoticeMsg:
		if msg.Seq == v.noticeSeq {
			v.notice = tui.NoticeMsg{}
		}
		return v, nil
	}

	return v.forwardToPage(msg)
}

func (v *MainView) showNotice(n tui.NoticeMsg) (tui.Component, tea.Cmd) {
	v.notice = n
	v.noticeSeq++
	seq := v.noticeSeq
	return v, tea.Tick(v.noticeTTL, func(time.Time) tea.Msg {
		return tui.ClearNoticeMsg{Seq: seq}
	})
}

func (v *MainView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return v, tea.Quit
	}

	if v.pages.Current().Capturing() {
		return v.forwardToPage(msg)
	}

	switch msg.Type {
	case tea.KeyTab:
		v.pages.Next()
		return v, nil
	case tea.KeyShiftTab:
		v.pages.Prev()
		return v, nil
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return v, tea.Quit
		case "?":
			v.showHelp = true
			return v, nil
		}
	}

	return v.forwardToPage(msg)
}

func (v *MainView) forwardToPage(msg tea.Msg) (tui.Component, tea.Cmd) {
	_, cmd := v.pages.Current().Update(msg)
	return v, cmd
}

// View renders the view.
func (v *MainView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	if v.showHelp {
		return v.renderHelp()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		v.pages.Current().View(),
		v.renderHelpBar(),
		v.renderStatusBar(),
	)
}

func (v *MainView) renderHelpBar() string {
	hints := append(v.pages.Current().Hints(),
		tui.Hint{Key: "Tab", Desc: "Switch page"},
		tui.Hint{Key: "?", Desc: "Help"},
		tui.Hint{Key: "q", Desc: "Quit"},
	)

	return lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Render(tui.RenderHints(v.styles, hints))
}

func (v *MainView) renderStatusBar() string {
	var items []string

	pageStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("229"))
	items = append(items, pageStyle.Render(strings.ToUpper(v.pages.Current().Title())))

	countStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 1)
	items = append(items, countStyle.Render(fmt.Sprintf("♥ %d", v.favCount)))

	if v.notice.Text != "" {
		style := v.styles.Success
		mark := "✓ "
		if v.notice.Error {
			style = v.styles.Error
			mark = "✗ "
		}
		items = append(items, style.Padding(0, 1).Render(mark+v.notice.Text))
	}

	return lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("236")).
		Render(strings.Join(items, " "))
}

func (v *MainView) renderHelp() string {
	helpContent := []string{
		"╭──────────────── Beauty Gallery Help ────────────────╮",
		"│                                                     │",
		"│  Gallery                                            │",
		"│    j / ↓ / Space      Next image                    │",
		"│    k / ↑              Previous image                │",
		"│    f                  Toggle favorite               │",
		"│    d                  Download image                │",
		"│    y                  Copy image URL                │",
		"│                                                     │",
		"│  Favorites                                          │",
		"│    j / k              Move down/up                  │",
		"│    Enter              Open detail                   │",
		"│    h / l              Page through detail           │",
		"│    x                  Remove favorite               │",
		"│    C                  Clear all favorites           │",
		"│                                                     │",
		"│  General                                            │",
		"│    Tab / Shift+Tab    Switch page                   │",
		"│    ?                  Toggle this help              │",
		"│    q / Ctrl+C         Quit                          │",
		"│                                                     │",
		"│           Press ? or Esc to close                   │",
		"╰─────────────────────────────────────────────────────╯",
	}

	return lipgloss.NewStyle().
		Width(v.width).
		Height(v.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(helpContent, "\n"))
}

// Title returns the view title.
func (v *MainView) Title() string {
	return "Beauty Gallery"
}

// Focused always returns true; the main view owns the screen.
func (v *MainView) Focused() bool {
	return true
}

// Focus is a no-op.
func (v *MainView) Focus() {}

// Blur is a no-op.
func (v *MainView) Blur() {}

// SetSize sets the view dimensions, reserving two lines for the bars.
func (v *MainView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.pages.SetSize(width, max(height-2, 1))
}

// Width returns the view width.
func (v *MainView) Width() int {
	return v.width
}

// Height returns the view height.
func (v *MainView) Height() int {
	return v.height
}

// Page returns the index of the visible page.
func (v *MainView) Page() int {
	return v.pages.Index()
}

// Viewer returns the viewer page.
func (v *MainView) Viewer() *Viewer {
	return v.viewer
}

// Favorites returns the favorites page.
func (v *MainView) Favorites() *FavoritesView {
	return v.favorites
}

// ShowingHelp returns whether the help overlay is visible.
func (v *MainView) ShowingHelp() bool {
	return v.showHelp
}

// FavoriteCount returns the favorites count shown in the status bar.
func (v *MainView) FavoriteCount() int {
	return v.favCount
}

// Notification returns the current notification text.
func (v *MainView) Notification() string {
	return v.notice.Text
}
