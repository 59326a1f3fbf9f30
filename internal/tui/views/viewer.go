package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/artpar/gallery/internal/app"
	"github.com/artpar/gallery/internal/feed"
	"github.com/artpar/gallery/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Viewer is the home page: one image at a time, swiped with j/k.
type Viewer struct {
	tui.BaseComponent
	app    *app.App
	styles tui.Styles
}

// NewViewer creates the viewer page over the app's feed.
func NewViewer(a *app.App) *Viewer {
	return &Viewer{
		BaseComponent: tui.NewBaseComponent("Gallery"),
		app:           a,
		styles:        tui.DefaultStyles(),
	}
}

// Init initializes the view.
func (v *Viewer) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (v *Viewer) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch keyMsg.Type {
	case tea.KeyDown, tea.KeySpace:
		v.app.Feed().Advance(feed.Next)
		return v, nil
	case tea.KeyUp:
		v.app.Feed().Advance(feed.Prev)
		return v, nil
	case tea.KeyRunes:
		switch string(keyMsg.Runes) {
		case "j", " ":
			v.app.Feed().Advance(feed.Next)
		case "k":
			v.app.Feed().Advance(feed.Prev)
		case "f":
			url, _ := v.app.Feed().Current()
			return v, noticeCmd(v.app.ToggleFavorite(url))
		case "d":
			if url, ok := v.app.Feed().Current(); ok {
				return v, downloadCmd(v.app, url)
			}
		case "y":
			if url, ok := v.app.Feed().Current(); ok {
				return v, func() tea.Msg { return tui.CopyMsg{Content: url} }
			}
		}
	}
	return v, nil
}

// View renders the current image and its neighbours.
func (v *Viewer) View() string {
	if v.Width() == 0 || v.Height() == 0 {
		return ""
	}

	sq := v.app.Feed()
	w := sq.Preload()
	width := v.Width() - 4

	marker := v.styles.Muted.Render("♡")
	if v.app.Favorites().IsFavorite(w.Current) {
		marker = v.styles.Favorite.Render("♥")
	}

	next := w.Next
	if next == "" {
		next = "(new shuffle)"
	}
	prev := w.Prev
	if prev == "" {
		prev = "(start)"
	}

	lines := []string{
		tui.RenderTitle(v.Title(), v.Width(), v.Focused()),
		"",
		v.styles.Muted.Render(fmt.Sprintf("%d/%d", sq.Position()+1, sq.Len())),
		"",
		marker + " " + v.styles.Title.Render(tui.Truncate(w.Current, width-2)),
		"",
		v.styles.Muted.Render("prev  " + tui.Truncate(prev, width-6)),
		v.styles.Muted.Render("next  " + tui.Truncate(next, width-6)),
	}

	return lipgloss.NewStyle().
		Width(v.Width()).
		Height(v.Height()).
		Render(strings.Join(lines, "\n"))
}

// Hints returns the viewer key bindings.
func (v *Viewer) Hints() []tui.Hint {
	return []tui.Hint{
		{Key: "j/k", Desc: "Next/Prev"},
		{Key: "f", Desc: "Favorite"},
		{Key: "d", Desc: "Download"},
		{Key: "y", Desc: "Copy URL"},
	}
}

// Capturing always returns false; the viewer has no modal state.
func (v *Viewer) Capturing() bool {
	return false
}

// noticeCmd turns an app notice into a tui notification.
func noticeCmd(n app.Notice) tea.Cmd {
	return tui.Notify(n.Text, n.IsError())
}

// downloadCmd saves url in the background and reports the outcome.
func downloadCmd(a *app.App, url string) tea.Cmd {
	return tea.Batch(
		tui.Notify("Downloading...", false),
		func() tea.Msg {
			_, n := a.Download(context.Background(), url)
			return tui.NoticeMsg{Text: n.Text, Error: n.IsError()}
		},
	)
}
