package views

import (
	"fmt"
	"strings"

	"github.com/artpar/gallery/internal/app"
	"github.com/artpar/gallery/internal/favorites"
	"github.com/artpar/gallery/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FavoritesView lists saved images, newest first, with a detail pager.
type FavoritesView struct {
	tui.BaseComponent
	app          *app.App
	styles       tui.Styles
	cursor       int
	offset       int
	detail       bool
	confirmClear bool
}

// NewFavoritesView creates the favorites page.
func NewFavoritesView(a *app.App) *FavoritesView {
	return &FavoritesView{
		BaseComponent: tui.NewBaseComponent("Favorites"),
		app:           a,
		styles:        tui.DefaultStyles(),
	}
}

// Init initializes the view.
func (v *FavoritesView) Init() tea.Cmd {
	return nil
}

// Focus clamps the cursor, since the set may have changed on another page.
func (v *FavoritesView) Focus() {
	v.BaseComponent.Focus()
	v.clamp(len(v.app.Favorites().List()))
}

// Blur closes any open prompt or detail page.
func (v *FavoritesView) Blur() {
	v.BaseComponent.Blur()
	v.confirmClear = false
	v.detail = false
}

// Update handles messages.
func (v *FavoritesView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.confirmClear {
		v.confirmClear = false
		if string(keyMsg.Runes) == "y" {
			v.cursor, v.offset, v.detail = 0, 0, false
			return v, noticeCmd(v.app.ClearFavorites())
		}
		return v, tui.Notify("Clear cancelled", false)
	}

	list := v.app.Favorites().List()
	v.clamp(len(list))
	if v.detail {
		return v.handleDetailKey(keyMsg, list)
	}
	return v.handleListKey(keyMsg, list)
}

func (v *FavoritesView) handleListKey(msg tea.KeyMsg, list []favorites.Record) (tui.Component, tea.Cmd) {
	switch msg.Type {
	case tea.KeyDown:
		v.move(1, len(list))
		return v, nil
	case tea.KeyUp:
		v.move(-1, len(list))
		return v, nil
	case tea.KeyEnter:
		if len(list) > 0 {
			v.detail = true
		}
		return v, nil
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "j":
			v.move(1, len(list))
		case "k":
			v.move(-1, len(list))
		case "g":
			v.cursor = 0
		case "G":
			v.move(len(list), len(list))
		case "x":
			return v, v.remove(list)
		case "d":
			if len(list) > 0 {
				return v, downloadCmd(v.app, list[v.cursor].URL)
			}
		case "y":
			if len(list) > 0 {
				url := list[v.cursor].URL
				return v, func() tea.Msg { return tui.CopyMsg{Content: url} }
			}
		case "C":
			if len(list) > 0 {
				v.confirmClear = true
			}
		}
	}
	return v, nil
}

func (v *FavoritesView) handleDetailKey(msg tea.KeyMsg, list []favorites.Record) (tui.Component, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.detail = false
		return v, nil
	case tea.KeyRight:
		v.move(1, len(list))
		return v, nil
	case tea.KeyLeft:
		v.move(-1, len(list))
		return v, nil
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "l":
			v.move(1, len(list))
		case "h":
			v.move(-1, len(list))
		case "x":
			return v, v.remove(list)
		case "d":
			return v, downloadCmd(v.app, list[v.cursor].URL)
		case "y":
			url := list[v.cursor].URL
			return v, func() tea.Msg { return tui.CopyMsg{Content: url} }
		}
	}
	return v, nil
}

// remove deletes the selected record. The detail page closes once the list
// is empty.
func (v *FavoritesView) remove(list []favorites.Record) tea.Cmd {
	if len(list) == 0 {
		return nil
	}
	n := v.app.RemoveFavorite(list[v.cursor].URL)
	v.clamp(len(list) - 1)
	if len(list) == 1 {
		v.detail = false
	}
	return noticeCmd(n)
}

func (v *FavoritesView) move(delta, n int) {
	v.cursor += delta
	v.clamp(n)
}

func (v *FavoritesView) clamp(n int) {
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	if n == 0 {
		v.detail = false
	}
}

// View renders the list or the detail page.
func (v *FavoritesView) View() string {
	if v.Width() == 0 || v.Height() == 0 {
		return ""
	}

	list := v.app.Favorites().List()
	title := fmt.Sprintf("%s (%d)", v.Title(), len(list))
	var body string
	switch {
	case len(list) == 0:
		body = v.styles.Muted.Render("No favorites yet. Press f on an image to save it.")
	case v.detail:
		body = v.renderDetail(list)
	default:
		body = v.renderList(list)
	}
	if v.confirmClear {
		body += "\n\n" + v.styles.Error.Render(fmt.Sprintf("Remove all %d favorites? (y/n)", len(list)))
	}

	return lipgloss.NewStyle().
		Width(v.Width()).
		Height(v.Height()).
		Render(tui.RenderTitle(title, v.Width(), v.Focused()) + "\n\n" + body)
}

func (v *FavoritesView) renderList(list []favorites.Record) string {
	rows := v.Height() - 4
	if rows < 1 {
		rows = 1
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+rows {
		v.offset = v.cursor - rows + 1
	}

	end := min(v.offset+rows, len(list))
	lines := make([]string, 0, end-v.offset)
	for i := v.offset; i < end; i++ {
		r := list[i]
		added := r.AddedAt.Local().Format("Jan 02 15:04")
		line := fmt.Sprintf("%s  %s", added, tui.Truncate(r.URL, v.Width()-16))
		if i == v.cursor {
			line = v.styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (v *FavoritesView) renderDetail(list []favorites.Record) string {
	r := list[v.cursor]
	return strings.Join([]string{
		v.styles.Muted.Render(fmt.Sprintf("%d/%d", v.cursor+1, len(list))),
		"",
		v.styles.Favorite.Render("♥") + " " + v.styles.Title.Render(tui.Truncate(r.URL, v.Width()-2)),
		"",
		v.styles.Muted.Render("added " + r.AddedAt.Local().Format("2006-01-02 15:04:05")),
		v.styles.Muted.Render("id    " + r.ID),
	}, "\n")
}

// Hints returns the key bindings for the current mode.
func (v *FavoritesView) Hints() []tui.Hint {
	switch {
	case v.confirmClear:
		return []tui.Hint{{Key: "y", Desc: "Confirm"}, {Key: "any", Desc: "Cancel"}}
	case v.detail:
		return []tui.Hint{
			{Key: "h/l", Desc: "Prev/Next"},
			{Key: "x", Desc: "Remove"},
			{Key: "d", Desc: "Download"},
			{Key: "Esc", Desc: "Back"},
		}
	default:
		return []tui.Hint{
			{Key: "j/k", Desc: "Navigate"},
			{Key: "Enter", Desc: "Open"},
			{Key: "x", Desc: "Remove"},
			{Key: "d", Desc: "Download"},
			{Key: "C", Desc: "Clear"},
		}
	}
}

// Capturing reports whether a confirmation prompt is open.
func (v *FavoritesView) Capturing() bool {
	return v.confirmClear
}

// Cursor returns the index of the selected record in List order.
func (v *FavoritesView) Cursor() int {
	return v.cursor
}

// ShowingDetail reports whether the detail page is open.
func (v *FavoritesView) ShowingDetail() bool {
	return v.detail
}

// ConfirmingClear reports whether the clear prompt is open.
func (v *FavoritesView) ConfirmingClear() bool {
	return v.confirmClear
}
