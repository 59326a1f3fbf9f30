package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Component is the interface for all TUI components.
type Component interface {
	// Init initializes the component.
	Init() tea.Cmd

	// Update handles messages and returns the updated component.
	Update(msg tea.Msg) (Component, tea.Cmd)

	// View renders the component.
	View() string

	// Title returns the component title.
	Title() string

	// Focused returns true if the component is focused.
	Focused() bool

	// Focus sets the component as focused.
	Focus()

	// Blur removes focus from the component.
	Blur()

	// SetSize sets the component dimensions.
	SetSize(width, height int)

	// Width returns the component width.
	Width() int

	// Height returns the component height.
	Height() int
}

// Hint is a key binding shown in the help bar.
type Hint struct {
	Key  string
	Desc string
}

// Page is a full-screen component the user switches between with Tab.
type Page interface {
	Component

	// Hints returns the keys the page currently responds to.
	Hints() []Hint

	// Capturing reports whether the page wants every key, for example while
	// a confirmation prompt is open.
	Capturing() bool
}

// Messages

// NoticeMsg asks the enclosing view to show a transient notification.
type NoticeMsg struct {
	Text  string
	Error bool
}

// CopyMsg asks the enclosing view to put Content on the clipboard.
type CopyMsg struct {
	Content string
}

// ClearNoticeMsg clears the notification with the given sequence number.
// Older ticks are ignored so a fresh notice keeps its full lifetime.
type ClearNoticeMsg struct {
	Seq int
}

// Notify returns a command that emits a NoticeMsg.
func Notify(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Text: text, Error: isError}
	}
}

// BaseComponent provides common functionality for components.
type BaseComponent struct {
	title   string
	focused bool
	width   int
	height  int
}

// NewBaseComponent creates a new base component.
func NewBaseComponent(title string) BaseComponent {
	return BaseComponent{title: title}
}

// Title returns the component title.
func (c *BaseComponent) Title() string {
	return c.title
}

// Focused returns true if focused.
func (c *BaseComponent) Focused() bool {
	return c.focused
}

// Focus sets the component as focused.
func (c *BaseComponent) Focus() {
	c.focused = true
}

// Blur removes focus.
func (c *BaseComponent) Blur() {
	c.focused = false
}

// SetSize sets dimensions.
func (c *BaseComponent) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Width returns the width.
func (c *BaseComponent) Width() int {
	return c.width
}

// Height returns the height.
func (c *BaseComponent) Height() int {
	return c.height
}

// PageList manages a list of pages with focus cycling.
type PageList struct {
	pages []Page
	index int
}

// NewPageList creates a list with the first page focused.
func NewPageList(pages ...Page) *PageList {
	pl := &PageList{pages: pages, index: -1}
	if len(pages) > 0 {
		pl.setFocus(0)
	}
	return pl
}

// Len returns the number of pages.
func (pl *PageList) Len() int {
	return len(pl.pages)
}

// Get returns a page by index.
func (pl *PageList) Get(index int) Page {
	if index < 0 || index >= len(pl.pages) {
		return nil
	}
	return pl.pages[index]
}

// Index returns the index of the focused page.
func (pl *PageList) Index() int {
	return pl.index
}

// Current returns the focused page.
func (pl *PageList) Current() Page {
	return pl.Get(pl.index)
}

// Next cycles focus to the next page.
func (pl *PageList) Next() {
	if len(pl.pages) == 0 {
		return
	}
	pl.setFocus((pl.index + 1) % len(pl.pages))
}

// Prev cycles focus to the previous page.
func (pl *PageList) Prev() {
	if len(pl.pages) == 0 {
		return
	}
	prev := pl.index - 1
	if prev < 0 {
		prev = len(pl.pages) - 1
	}
	pl.setFocus(prev)
}

// SetIndex focuses a specific page.
func (pl *PageList) SetIndex(index int) {
	if index < 0 || index >= len(pl.pages) {
		return
	}
	pl.setFocus(index)
}

// SetSize sizes every page.
func (pl *PageList) SetSize(width, height int) {
	for _, p := range pl.pages {
		p.SetSize(width, height)
	}
}

func (pl *PageList) setFocus(index int) {
	if cur := pl.Current(); cur != nil {
		cur.Blur()
	}
	pl.index = index
	pl.pages[index].Focus()
}

// Styles holds the shared palette.
type Styles struct {
	Title    lipgloss.Style
	Key      lipgloss.Style
	Desc     lipgloss.Style
	Sep      lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Favorite lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns default styling.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")),
		Key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		Desc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Sep: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("62")).
			Bold(true),
		Favorite: lipgloss.NewStyle().
			Foreground(lipgloss.Color("204")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")).
			Bold(true),
	}
}

// RenderTitle renders a title bar.
func RenderTitle(title string, width int, focused bool) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Bold(true)

	if focused {
		style = style.Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("62"))
	} else {
		style = style.Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238"))
	}

	return style.Render(title)
}

// RenderHints joins key hints for a help bar.
func RenderHints(styles Styles, hints []Hint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, styles.Key.Render(h.Key)+styles.Desc.Render(" "+h.Desc))
	}
	return strings.Join(parts, styles.Sep.Render(" │ "))
}

// Truncate truncates a string to fit within a width.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
