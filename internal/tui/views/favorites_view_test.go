package views

import (
	"testing"

	"github.com/artpar/gallery/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFavoritesView seeds the images in order, so List() returns them
// newest first.
func newTestFavoritesView(t *testing.T, urls ...string) *FavoritesView {
	t.Helper()
	a := newTestApp(t)
	for _, u := range urls {
		a.Favorites().Add(u)
	}
	v := NewFavoritesView(a)
	v.SetSize(80, 20)
	v.Focus()
	return v
}

func selectedURL(v *FavoritesView) string {
	return v.app.Favorites().List()[v.Cursor()].URL
}

func TestFavoritesView_Navigation(t *testing.T) {
	t.Run("moves and clamps", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)

		v.Update(keyRunes("k"))
		assert.Equal(t, 0, v.Cursor())

		v.Update(keyRunes("j"))
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
		v.Update(keyRunes("j"))
		assert.Equal(t, 2, v.Cursor())

		v.Update(tea.KeyMsg{Type: tea.KeyUp})
		assert.Equal(t, 1, v.Cursor())
	})

	t.Run("g and G jump", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)
		v.Update(keyRunes("G"))
		assert.Equal(t, 2, v.Cursor())
		v.Update(keyRunes("g"))
		assert.Equal(t, 0, v.Cursor())
	})

	t.Run("focus clamps after external removal", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)
		v.Update(keyRunes("G"))
		v.Blur()
		v.app.Favorites().Clear()
		v.app.Favorites().Add(testImages[0])

		v.Focus()

		assert.Equal(t, 0, v.Cursor())
	})
}

func TestFavoritesView_Remove(t *testing.T) {
	t.Run("removes selected and clamps cursor", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)
		v.Update(keyRunes("G"))
		target := selectedURL(v)

		_, cmd := v.Update(keyRunes("x"))

		require.NotNil(t, cmd)
		assert.Equal(t, tui.NoticeMsg{Text: "Removed from favorites"}, cmd())
		assert.False(t, v.app.Favorites().IsFavorite(target))
		assert.Equal(t, 1, v.Cursor())
	})

	t.Run("empty list ignores remove", func(t *testing.T) {
		v := newTestFavoritesView(t)
		_, cmd := v.Update(keyRunes("x"))
		assert.Nil(t, cmd)
		assert.Contains(t, v.View(), "No favorites yet")
	})
}

func TestFavoritesView_Detail(t *testing.T) {
	t.Run("enter opens and esc closes", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)

		v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.True(t, v.ShowingDetail())
		assert.Contains(t, v.View(), "1/3")

		v.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, v.ShowingDetail())
	})

	t.Run("enter on empty list does nothing", func(t *testing.T) {
		v := newTestFavoritesView(t)
		v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, v.ShowingDetail())
	})

	t.Run("pages through records", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)
		v.Update(tea.KeyMsg{Type: tea.KeyEnter})

		v.Update(keyRunes("l"))
		v.Update(tea.KeyMsg{Type: tea.KeyRight})
		v.Update(keyRunes("l"))
		assert.Equal(t, 2, v.Cursor())

		v.Update(keyRunes("h"))
		assert.Equal(t, 1, v.Cursor())
		assert.Contains(t, v.View(), selectedURL(v))
	})

	t.Run("removing the last record closes detail", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages[0])
		v.Update(tea.KeyMsg{Type: tea.KeyEnter})

		v.Update(keyRunes("x"))

		assert.False(t, v.ShowingDetail())
		assert.Zero(t, v.app.Favorites().Count())
	})

	t.Run("removing keeps detail open on a neighbour", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)
		v.Update(tea.KeyMsg{Type: tea.KeyEnter})

		v.Update(keyRunes("x"))

		assert.True(t, v.ShowingDetail())
		assert.Equal(t, 2, v.app.Favorites().Count())
	})

	t.Run("blur closes detail", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)
		v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		v.Blur()
		assert.False(t, v.ShowingDetail())
	})
}

func TestFavoritesView_Clear(t *testing.T) {
	t.Run("y confirms", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)

		v.Update(keyRunes("C"))
		assert.True(t, v.Capturing())
		assert.Contains(t, v.View(), "Remove all 3 favorites?")

		_, cmd := v.Update(keyRunes("y"))

		require.NotNil(t, cmd)
		assert.Equal(t, tui.NoticeMsg{Text: "Favorites cleared"}, cmd())
		assert.Zero(t, v.app.Favorites().Count())
		assert.False(t, v.Capturing())
	})

	t.Run("any other key cancels", func(t *testing.T) {
		v := newTestFavoritesView(t, testImages...)
		v.Update(keyRunes("C"))
		v.Update(keyRunes("n"))

		assert.False(t, v.ConfirmingClear())
		assert.Equal(t, 3, v.app.Favorites().Count())
	})

	t.Run("no prompt on empty list", func(t *testing.T) {
		v := newTestFavoritesView(t)
		v.Update(keyRunes("C"))
		assert.False(t, v.ConfirmingClear())
	})
}

func TestFavoritesView_CopyAndDownload(t *testing.T) {
	v := newTestFavoritesView(t, testImages...)

	_, cmd := v.Update(keyRunes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, tui.CopyMsg{Content: selectedURL(v)}, cmd())

	_, cmd = v.Update(keyRunes("d"))
	assert.NotNil(t, cmd)
}

func TestFavoritesView_View(t *testing.T) {
	v := newTestFavoritesView(t, testImages...)
	out := v.View()

	assert.Contains(t, out, "Favorites (3)")
	for _, u := range testImages {
		assert.Contains(t, out, u)
	}
	assert.NotEmpty(t, v.Hints())
}
