package harness

import (
	"github.com/artpar/gallery/internal/tui/views"
)

// State represents a snapshot of the entire TUI state for verification.
type State struct {
	MainView  *MainViewState
	Viewer    *ViewerState
	Favorites *FavoritesState
}

// MainViewState captures the main view state.
type MainViewState struct {
	Page         string // "viewer", "favorites"
	ShowingHelp  bool
	Notification string
	Quitted      bool
}

// ViewerState captures the feed position.
type ViewerState struct {
	Current    string
	Next       string
	Prev       string
	Position   int
	HistoryLen int
	IsFavorite bool
}

// FavoritesState captures the favorites page and store.
type FavoritesState struct {
	URLs            []string // List order, newest first
	Cursor          int
	ShowingDetail   bool
	ConfirmingClear bool
}

// CaptureState takes a snapshot of the session.
func (s *TUISession) CaptureState() *State {
	page := "viewer"
	if s.model.Page() == views.PageFavorites {
		page = "favorites"
	}

	sq := s.app.Feed()
	w := sq.Preload()
	favs := s.app.Favorites()

	var urls []string
	for _, r := range favs.List() {
		urls = append(urls, r.URL)
	}

	fv := s.model.Favorites()
	return &State{
		MainView: &MainViewState{
			Page:         page,
			ShowingHelp:  s.model.ShowingHelp(),
			Notification: s.model.Notification(),
			Quitted:      s.quit,
		},
		Viewer: &ViewerState{
			Current:    w.Current,
			Next:       w.Next,
			Prev:       w.Prev,
			Position:   sq.Position(),
			HistoryLen: sq.Len(),
			IsFavorite: favs.IsFavorite(w.Current),
		},
		Favorites: &FavoritesState{
			URLs:            urls,
			Cursor:          fv.Cursor(),
			ShowingDetail:   fv.ShowingDetail(),
			ConfirmingClear: fv.ConfirmingClear(),
		},
	}
}
