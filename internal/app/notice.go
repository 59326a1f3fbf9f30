package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/artpar/gallery/internal/download"
)

// Level classifies a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a short, transient message for the user. Failures in user
// actions end up here instead of being returned.
type Notice struct {
	Level Level
	Text  string
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Level == LevelError
}

// ToggleFavorite flips membership of url and describes the outcome.
func (a *App) ToggleFavorite(url string) Notice {
	if url == "" {
		return Notice{Level: LevelError, Text: "No image to favorite"}
	}
	if a.favorites.Toggle(url) {
		return Notice{Level: LevelSuccess, Text: "Added to favorites"}
	}
	return Notice{Level: LevelInfo, Text: "Removed from favorites"}
}

// RemoveFavorite removes url from the favorites.
func (a *App) RemoveFavorite(url string) Notice {
	a.favorites.Remove(url)
	return Notice{Level: LevelInfo, Text: "Removed from favorites"}
}

// ClearFavorites removes every favorite.
func (a *App) ClearFavorites() Notice {
	a.favorites.Clear()
	return Notice{Level: LevelInfo, Text: "Favorites cleared"}
}

// Download saves url to the download directory. The returned path is empty
// when the download failed.
func (a *App) Download(ctx context.Context, url string) (string, Notice) {
	path, err := a.downloader.Download(ctx, url)
	switch {
	case err == nil:
		return path, Notice{Level: LevelSuccess, Text: "Saved " + filepath.Base(path)}
	case errors.Is(err, download.ErrPermissionDenied):
		return "", Notice{Level: LevelError, Text: "Permission to save images was denied"}
	case errors.Is(err, download.ErrInvalidURL):
		return "", Notice{Level: LevelError, Text: "Not a downloadable image"}
	case errors.Is(err, context.Canceled):
		return "", Notice{Level: LevelInfo, Text: "Download cancelled"}
	default:
		a.log.Error("download failed", "url", url, "error", err)
		return "", Notice{Level: LevelError, Text: "Download failed"}
	}
}
