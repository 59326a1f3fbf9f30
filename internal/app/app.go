package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/artpar/gallery/internal/config"
	"github.com/artpar/gallery/internal/download"
	"github.com/artpar/gallery/internal/favorites"
	"github.com/artpar/gallery/internal/feed"
	"github.com/artpar/gallery/internal/kv"
	"github.com/artpar/gallery/internal/kv/filesystem"
	"github.com/artpar/gallery/internal/kv/sqlite"
	"github.com/artpar/gallery/internal/logging"
)

// DatabaseFile is the SQLite file inside the data directory.
const DatabaseFile = "gallery.db"

// App is the main application container. It owns one instance of each store
// and is passed explicitly to the TUI and CLI.
type App struct {
	config     config.Config
	storage    kv.Store
	log        logging.Logger
	feed       *feed.Sequencer
	favorites  *favorites.Store
	downloader *download.Downloader
	feedOpts   []feed.Option
	dlOpts     []download.Option
}

// Option is a function that configures the App.
type Option func(*App)

// WithStorage uses store instead of the backend named in the config.
func WithStorage(store kv.Store) Option {
	return func(a *App) {
		a.storage = store
	}
}

// WithLogger sets the logger instead of opening the log file.
func WithLogger(log logging.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithFeedOptions passes options to the sequencer.
func WithFeedOptions(opts ...feed.Option) Option {
	return func(a *App) {
		a.feedOpts = append(a.feedOpts, opts...)
	}
}

// WithDownloadOptions passes options to the downloader, after the ones
// derived from the config.
func WithDownloadOptions(opts ...download.Option) Option {
	return func(a *App) {
		a.dlOpts = append(a.dlOpts, opts...)
	}
}

// Open builds the application from cfg and loads persisted favorites. A
// favorites load failure is logged and the app starts with an empty set.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	a := &App{config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		log, err := logging.Open(logging.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Dir:    cfg.LogDir(),
		})
		if err != nil {
			return nil, err
		}
		a.log = log
	}

	if a.storage == nil {
		store, err := openStorage(cfg)
		if err != nil {
			a.log.Close()
			return nil, err
		}
		a.storage = store
	}

	pool := cfg.Images
	if len(pool) == 0 {
		pool = feed.DefaultPool()
	}
	a.feed = feed.New(pool, a.feedOpts...)

	favOpts := []favorites.Option{favorites.WithLogger(a.log.With("component", "favorites"))}
	if cfg.FavoritesKey != "" {
		favOpts = append(favOpts, favorites.WithKey(cfg.FavoritesKey))
	}
	a.favorites = favorites.NewStore(a.storage, favOpts...)
	if err := a.favorites.Load(ctx); err != nil {
		a.log.Warn("favorites not restored", "error", err)
	}

	dlOpts := []download.Option{
		download.WithDir(cfg.DownloadPath()),
		download.WithTimeout(cfg.DownloadTimeout),
		download.WithLogger(a.log.With("component", "download")),
	}
	if cfg.MediaScanCommand != "" {
		dlOpts = append(dlOpts, download.WithScanner(download.CommandScanner{Command: cfg.MediaScanCommand}))
	}
	a.downloader = download.New(append(dlOpts, a.dlOpts...)...)

	a.log.Info("gallery started", "storage", cfg.Storage, "images", len(pool), "favorites", a.favorites.Count())
	return a, nil
}

// openStorage creates the kv backend named by cfg.Storage.
func openStorage(cfg config.Config) (kv.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return kv.NewMemory(), nil
	case config.StorageFile:
		return filesystem.New(filepath.Join(cfg.DataPath(), "kv"))
	case config.StorageSQLite, "":
		if err := os.MkdirAll(cfg.DataPath(), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return sqlite.New(filepath.Join(cfg.DataPath(), DatabaseFile))
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage)
	}
}

// Close flushes pending favorites writes and releases storage and logs.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.favorites.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.storage.Close(); err != nil {
		errs = append(errs, err)
	}
	a.log.Info("gallery stopped")
	if err := a.log.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Config returns the application configuration.
func (a *App) Config() config.Config {
	return a.config
}

// Feed returns the image sequencer.
func (a *App) Feed() *feed.Sequencer {
	return a.feed
}

// Favorites returns the favorites store.
func (a *App) Favorites() *favorites.Store {
	return a.favorites
}

// Downloader returns the image downloader.
func (a *App) Downloader() *download.Downloader {
	return a.downloader
}

// Logger returns the application logger.
func (a *App) Logger() logging.Logger {
	return a.log
}
