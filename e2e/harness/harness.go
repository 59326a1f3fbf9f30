// Package harness provides E2E testing utilities for Gallery.
package harness

import (
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/artpar/gallery/e2e/testserver"
	"github.com/artpar/gallery/internal/config"
)

// E2EHarness is the main test orchestrator. It owns an image server, a data
// directory and a config file pointing at both.
type E2EHarness struct {
	t       *testing.T
	server  *testserver.Server
	tmpDir  string
	config  config.Config
	images  []string
	timeout time.Duration
}

// Config configures the harness.
type Config struct {
	ServerHandlers map[string]http.HandlerFunc
	Images         int           // Default: 5
	Storage        string        // Default: sqlite
	Timeout        time.Duration // Default: 5 seconds
}

// New creates a new E2E harness.
func New(t *testing.T, cfg Config) *E2EHarness {
	t.Helper()

	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Images == 0 {
		cfg.Images = 5
	}
	if cfg.Storage == "" {
		cfg.Storage = config.StorageSQLite
	}

	h := &E2EHarness{
		t:       t,
		server:  testserver.New(cfg.ServerHandlers),
		tmpDir:  t.TempDir(),
		timeout: cfg.Timeout,
	}
	t.Cleanup(h.server.Close)

	for i := 1; i <= cfg.Images; i++ {
		h.images = append(h.images, fmt.Sprintf("%s/img/%d.jpg", h.server.URL, i))
	}

	h.config = config.DefaultConfig()
	h.config.DataDir = filepath.Join(h.tmpDir, "data")
	h.config.DownloadDir = filepath.Join(h.tmpDir, "album")
	h.config.DownloadTimeout = cfg.Timeout
	h.config.Storage = cfg.Storage
	h.config.Images = h.images
	h.config.Log.Level = "debug"
	if err := config.Save(h.ConfigPath(), h.config); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return h
}

// ServerURL returns the image server URL.
func (h *E2EHarness) ServerURL() string {
	return h.server.URL
}

// Server returns the image server.
func (h *E2EHarness) Server() *testserver.Server {
	return h.server
}

// Images returns the image pool written to the config.
func (h *E2EHarness) Images() []string {
	return h.images
}

// Config returns the configuration written for this harness.
func (h *E2EHarness) Config() config.Config {
	return h.config
}

// ConfigPath returns the config file path.
func (h *E2EHarness) ConfigPath() string {
	return filepath.Join(h.tmpDir, "config.yaml")
}

// DownloadDir returns where downloads land.
func (h *E2EHarness) DownloadDir() string {
	return h.config.DownloadDir
}

// TmpDir returns the temporary directory path.
func (h *E2EHarness) TmpDir() string {
	return h.tmpDir
}

// Timeout returns the configured timeout.
func (h *E2EHarness) Timeout() time.Duration {
	return h.timeout
}

// CLI returns a CLI runner for this harness.
func (h *E2EHarness) CLI() *CLIRunner {
	return &CLIRunner{harness: h}
}

// TUI returns a TUI runner for this harness.
func (h *E2EHarness) TUI() *TUIRunner {
	return &TUIRunner{harness: h}
}
