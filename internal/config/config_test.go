package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "~/.gallery", cfg.DataDir)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, 60*time.Second, cfg.DownloadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("reads yaml over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /var/lib/gallery
storage: FILE
download_timeout: 15s
media_scan_command: termux-media-scan
images:
  - https://example.com/a.jpg
  - https://example.com/b.jpg
log:
  level: debug
`), 0644))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "/var/lib/gallery", cfg.DataDir)
		assert.Equal(t, StorageFile, cfg.Storage)
		assert.Equal(t, 15*time.Second, cfg.DownloadTimeout)
		assert.Equal(t, "termux-media-scan", cfg.MediaScanCommand)
		assert.Equal(t, []string{"https://example.com/a.jpg", "https://example.com/b.jpg"}, cfg.Images)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("storage: file\n"), 0644))
		t.Setenv("GALLERY_STORAGE", "memory")
		t.Setenv("GALLERY_DOWNLOAD_DIR", "/tmp/pics")
		t.Setenv("GALLERY_DOWNLOAD_TIMEOUT", "5s")
		t.Setenv("GALLERY_LOG_LEVEL", "warn")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, StorageMemory, cfg.Storage)
		assert.Equal(t, "/tmp/pics", cfg.DownloadDir)
		assert.Equal(t, 5*time.Second, cfg.DownloadTimeout)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("malformed timeout override", func(t *testing.T) {
		t.Setenv("GALLERY_DOWNLOAD_TIMEOUT", "5 seconds")

		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "GALLERY_DOWNLOAD_TIMEOUT")
	})

	t.Run("empty image entry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("images:\n  - https://example.com/a.jpg\n  - \"\"\n"), 0644))

		_, err := Load(path)
		assert.ErrorContains(t, err, "images[1]")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("images: [unterminated"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid storage", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("storage: redis\n"), 0644))

		_, err := Load(path)
		assert.ErrorContains(t, err, "invalid storage")
	})
}

func TestValidate(t *testing.T) {
	t.Run("empty storage defaults to sqlite", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Storage = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, StorageSQLite, cfg.Storage)
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DownloadTimeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("blank image", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Images = []string{"https://example.com/a.jpg", "  "}
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty data dir", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Images = []string{"https://example.com/a.jpg"}
	cfg.DownloadTimeout = 90 * time.Second

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".gallery"), ExpandHome("~/.gallery"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "~other/x", ExpandHome("~other/x"))
}

func TestConfigPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	assert.Equal(t, "/data", cfg.DataPath())
	assert.Equal(t, "/data/logs", cfg.LogDir())
	assert.Equal(t, "", cfg.DownloadPath())
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
}
