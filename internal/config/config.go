// Package config loads gallery settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	DataDir          string        `yaml:"data_dir"`
	Storage          string        `yaml:"storage"`
	FavoritesKey     string        `yaml:"favorites_key,omitempty"`
	DownloadDir      string        `yaml:"download_dir,omitempty"`
	DownloadTimeout  time.Duration `yaml:"download_timeout"`
	MediaScanCommand string        `yaml:"media_scan_command,omitempty"`
	Images           []string      `yaml:"images,omitempty"`
	Log              LogConfig     `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:         "~/.gallery",
		Storage:         StorageSQLite,
		DownloadTimeout: 60 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.gallery/config.yaml.
func DefaultPath() string {
	return filepath.Join(ExpandHome("~/.gallery"), "config.yaml")
}

// Load reads path over the defaults and applies GALLERY_* overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg Config) error {
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("GALLERY_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getenv("GALLERY_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := getenv("GALLERY_DOWNLOAD_DIR"); v != "" {
		c.DownloadDir = v
	}
	if v := getenv("GALLERY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("GALLERY_DOWNLOAD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GALLERY_DOWNLOAD_TIMEOUT %q: %w", v, err)
		}
		c.DownloadTimeout = d
	}
	return nil
}

// Validate normalizes and checks the configuration.
func (c *Config) Validate() error {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	switch c.Storage {
	case StorageSQLite, StorageFile, StorageMemory:
	case "":
		c.Storage = StorageSQLite
	default:
		return fmt.Errorf("invalid storage %q: must be one of sqlite, file, memory", c.Storage)
	}
	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("invalid download_timeout %s: must be positive", c.DownloadTimeout)
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	for i, img := range c.Images {
		if strings.TrimSpace(img) == "" {
			return fmt.Errorf("invalid images[%d]: must not be empty", i)
		}
	}
	return nil
}

// DataPath returns the expanded data directory.
func (c Config) DataPath() string {
	return ExpandHome(c.DataDir)
}

// DownloadPath returns the expanded download directory, or "" for the
// downloader's default.
func (c Config) DownloadPath() string {
	return ExpandHome(c.DownloadDir)
}

// LogDir returns where log files are written.
func (c Config) LogDir() string {
	return filepath.Join(c.DataPath(), "logs")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
