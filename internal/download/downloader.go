package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/artpar/gallery/internal/logging"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultTimeout bounds a single download, including the body transfer.
	DefaultTimeout = 60 * time.Second
	// DefaultExt is used when the URL carries no usable extension.
	DefaultExt = "jpg"
	// FilePrefix starts every generated file name.
	FilePrefix = "beauty_"
	// AlbumDir is the folder created under the pictures directory.
	AlbumDir = "BeautyGallery"
)

// Downloader saves remote images into a local directory.
type Downloader struct {
	httpClient *http.Client
	dir        string
	permission Permission
	scanner    MediaScanner
	now        func() time.Time
	log        logging.Logger
}

// Option is a function that configures the Downloader.
type Option func(*Downloader)

// New creates a downloader with the given options.
func New(opts ...Option) *Downloader {
	jar, _ := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})

	d := &Downloader{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		dir:        DefaultDir(),
		permission: WritableDir{},
		scanner:    NopScanner{},
		now:        time.Now,
		log:        logging.NewNop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// WithTimeout sets the per-download timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Downloader) {
		d.httpClient.Timeout = timeout
	}
}

// WithTransport sets a custom HTTP transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(d *Downloader) {
		d.httpClient.Transport = transport
	}
}

// WithDir sets the directory images are saved into.
func WithDir(dir string) Option {
	return func(d *Downloader) {
		if dir != "" {
			d.dir = dir
		}
	}
}

// WithPermission sets the permission collaborator.
func WithPermission(p Permission) Option {
	return func(d *Downloader) {
		d.permission = p
	}
}

// WithScanner sets the media scanner run after a successful download.
func WithScanner(s MediaScanner) Option {
	return func(d *Downloader) {
		d.scanner = s
	}
}

// WithClock sets the time source used for file names.
func WithClock(now func() time.Time) Option {
	return func(d *Downloader) {
		d.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(log logging.Logger) Option {
	return func(d *Downloader) {
		d.log = log
	}
}

// DefaultDir returns ~/Pictures/BeautyGallery, or a temp directory when the
// home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AlbumDir)
	}
	return filepath.Join(home, "Pictures", AlbumDir)
}

// Dir returns the directory images are saved into.
func (d *Downloader) Dir() string {
	return d.dir
}

// Download fetches rawURL and returns the path of the saved file. Nothing is
// left on disk when it fails.
func (d *Downloader) Download(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	granted, err := d.permission.Request(ctx, d.dir)
	if err != nil {
		return "", fmt.Errorf("permission request failed: %w", err)
	}
	if !granted {
		return "", ErrPermissionDenied
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	dest, err := d.fetch(ctx, rawURL)
	if err != nil {
		d.log.Error("download failed", "url", rawURL, "error", err)
		return "", err
	}

	if err := d.scanner.Scan(ctx, dest); err != nil {
		d.log.Warn("media scan failed", "path", dest, "error", err)
	}

	d.log.Info("downloaded image", "url", rawURL, "path", dest)
	return dest, nil
}

// fetch streams the body into a temp file and moves it into place.
func (d *Downloader) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: rawURL, StatusCode: resp.StatusCode}
	}

	tmp, err := os.CreateTemp(d.dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", &Error{URL: rawURL, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	dest, err := d.claim(FileName(rawURL, d.now()))
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		os.Remove(dest)
		return "", fmt.Errorf("failed to move image into place: %w", err)
	}

	return dest, nil
}

// claim reserves a free path for name inside the download directory,
// appending _1, _2, ... on collision.
func (d *Downloader) claim(name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 0; i < 1000; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		p := filepath.Join(d.dir, candidate)
		f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create image file: %w", err)
		}
		f.Close()
		return p, nil
	}
	return "", fmt.Errorf("no free file name for %s", name)
}

// FileName returns beauty_<unix-millis>.<ext> for rawURL.
func FileName(rawURL string, at time.Time) string {
	return fmt.Sprintf("%s%d.%s", FilePrefix, at.UnixMilli(), Extension(rawURL))
}

// Extension returns the lowercased file extension of the URL path, or
// DefaultExt when the path has none or it does not look like one.
func Extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DefaultExt
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" || len(ext) > 5 {
		return DefaultExt
	}
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return DefaultExt
		}
	}
	return strings.ToLower(ext)
}

// Exists reports whether a downloaded file is still present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Delete removes a downloaded file. It reports false when there was nothing
// to delete.
func Delete(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return true, nil
}
