package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.UnixMilli(1714564800123)

func fixedClock() time.Time { return fixedTime }

type recordingScanner struct {
	paths []string
	err   error
}

func (s *recordingScanner) Scan(_ context.Context, path string) error {
	s.paths = append(s.paths, path)
	return s.err
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			w.WriteHeader(http.StatusNotFound)
		case "/slow.jpg":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late"))
		default:
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("JPEGDATA"))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestNew(t *testing.T) {
	t.Run("creates downloader with defaults", func(t *testing.T) {
		d := New()
		assert.NotNil(t, d)
		assert.Equal(t, DefaultDir(), d.Dir())
		assert.Equal(t, DefaultTimeout, d.httpClient.Timeout)
		assert.NotNil(t, d.httpClient.Jar)
	})

	t.Run("empty dir keeps the default", func(t *testing.T) {
		assert.Equal(t, DefaultDir(), New(WithDir("")).Dir())
	})

	t.Run("default dir is the album folder", func(t *testing.T) {
		assert.Equal(t, AlbumDir, filepath.Base(DefaultDir()))
	})
}

func TestDownloader_Download(t *testing.T) {
	t.Run("saves image with generated name", func(t *testing.T) {
		server := imageServer(t)
		dir := filepath.Join(t.TempDir(), "album")
		scanner := &recordingScanner{}
		d := New(WithDir(dir), WithClock(fixedClock), WithPermission(Granted), WithScanner(scanner))

		path, err := d.Download(context.Background(), server.URL+"/photos/cat.PNG?size=large")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "beauty_1714564800123.png"), path)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "JPEGDATA", string(content))
		assert.Equal(t, []string{path}, scanner.paths)
		assert.Equal(t, []string{"beauty_1714564800123.png"}, listDir(t, dir))
	})

	t.Run("name collisions get a suffix", func(t *testing.T) {
		server := imageServer(t)
		dir := t.TempDir()
		d := New(WithDir(dir), WithClock(fixedClock), WithPermission(Granted))

		first, err := d.Download(context.Background(), server.URL+"/a")
		require.NoError(t, err)
		second, err := d.Download(context.Background(), server.URL+"/a")
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "beauty_1714564800123.jpg"), first)
		assert.Equal(t, filepath.Join(dir, "beauty_1714564800123_1.jpg"), second)
	})

	t.Run("permission denied is distinct", func(t *testing.T) {
		dir := t.TempDir()
		d := New(WithDir(dir), WithPermission(Denied))

		_, err := d.Download(context.Background(), "https://example.com/a.jpg")

		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.False(t, errors.Is(err, ErrDownload))
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := imageServer(t)
		dir := t.TempDir()
		d := New(WithDir(dir), WithPermission(Granted))

		_, err := d.Download(context.Background(), server.URL+"/missing.png")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDownload)
		var derr *Error
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, http.StatusNotFound, derr.StatusCode)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("timeout leaves nothing behind", func(t *testing.T) {
		server := imageServer(t)
		dir := t.TempDir()
		d := New(WithDir(dir), WithPermission(Granted), WithTimeout(20*time.Millisecond))

		_, err := d.Download(context.Background(), server.URL+"/slow.jpg")

		assert.ErrorIs(t, err, ErrDownload)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := imageServer(t)
		d := New(WithDir(t.TempDir()), WithPermission(Granted))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := d.Download(ctx, server.URL+"/a.jpg")

		assert.ErrorIs(t, err, ErrDownload)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid url", func(t *testing.T) {
		d := New(WithDir(t.TempDir()), WithPermission(Granted))

		for _, u := range []string{"", "not a url", "ftp://host/a.jpg", "file:///etc/passwd"} {
			_, err := d.Download(context.Background(), u)
			assert.ErrorIs(t, err, ErrInvalidURL, u)
		}
	})

	t.Run("scan failure does not fail the download", func(t *testing.T) {
		server := imageServer(t)
		scanner := &recordingScanner{err: errors.New("indexer missing")}
		d := New(WithDir(t.TempDir()), WithPermission(Granted), WithScanner(scanner))

		path, err := d.Download(context.Background(), server.URL+"/a.jpg")

		require.NoError(t, err)
		assert.True(t, Exists(path))
	})

	t.Run("permission request error", func(t *testing.T) {
		boom := errors.New("prompt crashed")
		d := New(WithDir(t.TempDir()), WithPermission(PermissionFunc(func(context.Context, string) (bool, error) {
			return false, boom
		})))

		_, err := d.Download(context.Background(), "https://example.com/a.jpg")

		assert.ErrorIs(t, err, boom)
		assert.False(t, errors.Is(err, ErrPermissionDenied))
	})
}

func TestExtension(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://picsum.photos/400/800?random=1", "jpg"},
		{"https://example.com/a/b/photo.png", "png"},
		{"https://example.com/photo.JPEG?x=1.gif", "jpeg"},
		{"https://example.com/archive.tar.gz", "gz"},
		{"https://example.com/file.toolongext", "jpg"},
		{"https://example.com/file.we!rd", "jpg"},
		{"https://example.com/", "jpg"},
		{"%%%", "jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.url))
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "beauty_1714564800123.webp", FileName("https://x.test/a.webp", fixedTime))
}

func TestExistsDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, Exists(path))
	deleted, err := Delete(path)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, Exists(path))

	deleted, err = Delete(path)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestWritableDir(t *testing.T) {
	t.Run("grants writable directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "new")
		ok, err := WritableDir{}.Request(context.Background(), dir)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("denies when path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0644))

		ok, err := WritableDir{}.Request(context.Background(), file)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCommandScanner(t *testing.T) {
	t.Run("empty command is a no-op", func(t *testing.T) {
		assert.NoError(t, CommandScanner{}.Scan(context.Background(), "/tmp/x"))
	})

	t.Run("missing binary fails", func(t *testing.T) {
		err := CommandScanner{Command: "gallery-no-such-scanner --flag"}.Scan(context.Background(), "/tmp/x")
		assert.Error(t, err)
	})
}

func TestError(t *testing.T) {
	status := &Error{URL: "u", StatusCode: 500}
	assert.Contains(t, status.Error(), "500")
	assert.ErrorIs(t, status, ErrDownload)

	wrapped := &Error{URL: "u", Err: context.DeadlineExceeded}
	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
	assert.Contains(t, wrapped.Error(), "deadline")
}
