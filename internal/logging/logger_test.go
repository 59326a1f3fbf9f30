package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want clog.Level
	}{
		{"debug", clog.DebugLevel},
		{"INFO", clog.InfoLevel},
		{"warn", clog.WarnLevel},
		{"warning", clog.WarnLevel},
		{"error", clog.ErrorLevel},
		{"bogus", clog.InfoLevel},
		{"", clog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("filters below level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, Config{Level: "warn"})

		log.Info("hidden")
		log.Warn("persist failed", "key", "favorites")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "persist failed")
		assert.Contains(t, out, "key=favorites")
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, Config{Level: "info", Format: "json"})

		log.With("component", "favorites").Error("boom", "count", 2)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "boom", entry["msg"])
		assert.Equal(t, "favorites", entry["component"])
	})
}

func TestOpen(t *testing.T) {
	t.Run("writes to log file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		log, err := Open(Config{Level: "debug", Dir: dir})
		require.NoError(t, err)

		log.Debug("started")
		require.NoError(t, log.Close())

		content, err := os.ReadFile(filepath.Join(dir, FileName))
		require.NoError(t, err)
		assert.Contains(t, string(content), "started")
	})

	t.Run("empty dir gives a nop logger", func(t *testing.T) {
		log, err := Open(Config{})
		require.NoError(t, err)
		assert.Equal(t, NewNop(), log)
	})
}

func TestNop(t *testing.T) {
	log := NewNop()
	log.Info("ignored")
	assert.Equal(t, log, log.With("k", "v"))
	assert.NoError(t, log.Close())
}
