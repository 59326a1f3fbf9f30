package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/artpar/gallery/internal/config"
	"github.com/artpar/gallery/internal/tui/views"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is a data directory and config file isolated per test.
type testEnv struct {
	dataDir    string
	configPath string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	return testEnv{
		dataDir:    filepath.Join(dir, "data"),
		configPath: filepath.Join(dir, "config.yaml"),
	}
}

// run executes the root command with isolated global flags.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("1.0.0")
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--data-dir", e.dataDir, "--storage", config.StorageFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	t.Run("creates root command", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		assert.NotNil(t, cmd)
		assert.Equal(t, "gallery", cmd.Use)
		assert.Equal(t, "1.0.0", cmd.Version)
	})

	t.Run("has global flags", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		for _, name := range []string{"config", "data-dir", "storage", "log-level"} {
			assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		for _, name := range []string{"favorites", "download", "feed"} {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Contains(t, sub.Use, name)
		}
	})
}

func TestRootCommand(t *testing.T) {
	t.Run("shows version", func(t *testing.T) {
		cmd := NewRootCommand("1.2.3")
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"--version"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "1.2.3")
	})

	t.Run("shows help", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"--help"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "favorites")
	})
}

func TestGlobalOptions_Config(t *testing.T) {
	t.Run("flags override the file", func(t *testing.T) {
		env := newTestEnv(t)
		cfg := config.DefaultConfig()
		cfg.DataDir = "/from/file"
		cfg.Log.Level = "warn"
		require.NoError(t, config.Save(env.configPath, cfg))

		opts := &GlobalOptions{ConfigPath: env.configPath, DataDir: env.dataDir, LogLevel: "debug"}
		got, err := opts.Config()

		require.NoError(t, err)
		assert.Equal(t, env.dataDir, got.DataDir)
		assert.Equal(t, "debug", got.Log.Level)
		assert.Equal(t, config.StorageSQLite, got.Storage)
	})

	t.Run("rejects unknown storage", func(t *testing.T) {
		env := newTestEnv(t)
		opts := &GlobalOptions{ConfigPath: env.configPath, Storage: "redis"}
		_, err := opts.Config()
		assert.Error(t, err)
	})

	t.Run("surfaces malformed config", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.WriteFile(env.configPath, []byte("storage: [oops"), 0644))

		_, err := env.run(t, "favorites", "list")
		assert.Error(t, err)
	})
}

func TestTUIModel(t *testing.T) {
	t.Run("delegates to main view", func(t *testing.T) {
		env := newTestEnv(t)
		application, err := openApp(t.Context(), &GlobalOptions{
			ConfigPath: env.configPath,
			DataDir:    env.dataDir,
			Storage:    config.StorageMemory,
		})
		require.NoError(t, err)
		defer application.Close(t.Context())

		m := tuiModel{view: views.NewMainView(application)}
		assert.Nil(t, m.Init())

		updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		m = updated.(tuiModel)
		assert.Equal(t, 80, m.view.Width())
		assert.NotEmpty(t, m.View())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}
