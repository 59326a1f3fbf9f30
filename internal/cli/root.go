package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/artpar/gallery/internal/app"
	"github.com/artpar/gallery/internal/config"
	"github.com/artpar/gallery/internal/tui/views"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	DataDir    string
	Storage    string
	LogLevel   string
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:     "gallery",
		Short:   "Gallery - A swipe-style image viewer",
		Long:    "Gallery shows a shuffled feed of images one at a time and keeps a list of favorites.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (default ~/.gallery/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "Directory for favorites and logs")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "Storage backend: sqlite, file or memory")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewDownloadCommand(opts))
	cmd.AddCommand(NewFeedCommand(opts))

	return cmd
}

// Config loads the config file and applies flag overrides.
func (o *GlobalOptions) Config() (config.Config, error) {
	path := o.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.Storage != "" {
		cfg.Storage = o.Storage
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openApp builds the application for a command.
func openApp(ctx context.Context, opts *GlobalOptions, appOpts ...app.Option) (*app.App, error) {
	cfg, err := opts.Config()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, appOpts...)
}

// tuiModel wraps the MainView for bubbletea
type tuiModel struct {
	view *views.MainView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.MainView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application
func runTUI(cmd *cobra.Command, opts *GlobalOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer application.Close(context.Background())

	model := tuiModel{
		view: views.NewMainView(application),
	}
	defer model.view.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
