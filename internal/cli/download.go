package cli

import (
	"fmt"
	"time"

	"github.com/artpar/gallery/internal/app"
	"github.com/artpar/gallery/internal/download"
	"github.com/spf13/cobra"
)

// DownloadOptions holds options for the download command.
type DownloadOptions struct {
	Dir     string
	Timeout time.Duration
}

// NewDownloadCommand creates the download command.
func NewDownloadCommand(global *GlobalOptions) *cobra.Command {
	opts := &DownloadOptions{}

	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Save an image to the album directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, global, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Dir, "dir", "o", "", "Directory to save into (default from config)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Download timeout (default from config)")

	return cmd
}

func runDownload(cmd *cobra.Command, global *GlobalOptions, opts *DownloadOptions, url string) error {
	var dlOpts []download.Option
	if opts.Dir != "" {
		dlOpts = append(dlOpts, download.WithDir(opts.Dir))
	}
	if opts.Timeout > 0 {
		dlOpts = append(dlOpts, download.WithTimeout(opts.Timeout))
	}

	application, err := openApp(cmd.Context(), global, app.WithDownloadOptions(dlOpts...))
	if err != nil {
		return err
	}
	defer application.Close(cmd.Context())

	path, err := application.Downloader().Download(cmd.Context(), url)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
