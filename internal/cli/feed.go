package cli

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/artpar/gallery/internal/app"
	"github.com/artpar/gallery/internal/feed"
	"github.com/spf13/cobra"
)

// FeedOptions holds options for the feed command.
type FeedOptions struct {
	Steps int
	Seed  uint64
	JSON  bool
}

// feedStep is one line of a walk.
type feedStep struct {
	Step     int    `json:"step"`
	Position int    `json:"position"`
	URL      string `json:"url"`
	Favorite bool   `json:"favorite"`
}

// NewFeedCommand creates the feed command.
func NewFeedCommand(global *GlobalOptions) *cobra.Command {
	opts := &FeedOptions{}

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print the images a viewer would show, swiping forward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, global, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Steps, "steps", "n", feed.DefaultPoolSize, "Number of images to print")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Shuffle seed for a reproducible walk (0 for random)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the walk as JSON")

	return cmd
}

func runFeed(cmd *cobra.Command, global *GlobalOptions, opts *FeedOptions) error {
	if opts.Steps < 1 {
		return errors.New("--steps must be at least 1")
	}

	var appOpts []app.Option
	if opts.Seed != 0 {
		appOpts = append(appOpts, app.WithFeedOptions(feed.WithRand(rand.New(rand.NewPCG(opts.Seed, opts.Seed)))))
	}

	application, err := openApp(cmd.Context(), global, appOpts...)
	if err != nil {
		return err
	}
	defer application.Close(cmd.Context())

	sq := application.Feed()
	steps := make([]feedStep, 0, opts.Steps)
	for i := 0; i < opts.Steps; i++ {
		if i > 0 {
			sq.Advance(feed.Next)
		}
		url, _ := sq.Current()
		steps = append(steps, feedStep{
			Step:     i + 1,
			Position: sq.Position(),
			URL:      url,
			Favorite: application.Favorites().IsFavorite(url),
		})
	}

	if opts.JSON {
		return outputJSON(cmd, steps)
	}
	out := cmd.OutOrStdout()
	for _, s := range steps {
		marker := " "
		if s.Favorite {
			marker = "♥"
		}
		fmt.Fprintf(out, "%3d %s %s\n", s.Step, marker, s.URL)
	}
	return nil
}
