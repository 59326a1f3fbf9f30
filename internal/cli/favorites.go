package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/artpar/gallery/internal/favorites"
	"github.com/spf13/cobra"
)

// NewFavoritesCommand creates the favorites command and its subcommands.
func NewFavoritesCommand(opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favorite images",
	}

	cmd.AddCommand(newFavoritesListCommand(opts))
	cmd.AddCommand(newFavoritesAddCommand(opts))
	cmd.AddCommand(newFavoritesRemoveCommand(opts))
	cmd.AddCommand(newFavoritesToggleCommand(opts))
	cmd.AddCommand(newFavoritesClearCommand(opts))

	return cmd
}

func newFavoritesListCommand(opts *GlobalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List favorites, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer application.Close(cmd.Context())

			list := application.Favorites().List()
			if asJSON {
				return outputJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No favorites")
				return nil
			}
			for _, r := range list {
				fmt.Fprintf(out, "%s  %s  %s\n", r.AddedAt.Local().Format(time.DateTime), r.ID, r.URL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output favorites as JSON")
	return cmd
}

func newFavoritesAddCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add URL...",
		Short: "Add images to favorites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateFavorites(cmd, opts, func(store *favorites.Store, url string) string {
				if store.Add(url) {
					return "added"
				}
				return "already a favorite"
			}, args)
		},
	}
}

func newFavoritesRemoveCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove URL...",
		Aliases: []string{"rm"},
		Short:   "Remove images from favorites",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateFavorites(cmd, opts, func(store *favorites.Store, url string) string {
				was := store.IsFavorite(url)
				store.Remove(url)
				if was {
					return "removed"
				}
				return "not a favorite"
			}, args)
		},
	}
}

func newFavoritesToggleCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle URL",
		Short: "Add an image, or remove it if it is already a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateFavorites(cmd, opts, func(store *favorites.Store, url string) string {
				if store.Toggle(url) {
					return "added"
				}
				return "removed"
			}, args)
		},
	}
}

func newFavoritesClearCommand(opts *GlobalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every favorite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear favorites without --yes")
			}
			application, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			n := application.Favorites().Count()
			application.Favorites().Clear()
			if err := application.Close(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d favorites\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing")
	return cmd
}

// mutateFavorites applies fn to each URL and waits for the snapshot to be
// written before reporting, so a failed write fails the command.
func mutateFavorites(cmd *cobra.Command, opts *GlobalOptions, fn func(*favorites.Store, string) string, urls []string) error {
	application, err := openApp(cmd.Context(), opts)
	if err != nil {
		return err
	}

	store := application.Favorites()
	results := make([]string, len(urls))
	for i, url := range urls {
		results[i] = fn(store, url)
	}
	if err := application.Close(cmd.Context()); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}

	out := cmd.OutOrStdout()
	for i, url := range urls {
		fmt.Fprintf(out, "%s: %s\n", url, results[i])
	}
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
