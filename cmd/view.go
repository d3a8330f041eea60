package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"gallery/internal/catalog"
	"gallery/internal/config"
	"gallery/internal/settings"
	"gallery/internal/viewer"
)

func newViewCmd() *cobra.Command {
	var thumbnails string
	var start int
	var fullscreen bool

	cmd := &cobra.Command{
		Use:   "view SOURCE",
		Short: "Open the gallery window",
		Example: `  # Browse a directory
  gallery view ~/Pictures/trip

  # Open a manifest at the fifth image, fullscreen
  gallery view gallery.yaml --start 5 --fullscreen

  # Use a separate thumbnail manifest
  gallery view https://example.com/big.json --thumbnails https://example.com/small.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, path := loadConfig(cmd)
			if result.Status != config.StatusOK && result.Status != config.StatusDefault {
				slog.Warn("Configuration problems, see help overlay", "status", result.Status, "path", path)
			}
			cfg := result.Config

			source := args[0]
			pair, err := openCatalogs(cmd.Context(), source, thumbnails, cfg.SortMethod)
			if err != nil {
				return err
			}
			n := pair.Images.Len()
			slog.Debug("Catalog loaded", "source", source, "images", n, "thumbnails", pair.Thumbnails.Len())
			if start < 1 || (n > 0 && start > n) {
				return fmt.Errorf("start %d out of range 1..%d", start, n)
			}
			if n == 0 {
				slog.Warn("No images found", "source", source)
				start = 1
			}

			return viewer.Run(viewer.Options{
				Config:       cfg,
				ConfigStatus: result,
				ConfigPath:   path,
				Catalogs:     pair,
				Start:        start - 1,
				Fullscreen:   fullscreen || cfg.Fullscreen,
				Settings:     settings.NewService(&settings.FileStore{Path: settings.DefaultPath()}),
				Reload: func(ctx context.Context) (catalog.Pair, error) {
					return openCatalogs(ctx, source, thumbnails, cfg.SortMethod)
				},
			})
		},
	}

	cmd.Flags().StringVar(&thumbnails, "thumbnails", "", "Thumbnail catalog source")
	cmd.Flags().IntVar(&start, "start", 1, "Image to show first (1-based)")
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "Start in fullscreen mode")

	return cmd
}
