package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gallery/internal/catalog"
	"gallery/internal/config"
	"gallery/internal/debuglog"
)

func NewRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Image gallery viewer with zoom, swipe and thumbnail prefetching",
		Long: `Gallery shows a catalog of images one slide at a time.

A catalog comes from a manifest file (JSON or YAML), an http(s) manifest URL,
a directory of images, or a zip, rar or 7z archive.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			if debug || os.Getenv("GALLERY_DEBUG") == "1" {
				debuglog.SetEnabled(true)
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print debug messages")
	cmd.PersistentFlags().String("config", "", "Path to the configuration file (default ~/.gallery.json)")

	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// loadConfig reads the file named by --config, or the default location.
func loadConfig(cmd *cobra.Command) (config.ConfigLoadResult, string) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path), path
}

// openCatalogs loads source and its thumbnail catalog. Without an explicit
// thumbnail source, a manifest serves its own thumbnail list.
func openCatalogs(ctx context.Context, source, thumbnails string, sortMethod int) (catalog.Pair, error) {
	images, err := catalog.Open(source, catalog.Options{SortMethod: sortMethod})
	if err != nil {
		return catalog.Pair{}, err
	}

	var thumbs catalog.Source
	switch {
	case thumbnails != "":
		thumbs, err = catalog.Open(thumbnails, catalog.Options{SortMethod: sortMethod, Thumbnails: true})
		if err != nil {
			return catalog.Pair{}, err
		}
	default:
		switch images.(type) {
		case *catalog.ManifestFile, *catalog.HTTPManifest:
			thumbs, err = catalog.Open(source, catalog.Options{Thumbnails: true})
			if err != nil {
				return catalog.Pair{}, err
			}
		}
	}

	return catalog.LoadPair(ctx, images, thumbs)
}
