package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var thumbnails string

	cmd := &cobra.Command{
		Use:   "list SOURCE",
		Short: "Print the catalog: id, url and label per image",
		Long: `Print the catalog one image per line as tab-separated id, url and label.
When a separate thumbnail catalog is in use, its url is added as a fourth column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _ := loadConfig(cmd)
			pair, err := openCatalogs(cmd.Context(), args[0], thumbnails, result.Config.SortMethod)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			separate := pair.Thumbnails != pair.Images
			for i, d := range pair.Images.All() {
				if !separate {
					fmt.Fprintf(out, "%d\t%s\t%s\n", d.ID, d.URL, d.Label)
					continue
				}
				t, _ := pair.Thumbnails.At(i)
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", d.ID, d.URL, d.Label, t.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&thumbnails, "thumbnails", "", "Thumbnail catalog source")

	return cmd
}
