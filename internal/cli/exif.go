package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"photolab/internal/exif"
)

func newExifCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "exif <file>",
		Short: "Print normalized EXIF metadata for one image as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := exif.DecodeFile(args[0])
			if err != nil {
				return err
			}

			fields, err := exif.DefaultNormalizer().Normalize(raw)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(fields)
		},
	}
}
