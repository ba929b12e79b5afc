package cli

import (
	"github.com/spf13/cobra"

	"photolab/internal/exif"
	"photolab/internal/scanner"
	"photolab/internal/system"
)

func newScanCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <directory>",
		Short: "Build a normalized metadata dataset over a directory of images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			workers := app.cfg.Workers

			guard := system.NewMemoryGuard(app.cfg.MinFreeMemory)
			if availableMB, ok, err := guard.Check(); err != nil {
				app.logger.Warning("CLI", "memory check unavailable", map[string]interface{}{
					"cause": err.Error(),
				})
			} else if !ok {
				workers = 1
				app.logger.Warning("CLI", "low memory, dropping to one worker", map[string]interface{}{
					"available_mb": availableMB,
					"required_mb":  app.cfg.MinFreeMemory,
				})
			}

			s := scanner.New(exif.DefaultNormalizer(), app.logger, workers)
			records, err := s.Scan(cmd.Context(), root)
			if err != nil {
				return err
			}

			dataset := scanner.BuildDataset(root, records)
			path, err := dataset.SaveJSON(app.cfg.OutputDir)
			if err != nil {
				return err
			}

			app.logger.Info("CLI", "scan complete", map[string]interface{}{
				"total":    dataset.Total,
				"with_gps": dataset.WithGPS,
				"failed":   dataset.Failed,
				"dataset":  path,
			})
			return nil
		},
	}
}
