package cli

import (
	"github.com/spf13/cobra"

	"photolab/internal/config"
	"photolab/internal/logger"
)

// App carries the state shared by all commands: configuration merged with
// flags, and the logger built from it.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	configPath string
	verbose    bool
	workers    int
	outputDir  string
}

// NewRootCommand wires the photolab command tree.
func NewRootCommand() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:   "photolab",
		Short: "Image metadata extraction and filter demonstrations",
		Long: "photolab scans image collections, normalizes EXIF metadata into\n" +
			"a tabular dataset, and runs OpenCV-backed demonstration filters.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "path to YAML config file")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")
	flags.IntVar(&app.workers, "workers", 0, "parallel workers (default from config)")
	flags.StringVarP(&app.outputDir, "output", "o", "", "output directory (default from config)")

	root.AddCommand(newScanCommand(app))
	root.AddCommand(newExifCommand(app))
	root.AddCommand(newFilterCommand(app))
	return root
}

// setup loads config and layers flag overrides on top.
func (a *App) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.workers > 0 {
		cfg.Workers = a.workers
	}
	if a.outputDir != "" {
		cfg.OutputDir = a.outputDir
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}

	a.cfg = cfg
	a.logger = logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel))
	return nil
}
