// Command emviz renders, reports and exports electromagnetic wave
// visualizations from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.ngs.io/emwave-api/internal/app"
	"go.ngs.io/emwave-api/internal/config"
	"go.ngs.io/emwave-api/internal/logging"
	"go.ngs.io/emwave-api/internal/usecase"
)

const version = "0.1.0"

// cli holds the state shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func (c *cli) useCase() *usecase.VisualizeUseCase {
	return app.NewVisualizeUseCase(c.cfg, c.logger)
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "emviz",
		Short:         "Electromagnetic wave visualizer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.Logging.Level = "debug"
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("CONFIG_PATH"), "YAML configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newReportCmd(c),
		newRenderCmd(c),
		newExportCmd(c),
		newProbeCmd(c),
		newGalleryCmd(c),
		newCheckCmd(c),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "emviz:", err)
		stop()
		os.Exit(1)
	}
}
