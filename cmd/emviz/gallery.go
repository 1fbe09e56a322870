package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.ngs.io/emwave-api/internal/domain"
	"go.ngs.io/emwave-api/internal/usecase"
)

func newGalleryCmd(c *cli) *cobra.Command {
	var (
		dir       string
		frequency float64
		amplitude float64
		jobs      int
	)
	cmd := &cobra.Command{
		Use:     "gallery",
		Short:   "Render every phenomenon with default parameters",
		Example: `  emviz gallery -o figures -f 10e9 -j 4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
			if jobs < 1 {
				jobs = runtime.NumCPU()
			}

			uc := c.useCase()
			paths := make([]string, len(domain.Phenomena))
			start := time.Now()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, ph := range domain.Phenomena {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					req := usecase.VisualizationRequest{
						Phenomenon: string(ph),
						Frequency:  &frequency,
						Amplitude:  &amplitude,
					}
					resp, err := uc.Execute(req)
					if err != nil {
						return fmt.Errorf("%s: %w", ph, err)
					}
					png, err := base64.StdEncoding.DecodeString(resp.Image)
					if err != nil {
						return fmt.Errorf("%s: failed to decode image: %w", ph, err)
					}
					path := filepath.Join(dir, string(ph)+".png")
					if err := os.WriteFile(path, png, 0o644); err != nil {
						return fmt.Errorf("%s: %w", ph, err)
					}
					paths[i] = path
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			c.logger.Info("gallery rendered",
				zap.Int("figures", len(paths)),
				zap.Int("jobs", jobs),
				zap.Duration("elapsed", time.Since(start)))
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "output", "o", "gallery", "Output directory")
	cmd.Flags().Float64VarP(&frequency, "frequency", "f", 1e9, "Source frequency in Hz")
	cmd.Flags().Float64VarP(&amplitude, "amplitude", "a", 1, "Electric field amplitude in V/m")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Concurrent renders (default: number of CPUs)")
	return cmd
}
