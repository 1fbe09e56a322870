package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.ngs.io/emwave-api/internal/adapter/store/fieldnc"
)

func newReportCmd(c *cli) *cobra.Command {
	var rf requestFlags
	cmd := &cobra.Command{
		Use:   "report [phenomenon]",
		Short: "Print the physics report as JSON",
		Example: `  emviz report reflection --medium1 Glass --medium2 Air --angle 60
  emviz report -r request.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.build(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := c.useCase().Report(req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
	rf.register(cmd)
	return cmd
}

func newRenderCmd(c *cli) *cobra.Command {
	var (
		rf  requestFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "render [phenomenon]",
		Short: "Render a figure to a PNG file",
		Example: `  emviz render dipole --dipole-length 1.5 -o dipole.png
  emviz render waveguide --guide circular --width 0.03 --mode TM01 -f 10e9`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.build(cmd, args)
			if err != nil {
				return err
			}
			if out == "" {
				out = req.Phenomenon + ".png"
			}

			resp, err := c.useCase().Execute(req)
			if err != nil {
				return err
			}
			png, err := base64.StdEncoding.DecodeString(resp.Image)
			if err != nil {
				return fmt.Errorf("failed to decode image: %w", err)
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}

			c.logger.Debug("figure written", zap.String("path", out), zap.Int("bytes", len(png)))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nwrote %s\n", resp.Description, out)
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output PNG (default: <phenomenon>.png)")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		rf  requestFlags
		out string
	)
	cmd := &cobra.Command{
		Use:     "export [phenomenon]",
		Short:   "Write the field grid of reflection, interference or waveguide to NetCDF",
		Example: `  emviz export interference --sources 3 -o fringes.nc`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.build(cmd, args)
			if err != nil {
				return err
			}
			if out == "" {
				out = req.Phenomenon + ".nc"
			}

			grid, meta, err := c.useCase().FieldGrid(req)
			if err != nil {
				return err
			}
			if err := fieldnc.WriteGrid(out, grid, meta); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %s (%s) on %dx%d grid\n",
				out, meta.Variable, meta.Units, len(grid.X), len(grid.Y))
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output NetCDF file (default: <phenomenon>.nc)")
	return cmd
}

func newProbeCmd(_ *cli) *cobra.Command {
	var (
		x, y     float64
		variable string
	)
	cmd := &cobra.Command{
		Use:     "probe FILE",
		Short:   "Interpolate an exported field grid at a point",
		Example: `  emviz probe fringes.nc --x 0.1 --y 0.02`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grid, meta, err := fieldnc.ReadGrid(args[0], variable)
			if err != nil {
				return err
			}
			v, err := grid.InterpolateAt(x, y)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s(%g, %g) = %.6g %s\n", meta.Variable, x, y, v, meta.Units)
			return nil
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "x coordinate in m")
	cmd.Flags().Float64Var(&y, "y", 0, "y coordinate in m")
	cmd.Flags().StringVar(&variable, "variable", "", "Data variable (default: from file attributes)")
	return cmd
}
