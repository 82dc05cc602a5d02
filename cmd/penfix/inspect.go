package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/soypat/penfix/internal/d3"
	"github.com/soypat/penfix/meshio"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <mesh files...>",
	Short: "Print size, median and scale factor of mesh files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), args, cfg.TargetLength, cfg.WeldTolerance)
	},
}

func inspect(w io.Writer, paths []string, target, weldTol float64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tFACES\tVERTICES\tDIMENSIONS\tMEDIAN\tFACTOR")
	for _, path := range paths {
		m, err := meshio.LoadMesh(path, weldTol)
		if err != nil {
			return err
		}
		dims := m.Bounds().Size()
		factor := "-"
		if d3.Max(dims) > 0 {
			factor = fmt.Sprintf("%.6g", target/d3.Max(dims))
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n", path, len(m.Faces), len(m.Vertices), fmtVec(dims), fmtVec(m.Median()), factor)
	}
	return tw.Flush()
}

func fmtVec(v r3.Vec) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
}
