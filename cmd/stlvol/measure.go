package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/pkg/analysis"
	"github.com/philipparndt/stlvol/pkg/geometry"
	"github.com/philipparndt/stlvol/pkg/stl"
	"github.com/philipparndt/stlvol/pkg/units"
)

var (
	point1X, point1Y, point1Z float32
	point2X, point2Y, point2Z float32
	vertex1, vertex2          int
)

var measureCmd = &cobra.Command{
	Use:   "measure [file]",
	Short: "Measure distance between two points",
	Long: `Measure the straight-line distance between two points of a model.
Points are given either as coordinates (--x1 .. --z2), which are snapped to the
nearest vertex, or directly as vertex indices (--v1, --v2).`,
	Args: cobra.ExactArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	f := measureCmd.Flags()
	f.Float32Var(&point1X, "x1", 0, "X coordinate of first point")
	f.Float32Var(&point1Y, "y1", 0, "Y coordinate of first point")
	f.Float32Var(&point1Z, "z1", 0, "Z coordinate of first point")
	f.Float32Var(&point2X, "x2", 0, "X coordinate of second point")
	f.Float32Var(&point2Y, "y2", 0, "Y coordinate of second point")
	f.Float32Var(&point2Z, "z2", 0, "Z coordinate of second point")
	f.IntVar(&vertex1, "v1", -1, "Index of first vertex")
	f.IntVar(&vertex2, "v2", -1, "Index of second vertex")

	measureCmd.MarkFlagsRequiredTogether("x1", "y1", "z1", "x2", "y2", "z2")
	measureCmd.MarkFlagsRequiredTogether("v1", "v2")
	measureCmd.MarkFlagsMutuallyExclusive("x1", "v1")
	measureCmd.MarkFlagsOneRequired("x1", "v1")
}

// pointPair is the resolved pair of vertices to measure between
type pointPair struct {
	From, To         geometry.Vector3
	SnapFrom, SnapTo float32
}

// Delta returns the per-axis difference
func (p pointPair) Delta() geometry.Vector3 {
	return p.To.Sub(p.From)
}

// vertexPair looks up two vertices by index
func vertexPair(soup *stl.Soup, a, b int) (pointPair, error) {
	n := soup.VertexCount()
	for _, i := range []int{a, b} {
		if i < 0 || i >= n {
			return pointPair{}, fmt.Errorf("vertex index %d out of range [0, %d)", i, n)
		}
	}
	return pointPair{
		From: geometry.VectorAt(soup.Positions, a),
		To:   geometry.VectorAt(soup.Positions, b),
	}, nil
}

// snappedPair moves both points to their nearest vertices
func snappedPair(soup *stl.Soup, a, b geometry.Vector3) pointPair {
	var p pointPair
	p.From, p.SnapFrom = analysis.NearestVertex(soup, a)
	p.To, p.SnapTo = analysis.NearestVertex(soup, b)
	return p
}

func printMeasurement(w io.Writer, p pointPair, unit units.Unit) {
	fmt.Fprintln(w, "Point-to-Point Measurement")
	fmt.Fprintln(w, "==========================")

	fmt.Fprintf(w, "\nPoint 1: %s\n", analysis.FormatVector(p.From))
	if p.SnapFrom > 0 {
		fmt.Fprintf(w, "  snapped by %s\n", analysis.FormatMeasurement(p.SnapFrom, string(unit)))
	}
	fmt.Fprintf(w, "Point 2: %s\n", analysis.FormatVector(p.To))
	if p.SnapTo > 0 {
		fmt.Fprintf(w, "  snapped by %s\n", analysis.FormatMeasurement(p.SnapTo, string(unit)))
	}

	d := p.Delta()
	fmt.Fprintf(w, "\ndX: %s\n", analysis.FormatMeasurement(d.X, string(unit)))
	fmt.Fprintf(w, "dY: %s\n", analysis.FormatMeasurement(d.Y, string(unit)))
	fmt.Fprintf(w, "dZ: %s\n", analysis.FormatMeasurement(d.Z, string(unit)))
	fmt.Fprintf(w, "Distance: %s\n", analysis.FormatMeasurement(d.Length(), string(unit)))
}

func runMeasure(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	unit, err := units.Parse(cfg.Units)
	if err != nil {
		return err
	}

	soup, err := stl.ReadFile(args[0])
	if err != nil {
		return err
	}

	var pair pointPair
	if cmd.Flags().Changed("v1") {
		pair, err = vertexPair(soup, vertex1, vertex2)
		if err != nil {
			return err
		}
	} else {
		pair = snappedPair(soup,
			geometry.NewVector3(point1X, point1Y, point1Z),
			geometry.NewVector3(point2X, point2Y, point2Z))
	}

	printMeasurement(cmd.OutOrStdout(), pair, unit)
	return nil
}
