package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/pkg/analysis"
	"github.com/philipparndt/stlvol/pkg/stl"
	"github.com/philipparndt/stlvol/pkg/units"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about an STL file",
	Long:  "Show dimensions, triangle count, surface area, volume, weight and edge statistics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	unit, err := units.Parse(cfg.Units)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	soup, err := stl.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	result := analysis.Analyze(soup)
	cm3 := unit.CubicCentimeters(result.Volume)
	u := string(unit)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "STL File Information")
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "File: %s\n", filename)
	fmt.Fprintf(out, "Format: %s\n\n", formatName(data))

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	if result.Degenerate > 0 {
		fmt.Fprintf(out, "  Degenerate: %d\n", result.Degenerate)
	}
	fmt.Fprintf(out, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "  Surface Area: %.6f %s²\n\n", result.SurfaceArea, u)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %s\n", analysis.FormatMeasurement(result.Dimensions.X, u))
	fmt.Fprintf(out, "  Depth (Y): %s\n", analysis.FormatMeasurement(result.Dimensions.Y, u))
	fmt.Fprintf(out, "  Height (Z): %s\n", analysis.FormatMeasurement(result.Dimensions.Z, u))
	fmt.Fprintf(out, "  Diagonal: %s\n\n", analysis.FormatMeasurement(result.BoundingBox.Diagonal(), u))

	fmt.Fprintln(out, "Volume:")
	fmt.Fprintf(out, "  Mesh: %s\n", units.FormatVolume(cm3))
	fmt.Fprintf(out, "  Bounding box: %s\n", units.FormatVolume(unit.CubicCentimeters(result.BoxVolume)))
	fmt.Fprintf(out, "  Weight: %s (density %.2f g/cm³)\n\n", units.FormatWeight(units.Grams(cm3, cfg.Density)), cfg.Density)

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %s\n", analysis.FormatMeasurement(result.MinEdgeLength, u))
	fmt.Fprintf(out, "  Maximum: %s\n", analysis.FormatMeasurement(result.MaxEdgeLength, u))
	fmt.Fprintf(out, "  Average: %s\n", analysis.FormatMeasurement(result.AvgEdgeLength, u))
	return nil
}

func formatName(data []byte) string {
	if stl.IsBinary(data) {
		return "binary"
	}
	return "ASCII"
}
