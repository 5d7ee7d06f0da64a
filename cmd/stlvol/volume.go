package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/philipparndt/stlvol/internal/batch"
	"github.com/philipparndt/stlvol/pkg/stl"
	"github.com/philipparndt/stlvol/pkg/units"
)

var volumeCmd = &cobra.Command{
	Use:   "volume [files...]",
	Short: "Compute the volume and wax weight of STL files",
	Long: `Compute the enclosed volume of every STL file given. Files without the
.stl extension are skipped; files that fail to decode are reported and do
not count towards the total.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVolume,
}

func init() {
	rootCmd.AddCommand(volumeCmd)
	volumeCmd.Flags().IntVarP(&flags.Workers, "workers", "j", 0, "Files decoded in parallel (default number of CPUs)")
}

// fileVolume is the outcome for one file
type fileVolume struct {
	Name      string
	Triangles int
	Volume    float32 // cm³
	Err       error
}

// measureFiles decodes paths in parallel, at most workers at a time. The
// result order matches paths. Per-file failures are recorded, not returned.
func measureFiles(ctx context.Context, paths []string, unit units.Unit, workers int) ([]fileVolume, error) {
	results := make([]fileVolume, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, path := range paths {
		results[i].Name = filepath.Base(path)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				results[i].Err = err
				return nil
			}
			m, err := stl.Measure(data)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Triangles = m.Triangles
			results[i].Volume = unit.CubicCentimeters(m.Volume)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// splitSTL separates STL paths from the rest
func splitSTL(paths []string) (accepted, skipped []string) {
	for _, p := range paths {
		if stl.HasSTLExt(p) {
			accepted = append(accepted, p)
		} else {
			skipped = append(skipped, p)
		}
	}
	return accepted, skipped
}

func runVolume(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	unit, err := units.Parse(cfg.Units)
	if err != nil {
		return err
	}
	logger := newLogger()

	paths, skipped := splitSTL(args)
	for _, p := range skipped {
		logger.Printf("skipping %s", p)
	}
	if len(paths) == 0 {
		return batch.ErrNoSTLFiles
	}

	results, err := measureFiles(cmd.Context(), paths, unit, cfg.Workers)
	if err != nil {
		return err
	}

	printVolumes(cmd.OutOrStdout(), results, cfg.Density)
	if len(skipped) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d skipped\n", len(skipped))
	}
	return nil
}

func printVolumes(out io.Writer, results []fileVolume, density float32) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "File\tTriangles\tVolume\tWeight")

	var total float32
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t%s\t\n", r.Name, batch.Describe(r.Err))
			continue
		}
		total += r.Volume
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Name, r.Triangles,
			units.FormatVolume(r.Volume), units.FormatWeight(units.Grams(r.Volume, density)))
	}
	fmt.Fprintf(tw, "Total\t\t%s\t%s\n", units.FormatVolume(total), units.FormatWeight(units.Grams(total, density)))
	tw.Flush()
}
