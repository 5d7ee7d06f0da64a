package main

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/internal/app"
	"github.com/philipparndt/stlvol/internal/batch"
	"github.com/philipparndt/stlvol/pkg/render/soft"
	"github.com/philipparndt/stlvol/pkg/snapshot"
	"github.com/philipparndt/stlvol/pkg/units"
)

var (
	renderOutput string
	renderIndex  int
	renderYaw    float32
	renderPitch  float32
	renderZoom   float32
	renderUpload bool
)

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render a shaded snapshot of an STL file",
	Long: `Load the files as one batch, bind the selected one and write a wax-shaded
snapshot as PNG or WebP (chosen by the output extension). With --upload the
snapshot is sent to the configured snapshot service and the URL printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVarP(&renderOutput, "output", "o", "snapshot.png", "Output image (.png or .webp)")
	f.IntVar(&renderIndex, "index", 0, "Position of the file to render among the STL files given")
	f.Float32Var(&renderYaw, "yaw", 30, "Yaw in degrees")
	f.Float32Var(&renderPitch, "pitch", 20, "Pitch in degrees")
	f.Float32Var(&renderZoom, "zoom", 1, "Zoom factor")
	f.IntVar(&flags.RenderSize, "size", 0, "Output size in pixels (default 512)")
	f.IntVar(&flags.Supersample, "supersample", 0, "Supersampling factor (default 2)")
	f.BoolVar(&renderUpload, "upload", false, "Upload to the snapshot service")
	f.StringVar(&flags.SnapshotURL, "snapshot-url", "", "Snapshot service endpoint")
}

type renderEvents struct {
	app.NopEvents
	logger interface{ Printf(string, ...any) }
}

func (e renderEvents) StatusChanged(msg string) { e.logger.Printf("%s", msg) }
func (e renderEvents) RenderFailed(msg string) { e.logger.Printf("render: %s", msg) }

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	queue := batch.NewQueue()
	session, err := app.New(cfg, soft.New(), queue, renderEvents{logger: logger}, app.Options{Offscreen: true}, logger)
	if err != nil {
		return err
	}
	defer session.Close()
	session.Init()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	if err := session.Submit(args...); err != nil {
		return err
	}
	if err := queue.RunUntilIdle(ctx, session.Batch()); err != nil {
		return err
	}

	explicit := cmd.Flags().Changed("index")
	if explicit {
		session.Batch().Select(renderIndex)
		if err := queue.RunUntilIdle(ctx, session.Batch()); err != nil {
			return err
		}
	}

	entries := session.Batch().Entries()
	bound := session.Batch().Bound()
	if bound < 0 {
		for _, e := range entries {
			if e.Status == batch.Error {
				return fmt.Errorf("%s: %s", e.Name, e.Err)
			}
		}
		return fmt.Errorf("nothing to render")
	}
	if explicit && bound != renderIndex {
		if renderIndex < 0 || renderIndex >= len(entries) {
			return fmt.Errorf("index %d out of range (%d files)", renderIndex, len(entries))
		}
		e := entries[renderIndex]
		return fmt.Errorf("%s: %s", e.Name, e.Err)
	}

	deg := math32.Pi / 180
	session.SetView(renderYaw*deg, renderPitch*deg, renderZoom)

	out := cmd.OutOrStdout()
	m := session.Metrics()
	fmt.Fprintf(out, "%s: %s, %s\n", m.Name, units.FormatVolume(m.Volume), units.FormatWeight(m.Weight))

	if renderUpload {
		url, err := session.Snapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, url)
		return nil
	}

	img, err := session.SnapshotImage()
	if err != nil {
		return err
	}
	if err := snapshot.Save(renderOutput, img); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", renderOutput)
	return nil
}
