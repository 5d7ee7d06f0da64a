package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/internal/app"
	"github.com/philipparndt/stlvol/internal/batch"
	"github.com/philipparndt/stlvol/pkg/stl"
	"github.com/philipparndt/stlvol/pkg/units"
	"github.com/philipparndt/stlvol/pkg/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [files or directories...]",
	Short: "Print the volume of STL files whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	unit, err := units.Parse(cfg.Units)
	if err != nil {
		return err
	}
	logger := newLogger()

	w, err := watcher.New(app.WatchDebounce, logger)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(args...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	report := func(path string) {
		soup, err := stl.ReadFile(path)
		if err != nil {
			fmt.Fprintf(out, "%s: %s\n", path, batch.Describe(err))
			return
		}
		cm3 := unit.CubicCentimeters(soup.Volume())
		fmt.Fprintf(out, "%s: %s, %s\n", path, units.FormatVolume(cm3), units.FormatWeight(units.Grams(cm3, cfg.Density)))
	}

	for _, p := range args {
		if stl.HasSTLExt(p) {
			report(p)
		}
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "watching for changes, press Ctrl+C to stop")

	w.Run(ctx, report)
	return nil
}
