package main

import (
	"context"
	"fmt"
	"log"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/internal/app"
	"github.com/philipparndt/stlvol/internal/batch"
	"github.com/philipparndt/stlvol/internal/config"
	"github.com/philipparndt/stlvol/pkg/render"
	"github.com/philipparndt/stlvol/pkg/render/rldevice"
	"github.com/philipparndt/stlvol/pkg/units"
	"github.com/philipparndt/stlvol/version"
)

var (
	configPath string
	flags      config.Flags
)

var rootCmd = &cobra.Command{
	Use:     "stlvol-raylib [files...]",
	Short:   "GPU accelerated STL volume viewer (raylib)",
	Version: version.GetFullVersion(),
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	rootCmd.Flags().StringVarP(&flags.Units, "units", "u", "", "Linear unit of the files (mm or cm)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// overlay keeps the text drawn over the model
type overlay struct {
	app.NopEvents
	logger  *log.Logger
	status  string
	metrics app.Metrics
	entries []batch.Entry
	bound   int
	failure string
}

func (o *overlay) StatusChanged(message string) {
	o.status = message
	o.logger.Println(message)
}

func (o *overlay) EntriesChanged(entries []batch.Entry, bound int) {
	o.entries = entries
	o.bound = bound
}

func (o *overlay) MetricsChanged(m app.Metrics) {
	o.metrics = m
}

func (o *overlay) RenderFailed(message string) {
	o.failure = message
	o.logger.Printf("render: %s", message)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Resolve(flags)
	logger := log.New(os.Stderr, "stlvol: ", log.LstdFlags)

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagWindowHighdpi)
	rl.InitWindow(1400, 900, "stlvol")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	device := rldevice.New()
	defer device.Release()

	queue := batch.NewQueue()
	ui := &overlay{logger: logger, bound: -1}
	session, err := app.New(cfg, device, queue, ui, app.Options{}, logger)
	if err != nil {
		return err
	}
	defer session.Close()
	session.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if len(args) > 0 {
		if err := session.Submit(args...); err != nil {
			ui.status = batch.Describe(err)
		}
		go func() {
			if err := session.Watch(ctx); err != nil {
				logger.Printf("watch: %v", err)
			}
		}()
	}

	for !rl.WindowShouldClose() {
		queue.Drain()
		handleInput(session, ui)
		session.Controller().Tick()

		// raylib presents every frame, so the model is drawn every frame
		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))
		if session.Engine().State() == render.ReadyToDraw {
			session.Frame(rl.GetRenderWidth(), rl.GetRenderHeight())
		}
		drawOverlay(ui, session.Unit())
		rl.EndDrawing()
	}
	return nil
}

func handleInput(session *app.App, ui *overlay) {
	controller := session.Controller()

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		controller.BeginDrag()
	}
	if controller.Dragging() {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			controller.Drag(delta.X, delta.Y)
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		controller.EndDrag()
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		// one notch is about 100 units of a browser wheel delta, with the sign flipped
		controller.Wheel(-wheel * 100)
	}

	for key, name := range keyNames {
		if rl.IsKeyPressed(key) {
			if n, ok := app.NudgeForKey(name); ok {
				controller.Nudge(n)
			}
		}
	}

	if rl.IsKeyPressed(rl.KeyTab) && len(ui.entries) > 0 {
		session.Batch().Select((ui.bound + 1) % len(ui.entries))
	}
	if rl.IsKeyPressed(rl.KeyU) {
		if session.Unit() == units.Millimeter {
			session.SetUnit(units.Centimeter)
		} else {
			session.SetUnit(units.Millimeter)
		}
	}

	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		rl.UnloadDroppedFiles()
		if err := session.Submit(files...); err != nil {
			ui.status = batch.Describe(err)
		}
	}
}

// keyNames translates the keys the viewer reacts to into fyne key names
var keyNames = map[int32]string{
	rl.KeyLeft:       "Left",
	rl.KeyRight:      "Right",
	rl.KeyUp:         "Up",
	rl.KeyDown:       "Down",
	rl.KeyEqual:      "+",
	rl.KeyKpAdd:      "+",
	rl.KeyMinus:      "-",
	rl.KeyKpSubtract: "-",
	rl.KeyR:          "R",
	rl.KeyHome:       "Home",
}

func drawOverlay(ui *overlay, unit units.Unit) {
	const size = 20
	text := rl.NewColor(230, 230, 230, 255)
	dim := rl.NewColor(150, 150, 160, 255)

	y := int32(20)
	line := func(s string, c rl.Color) {
		rl.DrawText(s, 20, y, size, c)
		y += size + 6
	}

	m := ui.metrics
	if m.HasModel {
		line(fmt.Sprintf("%s (%d triangles)", m.Name, m.Triangles), text)
		line("Volume: "+units.FormatVolume(m.Volume), text)
		line("Wax weight: "+units.FormatWeight(m.Weight), text)
	} else {
		line("Drop STL files onto the window", text)
	}
	line("Total: "+units.FormatVolume(m.Total)+", "+units.FormatWeight(m.TotalWeight), text)
	line("File unit: "+string(unit)+"  (U to switch, Tab for next file)", dim)
	y += size / 2

	for i, e := range ui.entries {
		prefix := "  "
		if i == ui.bound {
			prefix = "> "
		}
		switch e.Status {
		case batch.Ready:
			line(prefix+e.Name+": "+units.FormatVolume(unit.CubicCentimeters(e.Volume)), text)
		case batch.Error:
			line(prefix+e.Name+": "+e.Err, rl.NewColor(230, 120, 110, 255))
		default:
			line(prefix+e.Name+": loading", dim)
		}
	}

	bottom := int32(rl.GetScreenHeight()) - size - 20
	if ui.failure != "" {
		rl.DrawText(ui.failure, 20, bottom, size, rl.Red)
	} else if ui.status != "" {
		rl.DrawText(ui.status, 20, bottom, size, dim)
	}
}
