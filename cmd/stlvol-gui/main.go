package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/internal/app"
	"github.com/philipparndt/stlvol/internal/batch"
	"github.com/philipparndt/stlvol/internal/config"
	"github.com/philipparndt/stlvol/internal/services"
	"github.com/philipparndt/stlvol/pkg/render/soft"
	"github.com/philipparndt/stlvol/pkg/units"
	"github.com/philipparndt/stlvol/pkg/viewer"
	"github.com/philipparndt/stlvol/version"
)

// refreshRate is the viewport tick interval
const refreshRate = time.Second / 60

var (
	configPath string
	flags      config.Flags
)

var rootCmd = &cobra.Command{
	Use:     "stlvol-gui [files...]",
	Short:   "STL volume calculator and viewer",
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

// GUI holds the window and the widgets that mirror session state
type GUI struct {
	app.NopEvents

	window   fyne.Window
	session  *app.App
	viewport *viewer.Viewport

	entries []batch.Entry
	bound   int

	list        *widget.List
	status      *widget.Label
	modelLabel  *widget.Label
	volumeLabel *widget.Label
	weightLabel *widget.Label
	totalLabel  *widget.Label
	visitLabel  *widget.Label
	priceLabel  *widget.Label
	unitSelect  *widget.Select
	snapshotURL string
	snapshots   *services.SnapshotClient

	logger *log.Logger
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Resolve(flags)

	logger := log.New(os.Stderr, "stlvol: ", log.LstdFlags)

	a := fyneapp.New()
	w := a.NewWindow("stlvol - STL Volume Calculator")

	gui := &GUI{window: w, bound: -1, logger: logger}
	session, err := app.New(cfg, soft.New(), batch.DispatchFunc(fyne.Do), gui, app.Options{
		Offscreen:    true,
		AutoSnapshot: true,
	}, logger)
	if err != nil {
		return err
	}
	defer session.Close()
	gui.session = session
	gui.snapshots = services.NewSnapshotClient(cfg.Services.SnapshotURL, cfg.Services.Timeout, logger)

	gui.setupMainUI()
	session.Init()
	gui.fetchServices(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(args) > 0 {
		if err := session.Submit(args...); err != nil {
			gui.status.SetText(batch.Describe(err))
		}
		go func() {
			if err := session.Watch(ctx); err != nil {
				logger.Printf("watch: %v", err)
			}
		}()
	}

	gui.viewport.Start(refreshRate)
	defer gui.viewport.Stop()

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
	return nil
}

func (g *GUI) setupMainUI() {
	g.viewport = viewer.NewViewport(g.session.Controller(), g.session)

	g.status = widget.NewLabel("Drop STL files or click Open")
	g.status.Wrapping = fyne.TextWrapWord
	g.modelLabel = widget.NewLabel("No model")
	g.modelLabel.TextStyle = fyne.TextStyle{Bold: true}
	g.volumeLabel = widget.NewLabel("Volume: " + services.Placeholder)
	g.weightLabel = widget.NewLabel("Wax weight: " + services.Placeholder)
	g.totalLabel = widget.NewLabel("Total: " + services.Placeholder)
	g.visitLabel = widget.NewLabel("")
	g.priceLabel = widget.NewLabel("")
	g.priceLabel.Wrapping = fyne.TextWrapWord

	g.list = widget.NewList(
		func() int { return len(g.entries) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(g.entryText(id))
		},
	)
	g.list.OnSelected = func(id widget.ListItemID) {
		g.session.Batch().Select(id)
	}

	g.unitSelect = widget.NewSelect([]string{string(units.Millimeter), string(units.Centimeter)}, func(s string) {
		u, err := units.Parse(s)
		if err != nil {
			return
		}
		g.session.SetUnit(u)
		g.list.Refresh()
	})
	g.unitSelect.SetSelected(string(g.session.Unit()))

	nudge := func(label string, n viewer.Nudge) *widget.Button {
		return widget.NewButton(label, func() { g.viewport.Nudge(n) })
	}
	controls := container.NewGridWithColumns(4,
		nudge("◀", viewer.NudgeLeft),
		nudge("▶", viewer.NudgeRight),
		nudge("▲", viewer.NudgeUp),
		nudge("▼", viewer.NudgeDown),
		nudge("+", viewer.NudgeZoomIn),
		nudge("−", viewer.NudgeZoomOut),
		nudge("Reset", viewer.NudgeReset),
		widget.NewButton("Share", g.share),
	)

	openButton := widget.NewButton("Open STL File", g.showFileDialog)

	side := container.NewBorder(
		container.NewVBox(
			openButton,
			container.NewHBox(widget.NewLabel("File unit:"), g.unitSelect),
			widget.NewSeparator(),
			g.modelLabel,
			g.volumeLabel,
			g.weightLabel,
			g.totalLabel,
			widget.NewSeparator(),
			controls,
			widget.NewSeparator(),
		),
		container.NewVBox(
			widget.NewSeparator(),
			g.status,
			g.priceLabel,
			g.visitLabel,
		),
		nil, nil,
		g.list,
	)

	split := container.NewHSplit(g.viewport, side)
	split.Offset = 0.7
	g.window.SetContent(split)

	g.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		g.submitURIs(uris)
	})
	g.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if n, ok := app.NudgeForKey(string(ev.Name)); ok {
			g.viewport.Nudge(n)
		}
	})
}

func (g *GUI) entryText(id int) string {
	if id < 0 || id >= len(g.entries) {
		return ""
	}
	e := g.entries[id]
	prefix := "  "
	if id == g.bound {
		prefix = "● "
	}
	switch e.Status {
	case batch.Ready:
		return prefix + e.Name + ": " + units.FormatVolume(g.session.Unit().CubicCentimeters(e.Volume))
	case batch.Error:
		return prefix + e.Name + ": " + e.Err
	}
	return prefix + e.Name + ": loading"
}

func (g *GUI) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		if reader == nil {
			return
		}
		uri := reader.URI()
		reader.Close()
		g.submitURIs([]fyne.URI{uri})
	}, g.window)
}

// submitURIs prefers plain paths so the batch can be watched
func (g *GUI) submitURIs(uris []fyne.URI) {
	var err error
	if paths, ok := filePaths(uris); ok {
		err = g.session.Submit(paths...)
	} else {
		sources := make([]batch.Source, len(uris))
		for i, u := range uris {
			sources[i] = uriSource{uri: u}
		}
		err = g.session.SubmitSources(sources)
	}
	if err != nil {
		g.logger.Printf("submit: %v", err)
	}
}

func filePaths(uris []fyne.URI) ([]string, bool) {
	paths := make([]string, len(uris))
	for i, u := range uris {
		if u.Scheme() != "file" {
			return nil, false
		}
		paths[i] = u.Path()
	}
	return paths, true
}

// uriSource reads a dropped URI through fyne's storage layer
type uriSource struct {
	uri fyne.URI
}

func (s uriSource) Name() string {
	return s.uri.Name()
}

func (s uriSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := storage.Reader(s.uri)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// share renders on the UI goroutine and uploads in the background
func (g *GUI) share() {
	img, err := g.session.SnapshotImage()
	if err != nil {
		g.status.SetText("Nothing to share yet")
		return
	}
	g.status.SetText("Uploading snapshot...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		url, err := g.snapshots.Publish(ctx, img)
		fyne.Do(func() {
			if err != nil {
				g.status.SetText("Snapshot failed")
				return
			}
			g.snapshotURL = url
			g.window.Clipboard().SetContent(url)
			g.status.SetText("Snapshot link copied")
		})
	}()
}

func (g *GUI) fetchServices(cfg config.Config) {
	visits := services.NewVisitClient(cfg.Services.VisitURL, cfg.Services.Platform, cfg.Services.Timeout)
	prices := services.NewPriceClient(cfg.Services.PriceURL, cfg.Services.Timeout)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Services.Timeout)
		defer cancel()

		id, err := services.AnonymousID(services.DefaultIDPath())
		if err != nil {
			g.logger.Printf("anonymous id: %v", err)
		}
		counters, _ := visits.Record(ctx, "", id)
		board, _ := prices.Fetch(ctx)

		fyne.Do(func() {
			g.visitLabel.SetText(counters.Format())
			g.priceLabel.SetText(formatPrices(board))
		})
	}()
}

func formatPrices(p services.Prices) string {
	if len(p.Quotes) == 0 {
		return ""
	}
	text := "Prices " + p.Date
	for _, q := range p.Quotes {
		text += "\n  " + q.Name + ": " + q.Value
	}
	return text
}

// StatusChanged implements app.Events
func (g *GUI) StatusChanged(message string) {
	g.status.SetText(message)
}

// EntriesChanged implements app.Events
func (g *GUI) EntriesChanged(entries []batch.Entry, bound int) {
	g.entries = entries
	g.bound = bound
	g.list.Refresh()
}

// MetricsChanged implements app.Events
func (g *GUI) MetricsChanged(m app.Metrics) {
	g.totalLabel.SetText("Total: " + units.FormatVolume(m.Total) + ", " + units.FormatWeight(m.TotalWeight))
	if !m.HasModel {
		g.modelLabel.SetText("No model")
		g.volumeLabel.SetText("Volume: " + services.Placeholder)
		g.weightLabel.SetText("Wax weight: " + services.Placeholder)
		g.window.SetTitle("stlvol - STL Volume Calculator")
		return
	}
	g.modelLabel.SetText(fmt.Sprintf("%s (%d triangles)", m.Name, m.Triangles))
	g.volumeLabel.SetText("Volume: " + units.FormatVolume(m.Volume))
	g.weightLabel.SetText("Wax weight: " + units.FormatWeight(m.Weight))
}

// ModelBound implements app.Events
func (g *GUI) ModelBound(name string) {
	g.window.SetTitle("stlvol - " + name)
	g.viewport.Redraw()
}

// RenderFailed implements app.Events
func (g *GUI) RenderFailed(message string) {
	g.status.SetText("Rendering unavailable: " + message)
}

// SnapshotReady implements app.Events
func (g *GUI) SnapshotReady(url string) {
	g.snapshotURL = url
}
