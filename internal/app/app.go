// Package app wires the decoder, the batch orchestrator, the render engine
// and the camera controller into one viewer session.
package app

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"time"

	"github.com/philipparndt/stlvol/internal/batch"
	"github.com/philipparndt/stlvol/internal/config"
	"github.com/philipparndt/stlvol/internal/services"
	"github.com/philipparndt/stlvol/pkg/camera"
	"github.com/philipparndt/stlvol/pkg/geometry"
	"github.com/philipparndt/stlvol/pkg/render"
	"github.com/philipparndt/stlvol/pkg/snapshot"
	"github.com/philipparndt/stlvol/pkg/stl"
	"github.com/philipparndt/stlvol/pkg/units"
	"github.com/philipparndt/stlvol/pkg/viewer"
)

// SnapshotDelay is how long after binding a model the automatic snapshot
// is taken, leaving the view time to settle
const SnapshotDelay = 80 * time.Millisecond

// Options selects how the session renders
type Options struct {
	// Offscreen devices can render snapshots at the configured size;
	// on-screen devices capture the window as it is.
	Offscreen bool
	// AutoSnapshot takes a local snapshot after every bind
	AutoSnapshot bool
}

// App is one viewer session
type App struct {
	Config  config.Config
	Model   ModelState
	Display DisplayState
	Files   FileWatchState

	// guards the engine and camera against the paint callback
	mu         sync.Mutex
	engine     *render.Engine
	camera     *camera.State
	controller *viewer.Controller

	batch      *batch.Orchestrator
	dispatcher batch.Dispatcher
	events     Events
	snapshots  *services.SnapshotClient
	options    Options
	logger     *log.Logger

	lastSnapshot string
}

// New builds a session around device. A device that fails to initialize
// leaves the session usable for measuring; the failure is reported once
// through events.
func New(cfg config.Config, device render.Device, dispatcher batch.Dispatcher, events Events, options Options, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if events == nil {
		events = NopEvents{}
	}
	unit, err := units.Parse(cfg.Units)
	if err != nil {
		return nil, err
	}

	cam := camera.NewState()
	cam.Limits.ZoomMin = cfg.ZoomMin
	cam.Limits.ZoomMax = cfg.ZoomMax

	a := &App{
		Config:     cfg,
		Display:    DisplayState{unit: unit, density: cfg.Density},
		engine:     render.NewEngine(device, logger),
		camera:     cam,
		dispatcher: dispatcher,
		events:     events,
		snapshots:  services.NewSnapshotClient(cfg.Services.SnapshotURL, cfg.Services.Timeout, logger),
		options:    options,
		logger:     logger,
	}
	a.controller = viewer.NewController(cam, viewer.Settings{
		RotateSpeed:      cfg.RotateSpeed,
		WheelSpeed:       cfg.WheelSpeed,
		NudgeAngle:       viewer.DefaultSettings().NudgeAngle,
		NudgeZoom:        viewer.DefaultSettings().NudgeZoom,
		BurstFrames:      cfg.BurstFrames,
		AutoRotateFrames: max(cfg.AutoRotateFrames, 0),
		AutoRotateStep:   cfg.AutoRotateStep,
	})
	a.batch = batch.New(dispatcher, a, a, logger)
	return a, nil
}

// Init acquires the graphics context. Call it on the goroutine that owns
// the context.
func (a *App) Init() {
	a.mu.Lock()
	err := a.engine.Init()
	a.mu.Unlock()
	if err != nil {
		a.events.RenderFailed(a.engine.Message())
	}
}

// Batch returns the orchestrator
func (a *App) Batch() *batch.Orchestrator {
	return a.batch
}

// Controller returns the input controller
func (a *App) Controller() *viewer.Controller {
	return a.controller
}

// Engine returns the render engine
func (a *App) Engine() *render.Engine {
	return a.engine
}

// Submit starts a new batch from disk paths
func (a *App) Submit(paths ...string) error {
	if err := a.batch.Submit(batch.FileSources(paths...)); err != nil {
		return err
	}
	a.Files.paths = append([]string(nil), paths...)
	return nil
}

// SubmitSources starts a new batch from sources that cannot be watched,
// such as dropped URIs
func (a *App) SubmitSources(sources []batch.Source) error {
	a.Files.paths = nil
	return a.batch.Submit(sources)
}

// Bind uploads decoded geometry and resets the view. It implements
// batch.Binder.
func (a *App) Bind(name string, soup *stl.Soup) {
	bounds := soup.Bounds
	maxDim := geometry.Normalize(soup.Positions, bounds)

	a.mu.Lock()
	a.engine.Upload(soup.Positions, soup.Normals, maxDim)
	a.camera.Reset()
	a.mu.Unlock()

	a.Model = ModelState{
		name:      name,
		rawVolume: soup.Volume(),
		triangles: soup.TriangleCount(),
		bounds:    bounds,
		maxDim:    maxDim,
		bound:     true,
	}
	a.logger.Printf("bound %s: %d triangles, max dimension %.3f", name, a.Model.triangles, maxDim)

	a.controller.StartAutoRotate()
	a.events.ModelBound(name)
	a.events.MetricsChanged(a.Metrics())

	if a.options.AutoSnapshot {
		time.AfterFunc(SnapshotDelay, func() {
			a.dispatcher.Dispatch(a.autoSnapshot)
		})
	}
}

// Unbind clears the view when a new batch replaces the bound model. It
// implements batch.Binder.
func (a *App) Unbind() {
	a.mu.Lock()
	a.engine.Clear()
	a.mu.Unlock()

	a.Model = ModelState{}
	a.events.MetricsChanged(a.Metrics())
}

// StatusChanged implements batch.Listener
func (a *App) StatusChanged(message string) {
	a.events.StatusChanged(message)
}

// EntriesChanged implements batch.Listener
func (a *App) EntriesChanged(entries []batch.Entry, bound int) {
	a.events.EntriesChanged(entries, bound)
}

// TotalChanged implements batch.Listener
func (a *App) TotalChanged(float32) {
	a.events.MetricsChanged(a.Metrics())
}

// SetUnit changes the display unit and reports the new metrics
func (a *App) SetUnit(u units.Unit) {
	a.Display.unit = u
	a.events.MetricsChanged(a.Metrics())
}

// Unit returns the display unit
func (a *App) Unit() units.Unit {
	return a.Display.unit
}

// SetDensity changes the material density in g/cm³
func (a *App) SetDensity(density float32) {
	if density > 0 {
		a.Display.density = density
		a.events.MetricsChanged(a.Metrics())
	}
}

// Metrics returns the bound and aggregate volumes in the display unit
func (a *App) Metrics() Metrics {
	unit := a.Display.unit
	total := unit.CubicCentimeters(a.batch.Total())
	m := Metrics{
		Name:        a.Model.name,
		Unit:        unit,
		HasModel:    a.Model.bound,
		Triangles:   a.Model.triangles,
		Total:       total,
		TotalWeight: units.Grams(total, a.Display.density),
	}
	if a.Model.bound {
		m.Volume = unit.CubicCentimeters(a.Model.rawVolume)
		m.Weight = units.Grams(m.Volume, a.Display.density)
	}
	return m
}

// SetView places the camera at yaw and pitch (radians) and zoom, clamped
// to the configured limits
func (a *App) SetView(yaw, pitch, zoom float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera.Reset()
	a.camera.Rotate(yaw, pitch)
	a.camera.SetZoom(zoom)
}

// Frame draws the current camera at width×height, for on-screen loops
func (a *App) Frame(width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.Resize(width, height)
	a.engine.Frame(*a.camera)
}

// RenderFrame draws and captures one frame. It implements
// viewer.FrameSource for devices that render off screen.
func (a *App) RenderFrame(cam camera.State, width, height int) image.Image {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.Resize(width, height)
	a.engine.Frame(cam)
	img, err := a.engine.Capture()
	if err != nil {
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return img
}

// SnapshotImage renders the current view for sharing. Offscreen devices
// render at RenderSize·Supersample and are downsampled to RenderSize.
func (a *App) SnapshotImage() (image.Image, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.Model.bound {
		return nil, render.ErrNotReady
	}

	if !a.options.Offscreen {
		a.engine.Frame(*a.camera)
		return a.engine.Capture()
	}

	w, h := a.engine.Size()
	defer a.engine.Resize(w, h)

	size := a.Config.RenderSize
	ss := max(a.Config.Supersample, 1)
	a.engine.Resize(size*ss, size*ss)
	a.engine.Frame(*a.camera)
	img, err := a.engine.Capture()
	if err != nil {
		return nil, err
	}
	if ss == 1 {
		return img, nil
	}
	return snapshot.Downsample(img, size, size), nil
}

// Snapshot renders and publishes the current view, returning the hosted
// URL or a local data URL
func (a *App) Snapshot(ctx context.Context) (string, error) {
	img, err := a.SnapshotImage()
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	url, err := a.snapshots.Publish(ctx, img)
	if err != nil {
		return "", err
	}
	a.lastSnapshot = url
	a.events.SnapshotReady(url)
	return url, nil
}

// LastSnapshot returns the URL of the most recent snapshot
func (a *App) LastSnapshot() string {
	return a.lastSnapshot
}

func (a *App) autoSnapshot() {
	img, err := a.SnapshotImage()
	if err != nil {
		return
	}
	url, err := snapshot.DataURL(img)
	if err != nil {
		a.logger.Printf("snapshot: %v", err)
		return
	}
	a.lastSnapshot = url
	a.events.SnapshotReady(url)
}

// Close cancels background work
func (a *App) Close() {
	a.batch.Close()
}
