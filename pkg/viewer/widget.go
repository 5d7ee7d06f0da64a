package viewer

import (
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/stlvol/pkg/camera"
)

// FrameSource renders the current model for a camera at a pixel size
type FrameSource interface {
	RenderFrame(cam camera.State, width, height int) image.Image
}

// Viewport is a fyne widget that shows frames from a FrameSource and feeds
// pointer input to a Controller
type Viewport struct {
	widget.BaseWidget

	controller *Controller
	source     FrameSource
	raster     *canvas.Raster

	mu   sync.Mutex
	stop chan struct{}
}

// NewViewport creates the widget
func NewViewport(controller *Controller, source FrameSource) *Viewport {
	v := &Viewport{
		controller: controller,
		source:     source,
	}
	v.raster = canvas.NewRaster(func(w, h int) image.Image {
		return v.source.RenderFrame(v.controller.Camera(), w, h)
	})
	v.raster.SetMinSize(fyne.NewSize(400, 400))
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer creates the renderer for the widget
func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// Dragged handles mouse drag events for rotation
func (v *Viewport) Dragged(event *fyne.DragEvent) {
	if !v.controller.Dragging() {
		v.controller.BeginDrag()
	}
	v.controller.Drag(event.Dragged.DX, event.Dragged.DY)
}

// DragEnd handles the end of a drag event
func (v *Viewport) DragEnd() {
	v.controller.EndDrag()
}

// Scrolled handles scroll events for zooming
func (v *Viewport) Scrolled(event *fyne.ScrollEvent) {
	v.controller.Wheel(-event.Scrolled.DY)
}

// Nudge forwards a button press to the controller
func (v *Viewport) Nudge(n Nudge) {
	v.controller.Nudge(n)
}

// Redraw schedules a burst, for example after new geometry was bound
func (v *Viewport) Redraw() {
	v.controller.RequestRedraw()
}

// Start begins the display refresh loop. Ticks are posted to the fyne
// goroutine, which owns the controller.
func (v *Viewport) Start(rate time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stop != nil {
		return
	}
	stop := make(chan struct{})
	v.stop = stop

	go func() {
		ticker := time.NewTicker(rate)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fyne.Do(func() {
					if v.controller.Tick() {
						v.raster.Refresh()
					}
				})
			}
		}
	}()
}

// Stop ends the refresh loop
func (v *Viewport) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stop != nil {
		close(v.stop)
		v.stop = nil
	}
}
