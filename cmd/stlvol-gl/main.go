package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/internal/app"
	"github.com/philipparndt/stlvol/internal/batch"
	"github.com/philipparndt/stlvol/internal/config"
	"github.com/philipparndt/stlvol/pkg/render"
	"github.com/philipparndt/stlvol/pkg/render/gldevice"
	"github.com/philipparndt/stlvol/pkg/units"
	"github.com/philipparndt/stlvol/version"
)

const frameInterval = 1.0 / 60

func init() {
	// GLFW and the GL context must stay on the main thread
	runtime.LockOSThread()
}

var (
	configPath string
	flags      config.Flags
)

var rootCmd = &cobra.Command{
	Use:     "stlvol-gl [files...]",
	Short:   "GPU accelerated STL volume viewer",
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

// events reflects session state in the window title and the log
type events struct {
	app.NopEvents
	window *glfw.Window
	logger *log.Logger
	name   string
}

func (e *events) StatusChanged(message string) {
	e.logger.Println(message)
}

func (e *events) ModelBound(name string) {
	e.name = name
}

func (e *events) MetricsChanged(m app.Metrics) {
	if !m.HasModel {
		e.window.SetTitle("stlvol")
		return
	}
	e.window.SetTitle(fmt.Sprintf("stlvol - %s - %s, %s (total %s)", e.name,
		units.FormatVolume(m.Volume), units.FormatWeight(m.Weight), units.FormatVolume(m.Total)))
}

func (e *events) RenderFailed(message string) {
	e.logger.Printf("render: %s", message)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Resolve(flags)
	logger := log.New(os.Stderr, "stlvol: ", log.LstdFlags)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)

	window, err := glfw.CreateWindow(1200, 800, "stlvol", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	device := gldevice.New()
	defer device.Release()

	queue := batch.NewQueue()
	ev := &events{window: window, logger: logger}
	session, err := app.New(cfg, device, queue, ev, app.Options{}, logger)
	if err != nil {
		return err
	}
	defer session.Close()
	session.Init()
	if session.Engine().State() != render.Failed {
		logger.Printf("OpenGL %s", device.Version())
	}

	bindInput(window, session)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if len(args) > 0 {
		if err := session.Submit(args...); err != nil {
			logger.Println(batch.Describe(err))
		}
		go func() {
			if err := session.Watch(ctx); err != nil {
				logger.Printf("watch: %v", err)
			}
		}()
	}

	controller := session.Controller()
	controller.RequestRedraw()
	for !window.ShouldClose() {
		queue.Drain()

		if controller.Tick() {
			w, h := window.GetFramebufferSize()
			if session.Engine().State() == render.ReadyToDraw {
				session.Frame(w, h)
			} else {
				device.Clear(w, h)
			}
			window.SwapBuffers()
		}
		glfw.WaitEventsTimeout(frameInterval)
	}
	return nil
}

func bindInput(window *glfw.Window, session *app.App) {
	controller := session.Controller()
	var lastX, lastY float64

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) {
		controller.RequestRedraw()
	})
	window.SetRefreshCallback(func(_ *glfw.Window) {
		controller.RequestRedraw()
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			lastX, lastY = w.GetCursorPos()
			controller.BeginDrag()
		case glfw.Release:
			controller.EndDrag()
		}
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if !controller.Dragging() {
			return
		}
		controller.Drag(float32(x-lastX), float32(y-lastY))
		lastX, lastY = x, y
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		// one notch is about 100 units of a browser wheel delta, with the sign flipped
		controller.Wheel(float32(-yoff) * 100)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
			return
		}
		if n, ok := app.NudgeForKey(keyName(key)); ok {
			controller.Nudge(n)
		}
	})
	window.SetDropCallback(func(_ *glfw.Window, names []string) {
		if err := session.Submit(names...); err != nil {
			log.Printf("drop: %v", err)
		}
	})
}

// keyName translates the keys the viewer reacts to into fyne key names
func keyName(key glfw.Key) string {
	switch key {
	case glfw.KeyLeft:
		return "Left"
	case glfw.KeyRight:
		return "Right"
	case glfw.KeyUp:
		return "Up"
	case glfw.KeyDown:
		return "Down"
	case glfw.KeyEqual, glfw.KeyKPAdd:
		return "+"
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		return "-"
	case glfw.KeyR:
		return "R"
	case glfw.KeyHome:
		return "Home"
	}
	return ""
}
