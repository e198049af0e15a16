package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW and OpenGL calls must stay on the main OS thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	onResize func(width, height int)
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
	Samples    int
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Virtual Fashion Show",
		Resizable: true,
		VSync:     true,
		Samples:   4,
	}
}

// NewWindow creates a window with a current OpenGL 4.1 core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	if config.Samples > 0 {
		glfw.WindowHint(glfw.Samples, config.Samples)
	}

	var monitor *glfw.Monitor
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Title:  config.Title,
	}
	window.Width, window.Height = handle.GetFramebufferSize()

	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		if window.onResize != nil {
			window.onResize(width, height)
		}
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) Close() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) IsMouseButtonPressed(button int) bool {
	return w.Handle.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

// Time returns seconds since GLFW was initialized.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

// SetCharCallback delivers typed characters as strings, so the top-row "1"
// and the keypad "1" arrive as the same symbol.
func (w *Window) SetCharCallback(cb func(symbol string)) {
	w.Handle.SetCharCallback(func(_ *glfw.Window, char rune) {
		cb(string(char))
	})
}

// SetResizeCallback is invoked with the new framebuffer size.
func (w *Window) SetResizeCallback(cb func(width, height int)) {
	w.onResize = cb
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

const (
	KeyEscape = int(glfw.KeyEscape)

	MouseLeft   = int(glfw.MouseButtonLeft)
	MouseRight  = int(glfw.MouseButtonRight)
	MouseMiddle = int(glfw.MouseButtonMiddle)
)
