// Package input turns polled mouse and keyboard state into camera orbit
// requests and show key presses.
package input

import "math"

// Mouse buttons and keys, matching GLFW's numbering.
const (
	MouseLeft   = 0
	MouseRight  = 1
	MouseMiddle = 2

	KeyEscape = 256
)

// Device is polled once per frame.
type Device interface {
	GetCursorPos() (float64, float64)
	IsMouseButtonPressed(button int) bool
	IsKeyPressed(key int) bool
}

// Orbiter receives camera requests.
type Orbiter interface {
	Orbit(deltaYaw, deltaPitch float32)
	Zoom(scale float32)
}

// Manager tracks mouse and keyboard state between frames.
type Manager struct {
	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollDelta              float64

	// RotateSpeed is radians of orbit per dragged pixel.
	RotateSpeed float32
	// ZoomStep is the distance multiplier for one scroll notch towards the target.
	ZoomStep float32

	device Device

	lastMouseX, lastMouseY float64
	firstFrame             bool

	mouseButtons     [3]bool
	mouseButtonsPrev [3]bool
	escape           bool
	escapePrev       bool

	symbols []string
}

func NewManager(device Device) *Manager {
	return &Manager{
		device:      device,
		firstFrame:  true,
		RotateSpeed: 0.005,
		ZoomStep:    0.95,
	}
}

// Scroll is the window's scroll callback.
func (m *Manager) Scroll(_, yoff float64) {
	m.ScrollDelta += yoff
}

// Char is the window's character callback. Symbols are buffered until
// drained by Symbols.
func (m *Manager) Char(symbol string) {
	m.symbols = append(m.symbols, symbol)
}

// Update polls the device and computes the per-frame deltas.
func (m *Manager) Update() {
	x, y := m.device.GetCursorPos()
	if m.firstFrame {
		m.lastMouseX, m.lastMouseY = x, y
		m.firstFrame = false
	}
	m.MouseDeltaX = x - m.lastMouseX
	m.MouseDeltaY = y - m.lastMouseY
	m.lastMouseX, m.lastMouseY = x, y
	m.MouseX, m.MouseY = x, y

	m.mouseButtonsPrev = m.mouseButtons
	for b := range m.mouseButtons {
		m.mouseButtons[b] = m.device.IsMouseButtonPressed(b)
	}
	m.escapePrev = m.escape
	m.escape = m.device.IsKeyPressed(KeyEscape)
}

// EndFrame clears per-frame state.
func (m *Manager) EndFrame() {
	m.ScrollDelta = 0
}

func (m *Manager) IsMouseDown(button int) bool {
	if button < 0 || button >= len(m.mouseButtons) {
		return false
	}
	return m.mouseButtons[button]
}

func (m *Manager) IsMousePressed(button int) bool {
	if button < 0 || button >= len(m.mouseButtons) {
		return false
	}
	return m.mouseButtons[button] && !m.mouseButtonsPrev[button]
}

// EscapePressed reports an Escape press this frame.
func (m *Manager) EscapePressed() bool {
	return m.escape && !m.escapePrev
}

// Symbols returns and clears the characters typed since the last call.
func (m *Manager) Symbols() []string {
	out := m.symbols
	m.symbols = nil
	return out
}

// DriveOrbit forwards a left-button drag and the scroll wheel to o.
// Dragging right swings the camera left around the target, dragging down
// raises it.
func (m *Manager) DriveOrbit(o Orbiter) {
	if m.IsMouseDown(MouseLeft) && !m.IsMousePressed(MouseLeft) {
		if m.MouseDeltaX != 0 || m.MouseDeltaY != 0 {
			o.Orbit(-float32(m.MouseDeltaX)*m.RotateSpeed, float32(m.MouseDeltaY)*m.RotateSpeed)
		}
	}
	if m.ScrollDelta != 0 {
		o.Zoom(float32(math.Pow(float64(m.ZoomStep), m.ScrollDelta)))
	}
}
