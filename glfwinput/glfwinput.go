// Package glfwinput owns the GLFW window and OpenGL context and turns
// GLFW's callback-driven event model into the small, polled event
// queue the engine's frame loop drains: KeyDown, TextInput, Resize,
// and Quit. It is grounded on the teacher's window package, trimmed of
// fullscreen toggling, icon loading, and multi-monitor handling, none
// of which the terminal engine's scope needs.
package glfwinput

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW requires its event loop to run on the thread that created
	// the window.
	runtime.LockOSThread()
}

// EventKind identifies which field of Event is populated.
type EventKind int

const (
	EventKeyDown EventKind = iota
	EventTextInput
	EventResize
	EventQuit
)

// Event is one polled input or window event.
type Event struct {
	Kind EventKind

	Key  glfw.Key
	Mods glfw.ModifierKey

	Rune rune

	Width, Height int
}

// Window wraps a GLFW window with a current OpenGL context and
// buffers the events its callbacks receive until the next Poll.
type Window struct {
	win    *glfw.Window
	events []Event
}

// Config sizes and titles the window at creation.
type Config struct {
	Width  int
	Height int
	Title  string
}

// DefaultConfig matches the engine's default terminal window size.
func DefaultConfig() Config {
	return Config{Width: 900, Height: 600, Title: "raven terminal"}
}

// New creates a GLFW window with a 4.1 core OpenGL context and wires
// its callbacks to accumulate polled events.
func New(cfg Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwinput: initializing GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwinput: creating window: %w", err)
	}

	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("glfwinput: initializing OpenGL: %w", err)
	}

	glfw.SwapInterval(1)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	w := &Window{win: win}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press {
			w.events = append(w.events, Event{Kind: EventKeyDown, Key: key, Mods: mods})
		}
	})
	win.SetCharCallback(func(_ *glfw.Window, r rune) {
		w.events = append(w.events, Event{Kind: EventTextInput, Rune: r})
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		w.events = append(w.events, Event{Kind: EventResize, Width: width, Height: height})
	})
	win.SetCloseCallback(func(_ *glfw.Window) {
		w.events = append(w.events, Event{Kind: EventQuit})
	})

	return w, nil
}

// Poll processes pending GLFW events and returns everything the
// callbacks accumulated since the last call, in order.
func (w *Window) Poll() []Event {
	glfw.PollEvents()
	events := w.events
	w.events = nil
	return events
}

// FramebufferSize returns the current drawable size in pixels.
func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// SwapBuffers presents the frame just rendered.
func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

// ShouldClose reports whether the user has requested the window
// close (e.g. via the title bar's close button).
func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// Destroy tears down the window and terminates GLFW.
func (w *Window) Destroy() {
	w.win.Destroy()
	glfw.Terminate()
}
