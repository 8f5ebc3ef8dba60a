package opengl

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/uikit/config"
)

// Window is a GLFW window with an OpenGL 4.1 core context and a borderless
// fullscreen mode. Windowed geometry lives in the config store, so leaving
// fullscreen restores the last saved position and size.
type Window struct {
	win        *glfw.Window
	store      *config.FileStore
	fullscreen bool
}

// NewWindow creates the window described by the store's window settings
// and makes its context current. glfw.Init must have been called.
func NewWindow(store *config.FileStore) (*Window, error) {
	cfg := config.LoadWindow(store)

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.SetPos(cfg.X, cfg.Y)
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{win: win, store: store}
	if !cfg.InWindow {
		w.SetFullscreen(true)
	}
	return w, nil
}

// GLFW returns the underlying window.
func (w *Window) GLFW() *glfw.Window { return w.win }

// ShouldClose returns true once the user asked to close the window.
func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() { w.win.SwapBuffers() }

// FramebufferSize returns the drawable size in pixels.
func (w *Window) FramebufferSize() (int, int) { return w.win.GetFramebufferSize() }

// SetFramebufferSizeCallback calls fn whenever the drawable size changes.
func (w *Window) SetFramebufferSizeCallback(fn func(width, height int)) {
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		fn(width, height)
	})
}

// Fullscreen returns true in borderless fullscreen mode.
func (w *Window) Fullscreen() bool { return w.fullscreen }

// ToggleFullscreen switches between windowed and fullscreen mode.
func (w *Window) ToggleFullscreen() { w.SetFullscreen(!w.fullscreen) }

// SetFullscreen switches to borderless fullscreen on the primary monitor,
// or back to the windowed geometry stored in config.
func (w *Window) SetFullscreen(on bool) {
	if on == w.fullscreen {
		return
	}
	if on {
		monitor := glfw.GetPrimaryMonitor()
		if monitor == nil {
			slog.Error("no primary monitor for fullscreen")
			return
		}
		mode := monitor.GetVideoMode()
		w.SaveGeometry()
		w.win.SetAttrib(glfw.Decorated, glfw.False)
		w.win.SetPos(0, 0)
		w.win.SetSize(mode.Width, mode.Height)
		w.fullscreen = true
		slog.Info("switched to fullscreen", "width", mode.Width, "height", mode.Height)
	} else {
		cfg := config.LoadWindow(w.store)
		w.win.SetAttrib(glfw.Decorated, glfw.True)
		w.win.SetAttrib(glfw.Floating, glfw.False)
		w.win.SetPos(cfg.X, cfg.Y)
		w.win.SetSize(cfg.Width, cfg.Height)
		w.fullscreen = false
		slog.Info("switched to windowed", "width", cfg.Width, "height", cfg.Height)
	}
	if err := w.store.Store(config.KeyInWindow, !w.fullscreen); err != nil {
		slog.Warn("saving window mode failed", "err", err)
	}
}

// SaveGeometry stores the windowed position and size. It does nothing in
// fullscreen mode.
func (w *Window) SaveGeometry() {
	if w.fullscreen {
		return
	}
	x, y := w.win.GetPos()
	width, height := w.win.GetSize()
	for key, v := range map[string]int{
		config.KeyWindowX:      x,
		config.KeyWindowY:      y,
		config.KeyWindowWidth:  width,
		config.KeyWindowHeight: height,
	} {
		if err := w.store.Store(key, v); err != nil {
			slog.Warn("saving window geometry failed", "key", key, "err", err)
		}
	}
}

// Destroy closes the window.
func (w *Window) Destroy() { w.win.Destroy() }
