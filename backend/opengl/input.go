package opengl

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/uikit"
)

// InputAdapter routes GLFW input into a uikit.InputState.
// Positions are reported in framebuffer pixels, matching the renderer.
type InputAdapter struct {
	window *glfw.Window
	input  *uikit.InputState
}

// NewInputAdapter installs input callbacks on window.
func NewInputAdapter(window *glfw.Window) *InputAdapter {
	a := &InputAdapter{
		window: window,
		input:  uikit.NewInputState(),
	}
	window.SetKeyCallback(a.keyCallback)
	window.SetMouseButtonCallback(a.mouseButtonCallback)
	window.SetCursorPosCallback(a.cursorPosCallback)
	return a
}

// Poll starts a new input frame: it clears per-frame events, processes
// pending GLFW events and returns the updated state.
func (a *InputAdapter) Poll() *uikit.InputState {
	a.input.Reset()
	glfw.PollEvents()

	x, y := a.window.GetCursorPos()
	a.input.SetMousePos(a.toFramebuffer(x, y))

	a.input.ModCtrl = a.window.GetKey(glfw.KeyLeftControl) == glfw.Press ||
		a.window.GetKey(glfw.KeyRightControl) == glfw.Press
	a.input.ModShift = a.window.GetKey(glfw.KeyLeftShift) == glfw.Press ||
		a.window.GetKey(glfw.KeyRightShift) == glfw.Press
	a.input.ModAlt = a.window.GetKey(glfw.KeyLeftAlt) == glfw.Press ||
		a.window.GetKey(glfw.KeyRightAlt) == glfw.Press
	return a.input
}

// Input returns the current input state.
func (a *InputAdapter) Input() *uikit.InputState {
	return a.input
}

// toFramebuffer converts window coordinates to framebuffer pixels.
func (a *InputAdapter) toFramebuffer(x, y float64) (float32, float32) {
	ww, wh := a.window.GetSize()
	fw, fh := a.window.GetFramebufferSize()
	if ww > 0 && wh > 0 {
		x *= float64(fw) / float64(ww)
		y *= float64(fh) / float64(wh)
	}
	return float32(x), float32(y)
}

func (a *InputAdapter) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k := glfwKeyToKey(key)
	if k == uikit.KeyNone {
		return
	}
	switch action {
	case glfw.Press:
		a.input.SetKey(k, true)
	case glfw.Release:
		a.input.SetKey(k, false)
	}
}

func (a *InputAdapter) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b := glfwMouseButtonToButton(button)
	if b < 0 {
		return
	}
	// Record the press position so the pointer-down hit-test uses it.
	x, y := w.GetCursorPos()
	a.input.SetMousePos(a.toFramebuffer(x, y))
	switch action {
	case glfw.Press:
		a.input.SetMouseButton(b, true)
	case glfw.Release:
		a.input.SetMouseButton(b, false)
	}
}

func (a *InputAdapter) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	a.input.SetMousePos(a.toFramebuffer(xpos, ypos))
}

func glfwKeyToKey(key glfw.Key) uikit.Key {
	switch key {
	case glfw.KeyEscape:
		return uikit.KeyEscape
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return uikit.KeyEnter
	}
	if key >= glfw.KeyF1 && key <= glfw.KeyF12 {
		return uikit.KeyF1 + uikit.Key(key-glfw.KeyF1)
	}
	return uikit.KeyNone
}

func glfwMouseButtonToButton(button glfw.MouseButton) uikit.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return uikit.MouseButtonLeft
	case glfw.MouseButtonRight:
		return uikit.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return uikit.MouseButtonMiddle
	default:
		return -1
	}
}
