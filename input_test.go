package uikit

import "testing"

func TestInputEdges(t *testing.T) {
	in := NewInputState()

	in.SetMouseButton(MouseButtonLeft, true)
	if !in.MouseClicked(MouseButtonLeft) || !in.MouseDown(MouseButtonLeft) {
		t.Fatal("press should set clicked and down")
	}
	in.Reset()
	if in.MouseClicked(MouseButtonLeft) || !in.MouseDown(MouseButtonLeft) {
		t.Error("Reset clears clicked but keeps down")
	}

	// Press and release within one frame still reports both edges.
	in.SetMouseButton(MouseButtonLeft, false)
	in.SetMouseButton(MouseButtonLeft, true)
	in.SetMouseButton(MouseButtonLeft, false)
	if !in.MouseClicked(MouseButtonLeft) || !in.MouseReleased(MouseButtonLeft) {
		t.Error("fast click should report clicked and released")
	}

	in.SetMouseButton(MouseButton(-1), true)
	in.SetKey(KeyCount, true)
}

func TestInputMouseMoved(t *testing.T) {
	in := NewInputState()
	in.SetMousePos(10, 20)
	if !in.MouseMoved() {
		t.Error("expected movement from the origin")
	}
	in.Reset()
	if in.MouseMoved() {
		t.Error("no movement after Reset")
	}
	if in.MousePos() != (Vec2{X: 10, Y: 20}) {
		t.Errorf("MousePos = %v", in.MousePos())
	}
}

func TestInputKeys(t *testing.T) {
	in := NewInputState()
	in.SetKey(KeyF2, true)
	in.SetKey(KeyF2, true)
	if !in.KeyPressed(KeyF2) || !in.KeyDown(KeyF2) {
		t.Fatal("F2 should be pressed")
	}
	in.Reset()
	if in.KeyPressed(KeyF2) {
		t.Error("held key must not repeat the press")
	}
	in.SetKey(KeyF2, false)
	if !in.KeyReleased(KeyF2) || in.KeyDown(KeyF2) {
		t.Error("F2 should be released")
	}
}

func TestKeyName(t *testing.T) {
	tests := map[Key]string{
		KeyEscape: "Esc",
		KeyF1:     "F1",
		KeyF12:    "F12",
	}
	for k, want := range tests {
		if got := KeyName(k); got != want {
			t.Errorf("KeyName(%d) = %q, want %q", k, got, want)
		}
	}
}
