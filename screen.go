package uikit

import (
	"errors"
	"fmt"
	"slices"
)

// Renderer is the interface for rendering draw lists.
type Renderer interface {
	Render(dl *DrawList) error
	Resize(width, height int)
}

// ScreenID names a registered screen.
type ScreenID string

// ErrUnknownScreen is returned when switching to a screen that was never
// registered.
var ErrUnknownScreen = errors.New("unknown screen")

// Screen is a page of buttons over an optional background.
// Buttons added later are drawn above, and hit-tested before, earlier ones.
type Screen struct {
	id         ScreenID
	env        *Env
	buttons    []*Button
	background BitmapID
	bgColor    uint32
	editMode   bool
	active     *Button // Owner of the press or drag in progress

	onEnter func()
	onLeave func()
}

// ScreenOption configures a Screen.
type ScreenOption func(*Screen)

// WithBackground sets the bitmap stretched over the viewport.
func WithBackground(id BitmapID) ScreenOption {
	return func(s *Screen) { s.background = id }
}

// WithBackgroundColor sets the color filled under the background bitmap.
func WithBackgroundColor(c uint32) ScreenOption {
	return func(s *Screen) { s.bgColor = c }
}

// OnEnter sets a function run when the screen becomes current.
func OnEnter(fn func()) ScreenOption {
	return func(s *Screen) { s.onEnter = fn }
}

// OnLeave sets a function run when another screen replaces this one.
func OnLeave(fn func()) ScreenOption {
	return func(s *Screen) { s.onLeave = fn }
}

// NewScreen creates an empty screen.
func NewScreen(id ScreenID, env *Env, opts ...ScreenOption) *Screen {
	s := &Screen{id: id, env: env}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the screen ID.
func (s *Screen) ID() ScreenID { return s.id }

// AddButton adds b on top of the existing buttons. b takes the screen's
// current edit mode.
func (s *Screen) AddButton(b *Button) *Button {
	b.SetEditMode(s.editMode)
	s.buttons = append(s.buttons, b)
	return b
}

// NewButton creates a button sharing the screen's Env and adds it.
func (s *Screen) NewButton(text string, region Region) *Button {
	return s.AddButton(NewButton(s.env, text, region))
}

// Buttons returns the buttons in drawing order.
func (s *Screen) Buttons() []*Button { return slices.Clone(s.buttons) }

// SetupAlignment makes every button align to all the others while editing.
func (s *Screen) SetupAlignment() {
	for _, b := range s.buttons {
		b.SetSiblings(s.buttons)
	}
}

// ReloadRegions reloads every button's region from config.
func (s *Screen) ReloadRegions() {
	for _, b := range s.buttons {
		b.ResetRegion()
	}
}

// SaveRegions stores every button's region under its region key.
func (s *Screen) SaveRegions() error {
	var errs []error
	for _, b := range s.buttons {
		if err := b.SaveRegionToConfig(); err != nil {
			errs = append(errs, fmt.Errorf("button %q: %w", b.Text(), err))
		}
	}
	return errors.Join(errs...)
}

// SetEditMode switches every button in or out of edit mode.
func (s *Screen) SetEditMode(enable bool) {
	if s.editMode == enable {
		return
	}
	s.editMode = enable
	s.active = nil
	for _, b := range s.buttons {
		b.SetEditMode(enable)
	}
}

// EditMode returns true while the screen is in edit mode.
func (s *Screen) EditMode() bool { return s.editMode }

// PointerDown offers the event to the buttons top-most first until one
// consumes it. In edit mode it starts a drag instead of a click.
func (s *Screen) PointerDown(p Vec2) bool {
	for _, b := range slices.Backward(s.buttons) {
		var consumed bool
		if s.editMode {
			consumed = b.OnEditMouseDown(p)
		} else {
			consumed = b.PointerDown(p)
		}
		if consumed {
			s.active = b
			return true
		}
	}
	return false
}

// PointerMove updates the drag in progress, if any.
func (s *Screen) PointerMove(p Vec2) bool {
	if s.active == nil || !s.editMode {
		return false
	}
	return s.active.OnEditMouseMove(p)
}

// PointerUp completes the click or drag started by PointerDown.
func (s *Screen) PointerUp(p Vec2) bool {
	b := s.active
	if b == nil {
		return false
	}
	s.active = nil
	if s.editMode {
		return b.OnEditMouseUp(p)
	}
	return b.PointerUp(p)
}

// CancelEdit abandons the drag in progress, restoring the button's region.
func (s *Screen) CancelEdit() bool {
	if s.active == nil || !s.editMode {
		return false
	}
	b := s.active
	s.active = nil
	return b.CancelEdit()
}

// Draw adds the background, the buttons and, in edit mode, their overlays
// to dl.
func (s *Screen) Draw(dl *DrawList, alpha uint8) {
	vp := s.env.Viewport()
	dl.AddRect(vp, WithAlpha(s.bgColor, alpha))
	if bm, ok := s.env.bitmap(s.background); ok {
		dl.AddImage(bm.TextureID(), vp, WithAlpha(ColorWhite, alpha))
	}

	for _, b := range s.buttons {
		b.Draw(dl, alpha)
	}
	if s.editMode {
		for _, b := range s.buttons {
			b.DrawEditOverlay(dl)
		}
	}
}

// Manager owns the registered screens and feeds the current one with input
// and frames.
type Manager struct {
	renderer Renderer
	env      *Env
	screens  map[ScreenID]*Screen
	current  *Screen
	editMode bool
	editKey  Key
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithEditKey sets the key that toggles edit mode. KeyNone disables it.
func WithEditKey(k Key) ManagerOption {
	return func(m *Manager) { m.editKey = k }
}

// NewManager creates a Manager drawing through renderer.
func NewManager(renderer Renderer, env *Env, opts ...ManagerOption) *Manager {
	m := &Manager{
		renderer: renderer,
		env:      env,
		screens:  make(map[ScreenID]*Screen),
		editKey:  KeyF2,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a screen. The first registered screen becomes current.
func (m *Manager) Register(s *Screen) error {
	if _, ok := m.screens[s.id]; ok {
		return fmt.Errorf("register screen %q: already registered", s.id)
	}
	m.screens[s.id] = s
	if m.current == nil {
		return m.Switch(s.id)
	}
	return nil
}

// Switch makes the screen id current.
func (m *Manager) Switch(id ScreenID) error {
	next, ok := m.screens[id]
	if !ok {
		return fmt.Errorf("switch to %q: %w", id, ErrUnknownScreen)
	}
	if next == m.current {
		return nil
	}
	if prev := m.current; prev != nil {
		prev.CancelEdit()
		prev.SetEditMode(false)
		if prev.onLeave != nil {
			prev.onLeave()
		}
	}
	m.current = next
	next.SetEditMode(m.editMode)
	if next.onEnter != nil {
		next.onEnter()
	}
	logger.Debug("screen switched", "screen", id)
	return nil
}

// Current returns the current screen, or nil before the first Register.
func (m *Manager) Current() *Screen { return m.current }

// Screen returns the registered screen id.
func (m *Manager) Screen(id ScreenID) (*Screen, bool) {
	s, ok := m.screens[id]
	return s, ok
}

// SetEditMode switches the current screen in or out of edit mode. The
// setting carries over to screens switched to later.
func (m *Manager) SetEditMode(enable bool) {
	m.editMode = enable
	if m.current != nil {
		m.current.SetEditMode(enable)
	}
	logger.Debug("edit mode", "enabled", enable)
}

// EditMode returns true while edit mode is on.
func (m *Manager) EditMode() bool { return m.editMode }

// Update dispatches this frame's input to the current screen: the edit key
// toggles edit mode, Escape cancels a drag, and mouse button changes and
// motion become pointer events.
func (m *Manager) Update(in *InputState) {
	if m.editKey != KeyNone && in.KeyPressed(m.editKey) {
		m.SetEditMode(!m.editMode)
	}
	s := m.current
	if s == nil {
		return
	}
	if in.KeyPressed(KeyEscape) {
		s.CancelEdit()
	}

	p := in.MousePos()
	if in.MouseClicked(MouseButtonLeft) {
		s.PointerDown(p)
	}
	if in.MouseMoved() && in.MouseDown(MouseButtonLeft) {
		s.PointerMove(p)
	}
	if in.MouseReleased(MouseButtonLeft) {
		s.PointerUp(p)
	}
}

// Resize updates the renderer projection and the viewport buttons snap to.
func (m *Manager) Resize(width, height int) {
	m.renderer.Resize(width, height)
	m.env.SetViewport(Region{W: float32(width), H: float32(height)})
}

// Frame draws the current screen.
func (m *Manager) Frame() error {
	if m.current == nil {
		return nil
	}
	dl := AcquireDrawList()
	defer ReleaseDrawList(dl)

	m.current.Draw(dl, 255)
	if err := m.renderer.Render(dl); err != nil {
		return fmt.Errorf("render screen %q: %w", m.current.id, err)
	}
	return nil
}
