package uikit

import (
	"fmt"
	"reflect"
	"sync"
)

// Resource identifiers. Resources are looked up by ID on every use, so a
// registry may reload them at any time.
type (
	BitmapID string
	FontID   string
	SoundID  string
)

const (
	// NoBitmap, NoSound mean "draw nothing" and "play nothing".
	NoBitmap BitmapID = ""
	NoSound  SoundID  = ""

	// DefaultFont is the font used when a widget sets none.
	DefaultFont FontID = "default"
)

// Bitmap is an uploaded image.
type Bitmap interface {
	TextureID() uint32
	Size() Vec2
}

// Font is a font that can measure text and generate glyph quads from a
// pre-built texture atlas.
type Font interface {
	// TextureID returns the texture ID of the glyph atlas.
	TextureID() uint32

	// HasGlyph returns true if the font has a glyph for the given rune.
	HasGlyph(r rune) bool

	// MeasureText returns the pixel size of text at the given scale.
	MeasureText(text string, scale float32) Vec2

	// GlyphQuads generates quads for text with its top-left corner at (x, y).
	// The returned slice should be used immediately and not stored.
	GlyphQuads(text string, x, y, scale float32) []GlyphQuad

	// LineHeight returns the line height at the given scale.
	LineHeight(scale float32) float32
}

// Resources resolves bitmaps and fonts by ID.
type Resources interface {
	Bitmap(id BitmapID) (Bitmap, bool)
	Font(id FontID) (Font, bool)
}

// SoundPlayer plays a loaded sound by ID.
type SoundPlayer interface {
	PlaySound(id SoundID)
}

// ConfigStore holds typed configuration values by key.
// Load reports false, without error, for a missing key.
type ConfigStore interface {
	Load(key string, out any) (bool, error)
	Store(key string, value any) error
}

// LoadOr loads key from s into a T, returning def if the store is nil, the
// key is missing, or the stored value cannot be decoded.
func LoadOr[T any](s ConfigStore, key string, def T) T {
	if s == nil {
		return def
	}
	var v T
	ok, err := s.Load(key, &v)
	if err != nil {
		logger.Warn("config value unreadable, using default", "key", key, "err", err)
		return def
	}
	if !ok {
		return def
	}
	return v
}

// MapStore is a simple in-memory ConfigStore.
type MapStore struct {
	mu     sync.Mutex
	values map[string]any
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{values: make(map[string]any)}
}

// Load copies the value stored under key into out, which must be a
// non-nil pointer to a type the value is assignable to.
func (m *MapStore) Load(key string, out any) (bool, error) {
	m.mu.Lock()
	v, ok := m.values[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}

	dst := reflect.ValueOf(out)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return false, fmt.Errorf("load %q: out must be a non-nil pointer", key)
	}
	src := reflect.ValueOf(v)
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return false, fmt.Errorf("load %q: stored %s is not assignable to %s", key, src.Type(), dst.Elem().Type())
	}
	dst.Elem().Set(src)
	return true, nil
}

// Store sets key to value.
func (m *MapStore) Store(key string, value any) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

// Delete removes key.
func (m *MapStore) Delete(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

// Env bundles the collaborators widgets call into. Any of them may be nil.
type Env struct {
	Resources Resources
	Config    ConfigStore
	Sound     SoundPlayer

	mu       sync.RWMutex
	viewport Region
}

// SetViewport sets the area widgets center-snap against.
func (e *Env) SetViewport(r Region) {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.viewport = r
	e.mu.Unlock()
}

// Viewport returns the area widgets center-snap against.
func (e *Env) Viewport() Region {
	if e == nil {
		return Region{}
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.viewport
}

func (e *Env) bitmap(id BitmapID) (Bitmap, bool) {
	if e == nil || e.Resources == nil || id == NoBitmap {
		return nil, false
	}
	return e.Resources.Bitmap(id)
}

func (e *Env) font(id FontID) (Font, bool) {
	if e == nil || e.Resources == nil {
		return nil, false
	}
	return e.Resources.Font(id)
}

func (e *Env) playSound(id SoundID) {
	if e == nil || e.Sound == nil || id == NoSound {
		return
	}
	e.Sound.PlaySound(id)
}

func (e *Env) config() ConfigStore {
	if e == nil {
		return nil
	}
	return e.Config
}
