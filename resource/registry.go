// Package resource loads bitmaps, fonts and sounds and resolves them by ID.
//
// Decoding runs concurrently; uploads go through an Uploader on the calling
// goroutine, which must be the one owning the GL context.
package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/go-theft-auto/uikit"
)

// ErrNotFound is returned for an ID that is not loaded.
var ErrNotFound = errors.New("resource not found")

// Uploader creates GPU textures.
type Uploader interface {
	// UploadRGBA uploads tightly packed 8-bit RGBA pixels.
	UploadRGBA(width, height int, pix []byte) (uint32, error)
	// UploadAlpha uploads tightly packed 8-bit single-channel pixels.
	UploadAlpha(width, height int, pix []byte) (uint32, error)
	DeleteTexture(id uint32)
}

// FontSpec names a font file and its pixel size.
type FontSpec struct {
	Path string  `yaml:"path"`
	Size float64 `yaml:"size"`
}

// Manifest lists the resources of an application. Relative paths are
// resolved against Dir.
type Manifest struct {
	Dir     string                    `yaml:"dir"`
	Bitmaps map[uikit.BitmapID]string `yaml:"bitmaps"`
	Fonts   map[uikit.FontID]FontSpec `yaml:"fonts"`
	Sounds  map[uikit.SoundID]string  `yaml:"sounds"`
}

// ReadManifest reads a YAML manifest. Dir defaults to the manifest's
// directory.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m.Dir == "" {
		m.Dir = filepath.Dir(path)
	} else if !filepath.IsAbs(m.Dir) {
		m.Dir = filepath.Join(filepath.Dir(path), m.Dir)
	}
	return &m, nil
}

func (m *Manifest) path(p string) string {
	if filepath.IsAbs(p) || m.Dir == "" {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// Registry owns the loaded resources. Lookups are safe from any goroutine;
// loads must run on the goroutine owning the Uploader.
type Registry struct {
	up Uploader

	mu      sync.RWMutex
	bitmaps map[uikit.BitmapID]*Bitmap
	fonts   map[uikit.FontID]*Font
	sounds  map[uikit.SoundID]*Sound
}

var _ uikit.Resources = (*Registry)(nil)

// NewRegistry creates an empty registry uploading through up.
func NewRegistry(up Uploader) *Registry {
	return &Registry{
		up:      up,
		bitmaps: make(map[uikit.BitmapID]*Bitmap),
		fonts:   make(map[uikit.FontID]*Font),
		sounds:  make(map[uikit.SoundID]*Sound),
	}
}

// Bitmap returns the bitmap id.
func (r *Registry) Bitmap(id uikit.BitmapID) (uikit.Bitmap, bool) {
	r.mu.RLock()
	b, ok := r.bitmaps[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return b, true
}

// Font returns the font id.
func (r *Registry) Font(id uikit.FontID) (uikit.Font, bool) {
	r.mu.RLock()
	f, ok := r.fonts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return f, true
}

// Sound returns the sound id.
func (r *Registry) Sound(id uikit.SoundID) (*Sound, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sounds[id]
	return s, ok
}

// IsLoaded returns true if a bitmap, font or sound is loaded under key.
func (r *Registry) IsLoaded(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, b := r.bitmaps[uikit.BitmapID(key)]
	_, f := r.fonts[uikit.FontID(key)]
	_, s := r.sounds[uikit.SoundID(key)]
	return b || f || s
}

// ListBitmaps returns the loaded bitmap IDs in sorted order.
func (r *Registry) ListBitmaps() []uikit.BitmapID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.bitmaps))
}

// BitmapSize returns the size of the bitmap id.
func (r *Registry) BitmapSize(id uikit.BitmapID) (uikit.Vec2, error) {
	b, ok := r.Bitmap(id)
	if !ok {
		return uikit.Vec2{}, fmt.Errorf("bitmap %q: %w", id, ErrNotFound)
	}
	return b.Size(), nil
}

// LoadBitmap decodes and uploads an image file, replacing any bitmap
// already loaded under id.
func (r *Registry) LoadBitmap(id uikit.BitmapID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bitmap %q: %w", id, err)
	}
	img, err := decodeBitmap(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("bitmap %q: %w", id, err)
	}
	return r.addBitmap(id, img)
}

// LoadFont rasterizes and uploads a font file.
func (r *Registry) LoadFont(id uikit.FontID, spec FontSpec) error {
	data, err := os.ReadFile(spec.Path)
	if err != nil {
		return fmt.Errorf("font %q: %w", id, err)
	}
	return r.AddFont(id, data, spec.Size)
}

// AddFont rasterizes and uploads font data.
func (r *Registry) AddFont(id uikit.FontID, data []byte, size float64) error {
	atlas, err := rasterizeFont(data, size)
	if err != nil {
		return fmt.Errorf("font %q: %w", id, err)
	}
	return r.addFont(id, atlas)
}

// LoadDefaultFont loads the Go Regular font as uikit.DefaultFont.
func (r *Registry) LoadDefaultFont(size float64) error {
	return r.AddFont(uikit.DefaultFont, goregular.TTF, size)
}

// LoadSound decodes a WAV file.
func (r *Registry) LoadSound(id uikit.SoundID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sound %q: %w", id, err)
	}
	s, err := decodeSound(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("sound %q: %w", id, err)
	}
	r.AddSound(id, s)
	return nil
}

// AddSound registers a decoded sound.
func (r *Registry) AddSound(id uikit.SoundID, s *Sound) {
	r.mu.Lock()
	r.sounds[id] = s
	r.mu.Unlock()
}

// LoadAll loads every resource of m. Files are read and decoded
// concurrently, then uploaded in order on the calling goroutine. The
// default font is always loaded unless m names its own.
func (r *Registry) LoadAll(ctx context.Context, m *Manifest) error {
	bitmapIDs := slices.Sorted(maps.Keys(m.Bitmaps))
	fontIDs := slices.Sorted(maps.Keys(m.Fonts))
	soundIDs := slices.Sorted(maps.Keys(m.Sounds))

	bitmaps := make([]*image.RGBA, len(bitmapIDs))
	fonts := make([]*fontAtlas, len(fontIDs))
	sounds := make([]*Sound, len(soundIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range bitmapIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(m.path(m.Bitmaps[id]))
			if err != nil {
				return fmt.Errorf("bitmap %q: %w", id, err)
			}
			img, err := decodeBitmap(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("bitmap %q: %w", id, err)
			}
			bitmaps[i] = img
			return nil
		})
	}
	for i, id := range fontIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			spec := m.Fonts[id]
			data, err := os.ReadFile(m.path(spec.Path))
			if err != nil {
				return fmt.Errorf("font %q: %w", id, err)
			}
			atlas, err := rasterizeFont(data, spec.Size)
			if err != nil {
				return fmt.Errorf("font %q: %w", id, err)
			}
			fonts[i] = atlas
			return nil
		})
	}
	for i, id := range soundIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(m.path(m.Sounds[id]))
			if err != nil {
				return fmt.Errorf("sound %q: %w", id, err)
			}
			s, err := decodeSound(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("sound %q: %w", id, err)
			}
			sounds[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, id := range bitmapIDs {
		if err := r.addBitmap(id, bitmaps[i]); err != nil {
			return err
		}
	}
	for i, id := range fontIDs {
		if err := r.addFont(id, fonts[i]); err != nil {
			return err
		}
	}
	for i, id := range soundIDs {
		r.AddSound(id, sounds[i])
	}
	if _, ok := m.Fonts[uikit.DefaultFont]; !ok {
		if err := r.LoadDefaultFont(DefaultFontSize); err != nil {
			return err
		}
	}

	slog.Info("resources loaded",
		"bitmaps", len(bitmapIDs), "fonts", len(fontIDs), "sounds", len(soundIDs))
	return nil
}

func (r *Registry) addBitmap(id uikit.BitmapID, img *image.RGBA) error {
	b := img.Bounds()
	tex, err := r.up.UploadRGBA(b.Dx(), b.Dy(), img.Pix)
	if err != nil {
		return fmt.Errorf("bitmap %q: upload: %w", id, err)
	}
	r.mu.Lock()
	old := r.bitmaps[id]
	r.bitmaps[id] = &Bitmap{texture: tex, width: b.Dx(), height: b.Dy()}
	r.mu.Unlock()
	if old != nil {
		r.up.DeleteTexture(old.texture)
	}
	slog.Debug("bitmap loaded", "id", id, "width", b.Dx(), "height", b.Dy())
	return nil
}

func (r *Registry) addFont(id uikit.FontID, atlas *fontAtlas) error {
	b := atlas.img.Bounds()
	tex, err := r.up.UploadAlpha(b.Dx(), b.Dy(), atlas.img.Pix)
	if err != nil {
		return fmt.Errorf("font %q: upload: %w", id, err)
	}
	r.mu.Lock()
	old := r.fonts[id]
	r.fonts[id] = &Font{
		texture:    tex,
		glyphs:     atlas.glyphs,
		ascent:     atlas.ascent,
		lineHeight: atlas.lineHeight,
	}
	r.mu.Unlock()
	if old != nil {
		r.up.DeleteTexture(old.texture)
	}
	slog.Debug("font loaded", "id", id, "glyphs", len(atlas.glyphs))
	return nil
}

// Unload removes and frees the bitmap id.
func (r *Registry) Unload(id uikit.BitmapID) error {
	r.mu.Lock()
	b, ok := r.bitmaps[id]
	delete(r.bitmaps, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("bitmap %q: %w", id, ErrNotFound)
	}
	r.up.DeleteTexture(b.texture)
	return nil
}

// Close frees every texture and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bitmaps {
		r.up.DeleteTexture(b.texture)
	}
	for _, f := range r.fonts {
		r.up.DeleteTexture(f.texture)
	}
	clear(r.bitmaps)
	clear(r.fonts)
	clear(r.sounds)
}
