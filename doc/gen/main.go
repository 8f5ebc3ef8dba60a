// Command gen renders sample screens in each edit state, captures framebuffer
// pixels, and saves JPEG screenshots to doc/imgs/.
//
// Usage:
//
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/uikit"
	"github.com/go-theft-auto/uikit/backend/opengl"
	"github.com/go-theft-auto/uikit/resource"
)

const (
	shotWidth  = 640
	shotHeight = 360
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// screenshot is one captured scene. setup receives a fresh screen with
// three buttons and may put it in edit mode or start a drag.
type screenshot struct {
	name  string
	setup func(s *uikit.Screen)
}

func run() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(shotWidth, shotHeight, "screenshot-gen", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	renderer, err := opengl.NewRenderer(shotWidth, shotHeight)
	if err != nil {
		return fmt.Errorf("ui renderer: %w", err)
	}
	defer renderer.Delete()

	registry := resource.NewRegistry(renderer)
	defer registry.Close()
	if err := registry.LoadDefaultFont(resource.DefaultFontSize); err != nil {
		return err
	}

	outDir := filepath.Join("doc", "imgs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	shots := buildScreenshots()
	for _, s := range shots {
		if err := capture(renderer, registry, s, outDir); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		fmt.Printf("  %s.jpg (%dx%d)\n", s.name, shotWidth, shotHeight)
	}

	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(shots), outDir)
	return nil
}

func capture(renderer *opengl.Renderer, registry *resource.Registry, s screenshot, outDir string) error {
	// Fresh screen per screenshot so edit state does not leak between captures.
	env := &uikit.Env{Resources: registry}
	manager := uikit.NewManager(renderer, env)
	manager.Resize(shotWidth, shotHeight)

	screen := sampleScreen(env)
	if err := manager.Register(screen); err != nil {
		return err
	}
	s.setup(screen)

	renderer.Clear(uikit.RGBA(31, 31, 36, 255))
	if err := manager.Frame(); err != nil {
		return err
	}

	pixels := make([]byte, shotWidth*shotHeight*4)
	gl.ReadPixels(0, 0, shotWidth, shotHeight, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	// OpenGL rows start at the bottom.
	img := image.NewRGBA(image.Rect(0, 0, shotWidth, shotHeight))
	rowLen := shotWidth * 4
	for y := range shotHeight {
		src := (shotHeight - 1 - y) * rowLen
		copy(img.Pix[y*rowLen:(y+1)*rowLen], pixels[src:src+rowLen])
	}

	path := filepath.Join(outDir, s.name+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

func sampleScreen(env *uikit.Env) *uikit.Screen {
	s := uikit.NewScreen("sample", env)
	for i, label := range []string{"Play", "Options", "Exit"} {
		b := s.NewButton(label, uikit.Region{X: 60, Y: 60 + float32(i)*70, W: 180, H: 48})
		b.SetShowFill(true)
		b.SetFillColor(uikit.RGBA(50, 60, 80, 255))
	}
	s.SetupAlignment()
	return s
}

func buildScreenshots() []screenshot {
	return []screenshot{
		{name: "buttons", setup: func(s *uikit.Screen) {}},
		{name: "edit_mode", setup: func(s *uikit.Screen) {
			s.SetEditMode(true)
		}},
		{name: "edit_snap_center", setup: func(s *uikit.Screen) {
			s.SetEditMode(true)
			// Drag Options close enough to the viewport center to snap.
			s.PointerDown(uikit.Vec2{X: 150, Y: 154})
			s.PointerMove(uikit.Vec2{X: 317, Y: 183})
		}},
		{name: "edit_snap_align", setup: func(s *uikit.Screen) {
			s.SetEditMode(true)
			// Drag Exit right, its left edge near the right edge of Play.
			s.PointerDown(uikit.Vec2{X: 150, Y: 224})
			s.PointerMove(uikit.Vec2{X: 333, Y: 120})
		}},
		{name: "edit_resize", setup: func(s *uikit.Screen) {
			s.SetEditMode(true)
			s.PointerDown(uikit.Vec2{X: 240, Y: 108})
			s.PointerMove(uikit.Vec2{X: 300, Y: 130})
		}},
	}
}
