// Example runs a one-screen uikit demo: an exit button whose region is
// persisted in the config file and can be edited in place.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11/PortAudio headers)
//	go run ./example/         # run this example
//
// Keys: F2 toggles edit mode, Escape cancels a drag, F11 toggles fullscreen.
// Assets listed in assets/manifest.yaml are loaded when the file exists.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/uikit"
	"github.com/go-theft-auto/uikit/audio"
	"github.com/go-theft-auto/uikit/backend/opengl"
	"github.com/go-theft-auto/uikit/config"
	"github.com/go-theft-auto/uikit/resource"
)

const (
	screenMain uikit.ScreenID = "main"

	bitmapExit uikit.BitmapID = "exit"
	soundClick uikit.SoundID  = "click"
)

var (
	configPath   = flag.String("config", "config.yaml", "path to the settings file")
	manifestPath = flag.String("assets", "assets/manifest.yaml", "path to the asset manifest")
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	slog.SetDefault(slog.New(uikit.NewLogHandler()))
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	store, err := config.Open(*configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	screenW, screenH := 1920, 1080
	if monitor := glfw.GetPrimaryMonitor(); monitor != nil {
		mode := monitor.GetVideoMode()
		screenW, screenH = mode.Width, mode.Height
	}
	if err := config.ApplyDefaults(store, screenW, screenH); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	uikit.SetVerbose(uikit.LoadOr(store, config.KeyDebug, false))

	window, err := opengl.NewWindow(store)
	if err != nil {
		return err
	}
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	fbW, fbH := window.FramebufferSize()
	renderer, err := opengl.NewRenderer(fbW, fbH)
	if err != nil {
		return fmt.Errorf("ui renderer: %w", err)
	}
	defer renderer.Delete()

	registry := resource.NewRegistry(renderer)
	defer registry.Close()
	if err := loadAssets(registry); err != nil {
		return err
	}

	env := &uikit.Env{Resources: registry, Config: store}
	player, err := audio.NewPlayer(registry, audio.DefaultSampleRate)
	if err != nil {
		slog.Warn("audio disabled", "err", err)
	} else {
		defer player.Close()
		player.SetVolume(config.Volume(store))
		env.Sound = player
	}

	manager := uikit.NewManager(renderer, env)
	manager.Resize(fbW, fbH)
	window.SetFramebufferSizeCallback(manager.Resize)

	mainScreen := buildMainScreen(env, window)
	if err := manager.Register(mainScreen); err != nil {
		return err
	}

	input := opengl.NewInputAdapter(window.GLFW())
	for !window.ShouldClose() {
		in := input.Poll()
		if in.KeyPressed(uikit.KeyF11) {
			window.ToggleFullscreen()
		}
		manager.Update(in)

		renderer.Clear(uikit.RGBA(18, 18, 22, 255))
		if err := manager.Frame(); err != nil {
			return err
		}
		window.SwapBuffers()
	}

	window.SaveGeometry()
	if err := store.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func loadAssets(registry *resource.Registry) error {
	manifest, err := resource.ReadManifest(*manifestPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("no asset manifest, using the built-in font only", "path", *manifestPath)
		if err := registry.LoadDefaultFont(resource.DefaultFontSize); err != nil {
			return fmt.Errorf("default font: %w", err)
		}
		return nil
	case err != nil:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := registry.LoadAll(ctx, manifest); err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	return nil
}

func buildMainScreen(env *uikit.Env, window *opengl.Window) *uikit.Screen {
	screen := uikit.NewScreen(screenMain, env,
		uikit.WithBackgroundColor(uikit.RGBA(30, 32, 40, 255)),
		uikit.OnEnter(func() { slog.Info("entered main screen") }),
	)

	exit := screen.NewButton("Exit", uikit.Region{W: 120, H: 48})
	exit.SetRegionKey(config.KeyRegionExit)
	exit.SetBitmap(bitmapExit)
	exit.SetSound(soundClick)
	exit.SetShowFill(true)
	exit.SetSnapConfig(uikit.DefaultSnapConfig())
	exit.SetOnEditComplete(func(r uikit.Region) {
		slog.Info("exit button moved", "region", r)
	})
	exit.SetOnClick(func() {
		exit.SetEnabled(false)
		exit.FadeOut(400*time.Millisecond, uikit.OnComplete(func() {
			window.GLFW().SetShouldClose(true)
		}))
	})

	hint := screen.NewButton("F2: edit layout", uikit.Region{W: 240, H: 40})
	hint.SetRegionKey(config.KeyRegionExitEdit)
	hint.SetShowBitmap(false)
	hint.SetTextCentered(false)
	hint.SetTextColor(uikit.RGBA(200, 200, 200, 255))
	hint.SetOnClick(func() {
		// Nudge the hint to show fluent moves; it settles back on its saved region.
		home := hint.Region()
		away := home
		away.Y += 20
		hint.MoveTo(away, uikit.Fluent(200), uikit.OnComplete(func() {
			hint.MoveTo(home, uikit.Fluent(200))
		}))
	})

	screen.SetupAlignment()
	return screen
}
