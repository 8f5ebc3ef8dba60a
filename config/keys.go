package config

import (
	"errors"
	"fmt"

	"github.com/go-theft-auto/uikit"
)

// Well-known keys.
const (
	KeyWindowWidth  = "window_width"
	KeyWindowHeight = "window_height"
	KeyWindowX      = "window_x"
	KeyWindowY      = "window_y"
	KeyWindowTitle  = "window_title"
	KeyVerticalSync = "vertical_sync"
	KeyInWindow     = "inwindow" // false means borderless fullscreen
	KeyDebug        = "debug"
	KeyShowFPS      = "show_fps"
	KeyVolume       = "volume" // 0-100
	KeyLang         = "lang"

	KeyRegionExit     = "ui_region_exit"
	KeyRegionExitEdit = "ui_region_exit_edit"
)

var _ uikit.ConfigStore = (*FileStore)(nil)

// DefaultTitle is the window title used when none is configured.
const DefaultTitle = "uikit"

// Window is the windowed-mode geometry and flags read at startup.
type Window struct {
	Width, Height int
	X, Y          int
	Title         string
	VSync         bool
	InWindow      bool
}

// ApplyDefaults sets every well-known key that is not already present,
// sizing the window to half the screen.
func ApplyDefaults(s *FileStore, screenW, screenH int) error {
	w, h := float32(screenW/2), float32(screenH/2)
	defaults := []struct {
		key   string
		value any
	}{
		{KeyLang, "en"},
		{KeyInWindow, true},
		{KeyWindowWidth, screenW / 2},
		{KeyWindowHeight, screenH / 2},
		{KeyWindowX, 100},
		{KeyWindowY, 100},
		{KeyVerticalSync, true},
		{KeyWindowTitle, DefaultTitle},
		{KeyDebug, false},
		{KeyShowFPS, false},
		{KeyVolume, 100},
		{KeyRegionExit, uikit.Region{X: w * 0.9, Y: h * 0.03, W: w * 0.05, H: w * 0.05}},
		{KeyRegionExitEdit, uikit.Region{X: w * 0.85, Y: h * 0.4, W: w * 0.1, H: h * 0.03}},
	}

	var errs []error
	for _, d := range defaults {
		if err := s.SetDefault(d.key, d.value); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	return nil
}

// LoadWindow reads the window settings, falling back to a 1280x720 window.
func LoadWindow(s *FileStore) Window {
	return Window{
		Width:    uikit.LoadOr(s, KeyWindowWidth, 1280),
		Height:   uikit.LoadOr(s, KeyWindowHeight, 720),
		X:        uikit.LoadOr(s, KeyWindowX, 100),
		Y:        uikit.LoadOr(s, KeyWindowY, 100),
		Title:    uikit.LoadOr(s, KeyWindowTitle, DefaultTitle),
		VSync:    uikit.LoadOr(s, KeyVerticalSync, true),
		InWindow: uikit.LoadOr(s, KeyInWindow, true),
	}
}

// Volume reads the volume, clamped to 0-100.
func Volume(s *FileStore) int {
	return min(max(uikit.LoadOr(s, KeyVolume, 100), 0), 100)
}
