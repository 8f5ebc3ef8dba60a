/*
Package uikit provides the screen and widget layer of a desktop application
shell: buttons that can be clicked, edited live (moved, resized, snapped) and
animated (moved, faded), grouped into screens that a Manager switches between.

# Overview

A Button owns one Region. Drawing reads the region under a short lock, so
background animations and live edits show up on the next frame without
blocking the UI goroutine. Bitmaps, fonts and sounds are referenced by ID and
resolved through the Env on every use, so a resource registry can reload
them at any time.

# Quick Start

	// Setup
	renderer, _ := opengl.NewRenderer(1920, 1080)
	registry := resource.NewRegistry(renderer)
	registry.LoadDefaultFont(resource.DefaultFontSize)
	env := &uikit.Env{Resources: registry, Config: store}

	manager := uikit.NewManager(renderer, env)
	manager.Resize(1920, 1080)

	screen := uikit.NewScreen("main", env)
	exit := screen.NewButton("Exit", uikit.Region{X: 20, Y: 20, W: 120, H: 48})
	exit.SetRegionKey("ui_region_exit")
	exit.SetOnClick(func() { window.SetShouldClose(true) })
	screen.SetupAlignment()
	manager.Register(screen)

	// Main loop
	for !window.ShouldClose() {
	    manager.Update(input.Poll())
	    renderer.Clear(uikit.ColorBlack)
	    manager.Frame()
	    window.SwapBuffers()
	}

# Edit Mode

In edit mode a pointer-down on a button starts a drag instead of a click.
Each button shows eight handles; a press on a handle resizes, a press on the
body moves. Handles win over the body where they overlap. While dragging,
the candidate region is derived from the pointer delta, passed through the
snap engine and clamped to the minimum size, then shown immediately. On
release the region is saved under the button's region key and the
edit-complete function runs once. Escape restores the region the drag
started from.

	F2       Toggle edit mode (see WithEditKey)
	Escape   Cancel the drag in progress

# Snapping

Snap applies four policies in a fixed order, each seeing the output of the
previous one:

	Aspect ratio   Resize to the bitmap's width/height ratio
	Center         Center on the viewport, per axis
	Custom         Move an edge onto a registered X or Y coordinate
	Button align   Line up an edge or center with a sibling button

Every policy has its own threshold in SnapConfig. The closest match wins;
ties go to the first registered point or first sibling in the list.

# Animation

MoveTo and FadeOut run in the background. Starting another animation of the
same kind cancels the running one, which finishes (running its OnComplete)
before the new one takes its first step. Instant writes such as SetRegion,
SetAlpha and the start of an edit drag supersede a running animation
immediately. While a drag is in progress it owns the region, and MoveTo
only runs its OnComplete.

	b.MoveTo(target, uikit.Fluent(300), uikit.OnComplete(func() {
	    b.FadeOut(250 * time.Millisecond)
	}))

# Configuration

Regions are stored through the ConfigStore interface. The config package
provides a YAML-backed store; MapStore keeps values in memory for tests.
*/
package uikit
