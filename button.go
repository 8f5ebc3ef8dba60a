package uikit

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Button is a clickable widget with optional fill, bitmap and text, which
// can be edited live (moved, resized, snapped) and animated (moved, faded).
//
// Setters, input and drawing are meant to be called from the UI goroutine.
// The region and alpha are also written by animation goroutines and are
// guarded by a short-held lock; Draw only takes it for reading.
type Button struct {
	env *Env

	mu     sync.RWMutex // Guards region, alpha and guides
	region Region
	alpha  uint8
	guides []SnapGuide

	text       string
	style      ButtonStyle
	editStyle  EditStyle
	enabled    bool
	showText   bool
	showBitmap bool
	showFill   bool
	pressed    bool

	bitmapID  BitmapID
	fontID    FontID
	soundID   SoundID
	refAspect float32 // Bitmap width/height, 0 if unknown

	onClick        func()
	onEditComplete func(Region)
	regionKey      string

	editor   *Editor
	snap     SnapConfig
	customX  []float32
	customY  []float32
	siblings []*Button

	dragging bool // Editor.Dragging, readable from animation goroutines
	clock    clock
	move     effect
	fade     effect
}

// NewButton creates an enabled button showing text and bitmap, without fill.
// env may be nil for a button with no collaborators.
func NewButton(env *Env, text string, region Region) *Button {
	b := &Button{
		env:        env,
		region:     region,
		alpha:      255,
		text:       text,
		style:      DefaultButtonStyle(),
		editStyle:  DefaultEditStyle(),
		enabled:    true,
		showText:   true,
		showBitmap: true,
		fontID:     DefaultFont,
		editor:     NewEditor(),
		snap:       DefaultSnapConfig(),
		clock:      realClock{},
	}
	b.editor.UpdateHandles(region)
	return b
}

// Region returns the current region, including in-flight animation and
// live edit updates.
func (b *Button) Region() Region {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.region
}

// Alpha returns the current fade alpha.
func (b *Button) Alpha() uint8 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alpha
}

// SetRegion moves the button instantly, superseding any fluent move.
func (b *Button) SetRegion(r Region) {
	b.move.supersede()
	b.mu.Lock()
	b.region = r
	b.mu.Unlock()
}

func (b *Button) setDragging(v bool) {
	b.mu.Lock()
	b.dragging = v
	b.mu.Unlock()
}

// SetAlpha sets the alpha instantly, superseding any fade.
func (b *Button) SetAlpha(a uint8) {
	b.fade.supersede()
	b.mu.Lock()
	b.alpha = a
	b.mu.Unlock()
}

// SetRegionKey sets the config key the region is saved under after an edit
// and loads the region stored there, if any.
func (b *Button) SetRegionKey(key string) {
	b.regionKey = key
	b.ResetRegion()
}

// RegionKey returns the config key of the region.
func (b *Button) RegionKey() string { return b.regionKey }

// ResetRegion reloads the region from config. A missing key keeps the
// current region.
func (b *Button) ResetRegion() {
	if b.regionKey == "" {
		return
	}
	b.SetRegion(LoadOr(b.env.config(), b.regionKey, b.Region()))
}

// SaveRegionToConfig stores the current region under the region key.
// It does nothing if no key or store is set.
func (b *Button) SaveRegionToConfig() error {
	cfg := b.env.config()
	if b.regionKey == "" || cfg == nil {
		return nil
	}
	return cfg.Store(b.regionKey, b.Region())
}

// SetText sets the label, also used in log output.
func (b *Button) SetText(text string) { b.text = text }

// Text returns the label.
func (b *Button) Text() string { return b.text }

// SetFont sets the label font.
func (b *Button) SetFont(id FontID) { b.fontID = id }

// SetSound sets the sound played on click; NoSound disables it.
func (b *Button) SetSound(id SoundID) { b.soundID = id }

// SetBitmap sets the bitmap drawn over the fill and records its aspect
// ratio for aspect snapping. Returns false if the bitmap is not loaded yet;
// the ID is kept and resolved again on every draw.
func (b *Button) SetBitmap(id BitmapID) bool {
	b.bitmapID = id
	return b.updateImageAspect()
}

// ImageAspectRatio returns the bitmap aspect ratio and whether it is known.
func (b *Button) ImageAspectRatio() (float32, bool) {
	return b.refAspect, b.refAspect > 0
}

func (b *Button) updateImageAspect() bool {
	bm, ok := b.env.bitmap(b.bitmapID)
	if !ok {
		b.refAspect = 0
		if b.bitmapID != NoBitmap {
			logger.Debug("bitmap not loaded", "button", b.text, "bitmap", b.bitmapID)
		}
		return false
	}
	size := bm.Size()
	if size.X > 0 && size.Y > 0 {
		b.refAspect = size.X / size.Y
	} else {
		b.refAspect = 0
	}
	return true
}

// SetStyle sets colors, font scale and text alignment.
func (b *Button) SetStyle(s ButtonStyle) { b.style = s }

// Style returns the button style.
func (b *Button) Style() ButtonStyle { return b.style }

// SetTextCentered centers the label in the region.
func (b *Button) SetTextCentered(centered bool) { b.style.TextCenter = centered }

// SetTextColor sets the label color.
func (b *Button) SetTextColor(c uint32) { b.style.TextColor = c }

// SetFillColor sets the background fill color.
func (b *Button) SetFillColor(c uint32) { b.style.FillColor = c }

// SetFontScale sets the label scale.
func (b *Button) SetFontScale(scale float32) { b.style.FontScale = scale }

// SetEnabled enables or disables clicking.
func (b *Button) SetEnabled(enable bool) {
	b.enabled = enable
	if !enable {
		b.pressed = false
	}
}

// Enabled returns true if the button reacts to clicks.
func (b *Button) Enabled() bool { return b.enabled }

// SetShowText shows or hides the label.
func (b *Button) SetShowText(show bool) { b.showText = show }

// SetShowBitmap shows or hides the bitmap.
func (b *Button) SetShowBitmap(show bool) { b.showBitmap = show }

// SetShowFill shows or hides the background fill.
func (b *Button) SetShowFill(show bool) { b.showFill = show }

// SetOnClick sets the function run on each completed click.
func (b *Button) SetOnClick(fn func()) { b.onClick = fn }

// SetOnEditComplete sets the function run with the final region after
// each edit drag.
func (b *Button) SetOnEditComplete(fn func(Region)) { b.onEditComplete = fn }

// PointerDown arms a click if p is inside the enabled button.
// Returns true if the event was consumed.
func (b *Button) PointerDown(p Vec2) bool {
	if !b.enabled || !b.Region().Contains(p) {
		return false
	}
	b.pressed = true
	return true
}

// PointerUp completes an armed click if p is still inside.
// Returns true if the button had been pressed.
func (b *Button) PointerUp(p Vec2) bool {
	if !b.pressed {
		return false
	}
	b.pressed = false
	if b.enabled && b.Region().Contains(p) {
		b.Click()
	}
	return true
}

// Click plays the click sound and runs the click function.
func (b *Button) Click() {
	logger.Debug("button clicked", "button", b.text)
	b.env.playSound(b.soundID)
	if b.onClick != nil {
		b.onClick()
	}
}

// SetSnapConfig sets the snapping policies used while editing.
func (b *Button) SetSnapConfig(cfg SnapConfig) { b.snap = cfg }

// SnapConfig returns the snapping policies.
func (b *Button) SnapConfig() SnapConfig { return b.snap }

// AddCustomSnapX registers an X coordinate vertical edges snap to.
// Duplicates are ignored.
func (b *Button) AddCustomSnapX(x float32) {
	if !slices.Contains(b.customX, x) {
		b.customX = append(b.customX, x)
	}
}

// AddCustomSnapY registers a Y coordinate horizontal edges snap to.
// Duplicates are ignored.
func (b *Button) AddCustomSnapY(y float32) {
	if !slices.Contains(b.customY, y) {
		b.customY = append(b.customY, y)
	}
}

// RemoveCustomSnapX removes a registered X coordinate.
func (b *Button) RemoveCustomSnapX(x float32) {
	b.customX = slices.DeleteFunc(b.customX, func(v float32) bool { return v == x })
}

// RemoveCustomSnapY removes a registered Y coordinate.
func (b *Button) RemoveCustomSnapY(y float32) {
	b.customY = slices.DeleteFunc(b.customY, func(v float32) bool { return v == y })
}

// ClearCustomSnapX removes all X coordinates.
func (b *Button) ClearCustomSnapX() { b.customX = nil }

// ClearCustomSnapY removes all Y coordinates.
func (b *Button) ClearCustomSnapY() { b.customY = nil }

// CustomSnapX returns the X coordinates in registration order.
func (b *Button) CustomSnapX() []float32 { return slices.Clone(b.customX) }

// CustomSnapY returns the Y coordinates in registration order.
func (b *Button) CustomSnapY() []float32 { return slices.Clone(b.customY) }

// SetSiblings sets the buttons this one aligns to while editing. The list
// may include b itself; it is skipped.
func (b *Button) SetSiblings(siblings []*Button) { b.siblings = siblings }

func (b *Button) siblingRegions() []Region {
	regions := make([]Region, 0, len(b.siblings))
	for _, s := range b.siblings {
		if s == nil || s == b {
			continue
		}
		regions = append(regions, s.Region())
	}
	return regions
}

// SetEditMode enters or leaves edit mode. Leaving cancels a drag in
// progress, keeping the region where it is.
func (b *Button) SetEditMode(enable bool) {
	b.editor.SetEnabled(enable, b.Region())
	if !enable {
		b.mu.Lock()
		b.dragging = false
		b.guides = nil
		b.mu.Unlock()
	}
}

// EditModeEnabled returns true while edit mode is on.
func (b *Button) EditModeEnabled() bool { return b.editor.Enabled() }

// Editing returns true while an edit drag is in progress.
func (b *Button) Editing() bool { return b.editor.Dragging() }

// CurrentEditMode returns the mode of the drag in progress.
func (b *Button) CurrentEditMode() EditMode { return b.editor.Mode() }

// EditModeAt returns the mode a pointer-down at p would start.
func (b *Button) EditModeAt(p Vec2) EditMode {
	if !b.editor.Enabled() {
		return EditNone
	}
	r := b.Region()
	b.editor.UpdateHandles(r)
	return b.editor.ModeAt(p, r)
}

// EditHandles returns the edit handles for the current region.
func (b *Button) EditHandles() []EditHandle {
	b.editor.UpdateHandles(b.Region())
	return slices.Clone(b.editor.Handles())
}

// SetEditHandleSize sets the side length of the edit handles.
func (b *Button) SetEditHandleSize(size float32) {
	b.editor.SetHandleSize(size, b.Region())
}

// SetMinSize sets the smallest width and height an edit can produce.
func (b *Button) SetMinSize(w, h float32) { b.editor.SetMinSize(w, h) }

// SetEditStyle sets the edit overlay colors.
func (b *Button) SetEditStyle(s EditStyle) { b.editStyle = s }

// OnEditMouseDown starts a drag if p hits a handle or the body.
// A fluent move in flight is stopped so the drag owns the region.
func (b *Button) OnEditMouseDown(p Vec2) bool {
	if !b.editor.Enabled() || b.editor.Dragging() || b.EditModeAt(p) == EditNone {
		return false
	}
	// Block moves, then stop the running one before taking the snapshot
	// the drag is relative to.
	b.setDragging(true)
	b.move.supersede()
	r := b.Region()
	b.editor.UpdateHandles(r)
	if !b.editor.Begin(p, r) {
		b.setDragging(false)
		return false
	}
	b.updateImageAspect()
	logger.Debug("edit started", "button", b.text, "mode", b.editor.Mode())
	return true
}

// OnEditMouseMove updates the live region from the drag: candidate from the
// pointer delta, then snapping, then the minimum size clamp.
func (b *Button) OnEditMouseMove(p Vec2) bool {
	if !b.editor.Dragging() {
		return false
	}
	res := Snap(b.snap, SnapInput{
		Candidate:       b.editor.Candidate(p),
		Mode:            b.editor.Mode(),
		Viewport:        b.env.Viewport(),
		ReferenceAspect: b.refAspect,
		CustomX:         b.customX,
		CustomY:         b.customY,
		Siblings:        b.siblingRegions(),
	})
	r := b.editor.Clamp(res.Region)

	b.mu.Lock()
	b.region = r
	b.guides = res.Guides
	b.mu.Unlock()
	b.editor.UpdateHandles(r)
	return true
}

// OnEditMouseUp finishes the drag, saves the region under the region key
// and runs the edit-complete function once with the final region.
func (b *Button) OnEditMouseUp(p Vec2) bool {
	if !b.editor.Dragging() {
		return false
	}
	b.OnEditMouseMove(p)
	b.editor.End()
	b.mu.Lock()
	b.dragging = false
	b.guides = nil
	b.mu.Unlock()

	final := b.Region()
	if err := b.SaveRegionToConfig(); err != nil {
		logger.Warn("saving region failed", "button", b.text, "key", b.regionKey, "err", err)
	}
	logger.Debug("edit committed", "button", b.text, "region", final)
	if b.onEditComplete != nil {
		b.onEditComplete(final)
	}
	return true
}

// CancelEdit abandons the drag in progress and restores the region it
// started from. Nothing is saved and no callback runs.
func (b *Button) CancelEdit() bool {
	if !b.editor.Dragging() {
		return false
	}
	orig := b.editor.Original()
	b.editor.End()
	b.mu.Lock()
	b.region = orig
	b.guides = nil
	b.dragging = false
	b.mu.Unlock()
	b.editor.UpdateHandles(orig)
	return true
}

// MoveTo moves the button to target. By default the move is instant:
// with no fluent move running, the region is written and OnComplete has run
// by the time MoveTo returns. A running fluent move is stopped first and
// its OnComplete runs before the jump, which then lands within one
// AnimationStep. With Fluent the region is interpolated in the background.
// A later MoveTo supersedes this one.
//
// An edit drag owns the region: moves requested during a drag are ignored
// and only their OnComplete runs.
// The returned channel is closed once the move has ended.
func (b *Button) MoveTo(target Region, opts ...AnimOption) <-chan struct{} {
	o := newAnimOptions(opts)
	b.mu.RLock()
	dragging := b.dragging
	b.mu.RUnlock()
	if dragging {
		logger.Debug("move ignored during edit drag", "button", b.text)
		return b.move.launchNow(func(uint64) {}, o.onComplete)
	}

	if !o.fluent {
		return b.move.launchNow(func(gen uint64) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.move.current(gen) && !b.dragging {
				b.region = target
			}
		}, o.onComplete)
	}

	clk := b.clock
	return b.move.launch(func(ctx context.Context, gen uint64) {
		last := clk.Now()
		tick, stop := clk.Tick(AnimationStep)
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick:
				now := clk.Now()
				dt := now.Sub(last)
				last = now
				if b.stepMove(gen, target, o.speed, dt) {
					return
				}
			}
		}
	}, o.onComplete)
}

// stepMove advances a fluent move by dt. Returns true when the move is over,
// either because it arrived or because a newer mutator or a drag took over.
func (b *Button) stepMove(gen uint64, target Region, speed float32, dt time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dragging || !b.move.current(gen) {
		return true
	}
	next, arrived := stepFluentMove(b.region, target, speed, dt)
	b.region = next
	return arrived
}

// FadeOut fades the alpha from 255 to 0 (or the AlphaRange given) over d
// in the background. A later FadeOut or SetAlpha supersedes this one.
// The returned channel is closed once the fade has ended.
func (b *Button) FadeOut(d time.Duration, opts ...AnimOption) <-chan struct{} {
	o := newAnimOptions(opts)
	clk := b.clock
	return b.fade.launch(func(ctx context.Context, gen uint64) {
		start := clk.Now()
		if !b.setAlpha(gen, o.startAlpha) {
			return
		}
		if d <= 0 {
			b.setAlpha(gen, o.endAlpha)
			return
		}
		tick, stop := clk.Tick(AnimationStep)
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick:
				a, finished := fadeAlpha(o.startAlpha, o.endAlpha, clk.Now().Sub(start), d)
				if !b.setAlpha(gen, a) || finished {
					return
				}
			}
		}
	}, o.onComplete)
}

func (b *Button) setAlpha(gen uint64, a uint8) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.fade.current(gen) {
		return false
	}
	b.alpha = a
	return true
}

// StopMove requests the fluent move in flight to stop where it is.
func (b *Button) StopMove() { b.move.stop() }

// StopFade requests the fade in flight to stop where it is.
func (b *Button) StopFade() { b.fade.stop() }

// IsMoving returns true while a fluent move task is running.
func (b *Button) IsMoving() bool { return b.move.running() }

// IsFading returns true while a fade task is running.
func (b *Button) IsFading() bool { return b.fade.running() }

// Draw adds the fill, bitmap and label to dl. alpha is the caller's
// opacity (for screen transitions), combined with the fade alpha.
// Resources that are not loaded are skipped.
func (b *Button) Draw(dl *DrawList, alpha uint8) {
	b.mu.RLock()
	r := b.region
	fade := b.alpha
	b.mu.RUnlock()

	a := uint8(uint32(alpha) * uint32(fade) / 255)
	if a == 0 {
		return
	}

	if b.showFill {
		dl.AddRect(r, WithAlpha(b.style.FillColor, a))
	}
	if b.showBitmap {
		if bm, ok := b.env.bitmap(b.bitmapID); ok {
			dl.AddImage(bm.TextureID(), r, WithAlpha(ColorWhite, a))
		}
	}
	if b.showText && b.text != "" {
		b.drawText(dl, r, a)
	}
}

func (b *Button) drawText(dl *DrawList, r Region, a uint8) {
	f, ok := b.env.font(b.fontID)
	if !ok && b.fontID != DefaultFont {
		f, ok = b.env.font(DefaultFont)
	}
	if !ok {
		return
	}

	scale := b.style.FontScale
	if scale <= 0 {
		scale = 1
	}
	size := f.MeasureText(b.text, scale)
	x := r.X + b.style.TextPad
	if b.style.TextCenter {
		x = r.X + (r.W-size.X)/2
	}
	y := r.Y + (r.H-size.Y)/2

	dl.AddGlyphQuads(f.TextureID(), f.GlyphQuads(b.text, x, y, scale), WithAlpha(b.style.TextColor, a))
}

// DrawEditOverlay draws the edit border, handles and, during a drag, the
// active snap guides. It draws nothing outside edit mode.
func (b *Button) DrawEditOverlay(dl *DrawList) {
	if !b.editor.Enabled() {
		return
	}
	b.mu.RLock()
	r := b.region
	guides := b.guides
	b.mu.RUnlock()

	b.editor.UpdateHandles(r)
	s := b.editStyle
	dl.AddRectOutline(r, s.BorderColor, s.BorderWidth)
	for _, h := range b.editor.Handles() {
		if h.Visible {
			dl.AddRect(h.Region, s.HandleColor)
		}
	}

	if !b.editor.Dragging() {
		return
	}
	for _, g := range guides {
		dl.AddLine(g.X1, g.Y1, g.X2, g.Y2, s.GlowColor, 5)
		dl.AddLine(g.X1, g.Y1, g.X2, g.Y2, s.GuideColor, 1.5)
	}
}
