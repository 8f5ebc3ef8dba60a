package uikit_test

import (
	"slices"
	"testing"

	"github.com/go-theft-auto/uikit"
)

type fakeBitmap struct {
	tex  uint32
	size uikit.Vec2
}

func (b fakeBitmap) TextureID() uint32 { return b.tex }
func (b fakeBitmap) Size() uikit.Vec2 { return b.size }

// fakeFont lays out 8x16 cells, one quad per rune.
type fakeFont struct{ tex uint32 }

func (f fakeFont) TextureID() uint32 { return f.tex }
func (f fakeFont) HasGlyph(r rune) bool { return true }
func (f fakeFont) LineHeight(s float32) float32 { return 16 * s }

func (f fakeFont) MeasureText(text string, scale float32) uikit.Vec2 {
	return uikit.Vec2{X: float32(len([]rune(text))) * 8 * scale, Y: 16 * scale}
}

func (f fakeFont) GlyphQuads(text string, x, y, scale float32) []uikit.GlyphQuad {
	var quads []uikit.GlyphQuad
	for i := range []rune(text) {
		x0 := x + float32(i)*8*scale
		quads = append(quads, uikit.GlyphQuad{X0: x0, Y0: y, X1: x0 + 8*scale, Y1: y + 16*scale, U1: 1, V1: 1})
	}
	return quads
}

type fakeResources struct {
	bitmaps map[uikit.BitmapID]uikit.Bitmap
	fonts   map[uikit.FontID]uikit.Font
}

func (r *fakeResources) Bitmap(id uikit.BitmapID) (uikit.Bitmap, bool) {
	b, ok := r.bitmaps[id]
	return b, ok
}

func (r *fakeResources) Font(id uikit.FontID) (uikit.Font, bool) {
	f, ok := r.fonts[id]
	return f, ok
}

type fakeSound struct{ played []uikit.SoundID }

func (s *fakeSound) PlaySound(id uikit.SoundID) { s.played = append(s.played, id) }

func newTestEnv() (*uikit.Env, *fakeSound, *uikit.MapStore) {
	sound := &fakeSound{}
	store := uikit.NewMapStore()
	env := &uikit.Env{
		Resources: &fakeResources{
			bitmaps: map[uikit.BitmapID]uikit.Bitmap{"exit": fakeBitmap{tex: 3, size: uikit.Vec2{X: 200, Y: 100}}},
			fonts:   map[uikit.FontID]uikit.Font{uikit.DefaultFont: fakeFont{tex: 7}},
		},
		Config: store,
		Sound:  sound,
	}
	env.SetViewport(uikit.Region{W: 800, H: 600})
	return env, sound, store
}

// drag runs a full edit gesture from one point to another.
func drag(b *uikit.Button, from, to uikit.Vec2) {
	b.OnEditMouseDown(from)
	b.OnEditMouseMove(to)
	b.OnEditMouseUp(to)
}

func TestButtonClick(t *testing.T) {
	env, sound, _ := newTestEnv()
	b := uikit.NewButton(env, "Play", uikit.Region{X: 10, Y: 10, W: 100, H: 40})
	b.SetSound("click")
	clicks := 0
	b.SetOnClick(func() { clicks++ })

	if !b.PointerDown(uikit.Vec2{X: 50, Y: 30}) {
		t.Fatal("pointer down inside should be consumed")
	}
	if !b.PointerUp(uikit.Vec2{X: 55, Y: 30}) {
		t.Fatal("pointer up after a press should be consumed")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if !slices.Equal(sound.played, []uikit.SoundID{"click"}) {
		t.Errorf("played = %v, want [click]", sound.played)
	}
}

func TestButtonReleaseOutsideDoesNotClick(t *testing.T) {
	b := uikit.NewButton(nil, "Play", uikit.Region{X: 10, Y: 10, W: 100, H: 40})
	clicks := 0
	b.SetOnClick(func() { clicks++ })

	b.PointerDown(uikit.Vec2{X: 50, Y: 30})
	if !b.PointerUp(uikit.Vec2{X: 500, Y: 30}) {
		t.Error("release of a pressed button should be consumed")
	}
	if clicks != 0 {
		t.Error("release outside must not click")
	}
	if b.PointerUp(uikit.Vec2{X: 50, Y: 30}) {
		t.Error("second release without a press must not be consumed")
	}
}

func TestButtonDisabled(t *testing.T) {
	b := uikit.NewButton(nil, "Play", uikit.Region{W: 100, H: 40})
	clicks := 0
	b.SetOnClick(func() { clicks++ })

	b.PointerDown(uikit.Vec2{X: 5, Y: 5})
	b.SetEnabled(false)
	b.PointerUp(uikit.Vec2{X: 5, Y: 5})
	if b.PointerDown(uikit.Vec2{X: 5, Y: 5}) {
		t.Error("disabled button must ignore presses")
	}
	if clicks != 0 {
		t.Errorf("clicks = %d, want 0", clicks)
	}
}

func TestButtonRegionRoundTrip(t *testing.T) {
	env, _, _ := newTestEnv()
	initial := uikit.Region{X: 100, Y: 100, W: 120, H: 40}

	b := uikit.NewButton(env, "Exit", initial)
	b.SetRegionKey("ui_region_exit")
	if b.Region() != initial {
		t.Fatalf("missing key should keep the region, got %+v", b.Region())
	}

	saved := uikit.Region{X: 333.5, Y: 12, W: 80.25, H: 30}
	b.SetRegion(saved)
	if err := b.SaveRegionToConfig(); err != nil {
		t.Fatal(err)
	}
	b.SetRegion(initial)
	b.ResetRegion()
	if b.Region() != saved {
		t.Errorf("ResetRegion = %+v, want %+v", b.Region(), saved)
	}

	other := uikit.NewButton(env, "Exit", initial)
	other.SetRegionKey("ui_region_exit")
	if other.Region() != saved {
		t.Errorf("new button with the same key = %+v, want %+v", other.Region(), saved)
	}
}

func TestButtonEditCommit(t *testing.T) {
	env, _, store := newTestEnv()
	b := uikit.NewButton(env, "Exit", uikit.Region{X: 100, Y: 100, W: 120, H: 40})
	b.SetRegionKey("ui_region_exit")
	b.SetSnapConfig(uikit.SnapConfig{})
	b.SetEditMode(true)

	var completed []uikit.Region
	b.SetOnEditComplete(func(r uikit.Region) { completed = append(completed, r) })

	drag(b, uikit.Vec2{X: 150, Y: 120}, uikit.Vec2{X: 175, Y: 130})

	want := uikit.Region{X: 125, Y: 110, W: 120, H: 40}
	if b.Region() != want {
		t.Errorf("region = %+v, want %+v", b.Region(), want)
	}
	if len(completed) != 1 || completed[0] != want {
		t.Errorf("edit complete calls = %v, want one with %+v", completed, want)
	}
	if got := uikit.LoadOr(store, "ui_region_exit", uikit.Region{}); got != want {
		t.Errorf("stored region = %+v, want %+v", got, want)
	}
	if b.Editing() {
		t.Error("drag should be over")
	}
}

func TestButtonCancelEdit(t *testing.T) {
	env, _, store := newTestEnv()
	orig := uikit.Region{X: 100, Y: 100, W: 120, H: 40}
	b := uikit.NewButton(env, "Exit", orig)
	b.SetRegionKey("ui_region_exit")
	b.SetEditMode(true)
	calls := 0
	b.SetOnEditComplete(func(uikit.Region) { calls++ })

	b.OnEditMouseDown(uikit.Vec2{X: 150, Y: 120})
	b.OnEditMouseMove(uikit.Vec2{X: 400, Y: 300})
	if b.Region() == orig {
		t.Fatal("live preview should move the region")
	}
	if !b.CancelEdit() {
		t.Fatal("CancelEdit should report a cancelled drag")
	}
	if b.Region() != orig {
		t.Errorf("region = %+v, want %+v", b.Region(), orig)
	}
	if calls != 0 {
		t.Error("cancel must not run the edit-complete function")
	}
	if ok, _ := store.Load("ui_region_exit", new(uikit.Region)); ok {
		t.Error("cancel must not save")
	}
	if b.OnEditMouseUp(uikit.Vec2{X: 400, Y: 300}) {
		t.Error("mouse up after cancel must be ignored")
	}
}

func TestButtonEditHandlePrecedence(t *testing.T) {
	b := uikit.NewButton(nil, "b", uikit.Region{X: 100, Y: 100, W: 200, H: 100})
	if b.EditModeAt(uikit.Vec2{X: 299, Y: 199}) != uikit.EditNone {
		t.Error("no edit mode outside edit mode")
	}
	b.SetEditMode(true)
	if got := b.EditModeAt(uikit.Vec2{X: 299, Y: 199}); got != uikit.EditResizeBottomRight {
		t.Errorf("corner = %v, want %v", got, uikit.EditResizeBottomRight)
	}
	if !b.OnEditMouseDown(uikit.Vec2{X: 299, Y: 199}) || b.CurrentEditMode() != uikit.EditResizeBottomRight {
		t.Errorf("drag mode = %v, want resize", b.CurrentEditMode())
	}
}

func TestButtonEditMinSize(t *testing.T) {
	b := uikit.NewButton(nil, "b", uikit.Region{X: 100, Y: 100, W: 200, H: 100})
	b.SetSnapConfig(uikit.SnapConfig{})
	b.SetMinSize(40, 30)
	b.SetEditMode(true)

	drag(b, uikit.Vec2{X: 300, Y: 200}, uikit.Vec2{X: -500, Y: -500})

	r := b.Region()
	if r.W != 40 || r.H != 30 || r.X != 100 || r.Y != 100 {
		t.Errorf("region = %+v, want 40x30 anchored at (100, 100)", r)
	}
}

func TestButtonEditSnapsToSibling(t *testing.T) {
	a := uikit.NewButton(nil, "a", uikit.Region{X: 100, Y: 400, W: 100, H: 40})
	b := uikit.NewButton(nil, "b", uikit.Region{X: 300, Y: 100, W: 100, H: 40})
	siblings := []*uikit.Button{a, b}
	b.SetSiblings(siblings)
	b.SetSnapConfig(uikit.SnapConfig{ButtonAlign: true, ButtonAlignThreshold: 8})
	b.SetEditMode(true)

	// Move b so its left edge lands 5px right of a's.
	drag(b, uikit.Vec2{X: 350, Y: 120}, uikit.Vec2{X: 155, Y: 120})
	if got := b.Region().X; got != 100 {
		t.Errorf("X = %v, want 100 (aligned with a)", got)
	}
}

func TestButtonAspectSnapUsesBitmap(t *testing.T) {
	env, _, _ := newTestEnv()
	b := uikit.NewButton(env, "b", uikit.Region{X: 0, Y: 0, W: 200, H: 100})
	if !b.SetBitmap("exit") {
		t.Fatal("bitmap should be loaded")
	}
	if ar, ok := b.ImageAspectRatio(); !ok || ar != 2 {
		t.Fatalf("aspect = %v, %v; want 2", ar, ok)
	}
	b.SetSnapConfig(uikit.SnapConfig{AspectRatio: true, AspectRatioThreshold: 0.2})
	b.SetEditMode(true)

	// Stretch the right edge by 10: 210x100 snaps to 210x105.
	drag(b, uikit.Vec2{X: 200, Y: 50}, uikit.Vec2{X: 210, Y: 50})
	if got := b.Region(); got.W != 210 || got.H != 105 {
		t.Errorf("region = %+v, want 210x105", got)
	}

	if b.SetBitmap("missing") {
		t.Error("missing bitmap should report false")
	}
	if _, ok := b.ImageAspectRatio(); ok {
		t.Error("missing bitmap should clear the aspect ratio")
	}
}

func TestButtonCustomSnapPoints(t *testing.T) {
	b := uikit.NewButton(nil, "b", uikit.Region{W: 10, H: 10})
	b.AddCustomSnapX(10)
	b.AddCustomSnapX(12)
	b.AddCustomSnapX(10)
	if got := b.CustomSnapX(); !slices.Equal(got, []float32{10, 12}) {
		t.Errorf("CustomSnapX = %v, want [10 12]", got)
	}
	b.RemoveCustomSnapX(10)
	if got := b.CustomSnapX(); !slices.Equal(got, []float32{12}) {
		t.Errorf("after remove = %v, want [12]", got)
	}
	b.AddCustomSnapY(5)
	b.ClearCustomSnapY()
	if len(b.CustomSnapY()) != 0 {
		t.Error("ClearCustomSnapY should remove every point")
	}
}

func TestButtonDraw(t *testing.T) {
	env, _, _ := newTestEnv()
	b := uikit.NewButton(env, "Hi", uikit.Region{X: 0, Y: 0, W: 100, H: 40})
	b.SetBitmap("exit")
	b.SetShowFill(true)

	dl := uikit.AcquireDrawList()
	defer uikit.ReleaseDrawList(dl)
	b.Draw(dl, 255)
	dl.Finalize()

	var textures []uint32
	for _, cmd := range dl.CmdBuffer {
		textures = append(textures, cmd.TextureID)
	}
	if !slices.Equal(textures, []uint32{0, 3, 7}) {
		t.Errorf("draw textures = %v, want fill, bitmap, font [0 3 7]", textures)
	}
	if len(dl.VtxBuffer) != 4*4 {
		t.Errorf("got %d vertices, want 4 quads", len(dl.VtxBuffer))
	}
}

func TestButtonDrawSkipsMissingResources(t *testing.T) {
	b := uikit.NewButton(&uikit.Env{}, "Hi", uikit.Region{W: 100, H: 40})
	b.SetBitmap("exit")

	dl := uikit.AcquireDrawList()
	defer uikit.ReleaseDrawList(dl)
	b.Draw(dl, 255)
	if len(dl.VtxBuffer) != 0 {
		t.Errorf("nothing is loaded, got %d vertices", len(dl.VtxBuffer))
	}
}

func TestButtonDrawFadedOut(t *testing.T) {
	env, _, _ := newTestEnv()
	b := uikit.NewButton(env, "Hi", uikit.Region{W: 100, H: 40})
	b.SetShowFill(true)
	b.SetAlpha(0)

	dl := uikit.AcquireDrawList()
	defer uikit.ReleaseDrawList(dl)
	b.Draw(dl, 255)
	if len(dl.VtxBuffer) != 0 {
		t.Errorf("transparent button drew %d vertices", len(dl.VtxBuffer))
	}
}

func TestButtonEditOverlay(t *testing.T) {
	b := uikit.NewButton(nil, "b", uikit.Region{X: 10, Y: 10, W: 100, H: 40})
	dl := uikit.AcquireDrawList()
	defer uikit.ReleaseDrawList(dl)

	b.DrawEditOverlay(dl)
	if len(dl.VtxBuffer) != 0 {
		t.Fatal("overlay outside edit mode should draw nothing")
	}

	b.SetEditMode(true)
	b.DrawEditOverlay(dl)
	// Four border lines and eight handles.
	if got := len(dl.VtxBuffer); got != 12*4 {
		t.Errorf("got %d vertices, want %d", got, 12*4)
	}
}
