package resource

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/go-theft-auto/uikit"
)

// Atlas layout.
const (
	atlasWidth   = 512
	atlasPadding = 1
	firstRune    = 0x20
	lastRune     = 0xFF
	fallbackRune = '?'
)

// DefaultFontSize is the pixel size used when a font spec sets none.
const DefaultFontSize = 24

type glyph struct {
	// Quad corners relative to the pen position on the baseline.
	x0, y0, x1, y1 float32
	u0, v0, u1, v1 float32
	advance        float32
}

// Font is a rasterized font with its glyphs packed into one alpha texture.
type Font struct {
	texture    uint32
	glyphs     map[rune]glyph
	ascent     float32
	lineHeight float32
	quads      []uikit.GlyphQuad
}

var _ uikit.Font = (*Font)(nil)

// TextureID returns the glyph atlas texture.
func (f *Font) TextureID() uint32 { return f.texture }

// HasGlyph returns true if r is in the atlas.
func (f *Font) HasGlyph(r rune) bool {
	_, ok := f.glyphs[r]
	return ok
}

func (f *Font) glyph(r rune) (glyph, bool) {
	g, ok := f.glyphs[r]
	if !ok {
		g, ok = f.glyphs[fallbackRune]
	}
	return g, ok
}

// MeasureText returns the advance width and line height of text.
func (f *Font) MeasureText(text string, scale float32) uikit.Vec2 {
	var w float32
	for _, r := range text {
		if g, ok := f.glyph(r); ok {
			w += g.advance
		}
	}
	return uikit.Vec2{X: w * scale, Y: f.lineHeight * scale}
}

// GlyphQuads lays text out on one line with its top-left corner at (x, y).
// The returned slice is reused by the next call.
func (f *Font) GlyphQuads(text string, x, y, scale float32) []uikit.GlyphQuad {
	f.quads = f.quads[:0]
	pen := x
	baseline := y + f.ascent*scale
	for _, r := range text {
		g, ok := f.glyph(r)
		if !ok {
			continue
		}
		if g.x1 > g.x0 && g.y1 > g.y0 {
			f.quads = append(f.quads, uikit.GlyphQuad{
				X0: pen + g.x0*scale, Y0: baseline + g.y0*scale,
				X1: pen + g.x1*scale, Y1: baseline + g.y1*scale,
				U0: g.u0, V0: g.v0, U1: g.u1, V1: g.v1,
			})
		}
		pen += g.advance * scale
	}
	return f.quads
}

// LineHeight returns the distance between baselines.
func (f *Font) LineHeight(scale float32) float32 { return f.lineHeight * scale }

// fontAtlas is a rasterized font waiting for upload.
type fontAtlas struct {
	img        *image.Alpha
	glyphs     map[rune]glyph
	ascent     float32
	lineHeight float32
}

// rasterizeFont renders Latin-1 glyphs of the OpenType/TrueType font data
// at size pixels into a single-channel atlas.
func rasterizeFont(data []byte, size float64) (*fontAtlas, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	defer face.Close()

	type placed struct {
		r       rune
		bounds  image.Rectangle
		at      image.Point
		advance fixed.Int26_6
	}

	// First pass: measure and place glyphs in shelves.
	var glyphs []placed
	x, y, rowH := atlasPadding, atlasPadding, 0
	for r := rune(firstRune); r <= lastRune; r++ {
		bounds, advance, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		rect := image.Rect(bounds.Min.X.Floor(), bounds.Min.Y.Floor(), bounds.Max.X.Ceil(), bounds.Max.Y.Ceil())
		gw, gh := rect.Dx(), rect.Dy()
		if x+gw+atlasPadding > atlasWidth {
			x, y = atlasPadding, y+rowH+atlasPadding
			rowH = 0
		}
		glyphs = append(glyphs, placed{r: r, bounds: rect, at: image.Pt(x, y), advance: advance})
		x += gw + atlasPadding
		rowH = max(rowH, gh)
	}
	height := y + rowH + atlasPadding

	// Second pass: rasterize into the atlas.
	img := image.NewAlpha(image.Rect(0, 0, atlasWidth, height))
	out := &fontAtlas{
		img:    img,
		glyphs: make(map[rune]glyph, len(glyphs)),
	}
	m := face.Metrics()
	out.ascent = float32(m.Ascent.Ceil())
	out.lineHeight = float32(m.Height.Ceil())

	aw, ah := float32(atlasWidth), float32(height)
	for _, p := range glyphs {
		g := glyph{advance: float32(p.advance.Round())}
		if !p.bounds.Empty() {
			dr, mask, maskp, _, ok := face.Glyph(fixed.P(0, 0), p.r)
			if ok && !dr.Empty() {
				dst := image.Rectangle{Min: p.at, Max: p.at.Add(dr.Size())}
				draw.Draw(img, dst, mask, maskp, draw.Src)
				g.x0, g.y0 = float32(dr.Min.X), float32(dr.Min.Y)
				g.x1, g.y1 = float32(dr.Max.X), float32(dr.Max.Y)
				g.u0, g.v0 = float32(dst.Min.X)/aw, float32(dst.Min.Y)/ah
				g.u1, g.v1 = float32(dst.Max.X)/aw, float32(dst.Max.Y)/ah
			}
		}
		out.glyphs[p.r] = g
	}
	return out, nil
}
