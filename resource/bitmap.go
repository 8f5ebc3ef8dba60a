package resource

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"

	_ "golang.org/x/image/bmp" // Register BMP decoder
	"golang.org/x/image/draw"

	"github.com/go-theft-auto/uikit"
)

// MaxBitmapSize is the largest width or height uploaded. Larger images are
// scaled down, keeping their aspect ratio.
const MaxBitmapSize = 4096

// Bitmap is an uploaded image.
type Bitmap struct {
	texture uint32
	width   int
	height  int
}

// TextureID returns the GPU texture.
func (b *Bitmap) TextureID() uint32 { return b.texture }

// Size returns the pixel size of the uploaded image.
func (b *Bitmap) Size() uikit.Vec2 {
	return uikit.Vec2{X: float32(b.width), Y: float32(b.height)}
}

// decodeBitmap decodes a PNG, JPEG or BMP image into tightly packed RGBA.
func decodeBitmap(r io.Reader) (*image.RGBA, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	rgba := toRGBA(img)
	if rgba.Rect.Dx() == 0 || rgba.Rect.Dy() == 0 {
		return nil, fmt.Errorf("decode %s image: empty", format)
	}
	return rgba, nil
}

// toRGBA converts img to an *image.RGBA with origin (0, 0), scaling it
// down if it exceeds MaxBitmapSize.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if w > MaxBitmapSize || h > MaxBitmapSize {
		scale := float64(MaxBitmapSize) / float64(max(w, h))
		sw, sh := max(int(float64(w)*scale), 1), max(int(float64(h)*scale), 1)
		dst := image.NewRGBA(image.Rect(0, 0, sw, sh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return dst
}
