package uikit

import "math"

// Vec2 represents a 2D vector for positions and deltas.
type Vec2 struct {
	X, Y float32
}

// Add returns the sum of two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Region is an axis-aligned rectangle with position and size.
// Regions are values; editing and animation produce new ones.
type Region struct {
	X float32 `yaml:"x"` // Left
	Y float32 `yaml:"y"` // Top
	W float32 `yaml:"w"`
	H float32 `yaml:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Region) Right() float32 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Region) Bottom() float32 { return r.Y + r.H }

// Center returns the center point.
func (r Region) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Aspect returns width/height, or 0 for a region without height.
func (r Region) Aspect() float32 {
	if r.H == 0 {
		return 0
	}
	return r.W / r.H
}

// Contains returns true if the point is inside the region.
func (r Region) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Lerp interpolates every component toward to by t in [0, 1].
func (r Region) Lerp(to Region, t float32) Region {
	return Region{
		X: r.X + (to.X-r.X)*t,
		Y: r.Y + (to.Y-r.Y)*t,
		W: r.W + (to.W-r.W)*t,
		H: r.H + (to.H-r.H)*t,
	}
}

// distance returns the euclidean distance between two regions treated as
// points in (x, y, w, h) space.
func (r Region) distance(to Region) float32 {
	dx, dy := float64(to.X-r.X), float64(to.Y-r.Y)
	dw, dh := float64(to.W-r.W), float64(to.H-r.H)
	return float32(math.Sqrt(dx*dx + dy*dy + dw*dw + dh*dh))
}

// ApproxEqual reports whether every component differs by at most eps.
func (r Region) ApproxEqual(other Region, eps float32) bool {
	return absf32(r.X-other.X) <= eps && absf32(r.Y-other.Y) <= eps &&
		absf32(r.W-other.W) <= eps && absf32(r.H-other.H) <= eps
}

// Vertex represents a vertex for UI rendering.
// Memory layout matches OpenGL vertex attribute expectations.
type Vertex struct {
	Pos      [2]float32 // Position (x, y)
	TexCoord [2]float32 // Texture coordinates (u, v)
	Color    uint32     // RGBA packed color
}

// DrawCmd represents a single draw command.
// Commands are batched by texture to minimize state changes.
type DrawCmd struct {
	ElemCount    uint32 // Number of indices to draw
	TextureID    uint32 // OpenGL texture ID (0 = no texture)
	VertexOffset uint32 // Offset into vertex buffer
	IndexOffset  uint32 // Offset into index buffer
}

// Color constants (RGBA packed as 0xAABBGGRR for OpenGL compatibility)
const (
	ColorWhite       uint32 = 0xFFFFFFFF
	ColorBlack       uint32 = 0xFF000000
	ColorRed         uint32 = 0xFF0000FF
	ColorTransparent uint32 = 0x00000000
)

// RGBA creates a packed color from individual components (0-255).
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// UnpackRGBA extracts RGBA components from a packed color.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// WithAlpha scales the alpha channel of c by alpha/255.
func WithAlpha(c uint32, alpha uint8) uint32 {
	r, g, b, a := UnpackRGBA(c)
	return RGBA(r, g, b, uint8(uint32(a)*uint32(alpha)/255))
}

func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
