package uikit

import (
	"math"
	"sync"
)

// drawListPool reuses DrawList buffers between frames.
var drawListPool = sync.Pool{
	New: func() any {
		return &DrawList{
			VtxBuffer: make([]Vertex, 0, 1024),
			IdxBuffer: make([]uint16, 0, 2048),
			CmdBuffer: make([]DrawCmd, 0, 16),
		}
	},
}

// AcquireDrawList gets a cleared DrawList from the pool.
// Call ReleaseDrawList when done to return it.
func AcquireDrawList() *DrawList {
	dl := drawListPool.Get().(*DrawList)
	dl.Clear()
	return dl
}

// ReleaseDrawList returns a DrawList to the pool for reuse.
func ReleaseDrawList(dl *DrawList) {
	if dl != nil {
		drawListPool.Put(dl)
	}
}

// DrawList accumulates draw commands for a frame.
// Primitives are batched by texture to minimize GPU state changes.
type DrawList struct {
	CmdBuffer []DrawCmd
	VtxBuffer []Vertex
	IdxBuffer []uint16

	textureID    uint32 // Current texture for batching
	cmdOffset    uint32 // Vertex offset for current command
	idxCmdOffset uint32 // Index offset for current command
}

// Clear resets the DrawList, keeping allocated capacity.
func (dl *DrawList) Clear() {
	dl.CmdBuffer = dl.CmdBuffer[:0]
	dl.VtxBuffer = dl.VtxBuffer[:0]
	dl.IdxBuffer = dl.IdxBuffer[:0]
	dl.textureID = 0
	dl.cmdOffset = 0
	dl.idxCmdOffset = 0
}

// SetTexture sets the texture for subsequent primitives (0 = untextured).
func (dl *DrawList) SetTexture(textureID uint32) {
	if dl.textureID == textureID && len(dl.CmdBuffer) > 0 {
		return
	}
	dl.textureID = textureID
	dl.splitDraw()
}

// splitDraw finalizes the current command and starts a new one.
func (dl *DrawList) splitDraw() {
	if len(dl.CmdBuffer) > 0 {
		lastCmd := &dl.CmdBuffer[len(dl.CmdBuffer)-1]
		lastCmd.ElemCount = uint32(len(dl.IdxBuffer)) - dl.idxCmdOffset
	}
	dl.CmdBuffer = append(dl.CmdBuffer, DrawCmd{
		TextureID:    dl.textureID,
		VertexOffset: uint32(len(dl.VtxBuffer)),
		IndexOffset:  uint32(len(dl.IdxBuffer)),
	})
	dl.cmdOffset = uint32(len(dl.VtxBuffer))
	dl.idxCmdOffset = uint32(len(dl.IdxBuffer))
}

func (dl *DrawList) ensureCommand() {
	if len(dl.CmdBuffer) == 0 {
		dl.splitDraw()
	}
}

// addQuad appends a quad (two triangles) relative to the current command.
func (dl *DrawList) addQuad(v0, v1, v2, v3 Vertex) {
	dl.ensureCommand()
	idx := uint16(len(dl.VtxBuffer) - int(dl.cmdOffset))
	dl.VtxBuffer = append(dl.VtxBuffer, v0, v1, v2, v3)
	dl.IdxBuffer = append(dl.IdxBuffer, idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// AddRect draws a filled rectangle.
func (dl *DrawList) AddRect(r Region, color uint32) {
	if color&0xFF000000 == 0 {
		return
	}
	dl.SetTexture(0)
	dl.addQuad(
		Vertex{Pos: [2]float32{r.X, r.Y}, Color: color},
		Vertex{Pos: [2]float32{r.Right(), r.Y}, Color: color},
		Vertex{Pos: [2]float32{r.Right(), r.Bottom()}, Color: color},
		Vertex{Pos: [2]float32{r.X, r.Bottom()}, Color: color},
	)
}

// AddRectOutline draws a rectangle outline inside r.
func (dl *DrawList) AddRectOutline(r Region, color uint32, thickness float32) {
	if color&0xFF000000 == 0 {
		return
	}
	dl.AddRect(Region{X: r.X, Y: r.Y, W: r.W, H: thickness}, color)
	dl.AddRect(Region{X: r.X, Y: r.Bottom() - thickness, W: r.W, H: thickness}, color)
	dl.AddRect(Region{X: r.X, Y: r.Y + thickness, W: thickness, H: r.H - 2*thickness}, color)
	dl.AddRect(Region{X: r.Right() - thickness, Y: r.Y + thickness, W: thickness, H: r.H - 2*thickness}, color)
}

// AddLine draws a line between two points as a quad of the given thickness.
func (dl *DrawList) AddLine(x1, y1, x2, y2 float32, color uint32, thickness float32) {
	if color&0xFF000000 == 0 {
		return
	}

	dx := x2 - x1
	dy := y2 - y1
	inv := float32(1)
	if dx != 0 || dy != 0 {
		inv = float32(1 / math.Sqrt(float64(dx*dx+dy*dy)))
	}
	// Normal perpendicular to line
	nx := -dy * inv * thickness * 0.5
	ny := dx * inv * thickness * 0.5

	dl.SetTexture(0)
	dl.addQuad(
		Vertex{Pos: [2]float32{x1 + nx, y1 + ny}, Color: color},
		Vertex{Pos: [2]float32{x2 + nx, y2 + ny}, Color: color},
		Vertex{Pos: [2]float32{x2 - nx, y2 - ny}, Color: color},
		Vertex{Pos: [2]float32{x1 - nx, y1 - ny}, Color: color},
	)
}

// AddImage draws a textured rectangle tinted by color.
func (dl *DrawList) AddImage(textureID uint32, r Region, color uint32) {
	if textureID == 0 || color&0xFF000000 == 0 {
		return
	}
	dl.SetTexture(textureID)
	dl.addQuad(
		Vertex{Pos: [2]float32{r.X, r.Y}, TexCoord: [2]float32{0, 0}, Color: color},
		Vertex{Pos: [2]float32{r.Right(), r.Y}, TexCoord: [2]float32{1, 0}, Color: color},
		Vertex{Pos: [2]float32{r.Right(), r.Bottom()}, TexCoord: [2]float32{1, 1}, Color: color},
		Vertex{Pos: [2]float32{r.X, r.Bottom()}, TexCoord: [2]float32{0, 1}, Color: color},
	)
}

// GlyphQuad is a single character's screen and atlas rectangle.
type GlyphQuad struct {
	X0, Y0 float32 // Screen coordinates (top-left)
	X1, Y1 float32 // Screen coordinates (bottom-right)
	U0, V0 float32 // Texture coordinates (top-left)
	U1, V1 float32 // Texture coordinates (bottom-right)
}

// AddGlyphQuads draws glyph quads from the atlas textureID.
func (dl *DrawList) AddGlyphQuads(textureID uint32, quads []GlyphQuad, color uint32) {
	if textureID == 0 || color&0xFF000000 == 0 || len(quads) == 0 {
		return
	}
	dl.SetTexture(textureID)
	for _, q := range quads {
		dl.addQuad(
			Vertex{Pos: [2]float32{q.X0, q.Y0}, TexCoord: [2]float32{q.U0, q.V0}, Color: color},
			Vertex{Pos: [2]float32{q.X1, q.Y0}, TexCoord: [2]float32{q.U1, q.V0}, Color: color},
			Vertex{Pos: [2]float32{q.X1, q.Y1}, TexCoord: [2]float32{q.U1, q.V1}, Color: color},
			Vertex{Pos: [2]float32{q.X0, q.Y1}, TexCoord: [2]float32{q.U0, q.V1}, Color: color},
		)
	}
}

// Finalize closes the last command and drops empty ones.
// Must be called after all primitives are added.
func (dl *DrawList) Finalize() {
	if len(dl.CmdBuffer) > 0 {
		lastCmd := &dl.CmdBuffer[len(dl.CmdBuffer)-1]
		lastCmd.ElemCount = uint32(len(dl.IdxBuffer)) - dl.idxCmdOffset
	}

	filtered := dl.CmdBuffer[:0]
	for _, cmd := range dl.CmdBuffer {
		if cmd.ElemCount > 0 {
			filtered = append(filtered, cmd)
		}
	}
	dl.CmdBuffer = filtered
}
