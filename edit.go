package uikit

import "fmt"

// EditMode identifies what a pointer drag does to a widget's region.
type EditMode int

const (
	EditNone EditMode = iota
	EditMove
	EditResizeTopLeft
	EditResizeTopRight
	EditResizeBottomLeft
	EditResizeBottomRight
	EditResizeLeft
	EditResizeRight
	EditResizeTop
	EditResizeBottom
)

// String returns the mode name.
func (m EditMode) String() string {
	switch m {
	case EditNone:
		return "none"
	case EditMove:
		return "move"
	case EditResizeTopLeft:
		return "resize-top-left"
	case EditResizeTopRight:
		return "resize-top-right"
	case EditResizeBottomLeft:
		return "resize-bottom-left"
	case EditResizeBottomRight:
		return "resize-bottom-right"
	case EditResizeLeft:
		return "resize-left"
	case EditResizeRight:
		return "resize-right"
	case EditResizeTop:
		return "resize-top"
	case EditResizeBottom:
		return "resize-bottom"
	default:
		return fmt.Sprintf("EditMode(%d)", int(m))
	}
}

// Edge is a bitmask of region edges.
type Edge uint8

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom

	EdgeNone Edge = 0
	EdgeAll       = EdgeLeft | EdgeRight | EdgeTop | EdgeBottom
)

// Edges returns the edges a drag in this mode moves.
// Move moves all four; None moves nothing.
func (m EditMode) Edges() Edge {
	switch m {
	case EditMove:
		return EdgeAll
	case EditResizeTopLeft:
		return EdgeTop | EdgeLeft
	case EditResizeTopRight:
		return EdgeTop | EdgeRight
	case EditResizeBottomLeft:
		return EdgeBottom | EdgeLeft
	case EditResizeBottomRight:
		return EdgeBottom | EdgeRight
	case EditResizeLeft:
		return EdgeLeft
	case EditResizeRight:
		return EdgeRight
	case EditResizeTop:
		return EdgeTop
	case EditResizeBottom:
		return EdgeBottom
	default:
		return EdgeNone
	}
}

// IsResize returns true for the eight resize modes.
func (m EditMode) IsResize() bool {
	return m >= EditResizeTopLeft && m <= EditResizeBottom
}

// EditHandle is a small hit-test area at a corner or edge of a widget.
type EditHandle struct {
	Region  Region
	Mode    EditMode
	Visible bool
}

// DefaultEditHandleSize is the side length of an edit handle in pixels.
const DefaultEditHandleSize float32 = 8

// Default minimum size of an edited region.
const (
	DefaultMinWidth  float32 = 10
	DefaultMinHeight float32 = 10
)

// Editor is the pointer-driven drag/resize state machine of one widget.
//
//	Idle --SetEnabled(true)--> Ready --Begin--> Dragging(mode)
//	  ^                          |  ^              |
//	  +----SetEnabled(false)-----+  +-----End------+
//
// The editor never mutates a widget itself: it derives candidate regions
// from a snapshot taken at Begin, and the owner commits them.
type Editor struct {
	enabled    bool
	mode       EditMode
	dragging   bool
	dragStart  Vec2
	original   Region
	handles    [8]EditHandle
	handleSize float32
	minW, minH float32
}

// NewEditor creates an idle editor with default handle and minimum sizes.
func NewEditor() *Editor {
	return &Editor{
		handleSize: DefaultEditHandleSize,
		minW:       DefaultMinWidth,
		minH:       DefaultMinHeight,
	}
}

// SetEnabled enters or leaves edit mode. Leaving cancels any drag.
func (e *Editor) SetEnabled(enable bool, region Region) {
	e.enabled = enable
	if !enable {
		e.dragging = false
		e.mode = EditNone
	}
	e.UpdateHandles(region)
}

// Enabled returns true while edit mode is on.
func (e *Editor) Enabled() bool { return e.enabled }

// Dragging returns true between Begin and End.
func (e *Editor) Dragging() bool { return e.dragging }

// Mode returns the active edit mode (EditNone when not dragging).
func (e *Editor) Mode() EditMode { return e.mode }

// Original returns the region snapshot taken when the drag began.
func (e *Editor) Original() Region { return e.original }

// SetHandleSize sets the handle side length and recomputes handles.
func (e *Editor) SetHandleSize(size float32, region Region) {
	if size > 0 {
		e.handleSize = size
	}
	e.UpdateHandles(region)
}

// HandleSize returns the handle side length.
func (e *Editor) HandleSize() float32 { return e.handleSize }

// SetMinSize sets the minimum width and height enforced by Clamp.
func (e *Editor) SetMinSize(w, h float32) {
	e.minW = max(w, 0)
	e.minH = max(h, 0)
}

// MinSize returns the minimum width and height.
func (e *Editor) MinSize() (w, h float32) { return e.minW, e.minH }

// Handles returns the current edit handles.
func (e *Editor) Handles() []EditHandle { return e.handles[:] }

// UpdateHandles positions the eight resize handles around region.
// Corners come first so they win hit-tests over the edges they touch.
func (e *Editor) UpdateHandles(region Region) {
	s := e.handleSize
	left, right := region.X, region.Right()
	top, bottom := region.Y, region.Bottom()
	cx, cy := region.Center().X, region.Center().Y

	at := func(x, y float32, mode EditMode) EditHandle {
		return EditHandle{
			Region:  Region{X: x - s/2, Y: y - s/2, W: s, H: s},
			Mode:    mode,
			Visible: e.enabled,
		}
	}
	e.handles = [8]EditHandle{
		at(left, top, EditResizeTopLeft),
		at(right, top, EditResizeTopRight),
		at(left, bottom, EditResizeBottomLeft),
		at(right, bottom, EditResizeBottomRight),
		at(left, cy, EditResizeLeft),
		at(right, cy, EditResizeRight),
		at(cx, top, EditResizeTop),
		at(cx, bottom, EditResizeBottom),
	}
}

// ModeAt returns the mode a pointer-down at p would start.
// Visible handles are tested before the body.
func (e *Editor) ModeAt(p Vec2, region Region) EditMode {
	for _, h := range e.handles {
		if h.Visible && h.Region.Contains(p) {
			return h.Mode
		}
	}
	if region.Contains(p) {
		return EditMove
	}
	return EditNone
}

// Begin starts a drag if p hits a handle or the body of region.
// Returns false when edit mode is off or nothing was hit.
func (e *Editor) Begin(p Vec2, region Region) bool {
	if !e.enabled || e.dragging {
		return false
	}
	mode := e.ModeAt(p, region)
	if mode == EditNone {
		return false
	}
	e.mode = mode
	e.dragging = true
	e.dragStart = p
	e.original = region
	return true
}

// Candidate derives the clamped, unsnapped region for pointer position p.
func (e *Editor) Candidate(p Vec2) Region {
	if !e.dragging {
		return e.original
	}
	d := p.Sub(e.dragStart)
	r := e.original

	if e.mode == EditMove {
		r.X += d.X
		r.Y += d.Y
		return r
	}

	edges := e.mode.Edges()
	if edges&EdgeLeft != 0 {
		r.X += d.X
		r.W -= d.X
	}
	if edges&EdgeRight != 0 {
		r.W += d.X
	}
	if edges&EdgeTop != 0 {
		r.Y += d.Y
		r.H -= d.Y
	}
	if edges&EdgeBottom != 0 {
		r.H += d.Y
	}
	return e.Clamp(r)
}

// Clamp floors width and height to the minimum size by moving the edge the
// active mode drags, so the anchored edge stays where it is.
func (e *Editor) Clamp(r Region) Region {
	edges := e.mode.Edges()
	if r.W < e.minW {
		if edges&EdgeLeft != 0 && e.mode != EditMove {
			r.X = r.Right() - e.minW
		}
		r.W = e.minW
	}
	if r.H < e.minH {
		if edges&EdgeTop != 0 && e.mode != EditMove {
			r.Y = r.Bottom() - e.minH
		}
		r.H = e.minH
	}
	return r
}

// End finishes the drag and returns to the ready state.
// Returns false if no drag was in progress.
func (e *Editor) End() bool {
	if !e.dragging {
		return false
	}
	e.dragging = false
	e.mode = EditNone
	return true
}
