package uikit

// SnapConfig configures the four snapping policies applied while editing.
// Each policy engages when the candidate is closer than its threshold.
type SnapConfig struct {
	AspectRatio          bool    // Snap to the bitmap's aspect ratio
	AspectRatioThreshold float32 // Max |aspect - reference| (ratio units)
	Center               bool    // Snap the center to the viewport center
	CenterThreshold      float32 // Pixels
	Custom               bool    // Snap edges to registered X/Y coordinates
	CustomThreshold      float32 // Pixels
	ButtonAlign          bool    // Snap to sibling edges and centers
	ButtonAlignThreshold float32 // Pixels
}

// DefaultSnapConfig returns a configuration with every policy enabled.
func DefaultSnapConfig() SnapConfig {
	return SnapConfig{
		AspectRatio:          true,
		AspectRatioThreshold: 0.1,
		Center:               true,
		CenterThreshold:      10,
		Custom:               true,
		CustomThreshold:      10,
		ButtonAlign:          true,
		ButtonAlignThreshold: 10,
	}
}

// SnapGuide represents a visual snap guide line.
type SnapGuide struct {
	X1, Y1, X2, Y2 float32
	Horizontal     bool
}

// SnapInput is everything the snap engine looks at for one candidate.
type SnapInput struct {
	Candidate       Region
	Mode            EditMode
	Viewport        Region    // Parent area used by center snapping
	ReferenceAspect float32   // Bitmap width/height; <= 0 means none
	CustomX         []float32 // In registration order
	CustomY         []float32
	Siblings        []Region // Other widgets, excluding the one being edited
}

// SnapResult is the adjusted candidate and which policies fired.
type SnapResult struct {
	Region      Region
	AspectRatio bool
	CenterX     bool
	CenterY     bool
	Custom      bool
	ButtonAlign bool
	Guides      []SnapGuide
}

// Snapped returns true if any policy adjusted the candidate.
func (r SnapResult) Snapped() bool {
	return r.AspectRatio || r.CenterX || r.CenterY || r.Custom || r.ButtonAlign
}

// Snap runs the enabled policies in order: aspect ratio, center, custom
// points, sibling alignment. Each policy sees the output of the previous one.
func Snap(cfg SnapConfig, in SnapInput) SnapResult {
	res := SnapResult{Region: in.Candidate}
	if in.Mode == EditNone {
		return res
	}

	if cfg.AspectRatio {
		res.Region, res.AspectRatio = snapAspect(res.Region, in.Mode, in.ReferenceAspect, cfg.AspectRatioThreshold)
	}

	if cfg.Center {
		for _, a := range axes {
			target := axisValue(in.Viewport, a, featureMid)
			r, ok := snapCenter(res.Region, in.Mode, a, target, cfg.CenterThreshold)
			if !ok {
				continue
			}
			res.Region = r
			if a == axisX {
				res.CenterX = true
			} else {
				res.CenterY = true
			}
			res.Guides = append(res.Guides, viewportGuide(in.Viewport, a, target))
		}
	}

	if cfg.Custom {
		for _, a := range axes {
			points := in.CustomX
			if a == axisY {
				points = in.CustomY
			}
			r, target, ok := snapCustom(res.Region, in.Mode, a, points, cfg.CustomThreshold)
			if !ok {
				continue
			}
			res.Region = r
			res.Custom = true
			res.Guides = append(res.Guides, viewportGuide(in.Viewport, a, target))
		}
	}

	if cfg.ButtonAlign {
		for _, a := range axes {
			r, sib, target, ok := snapAlign(res.Region, in.Mode, a, in.Siblings, cfg.ButtonAlignThreshold)
			if !ok {
				continue
			}
			res.Region = r
			res.ButtonAlign = true
			res.Guides = append(res.Guides, pairGuide(r, sib, a, target))
		}
	}

	return res
}

// snapAspect makes the candidate's aspect ratio exactly ref when it is
// within threshold. Handles that drag a vertical edge (left/right and all
// corners) keep the width; top/bottom handles keep the height.
func snapAspect(r Region, mode EditMode, ref, threshold float32) (Region, bool) {
	if ref <= 0 || !mode.IsResize() || r.W <= 0 || r.H <= 0 {
		return r, false
	}
	if absf32(r.Aspect()-ref) >= threshold {
		return r, false
	}

	edges := mode.Edges()
	if edges&(EdgeLeft|EdgeRight) != 0 {
		h := r.W / ref
		if edges&EdgeTop != 0 {
			r.Y = r.Bottom() - h
		}
		r.H = h
	} else {
		r.W = r.H * ref
	}
	return r, true
}

func snapCenter(r Region, mode EditMode, a axis, target, threshold float32) (Region, bool) {
	if absf32(axisValue(r, a, featureMid)-target) >= threshold {
		return r, false
	}
	return alignFeature(r, mode, a, featureMid, target)
}

// snapCustom snaps the closest movable edge to the closest point. Points are
// scanned in registration order and only a strictly closer match replaces the
// current best, so the first registered point wins ties.
func snapCustom(r Region, mode EditMode, a axis, points []float32, threshold float32) (Region, float32, bool) {
	feats := edgeFeatures(mode, a)
	best := threshold
	found := false
	var bestFeat feature
	var bestPoint float32

	for _, p := range points {
		for _, f := range feats {
			d := absf32(axisValue(r, a, f) - p)
			if d < best {
				best, bestFeat, bestPoint, found = d, f, p, true
			}
		}
	}
	if !found {
		return r, 0, false
	}
	out, ok := alignFeature(r, mode, a, bestFeat, bestPoint)
	return out, bestPoint, ok
}

// snapAlign snaps to the nearest sibling edge or center. Siblings are scanned
// in list order with strict comparison, so the first sibling wins ties.
func snapAlign(r Region, mode EditMode, a axis, siblings []Region, threshold float32) (Region, Region, float32, bool) {
	feats := edgeFeatures(mode, a)
	if mode == EditMove {
		feats = []feature{featureLow, featureMid, featureHigh}
	}

	best := threshold
	found := false
	var bestFeat feature
	var bestTarget float32
	var bestSib Region

	for _, sib := range siblings {
		for _, sf := range []feature{featureLow, featureMid, featureHigh} {
			target := axisValue(sib, a, sf)
			for _, f := range feats {
				d := absf32(axisValue(r, a, f) - target)
				if d < best {
					best, bestFeat, bestTarget, bestSib, found = d, f, target, sib, true
				}
			}
		}
	}
	if !found {
		return r, Region{}, 0, false
	}
	out, ok := alignFeature(r, mode, a, bestFeat, bestTarget)
	return out, bestSib, bestTarget, ok
}

type axis int

const (
	axisX axis = iota
	axisY
)

var axes = [...]axis{axisX, axisY}

// feature is a coordinate of a region along one axis.
type feature int

const (
	featureLow  feature = iota // left or top edge
	featureMid                 // center
	featureHigh                // right or bottom edge
)

func axisSpan(r Region, a axis) (lo, size float32) {
	if a == axisX {
		return r.X, r.W
	}
	return r.Y, r.H
}

func withAxisSpan(r Region, a axis, lo, size float32) Region {
	if a == axisX {
		r.X, r.W = lo, size
	} else {
		r.Y, r.H = lo, size
	}
	return r
}

func axisValue(r Region, a axis, f feature) float32 {
	lo, size := axisSpan(r, a)
	switch f {
	case featureLow:
		return lo
	case featureMid:
		return lo + size/2
	default:
		return lo + size
	}
}

// draggedEdges reports which edges of axis a the mode moves on its own.
func draggedEdges(mode EditMode, a axis) (low, high bool) {
	if mode == EditMove {
		return false, false
	}
	edges := mode.Edges()
	if a == axisX {
		return edges&EdgeLeft != 0, edges&EdgeRight != 0
	}
	return edges&EdgeTop != 0, edges&EdgeBottom != 0
}

// edgeFeatures lists the edges a mode may snap on axis a.
func edgeFeatures(mode EditMode, a axis) []feature {
	if mode == EditMove {
		return []feature{featureLow, featureHigh}
	}
	low, high := draggedEdges(mode, a)
	switch {
	case low:
		return []feature{featureLow}
	case high:
		return []feature{featureHigh}
	default:
		return nil
	}
}

// alignFeature moves feature f of r on axis a to target. A move translates
// the region; a resize only moves the dragged edge, keeping the anchor.
func alignFeature(r Region, mode EditMode, a axis, f feature, target float32) (Region, bool) {
	lo, size := axisSpan(r, a)
	hi := lo + size

	if mode == EditMove {
		return withAxisSpan(r, a, lo+target-axisValue(r, a, f), size), true
	}

	low, high := draggedEdges(mode, a)
	switch {
	case f == featureLow && low:
		lo = target
	case f == featureHigh && high:
		hi = target
	case f == featureMid && low:
		lo = 2*target - hi
	case f == featureMid && high:
		hi = 2*target - lo
	default:
		return r, false
	}
	if hi-lo <= 0 {
		return r, false
	}
	return withAxisSpan(r, a, lo, hi-lo), true
}

// viewportGuide returns a line across the viewport at coordinate v of axis a.
func viewportGuide(vp Region, a axis, v float32) SnapGuide {
	if a == axisX {
		return SnapGuide{X1: v, Y1: vp.Y, X2: v, Y2: vp.Bottom(), Horizontal: false}
	}
	return SnapGuide{X1: vp.X, Y1: v, X2: vp.Right(), Y2: v, Horizontal: true}
}

// pairGuide returns a line at coordinate v spanning both regions.
func pairGuide(r, other Region, a axis, v float32) SnapGuide {
	if a == axisX {
		return SnapGuide{
			X1: v, Y1: min(r.Y, other.Y),
			X2: v, Y2: max(r.Bottom(), other.Bottom()),
			Horizontal: false,
		}
	}
	return SnapGuide{
		X1: min(r.X, other.X), Y1: v,
		X2: max(r.Right(), other.Right()), Y2: v,
		Horizontal: true,
	}
}
