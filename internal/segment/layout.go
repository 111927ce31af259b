package segment

import (
	"math"

	"inventory-scanner/pkg/geometry"
)

// MinSlotSize is the smallest edge length accepted for a manually added slot.
const MinSlotSize = 10

// UniformCellScale is the growth factor applied by ExpandToUniformCells.
// Detection tends to clip slot borders; 1.35x of the median cell recovers them.
const UniformCellScale = 1.35

// Layout is a live, editable list of slot rectangles. The host lets the
// user correct detections (add, remove, normalize) before the layout is
// frozen and submitted for analysis.
type Layout struct {
	rects []geometry.RectInt
}

// NewLayout creates a layout from detected rectangles.
func NewLayout(rects []geometry.RectInt) *Layout {
	l := &Layout{rects: make([]geometry.RectInt, len(rects))}
	copy(l.rects, rects)
	return l
}

// Rects returns a copy of the current rectangles.
func (l *Layout) Rects() []geometry.RectInt {
	out := make([]geometry.RectInt, len(l.rects))
	copy(out, l.rects)
	return out
}

// Len returns the number of slots in the layout.
func (l *Layout) Len() int {
	return len(l.rects)
}

// Add appends a slot rectangle. Rectangles smaller than MinSlotSize on
// either edge are rejected.
func (l *Layout) Add(r geometry.RectInt) bool {
	if r.Width < MinSlotSize || r.Height < MinSlotSize {
		return false
	}
	l.rects = append(l.rects, r)
	return true
}

// RemoveAt deletes the topmost rectangle containing the point. The most
// recently added rectangle counts as topmost. Returns false if no
// rectangle contains the point.
func (l *Layout) RemoveAt(p geometry.PointInt) bool {
	for i := len(l.rects) - 1; i >= 0; i-- {
		if l.rects[i].Contains(p) {
			l.rects = append(l.rects[:i], l.rects[i+1:]...)
			return true
		}
	}
	return false
}

// ExpandToUniformCells replaces every rectangle with one of the same
// center sized to the median cell times UniformCellScale.
func (l *Layout) ExpandToUniformCells() {
	if len(l.rects) == 0 {
		return
	}

	cellW := medianInt(l.rects, func(r geometry.RectInt) int { return r.Width })
	cellH := medianInt(l.rects, func(r geometry.RectInt) int { return r.Height })

	w := int(math.Round(float64(cellW) * UniformCellScale))
	h := int(math.Round(float64(cellH) * UniformCellScale))

	for i, r := range l.rects {
		c := r.Center()
		l.rects[i] = geometry.RectInt{
			X:      int(math.Round(c.X - float64(w)/2)),
			Y:      int(math.Round(c.Y - float64(h)/2)),
			Width:  w,
			Height: h,
		}
	}
}
