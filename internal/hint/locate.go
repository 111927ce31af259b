// Package hint associates OCR words with slot rectangles to produce
// per-slot caption hints.
package hint

import (
	"sort"
	"strings"

	"inventory-scanner/internal/ocr"
	"inventory-scanner/pkg/geometry"
)

// CaptionReach extends the slot window downward by this fraction of the
// slot height. Captions print below or over the icon bottom, never above,
// so the window is deliberately asymmetric.
const CaptionReach = 0.6

// Locate returns one hint string per slot rectangle. A slot's hint is the
// join of every word whose center lies inside the slot horizontally and
// inside the downward-extended slot window vertically. Slots with no
// matching words get an empty string.
func Locate(words []ocr.Word, slots []geometry.RectInt) []string {
	hints := make([]string, len(slots))

	for i, slot := range slots {
		x1 := float64(slot.X)
		x2 := float64(slot.X + slot.Width)
		y1 := float64(slot.Y)
		y2 := float64(slot.Y+slot.Height) + CaptionReach*float64(slot.Height)

		var matched []ocr.Word
		for _, w := range words {
			c := w.Bounds.Center()
			if c.X >= x1 && c.X <= x2 && c.Y >= y1 && c.Y <= y2 {
				matched = append(matched, w)
			}
		}
		if len(matched) == 0 {
			continue
		}

		// Reading order: top to bottom, then left to right.
		sort.Slice(matched, func(a, b int) bool {
			ca, cb := matched[a].Bounds.Center(), matched[b].Bounds.Center()
			if ca.Y != cb.Y {
				return ca.Y < cb.Y
			}
			return ca.X < cb.X
		})

		parts := make([]string, len(matched))
		for j, w := range matched {
			parts[j] = w.Text
		}
		hints[i] = strings.Join(parts, " ")
	}

	return hints
}
