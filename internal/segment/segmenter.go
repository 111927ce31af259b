// Package segment finds candidate item-slot rectangles in inventory screenshots.
//
// The pipeline works purely from pixel statistics: binarize, dilate,
// connected-component labeling, shape filtering, fragment merging, and
// finally grid inference to recover slots the pixel stages missed.
package segment

import (
	"fmt"
	"image"
	"sort"

	"inventory-scanner/pkg/geometry"
)

// Segment finds candidate slot rectangles in a screenshot.
// The result is sorted row-major: rows grouped by center Y, then by X.
// Segmentation never fails; degenerate input yields an empty list or a
// single full-image rectangle.
func Segment(img image.Image, params Params) []geometry.RectInt {
	params = params.valid()

	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()
	if imgW <= 0 || imgH <= 0 {
		return nil
	}

	mask, w, h := binarize(img, params.LumaThreshold)
	mask = dilate(mask, w, h, params.DilateRadius)

	blobs := labelComponents(mask, w, h)
	fmt.Printf("Segmentation: %dx%d px, %d components\n", w, h, len(blobs))
	if len(blobs) == 0 {
		return nil
	}

	rects := filterBlobs(blobs, imgW, imgH, params)
	fmt.Printf("Shape filter: %d of %d components survived\n", len(rects), len(blobs))

	if len(rects) == 0 {
		// Foreground existed but nothing slot-shaped survived. Hand the
		// whole image to the caller rather than silently dropping it.
		return []geometry.RectInt{{X: 0, Y: 0, Width: imgW, Height: imgH}}
	}

	rects = mergeToFixpoint(rects, params.MergeMargin)
	rects = dropContained(rects)
	fmt.Printf("Merge+containment: %d rectangles\n", len(rects))

	if len(rects) >= params.MinDetections {
		generated := inferGridCells(rects, imgW, imgH, params)
		if len(generated) > 0 {
			fmt.Printf("Grid inference: %d cells recovered\n", len(generated))
			rects = append(rects, generated...)
		}
	}

	sortRowMajor(rects, imgH, params.RowBandFraction)
	return rects
}

// filterBlobs converts blobs to rectangles, dropping noise, background,
// and components with implausible aspect ratios.
func filterBlobs(blobs []blob, imgW, imgH int, params Params) []geometry.RectInt {
	maxArea := int(float64(imgW) * float64(imgH) * params.MaxAreaFraction)

	var rects []geometry.RectInt
	for _, b := range blobs {
		if b.pixels < params.MinFootprint {
			continue
		}
		r := b.toRect()
		if r.Area() > maxArea {
			continue
		}
		aspect := float64(r.Width) / float64(r.Height)
		if aspect < params.MinAspectRatio || aspect > params.MaxAspectRatio {
			continue
		}
		rects = append(rects, r)
	}
	return rects
}

// mergeToFixpoint repeatedly unions any two rectangles whose axis-wise gap
// is within margin until no merge occurs. O(n^2) per pass, which is fine at
// the tens-of-rectangles scale slots produce.
func mergeToFixpoint(rects []geometry.RectInt, margin int) []geometry.RectInt {
	merged := true
	for merged {
		merged = false
		for i := 0; i < len(rects) && !merged; i++ {
			for j := i + 1; j < len(rects); j++ {
				if rects[i].GapX(rects[j]) <= margin && rects[i].GapY(rects[j]) <= margin {
					rects[i] = rects[i].Union(rects[j])
					rects = append(rects[:j], rects[j+1:]...)
					merged = true
					break
				}
			}
		}
	}
	return rects
}

// dropContained removes any rectangle fully inside an already-kept larger
// one. Embedded quantity badges and caption boxes otherwise show up as
// spurious extra detections.
func dropContained(rects []geometry.RectInt) []geometry.RectInt {
	sorted := make([]geometry.RectInt, len(rects))
	copy(sorted, rects)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})

	var kept []geometry.RectInt
	for _, r := range sorted {
		contained := false
		for _, k := range kept {
			if k.ContainsRect(r) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, r)
		}
	}
	return kept
}

// sortRowMajor orders rectangles top-to-bottom, left-to-right. Centers whose
// Y difference is below band*imgH are treated as the same row.
func sortRowMajor(rects []geometry.RectInt, imgH int, band float64) {
	rowTolerance := band * float64(imgH)

	sort.Slice(rects, func(i, j int) bool {
		return rects[i].Center().Y < rects[j].Center().Y
	})

	// Walk the Y-sorted list, cutting a new row whenever the center falls
	// outside the current row's tolerance band, then order each row by X.
	rowStart := 0
	rowY := 0.0
	for i := range rects {
		cy := rects[i].Center().Y
		if i == rowStart {
			rowY = cy
			continue
		}
		if cy-rowY >= rowTolerance {
			sortByX(rects[rowStart:i])
			rowStart = i
			rowY = cy
		}
	}
	sortByX(rects[rowStart:])
}

func sortByX(row []geometry.RectInt) {
	sort.Slice(row, func(i, j int) bool {
		return row[i].Center().X < row[j].Center().X
	})
}
