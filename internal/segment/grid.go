package segment

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"inventory-scanner/pkg/geometry"
)

// inferGridCells recovers slots the pixel stages missed. Inventories are
// regular grids, so the median cell size and center-to-center spacing of
// the detected slots predict where every other slot must be. One rectangle
// is generated per integer grid index implied by the observed centers;
// cells duplicating a real detection (IoU above threshold) are dropped.
func inferGridCells(rects []geometry.RectInt, imgW, imgH int, params Params) []geometry.RectInt {
	cellW := medianInt(rects, func(r geometry.RectInt) int { return r.Width })
	cellH := medianInt(rects, func(r geometry.RectInt) int { return r.Height })
	if cellW < 1 || cellH < 1 {
		return nil
	}

	centersX := make([]float64, len(rects))
	centersY := make([]float64, len(rects))
	for i, r := range rects {
		c := r.Center()
		centersX[i] = c.X
		centersY[i] = c.Y
	}

	// Spacing below half a cell means two detections share a column/row;
	// those deltas carry no pitch information.
	pitchX := medianSpacing(centersX, float64(cellW)/2)
	pitchY := medianSpacing(centersY, float64(cellH)/2)
	if pitchX <= 0 {
		pitchX = float64(cellW)
	}
	if pitchY <= 0 {
		pitchY = float64(cellH)
	}

	fmt.Printf("Grid analysis: cell=%dx%d px, pitch=%.1fx%.1f px\n", cellW, cellH, pitchX, pitchY)

	originX, countX := gridExtent(centersX, pitchX)
	originY, countY := gridExtent(centersY, pitchY)

	var generated []geometry.RectInt
	for iy := 0; iy < countY; iy++ {
		for ix := 0; ix < countX; ix++ {
			cx := originX + float64(ix)*pitchX
			cy := originY + float64(iy)*pitchY
			cell := geometry.RectInt{
				X:      int(math.Round(cx - float64(cellW)/2)),
				Y:      int(math.Round(cy - float64(cellH)/2)),
				Width:  cellW,
				Height: cellH,
			}
			cell = cell.Clamp(imgW, imgH)
			if cell.Empty() {
				continue
			}

			duplicate := false
			for _, r := range rects {
				if cell.IoU(r) >= params.GridIoUThreshold {
					duplicate = true
					break
				}
			}
			if !duplicate {
				generated = append(generated, cell)
			}
		}
	}

	return generated
}

// medianInt returns the median of an integer field over the rectangles.
func medianInt(rects []geometry.RectInt, field func(geometry.RectInt) int) int {
	if len(rects) == 0 {
		return 0
	}
	values := make([]float64, len(rects))
	for i, r := range rects {
		values[i] = float64(field(r))
	}
	sort.Float64s(values)
	return int(math.Round(stat.Quantile(0.5, stat.Empirical, values, nil)))
}

// medianSpacing returns the median consecutive delta of the sorted
// positions, ignoring deltas at or below minDelta (detections that share
// the same grid line).
func medianSpacing(positions []float64, minDelta float64) float64 {
	if len(positions) < 2 {
		return 0
	}
	sorted := make([]float64, len(positions))
	copy(sorted, positions)
	sort.Float64s(sorted)

	var deltas []float64
	for i := 1; i < len(sorted); i++ {
		if d := sorted[i] - sorted[i-1]; d > minDelta {
			deltas = append(deltas, d)
		}
	}
	if len(deltas) == 0 {
		return 0
	}
	sort.Float64s(deltas)
	return stat.Quantile(0.5, stat.Empirical, deltas, nil)
}

// gridExtent derives the grid origin and index count along one axis from
// the observed centers and the pitch. The origin is the first observed
// center; indices run to the furthest observed center.
func gridExtent(centers []float64, pitch float64) (origin float64, count int) {
	minC, maxC := centers[0], centers[0]
	for _, c := range centers[1:] {
		if c < minC {
			minC = c
		}
		if c > maxC {
			maxC = c
		}
	}
	count = int(math.Round((maxC-minC)/pitch)) + 1
	return minC, count
}
