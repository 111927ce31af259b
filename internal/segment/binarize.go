package segment

import (
	"image"

	"inventory-scanner/pkg/colorutil"
)

// binarize converts an image to a foreground mask using a luma threshold.
// Luma uses the BT.601 weights (0.299 R + 0.587 G + 0.114 B).
// The mask is row-major, one byte per pixel, 1 = foreground.
func binarize(img image.Image, threshold uint8) ([]uint8, int, int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := make([]uint8, w*h)

	// Fast path for the common decoded formats; At() is slow per-pixel.
	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[(y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				i := (x + bounds.Min.X - src.Rect.Min.X) * 4
				if colorutil.Luma(row[i], row[i+1], row[i+2]) > threshold {
					mask[y*w+x] = 1
				}
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[(y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				i := (x + bounds.Min.X - src.Rect.Min.X) * 4
				if colorutil.Luma(row[i], row[i+1], row[i+2]) > threshold {
					mask[y*w+x] = 1
				}
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := src.Pix[(y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				if row[x+bounds.Min.X-src.Rect.Min.X] > threshold {
					mask[y*w+x] = 1
				}
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if colorutil.ColorLuma(img.At(bounds.Min.X+x, bounds.Min.Y+y)) > threshold {
					mask[y*w+x] = 1
				}
			}
		}
	}

	return mask, w, h
}

// dilate grows the foreground mask by radius pixels using two separable
// sliding-window OR passes (horizontal then vertical), O(W*H) total.
func dilate(mask []uint8, w, h, radius int) []uint8 {
	if radius <= 0 {
		return mask
	}

	// Horizontal pass: out[x] = OR of mask[x-radius .. x+radius].
	// A running count of set pixels inside the window avoids rescanning.
	horiz := make([]uint8, len(mask))
	for y := 0; y < h; y++ {
		row := mask[y*w : (y+1)*w]
		out := horiz[y*w : (y+1)*w]
		count := 0
		for x := 0; x < min(radius, w); x++ {
			count += int(row[x])
		}
		for x := 0; x < w; x++ {
			if x+radius < w {
				count += int(row[x+radius])
			}
			if x-radius-1 >= 0 {
				count -= int(row[x-radius-1])
			}
			if count > 0 {
				out[x] = 1
			}
		}
	}

	// Vertical pass over the horizontal result.
	result := make([]uint8, len(mask))
	for x := 0; x < w; x++ {
		count := 0
		for y := 0; y < min(radius, h); y++ {
			count += int(horiz[y*w+x])
		}
		for y := 0; y < h; y++ {
			if y+radius < h {
				count += int(horiz[(y+radius)*w+x])
			}
			if y-radius-1 >= 0 {
				count -= int(horiz[(y-radius-1)*w+x])
			}
			if count > 0 {
				result[y*w+x] = 1
			}
		}
	}

	return result
}
