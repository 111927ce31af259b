// Package colorutil provides shared color utilities for the scanner.
package colorutil

import "image/color"

// Common overlay colors used by the debug renderers.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// Luma returns the BT.601 luma (0.299 R + 0.587 G + 0.114 B) of an
// 8-bit RGB triple, in integer arithmetic.
func Luma(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

// ColorLuma returns the BT.601 luma of a color.Color.
func ColorLuma(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	return Luma(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
