// Package region extracts per-slot crops from a screenshot.
package region

import (
	"image"
	stddraw "image/draw"

	xdraw "golang.org/x/image/draw"

	"inventory-scanner/pkg/geometry"
)

// Crop returns the portion of img covered by r. The rectangle is clamped
// to the image bounds; a rectangle fully outside them yields nil.
func Crop(img image.Image, r geometry.RectInt) *image.RGBA {
	bounds := img.Bounds()
	clamped := r.Clamp(bounds.Dx(), bounds.Dy())
	if clamped.Empty() {
		return nil
	}

	out := image.NewRGBA(image.Rect(0, 0, clamped.Width, clamped.Height))
	src := image.Pt(bounds.Min.X+clamped.X, bounds.Min.Y+clamped.Y)
	stddraw.Draw(out, out.Bounds(), img, src, stddraw.Src)
	return out
}

// CropLetterboxed crops r from img and scales it into a size x size canvas,
// preserving aspect ratio. The downstream encoder expects fixed-size square
// input; the unused border stays black.
func CropLetterboxed(img image.Image, r geometry.RectInt, size int) *image.RGBA {
	crop := Crop(img, r)
	if crop == nil || size <= 0 {
		return nil
	}
	return Letterbox(crop, size)
}

// Letterbox scales src into a size x size canvas preserving aspect ratio.
func Letterbox(src image.Image, size int) *image.RGBA {
	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()
	if srcW <= 0 || srcH <= 0 || size <= 0 {
		return nil
	}

	scale := float64(size) / float64(srcW)
	if srcH > srcW {
		scale = float64(size) / float64(srcH)
	}
	dstW := max(int(float64(srcW)*scale), 1)
	dstH := max(int(float64(srcH)*scale), 1)
	offX := (size - dstW) / 2
	offY := (size - dstH) / 2

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	target := image.Rect(offX, offY, offX+dstW, offY+dstH)
	xdraw.ApproxBiLinear.Scale(out, target, src, src.Bounds(), xdraw.Src, nil)
	return out
}
