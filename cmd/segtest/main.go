// Command segtest runs slot segmentation on a screenshot and prints the
// detected rectangles.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"time"

	_ "golang.org/x/image/tiff"

	"inventory-scanner/internal/segment"
	"inventory-scanner/pkg/colorutil"
	"inventory-scanner/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to screenshot (PNG, JPEG, or TIFF)")
	threshold := flag.Int("threshold", 0, "Luma threshold override (1-255, 0 = default)")
	radius := flag.Int("radius", 0, "Dilation radius override (0 = default)")
	uniform := flag.Bool("uniform", false, "Expand detections to uniform cells")
	overlay := flag.String("overlay", "", "Write a PNG with detected slots outlined")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: segtest -image <path> [-threshold 96] [-radius 4] [-uniform] [-overlay out.png]")
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())

	params := segment.DefaultParams()
	if *threshold > 0 && *threshold < 256 {
		params.LumaThreshold = uint8(*threshold)
	}
	if *radius > 0 {
		params.DilateRadius = *radius
	}

	start := time.Now()
	rects := segment.Segment(img, params)
	elapsed := time.Since(start)

	if *uniform {
		layout := segment.NewLayout(rects)
		layout.ExpandToUniformCells()
		rects = layout.Rects()
	}

	fmt.Printf("\nDetected %d slots in %v:\n", len(rects), elapsed)
	for i, r := range rects {
		fmt.Printf("  Slot %2d: (%4d,%4d) %3dx%3d\n", i+1, r.X, r.Y, r.Width, r.Height)
	}

	if *overlay != "" {
		if err := writeOverlay(*overlay, img, rects); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Overlay written to %s\n", *overlay)
	}
}

// writeOverlay saves a copy of the screenshot with each slot outlined.
func writeOverlay(path string, img image.Image, rects []geometry.RectInt) error {
	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Src)

	for _, r := range rects {
		outlineRect(canvas, r)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, canvas)
}

func outlineRect(canvas *image.RGBA, r geometry.RectInt) {
	min := canvas.Bounds().Min
	for x := r.X; x < r.X+r.Width; x++ {
		canvas.Set(min.X+x, min.Y+r.Y, colorutil.Green)
		canvas.Set(min.X+x, min.Y+r.Y+r.Height-1, colorutil.Green)
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		canvas.Set(min.X+r.X, min.Y+y, colorutil.Green)
		canvas.Set(min.X+r.X+r.Width-1, min.Y+y, colorutil.Green)
	}
}
