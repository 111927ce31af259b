// Command scan runs the full identification pipeline on one screenshot:
// segmentation, OCR hint gathering, and hybrid text/visual matching.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/tiff"

	"inventory-scanner/internal/analyze"
	"inventory-scanner/internal/catalog"
	"inventory-scanner/internal/config"
	"inventory-scanner/internal/encoder"
	"inventory-scanner/internal/hint"
	"inventory-scanner/internal/ocr"
	"inventory-scanner/internal/region"
	"inventory-scanner/internal/segment"
)

func main() {
	imagePath := flag.String("image", "", "Path to screenshot (PNG, JPEG, or TIFF)")
	catalogPath := flag.String("catalog", "", "Catalog artifact path (overrides CATALOG_PATH)")
	modelPath := flag.String("model", "", "ONNX embedding model path (overrides ENCODER_MODEL_PATH)")
	batchSize := flag.Int("batch", 0, "Encoder batch size (overrides BATCH_SIZE)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: scan -image <path> [-catalog catalog.json] [-model encoder.onnx] [-batch 4]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}
	if *modelPath != "" {
		cfg.EncoderModelPath = *modelPath
	}
	if *batchSize > 0 {
		cfg.BatchSize = *batchSize
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
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, img.Bounds().Dx(), img.Bounds().Dy())

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Catalog: %d items, dimension %d\n", cat.Len(), cat.Dim())

	// Segment and collect hints.
	rects := segment.Segment(img, segment.DefaultParams())
	if len(rects) == 0 {
		fmt.Println("No slots detected")
		return
	}

	var words []ocr.Word
	engine, err := ocr.NewEngine(cfg.OCRLanguage)
	if err != nil {
		// Without OCR every slot takes the visual path.
		fmt.Fprintf(os.Stderr, "OCR unavailable: %v\n", err)
	} else {
		defer engine.Close()
		words, err = engine.DetectWords(img)
		if err != nil {
			fmt.Fprintf(os.Stderr, "OCR pass failed: %v\n", err)
		}
	}
	hints := hint.Locate(words, rects)

	items := make([]analyze.Item, len(rects))
	for i, r := range rects {
		items[i] = analyze.Item{
			Image: region.CropLetterboxed(img, r, cfg.EncoderInputSize),
			Hint:  hints[i],
		}
	}

	svc := encoder.NewService(func() (encoder.Encoder, error) {
		return encoder.NewDNN(cfg.EncoderModelPath, cfg.EncoderInputSize)
	})
	coordinator := analyze.New(cat, svc, cfg.BatchSize)

	start := time.Now()
	results := coordinator.AnalyzeBatch(context.Background(), items)
	fmt.Printf("\nAnalyzed %d slots in %v:\n", len(results), time.Since(start))

	for i, res := range results {
		r := rects[i]
		if res == nil {
			fmt.Printf("  Slot %2d (%4d,%4d): unidentified\n", i+1, r.X, r.Y)
			continue
		}
		fmt.Printf("  Slot %2d (%4d,%4d): %-24s score=%.3f qty=%d\n",
			i+1, r.X, r.Y, res.Label, res.Score, res.Qty)
	}
}
