package analyze

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"inventory-scanner/internal/catalog"
	"inventory-scanner/internal/encoder"
)

// fakeEncoder reads the crop's first pixel red channel as a basis-vector
// index, so tests control exactly which catalog item each crop matches.
// A random small delay shuffles batch completion order.
type fakeEncoder struct {
	dim    int
	calls  int32
	jitter bool
}

func (f *fakeEncoder) Embed(img image.Image) ([]float64, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.jitter {
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	}

	r, _, _, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	idx := int(r >> 8)
	if idx >= f.dim {
		return nil, fmt.Errorf("no embedding for index %d", idx)
	}
	vec := make([]float64, f.dim)
	vec[idx] = 1
	return vec, nil
}

func (f *fakeEncoder) Dim() int {
	return f.dim
}

func (f *fakeEncoder) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

// crop returns a 1x1 image whose red channel selects fake embedding idx.
func crop(idx int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: uint8(idx), A: 255})
	return img
}

func basisCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	entries := make([]*catalog.Entry, n)
	for i := 0; i < n; i++ {
		vec := make([]float64, n)
		vec[i] = 1
		entries[i] = &catalog.Entry{
			Name:    fmt.Sprintf("item-%02d", i),
			Vectors: [][]float64{vec},
		}
	}
	cat, err := catalog.New(entries)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func newService(fake *fakeEncoder, buildErr error) *encoder.Service {
	return encoder.NewService(func() (encoder.Encoder, error) {
		if buildErr != nil {
			return nil, buildErr
		}
		return fake, nil
	})
}

func TestFastPathSkipsEncoder(t *testing.T) {
	entries := []*catalog.Entry{
		{Name: "Bandage", Vectors: [][]float64{{1, 0}}},
		{Name: "Rope", Vectors: [][]float64{{0, 1}}},
	}
	cat, err := catalog.New(entries)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}

	fake := &fakeEncoder{dim: 2}
	c := New(cat, newService(fake, nil), 0)

	results := c.AnalyzeBatch(context.Background(), []Item{
		{Image: crop(0), Hint: "Bandage x5"},
	})

	if len(results) != 1 || results[0] == nil {
		t.Fatalf("expected one resolved result, got %v", results)
	}
	if results[0].Label != "Bandage" || results[0].Score != 1.0 {
		t.Errorf("got %q score %.2f, want Bandage 1.00", results[0].Label, results[0].Score)
	}
	if results[0].Qty != 5 {
		t.Errorf("qty %d, want 5", results[0].Qty)
	}
	if fake.callCount() != 0 {
		t.Errorf("encoder called %d times on a pure fast-path batch", fake.callCount())
	}
}

func TestBatchOrderPreserved(t *testing.T) {
	const n = 11 // not a multiple of the batch size
	cat := basisCatalog(t, n)
	fake := &fakeEncoder{dim: n, jitter: true}
	c := New(cat, newService(fake, nil), 3)

	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Image: crop(i)} // no hints: everything is slow path
	}

	results := c.AnalyzeBatch(context.Background(), items)
	if len(results) != n {
		t.Fatalf("output length %d, want %d", len(results), n)
	}
	for i, res := range results {
		if res == nil {
			t.Errorf("slot %d: unexpected failure", i)
			continue
		}
		want := fmt.Sprintf("item-%02d", i)
		if res.Label != want {
			t.Errorf("slot %d: label %q, want %q", i, res.Label, want)
		}
		if res.Qty != 1 {
			t.Errorf("slot %d: qty %d, want 1", i, res.Qty)
		}
	}
	if fake.callCount() != n {
		t.Errorf("encoder called %d times, want %d", fake.callCount(), n)
	}
}

func TestMixedFastAndSlowPath(t *testing.T) {
	cat := basisCatalog(t, 6)
	fake := &fakeEncoder{dim: 6, jitter: true}
	c := New(cat, newService(fake, nil), 2)

	items := []Item{
		{Image: crop(0), Hint: "item-00"}, // fast
		{Image: crop(1)},                  // slow
		{Image: crop(2), Hint: "item-02"}, // fast
		{Image: crop(3)},                  // slow
		{Image: crop(4)},                  // slow
	}

	results := c.AnalyzeBatch(context.Background(), items)
	if len(results) != len(items) {
		t.Fatalf("output length %d, want %d", len(results), len(items))
	}
	for i, res := range results {
		want := fmt.Sprintf("item-%02d", i)
		if res == nil || res.Label != want {
			t.Errorf("slot %d: got %+v, want label %q", i, res, want)
		}
	}
	if fake.callCount() != 3 {
		t.Errorf("encoder called %d times, want 3", fake.callCount())
	}
}

func TestEncoderUnavailableKeepsFastPath(t *testing.T) {
	cat := basisCatalog(t, 4)
	c := New(cat, newService(nil, fmt.Errorf("model load failed")), 0)

	items := []Item{
		{Image: crop(0), Hint: "item-00"}, // fast: unaffected
		{Image: crop(1)},                  // slow: fails for the session
	}

	results := c.AnalyzeBatch(context.Background(), items)
	if results[0] == nil || results[0].Label != "item-00" {
		t.Fatalf("fast-path result lost: %+v", results[0])
	}
	if results[1] != nil {
		t.Fatalf("slow-path result should be nil when the encoder is unavailable, got %+v", results[1])
	}
}

func TestPerRegionFailureIsolation(t *testing.T) {
	cat := basisCatalog(t, 4)
	fake := &fakeEncoder{dim: 4}
	c := New(cat, newService(fake, nil), 4)

	items := []Item{
		{Image: crop(0)},
		{Image: crop(200)}, // out of range: this crop fails to embed
		{Image: crop(2)},
	}

	results := c.AnalyzeBatch(context.Background(), items)
	if results[0] == nil || results[0].Label != "item-00" {
		t.Errorf("slot 0 should succeed, got %+v", results[0])
	}
	if results[1] != nil {
		t.Errorf("slot 1 should fail in isolation, got %+v", results[1])
	}
	if results[2] == nil || results[2].Label != "item-02" {
		t.Errorf("slot 2 should succeed despite sibling failure, got %+v", results[2])
	}
}
