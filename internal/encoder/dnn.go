package encoder

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

// DNNEncoder runs crops through an ONNX image-embedding network via the
// OpenCV DNN module. Any network that maps a square RGB input to a flat
// feature vector works; the output is L2-normalized here.
type DNNEncoder struct {
	mu        sync.Mutex // gocv.Net forward passes are not goroutine safe
	net       gocv.Net
	inputSize int
	dim       int
}

// NewDNN loads an embedding network from an ONNX model file. A probe image
// is pushed through once to discover the output dimension.
func NewDNN(modelPath string, inputSize int) (*DNNEncoder, error) {
	if inputSize <= 0 {
		inputSize = 224
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model %s", modelPath)
	}

	e := &DNNEncoder{net: net, inputSize: inputSize}

	probe := image.NewRGBA(image.Rect(0, 0, inputSize, inputSize))
	vec, err := e.Embed(probe)
	if err != nil {
		net.Close()
		return nil, fmt.Errorf("model probe failed: %w", err)
	}
	e.dim = len(vec)

	return e, nil
}

// Close releases the network.
func (e *DNNEncoder) Close() error {
	return e.net.Close()
}

// Dim returns the embedding dimension.
func (e *DNNEncoder) Dim() int {
	return e.dim
}

// Embed runs one crop through the network and returns its unit vector.
func (e *DNNEncoder) Embed(img image.Image) ([]float64, error) {
	mat, err := imageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("convert crop: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0,
		image.Pt(e.inputSize, e.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	e.mu.Lock()
	e.net.SetInput(blob, "")
	out := e.net.Forward("")
	e.mu.Unlock()
	defer out.Close()

	raw, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read network output: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty network output")
	}
	if e.dim > 0 && len(raw) != e.dim {
		return nil, fmt.Errorf("network output dimension %d, want %d", len(raw), e.dim)
	}

	vec := make([]float64, len(raw))
	for i, v := range raw {
		vec[i] = float64(v)
	}

	norm := floats.Norm(vec, 2)
	if norm == 0 {
		return nil, fmt.Errorf("degenerate zero embedding")
	}
	floats.Scale(1/norm, vec)

	return vec, nil
}

// imageToMat converts a Go image.Image to an OpenCV Mat in BGR order.
func imageToMat(srcImg image.Image) (gocv.Mat, error) {
	bounds := srcImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return gocv.Mat{}, fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := srcImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}
