// Package encoder defines the visual embedding capability and its
// process-wide lifecycle. The encoder itself is pluggable and
// model-agnostic; this package only cares that it turns a crop into a
// unit vector of fixed dimension.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
)

// ErrUnavailable is returned for every embedding request after encoder
// initialization has failed. Text-resolved matches are unaffected.
var ErrUnavailable = errors.New("encoder unavailable")

// Encoder turns an image crop into a unit-L2-normalized embedding vector.
type Encoder interface {
	Embed(img image.Image) ([]float64, error)
	Dim() int
}

// Service owns the lazily constructed process-wide encoder. Construction
// runs exactly once, asynchronously; concurrent first-time callers all
// await the same in-flight initialization instead of triggering duplicate
// model loads. A failed initialization latches for the session.
type Service struct {
	build func() (Encoder, error)

	once sync.Once
	done chan struct{}
	enc  Encoder
	err  error
}

// NewService creates a service around an encoder constructor. The
// constructor is not invoked until the first Get call.
func NewService(build func() (Encoder, error)) *Service {
	return &Service{
		build: build,
		done:  make(chan struct{}),
	}
}

// Get returns the shared encoder, starting initialization on first use and
// blocking until it completes or the context is canceled.
func (s *Service) Get(ctx context.Context) (Encoder, error) {
	s.once.Do(func() {
		go func() {
			defer close(s.done)
			enc, err := s.build()
			if err != nil {
				s.err = fmt.Errorf("%w: %v", ErrUnavailable, err)
				return
			}
			s.enc = enc
		}()
	})

	select {
	case <-s.done:
		return s.enc, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// EmbedAll embeds a batch of crops through the shared encoder. Failures
// are isolated per index: one bad crop never aborts its siblings.
func (s *Service) EmbedAll(ctx context.Context, imgs []image.Image) ([][]float64, []error) {
	vectors := make([][]float64, len(imgs))
	errs := make([]error, len(imgs))

	enc, err := s.Get(ctx)
	if err != nil {
		for i := range errs {
			errs[i] = err
		}
		return vectors, errs
	}

	for i, img := range imgs {
		if img == nil {
			errs[i] = fmt.Errorf("nil crop")
			continue
		}
		vectors[i], errs[i] = enc.Embed(img)
	}
	return vectors, errs
}
