package segment

// Params controls the slot segmentation behavior.
type Params struct {
	// Binarization
	LumaThreshold uint8 // Foreground when luma exceeds this (0-255)

	// Dilation radius in pixels. Bridges small gaps such as the one
	// between an icon and its overlaid quantity glyph.
	DilateRadius int

	// Component filters
	MinFootprint    int     // Minimum foreground pixel count per component
	MaxAreaFraction float64 // Components larger than this fraction of the image are background
	MinAspectRatio  float64 // Minimum width/height ratio
	MaxAspectRatio  float64 // Maximum width/height ratio

	// Fragment consolidation
	MergeMargin int // Maximum axis-wise gap for two rectangles to be unioned

	// Grid inference
	GridIoUThreshold float64 // IoU above which a generated cell duplicates a detection
	MinDetections    int     // Below this count grid inference is skipped

	// Row-major ordering
	RowBandFraction float64 // Centers within this fraction of image height share a row
}

// DefaultParams returns default segmentation parameters.
// These are tuned for dark inventory backgrounds with bright item icons.
func DefaultParams() Params {
	return Params{
		LumaThreshold: 96,
		DilateRadius:  4,

		MinFootprint:    120,  // Rejects isolated glyphs and speckle
		MaxAreaFraction: 0.45, // Rejects the inventory panel itself
		MinAspectRatio:  0.4,
		MaxAspectRatio:  3.0,

		MergeMargin: 5,

		GridIoUThreshold: 0.6,
		MinDetections:    3,

		RowBandFraction: 0.05,
	}
}

// valid clamps out-of-range values back to usable defaults.
func (p Params) valid() Params {
	if p.DilateRadius < 1 {
		p.DilateRadius = 1
	}
	if p.DilateRadius > 16 {
		p.DilateRadius = 16
	}
	if p.MaxAreaFraction <= 0 || p.MaxAreaFraction > 1 {
		p.MaxAreaFraction = 0.45
	}
	if p.MinAspectRatio <= 0 {
		p.MinAspectRatio = 0.4
	}
	if p.MaxAspectRatio <= p.MinAspectRatio {
		p.MaxAspectRatio = 3.0
	}
	if p.MergeMargin < 0 {
		p.MergeMargin = 0
	}
	if p.GridIoUThreshold <= 0 || p.GridIoUThreshold > 1 {
		p.GridIoUThreshold = 0.6
	}
	if p.MinDetections < 2 {
		p.MinDetections = 2
	}
	if p.RowBandFraction <= 0 {
		p.RowBandFraction = 0.05
	}
	return p
}
