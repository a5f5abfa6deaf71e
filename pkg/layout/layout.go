// Package layout computes node geometry that depends on port counts.
package layout

// Default geometry of a node card.
const (
	DefaultHeaderHeight = 36.0
	DefaultPortSpacing  = 24.0
	DefaultPadding      = 12.0
	DefaultMinHeight    = 60.0
	DefaultNodeWidth    = 200.0
)

// Options tune CalculateNodeHeight.
type Options struct {
	PortSpacing float64
	Padding     float64
	MinHeight   float64
}

// Option mutates Options.
type Option func(*Options)

// WithPortSpacing sets the vertical distance between two ports.
func WithPortSpacing(spacing float64) Option {
	return func(o *Options) {
		o.PortSpacing = spacing
	}
}

// WithPadding sets the space below the last port row.
func WithPadding(padding float64) Option {
	return func(o *Options) {
		o.Padding = padding
	}
}

// WithMinHeight sets the smallest height a node may have.
func WithMinHeight(height float64) Option {
	return func(o *Options) {
		o.MinHeight = height
	}
}

// CalculateNodeHeight returns the height a node needs to show the larger of its
// input and output port columns under its header.
func CalculateNodeHeight(inputs, outputs int, headerHeight float64, opts ...Option) float64 {
	o := Options{
		PortSpacing: DefaultPortSpacing,
		Padding:     DefaultPadding,
		MinHeight:   DefaultMinHeight,
	}

	for _, opt := range opts {
		opt(&o)
	}

	rows := max(inputs, outputs, 0)
	height := headerHeight + float64(rows)*o.PortSpacing + o.Padding

	return max(height, o.MinHeight)
}

// HeightFunc computes a node height from its port counts.
type HeightFunc func(inputs, outputs int) float64

// DefaultHeight is the HeightFunc used when none is configured.
func DefaultHeight(inputs, outputs int) float64 {
	return CalculateNodeHeight(inputs, outputs, DefaultHeaderHeight)
}
