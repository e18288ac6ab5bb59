package anatomy

import "github.com/taigrr/spine/pkg/regions"

// Variant selects the vertebra shape for a region. Exactly one applies to
// any vertebra.
type Variant int

const (
	Cervical Variant = iota
	Thoracic
	Lumbar
)

// Shape holds the per-variant process dimensions, in unit vertebra space.
type Shape struct {
	SpinousLength    float64
	SpinousAngle     float64 // Downward tilt from horizontal, radians
	TransverseLength float64
	Bifid            bool // Split spinous tip
	Costal           bool // Rib facets on the body
}

var shapes = [...]Shape{
	Cervical: {SpinousLength: 0.35, SpinousAngle: 0.3, TransverseLength: 0.3, Bifid: true},
	Thoracic: {SpinousLength: 0.55, SpinousAngle: 0.9, TransverseLength: 0.45, Costal: true},
	Lumbar:   {SpinousLength: 0.6, SpinousAngle: 0.15, TransverseLength: 0.5},
}

// Shape returns the dimensions for v.
func (v Variant) Shape() Shape {
	if v < Cervical || v > Lumbar {
		return shapes[Thoracic]
	}
	return shapes[v]
}

func (v Variant) String() string {
	switch v {
	case Cervical:
		return "cervical"
	case Thoracic:
		return "thoracic"
	case Lumbar:
		return "lumbar"
	}
	return "unknown"
}

// VariantFor maps a region to its vertebra variant. The sacral region has
// no free vertebrae, so it reports false.
func VariantFor(key regions.Key) (Variant, bool) {
	switch key {
	case regions.Cervical:
		return Cervical, true
	case regions.Thoracic:
		return Thoracic, true
	case regions.Lumbar:
		return Lumbar, true
	}
	return 0, false
}
