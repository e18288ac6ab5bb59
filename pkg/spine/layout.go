// Package spine assembles the full vertebral column from anatomy parts
// and owns the per-region hit-test volumes used for picking.
package spine

import (
	"math"

	"github.com/taigrr/spine/pkg/regions"
)

// Column layout, in model units.
const (
	TopY           = 7.0
	SegmentSpacing = 0.5
	RegionGap      = 0.15
	CoccyxDrop     = 1.5

	// BaseTilt and InitialYaw give the default three-quarter view.
	BaseTilt   = 0.1
	InitialYaw = 0.4
)

// RegionLayout describes how one region's vertebrae are sized and curved.
type RegionLayout struct {
	Region    regions.Key
	Count     int
	BaseScale float64
	ScaleStep float64
	// Amplitude is the peak curve offset along Z. Positive is lordosis,
	// negative is kyphosis.
	Amplitude float64
}

// Layout lists the free-vertebra regions in anatomical order.
var Layout = []RegionLayout{
	{Region: regions.Cervical, Count: 7, BaseScale: 0.75, ScaleStep: 0.035, Amplitude: 0.15},
	{Region: regions.Thoracic, Count: 12, BaseScale: 0.95, ScaleStep: 0.03, Amplitude: -0.25},
	{Region: regions.Lumbar, Count: 5, BaseScale: 1.3, ScaleStep: 0.04, Amplitude: 0.35},
}

// SacralAmplitude is the sacrum's curve offset; the sacrum is not curved.
const SacralAmplitude = 0.0

// Scale returns the size of vertebra i within the region.
func (l RegionLayout) Scale(i int) float64 {
	return l.BaseScale + l.ScaleStep*float64(i)
}

// Curve returns the offset of vertebra i within the region.
func (l RegionLayout) Curve(i int) float64 {
	return Curve(l.Amplitude, i, l.Count)
}

// Curve returns amplitude·sin(π·i/(total−1)): zero at the first and last
// segment and peaking midway.
func Curve(amplitude float64, i, total int) float64 {
	if i <= 0 || i >= total-1 {
		return 0
	}
	return amplitude * math.Sin(math.Pi*float64(i)/float64(total-1))
}
