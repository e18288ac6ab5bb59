package models

import "image/color"

// Material describes how a mesh surface is shaded. Materials are owned by a
// single scene node so hover highlighting can mutate them independently.
type Material struct {
	Name              string
	Color             color.RGBA // Base (albedo) color
	Emissive          color.RGBA // Self-illumination color
	EmissiveIntensity float64    // 0 = no glow
	Roughness         float64    // 0 = smooth, 1 = rough
	Metalness         float64    // 0 = dielectric, 1 = metal
	Opacity           float64    // 1 = opaque
	Transparent       bool       // Blend instead of depth-writing
}

// Clone returns an independent copy.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Visible reports whether the surface contributes any color to a frame.
func (m *Material) Visible() bool {
	return !m.Transparent || m.Opacity > 0
}

// BaseColorFactor returns the base color and opacity as linear 0-1 factors,
// the layout glTF uses.
func (m *Material) BaseColorFactor() [4]float64 {
	alpha := 1.0
	if m.Transparent {
		alpha = m.Opacity
	}
	return [4]float64{
		float64(m.Color.R) / 255,
		float64(m.Color.G) / 255,
		float64(m.Color.B) / 255,
		alpha,
	}
}

// EmissiveFactor returns the emissive color scaled by its intensity.
func (m *Material) EmissiveFactor() [3]float64 {
	return [3]float64{
		float64(m.Emissive.R) / 255 * m.EmissiveIntensity,
		float64(m.Emissive.G) / 255 * m.EmissiveIntensity,
		float64(m.Emissive.B) / 255 * m.EmissiveIntensity,
	}
}
