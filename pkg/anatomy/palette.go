package anatomy

import (
	"image/color"

	"github.com/taigrr/spine/pkg/models"
)

// Palette is the shared material set. Builders clone these per mesh.
type Palette struct {
	Bone      *models.Material
	Articular *models.Material
	Annulus   *models.Material
	Nucleus   *models.Material
}

// DefaultPalette returns matte ivory bone and translucent green discs.
func DefaultPalette() Palette {
	return Palette{
		Bone: &models.Material{
			Name:      "bone",
			Color:     color.RGBA{0xf2, 0xe8, 0xd5, 0xff},
			Roughness: 0.85,
			Metalness: 0.02,
			Opacity:   1,
		},
		Articular: &models.Material{
			Name:      "bone-articular",
			Color:     color.RGBA{0xd9, 0xcc, 0xb4, 0xff},
			Roughness: 0.8,
			Metalness: 0.02,
			Opacity:   1,
		},
		Annulus: &models.Material{
			Name:        "disc-annulus",
			Color:       color.RGBA{0x6f, 0xcf, 0x97, 0xff},
			Roughness:   0.6,
			Opacity:     0.55,
			Transparent: true,
		},
		Nucleus: &models.Material{
			Name:        "disc-nucleus",
			Color:       color.RGBA{0xb8, 0xf0, 0xcf, 0xff},
			Roughness:   0.5,
			Opacity:     0.35,
			Transparent: true,
		},
	}
}

// tint mixes a fraction t of c into base, keeping base's alpha.
func tint(base, c color.RGBA, t float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-t) + float64(b)*t + 0.5)
	}
	return color.RGBA{mix(base.R, c.R), mix(base.G, c.G), mix(base.B, c.B), base.A}
}
