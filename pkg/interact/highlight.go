package interact

import (
	"image/color"
	"sync"

	"github.com/taigrr/spine/pkg/models"
	"github.com/taigrr/spine/pkg/regions"
	"github.com/taigrr/spine/pkg/scene"
)

// HighlightIntensity is the emissive glow applied to hovered meshes.
const HighlightIntensity = 0.15

// MeshIndex resolves a region to its anatomy mesh nodes.
type MeshIndex interface {
	RegionMeshes(key regions.Key) []*scene.Node
}

type savedMaterial struct {
	color     color.RGBA
	emissive  color.RGBA
	intensity float64
}

// Highlighter recolors one region at a time and restores the previous
// material state exactly.
type Highlighter struct {
	index  MeshIndex
	lock   sync.Locker // Held while materials change; nil means none
	active regions.Key
	saved  map[*models.Material]savedMaterial
}

// NewHighlighter creates a highlighter over idx.
func NewHighlighter(idx MeshIndex) *Highlighter {
	return &Highlighter{
		index: idx,
		saved: make(map[*models.Material]savedMaterial),
	}
}

// WithLock makes material changes happen under l, typically the lock a
// renderer holds while it reads the same materials. It returns h.
func (h *Highlighter) WithLock(l sync.Locker) *Highlighter {
	h.lock = l
	return h
}

func (h *Highlighter) acquire() func() {
	if h.lock == nil {
		return func() {}
	}
	h.lock.Lock()
	return h.lock.Unlock
}

// Active returns the highlighted region, or "" when none is.
func (h *Highlighter) Active() regions.Key {
	return h.active
}

// Highlight recolors every mesh of key with the region color. Any other
// highlighted region is restored first.
func (h *Highlighter) Highlight(key regions.Key) {
	if key == h.active {
		return
	}
	release := h.acquire()
	defer release()
	h.restore()

	r, ok := regions.Lookup(key)
	if !ok {
		return
	}
	for _, n := range h.index.RegionMeshes(key) {
		if n.Indicator || n.Material == nil {
			continue
		}
		mat := n.Material
		if _, done := h.saved[mat]; done {
			continue
		}
		h.saved[mat] = savedMaterial{
			color:     mat.Color,
			emissive:  mat.Emissive,
			intensity: mat.EmissiveIntensity,
		}
		mat.Color = r.Color
		mat.Emissive = r.Color
		mat.EmissiveIntensity = HighlightIntensity
	}
	h.active = key
}

// Restore puts back every saved material.
func (h *Highlighter) Restore() {
	release := h.acquire()
	defer release()
	h.restore()
}

func (h *Highlighter) restore() {
	for mat, s := range h.saved {
		mat.Color = s.color
		mat.Emissive = s.emissive
		mat.EmissiveIntensity = s.intensity
	}
	clear(h.saved)
	h.active = ""
}
