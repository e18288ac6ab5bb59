// Package regions is the catalog of anatomical spine regions and the
// metadata shown when one is hovered or selected.
package regions

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// Key identifies one anatomical region.
type Key string

// Region keys in anatomical order, top to bottom.
const (
	Cervical Key = "cervical"
	Thoracic Key = "thoracic"
	Lumbar   Key = "lumbar"
	Sacral   Key = "sacral"
)

// ErrUnknownRegion is returned when a key does not name a region.
var ErrUnknownRegion = errors.New("unknown region")

// Region holds the display metadata for one region.
type Region struct {
	Key         Key
	Name        string
	Vertebrae   string // Range label, e.g. "C1–C7"
	Count       string // Count label, e.g. "7 vertebrae"
	Description string
	Function    string
	Nerves      string
	Conditions  string
	Color       color.RGBA // Highlight color
}

var catalog = [...]Region{
	{
		Key:         Cervical,
		Name:        "Cervical Spine",
		Vertebrae:   "C1–C7",
		Count:       "7 vertebrae",
		Description: "The neck region. Smallest vertebrae with the widest range of motion, supporting the skull.",
		Function:    "Supports the head and allows flexion, extension and rotation of the neck.",
		Nerves:      "C1–C8: head, neck, shoulders, arms, hands and the diaphragm.",
		Conditions:  "Neck pain, whiplash, cervical radiculopathy, disc herniation, stenosis.",
		Color:       color.RGBA{0x60, 0xa5, 0xfa, 0xff},
	},
	{
		Key:         Thoracic,
		Name:        "Thoracic Spine",
		Vertebrae:   "T1–T12",
		Count:       "12 vertebrae",
		Description: "The mid back. Each vertebra carries facets for a pair of ribs, forming the rib cage.",
		Function:    "Anchors the rib cage and protects the heart and lungs; limited rotation.",
		Nerves:      "T1–T12: chest wall, abdominal muscles and intercostal spaces.",
		Conditions:  "Kyphosis, scoliosis, compression fractures, thoracic outlet syndrome.",
		Color:       color.RGBA{0x34, 0xd3, 0x99, 0xff},
	},
	{
		Key:         Lumbar,
		Name:        "Lumbar Spine",
		Vertebrae:   "L1–L5",
		Count:       "5 vertebrae",
		Description: "The lower back. The largest vertebrae, carrying most of the body's weight.",
		Function:    "Bears upper-body load and allows bending and lifting.",
		Nerves:      "L1–L5: hips, thighs, knees, legs and feet; the sciatic nerve begins here.",
		Conditions:  "Low back pain, sciatica, herniated disc, spondylolisthesis, stenosis.",
		Color:       color.RGBA{0xf5, 0x9e, 0x0b, 0xff},
	},
	{
		Key:         Sacral,
		Name:        "Sacrum & Coccyx",
		Vertebrae:   "S1–S5, Co1–Co4",
		Count:       "5 fused + 4 coccygeal",
		Description: "Fused vertebrae forming the back of the pelvis, ending in the tailbone.",
		Function:    "Transfers load to the pelvis and anchors pelvic ligaments and muscles.",
		Nerves:      "S1–S5: buttocks, genitals, bladder, bowel and the backs of the legs.",
		Conditions:  "Sacroiliac joint dysfunction, coccydynia, sacral fractures.",
		Color:       color.RGBA{0xf4, 0x72, 0xb6, 0xff},
	},
}

// All returns every region in anatomical order.
func All() []Region {
	out := make([]Region, len(catalog))
	copy(out, catalog[:])
	return out
}

// Keys returns every region key in anatomical order.
func Keys() []Key {
	keys := make([]Key, len(catalog))
	for i, r := range catalog {
		keys[i] = r.Key
	}
	return keys
}

// Lookup returns the region for key.
func Lookup(key Key) (Region, bool) {
	for _, r := range catalog {
		if r.Key == key {
			return r, true
		}
	}
	return Region{}, false
}

// MustLookup is Lookup for keys known at compile time.
func MustLookup(key Key) Region {
	r, ok := Lookup(key)
	if !ok {
		panic(fmt.Sprintf("regions: %q is not a region", key))
	}
	return r
}

// ParseKey validates user input such as a CLI flag.
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Lookup(k); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
	}
	return k, nil
}

// Valid reports whether k names a region.
func (k Key) Valid() bool {
	_, ok := Lookup(k)
	return ok
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}
