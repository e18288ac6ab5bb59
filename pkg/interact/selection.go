package interact

import (
	"image/color"

	"github.com/taigrr/spine/pkg/regions"
)

// Selection is the payload dispatched when a region is clicked.
type Selection struct {
	Key         regions.Key `json:"key" yaml:"key"`
	Name        string      `json:"name" yaml:"name"`
	Vertebrae   string      `json:"vertebrae" yaml:"vertebrae"`
	Count       string      `json:"count" yaml:"count"`
	Description string      `json:"description" yaml:"description"`
	Function    string      `json:"function" yaml:"function"`
	Nerves      string      `json:"nerves" yaml:"nerves"`
	Conditions  string      `json:"conditions" yaml:"conditions"`
	Color       color.RGBA  `json:"-" yaml:"-"`
}

// NewSelection copies the region metadata into a Selection.
func NewSelection(r regions.Region) Selection {
	return Selection{
		Key:         r.Key,
		Name:        r.Name,
		Vertebrae:   r.Vertebrae,
		Count:       r.Count,
		Description: r.Description,
		Function:    r.Function,
		Nerves:      r.Nerves,
		Conditions:  r.Conditions,
		Color:       r.Color,
	}
}

// Dispatcher receives region selections.
type Dispatcher interface {
	Dispatch(Selection)
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(Selection)

// Dispatch calls f(s).
func (f DispatchFunc) Dispatch(s Selection) { f(s) }

// Tooltip is the hover label shown near the pointer.
type Tooltip struct {
	Visible     bool
	Title       string
	Subtitle    string // "<count> · <range>"
	Description string
	Conditions  string
	Color       color.RGBA
	X, Y        float64 // Pointer position in viewport pixels
}

func (t *Tooltip) show(r regions.Region) {
	t.Visible = true
	t.Title = r.Name
	t.Subtitle = r.Count + " · " + r.Vertebrae
	t.Description = r.Description
	t.Conditions = "Common conditions: " + r.Conditions
	t.Color = r.Color
}

func (t *Tooltip) hide() {
	t.Visible = false
}

// Cursor is the pointer affordance for the viewport.
type Cursor int

const (
	CursorGrab Cursor = iota
	CursorGrabbing
	CursorPointer
)

func (c Cursor) String() string {
	switch c {
	case CursorGrabbing:
		return "grabbing"
	case CursorPointer:
		return "pointer"
	}
	return "grab"
}
