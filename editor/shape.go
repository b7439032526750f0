package editor

import (
	"fmt"

	"github.com/google/uuid"
)

// ShapeType identifies the kind of a shape.
type ShapeType string

const (
	Rectangle ShapeType = "rectangle"
	Circle    ShapeType = "circle"
)

// Valid reports whether t is a known shape type.
func (t ShapeType) Valid() bool { return t == Rectangle || t == Circle }

// Default geometry for shapes created without an explicit size.
const (
	DefaultWidth  = 120.0
	DefaultHeight = 80.0
	DefaultColor  = "#4a90e2"
)

// Shape is a single element of a design. Coordinates are canvas pixels
// with the origin at the top-left corner, y growing downward. X/Y is the
// top-left of the bounding box; for circles the box circumscribes the
// circle.
type Shape struct {
	ID     string    `json:"id"`
	Type   ShapeType `json:"type"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	ZIndex int       `json:"zIndex"` // stacking order, larger drawn on top

	Color       string  `json:"color,omitempty"`       // fill, #rrggbb
	Rotation    float64 `json:"rotation,omitempty"`    // degrees, clockwise about the center
	BorderStyle string  `json:"borderStyle,omitempty"` // solid, dashed or dotted
	BorderWidth float64 `json:"borderWidth,omitempty"`
	Text        string  `json:"text,omitempty"`

	// Attrs carries attributes the fixed schema does not know about.
	// They round-trip through persistence untouched.
	Attrs map[string]string `json:"attrs,omitempty"`
}

// NewShape creates a shape of the given type with a fresh random ID.
// Non-positive extents fall back to the default geometry.
func NewShape(t ShapeType, x, y, width, height float64) Shape {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return Shape{
		ID:     uuid.NewString(),
		Type:   t,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// ShapeUpdate is a partial update of a shape. Nil fields are left
// unchanged; Attrs entries overwrite per key. ID and Type cannot be
// changed after creation.
type ShapeUpdate struct {
	X           *float64          `json:"x,omitempty"`
	Y           *float64          `json:"y,omitempty"`
	Width       *float64          `json:"width,omitempty"`
	Height      *float64          `json:"height,omitempty"`
	ZIndex      *int              `json:"zIndex,omitempty"`
	Color       *string           `json:"color,omitempty"`
	Rotation    *float64          `json:"rotation,omitempty"`
	BorderStyle *string           `json:"borderStyle,omitempty"`
	BorderWidth *float64          `json:"borderWidth,omitempty"`
	Text        *string           `json:"text,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty"`
}

// apply merges the update into s and returns the result.
func (u ShapeUpdate) apply(s Shape) Shape {
	if u.X != nil {
		s.X = *u.X
	}
	if u.Y != nil {
		s.Y = *u.Y
	}
	if u.Width != nil {
		s.Width = *u.Width
	}
	if u.Height != nil {
		s.Height = *u.Height
	}
	if u.ZIndex != nil {
		s.ZIndex = *u.ZIndex
	}
	if u.Color != nil {
		s.Color = *u.Color
	}
	if u.Rotation != nil {
		s.Rotation = *u.Rotation
	}
	if u.BorderStyle != nil {
		s.BorderStyle = *u.BorderStyle
	}
	if u.BorderWidth != nil {
		s.BorderWidth = *u.BorderWidth
	}
	if u.Text != nil {
		s.Text = *u.Text
	}
	if len(u.Attrs) > 0 {
		attrs := make(map[string]string, len(s.Attrs)+len(u.Attrs))
		for k, v := range s.Attrs {
			attrs[k] = v
		}
		for k, v := range u.Attrs {
			attrs[k] = v
		}
		s.Attrs = attrs
	}
	return s
}

// IsNoop returns true if the update changes nothing.
func (u ShapeUpdate) IsNoop() bool {
	return u.X == nil && u.Y == nil && u.Width == nil && u.Height == nil &&
		u.ZIndex == nil && u.Color == nil && u.Rotation == nil &&
		u.BorderStyle == nil && u.BorderWidth == nil && u.Text == nil &&
		len(u.Attrs) == 0
}

// ValidateShapes checks that shapes form a well-formed document: every
// shape has a non-empty unique ID, a known type and positive extents.
// Loaded designs pass through this before they reach the editor.
func ValidateShapes(shapes []Shape) error {
	seen := make(map[string]bool, len(shapes))
	for i, s := range shapes {
		if s.ID == "" {
			return fmt.Errorf("shape %d: missing id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("shape %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
		if !s.Type.Valid() {
			return fmt.Errorf("shape %q: unknown type %q", s.ID, s.Type)
		}
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("shape %q: non-positive size %gx%g", s.ID, s.Width, s.Height)
		}
	}
	return nil
}
