// Package export renders shape documents to portable formats. Exports
// are pure reads: they never touch editor state and draw only the
// document shapes, bottom ZIndex first, onto a white canvas.
package export

import "github.com/kvistgaard/go-shape-editor/editor"

// Default canvas extent, matching the editing surface.
const (
	DefaultWidth  = 960
	DefaultHeight = 600
)

const (
	strokeHex = "#333333"
	labelHex  = "#1f2933"
)

func fill(sh editor.Shape) string {
	if sh.Color != "" {
		return sh.Color
	}
	return editor.DefaultColor
}

// strokeWidth returns the border width to draw, 0 for no border. A
// border style without an explicit width gets a hairline.
func strokeWidth(sh editor.Shape) float64 {
	if sh.BorderWidth > 0 {
		return sh.BorderWidth
	}
	if sh.BorderStyle != "" {
		return 1
	}
	return 0
}

// dashes returns the dash pattern for a border style, nil for solid.
func dashes(sh editor.Shape) []float64 {
	switch sh.BorderStyle {
	case "dashed":
		return []float64{8, 4}
	case "dotted":
		return []float64{2, 4}
	}
	return nil
}
