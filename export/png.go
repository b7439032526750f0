package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/kvistgaard/go-shape-editor/editor"
)

// PNG rasterizes the shapes onto a white canvas of the given size and
// writes the encoded image to w.
func PNG(w io.Writer, shapes []editor.Shape, width, height int) error {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("parse label font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    14,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for _, sh := range editor.Document(shapes).ByZIndex() {
		drawShape(dc, sh)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawShape(dc *gg.Context, sh editor.Shape) {
	cx := sh.X + sh.Width/2
	cy := sh.Y + sh.Height/2

	dc.Push()
	defer dc.Pop()

	if sh.Rotation != 0 {
		dc.RotateAbout(gg.Radians(sh.Rotation), cx, cy)
	}

	switch sh.Type {
	case editor.Circle:
		dc.DrawEllipse(cx, cy, sh.Width/2, sh.Height/2)
	default:
		dc.DrawRectangle(sh.X, sh.Y, sh.Width, sh.Height)
	}

	dc.SetHexColor(fill(sh))
	if sw := strokeWidth(sh); sw > 0 {
		dc.FillPreserve()
		dc.SetHexColor(strokeHex)
		dc.SetLineWidth(sw)
		if d := dashes(sh); d != nil {
			dc.SetDash(d...)
		}
		dc.Stroke()
	} else {
		dc.Fill()
	}

	if sh.Text != "" {
		dc.SetHexColor(labelHex)
		dc.DrawStringAnchored(sh.Text, cx, cy, 0.5, 0.5)
	}
}
