package export

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/kvistgaard/go-shape-editor/editor"
)

// PDF lays the canvas out on a single landscape A4 page, scaled to fit
// inside the page margins, and writes the document to w.
func PDF(w io.Writer, shapes []editor.Shape, width, height int) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("design", false)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	const margin = 10.0
	scale := math.Min((pageW-2*margin)/float64(width), (pageH-2*margin)/float64(height))
	tx := func(v float64) float64 { return margin + v*scale }
	ty := func(v float64) float64 { return margin + v*scale }

	for _, sh := range editor.Document(shapes).ByZIndex() {
		r, g, b := hexRGB(fill(sh))
		pdf.SetFillColor(r, g, b)

		style := "F"
		if sw := strokeWidth(sh); sw > 0 {
			sr, sg, sb := hexRGB(strokeHex)
			pdf.SetDrawColor(sr, sg, sb)
			pdf.SetLineWidth(math.Max(sw*scale, 0.2))
			if d := dashes(sh); d != nil {
				pdf.SetDashPattern([]float64{d[0] * scale, d[1] * scale}, 0)
			} else {
				pdf.SetDashPattern([]float64{}, 0)
			}
			style = "FD"
		}

		cx, cy := tx(sh.X+sh.Width/2), ty(sh.Y+sh.Height/2)
		rotated := sh.Rotation != 0
		if rotated {
			// gofpdf rotates counter-clockwise; canvas rotation is
			// clockwise.
			pdf.TransformBegin()
			pdf.TransformRotate(-sh.Rotation, cx, cy)
		}

		switch sh.Type {
		case editor.Circle:
			pdf.Ellipse(cx, cy, sh.Width/2*scale, sh.Height/2*scale, 0, style)
		default:
			pdf.Rect(tx(sh.X), ty(sh.Y), sh.Width*scale, sh.Height*scale, style)
		}

		if sh.Text != "" {
			lr, lg, lb := hexRGB(labelHex)
			pdf.SetTextColor(lr, lg, lb)
			pdf.SetFont("Helvetica", "", 10)
			pdf.Text(cx-pdf.GetStringWidth(sh.Text)/2, cy+1.5, sh.Text)
		}

		if rotated {
			pdf.TransformEnd()
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// hexRGB parses a #rrggbb color. Unparseable input comes back black,
// which keeps export total for documents with odd color strings.
func hexRGB(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	r, err1 := strconv.ParseUint(hex[1:3], 16, 8)
	g, err2 := strconv.ParseUint(hex[3:5], 16, 8)
	b, err3 := strconv.ParseUint(hex[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0
	}
	return int(r), int(g), int(b)
}
