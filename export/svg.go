package export

import (
	"fmt"
	"strings"

	"github.com/kvistgaard/go-shape-editor/editor"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// SVG returns a standalone SVG document for the shapes, one element
// per shape in ZIndex order, geometry mapped 1:1 onto a white canvas
// of the given size. Labels follow their shape as a text element so
// they inherit the stacking position.
func SVG(shapes []editor.Shape, width, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	b.WriteString(`  <rect width="100%" height="100%" fill="#ffffff"/>` + "\n")

	for _, sh := range editor.Document(shapes).ByZIndex() {
		writeShape(&b, sh)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func writeShape(b *strings.Builder, sh editor.Shape) {
	cx := sh.X + sh.Width/2
	cy := sh.Y + sh.Height/2

	switch sh.Type {
	case editor.Circle:
		// A non-uniform bounding box renders as an ellipse, the same
		// way the raster exporters draw it.
		if sh.Width != sh.Height {
			fmt.Fprintf(b, `  <ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s"%s%s/>`+"\n",
				num(cx), num(cy), num(sh.Width/2), num(sh.Height/2), fill(sh), strokeAttrs(sh), rotateAttr(sh, cx, cy))
			break
		}
		fmt.Fprintf(b, `  <circle cx="%s" cy="%s" r="%s" fill="%s"%s%s/>`+"\n",
			num(cx), num(cy), num(sh.Width/2), fill(sh), strokeAttrs(sh), rotateAttr(sh, cx, cy))
	default:
		fmt.Fprintf(b, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"%s%s/>`+"\n",
			num(sh.X), num(sh.Y), num(sh.Width), num(sh.Height), fill(sh), strokeAttrs(sh), rotateAttr(sh, cx, cy))
	}

	if sh.Text != "" {
		fmt.Fprintf(b, `  <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="monospace" font-size="14" fill="%s"%s>%s</text>`+"\n",
			num(cx), num(cy), labelHex, rotateAttr(sh, cx, cy), xmlEscaper.Replace(sh.Text))
	}
}

func strokeAttrs(sh editor.Shape) string {
	w := strokeWidth(sh)
	if w == 0 {
		return ""
	}
	s := fmt.Sprintf(` stroke="%s" stroke-width="%s"`, strokeHex, num(w))
	if d := dashes(sh); d != nil {
		s += fmt.Sprintf(` stroke-dasharray="%s %s"`, num(d[0]), num(d[1]))
	}
	return s
}

func rotateAttr(sh editor.Shape, cx, cy float64) string {
	if sh.Rotation == 0 {
		return ""
	}
	return fmt.Sprintf(` transform="rotate(%s %s %s)"`, num(sh.Rotation), num(cx), num(cy))
}

// num formats a coordinate without a trailing zero fraction, so whole
// numbers stay short the way hand-written SVG has them.
func num(v float64) string {
	return fmt.Sprintf("%g", v)
}
