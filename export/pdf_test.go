package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kvistgaard/go-shape-editor/editor"
)

func TestPDFProducesDocument(t *testing.T) {
	shapes := []editor.Shape{
		{ID: "r1", Type: editor.Rectangle, X: 10, Y: 20, Width: 100, Height: 50, ZIndex: 1, Color: "#ff0000"},
		{ID: "c1", Type: editor.Circle, X: 200, Y: 40, Width: 60, Height: 60, ZIndex: 2,
			Rotation: 30, BorderStyle: "dotted", Text: "hello"},
	}

	var buf bytes.Buffer
	if err := PDF(&buf, shapes, DefaultWidth, DefaultHeight); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Fatalf("output does not start with a pdf header: %q", out[:16])
	}
	if !strings.Contains(out, "%%EOF") {
		t.Error("output has no pdf trailer")
	}
	if buf.Len() < 500 {
		t.Errorf("suspiciously small pdf: %d bytes", buf.Len())
	}
}

func TestPDFEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := PDF(&buf, nil, DefaultWidth, DefaultHeight); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Error("empty document should still be a valid pdf")
	}
}

func TestHexRGB(t *testing.T) {
	cases := []struct {
		in      string
		r, g, b int
	}{
		{"#ff0000", 255, 0, 0},
		{"#4a90e2", 74, 144, 226},
		{"#000000", 0, 0, 0},
		{"not-a-color", 0, 0, 0},
		{"#zzzzzz", 0, 0, 0},
		{"", 0, 0, 0},
	}
	for _, tc := range cases {
		r, g, b := hexRGB(tc.in)
		if r != tc.r || g != tc.g || b != tc.b {
			t.Errorf("hexRGB(%q) = %d,%d,%d want %d,%d,%d", tc.in, r, g, b, tc.r, tc.g, tc.b)
		}
	}
}
