package imageio

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"
	"testing/quick"
)

func TestFitSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"within bounds", 800, 600, 1024, 800, 600},
		{"landscape", 2048, 1024, 1024, 1024, 512},
		{"portrait", 1000, 3000, 1500, 500, 1500},
		{"no limit", 5000, 10, 0, 5000, 10},
		{"thin strip keeps one pixel", 10000, 1, 100, 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitSize(tt.w, tt.h, tt.max)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitSize(%d,%d,%d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

// TestFitSizeNeverExceedsMax verifies the longest side never exceeds maxSize.
func TestFitSizeNeverExceedsMax(t *testing.T) {
	property := func(w, h, m uint16) bool {
		iw, ih, im := int(w)+1, int(h)+1, int(m)+1
		fw, fh := FitSize(iw, ih, im)
		return fw >= 1 && fh >= 1 && fw <= im && fh <= im
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestPrepareFlattensOverWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4)) // fully transparent
	src.SetNRGBA(1, 1, color.NRGBA{A: 255})

	p := Prepare(src, 1024, 1)
	if p.LogicalWidth != 4 || p.LogicalHeight != 4 {
		t.Fatalf("logical size = %dx%d, want 4x4", p.LogicalWidth, p.LogicalHeight)
	}
	if got := p.Image.NRGBAAt(0, 0); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("transparent pixel = %v, want opaque white", got)
	}
	if got := p.Image.NRGBAAt(1, 1); got != (color.NRGBA{A: 255}) {
		t.Errorf("black pixel = %v, want opaque black", got)
	}
}

func TestPreparePixelRatio(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	p := Prepare(src, 1024, 2)
	if p.LogicalWidth != 20 || p.LogicalHeight != 10 {
		t.Errorf("logical size = %dx%d, want 20x10", p.LogicalWidth, p.LogicalHeight)
	}
	if b := p.Image.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("buffer size = %dx%d, want 40x20", b.Dx(), b.Dy())
	}
}

func TestPrepareDownscales(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 300, 150))
	p := Prepare(src, 100, 1)
	if b := p.Image.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("buffer size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestPNGRoundTripThroughLoadFile(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	path := filepath.Join(t.TempDir(), "in.png")
	if err := SavePNG(path, src); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFile(path, 1024, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Format != "png" {
		t.Errorf("Format = %q, want png", p.Format)
	}
	if got := p.Image.NRGBAAt(2, 1); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, _, err := Decode(strings.NewReader("not an image")); err == nil {
		t.Error("expected error decoding garbage")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.png"), 1024, 1); err == nil {
		t.Error("expected error for missing file")
	}
}
