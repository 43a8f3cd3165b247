// Package preview draws pictures in the terminal.
//
// Color renders with upper half-block characters, two pixels per cell, using
// 24-bit color where the terminal supports it and the 256-color cube
// otherwise. Outline renders only the line art as braille dots.
package preview

import (
	"bufio"
	"image"
	"io"

	xdraw "golang.org/x/image/draw"

	"brushcolor/internal/pixbuf"
	"brushcolor/internal/printer"
	"brushcolor/internal/region"
)

// DefaultWidth is the preview width in terminal columns.
const DefaultWidth = 64

const upperHalf = "▀"

// Renderer draws pictures at most Width columns wide.
type Renderer struct {
	Width     int
	TrueColor bool
}

// New creates a Renderer. A non-positive width selects DefaultWidth.
func New(width int, trueColor bool) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{Width: width, TrueColor: trueColor}
}

// fit scales w x h so that the width is at most maxW, never enlarging.
func fit(w, h, maxW int) (int, int) {
	if w <= maxW {
		return w, h
	}
	return maxW, max(1, (h*maxW+w/2)/w)
}

// Cells returns the number of columns and rows Color uses for a w x h picture.
func (r *Renderer) Cells(w, h int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	tw, th := fit(w, h, r.Width)
	return tw, (th + 1) / 2
}

// Color writes img as half-block cells, downscaled to fit the width.
func (r *Renderer) Color(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	tw, th := fit(b.Dx(), b.Dy(), r.Width)
	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)

	bw := bufio.NewWriter(w)
	for y := 0; y < th; y += 2 {
		var lastFg, lastBg string
		for x := 0; x < tw; x++ {
			fg := printer.Fg(at(dst, x, y), r.TrueColor)
			bg := ""
			if y+1 < th {
				bg = printer.Bg(at(dst, x, y+1), r.TrueColor)
			}
			if fg != lastFg {
				bw.WriteString(fg)
				lastFg = fg
			}
			if bg != lastBg {
				bw.WriteString(bg)
				lastBg = bg
			}
			bw.WriteString(upperHalf)
		}
		bw.WriteString(printer.ColorReset + "\n")
	}
	return bw.Flush()
}

// Outline writes the outline pixels of img as braille dots. A dot is set
// when any pixel it covers is an outline, so thin lines survive scaling.
func (r *Renderer) Outline(w io.Writer, img *image.NRGBA, cls region.Classifier) error {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	dw, dh := fit(b.Dx(), b.Dy(), r.Width*2)
	grid := NewBraille(dw, dh)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if cls.IsOutlineColor(at(img, x, y)) {
				grid.Set(x*dw/b.Dx(), y*dh/b.Dy())
			}
		}
	}
	_, err := io.WriteString(w, grid.String()+"\n")
	return err
}

// at reads the pixel at (x, y) relative to img's origin.
func at(img *image.NRGBA, x, y int) pixbuf.Color {
	i := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
	p := img.Pix[i : i+4 : i+4]
	return pixbuf.Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}
