// Package pixbuf provides the RGBA raster that coloring operations mutate.
package pixbuf

import (
	"bytes"
	"fmt"
	"image"
)

// Color is an 8-bit RGBA sample as stored in a Buffer.
type Color struct {
	R, G, B, A uint8
}

// Opaque returns c with full alpha.
func (c Color) Opaque() Color {
	c.A = 255
	return c
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = uint32(c.A)
	a |= a << 8
	return
}

// Buffer is a mutable W×H raster of interleaved RGBA samples, row-major,
// paired with the pristine copy captured when it was created.
type Buffer struct {
	width    int
	height   int
	pix      []uint8 // 4 bytes per pixel
	original []uint8 // never written after New
}

// New creates a buffer from raw RGBA bytes. The bytes are copied twice:
// once for the live raster and once for the pristine original.
func New(width, height int, pix []uint8) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("buffer data is %d bytes, want %d for %dx%d", len(pix), width*height*4, width, height)
	}

	live := make([]uint8, len(pix))
	copy(live, pix)
	orig := make([]uint8, len(pix))
	copy(orig, pix)

	return &Buffer{
		width:    width,
		height:   height,
		pix:      live,
		original: orig,
	}, nil
}

// NewFilled creates a width×height buffer with every pixel set to c.
func NewFilled(width, height int, c Color) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	pix := make([]uint8, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
	return New(width, height, pix)
}

// FromImage creates a buffer from any image, converting to non-premultiplied RGBA.
func FromImage(img image.Image) (*Buffer, error) {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || len(nrgba.Pix) != b.Dx()*b.Dy()*4 {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				nrgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return New(b.Dx(), b.Dy(), nrgba.Pix)
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// InBounds reports whether (x, y) lies inside the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Offset returns the byte offset of pixel (x, y). The caller must check bounds.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.width + x) * 4
}

// At returns the live pixel at (x, y), or the zero Color when out of bounds.
func (b *Buffer) At(x, y int) Color {
	if !b.InBounds(x, y) {
		return Color{}
	}
	return sample(b.pix, b.Offset(x, y))
}

// OriginalAt returns the pristine pixel at (x, y), or the zero Color when out of bounds.
func (b *Buffer) OriginalAt(x, y int) Color {
	if !b.InBounds(x, y) {
		return Color{}
	}
	return sample(b.original, b.Offset(x, y))
}

// Set writes c at (x, y). Out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, c Color) {
	if !b.InBounds(x, y) {
		return
	}
	b.SetOffset(b.Offset(x, y), c)
}

// SetOffset writes c at byte offset i.
func (b *Buffer) SetOffset(i int, c Color) {
	b.pix[i+0] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
}

// SampleOffset returns the live pixel at byte offset i.
func (b *Buffer) SampleOffset(i int) Color {
	return sample(b.pix, i)
}

// RestoreOffset copies the pristine pixel at byte offset i back into the live raster.
func (b *Buffer) RestoreOffset(i int) {
	copy(b.pix[i:i+4], b.original[i:i+4])
}

// Snapshot returns a deep copy of the live raster.
func (b *Buffer) Snapshot() []uint8 {
	s := make([]uint8, len(b.pix))
	copy(s, b.pix)
	return s
}

// Restore overwrites the live raster with a snapshot taken from this buffer.
func (b *Buffer) Restore(snapshot []uint8) error {
	if len(snapshot) != len(b.pix) {
		return fmt.Errorf("snapshot is %d bytes, buffer is %d", len(snapshot), len(b.pix))
	}
	copy(b.pix, snapshot)
	return nil
}

// Reset copies the pristine original back over the live raster.
func (b *Buffer) Reset() {
	copy(b.pix, b.original)
}

// Equal reports whether the live raster is byte-for-byte equal to snapshot.
func (b *Buffer) Equal(snapshot []uint8) bool {
	return bytes.Equal(b.pix, snapshot)
}

// ToImage copies the live raster into a new image.NRGBA.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.pix)
	return img
}

func sample(pix []uint8, i int) Color {
	return Color{R: pix[i+0], G: pix[i+1], B: pix[i+2], A: pix[i+3]}
}
