// Package imageio decodes pictures into coloring buffers and encodes results.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrEmptyImage is returned when a decoded image has no pixels.
var ErrEmptyImage = errors.New("imageio: empty image")

// Prepared is a picture ready to become a coloring buffer.
type Prepared struct {
	// Image holds the buffer-resolution pixels, flattened over white.
	Image *image.NRGBA
	// LogicalWidth and LogicalHeight are the size before the pixel ratio.
	LogicalWidth, LogicalHeight int
	// Format is the decoder name reported by image.Decode, if any.
	Format string
}

// Decode reads any registered image format from r.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, format, ErrEmptyImage
	}
	return img, format, nil
}

// LoadFile opens, decodes and prepares the picture at path.
func LoadFile(path string, maxSize int, pixelRatio float64) (*Prepared, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := Decode(f)
	if err != nil {
		return nil, err
	}
	p := Prepare(img, maxSize, pixelRatio)
	p.Format = format
	return p, nil
}

// FitSize scales (w, h) so the longest side is at most maxSize,
// preserving aspect ratio. Sizes already within bounds are unchanged.
func FitSize(w, h, maxSize int) (int, int) {
	longest := max(w, h)
	if maxSize <= 0 || longest <= maxSize {
		return w, h
	}
	scale := float64(maxSize) / float64(longest)
	fw := max(int(float64(w)*scale+0.5), 1)
	fh := max(int(float64(h)*scale+0.5), 1)
	return fw, fh
}

// Prepare fits img within maxSize logical pixels, allocates the buffer at
// pixelRatio times that size, paints white underneath and draws img on top.
func Prepare(img image.Image, maxSize int, pixelRatio float64) *Prepared {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	b := img.Bounds()
	lw, lh := FitSize(b.Dx(), b.Dy(), maxSize)
	bw := max(int(float64(lw)*pixelRatio), 1)
	bh := max(int(float64(lh)*pixelRatio), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, bw, bh))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	if bw == b.Dx() && bh == b.Dy() {
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Over)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	}

	return &Prepared{
		Image:         dst,
		LogicalWidth:  lw,
		LogicalHeight: lh,
	}
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imageio: encode png: %w", err)
	}
	return nil
}

// SavePNG writes img as a PNG file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}
	if err := EncodePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteFile writes already encoded image data to path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("imageio: write file: %w", err)
	}
	return nil
}
