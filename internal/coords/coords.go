// Package coords maps interaction points in display coordinates to buffer pixels.
package coords

import "math"

// Point is a position in display (CSS-like) units.
type Point struct {
	X, Y float64
}

// Rect is the on-screen bounding rectangle of the displayed picture.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Pixel is an integer buffer coordinate. It may lie outside the buffer.
type Pixel struct {
	X, Y int
}

// Mapper converts display points into buffer pixels for one picture.
type Mapper struct {
	// ImageWidth and ImageHeight are the logical (unscaled) picture size.
	ImageWidth, ImageHeight int
	// PixelRatio is the number of buffer pixels per logical pixel.
	PixelRatio float64
}

// Map converts p, taken relative to the displayed rectangle rect, into a
// buffer pixel. Results are not clamped; callers bounds-check them.
// The second result is false when rect has no area.
func (m Mapper) Map(p Point, rect Rect) (Pixel, bool) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return Pixel{}, false
	}
	ratio := m.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}

	localX := p.X - rect.Left
	localY := p.Y - rect.Top
	logicalX := round(localX * float64(m.ImageWidth) / rect.Width)
	logicalY := round(localY * float64(m.ImageHeight) / rect.Height)

	return Pixel{
		X: int(round(logicalX * ratio)),
		Y: int(round(logicalY * ratio)),
	}, true
}

// FitRect returns the largest rectangle with the picture's aspect ratio that
// fits in a container of the given size, anchored at the origin.
func (m Mapper) FitRect(containerW, containerH float64) Rect {
	if containerW <= 0 || containerH <= 0 || m.ImageWidth == 0 || m.ImageHeight == 0 {
		return Rect{Width: float64(m.ImageWidth), Height: float64(m.ImageHeight)}
	}
	scale := math.Min(containerW/float64(m.ImageWidth), containerH/float64(m.ImageHeight))
	return Rect{
		Width:  round(float64(m.ImageWidth) * scale),
		Height: round(float64(m.ImageHeight) * scale),
	}
}

// round rounds half up, toward positive infinity.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}
