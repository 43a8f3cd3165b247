// Package region decides which pixels are line art and which pixels belong
// to the same paintable region.
package region

import "brushcolor/internal/pixbuf"

// Default classifier parameters.
const (
	DefaultOutlineThreshold = 80
	DefaultMatchTolerance   = 5  // "already this color" guard
	DefaultFloodTolerance   = 60 // region membership while flooding
)

// Classifier holds the thresholds used by the predicates.
type Classifier struct {
	// OutlineThreshold θ: a pixel is outline when R, G and B are all below it.
	OutlineThreshold int
	// MatchTolerance is the tight per-channel tolerance for no-op guards.
	MatchTolerance int
	// FloodTolerance is the loose per-channel tolerance for region growth.
	FloodTolerance int
}

// Default returns a classifier with the default thresholds.
func Default() Classifier {
	return Classifier{
		OutlineThreshold: DefaultOutlineThreshold,
		MatchTolerance:   DefaultMatchTolerance,
		FloodTolerance:   DefaultFloodTolerance,
	}
}

// IsOutline reports whether a pixel with the given channels is line art.
func (c Classifier) IsOutline(r, g, b uint8) bool {
	t := c.OutlineThreshold
	return int(r) < t && int(g) < t && int(b) < t
}

// IsOutlineColor is IsOutline for a Color; alpha is ignored.
func (c Classifier) IsOutlineColor(p pixbuf.Color) bool {
	return c.IsOutline(p.R, p.G, p.B)
}

// SameColor reports whether p1 and p2 match under the tight tolerance.
func (c Classifier) SameColor(p1, p2 pixbuf.Color) bool {
	return Matches(p1, p2, c.MatchTolerance)
}

// SameRegion reports whether p belongs to the region seeded by target.
// Outline pixels never belong to a region.
func (c Classifier) SameRegion(p, target pixbuf.Color) bool {
	if c.IsOutlineColor(p) {
		return false
	}
	return Matches(p, target, c.FloodTolerance)
}

// Matches reports whether every channel of p1 and p2, alpha included,
// differs by at most tol.
func Matches(p1, p2 pixbuf.Color, tol int) bool {
	return absDiff(p1.R, p2.R) <= tol &&
		absDiff(p1.G, p2.G) <= tol &&
		absDiff(p1.B, p2.B) <= tol &&
		absDiff(p1.A, p2.A) <= tol
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
