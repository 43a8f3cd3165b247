// Package fill implements the region fill and erase operations.
//
// Both operations grow a region from a seed pixel with an iterative scanline
// algorithm: every popped seed is widened left and right into a span, the span
// is painted, and fillable pixels directly above and below are pushed as new
// seeds. The explicit stack keeps memory on the heap so large uniform areas
// cannot exhaust the goroutine stack.
package fill

import (
	"brushcolor/internal/logging"
	"brushcolor/internal/pixbuf"
	"brushcolor/internal/region"
)

// Outcome describes what a fill or erase did.
type Outcome int

const (
	// Applied means the buffer was modified and a snapshot was recorded.
	Applied Outcome = iota
	// OutOfBounds means the seed lies outside the buffer.
	OutOfBounds
	// OnOutline means the seed is a line-art pixel.
	OnOutline
	// AlreadyMatches means the seed already has the requested color
	// (or, for erase, its original color).
	AlreadyMatches
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case OutOfBounds:
		return "out of bounds"
	case OnOutline:
		return "on outline"
	case AlreadyMatches:
		return "already matches"
	default:
		return "unknown"
	}
}

// Mutated reports whether the outcome changed the buffer.
func (o Outcome) Mutated() bool {
	return o == Applied
}

// Recorder receives the pre-mutation snapshot of a buffer.
// history.Stack satisfies it.
type Recorder interface {
	Push(snapshot []uint8)
}

// Engine applies fills and erases using a region classifier.
type Engine struct {
	Classifier region.Classifier
}

// New creates an engine with the given classifier.
func New(c region.Classifier) *Engine {
	return &Engine{Classifier: c}
}

// Fill paints the region containing (x, y) with c at full opacity.
// The snapshot is pushed to rec only when the buffer is about to change;
// rec may be nil.
func (e *Engine) Fill(buf *pixbuf.Buffer, x, y int, c pixbuf.Color, rec Recorder) Outcome {
	if !buf.InBounds(x, y) {
		return OutOfBounds
	}
	target := buf.At(x, y)
	if e.Classifier.IsOutlineColor(target) {
		return OnOutline
	}
	paint := c.Opaque()
	if e.Classifier.SameColor(target, paint) {
		return AlreadyMatches
	}

	if rec != nil {
		rec.Push(buf.Snapshot())
	}
	n := e.flood(buf, x, y, target, func(off int) {
		buf.SetOffset(off, paint)
	})
	logging.Logger().Debug("fill applied", "x", x, "y", y, "color", paint, "pixels", n)
	return Applied
}

// Erase restores the region containing (x, y) to the buffer's original
// pixels. Each visited pixel gets back its own pristine value.
func (e *Engine) Erase(buf *pixbuf.Buffer, x, y int, rec Recorder) Outcome {
	if !buf.InBounds(x, y) {
		return OutOfBounds
	}
	target := buf.At(x, y)
	if e.Classifier.IsOutlineColor(target) {
		return OnOutline
	}
	if e.Classifier.SameColor(target, buf.OriginalAt(x, y)) {
		return AlreadyMatches
	}

	if rec != nil {
		rec.Push(buf.Snapshot())
	}
	n := e.flood(buf, x, y, target, buf.RestoreOffset)
	logging.Logger().Debug("erase applied", "x", x, "y", y, "pixels", n)
	return Applied
}

type seed struct {
	x, y int
}

// flood visits the 4-connected region of pixels matching target that
// contains (sx, sy) and calls paint with the byte offset of each one.
// It returns the number of painted pixels.
func (e *Engine) flood(buf *pixbuf.Buffer, sx, sy int, target pixbuf.Color, paint func(off int)) int {
	w, h := buf.Width(), buf.Height()
	visited := newBitset(w * h)

	canFill := func(x, y int) bool {
		idx := y*w + x
		if visited.has(idx) {
			return false
		}
		return e.Classifier.SameRegion(buf.SampleOffset(idx*4), target)
	}

	stack := make([]seed, 0, 64)
	stack = append(stack, seed{sx, sy})
	visited.set(sy*w + sx)

	painted := 0
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		row := s.y * w

		left := s.x
		for left > 0 && canFill(left-1, s.y) {
			left--
			visited.set(row + left)
		}
		right := s.x
		for right < w-1 && canFill(right+1, s.y) {
			right++
			visited.set(row + right)
		}

		for x := left; x <= right; x++ {
			paint((row + x) * 4)
		}
		painted += right - left + 1

		for x := left; x <= right; x++ {
			if s.y > 0 && canFill(x, s.y-1) {
				visited.set(row - w + x)
				stack = append(stack, seed{x, s.y - 1})
			}
			if s.y < h-1 && canFill(x, s.y+1) {
				visited.set(row + w + x)
				stack = append(stack, seed{x, s.y + 1})
			}
		}
	}
	return painted
}

// bitset is a dense visited marker, one bit per pixel.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) has(i int) bool {
	return b[i>>6]&(1<<(uint(i)&63)) != 0
}

func (b bitset) set(i int) {
	b[i>>6] |= 1 << (uint(i) & 63)
}
