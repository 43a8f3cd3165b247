package spinner

import (
	"io"

	"brushcolor/internal/pixbuf"
)

// WithSpinner runs fn while a wave in color c animates on w.
func WithSpinner[T any](w io.Writer, c pixbuf.Color, trueColor bool, fn func() (T, error)) (T, error) {
	anim := NewAnimator(NewWaveAnimation(w, c, trueColor))
	anim.Start()
	defer anim.Stop()
	return fn()
}
