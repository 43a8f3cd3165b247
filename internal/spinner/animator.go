// Package spinner provides a minimal busy indicator with customizable visuals.
// The package separates animation timing (Animator) from visual rendering
// (Animation), allowing different styles to be plugged in.
package spinner

import (
	"context"
	"time"
)

// Animation defines the interface for spinner visual behavior.
// Implementations control all visual aspects including color, frame rendering,
// terminal state management, and output. The Animator only handles timing and lifecycle.
type Animation interface {
	// Start is called when the animation begins.
	// It should handle any setup (e.g., hiding cursor).
	Start()

	// Stop is called when the animation ends.
	// It should handle any cleanup (e.g., clearing line, showing cursor, resetting colors).
	Stop()

	// Render advances the animation state and prints the current frame.
	Render()

	// FrameCount returns the total number of frames in one complete animation cycle.
	FrameCount() int
}

// DefaultInterval is the time between frames (~12.5 FPS).
const DefaultInterval = 80 * time.Millisecond

// Animator manages the animation loop and timing for a spinner.
// The first frame is drawn one interval after Start, so work that finishes
// sooner never shows a frame.
type Animator struct {
	interval  time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
	animation Animation
}

// NewAnimator creates a new Animator with the given Animation implementation.
func NewAnimator(animation Animation) *Animator {
	return &Animator{
		interval:  DefaultInterval,
		animation: animation,
	}
}

// Start begins the animation in a background goroutine.
// If the animation is already running, this is a no-op.
func (a *Animator) Start() {
	if a.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})

	go a.run(ctx)
}

func (a *Animator) run(ctx context.Context) {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.animation.Start()

	for {
		select {
		case <-ctx.Done():
			a.animation.Stop()
			return
		case <-ticker.C:
			a.animation.Render()
		}
	}
}

// Stop stops the animation and waits for the goroutine to exit.
// If the animation is not running, this is a no-op.
func (a *Animator) Stop() {
	if a.cancel == nil {
		return
	}

	a.cancel()
	<-a.done
	a.cancel = nil
}
