package spinner

import (
	"fmt"
	"io"
	"strings"

	"brushcolor/internal/pixbuf"
	"brushcolor/internal/printer"
)

// levels are the bar glyphs from lowest to highest.
var levels = []rune("▁▂▃▄▅▆▇█")

// barWidth is the number of bars in the wave.
const barWidth = 6

// WaveAnimation draws a rising and falling bar wave in the paint color.
type WaveAnimation struct {
	w            io.Writer
	color        pixbuf.Color
	frameIdx     int
	useTrueColor bool
}

// NewWaveAnimation creates a wave painted in c, written to w.
func NewWaveAnimation(w io.Writer, c pixbuf.Color, trueColor bool) *WaveAnimation {
	return &WaveAnimation{
		w:            w,
		color:        c,
		useTrueColor: trueColor,
	}
}

// Start hides the cursor.
func (a *WaveAnimation) Start() {
	fmt.Fprint(a.w, printer.HideCursor)
}

// Stop clears the line and shows the cursor.
func (a *WaveAnimation) Stop() {
	fmt.Fprint(a.w, "\r"+printer.ClearLine+printer.ColorReset+printer.ShowCursor)
}

// Render prints the current frame, then advances to the next one.
func (a *WaveAnimation) Render() {
	fmt.Fprintf(a.w, "\r%s%s%s", printer.Fg(a.color, a.useTrueColor), a.frame(), printer.ColorReset)
	a.frameIdx = (a.frameIdx + 1) % a.FrameCount()
}

// FrameCount returns the length of one rise-and-fall cycle.
func (a *WaveAnimation) FrameCount() int {
	return 2 * (len(levels) - 1)
}

// frame returns the bars for the current frame. Each bar trails its left
// neighbour by one step.
func (a *WaveAnimation) frame() string {
	var sb strings.Builder
	n := a.FrameCount()
	for i := 0; i < barWidth; i++ {
		step := (a.frameIdx - i + n*barWidth) % n
		if step >= len(levels) {
			step = n - step
		}
		sb.WriteRune(levels[step])
	}
	return sb.String()
}
