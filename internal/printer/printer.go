// Package printer provides terminal output formatting with ANSI colors.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"brushcolor/internal/fill"
	"brushcolor/internal/palette"
	"brushcolor/internal/pixbuf"
	"brushcolor/internal/session"
)

// ANSI escape codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m" // Dim/faint intensity
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"

	HideCursor = "\033[?25l"
	ShowCursor = "\033[?25h"
	ClearLine  = "\033[K"
)

// SupportsTrueColor checks if the terminal supports 24-bit true color.
// macOS Terminal.app does not, but iTerm2 and most modern terminals do.
// We detect this via the COLORTERM environment variable.
func SupportsTrueColor() bool {
	colorterm := os.Getenv("COLORTERM")
	return strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit")
}

// RGBTo256 converts RGB values to an ANSI 256-color palette index
// using the 6x6x6 color cube (indices 16-231).
func RGBTo256(r, g, b uint8) int {
	// (v*5+127)/255 rounds to the nearest cube step
	r6 := (int(r)*5 + 127) / 255
	g6 := (int(g)*5 + 127) / 255
	b6 := (int(b)*5 + 127) / 255
	return 16 + 36*r6 + 6*g6 + b6
}

// Fg returns the escape sequence selecting c as foreground color.
func Fg(c pixbuf.Color, trueColor bool) string {
	if trueColor {
		return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
	}
	return fmt.Sprintf("\033[38;5;%dm", RGBTo256(c.R, c.G, c.B))
}

// Bg returns the escape sequence selecting c as background color.
func Bg(c pixbuf.Color, trueColor bool) string {
	if trueColor {
		return fmt.Sprintf("\033[48;2;%d;%d;%dm", c.R, c.G, c.B)
	}
	return fmt.Sprintf("\033[48;5;%dm", RGBTo256(c.R, c.G, c.B))
}

// Swatch returns a two-cell block painted in c.
func Swatch(c pixbuf.Color, trueColor bool) string {
	return Fg(c, trueColor) + "██" + ColorReset
}

// PrintOutcome reports the result of a fill or erase.
func PrintOutcome(w io.Writer, mode session.Mode, out fill.Outcome) {
	color := ColorGreen
	if !out.Mutated() {
		color = ColorYellow
	}
	fmt.Fprintf(w, "%s%s: %s%s\n", color, mode, out, ColorReset)
}

// PrintError writes err in red.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%sError: %v%s\n", ColorRed, err, ColorReset)
}

// PrintStatus writes a multi-line session summary.
func PrintStatus(w io.Writer, st session.Status, trueColor bool) {
	fmt.Fprintf(w, "\n%s=== Session %s ===%s\n", ColorBold, st.ID[:min(8, len(st.ID))], ColorReset)
	if !st.Loaded {
		fmt.Fprintln(w, "No image loaded.")
		fmt.Fprintln(w)
		return
	}
	mode := session.ModeFill
	if st.Eraser {
		mode = session.ModeErase
	}
	fmt.Fprintf(w, "Image:    %dx%d pixels (%dx%d logical)\n", st.Width, st.Height, st.LogicalWidth, st.LogicalHeight)
	fmt.Fprintf(w, "Color:    %s %s\n", Swatch(st.Color, trueColor), palette.Hex(st.Color))
	fmt.Fprintf(w, "Mode:     %s\n", mode)
	v := st.Viewport
	fmt.Fprintf(w, "Viewport: %g,%g %gx%g\n", v.Left, v.Top, v.Width, v.Height)
	fmt.Fprintf(w, "Undo:     %d/%d\n", st.HistoryLen, st.HistoryDepth)
	fmt.Fprintln(w)
}
