package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"brushcolor/internal/coords"
	"brushcolor/internal/fill"
	"brushcolor/internal/palette"
	"brushcolor/internal/pixbuf"
	"brushcolor/internal/printer"
	"brushcolor/internal/session"
	"brushcolor/internal/spinner"
	"brushcolor/internal/table"
)

// handleCommand processes one input line. Returns true when the loop should end.
func (l *Loop) handleCommand(ctx context.Context, input string) bool {
	fields := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(fields) == 0 {
		return false
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "load":
		l.handleLoad(args)
	case "tap":
		l.handleTap(args)
	case "fill":
		l.handleFill(args)
	case "erase":
		l.handleErase(args)
	case "color", "colour":
		l.handleColor(args)
	case "eraser":
		l.handleEraser()
	case "undo":
		l.handleUndo()
	case "reset":
		l.handleReset()
	case "save", "export":
		l.handleSave(args)
	case "viewport":
		l.handleViewport(args)
	case "show":
		l.handleShow(args)
	case "palette":
		l.handlePalette()
	case "status":
		printer.PrintStatus(l.out, l.sess.Status(), l.opts.TrueColor)
	case "help":
		l.handleHelp()
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(l.out, "Unknown command: %s (type help for available commands)\n", cmd)
	}
	return false
}

func (l *Loop) handleLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(l.out, "Usage: load <path>")
		return
	}
	if err := l.sess.LoadFile(args[0]); err != nil {
		printer.PrintError(l.errOut, err)
		return
	}
	st := l.sess.Status()
	fmt.Fprintf(l.out, "Loaded %s (%dx%d)\n", args[0], st.LogicalWidth, st.LogicalHeight)
	if l.opts.AutoShow {
		l.Show(false)
	}
}

// parsePoint parses "<x> <y>" as display coordinates.
func parsePoint(args []string) (coords.Point, error) {
	if len(args) < 2 {
		return coords.Point{}, fmt.Errorf("expected <x> <y>")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return coords.Point{}, fmt.Errorf("invalid x %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return coords.Point{}, fmt.Errorf("invalid y %q", args[1])
	}
	return coords.Point{X: x, Y: y}, nil
}

// parsePixel parses "<x> <y>" as whole buffer coordinates.
func parsePixel(args []string) (int, int, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("expected <x> <y>")
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", args[1])
	}
	return x, y, nil
}

func (l *Loop) handleTap(args []string) {
	p, err := parsePoint(args)
	if err != nil {
		fmt.Fprintf(l.out, "Usage: tap <x> <y> (%v)\n", err)
		return
	}
	mode := l.sess.Mode()
	l.run(mode, func() (fill.Outcome, error) {
		return l.sess.Tap(p)
	})
}

func (l *Loop) handleFill(args []string) {
	x, y, err := parsePixel(args)
	if err != nil {
		fmt.Fprintf(l.out, "Usage: fill <x> <y> [color] (%v)\n", err)
		return
	}
	c := l.sess.Status().Color
	if len(args) > 2 {
		if c, err = l.lookup(args[2]); err != nil {
			printer.PrintError(l.errOut, err)
			return
		}
	}
	l.run(session.ModeFill, func() (fill.Outcome, error) {
		return l.sess.FillAt(x, y, c)
	})
}

func (l *Loop) handleErase(args []string) {
	x, y, err := parsePixel(args)
	if err != nil {
		fmt.Fprintf(l.out, "Usage: erase <x> <y> (%v)\n", err)
		return
	}
	l.run(session.ModeErase, func() (fill.Outcome, error) {
		return l.sess.EraseAt(x, y)
	})
}

// handleViewport shows or sets where taps land. Forms:
//
//	viewport                        print the current viewport
//	viewport preview                tap in preview cell coordinates
//	viewport fit <w> <h>            fit the picture in a w x h container
//	viewport <left> <top> <w> <h>   set the rectangle directly
func (l *Loop) handleViewport(args []string) {
	const usage = "Usage: viewport [preview | fit <w> <h> | <left> <top> <w> <h>]"
	switch {
	case len(args) == 0:
	case len(args) == 1 && strings.EqualFold(args[0], "preview"):
		st := l.sess.Status()
		if !st.Loaded {
			printer.PrintError(l.errOut, session.ErrNoImage)
			return
		}
		cols, rows := l.renderer.Cells(st.Width, st.Height)
		l.sess.SetViewport(coords.Rect{Width: float64(cols), Height: float64(rows)})
	case len(args) == 3 && strings.EqualFold(args[0], "fit"):
		size, err := parseFloats(args[1:])
		if err != nil || !(size[0] > 0 && size[1] > 0) {
			fmt.Fprintln(l.out, usage)
			return
		}
		if _, err := l.sess.FitViewport(coords.Rect{Width: size[0], Height: size[1]}); err != nil {
			printer.PrintError(l.errOut, err)
			return
		}
	case len(args) == 4:
		v, err := parseFloats(args)
		if err != nil || !(v[2] > 0 && v[3] > 0) {
			fmt.Fprintln(l.out, usage)
			return
		}
		l.sess.SetViewport(coords.Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]})
	default:
		fmt.Fprintln(l.out, usage)
		return
	}
	r := l.sess.Viewport()
	fmt.Fprintf(l.out, "Viewport %g,%g %gx%g\n", r.Left, r.Top, r.Width, r.Height)
}

func parseFloats(args []string) ([]float64, error) {
	v := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		v[i] = f
	}
	return v, nil
}

// run applies op, with the spinner when enabled, and reports the outcome.
func (l *Loop) run(mode session.Mode, op func() (fill.Outcome, error)) {
	var (
		out fill.Outcome
		err error
	)
	if l.opts.Spinner {
		out, err = spinner.WithSpinner(l.out, l.sess.Status().Color, l.opts.TrueColor, op)
	} else {
		out, err = op()
	}
	if err != nil {
		printer.PrintError(l.errOut, err)
		return
	}
	printer.PrintOutcome(l.out, mode, out)
	if out.Mutated() && l.opts.AutoShow {
		l.Show(false)
	}
}

// lookup resolves a palette index (1-based), palette name, or hex color.
func (l *Loop) lookup(s string) (pixbuf.Color, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(l.opts.Palette) {
			return pixbuf.Color{}, fmt.Errorf("palette index %d out of range 1-%d", n, len(l.opts.Palette))
		}
		return l.opts.Palette[n-1].Color, nil
	}
	return palette.Lookup(l.opts.Palette, s)
}

func (l *Loop) handleColor(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(l.out, "Usage: color <hex|name|number>")
		return
	}
	c, err := l.lookup(args[0])
	if err != nil {
		printer.PrintError(l.errOut, err)
		return
	}
	l.sess.SetColor(c)
	fmt.Fprintf(l.out, "Color %s %s\n", printer.Swatch(c, l.opts.TrueColor), palette.Hex(c))
}

func (l *Loop) handleEraser() {
	if l.sess.ToggleEraser() {
		fmt.Fprintln(l.out, "Eraser on")
	} else {
		fmt.Fprintln(l.out, "Eraser off")
	}
}

func (l *Loop) handleUndo() {
	if !l.sess.Undo() {
		fmt.Fprintln(l.out, "Nothing to undo.")
		return
	}
	fmt.Fprintln(l.out, "Undone.")
	if l.opts.AutoShow {
		l.Show(false)
	}
}

func (l *Loop) handleReset() {
	if err := l.sess.Reset(); err != nil {
		printer.PrintError(l.errOut, err)
		return
	}
	fmt.Fprintln(l.out, "Picture reset.")
	if l.opts.AutoShow {
		l.Show(false)
	}
}

func (l *Loop) handleSave(args []string) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	path, err := l.sess.ExportFile(dir)
	if err != nil {
		printer.PrintError(l.errOut, err)
		return
	}
	fmt.Fprintf(l.out, "✓ Saved %s\n", path)
}

func (l *Loop) handleShow(args []string) {
	outline := len(args) > 0 && strings.EqualFold(args[0], "outline")
	l.Show(outline)
}

// Show draws the picture, or only its outlines.
func (l *Loop) Show(outline bool) {
	img, err := l.sess.Snapshot()
	if err != nil {
		printer.PrintError(l.errOut, err)
		return
	}
	if outline {
		err = l.renderer.Outline(l.out, img, l.opts.Classifier)
	} else {
		err = l.renderer.Color(l.out, img)
	}
	if err != nil {
		printer.PrintError(l.errOut, err)
	}
}

func (l *Loop) handlePalette() {
	current := l.sess.Status().Color
	tbl := table.New(
		table.Column{Header: "#", Align: table.AlignRight},
		table.Column{Header: "Name"},
		table.Column{Header: "Hex"},
		table.Column{Header: "Swatch"},
	)
	highlight := -1
	for i, sw := range l.opts.Palette {
		tbl.AddRow(strconv.Itoa(i+1), sw.Name, palette.Hex(sw.Color), printer.Swatch(sw.Color, l.opts.TrueColor))
		if sw.Color.Opaque() == current.Opaque() && highlight < 0 {
			highlight = i
		}
	}
	opts := table.DefaultPrintOptions()
	opts.Writer = l.out
	opts.HighlightRow = highlight
	tbl.Print(opts)
}

func (l *Loop) handleHelp() {
	fmt.Fprintln(l.out, "\n=== Available Commands ===")
	fmt.Fprintln(l.out, "load <path>          - Load a picture (clears undo history)")
	fmt.Fprintln(l.out, "tap <x> <y>          - Tap the picture at display coordinates")
	fmt.Fprintln(l.out, "fill <x> <y> [color] - Fill the region at a pixel")
	fmt.Fprintln(l.out, "erase <x> <y>        - Restore the region at a pixel")
	fmt.Fprintln(l.out, "color <c>            - Pick a color by number, name or hex")
	fmt.Fprintln(l.out, "eraser               - Toggle the eraser for taps")
	fmt.Fprintln(l.out, "undo                 - Undo the last change")
	fmt.Fprintln(l.out, "reset                - Restore the original picture")
	fmt.Fprintln(l.out, "save [dir]           - Save the picture as PNG")
	fmt.Fprintln(l.out, "viewport [...]       - Show or set where taps land (preview, fit w h, left top w h)")
	fmt.Fprintln(l.out, "show [outline]       - Draw the picture or its outlines")
	fmt.Fprintln(l.out, "palette              - List crayon colors")
	fmt.Fprintln(l.out, "status               - Show session information")
	fmt.Fprintln(l.out, "help                 - Show this help message")
	fmt.Fprintln(l.out, "quit                 - Leave")
	fmt.Fprintln(l.out)
}
