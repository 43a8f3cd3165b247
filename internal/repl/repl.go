// Package repl provides the interactive coloring loop.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"brushcolor/internal/palette"
	"brushcolor/internal/preview"
	"brushcolor/internal/printer"
	"brushcolor/internal/region"
	"brushcolor/internal/session"
)

// Options configures a Loop.
type Options struct {
	Palette      []palette.Swatch
	Classifier   region.Classifier
	PreviewWidth int
	TrueColor    bool
	// Spinner shows a busy indicator while fills run.
	Spinner bool
	// AutoShow redraws the picture after every change.
	AutoShow bool
}

// Loop reads commands and applies them to one session.
type Loop struct {
	sess     *session.Session
	opts     Options
	renderer *preview.Renderer
	out      io.Writer
	errOut   io.Writer
}

// New creates a Loop writing normal output to out and errors to errOut.
func New(sess *session.Session, opts Options, out, errOut io.Writer) *Loop {
	if len(opts.Palette) == 0 {
		opts.Palette = palette.Default()
	}
	return &Loop{
		sess:     sess,
		opts:     opts,
		renderer: preview.New(opts.PreviewWidth, opts.TrueColor),
		out:      out,
		errOut:   errOut,
	}
}

// Run reads commands from in until EOF, "quit", or ctx is cancelled.
func (l *Loop) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		l.prompt()
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				// EOF (Ctrl+D) or read error
				fmt.Fprintln(l.out)
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}
			if quit := l.handleCommand(ctx, input); quit {
				return nil
			}
		}
	}
}

func (l *Loop) prompt() {
	st := l.sess.Status()
	if st.Eraser {
		fmt.Fprintf(l.out, "%seraser>%s ", printer.ColorDim, printer.ColorReset)
		return
	}
	fmt.Fprintf(l.out, "%s %sbrush>%s ", printer.Swatch(st.Color, l.opts.TrueColor), printer.ColorGreen, printer.ColorReset)
}
