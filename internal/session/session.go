// Package session holds the state of one coloring session and serializes
// every operation on it.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"brushcolor/internal/config"
	"brushcolor/internal/coords"
	"brushcolor/internal/fill"
	"brushcolor/internal/history"
	"brushcolor/internal/imageio"
	"brushcolor/internal/logging"
	"brushcolor/internal/palette"
	"brushcolor/internal/pixbuf"
	"brushcolor/internal/region"
)

// ErrNoImage is returned by operations that need a loaded picture.
var ErrNoImage = errors.New("no image loaded")

var errNilBuffer = errors.New("nil pixel buffer")

// Mode selects what a tap does.
type Mode int

const (
	ModeFill Mode = iota
	ModeErase
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeErase {
		return "erase"
	}
	return "fill"
}

// ParseMode parses "fill" or "erase".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fill", "":
		return ModeFill, nil
	case "erase", "eraser":
		return ModeErase, nil
	default:
		return ModeFill, fmt.Errorf("unknown mode %q (want fill or erase)", s)
	}
}

// Options configures a session.
type Options struct {
	Classifier   region.Classifier
	HistoryDepth int
	MaxSize      int
	PixelRatio   float64
	ExportDir    string
}

// DefaultOptions returns options matching the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig converts the loaded configuration into session options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Classifier: region.Classifier{
			OutlineThreshold: cfg.Fill.OutlineThreshold,
			MatchTolerance:   cfg.Fill.MatchTolerance,
			FloodTolerance:   cfg.Fill.FloodTolerance,
		},
		HistoryDepth: cfg.History.Depth,
		MaxSize:      cfg.Image.MaxSize,
		PixelRatio:   cfg.Image.PixelRatio,
		ExportDir:    cfg.Export.Dir,
	}
}

// Status is a point-in-time summary of a session.
type Status struct {
	ID            string
	Loaded        bool
	Width, Height int
	LogicalWidth  int
	LogicalHeight int
	HistoryLen    int
	HistoryDepth  int
	Viewport      coords.Rect
	Color         pixbuf.Color
	Eraser        bool
}

// Session is the explicit context for one picture being colored.
// All methods are safe for concurrent use; each operation holds the
// session lock until it has fully completed.
type Session struct {
	mu sync.Mutex

	id      string
	opts    Options
	engine  *fill.Engine
	history *history.Stack

	buf           *pixbuf.Buffer
	logicalWidth  int
	logicalHeight int
	viewport      coords.Rect

	color   pixbuf.Color
	eraser  bool
	exports int
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}
	return &Session{
		id:      uuid.New().String(),
		opts:    opts,
		engine:  fill.New(opts.Classifier),
		history: history.NewStack(opts.HistoryDepth),
		color:   palette.DefaultColor,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) logger() *slog.Logger {
	return logging.Logger().With("session", s.id)
}

// LoadNewImage replaces the picture with buf. The original is re-captured
// from buf's current pixels and history is cleared. The logical size is
// derived from the configured pixel ratio.
func (s *Session) LoadNewImage(buf *pixbuf.Buffer) error {
	if buf == nil {
		return fmt.Errorf("failed to load image: %w", errNilBuffer)
	}
	fresh, err := pixbuf.New(buf.Width(), buf.Height(), buf.Snapshot())
	if err != nil {
		return err
	}
	lw := max(int(float64(buf.Width())/s.opts.PixelRatio+0.5), 1)
	lh := max(int(float64(buf.Height())/s.opts.PixelRatio+0.5), 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(fresh, lw, lh)
	return nil
}

// LoadImage fits img to the configured size and pixel ratio and loads it.
func (s *Session) LoadImage(img image.Image) error {
	return s.loadPrepared(imageio.Prepare(img, s.opts.MaxSize, s.opts.PixelRatio))
}

// LoadFile decodes the picture at path and loads it.
func (s *Session) LoadFile(path string) error {
	p, err := imageio.LoadFile(path, s.opts.MaxSize, s.opts.PixelRatio)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	return s.loadPrepared(p)
}

func (s *Session) loadPrepared(p *imageio.Prepared) error {
	buf, err := pixbuf.FromImage(p.Image)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(buf, p.LogicalWidth, p.LogicalHeight)
	return nil
}

// install must be called with s.mu held.
func (s *Session) install(buf *pixbuf.Buffer, lw, lh int) {
	s.buf = buf
	s.logicalWidth = lw
	s.logicalHeight = lh
	s.viewport = coords.Rect{Width: float64(lw), Height: float64(lh)}
	s.history.Clear()
	s.logger().Info("image loaded",
		"width", buf.Width(), "height", buf.Height(),
		"logical_width", lw, "logical_height", lh)
}

// SetViewport records where the picture is displayed, in display units.
func (s *Session) SetViewport(r coords.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = r
}

// FitViewport sets the viewport to the largest rectangle with the
// picture's aspect ratio that fits in container, anchored at the
// container's top-left corner, and returns it.
func (s *Session) FitViewport(container coords.Rect) (coords.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return coords.Rect{}, ErrNoImage
	}
	m := coords.Mapper{ImageWidth: s.logicalWidth, ImageHeight: s.logicalHeight}
	r := m.FitRect(container.Width, container.Height)
	r.Left, r.Top = container.Left, container.Top
	s.viewport = r
	s.logger().Debug("viewport fitted",
		"container_width", container.Width, "container_height", container.Height,
		"width", r.Width, "height", r.Height)
	return r, nil
}

// Viewport returns the current display rectangle.
func (s *Session) Viewport() coords.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// SetColor selects the fill color and leaves eraser mode.
func (s *Session) SetColor(c pixbuf.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = c.Opaque()
	s.eraser = false
}

// ToggleEraser flips eraser mode and returns the new state.
func (s *Session) ToggleEraser() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eraser = !s.eraser
	return s.eraser
}

// Mode returns the mode a plain tap uses.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eraser {
		return ModeErase
	}
	return ModeFill
}

// Tap handles a tap with the session's current color and eraser state.
func (s *Session) Tap(p coords.Point) (fill.Outcome, error) {
	s.mu.Lock()
	mode, c := ModeFill, s.color
	if s.eraser {
		mode = ModeErase
	}
	s.mu.Unlock()
	return s.HandleTap(p, mode, c)
}

// HandleTap maps a display point through the viewport and applies a fill
// or erase there.
func (s *Session) HandleTap(p coords.Point, mode Mode, c pixbuf.Color) (fill.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return fill.OutOfBounds, ErrNoImage
	}

	m := coords.Mapper{
		ImageWidth:  s.logicalWidth,
		ImageHeight: s.logicalHeight,
		PixelRatio:  s.opts.PixelRatio,
	}
	px, ok := m.Map(p, s.viewport)
	if !ok {
		return fill.OutOfBounds, nil
	}
	return s.apply(px.X, px.Y, mode, c), nil
}

// FillAt fills the region at buffer pixel (x, y).
func (s *Session) FillAt(x, y int, c pixbuf.Color) (fill.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return fill.OutOfBounds, ErrNoImage
	}
	return s.apply(x, y, ModeFill, c), nil
}

// EraseAt restores the region at buffer pixel (x, y).
func (s *Session) EraseAt(x, y int) (fill.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return fill.OutOfBounds, ErrNoImage
	}
	return s.apply(x, y, ModeErase, pixbuf.Color{}), nil
}

// apply must be called with s.mu held and an image loaded.
func (s *Session) apply(x, y int, mode Mode, c pixbuf.Color) fill.Outcome {
	var out fill.Outcome
	if mode == ModeErase {
		out = s.engine.Erase(s.buf, x, y, s.history)
	} else {
		out = s.engine.Fill(s.buf, x, y, c, s.history)
	}
	s.logger().Debug("tap", "mode", mode.String(), "x", x, "y", y, "outcome", out.String())
	return out
}

// Undo restores the most recent snapshot. It reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return false
	}
	snap, ok := s.history.Pop()
	if !ok {
		return false
	}
	if err := s.buf.Restore(snap); err != nil {
		s.logger().Warn("discarding mismatched snapshot", "error", err)
		return false
	}
	return true
}

// Reset restores the picture to its original pixels and clears history.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return ErrNoImage
	}
	s.buf.Reset()
	s.history.Clear()
	s.logger().Info("picture reset")
	return nil
}

// Close discards the picture and history.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = nil
	s.history.Clear()
}

// Snapshot returns a copy of the live picture.
func (s *Session) Snapshot() (*image.NRGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return nil, ErrNoImage
	}
	return s.buf.ToImage(), nil
}

// Export writes the live picture to w as PNG.
func (s *Session) Export(w io.Writer) error {
	img, err := s.Snapshot()
	if err != nil {
		return err
	}
	return imageio.EncodePNG(w, img)
}

// ExportFile writes the live picture as a PNG in dir (the configured
// export directory when dir is empty) and returns the file path.
func (s *Session) ExportFile(dir string) (string, error) {
	path, _, err := s.ExportPNG(dir)
	return path, err
}

// ExportPNG encodes one snapshot of the live picture, writes it to a new
// file in dir, and returns the path along with the bytes written.
func (s *Session) ExportPNG(dir string) (string, []byte, error) {
	s.mu.Lock()
	if s.buf == nil {
		s.mu.Unlock()
		return "", nil, ErrNoImage
	}
	img := s.buf.ToImage()
	s.exports++
	name := fmt.Sprintf("brushcolor-%s-%d.png", s.id[:8], s.exports)
	s.mu.Unlock()

	if dir == "" {
		dir = s.opts.ExportDir
	}
	var buf bytes.Buffer
	if err := imageio.EncodePNG(&buf, img); err != nil {
		return "", nil, err
	}
	path := filepath.Join(dir, name)
	if err := imageio.WriteFile(path, buf.Bytes()); err != nil {
		return "", nil, err
	}
	s.logger().Info("picture exported", "path", path, "bytes", buf.Len())
	return path, buf.Bytes(), nil
}

// Status returns a summary of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		ID:            s.id,
		Loaded:        s.buf != nil,
		LogicalWidth:  s.logicalWidth,
		LogicalHeight: s.logicalHeight,
		HistoryLen:    s.history.Len(),
		HistoryDepth:  s.history.Depth(),
		Viewport:      s.viewport,
		Color:         s.color,
		Eraser:        s.eraser,
	}
	if s.buf != nil {
		st.Width = s.buf.Width()
		st.Height = s.buf.Height()
	}
	return st
}
