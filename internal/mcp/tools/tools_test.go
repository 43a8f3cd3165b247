package tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/quick"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"brushcolor/internal/mcp"
	"brushcolor/internal/palette"
	"brushcolor/internal/pixbuf"
	"brushcolor/internal/session"
)

// framed returns a 10x10 white picture with a black 1-pixel frame.
func framed() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x == 0 || y == 0 || x == 9 || y == 9 {
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func newEnv(t *testing.T, load bool) *mcp.Env {
	t.Helper()
	opts := session.DefaultOptions()
	opts.ExportDir = t.TempDir()
	s := session.New(opts)
	if load {
		if err := s.LoadImage(framed()); err != nil {
			t.Fatal(err)
		}
	}
	return &mcp.Env{Session: s, Palette: palette.Default()}
}

// getToolHandler retrieves a registered tool handler bound to env.
func getToolHandler(t *testing.T, name string, env *mcp.Env) mcp.ToolHandler {
	t.Helper()
	reg, ok := mcp.DefaultToolRegistry.Get(name)
	if !ok {
		t.Fatalf("%s tool not found in registry", name)
	}
	return reg.HandlerFactory(env)
}

func call(t *testing.T, env *mcp.Env, name string, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	result, err := getToolHandler(t, name, env)(context.Background(), makeCallToolRequest(args))
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return result
}

func callText(t *testing.T, env *mcp.Env, name string, args map[string]any) string {
	t.Helper()
	text, ok := getTextContent(call(t, env, name, args))
	if !ok {
		t.Fatalf("%s: expected TextContent result", name)
	}
	return text
}

func TestToolRegistration(t *testing.T) {
	expected := []string{"erase", "export", "fill", "load_image", "palette", "reset", "set_viewport", "status", "tap", "undo"}
	for _, name := range expected {
		if _, ok := mcp.DefaultToolRegistry.Get(name); !ok {
			t.Errorf("expected tool %q to be registered", name)
		}
	}
}

func TestFillToolDefinition(t *testing.T) {
	reg, ok := mcp.DefaultToolRegistry.Get("fill")
	if !ok {
		t.Fatal("fill tool not found")
	}
	schema := reg.Tool.InputSchema

	for _, name := range []string{"x", "y"} {
		prop, ok := schema.Properties[name].(map[string]any)
		if !ok {
			t.Fatalf("expected %q property", name)
		}
		if prop["type"] != "number" {
			t.Errorf("expected %s type to be 'number', got %v", name, prop["type"])
		}
	}
	for _, r := range schema.Required {
		if r == "color" {
			t.Error("'color' should not be required")
		}
	}
}

func TestFillTool(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "interior", args: map[string]any{"x": 4.0, "y": 4.0, "color": "#FF0000"}, want: "applied"},
		{name: "outline", args: map[string]any{"x": 0.0, "y": 0.0, "color": "#FF0000"}, want: "on outline"},
		{name: "out of bounds", args: map[string]any{"x": 10.0, "y": 4.0}, want: "out of bounds"},
		{name: "negative", args: map[string]any{"x": -1.0, "y": 4.0}, want: "out of bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, true)
			if got := callText(t, env, "fill", tt.args); got != tt.want {
				t.Errorf("fill = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFillToolSameColorTwice(t *testing.T) {
	env := newEnv(t, true)
	args := map[string]any{"x": 4.0, "y": 4.0, "color": "sky"}

	if got := callText(t, env, "fill", args); got != "applied" {
		t.Fatalf("first fill = %q", got)
	}
	if got := callText(t, env, "fill", args); got != "already matches" {
		t.Errorf("second fill = %q, want already matches", got)
	}
	if st := env.Session.Status(); st.HistoryLen != 1 {
		t.Errorf("history = %d, want 1", st.HistoryLen)
	}
}

func TestFillToolArgumentErrors(t *testing.T) {
	env := newEnv(t, true)
	handler := getToolHandler(t, "fill", env)

	tests := []struct {
		name string
		args any
	}{
		{name: "missing y", args: map[string]any{"x": 1.0}},
		{name: "fractional x", args: map[string]any{"x": 1.5, "y": 1.0}},
		{name: "bad color", args: map[string]any{"x": 1.0, "y": 1.0, "color": "#12"}},
		{name: "not a map", args: "x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := handler(context.Background(), makeCallToolRequest(tt.args)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestToolsWithoutImage(t *testing.T) {
	env := newEnv(t, false)

	for _, name := range []string{"fill", "erase", "tap"} {
		result := call(t, env, name, map[string]any{"x": 1.0, "y": 1.0})
		if !result.IsError {
			t.Errorf("%s: expected tool error without an image", name)
		}
	}
	if got := callText(t, env, "undo", nil); got != "nothing to undo" {
		t.Errorf("undo = %q", got)
	}
	if !call(t, env, "reset", nil).IsError {
		t.Error("reset: expected tool error without an image")
	}
	if got := callText(t, env, "status", nil); got != "no image loaded" {
		t.Errorf("status = %q", got)
	}
}

func TestEraseAndUndoTools(t *testing.T) {
	env := newEnv(t, true)
	callText(t, env, "fill", map[string]any{"x": 3.0, "y": 3.0, "color": "#00FF00"})

	if got := callText(t, env, "erase", map[string]any{"x": 5.0, "y": 5.0}); got != "applied" {
		t.Fatalf("erase = %q", got)
	}
	if got := callText(t, env, "erase", map[string]any{"x": 5.0, "y": 5.0}); got != "already matches" {
		t.Errorf("second erase = %q", got)
	}
	if got := callText(t, env, "undo", nil); got != "undone" {
		t.Errorf("undo = %q", got)
	}

	img, _ := env.Session.Snapshot()
	if c := img.NRGBAAt(5, 5); c.G != 255 || c.R != 0 {
		t.Errorf("after undo pixel = %+v, want green", c)
	}
}

func TestTapTool(t *testing.T) {
	env := newEnv(t, true)

	if got := callText(t, env, "tap", map[string]any{"x": 4.4, "y": 4.6, "color": "coral"}); got != "applied" {
		t.Fatalf("tap = %q", got)
	}
	img, _ := env.Session.Snapshot()
	if c := img.NRGBAAt(4, 5); c.R != palette.DefaultColor.R || c.G != palette.DefaultColor.G {
		t.Errorf("pixel = %+v, want coral", c)
	}

	if got := callText(t, env, "tap", map[string]any{"x": 4.0, "y": 4.0, "mode": "erase"}); got != "applied" {
		t.Errorf("erase tap = %q", got)
	}
	if got := callText(t, env, "tap", map[string]any{"x": 40.0, "y": 4.0}); got != "out of bounds" {
		t.Errorf("outside tap = %q", got)
	}

	if _, err := getToolHandler(t, "tap", env)(context.Background(),
		makeCallToolRequest(map[string]any{"x": 1.0, "y": 1.0, "mode": "smudge"})); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestResetTool(t *testing.T) {
	env := newEnv(t, true)
	callText(t, env, "fill", map[string]any{"x": 3.0, "y": 3.0})

	if got := callText(t, env, "reset", nil); got != "reset" {
		t.Fatalf("reset = %q", got)
	}
	img, _ := env.Session.Snapshot()
	if c := img.NRGBAAt(3, 3); c != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel after reset = %+v", c)
	}
	if got := callText(t, env, "undo", nil); got != "nothing to undo" {
		t.Errorf("undo after reset = %q", got)
	}
}

func TestLoadImageTool(t *testing.T) {
	env := newEnv(t, false)
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, framed()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got := callText(t, env, "load_image", map[string]any{"path": path})
	if !strings.Contains(got, "10x10") {
		t.Errorf("load_image = %q", got)
	}

	if !call(t, env, "load_image", map[string]any{"path": filepath.Join(t.TempDir(), "nope.png")}).IsError {
		t.Error("expected tool error for missing file")
	}
}

func TestExportTool(t *testing.T) {
	env := newEnv(t, true)
	dir := t.TempDir()

	result := call(t, env, "export", map[string]any{"dir": dir})
	if result.IsError || len(result.Content) != 2 {
		t.Fatalf("unexpected export result: %+v", result)
	}
	text, _ := getTextContent(result)
	path := strings.TrimPrefix(text, "saved ")
	if filepath.Dir(path) != dir {
		t.Errorf("exported to %q, want dir %q", path, dir)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file: %v", err)
	}
	imgContent, ok := result.Content[1].(mcplib.ImageContent)
	if !ok {
		t.Fatal("expected ImageContent")
	}
	if imgContent.MIMEType != "image/png" || imgContent.Data == "" {
		t.Errorf("unexpected image content: %s, %d bytes", imgContent.MIMEType, len(imgContent.Data))
	}

	// The returned picture and the file come from the same encoding.
	data, err := base64.StdEncoding.DecodeString(imgContent.Data)
	if err != nil {
		t.Fatal(err)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, onDisk) {
		t.Error("returned PNG differs from the exported file")
	}
}

func TestSetViewportAndTap(t *testing.T) {
	tests := []struct {
		name     string
		viewport map[string]any
		tap      map[string]any
		want     string
	}{
		{
			name:     "offset and scaled",
			viewport: map[string]any{"left": 100.0, "top": 50.0, "width": 50.0, "height": 50.0},
			tap:      map[string]any{"x": 120.0, "y": 70.0},
			want:     "applied",
		},
		{
			name:     "outside offset picture",
			viewport: map[string]any{"left": 100.0, "top": 50.0, "width": 50.0, "height": 50.0},
			tap:      map[string]any{"x": 4.0, "y": 4.0},
			want:     "out of bounds",
		},
		{
			name:     "fitted container",
			viewport: map[string]any{"width": 40.0, "height": 30.0, "fit": true},
			tap:      map[string]any{"x": 12.0, "y": 12.0},
			want:     "applied",
		},
		{
			name:     "right of fitted picture",
			viewport: map[string]any{"width": 40.0, "height": 30.0, "fit": true},
			tap:      map[string]any{"x": 33.0, "y": 5.0},
			want:     "out of bounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, true)
			if got := callText(t, env, "set_viewport", tt.viewport); !strings.HasPrefix(got, "viewport ") {
				t.Fatalf("set_viewport = %q", got)
			}
			if got := callText(t, env, "tap", tt.tap); got != tt.want {
				t.Errorf("tap = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetViewportResult(t *testing.T) {
	env := newEnv(t, true)

	got := callText(t, env, "set_viewport", map[string]any{"left": 7.0, "top": 3.0, "width": 20.0, "height": 50.0, "fit": true})
	if got != "viewport 7,3 20x20" {
		t.Errorf("set_viewport = %q", got)
	}
	if !strings.Contains(callText(t, env, "status", nil), "viewport 7,3 20x20") {
		t.Error("status does not report the viewport")
	}

	handler := getToolHandler(t, "set_viewport", env)
	for _, args := range []map[string]any{
		{"width": 10.0},
		{"width": 0.0, "height": 10.0},
		{"width": 10.0, "height": -1.0},
		{"width": 10.0, "height": 10.0, "left": "a"},
	} {
		if _, err := handler(context.Background(), makeCallToolRequest(args)); err == nil {
			t.Errorf("set_viewport(%v): expected error", args)
		}
	}

	if !call(t, newEnv(t, false), "set_viewport", map[string]any{"width": 10.0, "height": 10.0}).IsError {
		t.Error("set_viewport: expected tool error without an image")
	}
}

func TestPaletteAndStatusTools(t *testing.T) {
	env := newEnv(t, true)

	lines := strings.Split(callText(t, env, "palette", nil), "\n")
	if len(lines) != len(env.Palette) {
		t.Errorf("palette lines = %d, want %d", len(lines), len(env.Palette))
	}
	if lines[0] != "coral #FF6B6B" {
		t.Errorf("first palette line = %q", lines[0])
	}

	callText(t, env, "fill", map[string]any{"x": 3.0, "y": 3.0})
	status := callText(t, env, "status", nil)
	for _, want := range []string{"10x10", "#FF6B6B", "mode fill", "undo 1/15"} {
		if !strings.Contains(status, want) {
			t.Errorf("status %q missing %q", status, want)
		}
	}
}

// TestFillToolNeverPaintsFrame verifies that no fill request, wherever it
// lands, changes the frame.
func TestFillToolNeverPaintsFrame(t *testing.T) {
	env := newEnv(t, true)
	handler := getToolHandler(t, "fill", env)

	property := func(x, y int8, r, g, b uint8) bool {
		args := map[string]any{
			"x":     float64(x % 12),
			"y":     float64(y % 12),
			"color": palette.Hex(pixbuf.Color{R: r, G: g, B: b, A: 255}),
		}
		if _, err := handler(context.Background(), makeCallToolRequest(args)); err != nil {
			return false
		}
		img, _ := env.Session.Snapshot()
		for i := 0; i < 10; i++ {
			for _, p := range [][2]int{{i, 0}, {i, 9}, {0, i}, {9, i}} {
				if img.NRGBAAt(p[0], p[1]) != (color.NRGBA{A: 255}) {
					return false
				}
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
