package mcp_test

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	mcplib "github.com/mark3labs/mcp-go/mcp"

	"brushcolor/internal/mcp"
	_ "brushcolor/internal/mcp/tools"
	"brushcolor/internal/palette"
	"brushcolor/internal/session"
)

func TestToolRegistry(t *testing.T) {
	r := mcp.NewToolRegistry()
	if r.Count() != 0 {
		t.Fatalf("new registry has %d tools", r.Count())
	}

	factory := func(env *mcp.Env) mcp.ToolHandler {
		return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
			return mcplib.NewToolResultText("ok"), nil
		}
	}
	r.Register(mcplib.NewTool("b"), factory)
	r.Register(mcplib.NewTool("a"), factory)
	r.Register(mcplib.NewTool("b", mcplib.WithDescription("replaced")), factory)

	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
	reg, ok := r.Get("b")
	if !ok || reg.Tool.Description != "replaced" {
		t.Errorf("Get(b) = %+v, %v", reg.Tool, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should fail")
	}
}

// TestServerInProcess drives the server through a real MCP client.
func TestServerInProcess(t *testing.T) {
	sess := session.New(session.DefaultOptions())
	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	if err := sess.LoadImage(img); err != nil {
		t.Fatal(err)
	}

	srv := mcp.NewServer(mcp.DefaultToolRegistry, &mcp.Env{Session: sess, Palette: palette.Default()})
	c, err := client.NewInProcessClient(srv)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	initReq := mcplib.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcplib.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcplib.Implementation{Name: "test", Version: "0"}
	initRes, err := c.Initialize(ctx, initReq)
	if err != nil {
		t.Fatal(err)
	}
	if initRes.ServerInfo.Name != mcp.ServerName {
		t.Errorf("server name = %q", initRes.ServerInfo.Name)
	}

	tools, err := c.ListTools(ctx, mcplib.ListToolsRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tools.Tools) != mcp.DefaultToolRegistry.Count() {
		t.Errorf("listed %d tools, want %d", len(tools.Tools), mcp.DefaultToolRegistry.Count())
	}

	req := mcplib.CallToolRequest{}
	req.Params.Name = "fill"
	req.Params.Arguments = map[string]any{"x": 2, "y": 3, "color": "teal"}
	res, err := c.CallTool(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	text, ok := res.Content[0].(mcplib.TextContent)
	if !ok || text.Text != "applied" {
		t.Errorf("fill result = %+v", res.Content)
	}
	if st := sess.Status(); st.HistoryLen != 1 {
		t.Errorf("history = %d, want 1", st.HistoryLen)
	}
}
