// Package tools provides the coloring tools served over MCP.
// Each tool registers itself with mcp.DefaultToolRegistry.
package tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"brushcolor/internal/coords"
	"brushcolor/internal/fill"
	"brushcolor/internal/mcp"
	"brushcolor/internal/palette"
	"brushcolor/internal/session"
)

func init() {
	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("load_image",
			mcplib.WithDescription("Loads a line-art picture to color. Clears undo history."),
			mcplib.WithString("path",
				mcplib.Required(),
				mcplib.Description("Path to a PNG, JPEG, GIF, BMP, TIFF or WebP file"),
			),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				path, err := GetStringArg(args, "path")
				if err != nil {
					return nil, err
				}
				if err := env.Session.LoadFile(path); err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				st := env.Session.Status()
				return mcplib.NewToolResultText(fmt.Sprintf("loaded %s (%dx%d pixels)", path, st.Width, st.Height)), nil
			}
		},
	)

	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("fill",
			mcplib.WithDescription("Fills the region containing pixel (x, y) with a color. Outlines are never painted."),
			mcplib.WithNumber("x", mcplib.Required(), mcplib.Description("Pixel column")),
			mcplib.WithNumber("y", mcplib.Required(), mcplib.Description("Pixel row")),
			mcplib.WithString("color",
				mcplib.Description("Hex color (#RRGGBB) or palette name. Default: the session color"),
			),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				x, y, err := pixelArgs(args)
				if err != nil {
					return nil, err
				}
				c, err := GetColorArg(args, "color", env.Palette, env.Session.Status().Color)
				if err != nil {
					return nil, err
				}
				out, err := env.Session.FillAt(x, y, c)
				return outcomeResult(out, err)
			}
		},
	)

	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("erase",
			mcplib.WithDescription("Restores the region containing pixel (x, y) to its original colors."),
			mcplib.WithNumber("x", mcplib.Required(), mcplib.Description("Pixel column")),
			mcplib.WithNumber("y", mcplib.Required(), mcplib.Description("Pixel row")),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				x, y, err := pixelArgs(args)
				if err != nil {
					return nil, err
				}
				out, err := env.Session.EraseAt(x, y)
				return outcomeResult(out, err)
			}
		},
	)

	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("tap",
			mcplib.WithDescription("Taps the displayed picture at display point (x, y), as a pointer would. Points are mapped through the viewport set with set_viewport."),
			mcplib.WithNumber("x", mcplib.Required(), mcplib.Description("Display x coordinate")),
			mcplib.WithNumber("y", mcplib.Required(), mcplib.Description("Display y coordinate")),
			mcplib.WithString("mode",
				mcplib.Enum("fill", "erase"),
				mcplib.Description("Tap mode. Default: the session mode"),
			),
			mcplib.WithString("color",
				mcplib.Description("Hex color or palette name for fill mode. Default: the session color"),
			),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				px, err := GetNumberArg(args, "x")
				if err != nil {
					return nil, err
				}
				py, err := GetNumberArg(args, "y")
				if err != nil {
					return nil, err
				}
				mode := env.Session.Mode()
				if m := GetOptionalStringArg(args, "mode", ""); m != "" {
					if mode, err = session.ParseMode(m); err != nil {
						return nil, err
					}
				}
				c, err := GetColorArg(args, "color", env.Palette, env.Session.Status().Color)
				if err != nil {
					return nil, err
				}
				out, err := env.Session.HandleTap(coords.Point{X: px, Y: py}, mode, c)
				return outcomeResult(out, err)
			}
		},
	)

	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("set_viewport",
			mcplib.WithDescription("Sets where the picture is displayed, in display units, so tap coordinates can be mapped to pixels."),
			mcplib.WithNumber("width", mcplib.Required(), mcplib.Description("Displayed width, or container width when fit is true")),
			mcplib.WithNumber("height", mcplib.Required(), mcplib.Description("Displayed height, or container height when fit is true")),
			mcplib.WithNumber("left", mcplib.Description("Left edge. Default: 0")),
			mcplib.WithNumber("top", mcplib.Description("Top edge. Default: 0")),
			mcplib.WithBoolean("fit",
				mcplib.Description("Fit the picture inside the rectangle, keeping its aspect ratio. Default: false"),
			),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				r, err := rectArgs(args)
				if err != nil {
					return nil, err
				}
				if !env.Session.Status().Loaded {
					return mcplib.NewToolResultError(session.ErrNoImage.Error()), nil
				}
				if GetOptionalBoolArg(args, "fit", false) {
					if r, err = env.Session.FitViewport(r); err != nil {
						return mcplib.NewToolResultError(err.Error()), nil
					}
				} else {
					env.Session.SetViewport(r)
				}
				return mcplib.NewToolResultText(formatViewport(r)), nil
			}
		},
	)

	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("undo",
			mcplib.WithDescription("Reverts the most recent fill or erase."),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				if !env.Session.Undo() {
					return mcplib.NewToolResultText("nothing to undo"), nil
				}
				return mcplib.NewToolResultText("undone"), nil
			}
		},
	)

	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("reset",
			mcplib.WithDescription("Restores the original picture and clears undo history."),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				if err := env.Session.Reset(); err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				return mcplib.NewToolResultText("reset"), nil
			}
		},
	)

	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("export",
			mcplib.WithDescription("Saves the colored picture as PNG and returns it."),
			mcplib.WithString("dir",
				mcplib.Description("Directory to write to. Default: the configured export directory"),
			),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				args, err := GetArgs(req)
				if err != nil {
					return nil, err
				}
				path, data, err := env.Session.ExportPNG(GetOptionalStringArg(args, "dir", ""))
				if err != nil {
					return mcplib.NewToolResultError(err.Error()), nil
				}
				return &mcplib.CallToolResult{
					Content: []mcplib.Content{
						mcplib.NewTextContent("saved " + path),
						mcplib.NewImageContent(base64.StdEncoding.EncodeToString(data), "image/png"),
					},
				}, nil
			}
		},
	)

	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("palette",
			mcplib.WithDescription("Lists the available crayon colors."),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				var sb strings.Builder
				for i, sw := range env.Palette {
					if i > 0 {
						sb.WriteByte('\n')
					}
					fmt.Fprintf(&sb, "%s %s", sw.Name, palette.Hex(sw.Color))
				}
				return mcplib.NewToolResultText(sb.String()), nil
			}
		},
	)

	mcp.DefaultToolRegistry.Register(
		mcplib.NewTool("status",
			mcplib.WithDescription("Describes the loaded picture, current color and undo depth."),
		),
		func(env *mcp.Env) mcp.ToolHandler {
			return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
				st := env.Session.Status()
				if !st.Loaded {
					return mcplib.NewToolResultText("no image loaded"), nil
				}
				mode := "fill"
				if st.Eraser {
					mode = "erase"
				}
				return mcplib.NewToolResultText(fmt.Sprintf(
					"image %dx%d (logical %dx%d), color %s, mode %s, undo %d/%d, %s",
					st.Width, st.Height, st.LogicalWidth, st.LogicalHeight,
					palette.Hex(st.Color), mode, st.HistoryLen, st.HistoryDepth,
					formatViewport(st.Viewport),
				)), nil
			}
		},
	)
}

func pixelArgs(args map[string]any) (int, int, error) {
	x, err := GetIntArg(args, "x")
	if err != nil {
		return 0, 0, err
	}
	y, err := GetIntArg(args, "y")
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// rectArgs reads a display rectangle. Width and height must be positive.
func rectArgs(args map[string]any) (coords.Rect, error) {
	var r coords.Rect
	var err error
	if r.Width, err = GetNumberArg(args, "width"); err != nil {
		return r, err
	}
	if r.Height, err = GetNumberArg(args, "height"); err != nil {
		return r, err
	}
	if r.Width <= 0 || r.Height <= 0 {
		return r, fmt.Errorf("width and height must be positive, got %gx%g", r.Width, r.Height)
	}
	if r.Left, err = GetOptionalNumberArg(args, "left", 0); err != nil {
		return r, err
	}
	if r.Top, err = GetOptionalNumberArg(args, "top", 0); err != nil {
		return r, err
	}
	return r, nil
}

func formatViewport(r coords.Rect) string {
	return fmt.Sprintf("viewport %g,%g %gx%g", r.Left, r.Top, r.Width, r.Height)
}

// outcomeResult reports a fill outcome as text. A missing image is a tool
// error rather than a protocol error.
func outcomeResult(out fill.Outcome, err error) (*mcplib.CallToolResult, error) {
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return mcplib.NewToolResultText(out.String()), nil
}
