package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"brushcolor/internal/logging"
	"brushcolor/internal/mcp"
	_ "brushcolor/internal/mcp/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [image]",
	Short: "Serve the coloring tools over MCP on stdin/stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	imagePath := ""
	if len(args) == 1 {
		imagePath = args[0]
	}
	_, swatches, sess, err := setup(cmd, imagePath)
	if err != nil {
		return err
	}
	defer sess.Close()

	srv := mcp.NewServer(mcp.DefaultToolRegistry, &mcp.Env{Session: sess, Palette: swatches})
	logging.Logger().Info("serving MCP on stdio", "session", sess.ID(), "tools", mcp.DefaultToolRegistry.Count())

	err = mcp.ServeStdio(cmd.Context(), srv)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
