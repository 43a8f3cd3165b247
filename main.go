// Package main provides brushcolor, a coloring-book fill tool for line-art
// pictures, usable interactively or as an MCP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"brushcolor/internal/config"
	"brushcolor/internal/logging"
	"brushcolor/internal/palette"
	"brushcolor/internal/session"
	"brushcolor/internal/signal"
)

var rootCmd = &cobra.Command{
	Use:           "brushcolor",
	Short:         "Color line-art pictures with region fills",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: config.yaml when present)")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level (debug, info, warn, error)")
}

func main() {
	err := signal.RunWithContext(func(ctx context.Context) error {
		return rootCmd.ExecuteContext(ctx)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration, installs the logger, and creates a session,
// loading the picture at imagePath when it is not empty.
func setup(cmd *cobra.Command, imagePath string) (*config.Config, []palette.Swatch, *session.Session, error) {
	path, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	levelName := cfg.Log.Level
	if override, _ := cmd.Flags().GetString("log-level"); override != "" {
		levelName = override
	}
	level, err := config.ParseLevel(levelName)
	if err != nil {
		return nil, nil, nil, err
	}
	logging.SetLogger(logging.NewTextLogger(os.Stderr, level))

	swatches, err := palette.FromHex(cfg.Palette)
	if err != nil {
		return nil, nil, nil, err
	}

	sess := session.New(session.OptionsFromConfig(cfg))
	if imagePath != "" {
		if err := sess.LoadFile(imagePath); err != nil {
			return nil, nil, nil, err
		}
	}
	return cfg, swatches, sess, nil
}
