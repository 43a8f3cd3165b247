package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"brushcolor/internal/preview"
	"brushcolor/internal/printer"
	"brushcolor/internal/repl"
	"brushcolor/internal/session"
)

var colorCmd = &cobra.Command{
	Use:   "color [image]",
	Short: "Color a picture interactively in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runColor,
}

func init() {
	colorCmd.Flags().IntP("width", "w", preview.DefaultWidth, "Preview width in terminal columns")
	colorCmd.Flags().Bool("no-spinner", false, "Do not animate while filling")
	colorCmd.Flags().Bool("no-show", false, "Do not redraw the picture after each change")
	rootCmd.AddCommand(colorCmd)
}

func runColor(cmd *cobra.Command, args []string) error {
	imagePath := ""
	if len(args) == 1 {
		imagePath = args[0]
	}
	cfg, swatches, sess, err := setup(cmd, imagePath)
	if err != nil {
		return err
	}
	defer sess.Close()

	width, _ := cmd.Flags().GetInt("width")
	noSpinner, _ := cmd.Flags().GetBool("no-spinner")
	noShow, _ := cmd.Flags().GetBool("no-show")

	loop := repl.New(sess, repl.Options{
		Palette:      swatches,
		Classifier:   session.OptionsFromConfig(cfg).Classifier,
		PreviewWidth: width,
		TrueColor:    printer.SupportsTrueColor(),
		Spinner:      !noSpinner,
		AutoShow:     !noShow,
	}, os.Stdout, os.Stderr)

	fmt.Println("Type help for commands. Press Ctrl+D to end the session.")
	if imagePath != "" && !noShow {
		loop.Show(false)
	}
	return loop.Run(cmd.Context(), os.Stdin)
}
