package main

import (
	"fmt"
	"os"

	"github.com/arturoeanton/go-domxp/domx"
	"github.com/spf13/cobra"
)

var fmtHTML bool

// fmtCmd reads a document and writes it back out via Node.WriteTo.
var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Parse a document and re-serialize it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readAll(args)
		if err != nil {
			return err
		}
		mode := domx.ModeXML
		if fmtHTML {
			mode = domx.ModeHTML
		}
		tree, err := domx.Parse(data, mode)
		if err != nil {
			return err
		}
		if _, err := tree.Root().WriteTo(os.Stdout, false); err != nil {
			return err
		}
		fmt.Println()
		for _, w := range tree.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Pos, w.Msg)
		}
		return nil
	},
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtHTML, "html", false, "parse as tolerant HTML instead of strict XML")
	rootCmd.AddCommand(fmtCmd)
}
