package main

import (
	"fmt"
	"os"

	"github.com/arturoeanton/go-domxp/domx"
	"github.com/spf13/cobra"
)

var parseHTML bool

// parseCmd checks a document for well-formedness and reports any
// diagnostics, without re-emitting the markup (fmt does that).
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a document and report well-formedness",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readAll(args)
		if err != nil {
			return err
		}
		mode := domx.ModeXML
		if parseHTML {
			mode = domx.ModeHTML
		}
		tree, err := domx.Parse(data, mode)
		if err != nil {
			return err
		}
		for _, w := range tree.Warnings() {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", w.Kind, w.Pos, w.Msg)
		}
		if tree.WellFormed() {
			fmt.Println("well-formed")
			return nil
		}
		fmt.Println("not well-formed")
		os.Exit(2)
		return nil
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseHTML, "html", false, "parse as tolerant HTML instead of strict XML")
	rootCmd.AddCommand(parseCmd)
}
