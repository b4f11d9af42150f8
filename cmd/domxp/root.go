package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "domxp",
	Short: "A non-validating XML/HTML parser and XPath 1.0 query tool",
	Long: `domxp parses XML and tolerant HTML into an in-memory document tree
and can re-serialize it or evaluate XPath 1.0 expressions against it.`,
}

// Execute runs the command tree, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// inputReader resolves the input source: the first non-flag argument is a
// file path; absent that, it falls back to stdin.
func inputReader(args []string) (io.Reader, error) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return os.Open(args[0])
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		return os.Stdin, nil
	}
	return nil, errNoInput
}

var errNoInput = errNoInputType("no input provided (pass a file path or pipe to stdin)")

type errNoInputType string

func (e errNoInputType) Error() string { return string(e) }

func readAll(args []string) ([]byte, error) {
	r, err := inputReader(args)
	if err != nil {
		return nil, err
	}
	if f, ok := r.(*os.File); ok && f != os.Stdin {
		defer f.Close()
	}
	return io.ReadAll(r)
}
