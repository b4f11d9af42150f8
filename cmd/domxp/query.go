package main

import (
	"fmt"
	"os"

	"github.com/arturoeanton/go-domxp/domx"
	"github.com/arturoeanton/go-domxp/xpath"
	"github.com/spf13/cobra"
)

var queryHTML bool

// queryCmd is the XPath evaluator: the last positional argument is the
// expression, everything before it locates the document.
var queryCmd = &cobra.Command{
	Use:   "query [file] <xpath-expression>",
	Short: "Evaluate an XPath 1.0 expression against a document",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr := args[len(args)-1]
		data, err := readAll(args[:len(args)-1])
		if err != nil {
			return err
		}
		mode := domx.ModeXML
		if queryHTML {
			mode = domx.ModeHTML
		}
		tree, err := domx.Parse(data, mode)
		if err != nil {
			return err
		}
		v, err := xpath.Query(tree.Root(), expr)
		if err != nil {
			return err
		}
		return printValue(v)
	},
}

func printValue(v xpath.Value) error {
	switch v.Kind() {
	case xpath.KindNodeSet:
		for _, n := range v.Nodes() {
			if err := printNode(n); err != nil {
				return err
			}
		}
	default:
		fmt.Println(v.String())
	}
	return nil
}

func printNode(n domx.Node) error {
	switch n.Kind() {
	case domx.KindAttribute:
		fmt.Printf("%s=%q\n", n.QName(), n.Value())
	case domx.KindText:
		fmt.Println(n.Text())
	case domx.KindNamespace:
		fmt.Printf("%s=%q\n", n.NamespacePrefix(), n.NamespaceURI())
	default:
		if _, err := n.WriteTo(os.Stdout, false); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func init() {
	queryCmd.Flags().BoolVar(&queryHTML, "html", false, "parse as tolerant HTML instead of strict XML")
	rootCmd.AddCommand(queryCmd)
}
