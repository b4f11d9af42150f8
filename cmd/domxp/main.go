// Command domxp parses XML/HTML documents and evaluates XPath 1.0
// expressions against them.
package main

func main() {
	Execute()
}
