package domx

import (
	"io"
	"sort"
	"strings"
)

// WriteTo serializes the subtree rooted at n back to markup text, escaping
// reserved characters and collapsing self-closing/void elements. Attribute
// order is insertion order unless canonicalAttrOrder sorts by qualified
// name instead — a convenience ordering, not a full canonical-XML
// implementation.
func (n Node) WriteTo(w io.Writer, canonicalAttrOrder bool) (int64, error) {
	cw := &countingWriter{w: w}
	writeNode(cw, n, canonicalAttrOrder)
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) write(s string) {
	if c.err != nil {
		return
	}
	m, err := io.WriteString(c.w, s)
	c.n += int64(m)
	c.err = err
}

func writeNode(w *countingWriter, n Node, canon bool) {
	switch n.Kind() {
	case KindRoot:
		for _, c := range n.Children() {
			writeNode(w, c, canon)
		}
	case KindXMLDecl:
		w.write("<?xml")
		for _, a := range n.Attributes() {
			w.write(" ")
			w.write(a.QName())
			w.write(`="`)
			w.write(escapeAttr(a.Value()))
			w.write(`"`)
		}
		w.write("?>\n")
	case KindDTD:
		// A structurally-preserved DTD already carries its own delimiters.
		if strings.HasPrefix(n.DTDValue(), "<!DOCTYPE") {
			w.write(n.DTDValue())
		} else {
			w.write("<!DOCTYPE ")
			w.write(n.DTDValue())
			w.write(">")
		}
		w.write("\n")
	case KindComment:
		w.write("<!--")
		w.write(n.CommentText())
		w.write("-->")
	case KindPI:
		w.write("<?")
		w.write(n.PITarget())
		if n.PIValue() != "" {
			w.write(" ")
			w.write(n.PIValue())
		}
		w.write("?>")
	case KindText:
		if n.IsCData() {
			w.write("<![CDATA[")
			w.write(n.Text())
			w.write("]]>")
		} else {
			w.write(escapeText(n.Text()))
		}
	case KindElement:
		writeElement(w, n, canon)
	}
}

func writeElement(w *countingWriter, n Node, canon bool) {
	w.write("<")
	w.write(n.QName())
	for _, ns := range n.Namespaces() {
		w.write(" xmlns")
		if ns.NamespacePrefix() != "" {
			w.write(":")
			w.write(ns.NamespacePrefix())
		}
		w.write(`="`)
		w.write(escapeAttr(ns.NamespaceURI()))
		w.write(`"`)
	}
	attrs := n.Attributes()
	if canon {
		sorted := make([]Node, len(attrs))
		copy(sorted, attrs)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].QName() < sorted[j].QName() })
		attrs = sorted
	}
	for _, a := range attrs {
		w.write(" ")
		w.write(a.QName())
		w.write(`="`)
		w.write(escapeAttr(a.Value()))
		w.write(`"`)
	}
	if len(n.Children()) == 0 {
		switch {
		case n.ElementMode() == ModeHTML && n.IsVoid():
			w.write(">")
			return
		case n.ElementMode() == ModeHTML && n.IsSelfEnclosing():
			w.write("/>")
			return
		case n.ElementMode() == ModeXML && !canon:
			// Empty elements collapse to the self-closing form; canonical
			// output always keeps the explicit open/close pair.
			w.write("/>")
			return
		}
	}
	w.write(">")
	for _, c := range n.Children() {
		writeNode(w, c, canon)
	}
	w.write("</")
	w.write(n.QName())
	w.write(">")
}

// Text and attribute values hold their characters verbatim, entity
// references included, so only the structural characters are escaped here;
// entity transposition is the external renderer's concern.
var textEscapes = strings.NewReplacer("<", "&lt;", ">", "&gt;")
var attrEscapes = strings.NewReplacer("<", "&lt;", `"`, "&quot;")

func escapeText(s string) string { return textEscapes.Replace(s) }
func escapeAttr(s string) string { return attrEscapes.Replace(s) }
