// Package domx implements a non-validating XML/HTML markup parser: a
// dialect-aware lexer, an arena-backed document tree, and namespace
// resolution, per the system this module exposes through the xpath package
// for querying.
package domx

// Parse builds a Tree from raw bytes. HTML input is charset-sniffed and
// transcoded to UTF-8 first; XML input is assumed to already be UTF-8 text,
// since the XML declaration's own encoding pseudo-attribute is exposed via
// Root().XMLDecl() rather than auto-transcoded by the parser.
func Parse(data []byte, mode Mode, opts ...Option) (*Tree, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	src := string(data)
	if mode == ModeHTML {
		decoded, err := decodeHTML(data, "")
		if err != nil {
			return nil, err
		}
		src = string(decoded)
	}
	return parseDocument(src, mode, cfg)
}

// ParseString parses already-decoded text, skipping charset sniffing.
func ParseString(src string, mode Mode, opts ...Option) (*Tree, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	return parseDocument(src, mode, cfg)
}
