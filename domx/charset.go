package domx

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// decodeHTML sniffs the byte stream's encoding the way a browser would (BOM,
// <meta charset>, Content-Type hint, then statistical fallback) and returns
// UTF-8 text ready for the lexer. XML documents skip this step: their bytes
// are taken as UTF-8, and an encoding named in the XMLDecl is only recorded on
// the XMLDecl node, not applied.
//
// The lexer itself only ever sees UTF-8 text.
func decodeHTML(raw []byte, contentTypeHint string) ([]byte, error) {
	enc, name, certain := charset.DetermineEncoding(raw, contentTypeHint)
	if name == "utf-8" {
		return raw, nil
	}
	if !certain && utf8.Valid(raw) {
		// The sniffer's windows-1252 fallback is only a guess; bytes that
		// already form valid UTF-8 stay untouched.
		return raw, nil
	}
	return transcode(raw, enc)
}

func transcode(raw []byte, enc encoding.Encoding) ([]byte, error) {
	r := enc.NewDecoder().Reader(bytes.NewReader(raw))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return out, nil
}
