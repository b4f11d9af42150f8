package domx

import (
	"fmt"
	"strings"
	"unicode"
)

// voidElements never have content or a closing tag in the HTML dialect.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// rawTextElements capture their body opaquely up to the matching close tag,
// without tokenizing markup inside.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// parser builds a Tree by driving a lexer with a small lookahead queue. The
// queue exists only for the one/two-token lookahead the grammar needs
// (distinguishing an opening tag from a closing tag, and HTML's tolerant
// mismatched-close recovery); everything else is a single current token.
type parser struct {
	lex  *lexer
	cfg  *Config
	tree *Tree
	mode Mode
	ns   *nsScope

	buf  []Token
	errs []error

	cur  Token
	curE error

	// HTML only: local names of the currently-open elements, innermost
	// last, consulted when deciding whether a mismatched closing tag
	// implicitly closes this element or is fatal.
	openLocals []string
}

func (p *parser) ensure(n int) {
	for len(p.buf) < n {
		t, e := p.lex.nextToken()
		p.buf = append(p.buf, t)
		p.errs = append(p.errs, e)
	}
}

func (p *parser) peek(n int) (Token, error) {
	p.ensure(n + 1)
	return p.buf[n], p.errs[n]
}

func (p *parser) advance() {
	p.ensure(1)
	p.cur, p.curE = p.buf[0], p.errs[0]
	p.buf = p.buf[1:]
	p.errs = p.errs[1:]
}

func (p *parser) parseErr(msg string) *Error {
	return newError(ParseError, p.cur.Pos, p.cur.Text, msg)
}

func (p *parser) warn(msg string) {
	if !p.cfg.ShowWarnings {
		return
	}
	p.tree.warnings = append(p.tree.warnings, Diagnostic{Kind: Warning, Pos: p.cur.Pos, Msg: msg})
	p.tree.nodes[0].wellFormed = false
}

func (p *parser) appendChild(parentIdx, childIdx int) {
	pr := &p.tree.nodes[parentIdx]
	pr.children = append(pr.children, childIdx)
	p.tree.nodes[childIdx].parent = parentIdx
	p.tree.nodes[childIdx].index = len(pr.children) - 1
}

func (p *parser) appendMisc(parentIdx, childIdx int) {
	if childIdx < 0 {
		return
	}
	p.appendChild(parentIdx, childIdx)
}

// parseDocument is the single entry point used by api.go.
func parseDocument(src string, mode Mode, cfg *Config) (*Tree, error) {
	tree := newTree(mode)
	tree.nodes[0].wellFormed = true
	tree.nodes[0].docName = cfg.DocumentName

	p := &parser{lex: newLexer(src, mode, cfg), cfg: cfg, tree: tree, mode: mode}

	if mode == ModeXML {
		p.ns = newNsScope()
		xmlIdx := tree.alloc(rawNode{kind: KindNamespace, parent: -1, nsPrefix: xmlPrefix, nsURI: XMLNamespaceURI, isGlobal: true})
		xmlnsIdx := tree.alloc(rawNode{kind: KindNamespace, parent: -1, nsPrefix: xmlnsPrefix, nsURI: XMLNsNamespaceURI, isGlobal: true})
		tree.globalNS = []int{xmlIdx, xmlnsIdx}
		p.ns.declare(xmlPrefix, nsEntry{uri: XMLNamespaceURI, idx: xmlIdx})
		p.ns.declare(xmlnsPrefix, nsEntry{uri: XMLNsNamespaceURI, idx: xmlnsIdx})
	}

	p.advance()
	if err := p.parseProlog(); err != nil {
		return nil, err
	}
	rootIdx, found, err := p.parseRootElement()
	if err != nil {
		return nil, err
	}
	if found {
		p.appendChild(0, rootIdx)
		tree.nodes[0].rootElement = rootIdx
	} else if mode == ModeXML {
		return nil, p.parseErr("missing root element")
	}
	if err := p.parseTrailingMisc(); err != nil {
		return nil, err
	}
	return tree, nil
}

func (p *parser) readQName() (qname, prefix, local string, err error) {
	if p.curE != nil {
		return "", "", "", p.curE
	}
	if p.cur.Kind != TokName {
		return "", "", "", p.parseErr("expected name")
	}
	first := p.cur.Text
	p.advance()
	if p.mode == ModeHTML {
		// ':' is part of the local name in HTML, never a prefix separator.
		return first, "", first, nil
	}
	if p.curE == nil && p.cur.Kind == TokColon {
		p.advance()
		if p.curE != nil {
			return "", "", "", p.curE
		}
		if p.cur.Kind != TokName {
			return "", "", "", p.parseErr("expected name after ':'")
		}
		local = p.cur.Text
		p.advance()
		return first + ":" + local, first, local, nil
	}
	prefix, local = splitQName(first)
	return first, prefix, local, nil
}

// parseProlog consumes the optional XML declaration and any leading misc
// (comments, PIs, whitespace) and DOCTYPE before the root element.
func (p *parser) parseProlog() error {
	if p.mode == ModeXML && p.curE == nil && p.cur.Kind == TokPI && p.cur.PITarget == "xml" {
		idx, err := p.buildXMLDecl()
		if err != nil {
			return err
		}
		p.appendChild(0, idx)
		p.tree.nodes[0].xmlDeclIdx = idx
		p.advance()
	}
	for {
		if p.curE != nil {
			return p.curE
		}
		switch p.cur.Kind {
		case TokComment:
			idx := p.buildComment()
			p.advance()
			p.appendMisc(0, idx)
		case TokPI:
			idx := p.buildPI()
			p.advance()
			p.appendMisc(0, idx)
		case TokText:
			if strings.TrimSpace(p.cur.Text) != "" {
				p.warn("non-whitespace text before root element")
			}
			p.advance()
		case TokDoctype:
			idx := p.buildDTD()
			p.appendChild(0, idx)
			p.tree.nodes[0].dtdIdx = idx
			p.advance()
		default:
			return nil
		}
	}
}

func (p *parser) buildXMLDecl() (int, error) {
	order, values, err := parseXMLDeclAttrs(p.cur.PIData)
	if err != nil {
		return 0, newError(ParseError, p.cur.Pos, p.cur.Text, err.Error())
	}
	declIdx := p.tree.alloc(rawNode{kind: KindXMLDecl, parent: 0, attrByName: make(map[string]int)})
	for i, name := range order {
		aIdx := p.tree.alloc(rawNode{kind: KindAttribute, parent: declIdx, index: i, local: name, qname: name, value: values[name], boundNS: -1})
		p.tree.nodes[declIdx].attrs = append(p.tree.nodes[declIdx].attrs, aIdx)
		p.tree.nodes[declIdx].attrByName[name] = aIdx
	}
	return declIdx, nil
}

// parseXMLDeclAttrs parses `version="1.0" encoding="UTF-8" standalone="yes"`
// style pseudo-attributes out of a PI's raw data string.
func parseXMLDeclAttrs(data string) (order []string, values map[string]string, err error) {
	values = make(map[string]string)
	rs := []rune(data)
	i := 0
	skipWS := func() {
		for i < len(rs) && isSpace(rs[i]) {
			i++
		}
	}
	for {
		skipWS()
		if i >= len(rs) {
			break
		}
		start := i
		for i < len(rs) && (unicode.IsLetter(rs[i]) || rs[i] == '-') {
			i++
		}
		if i == start {
			return nil, nil, fmt.Errorf("malformed XML declaration")
		}
		name := string(rs[start:i])
		skipWS()
		if i >= len(rs) || rs[i] != '=' {
			return nil, nil, fmt.Errorf("expected '=' in XML declaration")
		}
		i++
		skipWS()
		if i >= len(rs) || (rs[i] != '"' && rs[i] != '\'') {
			return nil, nil, fmt.Errorf("expected quoted value in XML declaration")
		}
		quote := rs[i]
		i++
		vstart := i
		for i < len(rs) && rs[i] != quote {
			i++
		}
		if i >= len(rs) {
			return nil, nil, fmt.Errorf("unterminated value in XML declaration")
		}
		value := string(rs[vstart:i])
		i++
		order = append(order, name)
		values[name] = value
	}
	return order, values, nil
}

func (p *parser) buildComment() int {
	if !p.cfg.PreserveComment {
		return -1
	}
	return p.tree.alloc(rawNode{kind: KindComment, comment: p.cur.Text})
}

func (p *parser) buildPI() int {
	return p.tree.alloc(rawNode{kind: KindPI, piTarget: p.cur.PITarget, piValue: p.cur.PIData, local: p.cur.PITarget, qname: p.cur.PITarget})
}

func (p *parser) buildDTD() int {
	return p.tree.alloc(rawNode{kind: KindDTD, dtdValue: p.cur.Text})
}

func (p *parser) parseRootElement() (int, bool, error) {
	for {
		if p.curE != nil {
			return 0, false, p.curE
		}
		switch p.cur.Kind {
		case TokComment:
			idx := p.buildComment()
			p.advance()
			p.appendMisc(0, idx)
		case TokPI:
			idx := p.buildPI()
			p.advance()
			p.appendMisc(0, idx)
		case TokText:
			if strings.TrimSpace(p.cur.Text) != "" {
				p.warn("non-whitespace text before root element")
			}
			p.advance()
		case TokDoctype:
			idx := p.buildDTD()
			p.appendChild(0, idx)
			p.tree.nodes[0].dtdIdx = idx
			p.advance()
		case TokLT:
			nt, nerr := p.peek(0)
			if nerr != nil {
				return 0, false, nerr
			}
			if nt.Kind == TokSlash {
				return 0, false, p.parseErr("unexpected closing tag")
			}
			idx, err := p.parseElement()
			if err != nil {
				return 0, false, err
			}
			return idx, true, nil
		case TokEOF:
			return 0, false, nil
		default:
			return 0, false, p.parseErr("unexpected token")
		}
	}
}

type rawAttr struct {
	qname, prefix, local, value string
	pos                         Position
}

// parseElement is entered with p.cur == TokLT of an opening tag.
func (p *parser) parseElement() (int, error) {
	startPos := p.cur.Pos
	p.advance()
	if p.curE != nil {
		return 0, p.curE
	}
	qname, prefix, local, err := p.readQName()
	if err != nil {
		return 0, err
	}
	if p.mode == ModeXML {
		if prefix == xmlnsPrefix {
			return 0, newError(ParseError, startPos, qname, "element name may not carry the xmlns prefix")
		}
		if isReservedPrefixMisuse(local) {
			p.warn("reserved name '" + local + "' used as element local name")
		}
	}

	elemIdx := p.tree.alloc(rawNode{
		kind: KindElement, qname: qname, prefix: prefix, local: local,
		elemMode: p.mode, boundNS: -1, attrByName: make(map[string]int),
	})

	if p.mode == ModeXML {
		p.ns.push()
	}
	if p.mode == ModeHTML {
		p.openLocals = append(p.openLocals, local)
		defer func() { p.openLocals = p.openLocals[:len(p.openLocals)-1] }()
	}

	var rawAttrs []rawAttr
	for {
		if p.curE != nil {
			return 0, p.curE
		}
		if p.cur.Kind == TokSlash || p.cur.Kind == TokGT {
			break
		}
		if p.cur.Kind != TokName {
			return 0, p.parseErr("expected attribute name or '>'")
		}
		aPos := p.cur.Pos
		aName, aPrefix, aLocal, err := p.readQName()
		if err != nil {
			return 0, err
		}
		if p.curE != nil {
			return 0, p.curE
		}
		if p.cur.Kind != TokEquals {
			if p.mode == ModeHTML {
				// Bare attribute: present with an empty value.
				rawAttrs = append(rawAttrs, rawAttr{qname: aName, prefix: aPrefix, local: aLocal, pos: aPos})
				continue
			}
			return 0, p.parseErr("expected '=' after attribute name")
		}
		p.advance()
		if p.curE != nil {
			return 0, p.curE
		}
		var aValue string
		switch {
		case p.cur.Kind == TokString:
			aValue = p.cur.Text
		case p.mode == ModeHTML && (p.cur.Kind == TokName || p.cur.Kind == TokNumber):
			// Unquoted attribute value.
			aValue = p.cur.Text
		default:
			return 0, p.parseErr("expected quoted attribute value")
		}
		p.advance()
		rawAttrs = append(rawAttrs, rawAttr{qname: aName, prefix: aPrefix, local: aLocal, value: aValue, pos: aPos})
	}

	if p.mode == ModeXML {
		if err := p.declareNamespaces(elemIdx, rawAttrs); err != nil {
			return 0, err
		}
		if err := p.resolveElementNamespace(elemIdx, startPos, qname, prefix); err != nil {
			return 0, err
		}
	}

	if err := p.attachAttributes(elemIdx, rawAttrs); err != nil {
		return 0, err
	}

	localLower := strings.ToLower(local)
	isVoidHTML := p.mode == ModeHTML && voidElements[localLower]

	if p.cur.Kind == TokSlash {
		p.advance()
		if p.curE != nil {
			return 0, p.curE
		}
		if p.cur.Kind != TokGT {
			return 0, p.parseErr("expected '>' after '/'")
		}
		p.advance()
		p.tree.nodes[elemIdx].derived.isSelfEnclosing = true
		if isVoidHTML {
			p.tree.nodes[elemIdx].derived.isVoid = true
		}
		if p.mode == ModeXML {
			p.ns.pop()
		}
		return elemIdx, nil
	}

	if p.cur.Kind != TokGT {
		return 0, p.parseErr("expected '>' or '/>'")
	}

	if isVoidHTML {
		p.advance()
		p.tree.nodes[elemIdx].derived.isVoid = true
		p.tree.nodes[elemIdx].derived.isSelfEnclosing = true
		return elemIdx, nil
	}

	if p.mode == ModeHTML && rawTextElements[localLower] {
		// The lexer's cursor already sits right after '>' (TokGT's own scan
		// consumed it); drive it directly instead of pulling a normal token.
		tok := p.lex.lexSyntheticUntil(local)
		if strings.TrimSpace(tok.Text) != "" {
			txtIdx := p.tree.alloc(rawNode{kind: KindText, parent: elemIdx, text: tok.Text})
			p.appendChild(elemIdx, txtIdx)
			p.tree.nodes[elemIdx].derived.hasText = true
			p.tree.nodes[elemIdx].derived.hasChild = true
		}
		p.buf, p.errs = nil, nil
		p.advance()
		if err := p.expectClosingTag(local, elemIdx); err != nil {
			return 0, err
		}
		return elemIdx, nil
	}

	p.advance()
	if err := p.parseContent(elemIdx, local); err != nil {
		return 0, err
	}
	if p.mode == ModeXML {
		p.ns.pop()
	}
	return elemIdx, nil
}

func (p *parser) declareNamespaces(elemIdx int, rawAttrs []rawAttr) error {
	for _, a := range rawAttrs {
		switch {
		case a.qname == "xmlns":
			if a.value == XMLNamespaceURI {
				return newError(ParseError, a.pos, a.qname, "the XML namespace URI may not be a default namespace")
			}
			if a.value == XMLNsNamespaceURI {
				return newError(ParseError, a.pos, a.qname, "the xmlns namespace URI may not be a default namespace")
			}
			nsIdx := p.tree.alloc(rawNode{kind: KindNamespace, parent: elemIdx, nsPrefix: "", nsURI: a.value, isDefault: true})
			if !p.cfg.AllowDefaultNamespaceBindings {
				p.warn("default namespace binding used while disallowed")
			}
			if !p.ns.declare("", nsEntry{uri: a.value, idx: nsIdx}) {
				return newError(ParseError, a.pos, a.qname, "duplicate default namespace declaration")
			}
			p.tree.nodes[elemIdx].nsDecls = append(p.tree.nodes[elemIdx].nsDecls, nsIdx)
		case a.prefix == "xmlns":
			if a.local == xmlnsPrefix {
				return newError(ParseError, a.pos, a.qname, "xmlns prefix is reserved and cannot be redeclared")
			}
			if a.value == "" {
				return newError(ParseError, a.pos, a.qname, "namespace prefix '"+a.local+"' may not be un-declared with an empty URI")
			}
			if a.local == xmlPrefix && a.value != XMLNamespaceURI {
				return newError(ParseError, a.pos, a.qname, "the xml prefix may only bind to the XML namespace URI")
			}
			if a.local != xmlPrefix && a.value == XMLNamespaceURI {
				return newError(ParseError, a.pos, a.qname, "only the xml prefix may bind the XML namespace URI")
			}
			if a.value == XMLNsNamespaceURI {
				return newError(ParseError, a.pos, a.qname, "no prefix may bind the xmlns namespace URI")
			}
			nsIdx := p.tree.alloc(rawNode{kind: KindNamespace, parent: elemIdx, nsPrefix: a.local, nsURI: a.value})
			if !p.ns.declare(a.local, nsEntry{uri: a.value, idx: nsIdx}) {
				return newError(ParseError, a.pos, a.qname, "duplicate namespace declaration for prefix '"+a.local+"'")
			}
			p.tree.nodes[elemIdx].nsDecls = append(p.tree.nodes[elemIdx].nsDecls, nsIdx)
		}
	}
	return nil
}

func (p *parser) resolveElementNamespace(elemIdx int, startPos Position, qname, prefix string) error {
	if prefix != "" {
		if isReservedPrefixMisuse(prefix) {
			p.warn("reserved prefix '" + prefix + "' used on element " + qname)
		}
		entry, ok := p.ns.resolve(prefix)
		if !ok {
			if !p.cfg.AllowMissingNamespaces {
				return newError(ParseError, startPos, qname, "unresolved namespace prefix '"+prefix+"'")
			}
			return nil
		}
		p.tree.nodes[elemIdx].boundNS = entry.idx
		p.tree.nodes[elemIdx].derived.isNamespaced = true
		return nil
	}
	if entry, ok := p.ns.resolveDefault(); ok && p.cfg.AllowDefaultNamespaceBindings {
		p.tree.nodes[elemIdx].boundNS = entry.idx
		p.tree.nodes[elemIdx].derived.isNamespaced = true
	}
	return nil
}

func (p *parser) attachAttributes(elemIdx int, rawAttrs []rawAttr) error {
	seenExpanded := make(map[string]bool)
	for _, a := range rawAttrs {
		if p.mode == ModeXML && (a.qname == "xmlns" || a.prefix == "xmlns") {
			continue // already materialized as a namespace declaration
		}
		if p.mode == ModeHTML && a.qname == "xmlns" {
			// HTML accepts only the XHTML default namespace, kept as an
			// anonymous namespace node on the element, outside any scope.
			if a.value == XHTMLNamespaceURI {
				nsIdx := p.tree.alloc(rawNode{kind: KindNamespace, parent: elemIdx, nsPrefix: "", nsURI: a.value, isDefault: true})
				p.tree.nodes[elemIdx].nsDecls = append(p.tree.nodes[elemIdx].nsDecls, nsIdx)
				p.tree.nodes[elemIdx].boundNS = nsIdx
				p.tree.nodes[elemIdx].derived.isNamespaced = true
			} else {
				p.warn("ignoring xmlns declaration with non-XHTML URI " + a.value)
			}
			continue
		}
		if _, dup := p.tree.nodes[elemIdx].attrByName[a.qname]; dup {
			if p.mode == ModeXML {
				return newError(ParseError, a.pos, a.qname, "duplicate attribute")
			}
			continue // HTML: first occurrence wins
		}
		attrIdx := p.tree.alloc(rawNode{kind: KindAttribute, parent: elemIdx, qname: a.qname, prefix: a.prefix, local: a.local, value: a.value, boundNS: -1})
		if p.mode == ModeXML && isReservedPrefixMisuse(a.local) {
			p.warn("reserved name '" + a.local + "' used as attribute local name")
		}
		if p.mode == ModeXML && a.prefix != "" {
			if isReservedPrefixMisuse(a.prefix) {
				p.warn("reserved prefix '" + a.prefix + "' used on attribute " + a.qname)
			}
			entry, ok := p.ns.resolve(a.prefix)
			if !ok {
				if !p.cfg.AllowMissingNamespaces {
					return newError(ParseError, a.pos, a.qname, "unresolved namespace prefix '"+a.prefix+"'")
				}
			} else {
				p.tree.nodes[attrIdx].boundNS = entry.idx
				if p.cfg.EnsureUniqueNamespacedAttributes {
					expanded := entry.uri + "|" + a.local
					if seenExpanded[expanded] {
						return newError(ParseError, a.pos, a.qname, "duplicate namespaced attribute")
					}
					seenExpanded[expanded] = true
				}
			}
		}
		p.tree.nodes[elemIdx].attrByName[a.qname] = attrIdx
		p.tree.nodes[elemIdx].attrs = append(p.tree.nodes[elemIdx].attrs, attrIdx)
		p.tree.nodes[attrIdx].index = len(p.tree.nodes[elemIdx].attrs) - 1
	}
	p.tree.nodes[elemIdx].derived.hasAttribute = len(p.tree.nodes[elemIdx].attrs) > 0
	return nil
}

// parseContent consumes child nodes until the matching closing tag. In HTML
// mode, a closing tag whose name doesn't match the current element is left
// unconsumed so an ancestor frame can claim it (implicit auto-close).
func (p *parser) parseContent(elemIdx int, local string) error {
	for {
		if p.curE != nil {
			return p.curE
		}
		switch p.cur.Kind {
		case TokText:
			txt, isCData, hasEntity := p.cur.Text, p.cur.IsCData, p.cur.HasEntity
			p.advance()
			if isCData {
				if !p.cfg.PreserveCdata {
					continue
				}
			} else if strings.TrimSpace(txt) == "" && !p.cfg.PreserveSpace {
				continue
			}
			tIdx := p.tree.alloc(rawNode{kind: KindText, parent: elemIdx, text: txt, isCData: isCData, hasEntity: hasEntity})
			p.appendChild(elemIdx, tIdx)
			p.tree.nodes[elemIdx].derived.hasText = true
			p.tree.nodes[elemIdx].derived.hasChild = true
		case TokComment:
			idx := p.buildComment()
			p.advance()
			if idx >= 0 {
				p.appendChild(elemIdx, idx)
				p.tree.nodes[elemIdx].derived.hasComment = true
				p.tree.nodes[elemIdx].derived.hasChild = true
			}
		case TokPI:
			idx := p.buildPI()
			p.advance()
			p.appendChild(elemIdx, idx)
			p.tree.nodes[elemIdx].derived.hasChild = true
		case TokLT:
			nt, nerr := p.peek(0)
			if nerr != nil {
				return nerr
			}
			if nt.Kind == TokSlash {
				if p.mode == ModeHTML {
					if name, _ := p.peekCloseName(); name != "" && !strings.EqualFold(name, local) {
						if p.openAncestorMatches(name) {
							return nil // implicitly closes this element; an ancestor claims the tag
						}
						return p.parseErr("mismatched closing tag </" + name + ">, no <" + name + "> is open")
					}
				}
				return p.expectClosingTag(local, elemIdx)
			}
			childIdx, err := p.parseElement()
			if err != nil {
				return err
			}
			p.appendChild(elemIdx, childIdx)
			p.tree.nodes[elemIdx].derived.hasChild = true
		case TokEOF:
			if p.mode == ModeHTML {
				return nil
			}
			return p.parseErr("unexpected end of input, expected </" + local + ">")
		default:
			return p.parseErr("unexpected token in element content")
		}
	}
}

// openAncestorMatches reports whether name closes some element above the
// current one on the HTML open-element stack (the top entry is the element
// whose content is being parsed).
func (p *parser) openAncestorMatches(name string) bool {
	for i := len(p.openLocals) - 2; i >= 0; i-- {
		if strings.EqualFold(p.openLocals[i], name) {
			return true
		}
	}
	return false
}

func (p *parser) peekCloseName() (string, error) {
	nt2, err := p.peek(1)
	if err != nil || nt2.Kind != TokName {
		return "", err
	}
	return nt2.Text, nil
}

func (p *parser) expectClosingTag(name string, elemIdx int) error {
	if p.curE != nil {
		return p.curE
	}
	if p.cur.Kind != TokLT {
		return p.parseErr("expected closing tag for <" + name + ">")
	}
	p.advance()
	if p.curE != nil {
		return p.curE
	}
	if p.cur.Kind != TokSlash {
		return p.parseErr("expected '/' in closing tag")
	}
	p.advance()
	if p.curE != nil {
		return p.curE
	}
	closeQName, _, closeLocal, err := p.readQName()
	if err != nil {
		return err
	}
	match := closeQName == p.tree.nodes[elemIdx].qname
	if p.mode == ModeHTML {
		match = strings.EqualFold(closeLocal, name)
	}
	if !match {
		return p.parseErr("mismatched closing tag: expected </" + name + ">, found </" + closeQName + ">")
	}
	if p.curE != nil {
		return p.curE
	}
	if p.cur.Kind != TokGT {
		return p.parseErr("expected '>' to close tag")
	}
	p.advance()
	return nil
}

// parseTrailingMisc consumes whatever follows the root element: comments,
// PIs, whitespace. HTML tolerates stray closing tags and extra top-level
// markup here; XML does not.
func (p *parser) parseTrailingMisc() error {
	for {
		if p.curE != nil {
			return p.curE
		}
		switch p.cur.Kind {
		case TokEOF:
			return nil
		case TokComment:
			idx := p.buildComment()
			p.advance()
			p.appendMisc(0, idx)
		case TokPI:
			idx := p.buildPI()
			p.advance()
			p.appendMisc(0, idx)
		case TokText:
			if strings.TrimSpace(p.cur.Text) != "" && p.mode == ModeXML {
				p.warn("non-whitespace text after root element")
			}
			p.advance()
		case TokLT:
			if p.mode != ModeHTML {
				return p.parseErr("unexpected content after root element")
			}
			if err := p.skipStrayTag(); err != nil {
				return err
			}
		default:
			if p.mode != ModeHTML {
				return p.parseErr("unexpected content after root element")
			}
			p.advance()
		}
	}
}

func (p *parser) skipStrayTag() error {
	p.advance() // consume '<'
	for {
		if p.curE != nil {
			return p.curE
		}
		if p.cur.Kind == TokGT || p.cur.Kind == TokEOF {
			if p.cur.Kind == TokGT {
				p.advance()
			}
			return nil
		}
		p.advance()
	}
}
