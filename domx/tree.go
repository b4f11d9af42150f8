package domx

import "strings"

// NodeKind is the closed set of nine tree-node variants.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindElement
	KindAttribute
	KindNamespace
	KindText
	KindComment
	KindPI
	KindDTD
	KindXMLDecl
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindElement:
		return "Element"
	case KindAttribute:
		return "Attribute"
	case KindNamespace:
		return "Namespace"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindPI:
		return "ProcessingInstruction"
	case KindDTD:
		return "DTD"
	case KindXMLDecl:
		return "XMLDecl"
	default:
		return "?"
	}
}

// derivedFlags are computed once at the end of element parsing, never
// lazily during queries.
type derivedFlags struct {
	hasChild        bool
	hasText         bool
	hasComment      bool
	hasAttribute    bool
	isSelfEnclosing bool
	isVoid          bool
	isNamespaced    bool
}

// rawNode is the arena record backing every Node handle. Every non-root node
// lives at an index in Tree.nodes and refers to its parent/children purely
// by index: constant-time navigation without per-node pointers, and
// deterministic document order via allocation order.
type rawNode struct {
	kind   NodeKind
	parent int // -1 for the root
	index  int // offset within parent's children sequence
	pos    int // document-order position, assigned once at parse time

	children []int // Root/Element content children, in document order

	local  string
	prefix string
	qname  string

	// Element only.
	attrs      []int          // attribute node indices, insertion order
	attrByName map[string]int // qualified name -> attribute index
	nsDecls    []int          // namespace node indices declared here
	boundNS    int            // namespace node index bound to this element, -1 if none
	elemMode   Mode           // "XML" | "HTML"
	derived    derivedFlags

	// Attribute only.
	value string

	// Namespace only.
	nsPrefix  string
	nsURI     string
	isDefault bool
	isGlobal  bool

	// Text only.
	text      string
	isCData   bool
	hasEntity bool

	// Comment only.
	comment string

	// ProcessingInstruction only.
	piTarget string
	piValue  string

	// DTD only.
	dtdValue string

	// Root only.
	rootElement int // index of the root element child, -1 if none
	xmlDeclIdx  int // -1 if none
	dtdIdx      int // -1 if none
	docName     string
	wellFormed  bool
}

// Tree owns every node parsed from one markup document. Dropping the Tree
// releases every descendant; there is no process-wide state.
type Tree struct {
	mode     Mode
	nodes    []rawNode
	nextPos  int
	warnings []Diagnostic
	globalNS []int // indices of the reserved xml/xmlns Namespace nodes, XML mode only
}

// Diagnostic is a non-fatal record (currently only Warning kind) collected
// during a parse that did not abort it.
type Diagnostic struct {
	Kind ErrorKind
	Pos  Position
	Msg  string
}

func newTree(mode Mode) *Tree {
	t := &Tree{mode: mode}
	t.nodes = append(t.nodes, rawNode{
		kind:        KindRoot,
		parent:      -1,
		index:       0,
		rootElement: -1,
		xmlDeclIdx:  -1,
		dtdIdx:      -1,
	})
	t.nodes[0].pos = t.nextPos
	t.nextPos++
	return t
}

func (t *Tree) alloc(n rawNode) int {
	n.pos = t.nextPos
	t.nextPos++
	idx := len(t.nodes)
	t.nodes = append(t.nodes, n)
	return idx
}

// Mode reports which dialect produced this tree.
func (t *Tree) Mode() Mode { return t.mode }

// DocumentName is the root's display name (Config.DocumentName).
func (t *Tree) DocumentName() string { return t.nodes[0].docName }

// Root returns the synthetic root node (index 0).
func (t *Tree) Root() Node { return Node{t: t, idx: 0} }

// WellFormed reports whether zero warnings and zero errors occurred during
// parsing.
func (t *Tree) WellFormed() bool { return t.nodes[0].wellFormed }

// Warnings returns every non-fatal diagnostic collected while parsing.
func (t *Tree) Warnings() []Diagnostic { return t.warnings }

// GlobalNamespaces returns the two reserved namespace nodes (xml, xmlns)
// that are always in scope in an XML-mode tree, even though they are never
// declared on any element. Empty for HTML-mode trees.
func (t *Tree) GlobalNamespaces() []Node {
	out := make([]Node, len(t.globalNS))
	for i, idx := range t.globalNS {
		out[i] = Node{t: t, idx: idx}
	}
	return out
}

// Node is a lightweight value handle into a Tree's arena. Two handles are
// the same node iff both fields compare equal.
type Node struct {
	t   *Tree
	idx int
}

// IsZero reports whether this handle does not refer to any node.
func (n Node) IsZero() bool { return n.t == nil }

func (n Node) raw() *rawNode { return &n.t.nodes[n.idx] }

// Tree returns the owning Tree.
func (n Node) Tree() *Tree { return n.t }

// Kind reports which of the nine variants this node is.
func (n Node) Kind() NodeKind { return n.raw().kind }

// Position is the document-order integer assigned in the single pre-order
// traversal done at parse time. It is stable across reads but is NOT
// renumbered if the tree is later mutated by an outside layer; callers must
// not assume positions stay globally consistent across mutations, only that
// surviving nodes keep their ordering relative to each other.
func (n Node) Position() int { return n.raw().pos }

// Index is this node's offset within its parent's children sequence.
func (n Node) Index() int { return n.raw().index }

// Parent returns the parent node, or the zero Node if this is the root.
func (n Node) Parent() Node {
	p := n.raw().parent
	if p < 0 {
		return Node{}
	}
	return Node{t: n.t, idx: p}
}

// Children returns the ordered content children (Root and Element only).
func (n Node) Children() []Node {
	idxs := n.raw().children
	out := make([]Node, len(idxs))
	for i, ci := range idxs {
		out[i] = Node{t: n.t, idx: ci}
	}
	return out
}

// LocalName is the local part of a qualified name (Element/Attribute/PI).
func (n Node) LocalName() string { return n.raw().local }

// Prefix is the namespace prefix, empty when unprefixed.
func (n Node) Prefix() string { return n.raw().prefix }

// QName is prefix:local, or just local when unprefixed.
func (n Node) QName() string { return n.raw().qname }

// Attributes returns this element's attributes in insertion order.
func (n Node) Attributes() []Node {
	idxs := n.raw().attrs
	out := make([]Node, len(idxs))
	for i, ai := range idxs {
		out[i] = Node{t: n.t, idx: ai}
	}
	return out
}

// Attr looks up an attribute by its qualified name.
func (n Node) Attr(qname string) (Node, bool) {
	if i, ok := n.raw().attrByName[qname]; ok {
		return Node{t: n.t, idx: i}, true
	}
	return Node{}, false
}

// Namespaces returns the namespace declarations made directly on this
// element (not the full in-scope set — see the axis engine for that).
func (n Node) Namespaces() []Node {
	idxs := n.raw().nsDecls
	out := make([]Node, len(idxs))
	for i, ni := range idxs {
		out[i] = Node{t: n.t, idx: ni}
	}
	return out
}

// BoundNamespace returns the namespace an Element or Attribute resolved to,
// or the zero Node (ok=false) if it is unprefixed/unbound.
func (n Node) BoundNamespace() (Node, bool) {
	bi := n.raw().boundNS
	if bi < 0 {
		return Node{}, false
	}
	return Node{t: n.t, idx: bi}, true
}

// ElementMode reports whether this element came from the XML or HTML parser
// path.
func (n Node) ElementMode() Mode { return n.raw().elemMode }

// Value is the attribute value, or the namespace URI for Namespace nodes.
func (n Node) Value() string {
	r := n.raw()
	if r.kind == KindNamespace {
		return r.nsURI
	}
	return r.value
}

// NamespacePrefix is the declared prefix (empty string for a default
// namespace declaration).
func (n Node) NamespacePrefix() string { return n.raw().nsPrefix }

// NamespaceURI is the declared namespace URI.
func (n Node) NamespaceURI() string { return n.raw().nsURI }

// IsDefaultNamespace reports whether this Namespace node is a default
// (unprefixed) declaration.
func (n Node) IsDefaultNamespace() bool { return n.raw().isDefault }

// IsGlobalNamespace reports whether this Namespace node is one of the two
// reserved root-level globals (xml/xmlns).
func (n Node) IsGlobalNamespace() bool { return n.raw().isGlobal }

// Text is the verbatim character content of a Text node.
func (n Node) Text() string { return n.raw().text }

// IsCData reports whether a Text node came from a CDATA section.
func (n Node) IsCData() bool { return n.raw().isCData }

// HasEntity reports whether a Text node's raw lexeme contains an '&', the
// start of an entity or character reference. The lexer does not check that a
// well-formed reference follows, and CDATA sections never set it.
func (n Node) HasEntity() bool { return n.raw().hasEntity }

// CommentText is a Comment node's content.
func (n Node) CommentText() string { return n.raw().comment }

// PITarget is a ProcessingInstruction's target name.
func (n Node) PITarget() string { return n.raw().piTarget }

// PIValue is a ProcessingInstruction's data after the target.
func (n Node) PIValue() string { return n.raw().piValue }

// DTDValue is the captured DOCTYPE sequence (or just the name, depending on
// Config.PreserveDtdStructure at parse time).
func (n Node) DTDValue() string { return n.raw().dtdValue }

// RootElement returns the Root's single element child, if any.
func (n Node) RootElement() (Node, bool) {
	ri := n.raw().rootElement
	if ri < 0 {
		return Node{}, false
	}
	return Node{t: n.t, idx: ri}, true
}

// XMLDecl returns the Root's XML declaration pseudo-node, if any.
func (n Node) XMLDecl() (Node, bool) {
	xi := n.raw().xmlDeclIdx
	if xi < 0 {
		return Node{}, false
	}
	return Node{t: n.t, idx: xi}, true
}

// DTD returns the Root's DTD descriptor node, if any.
func (n Node) DTD() (Node, bool) {
	di := n.raw().dtdIdx
	if di < 0 {
		return Node{}, false
	}
	return Node{t: n.t, idx: di}, true
}

// Derived booleans, computed once at end-of-element-parse (Element only).
func (n Node) HasChild() bool        { return n.raw().derived.hasChild }
func (n Node) HasText() bool         { return n.raw().derived.hasText }
func (n Node) HasComment() bool      { return n.raw().derived.hasComment }
func (n Node) HasAttribute() bool    { return n.raw().derived.hasAttribute }
func (n Node) IsSelfEnclosing() bool { return n.raw().derived.isSelfEnclosing }
func (n Node) IsVoid() bool          { return n.raw().derived.isVoid }
func (n Node) IsNamespaced() bool    { return n.raw().derived.isNamespaced }

// StringValue implements the XPath 1.0 string-value of a node (used both by
// the xpath package's coercion rules and by callers who just want text).
// Root/Element: concatenation, in document order, of all descendant Text
// node content. Attribute/Namespace: their value/URI. Comment: its content.
// PI: its value. Text: its own content.
func (n Node) StringValue() string {
	switch n.Kind() {
	case KindAttribute:
		return n.raw().value
	case KindNamespace:
		return n.raw().nsURI
	case KindComment:
		return n.raw().comment
	case KindPI:
		return n.raw().piValue
	case KindText:
		return n.raw().text
	case KindDTD:
		return n.raw().dtdValue
	case KindXMLDecl:
		return ""
	default: // Root, Element
		var sb strings.Builder
		collectText(n, &sb)
		return sb.String()
	}
}

func collectText(n Node, sb *strings.Builder) {
	for _, c := range n.Children() {
		switch c.Kind() {
		case KindText:
			sb.WriteString(c.raw().text)
		case KindElement:
			collectText(c, sb)
		}
	}
}

// Equal reports whether two handles refer to the same node of the same
// tree.
func (n Node) Equal(o Node) bool { return n.t == o.t && n.idx == o.idx }
