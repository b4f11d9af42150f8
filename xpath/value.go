package xpath

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/arturoeanton/go-domxp/domx"
)

// Kind is one of the four disjoint XPath 1.0 value kinds.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBoolean
	KindNodeSet
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindNodeSet:
		return "node-set"
	default:
		return "?"
	}
}

// Value is the tagged union the evaluator pushes and functions return.
// Exactly one of the four payload fields is meaningful, selected by Kind().
type Value struct {
	kind  Kind
	num   float64
	str   string
	boolv bool
	nodes []domx.Node
}

func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

func String(v string) Value { return Value{kind: KindString, str: v} }

func Boolean(v bool) Value { return Value{kind: KindBoolean, boolv: v} }

func NodeSet(nodes []domx.Node) Value { return Value{kind: KindNodeSet, nodes: nodes} }

func (v Value) Kind() Kind { return v.kind }

// Nodes returns the raw node-set payload; callers should only call this when
// Kind() == KindNodeSet.
func (v Value) Nodes() []domx.Node { return v.nodes }

// sortDocumentOrder sorts a node slice in place by document-order position.
func sortDocumentOrder(nodes []domx.Node) []domx.Node {
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Position() < nodes[j].Position() })
	return nodes
}

// dedupNodeSet removes duplicate node identities, keeping first occurrence.
func dedupNodeSet(nodes []domx.Node) []domx.Node {
	seen := make(map[domx.Node]bool, len(nodes))
	out := nodes[:0:0]
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func firstInDocumentOrder(nodes []domx.Node) (domx.Node, bool) {
	if len(nodes) == 0 {
		return domx.Node{}, false
	}
	best := nodes[0]
	for _, n := range nodes[1:] {
		if n.Position() < best.Position() {
			best = n
		}
	}
	return best, true
}

// Number coerces to a number per the XPath 1.0 number() rules.
func (v Value) Number() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return stringToNumber(v.str)
	case KindBoolean:
		if v.boolv {
			return 1
		}
		return 0
	case KindNodeSet:
		n, ok := firstInDocumentOrder(v.nodes)
		if !ok {
			return math.NaN()
		}
		return stringToNumber(n.StringValue())
	default:
		return math.NaN()
	}
}

// String coerces to a string per the XPath 1.0 string() rules.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return numberToString(v.num)
	case KindString:
		return v.str
	case KindBoolean:
		if v.boolv {
			return "true"
		}
		return "false"
	case KindNodeSet:
		n, ok := firstInDocumentOrder(v.nodes)
		if !ok {
			return ""
		}
		return n.StringValue()
	default:
		return ""
	}
}

// Boolean coerces to a boolean per the XPath 1.0 boolean() rules.
func (v Value) Boolean() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindString:
		return v.str != ""
	case KindBoolean:
		return v.boolv
	case KindNodeSet:
		return len(v.nodes) > 0
	default:
		return false
	}
}

// stringToNumber parses a string per XPath's "numeric parse, else NaN" rule:
// after trimming surrounding whitespace, any text strconv.ParseFloat accepts
// is converted (a sign, an exponent and its Inf/NaN spellings included).
// Anything else, and the empty string, yields NaN.
func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// numberToString renders NaN and the infinities as "NaN", "Infinity" and
// "-Infinity", and integers below 1e15 in magnitude as plain digits. Every
// other value uses Go's shortest 'g' form, which switches to exponent notation
// below 1e-4 in magnitude and from 1e6 upwards (e.g. "1e-05",
// "1.2345675e+06", "1e+15").
func numberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// CompareOp is one of the six XPath relational/equality operators.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func compareScalars(op CompareOp, a, b float64) bool {
	switch op {
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	default:
		return false
	}
}

// Compare implements the XPath 1.0 comparison rules for =, !=, <, <=, >, >=
// across all combinations of the four value kinds.
func Compare(op CompareOp, a, b Value) bool {
	switch {
	case a.kind == KindNodeSet && b.kind == KindNodeSet:
		return compareNodeSetNodeSet(op, a.nodes, b.nodes)
	case a.kind == KindNodeSet:
		return compareNodeSetPrimitive(op, a.nodes, b, false)
	case b.kind == KindNodeSet:
		return compareNodeSetPrimitive(op, b.nodes, a, true)
	default:
		return comparePrimitives(op, a, b)
	}
}

// compareNodeSetNodeSet: exists a pair across the two sets satisfying the
// relation, string-values for equality, numeric values for ordering.
func compareNodeSetNodeSet(op CompareOp, as, bs []domx.Node) bool {
	for _, na := range as {
		for _, nb := range bs {
			if op == OpEq || op == OpNe {
				eq := na.StringValue() == nb.StringValue()
				if (op == OpEq) == eq {
					return true
				}
				continue
			}
			if compareScalars(op, stringToNumber(na.StringValue()), stringToNumber(nb.StringValue())) {
				return true
			}
		}
	}
	return false
}

// compareNodeSetPrimitive: exists a node-set member that, coerced per the
// primitive's kind, satisfies the relation. swapped indicates the node-set
// was originally on the right (a < nodeset reads as nodeset > a once
// swapped back for the actual relation direction).
func compareNodeSetPrimitive(op CompareOp, nodes []domx.Node, prim Value, swapped bool) bool {
	effOp := op
	if swapped {
		effOp = reverseOp(op)
	}
	for _, n := range nodes {
		var nodeVal Value
		switch prim.kind {
		case KindBoolean:
			nodeVal = Boolean(NodeSet([]domx.Node{n}).Boolean())
		case KindNumber:
			nodeVal = Number(stringToNumber(n.StringValue()))
		default: // String, or equality against anything else defaults to string
			if op == OpEq || op == OpNe {
				nodeVal = String(n.StringValue())
			} else {
				nodeVal = Number(stringToNumber(n.StringValue()))
			}
		}
		if comparePrimitives(effOp, nodeVal, prim) {
			return true
		}
	}
	return false
}

func reverseOp(op CompareOp) CompareOp {
	switch op {
	case OpLt:
		return OpGt
	case OpLe:
		return OpGe
	case OpGt:
		return OpLt
	case OpGe:
		return OpLe
	default:
		return op
	}
}

// comparePrimitives: two non-node-set values. Equality/inequality coerce to
// boolean if either side is boolean, else to number if either side is
// number, else compare as strings. Ordering always coerces to number.
func comparePrimitives(op CompareOp, a, b Value) bool {
	if op == OpEq || op == OpNe {
		var eq bool
		switch {
		case a.kind == KindBoolean || b.kind == KindBoolean:
			eq = a.Boolean() == b.Boolean()
		case a.kind == KindNumber || b.kind == KindNumber:
			eq = a.Number() == b.Number()
		default:
			eq = a.String() == b.String()
		}
		if op == OpEq {
			return eq
		}
		return !eq
	}
	return compareScalars(op, a.Number(), b.Number())
}
