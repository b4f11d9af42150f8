package xpath

import (
	"math"
	"strings"

	"github.com/arturoeanton/go-domxp/domx"
)

// function is one entry in the core library: an arity range plus the
// implementation, given the evaluator (for tree access), the current context
// frame, and already-evaluated argument values.
type function struct {
	min, max int // max == -1 means unbounded
	call     func(e *evaluator, ctx Context, args []Value) (Value, error)
}

var functionTable map[string]function

func init() {
	functionTable = map[string]function{
		"last":                  {0, 0, fnLast},
		"position":              {0, 0, fnPosition},
		"count":                 {1, 1, fnCount},
		"local-name":            {0, 1, fnLocalName},
		"namespace-uri":         {0, 1, fnNamespaceURI},
		"name":                  {0, 1, fnName},
		"boolean":               {1, 1, fnBoolean},
		"not":                   {1, 1, fnNot},
		"true":                  {0, 0, fnTrue},
		"false":                 {0, 0, fnFalse},
		"lang":                  {1, 1, fnLang},
		"number":                {0, 1, fnNumber},
		"sum":                   {1, 1, fnSum},
		"floor":                 {1, 1, fnFloor},
		"ceiling":               {1, 1, fnCeiling},
		"round":                 {1, 1, fnRound},
		"string":                {0, 1, fnString},
		"concat":                {2, -1, fnConcat},
		"starts-with":           {2, 2, fnStartsWith},
		"contains":              {2, 2, fnContains},
		"substring-before":      {2, 2, fnSubstringBefore},
		"substring-after":       {2, 2, fnSubstringAfter},
		"substring":             {2, 3, fnSubstring},
		"string-length":         {0, 1, fnStringLength},
		"normalize-space":       {0, 1, fnNormalizeSpace},
		"translate":             {3, 3, fnTranslate},
	}
}

func fnLast(e *evaluator, ctx Context, args []Value) (Value, error) {
	return Number(float64(ctx.Size)), nil
}

func fnPosition(e *evaluator, ctx Context, args []Value) (Value, error) {
	return Number(float64(ctx.Position)), nil
}

func fnCount(e *evaluator, ctx Context, args []Value) (Value, error) {
	if args[0].Kind() != KindNodeSet {
		return Value{}, newError(EvalError, Position{}, "count", "argument must be a node-set")
	}
	return Number(float64(len(args[0].Nodes()))), nil
}

// contextNodeSet implements the "optional defaults to a one-node set of the
// context node" rule shared by local-name/namespace-uri/name; string(),
// number(), string-length() and normalize-space() build that default inline.
func contextNodeSet(ctx Context, args []Value) (Value, bool) {
	if len(args) == 0 {
		return NodeSet([]domx.Node{ctx.Node}), true
	}
	return args[0], args[0].Kind() == KindNodeSet
}

func fnLocalName(e *evaluator, ctx Context, args []Value) (Value, error) {
	v, ok := contextNodeSet(ctx, args)
	if !ok {
		return Value{}, newError(EvalError, Position{}, "local-name", "argument must be a node-set")
	}
	n, found := firstInDocumentOrder(v.Nodes())
	if !found {
		return String(""), nil
	}
	return String(n.LocalName()), nil
}

func fnNamespaceURI(e *evaluator, ctx Context, args []Value) (Value, error) {
	v, ok := contextNodeSet(ctx, args)
	if !ok {
		return Value{}, newError(EvalError, Position{}, "namespace-uri", "argument must be a node-set")
	}
	n, found := firstInDocumentOrder(v.Nodes())
	if !found {
		return String(""), nil
	}
	if bound, ok := n.BoundNamespace(); ok {
		return String(bound.NamespaceURI()), nil
	}
	return String(""), nil
}

func fnName(e *evaluator, ctx Context, args []Value) (Value, error) {
	v, ok := contextNodeSet(ctx, args)
	if !ok {
		return Value{}, newError(EvalError, Position{}, "name", "argument must be a node-set")
	}
	n, found := firstInDocumentOrder(v.Nodes())
	if !found {
		return String(""), nil
	}
	return String(n.QName()), nil
}

func fnBoolean(e *evaluator, ctx Context, args []Value) (Value, error) {
	return Boolean(args[0].Boolean()), nil
}

func fnNot(e *evaluator, ctx Context, args []Value) (Value, error) {
	return Boolean(!args[0].Boolean()), nil
}

func fnTrue(e *evaluator, ctx Context, args []Value) (Value, error)  { return Boolean(true), nil }
func fnFalse(e *evaluator, ctx Context, args []Value) (Value, error) { return Boolean(false), nil }

// fnLang walks from the context node up the ancestor chain looking for an
// xml:lang attribute; match is equality or primary-subtag equality,
// case-insensitive.
func fnLang(e *evaluator, ctx Context, args []Value) (Value, error) {
	target := strings.ToLower(args[0].String())
	for n := ctx.Node; !n.IsZero(); n = n.Parent() {
		if n.Kind() != domx.KindElement {
			continue
		}
		a, ok := n.Attr("xml:lang")
		if !ok {
			continue
		}
		val := strings.ToLower(a.Value())
		return Boolean(val == target || strings.HasPrefix(val, target+"-")), nil
	}
	return Boolean(false), nil
}

func fnNumber(e *evaluator, ctx Context, args []Value) (Value, error) {
	if len(args) == 0 {
		return Number(NodeSet([]domx.Node{ctx.Node}).Number()), nil
	}
	return Number(args[0].Number()), nil
}

func fnSum(e *evaluator, ctx Context, args []Value) (Value, error) {
	if args[0].Kind() != KindNodeSet {
		return Value{}, newError(EvalError, Position{}, "sum", "argument must be a node-set")
	}
	total := 0.0
	for _, n := range args[0].Nodes() {
		total += stringToNumber(n.StringValue())
	}
	return Number(total), nil
}

func fnFloor(e *evaluator, ctx Context, args []Value) (Value, error) {
	return Number(math.Floor(args[0].Number())), nil
}

func fnCeiling(e *evaluator, ctx Context, args []Value) (Value, error) {
	return Number(math.Ceil(args[0].Number())), nil
}

// fnRound: ties break toward positive infinity.
func fnRound(e *evaluator, ctx Context, args []Value) (Value, error) {
	return Number(roundHalfUp(args[0].Number())), nil
}

func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Floor(x + 0.5)
}

func fnString(e *evaluator, ctx Context, args []Value) (Value, error) {
	if len(args) == 0 {
		return String(NodeSet([]domx.Node{ctx.Node}).String()), nil
	}
	return String(args[0].String()), nil
}

func fnConcat(e *evaluator, ctx Context, args []Value) (Value, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.String())
	}
	return String(sb.String()), nil
}

func fnStartsWith(e *evaluator, ctx Context, args []Value) (Value, error) {
	return Boolean(strings.HasPrefix(args[0].String(), args[1].String())), nil
}

func fnContains(e *evaluator, ctx Context, args []Value) (Value, error) {
	return Boolean(strings.Contains(args[0].String(), args[1].String())), nil
}

func fnSubstringBefore(e *evaluator, ctx Context, args []Value) (Value, error) {
	s, sep := args[0].String(), args[1].String()
	i := strings.Index(s, sep)
	if i < 0 {
		return String(""), nil
	}
	return String(s[:i]), nil
}

func fnSubstringAfter(e *evaluator, ctx Context, args []Value) (Value, error) {
	s, sep := args[0].String(), args[1].String()
	i := strings.Index(s, sep)
	if i < 0 {
		return String(""), nil
	}
	return String(s[i+len(sep):]), nil
}

// fnSubstring implements the XPath 1.0 substring algorithm, rounding start
// and length half-to-even and relying on IEEE comparisons against NaN/Inf to
// fall out of the edge cases for free.
func fnSubstring(e *evaluator, ctx Context, args []Value) (Value, error) {
	s := args[0].String()
	runes := []rune(s)
	start := substringRound(args[1].Number())
	end := math.Inf(1)
	if len(args) == 3 {
		length := substringRound(args[2].Number())
		end = start + length
	}
	var sb strings.Builder
	for i, r := range runes {
		pos := float64(i + 1)
		if pos >= start && pos < end {
			sb.WriteRune(r)
		}
	}
	return String(sb.String()), nil
}

func substringRound(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.RoundToEven(x)
}

// fnStringLength counts code units (here: Unicode code points of the
// decoded string, the natural unit for a Go string).
func fnStringLength(e *evaluator, ctx Context, args []Value) (Value, error) {
	var s string
	if len(args) == 0 {
		s = NodeSet([]domx.Node{ctx.Node}).String()
	} else {
		s = args[0].String()
	}
	return Number(float64(len([]rune(s)))), nil
}

func fnNormalizeSpace(e *evaluator, ctx Context, args []Value) (Value, error) {
	var s string
	if len(args) == 0 {
		s = NodeSet([]domx.Node{ctx.Node}).String()
	} else {
		s = args[0].String()
	}
	fields := strings.Fields(s)
	return String(strings.Join(fields, " ")), nil
}

// fnTranslate implements the positional character map: from characters with
// no to counterpart are deleted, to excess is ignored, and the first
// occurrence of a repeated from character wins.
func fnTranslate(e *evaluator, ctx Context, args []Value) (Value, error) {
	src := []rune(args[0].String())
	from := []rune(args[1].String())
	to := []rune(args[2].String())

	mapping := make(map[rune]rune, len(from))
	deleted := make(map[rune]bool, len(from))
	for i, r := range from {
		if _, already := mapping[r]; already || deleted[r] {
			continue
		}
		if i < len(to) {
			mapping[r] = to[i]
		} else {
			deleted[r] = true
		}
	}

	var sb strings.Builder
	for _, r := range src {
		if deleted[r] {
			continue
		}
		if rep, ok := mapping[r]; ok {
			sb.WriteRune(rep)
			continue
		}
		sb.WriteRune(r)
	}
	return String(sb.String()), nil
}
