package xpath

import (
	"math"

	"github.com/arturoeanton/go-domxp/domx"
)

// Context is the {position, size, node} triple pushed onto the evaluator's
// context stack once per predicate iteration and consulted by
// position()/last()/lang() and the implicit-context-node defaults of the
// function library.
type Context struct {
	Position int
	Size     int
	Node     domx.Node
}

// evaluator walks an Expr tree against a fixed Tree. The Go call stack plays
// the role of the value stack (each eval call is one frame); ctxStack is an
// explicit context-frame stack, since predicate position/size needs to nest
// across recursive calls (a predicate inside a predicate).
type evaluator struct {
	tree     *domx.Tree
	ctxStack []Context
}

func newEvaluator(tree *domx.Tree) *evaluator {
	return &evaluator{tree: tree}
}

func (e *evaluator) pushCtx(c Context) { e.ctxStack = append(e.ctxStack, c) }
func (e *evaluator) popCtx()           { e.ctxStack = e.ctxStack[:len(e.ctxStack)-1] }
func (e *evaluator) top() Context      { return e.ctxStack[len(e.ctxStack)-1] }

func (e *evaluator) eval(expr Expr) (Value, error) {
	switch n := expr.(type) {
	case NumberLiteral:
		return Number(n.Value), nil
	case StringLiteral:
		return String(n.Value), nil
	case FunctionCall:
		return e.evalCall(n)
	case UnaryOp:
		return e.evalUnary(n)
	case BinaryOp:
		return e.evalBinary(n)
	case FilterExpr:
		return e.evalFilterExpr(n)
	case Path:
		return e.evalPath(n)
	default:
		return Value{}, newErrorf(EvalError, Position{}, "", "unhandled expression type %T", expr)
	}
}

func (e *evaluator) evalUnary(n UnaryOp) (Value, error) {
	v, err := e.eval(n.Expr)
	if err != nil {
		return Value{}, err
	}
	if n.Op == "+" {
		return Number(v.Number()), nil
	}
	return Number(-v.Number()), nil
}

func (e *evaluator) evalBinary(n BinaryOp) (Value, error) {
	switch n.Op {
	case "and":
		l, err := e.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		if !l.Boolean() {
			return Boolean(false), nil
		}
		r, err := e.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		return Boolean(r.Boolean()), nil
	case "or":
		l, err := e.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		if l.Boolean() {
			return Boolean(true), nil
		}
		r, err := e.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		return Boolean(r.Boolean()), nil
	case "|":
		l, err := e.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		r, err := e.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		if l.Kind() != KindNodeSet || r.Kind() != KindNodeSet {
			return Value{}, newError(EvalError, Position{}, "|", "union operands must both be node-sets")
		}
		union := append(append([]domx.Node{}, l.Nodes()...), r.Nodes()...)
		return NodeSet(sortDocumentOrder(dedupNodeSet(union))), nil
	}

	l, err := e.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := e.eval(n.Right)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case "=":
		return Boolean(Compare(OpEq, l, r)), nil
	case "!=":
		return Boolean(Compare(OpNe, l, r)), nil
	case "<":
		return Boolean(Compare(OpLt, l, r)), nil
	case "<=":
		return Boolean(Compare(OpLe, l, r)), nil
	case ">":
		return Boolean(Compare(OpGt, l, r)), nil
	case ">=":
		return Boolean(Compare(OpGe, l, r)), nil
	case "+":
		return Number(l.Number() + r.Number()), nil
	case "-":
		return Number(l.Number() - r.Number()), nil
	case "*":
		return Number(l.Number() * r.Number()), nil
	case "div":
		return Number(l.Number() / r.Number()), nil
	case "mod":
		return Number(xpathMod(l.Number(), r.Number())), nil
	default:
		return Value{}, newErrorf(EvalError, Position{}, n.Op, "unknown binary operator %q", n.Op)
	}
}

func xpathMod(a, b float64) float64 {
	if b == 0 || math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) {
		return math.NaN()
	}
	return math.Mod(a, b)
}

// evalFilterExpr handles a primary expression optionally narrowed by
// predicates. The base expression is evaluated first; a non-empty predicate
// list requires it to be a NodeSet, which is then treated as a single
// document-order partition.
func (e *evaluator) evalFilterExpr(n FilterExpr) (Value, error) {
	base, err := e.eval(n.Base)
	if err != nil {
		return Value{}, err
	}
	if len(n.Predicates) == 0 {
		return base, nil
	}
	if base.Kind() != KindNodeSet {
		return Value{}, newError(EvalError, Position{}, "", "predicate applied to a non-node-set expression")
	}
	partition := sortDocumentOrder(append([]domx.Node{}, base.Nodes()...))
	for _, pred := range n.Predicates {
		partition, err = e.filterByPredicate(partition, pred)
		if err != nil {
			return Value{}, err
		}
	}
	return NodeSet(partition), nil
}

// evalPath walks a location path: an optional absolute/descendant-or-self
// origin or filter-expression base, then each Step in turn.
func (e *evaluator) evalPath(p Path) (Value, error) {
	var current []domx.Node
	switch {
	case p.Absolute:
		current = []domx.Node{e.tree.Root()}
	case p.Base != nil:
		base, err := e.eval(p.Base)
		if err != nil {
			return Value{}, err
		}
		if base.Kind() != KindNodeSet {
			return Value{}, newError(EvalError, Position{}, "", "path base expression is not a node-set")
		}
		current = append([]domx.Node{}, base.Nodes()...)
	default:
		current = []domx.Node{e.top().Node}
	}

	for _, step := range p.Steps {
		var err error
		current, err = e.evalStep(current, step)
		if err != nil {
			return Value{}, err
		}
	}
	return NodeSet(current), nil
}

// evalStep runs one Step over every node in contextNodes, unioning the
// per-context-node partitions into a single deduplicated, ascending
// document-order set for the next step (or the final result).
func (e *evaluator) evalStep(contextNodes []domx.Node, step Step) ([]domx.Node, error) {
	var all []domx.Node
	for _, ctxNode := range contextNodes {
		candidates := axisNodes(e.tree, ctxNode, step.Axis)
		var partition []domx.Node
		for _, c := range candidates {
			if matchesTest(e.tree, c, step.Test, step.Axis, ctxNode) {
				partition = append(partition, c)
			}
		}
		// candidates are already in axisNodes' natural (possibly reverse)
		// document order, which is what predicate position-counting needs.
		for _, pred := range step.Predicates {
			var err error
			partition, err = e.filterByPredicate(partition, pred)
			if err != nil {
				return nil, err
			}
		}
		all = append(all, partition...)
	}
	return sortDocumentOrder(dedupNodeSet(all)), nil
}

// filterByPredicate evaluates pred once per member of partition with a
// fresh context frame ({position, size, node}), retaining members for which
// evaluatePredicate holds.
func (e *evaluator) filterByPredicate(partition []domx.Node, pred Expr) ([]domx.Node, error) {
	size := len(partition)
	var out []domx.Node
	for i, n := range partition {
		e.pushCtx(Context{Position: i + 1, Size: size, Node: n})
		v, err := e.eval(pred)
		e.popCtx()
		if err != nil {
			return nil, err
		}
		if evaluatePredicate(v, i+1) {
			out = append(out, n)
		}
	}
	return out, nil
}

// evaluatePredicate implements the predicate-truth conversion rule: a
// Number result is true iff it equals the current position; anything else
// coerces to boolean.
func evaluatePredicate(v Value, position int) bool {
	if v.Kind() == KindNumber {
		return v.Number() == float64(position)
	}
	return v.Boolean()
}

func (e *evaluator) evalCall(n FunctionCall) (Value, error) {
	fn, ok := functionTable[n.Name]
	if !ok {
		return Value{}, newErrorf(EvalError, Position{}, n.Name, "unknown function %q", n.Name)
	}
	if len(n.Args) < fn.min || (fn.max >= 0 && len(n.Args) > fn.max) {
		return Value{}, newErrorf(EvalError, Position{}, n.Name, "function %q called with %d arguments", n.Name, len(n.Args))
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.eval(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return fn.call(e, e.top(), args)
}
