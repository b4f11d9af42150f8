package xpath

import "github.com/arturoeanton/go-domxp/domx"

// Query evaluates expr against root's tree with root as the initial context
// node, context position 1 of size 1.
func Query(root domx.Node, expr string) (Value, error) {
	ast, err := ParseExpr(expr)
	if err != nil {
		return Value{}, err
	}
	e := newEvaluator(root.Tree())
	e.pushCtx(Context{Position: 1, Size: 1, Node: root})
	defer e.popCtx()
	return e.eval(ast)
}

// QueryAll evaluates expr and requires the result to be a node-set,
// returning its members in document order.
func QueryAll(root domx.Node, expr string) ([]domx.Node, error) {
	v, err := Query(root, expr)
	if err != nil {
		return nil, err
	}
	if v.Kind() != KindNodeSet {
		return nil, newErrorf(EvalError, Position{}, expr, "expression did not evaluate to a node-set (got %s)", v.Kind())
	}
	return v.Nodes(), nil
}

// QueryOne evaluates expr and returns its first result in document order, or
// ok=false if the node-set is empty.
func QueryOne(root domx.Node, expr string) (domx.Node, bool, error) {
	nodes, err := QueryAll(root, expr)
	if err != nil {
		return domx.Node{}, false, err
	}
	n, ok := firstInDocumentOrder(nodes)
	return n, ok, nil
}
