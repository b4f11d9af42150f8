package xpath

import "github.com/arturoeanton/go-domxp/domx"

// Axis is one of the thirteen XPath 1.0 axes.
type Axis int

const (
	AxisSelf Axis = iota
	AxisChild
	AxisParent
	AxisDescendant
	AxisDescendantOrSelf
	AxisAncestor
	AxisAncestorOrSelf
	AxisFollowingSibling
	AxisPrecedingSibling
	AxisFollowing
	AxisPreceding
	AxisAttribute
	AxisNamespace
)

var axisNames = map[Axis]string{
	AxisSelf: "self", AxisChild: "child", AxisParent: "parent",
	AxisDescendant: "descendant", AxisDescendantOrSelf: "descendant-or-self",
	AxisAncestor: "ancestor", AxisAncestorOrSelf: "ancestor-or-self",
	AxisFollowingSibling: "following-sibling", AxisPrecedingSibling: "preceding-sibling",
	AxisFollowing: "following", AxisPreceding: "preceding",
	AxisAttribute: "attribute", AxisNamespace: "namespace",
}

func (a Axis) String() string { return axisNames[a] }

func axisByName(name string) (Axis, bool) {
	for a, n := range axisNames {
		if n == name {
			return a, true
		}
	}
	return 0, false
}

// PrincipalKind reports which domx node kind a bare name test ("foo", "*")
// matches against on this axis.
func (a Axis) PrincipalKind() domx.NodeKind {
	switch a {
	case AxisAttribute:
		return domx.KindAttribute
	case AxisNamespace:
		return domx.KindNamespace
	default:
		return domx.KindElement
	}
}

// axisNodes enumerates an axis from context node ctx, in that axis's
// natural (possibly reverse-document) order.
func axisNodes(tree *domx.Tree, ctx domx.Node, axis Axis) []domx.Node {
	switch axis {
	case AxisSelf:
		return []domx.Node{ctx}
	case AxisChild:
		return ctx.Children()
	case AxisParent:
		if p := ctx.Parent(); !p.IsZero() {
			return []domx.Node{p}
		}
		return nil
	case AxisDescendant:
		var out []domx.Node
		collectDescendants(ctx, &out)
		return out
	case AxisDescendantOrSelf:
		out := []domx.Node{ctx}
		collectDescendants(ctx, &out)
		return out
	case AxisAncestor:
		var out []domx.Node
		for p := ctx.Parent(); !p.IsZero(); p = p.Parent() {
			out = append(out, p)
		}
		return out
	case AxisAncestorOrSelf:
		out := []domx.Node{ctx}
		for p := ctx.Parent(); !p.IsZero(); p = p.Parent() {
			out = append(out, p)
		}
		return out
	case AxisFollowingSibling:
		return siblings(ctx, false)
	case AxisPrecedingSibling:
		return siblings(ctx, true)
	case AxisFollowing:
		return followingOrPreceding(tree, ctx, true)
	case AxisPreceding:
		return followingOrPreceding(tree, ctx, false)
	case AxisAttribute:
		if ctx.Kind() != domx.KindElement && ctx.Kind() != domx.KindXMLDecl {
			return nil
		}
		return ctx.Attributes()
	case AxisNamespace:
		if ctx.Kind() != domx.KindElement {
			return nil
		}
		return inScopeNamespaces(tree, ctx)
	default:
		return nil
	}
}

func collectDescendants(n domx.Node, out *[]domx.Node) {
	for _, c := range n.Children() {
		*out = append(*out, c)
		collectDescendants(c, out)
	}
}

func siblings(ctx domx.Node, preceding bool) []domx.Node {
	// Attribute and namespace nodes have no siblings.
	if ctx.Kind() == domx.KindAttribute || ctx.Kind() == domx.KindNamespace {
		return nil
	}
	parent := ctx.Parent()
	if parent.IsZero() {
		return nil
	}
	kids := parent.Children()
	idx := ctx.Index()
	var out []domx.Node
	if preceding {
		for i := idx - 1; i >= 0; i-- {
			out = append(out, kids[i])
		}
	} else {
		for i := idx + 1; i < len(kids); i++ {
			out = append(out, kids[i])
		}
	}
	return out
}

func isAncestorOrSelf(candidate, ctx domx.Node) bool {
	for n := ctx; !n.IsZero(); n = n.Parent() {
		if n.Equal(candidate) {
			return true
		}
	}
	return false
}

// followingOrPreceding walks the whole tree in document order once and
// filters by position, excluding ctx's own ancestors (for preceding) or
// descendants (for following) per the XPath 1.0 axis definitions.
func followingOrPreceding(tree *domx.Tree, ctx domx.Node, following bool) []domx.Node {
	var all []domx.Node
	collectAll(tree.Root(), &all)
	var out []domx.Node
	ctxPos := ctx.Position()
	if following {
		for _, n := range all {
			if n.Position() > ctxPos && !isAncestorOrSelf(ctx, n) {
				out = append(out, n)
			}
		}
		return out
	}
	for i := len(all) - 1; i >= 0; i-- {
		n := all[i]
		if n.Position() < ctxPos && !isAncestorOrSelf(n, ctx) {
			out = append(out, n)
		}
	}
	return out
}

func collectAll(n domx.Node, out *[]domx.Node) {
	*out = append(*out, n)
	for _, c := range n.Children() {
		collectAll(c, out)
	}
}

// matchesTest reports whether candidate satisfies step's node test, given
// the axis it was enumerated from (for principal-node-kind filtering) and
// the context node the step was taken from (for namespace-prefix lookup in
// prefixed/wildcard name tests).
func matchesTest(tree *domx.Tree, candidate domx.Node, test NodeTest, axis Axis, stepCtx domx.Node) bool {
	if test.Kind == TestKind {
		switch test.KindName {
		case "node":
			return true
		case "text":
			return candidate.Kind() == domx.KindText
		case "comment":
			return candidate.Kind() == domx.KindComment
		case "processing-instruction":
			if candidate.Kind() != domx.KindPI {
				return false
			}
			return !test.HasPILiteral || candidate.PITarget() == test.PILiteral
		default:
			return false
		}
	}
	if candidate.Kind() != axis.PrincipalKind() {
		return false
	}
	switch test.Kind {
	case TestWildcard:
		return true
	case TestPrefixWildcard:
		uri, ok := resolvePrefixURI(tree, stepCtx, test.Prefix)
		if !ok {
			return false
		}
		bound, ok2 := candidate.BoundNamespace()
		return ok2 && bound.NamespaceURI() == uri
	case TestName:
		if axis == AxisNamespace {
			return candidate.NamespacePrefix() == test.Local
		}
		if test.Prefix == "" {
			return candidate.Prefix() == "" && candidate.LocalName() == test.Local
		}
		uri, ok := resolvePrefixURI(tree, stepCtx, test.Prefix)
		if !ok {
			return false
		}
		bound, ok2 := candidate.BoundNamespace()
		return ok2 && bound.NamespaceURI() == uri && candidate.LocalName() == test.Local
	default:
		return false
	}
}

// resolvePrefixURI looks up prefix among ctx's in-scope namespaces.
func resolvePrefixURI(tree *domx.Tree, ctx domx.Node, prefix string) (string, bool) {
	for _, ns := range inScopeNamespaces(tree, ctx) {
		if ns.NamespacePrefix() == prefix {
			return ns.NamespaceURI(), true
		}
	}
	return "", false
}

// inScopeNamespaces walks from ctx up to the root, taking each element's
// own namespace declarations with the closest (most local) one winning per
// prefix, then adds the two reserved globals if not already shadowed.
func inScopeNamespaces(tree *domx.Tree, ctx domx.Node) []domx.Node {
	seen := make(map[string]bool)
	var out []domx.Node
	for n := ctx; !n.IsZero(); n = n.Parent() {
		if n.Kind() != domx.KindElement {
			continue
		}
		for _, ns := range n.Namespaces() {
			if seen[ns.NamespacePrefix()] {
				continue
			}
			seen[ns.NamespacePrefix()] = true
			out = append(out, ns)
		}
	}
	for _, g := range tree.GlobalNamespaces() {
		if seen[g.NamespacePrefix()] {
			continue
		}
		seen[g.NamespacePrefix()] = true
		out = append(out, g)
	}
	return out
}
