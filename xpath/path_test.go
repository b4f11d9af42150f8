package xpath_test

import (
	"testing"

	"github.com/arturoeanton/go-domxp/domx"
	"github.com/arturoeanton/go-domxp/xpath"
	"github.com/stretchr/testify/require"
)

func TestPath_BasicPathAndScalars(t *testing.T) {
	tree, err := domx.ParseString(`<tag id='1'>some value<data id='2'>123456</data></tag>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	nodes, err := xpath.QueryAll(root, "/tag/data")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, "data", nodes[0].LocalName())

	v, err := xpath.Query(root, "number((//data)[1])")
	require.NoError(t, err)
	require.Equal(t, 123456.0, v.Number())

	v, err = xpath.Query(root, "string-length(normalize-space(//data))")
	require.NoError(t, err)
	require.Equal(t, 6.0, v.Number())
}

const tools = `<tools><tool id='1'/><tool id='2'/><tool id='3'/><tool id='4'/></tools>`

func TestPath_LastAndPositionPredicates(t *testing.T) {
	tree, err := domx.ParseString(tools, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	last, err := xpath.QueryAll(root, "//tool[last()]")
	require.NoError(t, err)
	require.Len(t, last, 1)
	id, _ := last[0].Attr("id")
	require.Equal(t, "4", id.Value())

	none, err := xpath.QueryAll(root, "//tool[position()>4]")
	require.NoError(t, err)
	require.Empty(t, none)

	rest, err := xpath.QueryAll(root, "(//tool)[1]/following-sibling::tool")
	require.NoError(t, err)
	require.Len(t, rest, 3)
	for i, want := range []string{"2", "3", "4"} {
		id, _ := rest[i].Attr("id")
		require.Equal(t, want, id.Value())
	}
}

func TestPath_PerParentVersusGlobalFirst(t *testing.T) {
	tree, err := domx.ParseString(`<r><g><x id='1'/></g><g><x id='2'/></g></r>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	perParent, err := xpath.QueryAll(root, "//x[1]")
	require.NoError(t, err)
	require.Len(t, perParent, 2)

	global, err := xpath.QueryAll(root, "(//x)[1]")
	require.NoError(t, err)
	require.Len(t, global, 1)
	id, _ := global[0].Attr("id")
	require.Equal(t, "1", id.Value())
}

func TestPath_AxesPartitionTheDocument(t *testing.T) {
	tree, err := domx.ParseString(`<a><b>x<c><d/>y</c></b><e>z</e></a>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	c, ok, err := xpath.QueryOne(root, "//c")
	require.NoError(t, err)
	require.True(t, ok)

	count := func(expr string) float64 {
		v, err := xpath.Query(c, expr)
		require.NoError(t, err)
		return v.Number()
	}

	self := count("count(self::node())")
	ancestors := count("count(ancestor::node())")
	descendants := count("count(descendant::node())")
	preceding := count("count(preceding::node())")
	following := count("count(following::node())")

	require.Equal(t, 1.0, self)
	require.Equal(t, 3.0, ancestors)   // b, a, root
	require.Equal(t, 2.0, descendants) // d, "y"
	require.Equal(t, 1.0, preceding)   // "x"
	require.Equal(t, 2.0, following)   // e, "z"

	// The five relative axes partition the document (9 nodes with the root).
	require.Equal(t, 9.0, self+ancestors+descendants+preceding+following)
}

func TestPath_DescendantCountLaw(t *testing.T) {
	tree, err := domx.ParseString(`<a><b><c/></b><d/></a>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	all, err := xpath.Query(root, "count(//*)")
	require.NoError(t, err)
	fromRoot, err := xpath.Query(root, "count(/descendant::*)")
	require.NoError(t, err)
	require.Equal(t, fromRoot.Number(), all.Number())
	require.Equal(t, 4.0, all.Number())
}

func TestPath_RootSelfAndParent(t *testing.T) {
	tree, err := domx.ParseString(`<a/>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	self, err := xpath.QueryAll(root, "self::node()")
	require.NoError(t, err)
	require.Len(t, self, 1)
	require.Equal(t, domx.KindRoot, self[0].Kind())

	parent, err := xpath.QueryAll(root, "parent::node()")
	require.NoError(t, err)
	require.Empty(t, parent)
}

func TestPath_KindTests(t *testing.T) {
	tree, err := domx.ParseString(`<r>t<!-- c --><?pi data?><x/></r>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	texts, err := xpath.QueryAll(root, "/r/text()")
	require.NoError(t, err)
	require.Len(t, texts, 1)

	comments, err := xpath.QueryAll(root, "/r/comment()")
	require.NoError(t, err)
	require.Len(t, comments, 1)

	pis, err := xpath.QueryAll(root, "/r/processing-instruction()")
	require.NoError(t, err)
	require.Len(t, pis, 1)

	byTarget, err := xpath.QueryAll(root, `/r/processing-instruction("pi")`)
	require.NoError(t, err)
	require.Len(t, byTarget, 1)

	other, err := xpath.QueryAll(root, `/r/processing-instruction("nope")`)
	require.NoError(t, err)
	require.Empty(t, other)

	any, err := xpath.QueryAll(root, "/r/node()")
	require.NoError(t, err)
	require.Len(t, any, 4)
}

func TestPath_ReverseAxisPositionCountsFromOrigin(t *testing.T) {
	tree, err := domx.ParseString(`<a><b><c><d/></c></b></a>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	d, ok, err := xpath.QueryOne(root, "//d")
	require.NoError(t, err)
	require.True(t, ok)

	// ancestor::*[1] is the nearest ancestor, counting against reverse order.
	nearest, err := xpath.QueryAll(d, "ancestor::*[1]")
	require.NoError(t, err)
	require.Len(t, nearest, 1)
	require.Equal(t, "c", nearest[0].LocalName())

	// Outside predicates the result still comes back in document order.
	ancestors, err := xpath.QueryAll(d, "ancestor::*")
	require.NoError(t, err)
	require.Len(t, ancestors, 3)
	require.Equal(t, "a", ancestors[0].LocalName())
	require.Equal(t, "c", ancestors[2].LocalName())
}

func TestPath_AttributeAxisEdgeRules(t *testing.T) {
	tree, err := domx.ParseString(`<r><before/><owner a="1"><child/></owner></r>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	owner, ok, err := xpath.QueryOne(root, "//owner")
	require.NoError(t, err)
	require.True(t, ok)
	attrs, err := xpath.QueryAll(owner, "@a")
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	attr := attrs[0]

	siblings, err := xpath.QueryAll(attr, "following-sibling::node()")
	require.NoError(t, err)
	require.Empty(t, siblings)

	following, err := xpath.QueryAll(attr, "following::node()")
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.Equal(t, "child", following[0].LocalName())

	preceding, err := xpath.QueryAll(attr, "preceding::node()")
	require.NoError(t, err)
	require.Len(t, preceding, 1)
	require.Equal(t, "before", preceding[0].LocalName())
}

func TestPath_NamespaceAxis(t *testing.T) {
	tree, err := domx.ParseString(`<r xmlns:p="urn:x"><c/></r>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	c, ok, err := xpath.QueryOne(root, "//c")
	require.NoError(t, err)
	require.True(t, ok)

	nss, err := xpath.QueryAll(c, "namespace::node()")
	require.NoError(t, err)
	// p plus the xml/xmlns globals are all in scope on <c/>.
	require.Len(t, nss, 3)
}

func TestPath_UnionRequiresNodeSets(t *testing.T) {
	tree, err := domx.ParseString(`<a/>`, domx.ModeXML)
	require.NoError(t, err)
	_, err = xpath.Query(tree.Root(), "1 | 2")
	require.Error(t, err)
	var qe *xpath.Error
	require.ErrorAs(t, err, &qe)
	require.Equal(t, xpath.EvalError, qe.Kind)
}
