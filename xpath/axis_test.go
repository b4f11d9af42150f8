package xpath_test

import (
	"testing"

	"github.com/arturoeanton/go-domxp/domx"
	"github.com/arturoeanton/go-domxp/xpath"
	"github.com/stretchr/testify/require"
)

const tree3 = `<a><b><c/><d/></b><e/></a>`

func TestAxis_FollowingSiblingAndPrecedingSibling(t *testing.T) {
	tr, err := domx.ParseString(tree3, domx.ModeXML)
	require.NoError(t, err)
	root, _ := tr.Root().RootElement()

	c, ok, err := xpath.QueryOne(root, "//c")
	require.NoError(t, err)
	require.True(t, ok)

	following, err := xpath.QueryAll(c, "following-sibling::*")
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.Equal(t, "d", following[0].LocalName())

	d, ok, err := xpath.QueryOne(root, "//d")
	require.NoError(t, err)
	require.True(t, ok)
	preceding, err := xpath.QueryAll(d, "preceding-sibling::*")
	require.NoError(t, err)
	require.Len(t, preceding, 1)
	require.Equal(t, "c", preceding[0].LocalName())
}

func TestAxis_AncestorAndDescendant(t *testing.T) {
	tr, err := domx.ParseString(tree3, domx.ModeXML)
	require.NoError(t, err)
	root, _ := tr.Root().RootElement()

	c, ok, err := xpath.QueryOne(root, "//c")
	require.NoError(t, err)
	require.True(t, ok)

	ancestors, err := xpath.QueryAll(c, "ancestor::*")
	require.NoError(t, err)
	require.Len(t, ancestors, 2) // a, b (document order)
	require.Equal(t, "a", ancestors[0].LocalName())
	require.Equal(t, "b", ancestors[1].LocalName())

	descendants, err := xpath.QueryAll(root, "descendant::*")
	require.NoError(t, err)
	require.Len(t, descendants, 4) // b, c, d, e
}

func TestAxis_NamespaceResolvesPrefix(t *testing.T) {
	tr, err := domx.ParseString(`<a:root xmlns:a="urn:a"><a:child/></a:root>`, domx.ModeXML)
	require.NoError(t, err)
	root, _ := tr.Root().RootElement()

	nodes, err := xpath.QueryAll(root, "a:child")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
}
