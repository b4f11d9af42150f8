package xpath_test

import (
	"testing"

	"github.com/arturoeanton/go-domxp/domx"
	"github.com/arturoeanton/go-domxp/xpath"
	"github.com/stretchr/testify/require"
)

func queryScalar(t *testing.T, expr string) xpath.Value {
	t.Helper()
	tree, err := domx.ParseString(`<root/>`, domx.ModeXML)
	require.NoError(t, err)
	root, ok := tree.Root().RootElement()
	require.True(t, ok)
	v, err := xpath.Query(root, expr)
	require.NoError(t, err)
	return v
}

func TestFunctions_RoundTiesTowardPositiveInfinity(t *testing.T) {
	require.Equal(t, 3.0, queryScalar(t, "round(2.5)").Number())
	require.Equal(t, -2.0, queryScalar(t, "round(-2.5)").Number())
}

func TestFunctions_SubstringCornerCases(t *testing.T) {
	require.Equal(t, "234", queryScalar(t, `substring("12345", 1.5, 2.6)`).String())
	require.Equal(t, "", queryScalar(t, `substring("12345", 0 div 0, 3)`).String())
	require.Equal(t, "12345", queryScalar(t, `substring("12345", -42, 1 div 0)`).String())
}

func TestFunctions_TranslateFirstOccurrenceWins(t *testing.T) {
	require.Equal(t, "AAA", queryScalar(t, `translate("--aaa--", "abc-", "ABC")`).String())
	require.Equal(t, "xzx", queryScalar(t, `translate("aba", "aab", "xyz")`).String())
}

func TestFunctions_StringStartsWithContains(t *testing.T) {
	require.True(t, queryScalar(t, `starts-with("hello world", "hello")`).Boolean())
	require.True(t, queryScalar(t, `contains("hello world", "o wo")`).Boolean())
	require.False(t, queryScalar(t, `starts-with("hello", "world")`).Boolean())
}

func TestFunctions_NormalizeSpace(t *testing.T) {
	require.Equal(t, "a b c", queryScalar(t, `normalize-space("  a  b   c  ")`).String())
}

func TestFunctions_Mod(t *testing.T) {
	require.Equal(t, 1.0, queryScalar(t, "5 mod 2").Number())
	require.Equal(t, -1.0, queryScalar(t, "-5 mod 2").Number())
}

func queryErr(t *testing.T, expr string) error {
	t.Helper()
	tree, err := domx.ParseString(`<root/>`, domx.ModeXML)
	require.NoError(t, err)
	_, err = xpath.Query(tree.Root(), expr)
	require.Error(t, err, "expr %q", expr)
	return err
}

func TestFunctions_ConcatVariadic(t *testing.T) {
	require.Equal(t, "abcd", queryScalar(t, `concat("a","b","c","d")`).String())

	err := queryErr(t, `concat("a")`)
	var qe *xpath.Error
	require.ErrorAs(t, err, &qe)
	require.Equal(t, xpath.EvalError, qe.Kind)
}

func TestFunctions_SumRequiresNodeSet(t *testing.T) {
	err := queryErr(t, `sum("3")`)
	var qe *xpath.Error
	require.ErrorAs(t, err, &qe)
	require.Equal(t, xpath.EvalError, qe.Kind)
}

func TestFunctions_ArgumentCountMismatch(t *testing.T) {
	queryErr(t, `substring("x")`)
	queryErr(t, `translate("a","b")`)
	queryErr(t, `position(1)`)
	queryErr(t, `nosuchfunction()`)
}

func TestFunctions_SubstringBeforeAfter(t *testing.T) {
	require.Equal(t, "1999", queryScalar(t, `substring-before("1999/04/01","/")`).String())
	require.Equal(t, "04/01", queryScalar(t, `substring-after("1999/04/01","/")`).String())
	require.Equal(t, "", queryScalar(t, `substring-before("abc","x")`).String())
}

func TestFunctions_FloorCeiling(t *testing.T) {
	require.Equal(t, 2.0, queryScalar(t, "floor(2.7)").Number())
	require.Equal(t, -3.0, queryScalar(t, "floor(-2.3)").Number())
	require.Equal(t, 3.0, queryScalar(t, "ceiling(2.3)").Number())
	require.Equal(t, -2.0, queryScalar(t, "ceiling(-2.7)").Number())
}

func TestFunctions_BooleanIdempotenceLaws(t *testing.T) {
	require.True(t, queryScalar(t, `boolean(boolean("x")) = boolean("x")`).Boolean())
	require.True(t, queryScalar(t, `not(not(42)) = boolean(42)`).Boolean())
	require.False(t, queryScalar(t, `boolean("")`).Boolean())
	require.True(t, queryScalar(t, `true() and not(false())`).Boolean())
}

func TestFunctions_TranslateDeletesAndIgnoresExcess(t *testing.T) {
	require.Equal(t, "BAr", queryScalar(t, `translate("bar","abc","ABC")`).String())
	require.Equal(t, "b", queryScalar(t, `translate("bar","ar","")`).String())
	require.Equal(t, "bar", queryScalar(t, `translate("bar","","xyz")`).String())
}

func TestFunctions_NameFamily(t *testing.T) {
	tree, err := domx.ParseString(`<r xmlns:p="urn:x"><p:c/><plain/></r>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	v, err := xpath.Query(root, `name(//p:c)`)
	require.NoError(t, err)
	require.Equal(t, "p:c", v.String())

	v, err = xpath.Query(root, `local-name(//p:c)`)
	require.NoError(t, err)
	require.Equal(t, "c", v.String())

	v, err = xpath.Query(root, `namespace-uri(//p:c)`)
	require.NoError(t, err)
	require.Equal(t, "urn:x", v.String())

	v, err = xpath.Query(root, `namespace-uri(//plain)`)
	require.NoError(t, err)
	require.Equal(t, "", v.String())
}

func TestFunctions_Lang(t *testing.T) {
	tree, err := domx.ParseString(`<r xml:lang="en-US"><c/></r>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	c, ok, err := xpath.QueryOne(root, "//c")
	require.NoError(t, err)
	require.True(t, ok)

	v, err := xpath.Query(c, `lang("en")`)
	require.NoError(t, err)
	require.True(t, v.Boolean())

	v, err = xpath.Query(c, `lang("EN-us")`)
	require.NoError(t, err)
	require.True(t, v.Boolean())

	v, err = xpath.Query(c, `lang("fr")`)
	require.NoError(t, err)
	require.False(t, v.Boolean())
}

func TestFunctions_CountAndNumberDefaults(t *testing.T) {
	tree, err := domx.ParseString(`<r><n>7</n></r>`, domx.ModeXML)
	require.NoError(t, err)
	root := tree.Root()

	v, err := xpath.Query(root, "count(//n)")
	require.NoError(t, err)
	require.Equal(t, 1.0, v.Number())

	n, ok, err := xpath.QueryOne(root, "//n")
	require.NoError(t, err)
	require.True(t, ok)
	v, err = xpath.Query(n, "number()")
	require.NoError(t, err)
	require.Equal(t, 7.0, v.Number())

	v, err = xpath.Query(n, "string()")
	require.NoError(t, err)
	require.Equal(t, "7", v.String())
}
