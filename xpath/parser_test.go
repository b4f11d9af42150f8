package xpath_test

import (
	"testing"

	"github.com/arturoeanton/go-domxp/xpath"
	"github.com/stretchr/testify/require"
)

func TestParseExpr_Valid(t *testing.T) {
	exprs := []string{
		"/root/child",
		"//child",
		"child::foo",
		"@attr",
		"attribute::attr",
		".",
		"..",
		"*",
		"*[1]",
		"foo:*",
		"text()",
		"comment()",
		"processing-instruction()",
		`processing-instruction("xml-stylesheet")`,
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"-1",
		"1 = 2 or 3 < 4",
		"not(true()) and false()",
		"concat('a', 'b', 'c')",
		"(//a)[1]/b",
		"//a | //b",
		"0x1F",
		"1.5e3",
		"(: leading comment :) //child",
		"1 + (: nested (: deeper :) back out :) 2",
	}
	for _, e := range exprs {
		_, err := xpath.ParseExpr(e)
		require.NoError(t, err, "expr %q", e)
	}
}

func TestParseExpr_Invalid(t *testing.T) {
	exprs := []string{
		"",
		"//book[",
		"1 +",
		"foo::bar",
		"concat(,)",
		"'unterminated",
		"(: never closed",
		"1 ! 2",
	}
	for _, e := range exprs {
		_, err := xpath.ParseExpr(e)
		require.Error(t, err, "expr %q", e)
	}
}

func TestParseExpr_DivAndModAsNamesOutsideOperatorPosition(t *testing.T) {
	_, err := xpath.ParseExpr("div")
	require.NoError(t, err)
	_, err = xpath.ParseExpr("mod::div")
	require.Error(t, err) // "mod" is not a real axis name
}
