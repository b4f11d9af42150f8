package xpath_test

import (
	"math"
	"testing"

	"github.com/arturoeanton/go-domxp/xpath"
	"github.com/stretchr/testify/require"
)

func TestValue_NumberCoercion(t *testing.T) {
	require.Equal(t, 42.0, xpath.String("42").Number())
	require.Equal(t, 1.0, xpath.Boolean(true).Number())
	require.Equal(t, 0.0, xpath.Boolean(false).Number())
	require.True(t, math.IsNaN(xpath.String("abc").Number()))
}

func TestValue_StringCoercion(t *testing.T) {
	require.Equal(t, "true", xpath.Boolean(true).String())
	require.Equal(t, "false", xpath.Boolean(false).String())
	require.Equal(t, "1", xpath.Number(1).String())
	require.Equal(t, "1.5", xpath.Number(1.5).String())
	require.Equal(t, "NaN", xpath.Number(math.NaN()).String())
	require.Equal(t, "Infinity", xpath.Number(math.Inf(1)).String())
}

func TestValue_BooleanCoercion(t *testing.T) {
	require.True(t, xpath.Number(1).Boolean())
	require.False(t, xpath.Number(0).Boolean())
	require.False(t, xpath.Number(math.NaN()).Boolean())
	require.True(t, xpath.String("x").Boolean())
	require.False(t, xpath.String("").Boolean())
}

func TestCompare_PrimitiveEquality(t *testing.T) {
	require.True(t, xpath.Compare(xpath.OpEq, xpath.Number(1), xpath.String("1")))
	require.True(t, xpath.Compare(xpath.OpEq, xpath.Boolean(true), xpath.Number(1)))
	require.False(t, xpath.Compare(xpath.OpEq, xpath.Boolean(false), xpath.String("false")))
}

func TestCompare_Ordering(t *testing.T) {
	require.True(t, xpath.Compare(xpath.OpLt, xpath.Number(1), xpath.Number(2)))
	require.True(t, xpath.Compare(xpath.OpGe, xpath.String("3"), xpath.String("2")))
}
