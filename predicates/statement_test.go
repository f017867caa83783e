package predicates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geogen/geometry"
)

func TestCanonicalCong(t *testing.T) {
	a := MustNew(Cong, "b", "a", "d", "c")
	b := MustNew(Cong, "c", "d", "a", "b")
	assert.Equal(t, a.Key(), b.Key())
}

func TestCanonicalEqRatioVariants(t *testing.T) {
	base := MustNew(EqRatio, "a", "b", "c", "d", "e", "f", "g", "h")
	variants := [][]string{
		{"c", "d", "a", "b", "g", "h", "e", "f"}, // both ratios inverted
		{"e", "f", "g", "h", "a", "b", "c", "d"}, // sides swapped
		{"b", "a", "d", "c", "f", "e", "h", "g"}, // segments reversed
	}
	for _, v := range variants {
		got := MustNew(EqRatio, v...)
		assert.Equal(t, base.Key(), got.Key())
	}
}

func TestCanonicalDistinguishes(t *testing.T) {
	a := MustNew(EqRatio, "a", "b", "c", "d", "e", "f", "g", "h")
	// Swapping only one side's segments is a different statement.
	b := MustNew(EqRatio, "c", "d", "a", "b", "e", "f", "g", "h")
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestParseRejectsBadArity(t *testing.T) {
	_, err := Parse("cong a b c")
	assert.Error(t, err)
	_, err = Parse("nosuch a b")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	m := Model{
		"a": geometry.Point{X: 0, Y: 0},
		"b": geometry.Point{X: 2, Y: 0},
		"c": geometry.Point{X: 0, Y: 2},
		"d": geometry.Point{X: 1, Y: 0},
		"e": geometry.Point{X: 2, Y: 2},
	}

	assert.True(t, Check(MustNew(Midp, "d", "a", "b"), m))
	assert.True(t, Check(MustNew(Cong, "a", "d", "d", "b"), m))
	assert.True(t, Check(MustNew(Coll, "a", "d", "b"), m))
	assert.True(t, Check(MustNew(Perp, "a", "b", "a", "c"), m))
	assert.True(t, Check(MustNew(Para, "a", "c", "b", "e"), m))
	assert.False(t, Check(MustNew(Cong, "a", "b", "a", "d"), m))
}

func TestCheckEqRatio(t *testing.T) {
	m := Model{
		"a": geometry.Point{X: 0, Y: 0},
		"b": geometry.Point{X: 2, Y: 0},
		"c": geometry.Point{X: 0, Y: 2},
		"d": geometry.Point{X: 1, Y: 0},
		"e": geometry.Point{X: 0, Y: 1},
	}
	// ad/ab = ae/ac = 1/2
	assert.True(t, Check(MustNew(EqRatio, "a", "d", "a", "b", "a", "e", "a", "c"), m))
	assert.False(t, Check(MustNew(EqRatio, "a", "b", "a", "d", "a", "e", "a", "c"), m))
}

func TestCheckUnknownPoint(t *testing.T) {
	m := Model{"a": geometry.Point{}}
	assert.False(t, Check(MustNew(Coll, "a", "b", "c"), m))
}

func TestCheckAll(t *testing.T) {
	m := Model{
		"a": geometry.Point{X: 0, Y: 0},
		"b": geometry.Point{X: 2, Y: 0},
		"d": geometry.Point{X: 1, Y: 0},
	}
	require.NoError(t, CheckAll([]Statement{
		MustNew(Midp, "d", "a", "b"),
		MustNew(Coll, "a", "b", "d"),
	}, m))
	assert.Error(t, CheckAll([]Statement{MustNew(Cong, "a", "b", "a", "d")}, m))
}
