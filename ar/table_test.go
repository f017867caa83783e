package ar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCongChain(t *testing.T) {
	tbl := NewTable(false)

	assert.True(t, tbl.AddEq(CongExpr("a", "b", "c", "d"), 1))
	assert.True(t, tbl.AddEq(CongExpr("c", "d", "e", "f"), 2))

	ok, deps := tbl.Implied(CongExpr("a", "b", "e", "f"))
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, deps)

	ok, _ = tbl.Implied(CongExpr("a", "b", "x", "y"))
	assert.False(t, ok)
}

func TestRedundantEquation(t *testing.T) {
	tbl := NewTable(false)

	assert.True(t, tbl.AddEq(CongExpr("a", "b", "c", "d"), 1))
	assert.False(t, tbl.AddEq(CongExpr("c", "d", "a", "b"), 2))
}

func TestRatioChase(t *testing.T) {
	tbl := NewTable(false)

	// ab/cd = ef/gh and ab = ef imply cd = gh.
	tbl.AddEq(RatioExpr([8]string{"a", "b", "c", "d", "e", "f", "g", "h"}), 1)
	tbl.AddEq(CongExpr("a", "b", "e", "f"), 2)

	ok, deps := tbl.Implied(CongExpr("c", "d", "g", "h"))
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, deps)
}

func TestPerpModular(t *testing.T) {
	tbl := NewTable(true)

	// ab perp cd and cd perp ef imply ab // ef, a half turn apart twice.
	tbl.AddEq(PerpExpr("a", "b", "c", "d"), 1)
	tbl.AddEq(PerpExpr("c", "d", "e", "f"), 2)

	ok, deps := tbl.Implied(ParaExpr("a", "b", "e", "f"))
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, deps)

	// But ab // cd does not follow.
	ok, _ = tbl.Implied(ParaExpr("a", "b", "c", "d"))
	assert.False(t, ok)
}

func TestModularTableKeepsIntegerCombinations(t *testing.T) {
	tbl := NewTable(true)

	e1 := NewExpr().Add("u", 1).Add("v", 1) // u + v = 0 (mod 1)
	e2 := NewExpr().Add("u", 1).Add("v", -1)
	e2.Const = 0.5 // u - v + 1/2 = 0 (mod 1)
	assert.True(t, tbl.AddEq(e1, 1))
	assert.True(t, tbl.AddEq(e2, 2))

	// Together the rows give 2v = 1/2 (mod 1), so v is 1/4 or 3/4. Halving
	// a mod-1 row would wrongly accept v = 1/4 on its own.
	q := NewExpr().Add("v", 1)
	q.Const = -0.25
	ok, _ := tbl.Implied(q)
	assert.False(t, ok)

	// The doubled form does follow, from both rows.
	q2 := NewExpr().Add("v", 2)
	q2.Const = -0.5
	ok, deps := tbl.Implied(q2)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, deps)
}

func TestNonModularConstIsStrict(t *testing.T) {
	tbl := NewTable(false)
	e := CongExpr("a", "b", "a", "b")
	e.Const = 1
	ok, _ := tbl.Implied(e)
	assert.False(t, ok)

	tbl = NewTable(true)
	ok, _ = tbl.Implied(e)
	assert.True(t, ok)
}

func TestSegmentSymmetry(t *testing.T) {
	tbl := NewTable(false)
	tbl.AddEq(CongExpr("b", "a", "d", "c"), 1)
	ok, _ := tbl.Implied(CongExpr("a", "b", "c", "d"))
	assert.True(t, ok)
}
