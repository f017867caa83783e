package deduce

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geogen/geometry"
	"geogen/predicates"
)

// A right isoceles triangle with the midpoint of its hypotenuse.
func midpointModel() predicates.Model {
	return predicates.Model{
		"a": geometry.Point{X: 0, Y: 0},
		"b": geometry.Point{X: 4, Y: 0},
		"c": geometry.Point{X: 0, Y: 4},
		"m": geometry.Point{X: 2, Y: 2},
	}
}

func TestMidpointClosure(t *testing.T) {
	e := NewEngine(BuiltinRules(), midpointModel())
	require.NoError(t, e.AddPremise(predicates.MustNew(predicates.Midp, "m", "b", "c")))
	require.NoError(t, e.Run(context.Background()))

	cong, ok := e.Fact(predicates.MustNew(predicates.Cong, "b", "m", "c", "m"))
	require.True(t, ok)
	assert.Equal(t, "midp_cong", cong.Rule)

	coll, ok := e.Fact(predicates.MustNew(predicates.Coll, "b", "c", "m"))
	require.True(t, ok)
	assert.Equal(t, "midp_coll", coll.Rule)
}

func TestHarvestCongChain(t *testing.T) {
	m := predicates.Model{
		"a": geometry.Point{X: 0, Y: 0},
		"b": geometry.Point{X: 1, Y: 0},
		"c": geometry.Point{X: 3, Y: 0},
		"d": geometry.Point{X: 4, Y: 0},
		"e": geometry.Point{X: 0, Y: 2},
		"f": geometry.Point{X: 1, Y: 2},
	}
	e := NewEngine(BuiltinRules(), m)
	require.NoError(t, e.AddPremise(predicates.MustNew(predicates.Cong, "a", "b", "c", "d")))
	require.NoError(t, e.AddPremise(predicates.MustNew(predicates.Cong, "c", "d", "e", "f")))
	require.NoError(t, e.Run(context.Background()))

	f, ok := e.Fact(predicates.MustNew(predicates.Cong, "a", "b", "e", "f"))
	require.True(t, ok)
	assert.Equal(t, RatioChase, f.Rule)
	assert.Len(t, f.Premises, 2)
}

func TestProveRejectsNumericallyFalse(t *testing.T) {
	e := NewEngine(BuiltinRules(), midpointModel())
	require.NoError(t, e.AddPremise(predicates.MustNew(predicates.Midp, "m", "b", "c")))
	require.NoError(t, e.Run(context.Background()))

	_, ok := e.prove(predicates.MustNew(predicates.Cong, "a", "b", "b", "m"))
	assert.False(t, ok)
}

func TestTracebackProvesTableGoal(t *testing.T) {
	m := predicates.Model{
		"a": geometry.Point{X: 0, Y: 0},
		"b": geometry.Point{X: 1, Y: 0},
		"c": geometry.Point{X: 0, Y: 1},
		"d": geometry.Point{X: 2, Y: 1},
		"e": geometry.Point{X: 0, Y: 2},
		"f": geometry.Point{X: 1, Y: 2},
		"g": geometry.Point{X: 0, Y: 3},
		"h": geometry.Point{X: 2, Y: 3},
	}
	e := NewEngine(BuiltinRules(), m)
	require.NoError(t, e.AddPremise(predicates.MustNew(predicates.EqRatio,
		"a", "b", "c", "d", "e", "f", "g", "h")))
	require.NoError(t, e.Run(context.Background()))

	// ab/ef = cd/gh holds in the ratio table but is never harvested; the
	// traceback materializes it on demand.
	goal := predicates.MustNew(predicates.EqRatio, "a", "b", "e", "f", "c", "d", "g", "h")
	_, ok := e.Fact(goal)
	require.False(t, ok)

	proof, err := e.Traceback(goal)
	require.NoError(t, err)
	require.NotEmpty(t, proof.Steps)
	last := proof.Steps[len(proof.Steps)-1]
	assert.Equal(t, proof.Goal, last.Label)
	assert.Equal(t, RatioChase, last.Rule)
}

func TestAddPremiseRejectsFalseStatement(t *testing.T) {
	e := NewEngine(BuiltinRules(), midpointModel())
	assert.Error(t, e.AddPremise(predicates.MustNew(predicates.Midp, "m", "a", "b")))
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	e := NewEngine(BuiltinRules(), midpointModel())
	require.NoError(t, e.AddPremise(predicates.MustNew(predicates.Midp, "m", "b", "c")))
	assert.ErrorIs(t, e.Run(ctx), context.DeadlineExceeded)
}

func TestTraceback(t *testing.T) {
	e := NewEngine(BuiltinRules(), midpointModel())
	require.NoError(t, e.AddPremise(predicates.MustNew(predicates.Midp, "m", "b", "c")))
	require.NoError(t, e.Run(context.Background()))

	goal := predicates.MustNew(predicates.Cong, "b", "m", "c", "m")
	_, ok := e.Fact(goal)
	require.True(t, ok)

	proof, err := e.Traceback(goal)
	require.NoError(t, err)
	require.Len(t, proof.Premises, 1)
	require.Len(t, proof.Steps, 1)
	assert.Equal(t, "001", proof.Premises[0].Label)
	assert.Equal(t, "002", proof.Steps[0].Label)
	assert.Equal(t, []string{"001"}, proof.Steps[0].Parents)
	assert.Equal(t, "002", proof.Goal)

	text := proof.String()
	assert.Contains(t, text, "<problem>")
	assert.Contains(t, text, "midp m b c [001]")
	assert.Contains(t, text, "(midp_cong) <= 001")
	assert.Contains(t, text, "<goal> 002 </goal>")
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	doc := `rules:
  - name: midp_cong
    premises:
      - pred: midp
        args: [m, a, b]
    conclusion:
      pred: cong
      args: [a, m, b, m]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "midp_cong", rules[0].Name)

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRulesRejectsUnboundConclusion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := `rules:
  - name: broken
    premises:
      - pred: midp
        args: [m, a, b]
    conclusion:
      pred: cong
      args: [a, m, b, z]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err := LoadRules(path)
	assert.Error(t, err)
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)
	assert.Equal(t, 3, q.Size())
	assert.Equal(t, 1, q.Pop())
	assert.Equal(t, 2, q.Pop())
	assert.Equal(t, 3, q.Pop())
	assert.Equal(t, 0, q.Pop())
}
