// Package predicates defines geometric statements, their canonical argument
// forms and their numeric verification against a coordinate model.
package predicates

import (
	"fmt"
	"slices"
	"strings"

	"geogen/geometry"
)

// Predicate names.
const (
	Coll    = "coll"
	Para    = "para"
	Perp    = "perp"
	Cong    = "cong"
	Midp    = "midp"
	Cyclic  = "cyclic"
	EqAngle = "eqangle"
	EqRatio = "eqratio"
)

// Model maps point names to sampled coordinates.
type Model map[string]geometry.Point

// Statement is a single fact: a predicate applied to named points, stored in
// canonical argument order so that symmetric variants compare equal.
type Statement struct {
	Pred string
	Args []string
}

func arity(pred string) int {
	switch pred {
	case Coll, Midp:
		return 3
	case Para, Perp, Cong, Cyclic:
		return 4
	case EqAngle, EqRatio:
		return 8
	}
	return -1
}

// New builds a canonicalized statement. Unknown predicates and wrong arities
// are rejected so malformed rule files fail early.
func New(pred string, args ...string) (Statement, error) {
	if n := arity(pred); n != len(args) {
		return Statement{}, fmt.Errorf("predicate %q wants %d arguments, got %d", pred, n, len(args))
	}
	s := Statement{Pred: pred, Args: slices.Clone(args)}
	s.canonicalize()
	return s, nil
}

func MustNew(pred string, args ...string) Statement {
	s, err := New(pred, args...)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse reads a statement from its textual form "pred p1 p2 ...".
func Parse(text string) (Statement, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return Statement{}, fmt.Errorf("statement %q too short", text)
	}
	return New(fields[0], fields[1:]...)
}

func sortPair(p []string) {
	if p[1] < p[0] {
		p[0], p[1] = p[1], p[0]
	}
}

// pairKey orders segment pairs lexicographically.
func pairKey(p []string) string {
	return p[0] + "," + p[1]
}

func (s *Statement) canonicalize() {
	a := s.Args
	switch s.Pred {
	case Coll, Cyclic:
		slices.Sort(a)
	case Midp:
		// midpoint itself is fixed, the segment ends are symmetric
		sortPair(a[1:3])
	case Cong, Para, Perp:
		sortPair(a[0:2])
		sortPair(a[2:4])
		if pairKey(a[2:4]) < pairKey(a[0:2]) {
			a[0], a[1], a[2], a[3] = a[2], a[3], a[0], a[1]
		}
	case EqAngle, EqRatio:
		// Four segments: both sides of the equality can be swapped, and
		// within each side the two segments swap together (inverting both
		// ratios preserves the relation).
		best := slices.Clone(a)
		for _, cand := range equalityVariants(a) {
			if slices.Compare(cand, best) < 0 {
				best = cand
			}
		}
		copy(a, best)
	}
}

// equalityVariants enumerates the argument orders of an eqangle/eqratio
// statement that denote the same fact.
func equalityVariants(a []string) [][]string {
	segs := make([][]string, 4)
	for i := 0; i < 4; i++ {
		p := slices.Clone(a[2*i : 2*i+2])
		sortPair(p)
		segs[i] = p
	}
	flat := func(order []int) []string {
		out := make([]string, 0, 8)
		for _, i := range order {
			out = append(out, segs[i]...)
		}
		return out
	}
	// AB/CD = EF/GH equals CD/AB = GH/EF, EF/GH = AB/CD and GH/EF = CD/AB.
	return [][]string{
		flat([]int{0, 1, 2, 3}),
		flat([]int{1, 0, 3, 2}),
		flat([]int{2, 3, 0, 1}),
		flat([]int{3, 2, 1, 0}),
	}
}

// Key is the canonical textual form, used for hashing and dedup.
func (s Statement) Key() string {
	return s.Pred + " " + strings.Join(s.Args, " ")
}

func (s Statement) String() string {
	return s.Key()
}
