// Package gen samples random construction problems and drives the worker
// pool that turns them into dataset rows.
package gen

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"geogen/geometry"
	"geogen/predicates"
)

const (
	coordBound    = 10.0
	minSeparation = 1e-2
	minArea       = 0.5
)

// Clause is one construction step: new points defined from existing ones,
// printed in the dataset as "d = midpoint d a b".
type Clause struct {
	Construction string
	Out          []string
	Args         []string
}

func (c Clause) String() string {
	s := new(strings.Builder)
	s.WriteString(strings.Join(c.Out, " "))
	s.WriteString(" = ")
	s.WriteString(c.Construction)
	s.WriteString(" ")
	s.WriteString(strings.Join(c.Out, " "))
	if len(c.Args) > 0 {
		s.WriteString(" ")
		s.WriteString(strings.Join(c.Args, " "))
	}
	return s.String()
}

// Problem is an ordered clause list with the statements the constructions
// assert and, once selected, a goal.
type Problem struct {
	Clauses []Clause
	Basis   []predicates.Statement
	Goal    predicates.Statement
}

// Text renders the canonical problem line: clauses joined by "; ", goal after
// "?".
func (p *Problem) Text() string {
	parts := make([]string, len(p.Clauses))
	for i, c := range p.Clauses {
		parts[i] = c.String()
	}
	text := strings.Join(parts, "; ")
	if p.Goal.Pred != "" {
		text += " ? " + p.Goal.Key()
	}
	return text
}

// construction describes how a named construction places points and which
// statements it asserts.
type construction struct {
	name      string
	argPoints int
	newPoints int
	place     func(rng *rand.Rand, args []geometry.Point) ([]geometry.Point, error)
	stmts     func(out, args []string) []predicates.Statement
}

func noStmts([]string, []string) []predicates.Statement { return nil }

var triangle = construction{
	name:      "triangle",
	newPoints: 3,
	place: func(rng *rand.Rand, _ []geometry.Point) ([]geometry.Point, error) {
		pts := make([]geometry.Point, 3)
		for i := range pts {
			pts[i] = geometry.Point{X: rng.Float64() * coordBound, Y: rng.Float64() * coordBound}
		}
		area := math.Abs(pts[1].Sub(pts[0]).Cross(pts[2].Sub(pts[0]))) / 2
		if area < minArea {
			return nil, fmt.Errorf("triangle too flat")
		}
		return pts, nil
	},
	stmts: noStmts,
}

// catalog lists the constructions the sampler draws from after the opening
// triangle clause.
var catalog = []construction{
	{
		name:      "midpoint",
		argPoints: 2,
		newPoints: 1,
		place: func(_ *rand.Rand, args []geometry.Point) ([]geometry.Point, error) {
			return []geometry.Point{geometry.Midpoint(args[0], args[1])}, nil
		},
		stmts: func(out, args []string) []predicates.Statement {
			return []predicates.Statement{
				predicates.MustNew(predicates.Midp, out[0], args[0], args[1]),
			}
		},
	},
	{
		name:      "foot",
		argPoints: 3,
		newPoints: 1,
		place: func(_ *rand.Rand, args []geometry.Point) ([]geometry.Point, error) {
			f, err := geometry.Foot(args[0], args[1], args[2])
			if err != nil {
				return nil, err
			}
			if geometry.CloseEnough(f.Distance(args[0]), 0) {
				return nil, fmt.Errorf("foot coincides with the dropped point")
			}
			return []geometry.Point{f}, nil
		},
		stmts: func(out, args []string) []predicates.Statement {
			return []predicates.Statement{
				predicates.MustNew(predicates.Coll, out[0], args[1], args[2]),
				predicates.MustNew(predicates.Perp, args[0], out[0], args[1], args[2]),
			}
		},
	},
	{
		name:      "circumcenter",
		argPoints: 3,
		newPoints: 1,
		place: func(_ *rand.Rand, args []geometry.Point) ([]geometry.Point, error) {
			o, err := geometry.Circumcenter(args[0], args[1], args[2])
			if err != nil {
				return nil, err
			}
			return []geometry.Point{o}, nil
		},
		stmts: func(out, args []string) []predicates.Statement {
			return []predicates.Statement{
				predicates.MustNew(predicates.Cong, out[0], args[0], out[0], args[1]),
				predicates.MustNew(predicates.Cong, out[0], args[0], out[0], args[2]),
			}
		},
	},
	{
		name:      "reflect",
		argPoints: 2,
		newPoints: 1,
		place: func(_ *rand.Rand, args []geometry.Point) ([]geometry.Point, error) {
			return []geometry.Point{geometry.Reflect(args[0], args[1])}, nil
		},
		stmts: func(out, args []string) []predicates.Statement {
			return []predicates.Statement{
				predicates.MustNew(predicates.Midp, args[1], args[0], out[0]),
			}
		},
	},
	{
		name:      "on_line",
		argPoints: 2,
		newPoints: 1,
		place: func(rng *rand.Rand, args []geometry.Point) ([]geometry.Point, error) {
			t := 0.2 + 1.6*rng.Float64()
			return []geometry.Point{geometry.OnSegment(args[0], args[1], t)}, nil
		},
		stmts: func(out, args []string) []predicates.Statement {
			return []predicates.Statement{
				predicates.MustNew(predicates.Coll, out[0], args[0], args[1]),
			}
		},
	},
	{
		name:      "eqdistance",
		argPoints: 3,
		newPoints: 1,
		place: func(rng *rand.Rand, args []geometry.Point) ([]geometry.Point, error) {
			r := args[1].Distance(args[2])
			if geometry.CloseEnough(r, 0) {
				return nil, fmt.Errorf("zero reference distance")
			}
			phi := 2 * math.Pi * rng.Float64()
			return []geometry.Point{args[0].Add(geometry.Point{X: r * math.Cos(phi), Y: r * math.Sin(phi)})}, nil
		},
		stmts: func(out, args []string) []predicates.Statement {
			return []predicates.Statement{
				predicates.MustNew(predicates.Cong, out[0], args[0], args[1], args[2]),
			}
		},
	},
	{
		name:      "on_pline",
		argPoints: 3,
		newPoints: 1,
		place: func(rng *rand.Rand, args []geometry.Point) ([]geometry.Point, error) {
			d := args[2].Sub(args[1])
			if geometry.CloseEnough(math.Hypot(d.X, d.Y), 0) {
				return nil, fmt.Errorf("zero direction")
			}
			t := 0.2 + 1.6*rng.Float64()
			return []geometry.Point{args[0].Add(d.Scale(t))}, nil
		},
		stmts: func(out, args []string) []predicates.Statement {
			return []predicates.Statement{
				predicates.MustNew(predicates.Para, out[0], args[0], args[1], args[2]),
			}
		},
	},
	{
		name:      "on_tline",
		argPoints: 3,
		newPoints: 1,
		place: func(rng *rand.Rand, args []geometry.Point) ([]geometry.Point, error) {
			d := args[2].Sub(args[1])
			if geometry.CloseEnough(math.Hypot(d.X, d.Y), 0) {
				return nil, fmt.Errorf("zero direction")
			}
			n := geometry.Point{X: -d.Y, Y: d.X}
			t := 0.2 + 1.6*rng.Float64()
			if rng.Intn(2) == 0 {
				t = -t
			}
			return []geometry.Point{args[0].Add(n.Scale(t))}, nil
		},
		stmts: func(out, args []string) []predicates.Statement {
			return []predicates.Statement{
				predicates.MustNew(predicates.Perp, out[0], args[0], args[1], args[2]),
			}
		},
	},
}
