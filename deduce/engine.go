// Package deduce implements the forward-chaining closure over a problem's
// statements, with dependency tracking for proof extraction. Symbolic rules
// cover structural predicates; congruence, parallelism, perpendicularity and
// angle/ratio equalities are chased through linear algebraic tables.
package deduce

import (
	"context"
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	pq "gopkg.in/dnaeon/go-priorityqueue.v1"

	"geogen/ar"
	"geogen/geometry"
	"geogen/predicates"
)

// Fact is a statement together with its justification. Premises have an
// empty rule name and level zero.
type Fact struct {
	Stmt     predicates.Statement
	Rule     string
	Premises []string // keys of justifying facts
	Level    int
	index    int // insertion order, the dep id inside the ar tables
}

func (f *Fact) IsPremise() bool {
	return f.Rule == ""
}

type Engine struct {
	rules  []Rule
	model  predicates.Model
	facts  map[string]*Fact
	byPred map[string][]*Fact
	keys   mapset.Set[string]
	order  []*Fact
	rtable *ar.Table
	atable *ar.Table
}

func NewEngine(rules []Rule, model predicates.Model) *Engine {
	return &Engine{
		rules:  rules,
		model:  model,
		facts:  make(map[string]*Fact),
		byPred: make(map[string][]*Fact),
		keys:   mapset.NewThreadUnsafeSet[string](),
		rtable: ar.NewTable(false),
		atable: ar.NewTable(true),
	}
}

// AddPremise records a problem statement. Premises must hold numerically;
// the generator only builds problems from verified constructions.
func (e *Engine) AddPremise(s predicates.Statement) error {
	if !predicates.Check(s, e.model) {
		return fmt.Errorf("premise %q fails numerically", s)
	}
	e.add(&Fact{Stmt: s})
	return nil
}

func (e *Engine) add(f *Fact) bool {
	key := f.Stmt.Key()
	if !e.keys.Add(key) {
		return false
	}
	f.index = len(e.order)
	e.order = append(e.order, f)
	e.facts[key] = f
	e.byPred[f.Stmt.Pred] = append(e.byPred[f.Stmt.Pred], f)
	e.feedTables(f)
	return true
}

// feedTables inserts the fact's equational content into the ar tables.
func (e *Engine) feedTables(f *Fact) {
	a := f.Stmt.Args
	switch f.Stmt.Pred {
	case predicates.Cong:
		e.rtable.AddEq(ar.CongExpr(a[0], a[1], a[2], a[3]), f.index)
	case predicates.EqRatio:
		e.rtable.AddEq(ar.RatioExpr([8]string(a)), f.index)
	case predicates.Para, predicates.Coll:
		if f.Stmt.Pred == predicates.Coll {
			// Three collinear points give three parallel segments.
			e.atable.AddEq(ar.ParaExpr(a[0], a[1], a[0], a[2]), f.index)
			e.atable.AddEq(ar.ParaExpr(a[0], a[1], a[1], a[2]), f.index)
		} else {
			e.atable.AddEq(ar.ParaExpr(a[0], a[1], a[2], a[3]), f.index)
		}
	case predicates.Perp:
		e.atable.AddEq(ar.PerpExpr(a[0], a[1], a[2], a[3]), f.index)
	case predicates.EqAngle:
		e.atable.AddEq(ar.AngleExpr([8]string(a)), f.index)
	}
}

// Fact returns the recorded fact for a statement, if present.
func (e *Engine) Fact(s predicates.Statement) (*Fact, bool) {
	f, ok := e.facts[s.Key()]
	return f, ok
}

// Facts returns all facts in insertion order.
func (e *Engine) Facts() []*Fact {
	return e.order
}

// Derived returns non-premise facts in insertion order.
func (e *Engine) Derived() []*Fact {
	out := make([]*Fact, 0, len(e.order))
	for _, f := range e.order {
		if !f.IsPremise() {
			out = append(out, f)
		}
	}
	return out
}

// Run computes the closure: rule applications interleaved with harvesting of
// table-implied congruences, parallelisms and perpendicularities. Stops at a
// fixpoint or when ctx expires.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := e.ruleClosure(ctx); err != nil {
			return err
		}
		grew, err := e.harvest(ctx)
		if err != nil {
			return err
		}
		if !grew {
			return nil
		}
	}
}

// ruleClosure drains an agenda ordered by derivation level, so shallow proofs
// are preferred when several rule paths reach the same statement.
func (e *Engine) ruleClosure(ctx context.Context) error {
	agenda := pq.New[*Fact, float64](pq.MinHeap)
	for _, f := range e.order {
		agenda.Put(f, float64(f.Level))
	}
	for agenda.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := agenda.Get().Value
		for _, r := range e.rules {
			for _, derived := range e.apply(r, f) {
				if e.add(derived) {
					agenda.Put(derived, float64(derived.Level))
				}
			}
		}
	}
	return nil
}

// apply matches rule r with fact f bound to one premise slot and the
// remaining slots joined against the fact store.
func (e *Engine) apply(r Rule, f *Fact) []*Fact {
	var out []*Fact
	for slot := range r.Premises {
		if r.Premises[slot].Pred != f.Stmt.Pred {
			continue
		}
		bindings := make(map[string]string)
		if !bind(r.Premises[slot], f.Stmt, bindings) {
			continue
		}
		e.joinRest(r, slot, 0, bindings, []*Fact{f}, &out)
	}
	return out
}

// joinRest recursively binds the remaining premise slots.
func (e *Engine) joinRest(r Rule, fixed, slot int, bindings map[string]string, used []*Fact, out *[]*Fact) {
	if slot == len(r.Premises) {
		e.conclude(r, bindings, used, out)
		return
	}
	if slot == fixed {
		e.joinRest(r, fixed, slot+1, bindings, used, out)
		return
	}
	for _, cand := range e.byPred[r.Premises[slot].Pred] {
		local := make(map[string]string, len(bindings))
		for k, v := range bindings {
			local[k] = v
		}
		if !bind(r.Premises[slot], cand.Stmt, local) {
			continue
		}
		e.joinRest(r, fixed, slot+1, local, append(used, cand), out)
	}
}

func (e *Engine) conclude(r Rule, bindings map[string]string, used []*Fact, out *[]*Fact) {
	args := make([]string, len(r.Conclusion.Args))
	for i, v := range r.Conclusion.Args {
		args[i] = bindings[v]
	}
	stmt, err := predicates.New(r.Conclusion.Pred, args...)
	if err != nil {
		return
	}
	if e.keys.Contains(stmt.Key()) {
		return
	}
	// Derivations must stay numerically sound; a rule firing on a degenerate
	// configuration is discarded.
	if !predicates.Check(stmt, e.model) {
		return
	}
	level := 0
	premises := make([]string, len(used))
	for i, u := range used {
		premises[i] = u.Stmt.Key()
		if u.Level+1 > level {
			level = u.Level + 1
		}
	}
	*out = append(*out, &Fact{Stmt: stmt, Rule: r.Name, Premises: premises, Level: level})
}

// bind unifies a pattern with a statement positionally, extending bindings.
// Distinct variables must bind distinct points.
func bind(p Pattern, s predicates.Statement, bindings map[string]string) bool {
	if len(p.Args) != len(s.Args) {
		return false
	}
	taken := make(map[string]string, len(bindings))
	for v, pt := range bindings {
		taken[pt] = v
	}
	for i, v := range p.Args {
		pt := s.Args[i]
		if prev, ok := bindings[v]; ok {
			if prev != pt {
				return false
			}
			continue
		}
		if holder, ok := taken[pt]; ok && holder != v {
			return false
		}
		bindings[v] = pt
		taken[pt] = v
	}
	return true
}

// harvest asks the tables for implied congruences, parallelisms and
// perpendicularities among segments of the model, pre-filtered numerically.
func (e *Engine) harvest(ctx context.Context) (bool, error) {
	segs := e.segments()
	grew := false
	for i := range segs {
		if err := ctx.Err(); err != nil {
			return grew, err
		}
		for j := i + 1; j < len(segs); j++ {
			s1, s2 := segs[i], segs[j]
			grew = e.harvestPair(s1, s2) || grew
		}
	}
	return grew, nil
}

type segment struct {
	a, b   string
	length float64
	dir    float64
}

func (e *Engine) segments() []segment {
	pts := make([]string, 0, len(e.model))
	for name := range e.model {
		pts = append(pts, name)
	}
	// Map iteration is randomized; sort for reproducible harvest order.
	slices.Sort(pts)
	var segs []segment
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			a, b := e.model[pts[i]], e.model[pts[j]]
			if geometry.CloseEnough(a.Distance(b), 0) {
				continue
			}
			segs = append(segs, segment{
				a: pts[i], b: pts[j],
				length: a.Distance(b),
				dir:    geometry.Direction(a, b),
			})
		}
	}
	return segs
}

func (e *Engine) harvestPair(s1, s2 segment) bool {
	grew := false
	if geometry.CloseEnough(s1.length, s2.length) {
		grew = e.harvestStmt(predicates.MustNew(predicates.Cong, s1.a, s1.b, s2.a, s2.b),
			e.rtable, ar.CongExpr(s1.a, s1.b, s2.a, s2.b), RatioChase) || grew
	}
	delta := s1.dir - s2.dir
	if geometry.CloseEnough(minMod1(delta), 0) {
		grew = e.harvestStmt(predicates.MustNew(predicates.Para, s1.a, s1.b, s2.a, s2.b),
			e.atable, ar.ParaExpr(s1.a, s1.b, s2.a, s2.b), AngleChase) || grew
	}
	if geometry.CloseEnough(minMod1(delta-0.5), 0) {
		grew = e.harvestStmt(predicates.MustNew(predicates.Perp, s1.a, s1.b, s2.a, s2.b),
			e.atable, ar.PerpExpr(s1.a, s1.b, s2.a, s2.b), AngleChase) || grew
	}
	return grew
}

func (e *Engine) harvestStmt(stmt predicates.Statement, table *ar.Table, expr ar.Expr, rule string) bool {
	if e.keys.Contains(stmt.Key()) {
		return false
	}
	ok, deps := table.Implied(expr)
	if !ok {
		return false
	}
	level := 0
	premises := make([]string, 0, len(deps))
	for _, idx := range deps {
		u := e.order[idx]
		premises = append(premises, u.Stmt.Key())
		if u.Level+1 > level {
			level = u.Level + 1
		}
	}
	if len(premises) == 0 {
		// Tautology (a segment equal to itself); not a usable fact.
		return false
	}
	return e.add(&Fact{Stmt: stmt, Rule: rule, Premises: premises, Level: level})
}

// prove checks a candidate statement that is not yet a recorded fact,
// returning a justification from the tables when one exists.
func (e *Engine) prove(stmt predicates.Statement) (*Fact, bool) {
	if f, ok := e.facts[stmt.Key()]; ok {
		return f, true
	}
	if !predicates.Check(stmt, e.model) {
		return nil, false
	}
	a := stmt.Args
	var (
		table *ar.Table
		expr  ar.Expr
		rule  string
	)
	switch stmt.Pred {
	case predicates.Cong:
		table, expr, rule = e.rtable, ar.CongExpr(a[0], a[1], a[2], a[3]), RatioChase
	case predicates.EqRatio:
		table, expr, rule = e.rtable, ar.RatioExpr([8]string(a)), RatioChase
	case predicates.Para:
		table, expr, rule = e.atable, ar.ParaExpr(a[0], a[1], a[2], a[3]), AngleChase
	case predicates.Perp:
		table, expr, rule = e.atable, ar.PerpExpr(a[0], a[1], a[2], a[3]), AngleChase
	case predicates.EqAngle:
		table, expr, rule = e.atable, ar.AngleExpr([8]string(a)), AngleChase
	default:
		return nil, false
	}
	if !e.harvestStmt(stmt, table, expr, rule) {
		return nil, false
	}
	f := e.facts[stmt.Key()]
	return f, true
}

func minMod1(d float64) float64 {
	for d < 0 {
		d++
	}
	for d >= 1 {
		d--
	}
	if d > 0.5 {
		d = 1 - d
	}
	return d
}
