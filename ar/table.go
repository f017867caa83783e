// Package ar implements the algebraic reasoning tables: linear equation
// systems over log-lengths and over line directions. Ratio and angle
// statements reduce to linear equations; a statement holds when its equation
// is implied by the rows already in the table.
package ar

import (
	"math"
	"sort"
	"strings"
)

const eps = 1e-9

// Expr is a sparse linear combination of named variables plus a constant
// term. The zero value is the empty expression.
type Expr struct {
	Coeffs map[string]float64
	Const  float64
}

func NewExpr() Expr {
	return Expr{Coeffs: make(map[string]float64)}
}

func (e Expr) Add(v string, c float64) Expr {
	e.Coeffs[v] += c
	if math.Abs(e.Coeffs[v]) < eps {
		delete(e.Coeffs, v)
	}
	return e
}

func (e Expr) clone() Expr {
	out := Expr{Coeffs: make(map[string]float64, len(e.Coeffs)), Const: e.Const}
	for k, v := range e.Coeffs {
		out.Coeffs[k] = v
	}
	return out
}

// scale multiplies every coefficient and the constant by k in place.
func (e *Expr) scale(k float64) {
	for v := range e.Coeffs {
		e.Coeffs[v] *= k
	}
	e.Const *= k
}

// addScaled adds k times o into e in place.
func (e *Expr) addScaled(o Expr, k float64) {
	for v, c := range o.Coeffs {
		e.Coeffs[v] += k * c
		if math.Abs(e.Coeffs[v]) < eps {
			delete(e.Coeffs, v)
		}
	}
	e.Const += k * o.Const
}

// leading returns the lexicographically smallest variable, which is the pivot
// choice. Deterministic pivots keep Why() output stable.
func (e Expr) leading() (string, bool) {
	best := ""
	for v := range e.Coeffs {
		if best == "" || v < best {
			best = v
		}
	}
	return best, best != ""
}

func (e Expr) String() string {
	vars := make([]string, 0, len(e.Coeffs))
	for v := range e.Coeffs {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	s := new(strings.Builder)
	for _, v := range vars {
		s.WriteString(" + ")
		s.WriteString(v)
	}
	return s.String()
}

type row struct {
	expr Expr
	deps []int
}

// Table is an incrementally maintained reduced system. Modular tables treat
// the constant term modulo 1 (directions in units of pi), so perpendicularity
// offsets cancel over full turns.
type Table struct {
	rows    map[string]row // pivot variable -> reduced row
	modular bool
}

func NewTable(modular bool) *Table {
	return &Table{rows: make(map[string]row), modular: modular}
}

// reduce eliminates pivot variables from e, collecting the dep sets of the
// rows used. Each elimination only introduces variables greater than the
// pivot, so the loop terminates.
//
// In a modular table only integer row combinations are sound: scaling a
// mod-1 equation by a fraction does not preserve it. When the quotient is
// fractional and scaleOK, e itself is scaled to clear the denominator;
// otherwise the variable is left in place.
func (t *Table) reduce(e Expr, scaleOK bool) (Expr, []int) {
	r := e.clone()
	var used []int
	stuck := make(map[string]bool)
	for {
		var pivotVar string
		for v := range r.Coeffs {
			if stuck[v] {
				continue
			}
			if _, ok := t.rows[v]; ok && (pivotVar == "" || v < pivotVar) {
				pivotVar = v
			}
		}
		if pivotVar == "" {
			break
		}
		pivot := t.rows[pivotVar]
		pc := pivot.expr.Coeffs[pivotVar]
		qc := r.Coeffs[pivotVar]
		if t.modular && !isInt(qc/pc) {
			if !scaleOK {
				stuck[pivotVar] = true
				continue
			}
			g := float64(gcd(int64(math.Round(qc)), int64(math.Round(pc))))
			r.scale(pc / g)
			r.addScaled(pivot.expr, -qc/g)
		} else {
			r.addScaled(pivot.expr, -qc/pc)
		}
		used = append(used, pivot.deps...)
		delete(r.Coeffs, pivotVar) // guard against residual rounding
	}
	return r, used
}

func isInt(x float64) bool {
	return math.Abs(x-math.Round(x)) < eps
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (t *Table) constZero(c float64) bool {
	if t.modular {
		c = c - math.Round(c)
	}
	return math.Abs(c) < 1e-6
}

// AddEq inserts the equation e = 0 justified by statement index dep. Returns
// false when the equation was already implied.
func (t *Table) AddEq(e Expr, dep int) bool {
	r, used := t.reduce(e, true)
	v, ok := r.leading()
	if !ok {
		return false
	}
	deps := append([]int{dep}, used...)
	t.rows[v] = row{expr: r, deps: dedupInts(deps)}
	return true
}

// Implied reports whether e = 0 follows from the table, and from which
// statement indices.
func (t *Table) Implied(e Expr) (bool, []int) {
	r, used := t.reduce(e, false)
	if len(r.Coeffs) > 0 || !t.constZero(r.Const) {
		return false, nil
	}
	return true, dedupInts(used)
}

func dedupInts(in []int) []int {
	sort.Ints(in)
	out := in[:0]
	for i, v := range in {
		if i == 0 || v != in[i-1] {
			out = append(out, v)
		}
	}
	return out
}
