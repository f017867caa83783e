package deduce

import (
	"fmt"
	"sort"
	"strings"

	"geogen/predicates"
)

// ProofFact is a labelled statement, printed as "cong a m b m [001]".
type ProofFact struct {
	Label string
	Stmt  string
}

// ProofStep derives a labelled statement from earlier labels.
type ProofStep struct {
	ProofFact
	Rule    string
	Parents []string
}

// Proof is the traceback from a goal: the problem facts it actually uses and
// the derivation steps in dependency order.
type Proof struct {
	Premises []ProofFact
	Steps    []ProofStep
	Goal     string // label of the goal fact
}

// Traceback extracts the sub-derivation reaching stmt. A statement that is
// not yet a recorded fact is first proved from the tables when possible; this
// covers ratio and angle equalities the harvest pass does not enumerate.
func (e *Engine) Traceback(stmt predicates.Statement) (*Proof, error) {
	goal, ok := e.facts[stmt.Key()]
	if !ok {
		if goal, ok = e.prove(stmt); !ok {
			return nil, fmt.Errorf("goal %q is not provable", stmt)
		}
	}

	needed := make(map[string]*Fact)
	work := NewQueue[*Fact]()
	work.Push(goal)
	for work.Size() > 0 {
		f := work.Pop()
		if _, seen := needed[f.Stmt.Key()]; seen {
			continue
		}
		needed[f.Stmt.Key()] = f
		for _, pk := range f.Premises {
			p, ok := e.facts[pk]
			if !ok {
				return nil, fmt.Errorf("dangling premise %q", pk)
			}
			work.Push(p)
		}
	}

	// Insertion order respects dependencies: a fact is always added after
	// its premises.
	ordered := make([]*Fact, 0, len(needed))
	for _, f := range needed {
		ordered = append(ordered, f)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })

	proof := new(Proof)
	labels := make(map[string]string, len(ordered))
	next := 1
	label := func(f *Fact) string {
		l := fmt.Sprintf("%03d", next)
		next++
		labels[f.Stmt.Key()] = l
		return l
	}
	for _, f := range ordered {
		if f.IsPremise() {
			proof.Premises = append(proof.Premises, ProofFact{Label: label(f), Stmt: f.Stmt.Key()})
		}
	}
	for _, f := range ordered {
		if f.IsPremise() {
			continue
		}
		step := ProofStep{
			ProofFact: ProofFact{Label: label(f), Stmt: f.Stmt.Key()},
			Rule:      f.Rule,
		}
		for _, pk := range f.Premises {
			step.Parents = append(step.Parents, labels[pk])
		}
		proof.Steps = append(proof.Steps, step)
	}
	proof.Goal = labels[goal.Stmt.Key()]
	return proof, nil
}

// String renders the tagged textual form stored in dataset rows:
//
//	<problem> cong a m b m [001]; coll a b m [002] </problem>
//	<proof> midp m a b [003] (midp_def) <= 001 002 </proof>
//	<goal> 003 </goal>
func (p *Proof) String() string {
	s := new(strings.Builder)
	s.WriteString("<problem> ")
	for i, f := range p.Premises {
		if i > 0 {
			s.WriteString("; ")
		}
		fmt.Fprintf(s, "%s [%s]", f.Stmt, f.Label)
	}
	s.WriteString(" </problem> <proof> ")
	for i, st := range p.Steps {
		if i > 0 {
			s.WriteString("; ")
		}
		fmt.Fprintf(s, "%s [%s] (%s) <= %s", st.Stmt, st.Label, st.Rule, strings.Join(st.Parents, " "))
	}
	fmt.Fprintf(s, " </proof> <goal> %s </goal>", p.Goal)
	return s.String()
}
