package gen

import (
	"fmt"
	"math"
	"math/rand"

	"geogen/geometry"
	"geogen/predicates"
)

const placementRetries = 8

// Sampler draws random problems: an opening triangle followed by up to
// maxClauses-1 constructions over the existing points. Placements that turn
// out degenerate are rejected and redrawn.
type Sampler struct {
	rng        *rand.Rand
	maxClauses int
}

func NewSampler(rng *rand.Rand, maxClauses int) (*Sampler, error) {
	if maxClauses < 2 {
		return nil, fmt.Errorf("max clauses must be at least 2, got %d", maxClauses)
	}
	return &Sampler{rng: rng, maxClauses: maxClauses}, nil
}

func pointName(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return fmt.Sprintf("p%d", i-25)
}

// Sample produces one problem and its coordinate model, or an error when the
// random draw could not be completed without degeneracy.
func (s *Sampler) Sample() (*Problem, predicates.Model, error) {
	model := make(predicates.Model)
	prob := new(Problem)
	var names []string

	if err := s.addClause(prob, model, &names, triangle); err != nil {
		return nil, nil, err
	}

	nclauses := 2 + s.rng.Intn(s.maxClauses-1) // triangle plus at least one construction
	for len(prob.Clauses) < nclauses {
		spec := catalog[s.rng.Intn(len(catalog))]
		if err := s.addClause(prob, model, &names, spec); err != nil {
			return nil, nil, fmt.Errorf("sampling clause %d: %w", len(prob.Clauses), err)
		}
	}
	return prob, model, nil
}

func (s *Sampler) addClause(prob *Problem, model predicates.Model, names *[]string, spec construction) error {
	for retry := 0; retry < placementRetries; retry++ {
		args := s.pickArgs(*names, spec.argPoints)
		if args == nil {
			return fmt.Errorf("construction %q needs %d points, have %d", spec.name, spec.argPoints, len(*names))
		}
		argPts := make([]geometry.Point, len(args))
		for i, n := range args {
			argPts[i] = model[n]
		}
		placed, err := spec.place(s.rng, argPts)
		if err != nil {
			continue
		}
		if !s.admissible(placed, model) {
			continue
		}

		out := make([]string, spec.newPoints)
		for i := range out {
			out[i] = pointName(len(*names) + i)
		}
		clause := Clause{Construction: spec.name, Out: out, Args: args}

		for i, n := range out {
			model[n] = placed[i]
		}
		stmts := spec.stmts(out, args)
		if err := predicates.CheckAll(stmts, model); err != nil {
			// Construction statements hold by placement; a failure here means
			// the configuration is numerically marginal. Redraw.
			for _, n := range out {
				delete(model, n)
			}
			continue
		}
		*names = append(*names, out...)
		prob.Clauses = append(prob.Clauses, clause)
		prob.Basis = append(prob.Basis, stmts...)
		return nil
	}
	return fmt.Errorf("construction %q: no admissible placement", spec.name)
}

// pickArgs draws k distinct existing points.
func (s *Sampler) pickArgs(names []string, k int) []string {
	if k > len(names) {
		return nil
	}
	perm := s.rng.Perm(len(names))
	args := make([]string, k)
	for i := 0; i < k; i++ {
		args[i] = names[perm[i]]
	}
	return args
}

// admissible rejects placements outside the coordinate box or too close to
// existing points, which keeps the numeric checks well conditioned.
func (s *Sampler) admissible(placed []geometry.Point, model predicates.Model) bool {
	for i, p := range placed {
		if math.Abs(p.X) > 2*coordBound || math.Abs(p.Y) > 2*coordBound {
			return false
		}
		for _, q := range model {
			if p.Distance(q) < minSeparation {
				return false
			}
		}
		for j := 0; j < i; j++ {
			if p.Distance(placed[j]) < minSeparation {
				return false
			}
		}
	}
	return true
}
