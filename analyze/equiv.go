// Package analyze groups dataset rows into equivalence classes: two problems
// are equivalent when they coincide after renaming points by order of first
// appearance. This is the post-processing step run over a generated CSV.
package analyze

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"

	"geogen/dataset"
	"geogen/predicates"
)

// Signature returns the canonical form of a problem line
// ("a b c = triangle a b c; d = midpoint d a b ? cong a d b d"): points are
// renamed by first appearance and the goal is re-canonicalized under the
// renaming.
func Signature(problem string) (string, error) {
	clausePart, goalPart, hasGoal := strings.Cut(problem, "?")

	rename := make(map[string]string)
	next := 0
	sub := func(p string) string {
		if r, ok := rename[p]; ok {
			return r
		}
		r := canonicalName(next)
		next++
		rename[p] = r
		return r
	}

	var outClauses []string
	for _, clause := range strings.Split(clausePart, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		lhs, rhs, ok := strings.Cut(clause, "=")
		if !ok {
			return "", fmt.Errorf("clause %q has no construction", clause)
		}
		outTokens := strings.Fields(lhs)
		rhsTokens := strings.Fields(rhs)
		if len(rhsTokens) < 1 {
			return "", fmt.Errorf("clause %q has an empty right side", clause)
		}
		parts := make([]string, 0, len(outTokens)+len(rhsTokens)+1)
		for _, p := range outTokens {
			parts = append(parts, sub(p))
		}
		parts = append(parts, "=", rhsTokens[0])
		for _, p := range rhsTokens[1:] {
			parts = append(parts, sub(p))
		}
		outClauses = append(outClauses, strings.Join(parts, " "))
	}
	if len(outClauses) == 0 {
		return "", fmt.Errorf("problem %q has no clauses", problem)
	}

	sig := strings.Join(outClauses, "; ")
	if hasGoal {
		fields := strings.Fields(goalPart)
		if len(fields) < 2 {
			return "", fmt.Errorf("problem %q has an empty goal", problem)
		}
		args := make([]string, len(fields)-1)
		for i, p := range fields[1:] {
			r, ok := rename[p]
			if !ok {
				return "", fmt.Errorf("goal references unknown point %q", p)
			}
			args[i] = r
		}
		goal, err := predicates.New(fields[0], args...)
		if err != nil {
			return "", fmt.Errorf("goal of %q: %w", problem, err)
		}
		sig += " ? " + goal.Key()
	}
	return sig, nil
}

func canonicalName(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return fmt.Sprintf("p%d", i-25)
}

// Class is one equivalence class with the ids of its members.
type Class struct {
	Signature string
	IDs       []string
}

// Summary aggregates a grouping run.
type Summary struct {
	Rows         int
	Skipped      int
	Classes      int
	LargestClass int
	MeanClauses  float64
	StdClauses   float64
}

func (s Summary) String() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "rows: %d (skipped %d)\n", s.Rows, s.Skipped)
	fmt.Fprintf(b, "classes: %d, largest: %d\n", s.Classes, s.LargestClass)
	fmt.Fprintf(b, "clauses per problem: %.2f +/- %.2f\n", s.MeanClauses, s.StdClauses)
	return b.String()
}

// Group partitions samples by signature. Rows whose problem cannot be
// canonicalized are counted as skipped.
func Group(samples []dataset.Sample) ([]Class, Summary) {
	bySig := make(map[string]*Class)
	var order []string
	var clauseCounts []int
	skipped := 0

	for _, s := range samples {
		sig, err := Signature(s.Problem)
		if err != nil {
			skipped++
			continue
		}
		c, ok := bySig[sig]
		if !ok {
			c = &Class{Signature: sig}
			bySig[sig] = c
			order = append(order, sig)
		}
		c.IDs = append(c.IDs, s.ID)
		clauseCounts = append(clauseCounts, s.NumClauses)
	}

	classes := make([]Class, 0, len(order))
	largest := 0
	for _, sig := range order {
		c := bySig[sig]
		classes = append(classes, *c)
		if len(c.IDs) > largest {
			largest = len(c.IDs)
		}
	}
	// Largest classes first; ties keep first-seen order.
	sort.SliceStable(classes, func(i, j int) bool { return len(classes[i].IDs) > len(classes[j].IDs) })

	counts := toFloats(clauseCounts)
	sum := Summary{
		Rows:         len(samples),
		Skipped:      skipped,
		Classes:      len(classes),
		LargestClass: largest,
	}
	if len(counts) > 0 {
		sum.MeanClauses = stat.Mean(counts, nil)
		if len(counts) > 1 {
			sum.StdClauses = stat.StdDev(counts, nil)
		}
	}
	return classes, sum
}

func toFloats[T constraints.Integer](xs []T) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// WriteClasses emits the per-row class assignment CSV consumed by downstream
// filtering: id, class index, class size, signature.
func WriteClasses(classes []Class, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating class file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "class", "class_size", "signature"}); err != nil {
		return fmt.Errorf("writing class header: %w", err)
	}
	for i, c := range classes {
		for _, id := range c.IDs {
			rec := []string{id, strconv.Itoa(i), strconv.Itoa(len(c.IDs)), c.Signature}
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("writing class row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing class file: %w", err)
	}
	return nil
}

// Run is the full analysis step: read a dataset, group it, write the
// assignments, return the summary.
func Run(input, outputPath string) (Summary, error) {
	samples, skipped, err := dataset.Read(input)
	if err != nil {
		return Summary{}, err
	}
	classes, sum := Group(samples)
	sum.Skipped += skipped
	if err := WriteClasses(classes, outputPath); err != nil {
		return Summary{}, err
	}
	return sum, nil
}
