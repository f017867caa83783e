// Package dataset defines the generated row format and its JSONL and CSV
// sinks and readers.
package dataset

import (
	"fmt"
	"strings"
)

// Sample is one dataset row: a problem, its selected goal and the proof
// traceback, in the tagged textual form.
type Sample struct {
	ID         string `json:"id"`
	Problem    string `json:"problem"`
	Goal       string `json:"goal"`
	NumClauses int    `json:"n_clauses"`
	Proof      string `json:"proof"`
	ElapsedMS  int64  `json:"elapsed_ms"`
}

// csvHeader is the column layout of CSV datasets, shared by writer and
// reader.
var csvHeader = []string{"id", "problem", "goal", "n_clauses", "proof", "elapsed_ms"}

func (s *Sample) String() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "Sample %s\n", s.ID)
	fmt.Fprintf(b, "Problem: %s\n", s.Problem)
	fmt.Fprintf(b, "Goal: %s\n", s.Goal)
	fmt.Fprintf(b, "Clauses: %d, elapsed: %dms\n", s.NumClauses, s.ElapsedMS)
	return b.String()
}
