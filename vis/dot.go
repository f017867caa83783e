// Package vis renders the proof DAG of a dataset row as Graphviz DOT. Fact
// nodes are boxes labelled "001: cong a d b d"; rule applications are ellipse
// nodes between their premises and conclusion.
package vis

import (
	"fmt"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"geogen/deduce"
)

var (
	problemRe = regexp.MustCompile(`<problem>(.*?)</problem>`)
	proofRe   = regexp.MustCompile(`<proof>(.*?)</proof>`)
	goalRe    = regexp.MustCompile(`<goal>\s*(\d{3})\s*</goal>`)
	factRe    = regexp.MustCompile(`^(.*?)\s*\[(\d{3})\]$`)
	stepRe    = regexp.MustCompile(`^(.*?)\s*\[(\d{3})\]\s*\(([^)]+)\)\s*<=\s*(.*)$`)
)

// ParseProof reads the tagged textual form back into a structured proof.
func ParseProof(text string) (*deduce.Proof, error) {
	pm := problemRe.FindStringSubmatch(text)
	if pm == nil {
		return nil, fmt.Errorf("no <problem> section")
	}
	gm := goalRe.FindStringSubmatch(text)
	if gm == nil {
		return nil, fmt.Errorf("no <goal> section")
	}

	proof := &deduce.Proof{Goal: gm[1]}
	for _, seg := range splitFacts(pm[1]) {
		m := factRe.FindStringSubmatch(seg)
		if m == nil {
			return nil, fmt.Errorf("malformed premise %q", seg)
		}
		proof.Premises = append(proof.Premises, deduce.ProofFact{
			Stmt:  strings.TrimSpace(m[1]),
			Label: m[2],
		})
	}

	sm := proofRe.FindStringSubmatch(text)
	if sm != nil {
		for _, seg := range splitFacts(sm[1]) {
			m := stepRe.FindStringSubmatch(seg)
			if m == nil {
				return nil, fmt.Errorf("malformed step %q", seg)
			}
			proof.Steps = append(proof.Steps, deduce.ProofStep{
				ProofFact: deduce.ProofFact{Stmt: strings.TrimSpace(m[1]), Label: m[2]},
				Rule:      m[3],
				Parents:   strings.Fields(m[4]),
			})
		}
	}
	return proof, nil
}

func splitFacts(section string) []string {
	var out []string
	for _, seg := range strings.Split(section, ";") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

type node struct {
	id    int64
	dotID string
	attrs []encoding.Attribute
}

func (n node) ID() int64                        { return n.id }
func (n node) DOTID() string                    { return n.dotID }
func (n node) Attributes() []encoding.Attribute { return n.attrs }

func attr(k, v string) encoding.Attribute {
	return encoding.Attribute{Key: k, Value: v}
}

// DOT builds the proof DAG and marshals it.
func DOT(p *deduce.Proof) ([]byte, error) {
	g := simple.NewDirectedGraph()
	next := int64(0)
	factNodes := make(map[string]node)

	addFact := func(f deduce.ProofFact, goal bool) node {
		n := node{
			id:    next,
			dotID: "f" + f.Label,
			attrs: []encoding.Attribute{
				attr("label", fmt.Sprintf("%s: %s", f.Label, f.Stmt)),
				attr("shape", "box"),
			},
		}
		if goal {
			n.attrs = append(n.attrs, attr("style", "bold"))
		}
		next++
		g.AddNode(n)
		factNodes[f.Label] = n
		return n
	}

	for _, f := range p.Premises {
		addFact(f, f.Label == p.Goal)
	}
	for _, st := range p.Steps {
		addFact(st.ProofFact, st.Label == p.Goal)
	}

	for _, st := range p.Steps {
		rule := node{
			id:    next,
			dotID: fmt.Sprintf("r%s_%s", st.Label, st.Rule),
			attrs: []encoding.Attribute{
				attr("label", st.Rule),
				attr("shape", "ellipse"),
			},
		}
		next++
		g.AddNode(rule)

		to, ok := factNodes[st.Label]
		if !ok {
			return nil, fmt.Errorf("step %s has no fact node", st.Label)
		}
		g.SetEdge(g.NewEdge(rule, to))
		for _, parent := range st.Parents {
			from, ok := factNodes[parent]
			if !ok {
				return nil, fmt.Errorf("step %s references unknown label %s", st.Label, parent)
			}
			g.SetEdge(g.NewEdge(from, rule))
		}
	}

	out, err := dot.Marshal(g, "proof", "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling dot: %w", err)
	}
	return out, nil
}

// Render parses a dataset row's proof text and returns its DOT form.
func Render(proofText string) ([]byte, error) {
	p, err := ParseProof(proofText)
	if err != nil {
		return nil, err
	}
	return DOT(p)
}
