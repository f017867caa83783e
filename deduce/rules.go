package deduce

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"geogen/predicates"
)

// Pattern is a predicate applied to rule variables.
type Pattern struct {
	Pred string   `yaml:"pred"`
	Args []string `yaml:"args"`
}

// Rule rewrites matched premises into a conclusion. Premises are matched
// positionally against canonical statement forms; transitive reasoning over
// congruence, parallelism and angle/ratio equalities is left to the algebraic
// tables instead of explicit rules.
type Rule struct {
	Name       string    `yaml:"name"`
	Premises   []Pattern `yaml:"premises"`
	Conclusion Pattern   `yaml:"conclusion"`
}

// Names given to algebraic table derivations, mirroring the symbolic rules.
const (
	RatioChase = "ratio_chase"
	AngleChase = "angle_chase"
)

// BuiltinRules is the default rule set. Structural predicates only: the
// equational closure lives in the ar tables.
func BuiltinRules() []Rule {
	return []Rule{
		{
			Name:       "midp_cong",
			Premises:   []Pattern{{Pred: predicates.Midp, Args: []string{"m", "a", "b"}}},
			Conclusion: Pattern{Pred: predicates.Cong, Args: []string{"a", "m", "b", "m"}},
		},
		{
			Name:       "midp_coll",
			Premises:   []Pattern{{Pred: predicates.Midp, Args: []string{"m", "a", "b"}}},
			Conclusion: Pattern{Pred: predicates.Coll, Args: []string{"a", "b", "m"}},
		},
		{
			Name: "midp_ratio",
			Premises: []Pattern{
				{Pred: predicates.Midp, Args: []string{"m", "a", "b"}},
				{Pred: predicates.Midp, Args: []string{"n", "a", "c"}},
			},
			Conclusion: Pattern{Pred: predicates.EqRatio, Args: []string{"a", "m", "a", "b", "a", "n", "a", "c"}},
		},
	}
}

func (r Rule) validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule without a name")
	}
	if len(r.Premises) == 0 {
		return fmt.Errorf("rule %q has no premises", r.Name)
	}
	pats := append([]Pattern{r.Conclusion}, r.Premises...)
	bound := make(map[string]bool)
	for _, p := range r.Premises {
		for _, v := range p.Args {
			bound[v] = true
		}
	}
	// New canonicalizes a throwaway copy; only the name/arity check matters.
	for _, p := range pats {
		if _, err := predicates.New(p.Pred, p.Args...); err != nil {
			return fmt.Errorf("rule %q: %w", r.Name, err)
		}
	}
	for _, v := range r.Conclusion.Args {
		if !bound[v] {
			return fmt.Errorf("rule %q: conclusion variable %q unbound", r.Name, v)
		}
	}
	return nil
}

// LoadRules reads a YAML rule file, the GEOGEN_RULES_PATH override format.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("rule file %s defines no rules", path)
	}
	for _, r := range doc.Rules {
		if err := r.validate(); err != nil {
			return nil, err
		}
	}
	return doc.Rules, nil
}
