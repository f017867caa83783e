package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesDefault(t *testing.T) {
	t.Setenv(RulesPathEnv, "")

	rules, err := Rules()
	require.NoError(t, err)
	assert.NotEmpty(t, rules)
}

func TestRulesFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `rules:
  - name: midp_coll
    premises:
      - pred: midp
        args: [m, a, b]
    conclusion:
      pred: coll
      args: [a, b, m]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv(RulesPathEnv, path)

	rules, err := Rules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "midp_coll", rules[0].Name)
}

func TestRulesBadPath(t *testing.T) {
	t.Setenv(RulesPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Rules()
	assert.Error(t, err)
}
