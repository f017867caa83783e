// Package config resolves environment configuration. A .env file in the
// working directory is honored, the way the deployment scripts set
// GEOGEN_RULES_PATH before launching a run.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"geogen/deduce"
)

// RulesPathEnv points at an optional YAML rule-set file overriding the
// built-in deduction rules.
const RulesPathEnv = "GEOGEN_RULES_PATH"

// Load reads the optional .env file. Missing files are fine; only a present
// but unreadable file is an error.
func Load() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Rules returns the active rule set: the file named by GEOGEN_RULES_PATH if
// set, the built-ins otherwise.
func Rules() ([]deduce.Rule, error) {
	path := os.Getenv(RulesPathEnv)
	if path == "" {
		return deduce.BuiltinRules(), nil
	}
	rules, err := deduce.LoadRules(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RulesPathEnv, err)
	}
	return rules, nil
}
