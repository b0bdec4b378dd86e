package main

import (
	"os"

	"github.com/ratedesk/decisiontree/pkg/driver"
	"github.com/ratedesk/decisiontree/pkg/serialize"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// loadRuleset reads and parses the canonical YAML ruleset at path, binding
// its drivers to a fresh cache.
func loadRuleset(path string) (*types.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cache := driver.NewCache()
	return serialize.Unmarshal(data, cache)
}

// writeRuleset marshals rs to its canonical YAML form and writes it to path.
func writeRuleset(path string, rs *types.Ruleset) error {
	data, err := serialize.Marshal(rs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
