package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ratedesk/decisiontree/pkg/driver"
	"github.com/ratedesk/decisiontree/pkg/serialize"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// writeSampleRulesetFile builds a small two-rule ruleset (one specific,
// one wildcard fallback) and writes its canonical YAML form to a temp
// file, returning the path.
func writeSampleRulesetFile(t *testing.T) string {
	t.Helper()
	cache := driver.NewCache()
	rs := types.NewRuleset("sample", []string{"method", "destination"}, nil, cache)

	specificID := uuid.New()
	specific := types.NewRule(specificID, uuid.New(),
		[]types.Driver{cache.GetOrCreateString("VOICE"), cache.GetOrCreateString("US")},
		map[string]string{"rate": "1.4"})
	rs.Rules[specificID] = specific

	wildcardID := uuid.New()
	wildcard := types.NewRule(wildcardID, uuid.New(),
		[]types.Driver{cache.GetOrCreateString(types.Wildcard), cache.GetOrCreateString(types.Wildcard)},
		map[string]string{"rate": "2.0"})
	rs.Rules[wildcardID] = wildcard

	data, err := serialize.Marshal(rs)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ruleset.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
