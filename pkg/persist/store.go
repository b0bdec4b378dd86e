package persist

import (
	"fmt"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// Store is a concrete Loader+Persister pair plus change audit history,
// abstracting the backing storage (memory, SQLite, ...). It mirrors
// titus's pkg/store.Store interface: one seam, multiple backends,
// picked by Config at construction time rather than a build tag, since
// neither backend here needs cgo.
type Store interface {
	// SaveRuleset persists rs's canonical YAML form, keyed by rs.Name.
	SaveRuleset(rs *types.Ruleset) error

	// LoadRuleset reads the ruleset named name back, binding its drivers
	// to cache.
	LoadRuleset(name string, cache types.DriverCache) (*types.Ruleset, error)

	// RulesetExists reports whether a ruleset with this name has been saved.
	RulesetExists(name string) (bool, error)

	// SaveChange records c in the audit history for its ruleset.
	SaveChange(c *types.Change) error

	// ChangeHistory returns every change recorded against rulesetName, in
	// the order they were saved.
	ChangeHistory(rulesetName string) ([]*types.Change, error)

	// Close releases any backing resources (file handles, connections).
	Close() error
}

// Config selects and configures a Store backend.
type Config struct {
	// Path is the backing file path. Use ":memory:" for the in-memory
	// backend (tests, short-lived processes).
	Path string
}

// New constructs a Store per cfg, mirroring pkg/store.New's dispatch.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}
