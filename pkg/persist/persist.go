// Package persist implements the engine's two external collaborators
// (spec §6): a Loader that yields a Ruleset, and a Persister that accepts
// one. No core package imports this package; callers pick a concrete
// implementation, swappable exactly the way titus's pkg/store.Store is
// swappable behind MemoryStore/SQLiteStore.
package persist

import (
	"github.com/ratedesk/decisiontree/pkg/types"
)

// Loader yields a ruleset, or an error the caller's retry predicate can
// inspect (spec §6: "the engine invokes the loader once, or until the
// retry predicate returns false").
type Loader func() (*types.Ruleset, error)

// RetryPredicate reports whether a failed Loader call should be retried.
// Returning false stops retrying, even on error.
type RetryPredicate func(err error) bool

// Persister accepts a ruleset; it is opaque to the engine (spec §6).
type Persister func(rs *types.Ruleset) error

// LoadWithRetry calls load repeatedly until it succeeds or should retry
// returns false, mirroring spec §6's loader contract in code a caller can
// use directly instead of hand-rolling the retry loop.
func LoadWithRetry(load Loader, shouldRetry RetryPredicate) (*types.Ruleset, error) {
	for {
		rs, err := load()
		if err == nil {
			return rs, nil
		}
		if shouldRetry == nil || !shouldRetry(err) {
			return nil, err
		}
	}
}
