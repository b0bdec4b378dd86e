package persist

import (
	"fmt"
	"sync"

	"github.com/ratedesk/decisiontree/pkg/serialize"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// MemoryStore implements Store over in-memory maps, guarded by one
// RWMutex, mirroring pkg/store/memory.go's MemoryStore shape.
type MemoryStore struct {
	mu       sync.RWMutex
	rulesets map[string][]byte // canonical YAML blob, keyed by name
	changes  map[string][]*types.Change
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		rulesets: make(map[string][]byte),
		changes:  make(map[string][]*types.Change),
	}
}

func (m *MemoryStore) SaveRuleset(rs *types.Ruleset) error {
	data, err := serialize.Marshal(rs)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rulesets[rs.Name] = data
	return nil
}

func (m *MemoryStore) LoadRuleset(name string, cache types.DriverCache) (*types.Ruleset, error) {
	m.mu.RLock()
	data, ok := m.rulesets[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no ruleset named %q", types.ErrNotFound, name)
	}
	return serialize.Unmarshal(data, cache)
}

func (m *MemoryStore) RulesetExists(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rulesets[name]
	return ok, nil
}

func (m *MemoryStore) SaveChange(c *types.Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes[c.RulesetName] = append(m.changes[c.RulesetName], c)
	return nil
}

func (m *MemoryStore) ChangeHistory(rulesetName string) ([]*types.Change, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.Change, len(m.changes[rulesetName]))
	copy(out, m.changes[rulesetName])
	return out, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
