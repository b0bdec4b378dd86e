package tree

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// sliceCacheSize matches spec §4.3/§4.5/§9's explicit "LRU of size 20".
const sliceCacheSize = 20

// sliceCache is the SLICED flavor's lazily-populated sub-tree cache,
// keyed by slice range text. It wraps hashicorp/golang-lru/v2 in a mutex
// per spec §5/§9 ("synchronized map... concurrent access through a
// mutex") and makes Put idempotent (first writer wins per range).
type sliceCache struct {
	mu sync.Mutex
	c  *lru.Cache[string, *Node]
}

func newSliceCache() *sliceCache {
	c, err := lru.New[string, *Node](sliceCacheSize)
	if err != nil {
		// Only size<=0 causes an error, and sliceCacheSize is a positive
		// constant, so this is unreachable.
		panic(err)
	}
	return &sliceCache{c: c}
}

// Get returns the cached root for key, if present.
func (s *sliceCache) Get(key string) (*Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Get(key)
}

// PutIfAbsent stores root under key unless another writer already did,
// returning whichever value is now authoritative for key.
func (s *sliceCache) PutIfAbsent(key string, root *Node) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.c.Get(key); ok {
		return existing
	}
	s.c.Add(key, root)
	return root
}

// Keys snapshots the current key set so callers can iterate without
// racing concurrent insertion (spec §5: "iteration must not throw under
// concurrent insertion").
func (s *sliceCache) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Keys()
}
