// Package driver implements the five driver kinds described in spec §3/§4.1
// (string, regex, date-range, integer-range, value-group) and the shared
// driver cache that interns them by canonical text.
package driver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// regexHintSubstrings are the "historical shortcut" markers spec §6
// describes: a driver string containing either, with no explicit prefix,
// is treated as regex.
var regexHintSubstrings = []string{".?", ".*"}

// Cache is the two-level value -> kind -> driver registry (spec §4.1). Two
// calls to GetOrCreate* for the same canonical text return the same
// *Driver object; group drivers may be updated in place via SetSubValues.
type Cache struct {
	mu    sync.RWMutex
	byKey map[string]map[types.Kind]types.Driver
}

// NewCache creates an empty driver cache.
func NewCache() *Cache {
	return &Cache{
		byKey: make(map[string]map[types.Kind]types.Driver),
	}
}

func (c *Cache) lookup(key string, kind types.Kind) (types.Driver, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byKind, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	d, ok := byKind[kind]
	return d, ok
}

func (c *Cache) store(key string, kind types.Kind, d types.Driver) types.Driver {
	c.mu.Lock()
	defer c.mu.Unlock()
	byKind, ok := c.byKey[key]
	if !ok {
		byKind = make(map[types.Kind]types.Driver)
		c.byKey[key] = byKind
	}
	if existing, ok := byKind[kind]; ok {
		return existing
	}
	byKind[kind] = d
	return d
}

// GetOrCreateString returns the shared String driver for value, including
// the wildcard literal.
func (c *Cache) GetOrCreateString(value string) types.Driver {
	if d, ok := c.lookup(value, types.KindString); ok {
		return d
	}
	return c.store(value, types.KindString, &stringDriver{value: value})
}

// GetOrCreateRegex returns the shared Regex driver for pattern, compiling
// it once.
func (c *Cache) GetOrCreateRegex(pattern string) (types.Driver, error) {
	key := canonicalRegexText(pattern)
	if d, ok := c.lookup(key, types.KindRegex); ok {
		return d, nil
	}
	d, err := newRegexDriver(pattern)
	if err != nil {
		return nil, err
	}
	return c.store(key, types.KindRegex, d), nil
}

// GetOrCreateDateRange returns the shared DateRange driver for the given
// ISO bounds (either may be blank, meaning epoch/far-future).
func (c *Cache) GetOrCreateDateRange(startText, endText string) (types.Driver, error) {
	key := fmt.Sprintf("DR:%s|%s", startText, endText)
	if d, ok := c.lookup(key, types.KindDateRange); ok {
		return d, nil
	}
	d, err := newDateRangeDriver(startText, endText)
	if err != nil {
		return nil, err
	}
	return c.store(key, types.KindDateRange, d), nil
}

// GetOrCreateIntegerRange returns the shared IntegerRange driver for the
// given bounds (either may be blank, meaning platform int32 min/max).
func (c *Cache) GetOrCreateIntegerRange(minText, maxText string) (types.Driver, error) {
	key := fmt.Sprintf("IR:%s|%s", minText, maxText)
	if d, ok := c.lookup(key, types.KindIntegerRange); ok {
		return d, nil
	}
	d, err := newIntegerRangeDriver(minText, maxText)
	if err != nil {
		return nil, err
	}
	return c.store(key, types.KindIntegerRange, d), nil
}

// GetOrCreateGroup returns the (possibly placeholder) group driver for
// name, creating an empty placeholder if absent. Placeholders support
// forward-reference recursion (spec §4.1): callers create the handle
// first, link sub-values in a second pass via SetSubValues.
func (c *Cache) GetOrCreateGroup(name string) types.GroupDriver {
	key := "VG:" + name
	if d, ok := c.lookup(key, types.KindValueGroup); ok {
		return d.(types.GroupDriver)
	}
	g := newGroupDriver(name)
	stored := c.store(key, types.KindValueGroup, g)
	return stored.(types.GroupDriver)
}

// ByKind returns every cached driver of the given kind, in no particular
// order.
func (c *Cache) ByKind(kind types.Kind) []types.Driver {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []types.Driver
	for _, byKind := range c.byKey {
		if d, ok := byKind[kind]; ok {
			out = append(out, d)
		}
	}
	return out
}

// FromText dispatches a raw driver string to the right GetOrCreate* call
// following the textual encoding rules in spec §6: VG:/RE:/DR:/IR: prefixes
// are explicit; a string containing ".?" or ".*" with no prefix is
// auto-detected as regex; anything else (including the bare wildcard "*")
// is a String driver.
func (c *Cache) FromText(text string) (types.Driver, error) {
	switch {
	case strings.HasPrefix(text, "VG:"):
		return c.GetOrCreateGroup(strings.TrimPrefix(text, "VG:")), nil
	case strings.HasPrefix(text, "RE:"):
		return c.GetOrCreateRegex(strings.TrimPrefix(text, "RE:"))
	case strings.HasPrefix(text, "DR:"):
		return c.fromDateRangeText(text)
	case strings.HasPrefix(text, "IR:"):
		return c.fromIntegerRangeText(text)
	case looksLikeRegex(text):
		return c.GetOrCreateRegex(text)
	default:
		return c.GetOrCreateString(text), nil
	}
}

func (c *Cache) fromDateRangeText(text string) (types.Driver, error) {
	body := strings.TrimPrefix(text, "DR:")
	parts := strings.SplitN(body, "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: malformed DateRange text %q, expected DR:<start>|<end>", types.ErrParse, text)
	}
	return c.GetOrCreateDateRange(parts[0], parts[1])
}

func (c *Cache) fromIntegerRangeText(text string) (types.Driver, error) {
	body := strings.TrimPrefix(text, "IR:")
	parts := strings.SplitN(body, "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: malformed IntegerRange text %q, expected IR:<min>|<max>", types.ErrParse, text)
	}
	return c.GetOrCreateIntegerRange(parts[0], parts[1])
}

func looksLikeRegex(text string) bool {
	for _, hint := range regexHintSubstrings {
		if strings.Contains(text, hint) {
			return true
		}
	}
	return false
}
