package driver

import (
	"sync"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// groupDriver is a named set of string literals plus a set of non-string
// sub-drivers (regex, nested groups). It matches iff any contained literal
// equals the input or any contained driver matches it (spec §3).
//
// Groups are created as placeholders in the cache before their contents
// are known, then finalized via SetSubValues once the owning ruleset has
// resolved all forward references (spec §4.1's two-pass recursion).
type groupDriver struct {
	mu       sync.RWMutex
	name     string
	literals map[string]struct{}
	subs     []types.Driver // regex drivers and nested group drivers
}

func newGroupDriver(name string) *groupDriver {
	return &groupDriver{name: name, literals: make(map[string]struct{})}
}

func (g *groupDriver) Value() string { return g.name }

func (g *groupDriver) Kind() types.Kind { return types.KindValueGroup }

func (g *groupDriver) CanonicalText() string { return "VG:" + g.name }

func (g *groupDriver) Matches(input string) bool {
	return g.matches(input, map[string]bool{g.name: true})
}

// matches walks literals and sub-drivers, tracking visited group names so a
// cycle (group A naming group B naming A) terminates instead of recursing
// forever on an input outside the transitive literal closure (spec §4.1,
// §8's "group of groups" boundary test) — mirrors the visited-set walk in
// SubDrivers(recursive).
func (g *groupDriver) matches(input string, visited map[string]bool) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.literals[input]; ok {
		return true
	}
	for _, d := range g.subs {
		if nested, ok := d.(*groupDriver); ok {
			if visited[nested.name] {
				continue
			}
			visited[nested.name] = true
			if nested.matches(input, visited) {
				return true
			}
			continue
		}
		if d.Matches(input) {
			return true
		}
	}
	return false
}

// SetSubValues finalizes the group's contents: plain strings become
// literals, everything else (regex, nested groups) is kept as a
// sub-driver for recursive matching.
func (g *groupDriver) SetSubValues(drivers []types.Driver) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.literals = make(map[string]struct{})
	g.subs = g.subs[:0]
	for _, d := range drivers {
		if d.Kind() == types.KindString {
			g.literals[d.Value()] = struct{}{}
			continue
		}
		g.subs = append(g.subs, d)
	}
}

// SubDrivers returns the group's immediate drivers when recursive is
// false. When recursive is true, it returns the full transitive closure
// of literal/regex drivers reachable through nested groups, tolerating
// cycles (group A naming group B naming A) by tracking visited group
// names (spec §4.1, §8's "group of groups" boundary test).
func (g *groupDriver) SubDrivers(recursive bool) []types.Driver {
	g.mu.RLock()
	defer g.mu.RUnlock()

	immediate := make([]types.Driver, 0, len(g.literals)+len(g.subs))
	for lit := range g.literals {
		immediate = append(immediate, &stringDriver{value: lit})
	}
	immediate = append(immediate, g.subs...)

	if !recursive {
		return immediate
	}

	visited := map[string]bool{g.name: true}
	var out []types.Driver
	var walk func(drivers []types.Driver)
	walk = func(drivers []types.Driver) {
		for _, d := range drivers {
			if nested, ok := d.(*groupDriver); ok {
				if visited[nested.name] {
					continue
				}
				visited[nested.name] = true
				nested.mu.RLock()
				nestedDrivers := make([]types.Driver, 0, len(nested.literals)+len(nested.subs))
				for lit := range nested.literals {
					nestedDrivers = append(nestedDrivers, &stringDriver{value: lit})
				}
				nestedDrivers = append(nestedDrivers, nested.subs...)
				nested.mu.RUnlock()
				walk(nestedDrivers)
				continue
			}
			out = append(out, d)
		}
	}
	walk(immediate)
	return out
}
