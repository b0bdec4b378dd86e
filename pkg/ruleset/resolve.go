package ruleset

import (
	"strings"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// ResolveGroups wires a set of value groups' raw textual values into
// actual driver handles in two passes (spec §4.1): first every group name
// gets a placeholder handle in the cache, so forward references (group A
// names group B which names A) resolve without recursing into an
// unbounded call stack; second, each group's values are converted to
// drivers and linked in via SetSubValues.
func ResolveGroups(cache types.DriverCache, groups map[string]*types.ValueGroup) error {
	// Pass 1: ensure every named group has a cache handle.
	for name := range groups {
		cache.GetOrCreateGroup(name)
	}

	// Pass 2: fill each group's sub-values now that every name resolves.
	for name, g := range groups {
		handle := cache.GetOrCreateGroup(name)
		drivers := make([]types.Driver, 0, len(g.Values))
		for _, v := range g.Values {
			if strings.HasPrefix(v, "VG:") {
				sub := strings.TrimPrefix(v, "VG:")
				drivers = append(drivers, cache.GetOrCreateGroup(sub))
				continue
			}
			d, err := cache.FromText(v)
			if err != nil {
				return err
			}
			drivers = append(drivers, d)
		}
		handle.SetSubValues(drivers)
	}
	return nil
}
