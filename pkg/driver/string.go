package driver

import "github.com/ratedesk/decisiontree/pkg/types"

// stringDriver is exact-equality matching on a literal value. The literal
// "*" is the structural wildcard: it never matches via equality and is
// only ever used as a tree slot (spec §3).
type stringDriver struct {
	value string
}

func (d *stringDriver) Value() string { return d.value }

func (d *stringDriver) Kind() types.Kind { return types.KindString }

func (d *stringDriver) Matches(input string) bool {
	if d.value == types.Wildcard {
		return false
	}
	return d.value == input
}

func (d *stringDriver) CanonicalText() string { return d.value }
