package types

// Kind identifies a driver's matching strategy.
type Kind int

const (
	KindString Kind = iota
	KindRegex
	KindDateRange
	KindIntegerRange
	KindValueGroup
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindRegex:
		return "regex"
	case KindDateRange:
		return "date_range"
	case KindIntegerRange:
		return "integer_range"
	case KindValueGroup:
		return "value_group"
	default:
		return "unknown"
	}
}

// Wildcard is the literal that never matches via equality and instead acts
// as a structural slot in the compiled tree (see Tree Compiler, spec §4.3).
const Wildcard = "*"

// Driver is an atomic matcher over a single input string.
type Driver interface {
	// Value is the raw textual value the driver was built from.
	Value() string

	// Kind reports which variant this driver is.
	Kind() Kind

	// Matches reports whether input satisfies this driver.
	Matches(input string) bool

	// CanonicalText is both the driver cache key and the external
	// encoding used by the serialization contract (spec §4.7).
	CanonicalText() string
}

// GroupDriver is the subset of Driver behavior specific to value groups:
// recursive sub-driver access and late-bound resolution of recursive
// references (spec §4.1's "tolerate forward references" requirement).
type GroupDriver interface {
	Driver

	// SubDrivers returns the group's immediate drivers, or the full
	// transitive closure of non-group drivers when recursive is true.
	SubDrivers(recursive bool) []Driver

	// SetSubValues finalizes the group's contents once recursive
	// references have been resolved.
	SetSubValues(drivers []Driver)
}

// IsWildcardValue reports whether a literal input text is the structural
// wildcard slot, independent of driver kind.
func IsWildcardValue(v string) bool {
	return v == Wildcard
}

// DriverCache is the shared interning registry described in spec §4.1: two
// calls to create-or-get for the same canonical text return the same
// driver object. Defined here (rather than in pkg/driver) so that
// Ruleset can hold a reference without an import cycle; pkg/driver
// provides the concrete implementation.
type DriverCache interface {
	GetOrCreateString(value string) Driver
	GetOrCreateRegex(pattern string) (Driver, error)
	GetOrCreateDateRange(startText, endText string) (Driver, error)
	GetOrCreateIntegerRange(minText, maxText string) (Driver, error)

	// GetOrCreateGroup returns the (possibly placeholder) group driver
	// for name, creating it if absent. Placeholders support the forward-
	// reference recursion described in spec §4.1.
	GetOrCreateGroup(name string) GroupDriver

	// ByKind returns every cached driver of the given kind.
	ByKind(kind Kind) []Driver

	// FromText dispatches a raw driver string per the textual encoding
	// rules in spec §6 (VG:/RE:/DR:/IR: prefixes, regex auto-detection,
	// plain string fallback).
	FromText(text string) (Driver, error)
}
