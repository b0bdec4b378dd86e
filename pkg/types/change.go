package types

import "time"

// ChangeType classifies one entry within a Change (spec §4.6).
type ChangeType int

const (
	ChangeNone ChangeType = iota
	ChangeNew
	ChangeAmend
	ChangeOriginal
)

func (t ChangeType) String() string {
	switch t {
	case ChangeNone:
		return "NONE"
	case ChangeNew:
		return "NEW"
	case ChangeAmend:
		return "AMEND"
	case ChangeOriginal:
		return "ORIGINAL"
	default:
		return "UNKNOWN"
	}
}

// ChangeState is the audit lifecycle of a Change (spec §4.6):
// Drafting -> Built -> Applied. Only Built changes may be applied.
type ChangeState int

const (
	ChangeDrafting ChangeState = iota
	ChangeBuilt
	ChangeApplied
)

func (s ChangeState) String() string {
	switch s {
	case ChangeDrafting:
		return "DRAFTING"
	case ChangeBuilt:
		return "BUILT"
	case ChangeApplied:
		return "APPLIED"
	default:
		return "UNKNOWN"
	}
}

// RuleChange pairs a change type with the rule snapshot it carries.
// ORIGINAL restores Rule as a prior snapshot; NEW/AMEND insert/replace it.
type RuleChange struct {
	Type ChangeType
	Rule *Rule
}

// ValueGroupChange pairs a change type with the group it carries. When
// RuleCodes and DriverName are both non-empty, applying the change also
// binds the group into those rules at the named driver position (spec
// §4.6 step 3).
type ValueGroupChange struct {
	Type       ChangeType
	Group      *ValueGroup
	RuleCodes  []string
	DriverName string
}

// Audit records who authorised and approved a change and when.
type Audit struct {
	CreatedBy    string
	CreatedAt    time.Time
	ApprovedBy   string
	ApprovedAt   time.Time
	AppliedAt    time.Time
}

// Change is an atomic set of rule and value-group mutations to apply to a
// named ruleset (spec §4.6).
type Change struct {
	ID              string
	RulesetName     string
	ActivationTime  *time.Time
	ChangeRangeFrom time.Time
	ChangeRangeTo   time.Time
	Audit           Audit
	State           ChangeState
	RuleChanges     []RuleChange
	GroupChanges    []ValueGroupChange
}
