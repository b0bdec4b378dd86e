// Package serialize implements the canonical YAML ruleset text form
// described in spec §4.7: round-trip codec for types.Ruleset, grounded on
// the teacher's pkg/rule/yaml.go intermediate-struct pattern (decode into
// tagged structs, then convert to domain types, rather than unmarshalling
// straight into the domain type).
package serialize

// groupDoc is one entry of the YAML document's "groups" list (spec §4.7).
type groupDoc struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
	Start  *int64   `yaml:"start,omitempty"`
	End    *int64   `yaml:"end,omitempty"`
}

// ruleDoc is one entry of the YAML document's "rules" list (spec §4.7).
type ruleDoc struct {
	UUID  string   `yaml:"uuid"`
	Code  *string  `yaml:"code,omitempty"`
	In    []string `yaml:"in"`
	Eval  []string `yaml:"eval,omitempty"`
	Out   []string `yaml:"out,omitempty"` // "k:v" pairs
	Start *int64   `yaml:"start,omitempty"`
	End   *int64   `yaml:"end,omitempty"`
}

// document is the top-level canonical YAML shape (spec §4.7): name,
// drivers, optional evaluations, groups, rules.
type document struct {
	Name        string     `yaml:"name"`
	Drivers     []string   `yaml:"drivers"`
	Evaluations []string   `yaml:"evaluations,omitempty"`
	Groups      []groupDoc `yaml:"groups,omitempty"`
	Rules       []ruleDoc  `yaml:"rules"`
}
