package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ratedesk/decisiontree/pkg/types"
)

func epochOr(ms *int64) time.Time {
	if ms == nil {
		return types.Epoch
	}
	return time.UnixMilli(*ms).UTC()
}

func farFutureOr(ms *int64) time.Time {
	if ms == nil {
		return types.FarFuture
	}
	return time.UnixMilli(*ms).UTC()
}

// ruleChangeDoc and groupChangeDoc mirror pkg/serialize's ruleDoc/groupDoc
// shape, extended with a change "type" tag, for the small bespoke format a
// `merge` change file uses (spec.md's Non-goals exclude file-loader
// plumbing from the core, so this format lives in the CLI, not pkg/serialize).
type ruleChangeDoc struct {
	Type  string   `yaml:"type"`
	UUID  string   `yaml:"uuid"`
	Code  string   `yaml:"code,omitempty"`
	In    []string `yaml:"in"`
	Eval  []string `yaml:"eval,omitempty"`
	Out   []string `yaml:"out,omitempty"`
	Start *int64   `yaml:"start,omitempty"`
	End   *int64   `yaml:"end,omitempty"`
}

type groupChangeDoc struct {
	Type       string   `yaml:"type"`
	ID         string   `yaml:"id,omitempty"`
	Name       string   `yaml:"name"`
	Values     []string `yaml:"values"`
	RuleCodes  []string `yaml:"rule_codes,omitempty"`
	DriverName string   `yaml:"driver_name,omitempty"`
}

type changeDoc struct {
	ID           string           `yaml:"id"`
	RulesetName  string           `yaml:"ruleset"`
	CreatedBy    string           `yaml:"created_by"`
	RuleChanges  []ruleChangeDoc  `yaml:"rule_changes,omitempty"`
	GroupChanges []groupChangeDoc `yaml:"group_changes,omitempty"`
}

func parseChangeType(s string) (types.ChangeType, error) {
	switch strings.ToUpper(s) {
	case "NONE":
		return types.ChangeNone, nil
	case "NEW":
		return types.ChangeNew, nil
	case "AMEND":
		return types.ChangeAmend, nil
	case "ORIGINAL":
		return types.ChangeOriginal, nil
	default:
		return 0, fmt.Errorf("unknown change type %q", s)
	}
}

// parseChangeFile decodes a change file into a *types.Change, binding its
// rule/group drivers to cache (the same cache the target ruleset's Store
// uses, so canonical driver identity lines up with existing rules).
func parseChangeFile(data []byte, cache types.DriverCache) (*types.Change, error) {
	var doc changeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParse, err)
	}

	c := types.Change{ID: doc.ID, RulesetName: doc.RulesetName}
	c.Audit.CreatedBy = doc.CreatedBy

	for _, rc := range doc.RuleChanges {
		typ, err := parseChangeType(rc.Type)
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(rc.UUID)
		if err != nil {
			return nil, fmt.Errorf("%w: rule change has malformed uuid %q: %v", types.ErrParse, rc.UUID, err)
		}
		code := id
		if rc.Code != "" {
			code, err = uuid.Parse(rc.Code)
			if err != nil {
				return nil, fmt.Errorf("%w: rule change %s has malformed code %q: %v", types.ErrParse, id, rc.Code, err)
			}
		}
		drivers := make([]types.Driver, len(rc.In))
		for i, v := range rc.In {
			d, err := cache.FromText(v)
			if err != nil {
				return nil, err
			}
			drivers[i] = d
		}
		outputs := make(map[string]string, len(rc.Out))
		for _, p := range rc.Out {
			idx := strings.IndexByte(p, ':')
			if idx < 0 {
				return nil, fmt.Errorf("%w: malformed output %q, expected \"k:v\"", types.ErrParse, p)
			}
			outputs[p[:idx]] = p[idx+1:]
		}
		r := types.NewRule(id, code, drivers, outputs)
		r.Start = epochOr(rc.Start)
		r.End = farFutureOr(rc.End)
		c.RuleChanges = append(c.RuleChanges, types.RuleChange{Type: typ, Rule: r})
	}

	for _, gc := range doc.GroupChanges {
		typ, err := parseChangeType(gc.Type)
		if err != nil {
			return nil, err
		}
		id := uuid.New()
		if gc.ID != "" {
			id, err = uuid.Parse(gc.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: group change %q has malformed id %q: %v", types.ErrParse, gc.Name, gc.ID, err)
			}
		}
		group := &types.ValueGroup{
			ID: id, Name: gc.Name, Values: gc.Values,
			Start: types.Epoch, End: types.FarFuture,
		}
		c.GroupChanges = append(c.GroupChanges, types.ValueGroupChange{
			Type: typ, Group: group, RuleCodes: gc.RuleCodes, DriverName: gc.DriverName,
		})
	}

	return &c, nil
}
