package serialize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ratedesk/decisiontree/pkg/ruleset"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// Marshal renders rs into the canonical YAML ruleset text form (spec
// §4.7). Group and rule order is sorted (by name / rule id) so repeated
// marshals of an unchanged ruleset produce byte-identical output.
func Marshal(rs *types.Ruleset) ([]byte, error) {
	doc := document{
		Name:        rs.Name,
		Drivers:     append([]string(nil), rs.DriverNames...),
		Evaluations: append([]string(nil), rs.EvaluationNames...),
	}

	for _, name := range sortedGroupNames(rs.ValueGroups) {
		g := rs.ValueGroups[name]
		start, end := g.Start.UnixMilli(), g.End.UnixMilli()
		doc.Groups = append(doc.Groups, groupDoc{
			ID: g.ID.String(), Name: g.Name,
			Values: append([]string(nil), g.Values...),
			Start:  &start, End: &end,
		})
	}

	for _, id := range sortedRuleIDs(rs.Rules) {
		r := rs.Rules[id]
		in := make([]string, len(r.Drivers))
		for i, d := range r.Drivers {
			in[i] = driverText(d)
		}
		var evalTexts []string
		for _, d := range r.Evaluations {
			evalTexts = append(evalTexts, driverText(d))
		}
		code := r.RuleCode.String()
		start, end := r.Start.UnixMilli(), r.End.UnixMilli()
		doc.Rules = append(doc.Rules, ruleDoc{
			UUID: r.RuleID.String(), Code: &code,
			In: in, Eval: evalTexts, Out: outputPairs(r.Outputs),
			Start: &start, End: &end,
		})
	}

	return yaml.Marshal(&doc)
}

// Unmarshal parses the canonical YAML text form into a Ruleset bound to
// cache. Unknown fields are tolerated (yaml.v3 ignores them by default);
// missing start/end default to epoch/far-future; a missing rule code
// defaults to the rule's own uuid (spec §4.7).
func Unmarshal(data []byte, cache types.DriverCache) (*types.Ruleset, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParse, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: ruleset name is required", types.ErrValidation)
	}

	rs := types.NewRuleset(doc.Name, doc.Drivers, doc.Evaluations, cache)

	idToName := make(map[string]string, len(doc.Groups))
	for _, g := range doc.Groups {
		idToName[g.ID] = g.Name
	}

	for _, g := range doc.Groups {
		id, err := uuid.Parse(g.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: group %q has malformed id %q: %v", types.ErrParse, g.Name, g.ID, err)
		}
		values := make([]string, len(g.Values))
		for i, v := range g.Values {
			values[i] = resolveGroupRef(v, idToName)
		}
		rs.ValueGroups[g.Name] = &types.ValueGroup{
			ID: id, Name: g.Name, Values: values,
			Start: epochOr(g.Start), End: farFutureOr(g.End),
		}
	}
	if err := ruleset.ResolveGroups(cache, rs.ValueGroups); err != nil {
		return nil, err
	}

	for _, rd := range doc.Rules {
		id, err := uuid.Parse(rd.UUID)
		if err != nil {
			return nil, fmt.Errorf("%w: rule has malformed uuid %q: %v", types.ErrParse, rd.UUID, err)
		}
		code := id
		if rd.Code != nil && *rd.Code != "" {
			code, err = uuid.Parse(*rd.Code)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %s has malformed code %q: %v", types.ErrParse, id, *rd.Code, err)
			}
		}

		drivers := make([]types.Driver, len(rd.In))
		for i, v := range rd.In {
			d, err := cache.FromText(resolveGroupRef(v, idToName))
			if err != nil {
				return nil, err
			}
			drivers[i] = d
		}
		var evalDrivers []types.Driver
		for _, v := range rd.Eval {
			d, err := cache.FromText(resolveGroupRef(v, idToName))
			if err != nil {
				return nil, err
			}
			evalDrivers = append(evalDrivers, d)
		}
		outputs, err := parseOutputs(rd.Out)
		if err != nil {
			return nil, err
		}

		r := types.NewRule(id, code, drivers, outputs)
		r.Evaluations = evalDrivers
		r.Start = epochOr(rd.Start)
		r.End = farFutureOr(rd.End)
		rs.Rules[id] = r
	}

	return rs, nil
}

func driverText(d types.Driver) string {
	if d == nil {
		return types.Wildcard
	}
	return d.CanonicalText()
}

func outputPairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + ":" + m[k]
	}
	return out
}

func parseOutputs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		idx := strings.IndexByte(p, ':')
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed output %q, expected \"k:v\"", types.ErrParse, p)
		}
		out[p[:idx]] = p[idx+1:]
	}
	return out, nil
}

// resolveGroupRef rewrites a "VG:<uuid>" reference to "VG:<name>" using
// the groups table, per spec §4.7; a "VG:<name>" reference (or any
// non-group value) passes through unchanged.
func resolveGroupRef(text string, idToName map[string]string) string {
	ref := strings.TrimPrefix(text, "VG:")
	if ref == text {
		return text
	}
	if name, ok := idToName[ref]; ok {
		return "VG:" + name
	}
	return text
}

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

func sortedGroupNames(groups map[string]*types.ValueGroup) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedRuleIDs(rules map[uuid.UUID]*types.Rule) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
