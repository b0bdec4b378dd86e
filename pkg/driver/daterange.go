package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// dateLayouts are tried in order when parsing an ISO instant; both a bare
// date and a full RFC3339 timestamp are accepted since rule authors
// commonly write plain dates for validity bounds.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

func parseInstant(text string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid instant %q: %v", types.ErrParse, text, lastErr)
}

// dateRangeDriver parses the input as an ISO instant and matches iff it
// lies within [start, end] inclusive. The literal wildcard input "*"
// always matches (spec §9.2: treated symmetrically with IntegerRange here).
type dateRangeDriver struct {
	startText, endText string
	start, end         time.Time
}

func newDateRangeDriver(startText, endText string) (*dateRangeDriver, error) {
	start := types.Epoch
	if strings.TrimSpace(startText) != "" {
		t, err := parseInstant(startText)
		if err != nil {
			return nil, err
		}
		start = t
	}
	end := types.FarFuture
	if strings.TrimSpace(endText) != "" {
		t, err := parseInstant(endText)
		if err != nil {
			return nil, err
		}
		end = t
	}
	return &dateRangeDriver{startText: startText, endText: endText, start: start, end: end}, nil
}

func (d *dateRangeDriver) Value() string { return d.start.Format(time.RFC3339) }

func (d *dateRangeDriver) Kind() types.Kind { return types.KindDateRange }

func (d *dateRangeDriver) Matches(input string) bool {
	if types.IsWildcardValue(input) {
		return true
	}
	t, err := parseInstant(input)
	if err != nil {
		return false
	}
	return !t.Before(d.start) && !t.After(d.end)
}

func (d *dateRangeDriver) CanonicalText() string {
	return fmt.Sprintf("DR:%s|%s", d.startText, d.endText)
}

// Span exposes the driver's bounds as a types.DateSpan, used by the DATED
// tree flavor to widen overlapping nodes (spec §4.3).
func (d *dateRangeDriver) Span() types.DateSpan {
	return types.DateSpan{Start: d.start, End: d.end}
}
