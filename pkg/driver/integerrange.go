package driver

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// integerRangeDriver parses the input as a signed integer and matches iff
// min <= n <= max. A missing bound denotes the platform signed 32-bit
// min/max (spec §3). Per the boundary test in spec §8, a missing *upper*
// bound is matched exclusively of the platform maximum itself (an
// intentionally preserved quirk of the source's range defaulting); a
// missing lower bound remains inclusive of the platform minimum.
type integerRangeDriver struct {
	minText, maxText   string
	min, max           int64
	maxIsDefaulted     bool
}

func newIntegerRangeDriver(minText, maxText string) (*integerRangeDriver, error) {
	min := int64(math.MinInt32)
	if strings.TrimSpace(minText) != "" {
		v, err := strconv.ParseInt(strings.TrimSpace(minText), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid integer bound %q: %v", types.ErrParse, minText, err)
		}
		min = v
	}
	max := int64(math.MaxInt32)
	maxIsDefaulted := strings.TrimSpace(maxText) == ""
	if !maxIsDefaulted {
		v, err := strconv.ParseInt(strings.TrimSpace(maxText), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid integer bound %q: %v", types.ErrParse, maxText, err)
		}
		max = v
	}
	return &integerRangeDriver{
		minText: minText, maxText: maxText,
		min: min, max: max, maxIsDefaulted: maxIsDefaulted,
	}, nil
}

func (d *integerRangeDriver) Value() string { return strconv.FormatInt(d.min, 10) }

func (d *integerRangeDriver) Kind() types.Kind { return types.KindIntegerRange }

func (d *integerRangeDriver) Matches(input string) bool {
	if types.IsWildcardValue(input) {
		return true
	}
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return false
	}
	if n < d.min {
		return false
	}
	if d.maxIsDefaulted {
		return n < d.max
	}
	return n <= d.max
}

func (d *integerRangeDriver) CanonicalText() string {
	return fmt.Sprintf("IR:%s|%s", d.minText, d.maxText)
}
