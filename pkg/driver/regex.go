package driver

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// regexDriver matches when the host regex engine (regexp2, for the richer
// feature set beyond stdlib's RE2 dialect — see SPEC_FULL.md §4) accepts
// the input.
type regexDriver struct {
	pattern string
	re      *regexp2.Regexp
}

func newRegexDriver(pattern string) (*regexDriver, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid regex pattern %q: %v", types.ErrParse, pattern, err)
	}
	return &regexDriver{pattern: pattern, re: re}, nil
}

func canonicalRegexText(pattern string) string {
	return "RE:" + pattern
}

func (d *regexDriver) Value() string { return d.pattern }

func (d *regexDriver) Kind() types.Kind { return types.KindRegex }

func (d *regexDriver) Matches(input string) bool {
	ok, err := d.re.MatchString(input)
	return err == nil && ok
}

func (d *regexDriver) CanonicalText() string { return canonicalRegexText(d.pattern) }
