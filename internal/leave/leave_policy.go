package leave

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Annual credits applied when no policy file overrides them.
const (
	DefaultStandardCredit = 12
	DefaultParentalCredit = 105
)

// InvalidRangeMode decides what happens to an accepted record whose dates
// cannot produce a positive day count.
type InvalidRangeMode string

const (
	// InvalidRangeFallback counts the record as a single day.
	InvalidRangeFallback InvalidRangeMode = "fallback"
	// InvalidRangeReject leaves the record out of the total and reports it
	// in Usage.Skipped.
	InvalidRangeReject InvalidRangeMode = "reject"
)

type Policy struct {
	Credits      map[Category]int
	InvalidRange InvalidRangeMode
}

func DefaultPolicy() Policy {
	return Policy{
		Credits: map[Category]int{
			CategorySick:               DefaultStandardCredit,
			CategoryVacation:           DefaultStandardCredit,
			CategoryLeaveWithoutPay:    DefaultStandardCredit,
			CategoryMaternity:          DefaultParentalCredit,
			CategoryPaternity:          DefaultParentalCredit,
			CategoryMaternityPaternity: DefaultParentalCredit,
		},
		InvalidRange: InvalidRangeFallback,
	}
}

// Credit returns the annual credit for c, falling back to the built-in
// constant when the policy does not name the category.
func (p Policy) Credit(c Category) int {
	if v, ok := p.Credits[c]; ok {
		return v
	}
	if c.IsParental() {
		return DefaultParentalCredit
	}
	return DefaultStandardCredit
}

type policyFile struct {
	Credits      map[string]int `yaml:"credits"`
	InvalidRange string         `yaml:"invalid_range"`
}

// ParsePolicy reads a YAML policy document on top of DefaultPolicy:
//
//	credits:
//	  sick: 15
//	  maternity/paternity: 120
//	invalid_range: reject
func ParsePolicy(data []byte) (Policy, error) {
	var f policyFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return Policy{}, fmt.Errorf("parse leave policy: %w", err)
	}

	p := DefaultPolicy()
	for name, credit := range f.Credits {
		c, ok := ParseCategory(name)
		if !ok {
			return Policy{}, fmt.Errorf("parse leave policy: unknown category %q", name)
		}
		if credit < 0 {
			return Policy{}, fmt.Errorf("parse leave policy: negative credit for %q", name)
		}
		p.Credits[c] = credit
	}

	switch InvalidRangeMode(f.InvalidRange) {
	case "":
	case InvalidRangeFallback, InvalidRangeReject:
		p.InvalidRange = InvalidRangeMode(f.InvalidRange)
	default:
		return Policy{}, fmt.Errorf("parse leave policy: unknown invalid_range %q", f.InvalidRange)
	}

	return p, nil
}

// LoadPolicyFile reads the policy from path. An empty path means the
// built-in defaults.
func LoadPolicyFile(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read leave policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}
