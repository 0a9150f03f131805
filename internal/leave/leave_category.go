package leave

import "strings"

// Category is a leave type used for quota accounting.
type Category string

const (
	CategorySick               Category = "Sick"
	CategoryVacation           Category = "Vacation"
	CategoryMaternity          Category = "Maternity"
	CategoryPaternity          Category = "Paternity"
	CategoryMaternityPaternity Category = "Maternity/Paternity"
	CategoryLeaveWithoutPay    Category = "Leave Without Pay"
)

// SummaryCategories are the categories shown on an employee's balance cards.
var SummaryCategories = []Category{
	CategorySick,
	CategoryVacation,
	CategoryMaternityPaternity,
	CategoryLeaveWithoutPay,
}

var categoryAliases = map[string]Category{
	"sick":                CategorySick,
	"vacation":            CategoryVacation,
	"maternity":           CategoryMaternity,
	"paternity":           CategoryPaternity,
	"maternity/paternity": CategoryMaternityPaternity,
	"maternity-paternity": CategoryMaternityPaternity,
	"parental":            CategoryMaternityPaternity,
	"leave without pay":   CategoryLeaveWithoutPay,
	"leave-without-pay":   CategoryLeaveWithoutPay,
	"lwop":                CategoryLeaveWithoutPay,
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(v string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(v))]
	return c, ok
}

// Matches reports whether a free-text leave type belongs to the category.
// The combined parental view matches any type mentioning maternity or
// paternity ("Paternity Leave"); every other category needs an exact,
// case-insensitive match.
func (c Category) Matches(leaveType string) bool {
	lt := strings.ToLower(strings.TrimSpace(leaveType))
	if lt == "" {
		return false
	}
	if c == CategoryMaternityPaternity {
		return strings.Contains(lt, "maternity") || strings.Contains(lt, "paternity")
	}
	return lt == strings.ToLower(string(c))
}

func (c Category) IsParental() bool {
	return c == CategoryMaternity || c == CategoryPaternity || c == CategoryMaternityPaternity
}

// CategoryOf returns the accounting category a free-text leave type falls in,
// folding maternity and paternity into the combined view.
func CategoryOf(leaveType string) (Category, bool) {
	for _, c := range SummaryCategories {
		if c.Matches(leaveType) {
			return c, true
		}
	}
	return "", false
}
