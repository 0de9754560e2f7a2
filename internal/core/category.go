package core

import "strings"

// Expense categories offered by input forms. Stored data may carry other
// values; the enumeration constrains new input, not read paths.
const (
	CategoryFood           = "food"
	CategoryTransportation = "transportation"
	CategoryEntertainment  = "entertainment"
	CategoryUtilities      = "utilities"
	CategoryShopping       = "shopping"
	CategoryHealth         = "health"
	CategoryEducation      = "education"
	CategoryHousing        = "housing"
	CategoryOther          = "other"
)

// Categories lists the fixed input-form enumeration in display order.
func Categories() []string {
	return []string{
		CategoryFood,
		CategoryTransportation,
		CategoryEntertainment,
		CategoryUtilities,
		CategoryShopping,
		CategoryHealth,
		CategoryEducation,
		CategoryHousing,
		CategoryOther,
	}
}

// NormalizeCategory substitutes "other" for a missing or blank category.
// This runs once at the write boundary so every consumer downstream can
// assume the field is populated.
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return CategoryOther
	}
	return c
}

// KnownCategory reports whether c belongs to the input-form enumeration.
func KnownCategory(c string) bool {
	switch c {
	case CategoryFood, CategoryTransportation, CategoryEntertainment,
		CategoryUtilities, CategoryShopping, CategoryHealth,
		CategoryEducation, CategoryHousing, CategoryOther:
		return true
	}
	return false
}
