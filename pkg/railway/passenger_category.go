package railway

import "strings"

type PassengerCategory string

const (
	PassengerCategoryRegular  PassengerCategory = "regular"
	PassengerCategoryChild    PassengerCategory = "child"
	PassengerCategoryElderly  PassengerCategory = "elderly"
	PassengerCategoryDisabled PassengerCategory = "disabled"
)

var PassengerCategories = []PassengerCategory{
	PassengerCategoryRegular,
	PassengerCategoryChild,
	PassengerCategoryElderly,
	PassengerCategoryDisabled,
}

func (c PassengerCategory) Known() bool {
	switch c {
	case PassengerCategoryRegular, PassengerCategoryChild, PassengerCategoryElderly, PassengerCategoryDisabled:
		return true
	}

	return false
}

// ParsePassengerCategory never fails, anything unrecognised is a regular passenger
func ParsePassengerCategory(value string) PassengerCategory {
	category := PassengerCategory(strings.ToLower(strings.TrimSpace(value)))
	if !category.Known() {
		return PassengerCategoryRegular
	}

	return category
}
