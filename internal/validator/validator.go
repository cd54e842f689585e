package validator

import (
	"github.com/go-playground/validator/v10"
)

// Categories is the catalog of topic categories the editor offers.
var Categories = []string{
	"hot-issue",
	"tech",
	"culture",
	"daily",
}

// IsCategory validates that a field holds a known topic category.
// Empty values are allowed; required-ness is a separate tag.
func IsCategory(fl validator.FieldLevel) bool {
	category := fl.Field().String()
	if category == "" {
		return true
	}
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
