package domain

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("multiword", isMultiWord)
	_ = v.RegisterValidation("mmyy", isExpiryMMYY)
	return v
}

// isMultiWord is a crude first/last name check: the value must contain a space.
func isMultiWord(fl validator.FieldLevel) bool {
	return strings.Contains(fl.Field().String(), " ")
}

// isExpiryMMYY accepts "MM/YY" with a month in 1-12. The year is not range checked.
func isExpiryMMYY(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if len(v) != 5 || v[2] != '/' {
		return false
	}
	for _, c := range v[:2] {
		if c < '0' || c > '9' {
			return false
		}
	}
	month, err := strconv.Atoi(v[:2])
	if err != nil {
		return false
	}
	return month >= 1 && month <= 12
}
