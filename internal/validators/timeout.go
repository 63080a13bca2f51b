package validators

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const maxTimeout = time.Hour

// TimeoutValidatorFunc validates that a string is a Go duration between zero (exclusive) and one hour.
// Empty string is accepted, defaults are applied later.
func TimeoutValidatorFunc(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return false
	}

	return d > 0 && d <= maxTimeout
}
