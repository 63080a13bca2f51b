package validators

import (
	"github.com/cherts/rtlog/dispatch"
	"github.com/go-playground/validator/v10"
)

// SeverityValidatorFunc validates that a string is a known severity name, see dispatch.ParseSeverity.
func SeverityValidatorFunc(fl validator.FieldLevel) bool {
	_, err := dispatch.ParseSeverity(fl.Field().String())
	return err == nil
}
