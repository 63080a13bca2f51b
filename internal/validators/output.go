package validators

import (
	"github.com/go-playground/validator/v10"
)

// Output kinds accepted by OutputValidatorFunc.
const (
	OutputStdout  = "stdout"
	OutputConsole = "console"
	OutputFile    = "file"
)

// OutputValidatorFunc validates that a string is one of supported output kinds.
func OutputValidatorFunc(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case OutputStdout, OutputConsole, OutputFile:
		return true
	}
	return false
}
