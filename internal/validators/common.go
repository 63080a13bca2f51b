// Package validators provides custom validation functions for use with the go-playground/validator package.
// It includes validators for values used in rtlog configuration, such as:
//
// - Severity names
// - Output kinds
// - Log file paths
// - Timeouts
//
// These validators are designed to be registered with validator.v10 and used in struct field tags
// to enforce specific format requirements and constraints.
package validators

import "github.com/go-playground/validator/v10"

const (
	// SeverityValidator is the tag name used for severity name validation
	SeverityValidator = "severity"
	// OutputValidator is the tag name used for output kind validation
	OutputValidator = "output"
	// FilePathValidator is the tag name used for log file path validation
	FilePathValidator = "file_path"
	// TimeoutValidator is the tag name used for timeout duration validation
	TimeoutValidator = "timeout"
)

// Register registers all custom validators in v.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation(SeverityValidator, SeverityValidatorFunc)
	_ = v.RegisterValidation(OutputValidator, OutputValidatorFunc)
	_ = v.RegisterValidation(FilePathValidator, FilePathValidatorFunc)
	_ = v.RegisterValidation(TimeoutValidator, TimeoutValidatorFunc)
}
