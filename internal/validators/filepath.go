package validators

import (
	"os"
	"path/filepath"

	"github.com/cherts/rtlog/internal/log"
	"github.com/go-playground/validator/v10"
)

// FilePathValidatorFunc validates that a string can be used as log file path: parent directory must exist and
// path itself must be absent or a regular file.
//
// Parameters:
//   - fl: FieldLevel containing the field to validate
//
// Returns:
//   - bool: true if the file can be opened for appending, false otherwise
func FilePathValidatorFunc(fl validator.FieldLevel) bool {
	f := fl.Field().String()
	if f == "" {
		return false
	}

	f = filepath.Clean(f)
	dirInfo, err := os.Stat(filepath.Dir(f))
	if err != nil {
		log.Errorf("failed to stat directory: %s %v", filepath.Dir(f), err)
		return false
	}
	if !dirInfo.IsDir() {
		return false
	}

	fileInfo, err := os.Stat(f)
	if os.IsNotExist(err) {
		return true
	}
	if err != nil {
		log.Errorf("failed to stat file: %s %v", f, err)
		return false
	}

	return fileInfo.Mode().IsRegular()
}
