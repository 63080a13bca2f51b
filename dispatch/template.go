package dispatch

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const (
	placeholder = "{}"
	intVerb     = "%d"
)

var (
	// ErrArgCount is returned when the number of arguments differs from the number of placeholders.
	ErrArgCount = errors.New("placeholder and argument count mismatch")
	// ErrArgType is returned when an argument cannot be rendered as a decimal integer.
	ErrArgType = errors.New("argument cannot be rendered as integer")
)

// ConvertTemplate replaces every '{}' placeholder with printf-style '%d', left to right.
// Substituted text is never rescanned.
func ConvertTemplate(template string) string {
	return strings.ReplaceAll(template, placeholder, intVerb)
}

// Measure returns the exact length in bytes of the message Render would produce.
func Measure(template string, args ...any) (int, error) {
	_, size, err := bind(template, args)
	return size, err
}

// Render substitutes arguments into template placeholders. Buffer is allocated once, using size of the
// measuring pass.
func Render(template string, args ...any) (string, error) {
	values, size, err := bind(template, args)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return template, nil
	}

	var b strings.Builder
	b.Grow(size)

	rest := template
	for _, v := range values {
		i := strings.Index(rest, placeholder)
		b.WriteString(rest[:i])
		b.WriteString(v)
		rest = rest[i+len(placeholder):]
	}
	b.WriteString(rest)

	return b.String(), nil
}

// bind formats arguments positionally and returns them with total rendered length.
func bind(template string, args []any) ([]string, int, error) {
	n := strings.Count(template, placeholder)
	if n != len(args) {
		return nil, 0, fmt.Errorf("%w: template has %d placeholders, got %d arguments", ErrArgCount, n, len(args))
	}

	size := len(template) - n*len(placeholder)
	values := make([]string, n)
	for i, a := range args {
		s, err := formatInt(a)
		if err != nil {
			return nil, 0, fmt.Errorf("argument %d: %w", i, err)
		}
		values[i] = s
		size += len(s)
	}

	return values, size, nil
}

// formatInt renders value the way '%d' does, rejecting values '%d' has no meaning for. Values implementing
// fmt.Formatter are trusted to render themselves.
func formatInt(v any) (string, error) {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case uintptr:
		return strconv.FormatUint(uint64(x), 10), nil
	}

	// Named integer types.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	}

	s := fmt.Sprintf(intVerb, v)
	if _, ok := v.(fmt.Formatter); ok {
		return s, nil
	}
	if strings.Contains(s, "%!") {
		return "", fmt.Errorf("%w: %T", ErrArgType, v)
	}
	return s, nil
}
