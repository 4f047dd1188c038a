// Package validation formats errors for values outside a closed set.
package validation

import (
	"fmt"
	"strings"
)

// FormatValidValues joins string-like values for error messages.
func FormatValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// InvalidValue wraps kind with the rejected value and the accepted ones.
func InvalidValue[T ~string](kind error, value string, valid []T) error {
	return fmt.Errorf("%w: %q (valid: %s)", kind, value, FormatValidValues(valid))
}
