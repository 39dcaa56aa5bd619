package util

import (
	"github.com/google/uuid"
)

// IsValidUUID accepts only the canonical 36-character form, in either case.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsValidEnum reports whether value is one of validValues. The empty string
// counts as unset and is accepted.
func IsValidEnum(value string, validValues []string) bool {
	if value == "" {
		return true
	}
	for _, v := range validValues {
		if value == v {
			return true
		}
	}
	return false
}
