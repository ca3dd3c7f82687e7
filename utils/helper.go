package utils

import (
	"strings"

	"github.com/google/uuid"
)

// StringToUUIDPtr converts a string to UUID pointer
func StringToUUIDPtr(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &u
}

// OptionalString returns nil for blank input so optional form fields stay unset.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// DerefString returns the pointed-to value or "".
func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
