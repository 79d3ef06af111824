package validators

import (
	"strconv"
	"strings"
)

// junkFormValues are literal strings mobile clients send for absent
// numeric form fields.
var junkFormValues = map[string]struct{}{
	"":          {},
	"null":      {},
	"undefined": {},
	"none":      {},
	"nan":       {},
}

// ParseOptionalFloat interprets a multipart form value as an optional
// float. Empty strings and client-side null artifacts ("null",
// "undefined" and friends) come back as nil, as does anything that is
// not a number. A submission never fails on a malformed coordinate
// string alone.
func ParseOptionalFloat(raw string) *float64 {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if _, junk := junkFormValues[trimmed]; junk {
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &value
}

// ParseOptionalString trims a form value and returns nil for empty
// input.
func ParseOptionalString(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
