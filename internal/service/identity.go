package service

import (
	"strconv"
	"strings"
)

// NormalizeOrderNumber strips leading zeros from numeric order numbers so the
// same order matches whether the source padded it or not. Non-numeric values
// pass through trimmed.
func NormalizeOrderNumber(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if n, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
		return strconv.FormatUint(n, 10)
	}
	return trimmed
}

// DisputeKey builds the identity key used to match imported orders against
// stored disputes. The restaurant side must already be canonical, otherwise
// the same order imported twice with different branch spellings would not
// collide.
func DisputeKey(orderNumber, canonicalRestaurant string) string {
	return NormalizeOrderNumber(orderNumber) + "|" + strings.ToLower(strings.TrimSpace(canonicalRestaurant))
}
