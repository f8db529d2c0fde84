package domain

import "strings"

// NormalizeBookingID trims surrounding whitespace from an externally supplied
// booking identifier. The second return value reports whether the raw input
// carried whitespace that had to be removed.
func NormalizeBookingID(raw string) (string, bool, error) {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return "", false, NewInvalidIdentifierError(raw)
	}
	return normalized, normalized != raw, nil
}
