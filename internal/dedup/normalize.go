package dedup

import "strings"

// NormalizeEmail canonicalizes an email address for identity comparison:
// lower-cased and trimmed. Returns "" for absent input.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizePhone canonicalizes a phone number for identity comparison by
// stripping every non-digit character. Returns "" for absent input.
// No locale-aware normalization: "+55 11 99999-0000" and "5511999990000"
// compare equal, but a number with and without country code will not.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
