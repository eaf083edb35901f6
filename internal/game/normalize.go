package game

import "strings"

// Normalize canonicalizes free text for comparison: lowercases, replaces
// every character outside [a-z0-9'] with a space, collapses whitespace runs
// and trims. Idempotent and total over all inputs.
func Normalize(text string) string {
	lower := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, c := range lower {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '\'':
			b.WriteRune(c)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
