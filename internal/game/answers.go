package game

import "strings"

// AcceptableSet holds the canonical strings that count as a correct guess
// for one answer slot.
type AcceptableSet map[string]bool

// Contains reports whether the normalized form of text is in the set
func (s AcceptableSet) Contains(text string) bool {
	return s[Normalize(text)]
}

// BuildAcceptable expands one raw answer into the canonical strings a guess
// may equal: the full normalized text plus the bare surname. When the final
// token is a generational suffix (jr, sr, ii, ...) and a preceding token
// exists, the surname is the second-to-last token.
func (r *Rules) BuildAcceptable(raw string) []string {
	normalized := Normalize(raw)
	parts := strings.Fields(normalized)
	if len(parts) == 0 {
		return nil
	}

	last := parts[len(parts)-1]
	surname := last
	if r.suffixes[last] && len(parts) > 1 {
		surname = parts[len(parts)-2]
	}

	if surname == normalized {
		return []string{normalized}
	}
	return []string{normalized, surname}
}

// SlotSet builds the acceptable set for a slot by taking the union of
// BuildAcceptable over every raw value (alternate spellings included).
func (r *Rules) SlotSet(answers []string) AcceptableSet {
	set := make(AcceptableSet)
	for _, raw := range answers {
		for _, candidate := range r.BuildAcceptable(raw) {
			set[candidate] = true
		}
	}
	return set
}

// AcceptableSets builds per-slot acceptable sets in canonical slot order
func (r *Rules) AcceptableSets(slots [][]string) []AcceptableSet {
	sets := make([]AcceptableSet, len(slots))
	for i, answers := range slots {
		sets[i] = r.SlotSet(answers)
	}
	return sets
}
