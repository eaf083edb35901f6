package game

// NoMatch is returned by MatchSlot when no slot accepts the guess
const NoMatch = -1

// MatchSlot normalizes the guess once and returns the index of the first
// slot (in canonical order) whose acceptable set contains it. Ties between
// overlapping sets resolve to the earliest slot index.
func MatchSlot(guess string, sets []AcceptableSet) int {
	normalized := Normalize(guess)
	if normalized == "" {
		return NoMatch
	}
	for i, set := range sets {
		if set[normalized] {
			return i
		}
	}
	return NoMatch
}
