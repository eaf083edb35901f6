package game

// AttemptRecord is the slice of stored attempt state the ledger reads
type AttemptRecord struct {
	Text      string
	IsCorrect bool
}

// Summary is the session state reconstructed from the attempt history
type Summary struct {
	MissesUsed int
	Found      []bool
	FoundCount int
}

// Summarize replays the attempt history against the per-slot acceptable
// sets: misses are attempts flagged incorrect, and a slot counts as found
// when any correct attempt's normalized text is a member of its set.
func Summarize(attempts []AttemptRecord, sets []AcceptableSet) Summary {
	summary := Summary{Found: make([]bool, len(sets))}

	for _, attempt := range attempts {
		if !attempt.IsCorrect {
			summary.MissesUsed++
			continue
		}
		normalized := Normalize(attempt.Text)
		for i, set := range sets {
			if set[normalized] {
				summary.Found[i] = true
			}
		}
	}

	for _, found := range summary.Found {
		if found {
			summary.FoundCount++
		}
	}

	return summary
}

// IsDuplicate reports whether a new guess repeats a prior attempt. A guess
// duplicates when its normalized text equals a prior attempt's, or when it
// matches a slot some prior attempt already belongs to — so re-guessing a
// synonym of an attempted answer is rejected, not just exact repeats.
func IsDuplicate(guess string, attempts []AttemptRecord, sets []AcceptableSet) bool {
	normalized := Normalize(guess)
	for _, attempt := range attempts {
		if Normalize(attempt.Text) == normalized {
			return true
		}
	}

	slot := MatchSlot(guess, sets)
	if slot == NoMatch {
		return false
	}
	for _, attempt := range attempts {
		if sets[slot][Normalize(attempt.Text)] {
			return true
		}
	}
	return false
}
