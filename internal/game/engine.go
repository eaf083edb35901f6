package game

// CorrectScore is the flat score awarded for a correct guess
const CorrectScore = 100

// Outcome is the completion state derived from found slots and misses
type Outcome struct {
	AllFound   bool
	IsComplete bool
}

// Evaluate decides puzzle completion: win by coverage (every slot found,
// at least one slot) or loss by exhausting the miss budget.
func Evaluate(found []bool, missesUsed, missBudget int) Outcome {
	allFound := len(found) > 0
	for _, f := range found {
		if !f {
			allFound = false
			break
		}
	}

	return Outcome{
		AllFound:   allFound,
		IsComplete: allFound || missesUsed >= missBudget,
	}
}

// Score returns the flat per-guess score: 100 for a correct guess, else 0
func Score(isCorrect bool) int {
	if isCorrect {
		return CorrectScore
	}
	return 0
}

// AttemptsRemaining converts misses used into the budget left, floored at zero
func AttemptsRemaining(missesUsed, missBudget int) int {
	remaining := missBudget - missesUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NextStreak computes the streak transition applied exactly once, on the
// attempt that completes the puzzle: a win extends the streak, any losing
// completion resets it to zero. Max streak never decreases.
func NextStreak(currentStreak, maxStreak int, won bool) (int, int) {
	newStreak := 0
	if won {
		newStreak = currentStreak + 1
	}
	newMax := maxStreak
	if newStreak > newMax {
		newMax = newStreak
	}
	return newStreak, newMax
}
