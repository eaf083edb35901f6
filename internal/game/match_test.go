package game

import "testing"

func TestMatchSlot(t *testing.T) {
	rules := testRules()
	sets := rules.AcceptableSets([][]string{
		{"Michael Jordan"},
		{"LeBron James", "King James"},
		{"Karl Malone Jr"},
	})

	tests := []struct {
		name     string
		guess    string
		expected int
	}{
		{"full name", "Michael Jordan", 0},
		{"surname only", "jordan", 0},
		{"alternate spelling", "King James", 1},
		{"shared surname of alternates", "JAMES", 1},
		{"suffix-stripped surname", "Malone", 2},
		{"messy input", "  karl   malone  jr. ", 2},
		{"no match", "Kobe Bryant", NoMatch},
		{"partial name", "Jame", NoMatch},
		{"empty guess", "", NoMatch},
		{"punctuation only", "?!", NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchSlot(tt.guess, sets); got != tt.expected {
				t.Errorf("MatchSlot(%q) = %d, want %d", tt.guess, got, tt.expected)
			}
		})
	}
}

func TestMatchSlotEarliestWinsOnOverlap(t *testing.T) {
	rules := testRules()

	// Malformed data where two slots accept the same surname: the earliest
	// slot index must win, deterministically.
	sets := rules.AcceptableSets([][]string{
		{"Tim Hardaway"},
		{"Tim Hardaway Jr"},
	})

	if got := MatchSlot("hardaway", sets); got != 0 {
		t.Errorf("MatchSlot(overlapping) = %d, want 0", got)
	}
}
