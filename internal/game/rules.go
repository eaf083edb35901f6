package game

// Rules holds the configurable matching and completion parameters:
// the generational-suffix list used when deriving bare surnames, and
// the miss budget applied when a question doesn't set its own.
type Rules struct {
	suffixes          map[string]bool
	defaultMissBudget int
}

// NewRules creates a rule set from a suffix list and a default miss budget
func NewRules(suffixes []string, defaultMissBudget int) *Rules {
	set := make(map[string]bool, len(suffixes))
	for _, s := range suffixes {
		set[Normalize(s)] = true
	}
	return &Rules{
		suffixes:          set,
		defaultMissBudget: defaultMissBudget,
	}
}

// MissBudget resolves a question's miss budget, falling back to the default
// when the question doesn't configure one.
func (r *Rules) MissBudget(maxMisses *int) int {
	if maxMisses != nil && *maxMisses > 0 {
		return *maxMisses
	}
	return r.defaultMissBudget
}
