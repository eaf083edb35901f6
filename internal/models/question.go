package models

import (
	"encoding/json"
	"strings"
	"time"
)

// StringList is a JSON value that may be a single string or an array of
// strings. Question option entries use this shape: most slots hold one
// answer, some hold alternate spellings.
type StringList []string

// UnmarshalJSON accepts both "name" and ["name", "alt name"]
func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

// AnswerSlot is one position in the ordered list of hidden answers
type AnswerSlot struct {
	Answers StringList
	Logos   StringList
	Label   string
}

// DisplayName joins a slot's alternate spellings for reveal display
func (s AnswerSlot) DisplayName() string {
	return strings.Join(s.Answers, " / ")
}

// Question is the daily puzzle: one per calendar date, with an ordered
// sequence of answer slots whose order defines the canonical slot index.
type Question struct {
	Date         string
	Prompt       string
	Slots        []AnswerSlot
	MaxMisses    *int
	RulesNote    string
	RetiredNames []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SlotAnswers returns the raw answer values per slot in canonical order
func (q *Question) SlotAnswers() [][]string {
	answers := make([][]string, len(q.Slots))
	for i, slot := range q.Slots {
		answers[i] = slot.Answers
	}
	return answers
}

// AnswerDisplayNames returns the reveal text for every slot in order
func (q *Question) AnswerDisplayNames() []string {
	names := make([]string, len(q.Slots))
	for i, slot := range q.Slots {
		names[i] = slot.DisplayName()
	}
	return names
}
