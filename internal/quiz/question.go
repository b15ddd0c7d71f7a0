package quiz

import "strings"

// Option keys in display order.
const (
	KeyA = "A"
	KeyB = "B"
	KeyC = "C"
)

// OptionKeys lists every answer key a question offers.
var OptionKeys = []string{KeyA, KeyB, KeyC}

// Question is one multiple-choice question as delivered by a question
// stream. It is never modified after it has been received.
type Question struct {
	// ID is the question number assigned by the generator. Informational only.
	ID int `json:"question_id"`

	// Text is the question prompt.
	Text string `json:"question"`

	// A, B and C are the option texts.
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`

	// Answer is the key of the correct option ("A", "B" or "C").
	Answer string `json:"answer"`

	// Explanation is shown after the question has been answered.
	Explanation string `json:"explanation"`

	// Wikipedia is a reference link for further reading.
	Wikipedia string `json:"wikipedia"`
}

// Option is a single answer choice.
type Option struct {
	Key  string
	Text string
}

// Options returns the answer choices in A, B, C order.
func (q Question) Options() []Option {
	return []Option{
		{Key: KeyA, Text: q.A},
		{Key: KeyB, Text: q.B},
		{Key: KeyC, Text: q.C},
	}
}

// OptionText returns the text for key, or "" for an unknown key.
func (q Question) OptionText(key string) string {
	switch NormalizeKey(key) {
	case KeyA:
		return q.A
	case KeyB:
		return q.B
	case KeyC:
		return q.C
	}
	return ""
}

// NormalizeKey trims whitespace and upper-cases an answer key.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
