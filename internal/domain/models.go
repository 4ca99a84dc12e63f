package domain

import "time"

// OptionCount is how many answer options the builder creates per question.
// Published documents are read back as-is, so readers must not assume it.
const OptionCount = 4

// Question models a single-select MCQ question.
type Question struct {
	QuestionText  string   `json:"questionText"`
	ImageURL      string   `json:"imageUrl,omitempty"` // optional, not validated for reachability
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Quiz is a published quiz document. ID is assigned by the document store at
// publish time and immutable thereafter.
//
// AllowRetakes defaults to false for documents created before the field
// existed: an absent field means retakes are disallowed.
type Quiz struct {
	ID           string     `json:"id,omitempty"`
	Title        string     `json:"title"`
	Questions    []Question `json:"questions"`
	AllowRetakes bool       `json:"allowRetakes"`
	CreatedAt    time.Time  `json:"createdAt,omitempty"`
}

// CompletionRecord is the durable proof that a device finished a quiz.
// Title is a snapshot taken at completion time so it survives later edits
// or deletion of the quiz itself.
type CompletionRecord struct {
	Score int    `json:"score"`
	Total int    `json:"total"`
	Title string `json:"title"`
}

// NewQuestion returns a blank question the way the builder edits it:
// four empty options with the first marked correct.
func NewQuestion() Question {
	return Question{
		Options:       make([]string, OptionCount),
		CorrectAnswer: 0,
	}
}
