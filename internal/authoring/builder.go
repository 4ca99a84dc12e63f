package authoring

import (
	"context"
	"fmt"
	"strings"

	"fanquiz-service/internal/domain"
)

// DocumentStore is the publish target. Create assigns the identifier.
type DocumentStore interface {
	Create(ctx context.Context, quiz domain.Quiz) (string, error)
}

// Builder holds an in-memory quiz draft and the index of the question
// currently being edited. It is the single owner of the draft: callers read
// snapshots via Draft() and mutate only through Builder methods.
type Builder struct {
	title   string
	items   []domain.Question
	cursor  int
	retakes bool
}

// NewBuilder starts a draft with one blank question, cursor on it.
func NewBuilder() *Builder {
	return &Builder{
		items: []domain.Question{domain.NewQuestion()},
	}
}

// FromDraft adopts an externally assembled draft, e.g. one posted by an
// authoring client. The draft is deep-copied so the builder stays the sole
// owner; an empty question list is replaced by one blank question.
func FromDraft(draft domain.Quiz) *Builder {
	draft = copyQuiz(draft)
	if len(draft.Questions) == 0 {
		draft.Questions = []domain.Question{domain.NewQuestion()}
	}
	return &Builder{
		title:   draft.Title,
		items:   draft.Questions,
		retakes: draft.AllowRetakes,
	}
}

// AddQuestion appends a blank question and moves the cursor to it.
// There is no upper bound on question count.
func (b *Builder) AddQuestion() {
	b.items = append(b.items, domain.NewQuestion())
	b.cursor = len(b.items) - 1
}

// DeleteQuestion removes the question at index. A draft must always keep at
// least one question, so deleting the last remaining one fails.
func (b *Builder) DeleteQuestion(index int) error {
	if index < 0 || index >= len(b.items) {
		return fmt.Errorf("%w: question index %d out of range", domain.ErrInvariant, index)
	}
	if len(b.items) == 1 {
		return fmt.Errorf("%w: a quiz must have at least one question", domain.ErrInvariant)
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
	// The cursor lands where the deleted question was, clamped to the end.
	b.cursor = index
	if b.cursor > len(b.items)-1 {
		b.cursor = len(b.items) - 1
	}
	return nil
}

// Next moves the cursor forward, clamped to the last question.
func (b *Builder) Next() {
	if b.cursor < len(b.items)-1 {
		b.cursor++
	}
}

// Prev moves the cursor back, clamped to the first question.
func (b *Builder) Prev() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// Cursor reports the index of the question being edited.
func (b *Builder) Cursor() int { return b.cursor }

// Len reports the number of questions in the draft.
func (b *Builder) Len() int { return len(b.items) }

func (b *Builder) SetTitle(title string) { b.title = title }

func (b *Builder) SetAllowRetakes(allow bool) { b.retakes = allow }

// SetQuestionText updates the text of the question under the cursor.
// Empty intermediate states are fine; validation happens at publish.
func (b *Builder) SetQuestionText(text string) {
	b.items[b.cursor].QuestionText = text
}

func (b *Builder) SetImageURL(url string) {
	b.items[b.cursor].ImageURL = url
}

// SetOption updates option text at the given slot of the cursor question.
func (b *Builder) SetOption(option int, text string) error {
	q := &b.items[b.cursor]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: option index %d out of range", domain.ErrInvariant, option)
	}
	q.Options[option] = text
	return nil
}

// SetCorrectAnswer marks the option at the given slot as the correct one.
func (b *Builder) SetCorrectAnswer(option int) error {
	q := &b.items[b.cursor]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: correct answer index %d out of range", domain.ErrInvariant, option)
	}
	q.CorrectAnswer = option
	return nil
}

// Draft returns a deep copy of the current draft so callers can render it
// without aliasing the builder's state.
func (b *Builder) Draft() domain.Quiz {
	return copyQuiz(domain.Quiz{
		Title:        b.title,
		Questions:    b.items,
		AllowRetakes: b.retakes,
	})
}

// Publish validates the draft and creates the document in the store,
// returning the assigned identifier. Validation is all-or-nothing: on
// failure nothing is persisted and the draft is left untouched.
func (b *Builder) Publish(ctx context.Context, store DocumentStore) (string, error) {
	doc := b.Draft()
	if err := Validate(doc); err != nil {
		return "", err
	}
	id, err := store.Create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("publish quiz: %w", err)
	}
	return id, nil
}

// Validate applies the publish-time invariants to a document: non-empty
// title, at least one question, every question with non-empty text and an
// in-range correct answer.
func Validate(quiz domain.Quiz) error {
	if strings.TrimSpace(quiz.Title) == "" {
		return fmt.Errorf("%w: quiz title must not be empty", domain.ErrValidation)
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("%w: quiz needs at least one question", domain.ErrValidation)
	}
	for i, q := range quiz.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return fmt.Errorf("%w: question %d has no text", domain.ErrValidation, i+1)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct answer out of range", domain.ErrValidation, i+1)
		}
	}
	return nil
}

func copyQuiz(quiz domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		q.Options = options
		questions[i] = q
	}
	quiz.Questions = questions
	return quiz
}
