package app

import (
	"context"
	"errors"
	"fmt"

	"fanquiz-service/internal/domain"
)

// DocumentStore loads published quiz documents (from cache/backing store).
type DocumentStore interface {
	Create(ctx context.Context, quiz domain.Quiz) (string, error)
	Get(ctx context.Context, quizID string) (domain.Quiz, error)
}

// CompletionLedger is the durable device×quiz completion map used to enforce
// the no-retake policy. Get never fails: storage trouble reads as absent.
// Put is an upsert persisted immediately, last write wins.
type CompletionLedger interface {
	Get(ctx context.Context, deviceID, quizID string) (domain.CompletionRecord, bool)
	Put(ctx context.Context, deviceID, quizID string, record domain.CompletionRecord)
}

// State tags the session lifecycle. Exactly one holds at a time; Blocked,
// Error and Completed are terminal.
type State int

const (
	StateLoading State = iota
	StateBlocked
	StateError
	StateNotStarted
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateBlocked:
		return "blocked"
	case StateError:
		return "error"
	case StateNotStarted:
		return "notStarted"
	case StateInProgress:
		return "inProgress"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// SessionService wires sessions to the document store and the ledger.
type SessionService struct {
	store  DocumentStore
	ledger CompletionLedger
}

func NewSessionService(store DocumentStore, ledger CompletionLedger) *SessionService {
	return &SessionService{store: store, ledger: ledger}
}

// Session is one taker's attempt at a quiz. It is ephemeral and owned by a
// single caller; events run to completion one at a time.
type Session struct {
	quiz     domain.Quiz
	quizID   string
	deviceID string
	ledger   CompletionLedger

	current int
	answers []int
	score   int
	state   State

	blockedBy domain.CompletionRecord
	loadErr   error
}

// Load fetches the document and resolves the session's entry state.
//
// The fetch is the only suspension point. The retake policy is evaluated in
// order: the document's own AllowRetakes flag first, the ledger second, so a
// stale completion record never blocks a quiz whose author has since allowed
// retakes. A canceled context discards the fetch result instead of handing
// back a session, guarding against a teardown racing a slow load.
func (s *SessionService) Load(ctx context.Context, quizID, deviceID string) (*Session, error) {
	session := &Session{
		quizID:   quizID,
		deviceID: deviceID,
		ledger:   s.ledger,
		state:    StateLoading,
	}

	quiz, err := s.store.Get(ctx, quizID)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		session.state = StateError
		if errors.Is(err, domain.ErrQuizNotFound) {
			session.loadErr = domain.ErrQuizNotFound
		} else {
			session.loadErr = fmt.Errorf("load quiz: %w", err)
		}
		return session, nil
	}

	session.quiz = quiz
	if !quiz.AllowRetakes {
		if record, ok := s.ledger.Get(ctx, deviceID, quizID); ok {
			session.state = StateBlocked
			session.blockedBy = record
			return session, nil
		}
	}
	session.state = StateNotStarted
	session.answers = make([]int, 0, len(quiz.Questions))
	return session, nil
}

// Start begins the question loop.
func (sn *Session) Start() error {
	if sn.state != StateNotStarted {
		return fmt.Errorf("%w: start in state %s", domain.ErrInvalidState, sn.state)
	}
	sn.state = StateInProgress
	return nil
}

// Answer records the selected option for the current question, scoring it
// against the document, and advances or completes the session. The index is
// taken as it came from a rendered option; it is not bounds-checked.
//
// On the transition to Completed the ledger is written exactly once, and only
// when the quiz disallows retakes.
func (sn *Session) Answer(ctx context.Context, selected int) error {
	if sn.state != StateInProgress {
		return fmt.Errorf("%w: answer in state %s", domain.ErrInvalidState, sn.state)
	}

	sn.answers = append(sn.answers, selected)
	if selected == sn.quiz.Questions[sn.current].CorrectAnswer {
		sn.score++
	}

	if sn.current+1 < len(sn.quiz.Questions) {
		sn.current++
		return nil
	}

	sn.state = StateCompleted
	if !sn.quiz.AllowRetakes {
		sn.ledger.Put(ctx, sn.deviceID, sn.quizID, domain.CompletionRecord{
			Score: sn.score,
			Total: len(sn.quiz.Questions),
			Title: sn.quiz.Title,
		})
	}
	return nil
}

// State reports the current lifecycle state.
func (sn *Session) State() State { return sn.state }

// Quiz returns the loaded document. Valid once the session left Loading
// without an error.
func (sn *Session) Quiz() domain.Quiz { return sn.quiz }

// CurrentQuestion returns the question awaiting an answer.
func (sn *Session) CurrentQuestion() (int, domain.Question, error) {
	if sn.state != StateInProgress {
		return 0, domain.Question{}, fmt.Errorf("%w: no current question in state %s", domain.ErrInvalidState, sn.state)
	}
	return sn.current, sn.quiz.Questions[sn.current], nil
}

// Score reports the running count of correct answers.
func (sn *Session) Score() int { return sn.score }

// Answers returns the recorded answer sequence, parallel to the questions.
func (sn *Session) Answers() []int {
	out := make([]int, len(sn.answers))
	copy(out, sn.answers)
	return out
}

// BlockedRecord exposes the stored completion record of a Blocked session.
func (sn *Session) BlockedRecord() (domain.CompletionRecord, bool) {
	if sn.state != StateBlocked {
		return domain.CompletionRecord{}, false
	}
	return sn.blockedBy, true
}

// Err reports why the session is in the Error state.
func (sn *Session) Err() error { return sn.loadErr }
