package memory

import (
	"context"
	"sync"
	"time"

	"fanquiz-service/internal/domain"
	"github.com/google/uuid"
)

// DocumentStore is an in-memory implementation of app.DocumentStore
// (useful for tests/demos). Create assigns identifiers and the server-side
// creation timestamp the way the real backing store would.
type DocumentStore struct {
	clock func() time.Time

	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		clock:   time.Now,
		quizzes: make(map[string]domain.Quiz),
	}
}

func (s *DocumentStore) Create(_ context.Context, quiz domain.Quiz) (string, error) {
	id := uuid.NewString()
	quiz.ID = id
	quiz.CreatedAt = s.clock()

	s.mu.Lock()
	s.quizzes[id] = quiz
	s.mu.Unlock()
	return id, nil
}

func (s *DocumentStore) Get(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// Seed inserts a quiz under a fixed identifier, bypassing Create.
func (s *DocumentStore) Seed(quizID string, quiz domain.Quiz) {
	quiz.ID = quizID
	s.mu.Lock()
	s.quizzes[quizID] = quiz
	s.mu.Unlock()
}
