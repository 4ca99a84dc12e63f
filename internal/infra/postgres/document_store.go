package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fanquiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DocumentStore persists quiz documents as JSONB rows.
type DocumentStore struct {
	pool *pgxpool.Pool
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// Create assigns the identifier and creation timestamp server-side and
// stores the document. The stored JSON embeds both so cached copies carry
// the full document.
func (s *DocumentStore) Create(ctx context.Context, quiz domain.Quiz) (string, error) {
	quiz.ID = uuid.NewString()
	quiz.CreatedAt = time.Now().UTC()

	raw, err := json.Marshal(quiz)
	if err != nil {
		return "", fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quizzes (id, data, created_at) VALUES ($1, $2, $3)`,
		quiz.ID, raw, quiz.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("create quiz: %w", err)
	}
	return quiz.ID, nil
}

func (s *DocumentStore) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}
