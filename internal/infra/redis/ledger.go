package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"fanquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Ledger is a Redis-backed implementation of app.CompletionLedger.
// Notes:
//   - Records are stored as JSON strings under record:{deviceID}:{quizID}
//     with no TTL: completion proofs persist until the store itself is
//     cleared.
//   - Get treats any Redis failure as "no record": the session engine must
//     keep working when the ledger backend is unreachable, at the cost of
//     possibly letting a retake through.
type Ledger struct {
	client *redis.Client
}

func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

func (l *Ledger) Get(ctx context.Context, deviceID, quizID string) (domain.CompletionRecord, bool) {
	raw, err := l.client.Get(ctx, l.key(deviceID, quizID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("completion ledger read failed", "quizId", quizID, "err", err)
		}
		return domain.CompletionRecord{}, false
	}
	var record domain.CompletionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		slog.Warn("completion ledger record corrupt", "quizId", quizID, "err", err)
		return domain.CompletionRecord{}, false
	}
	return record, true
}

func (l *Ledger) Put(ctx context.Context, deviceID, quizID string, record domain.CompletionRecord) {
	raw, err := json.Marshal(record)
	if err != nil {
		slog.Warn("completion ledger marshal failed", "quizId", quizID, "err", err)
		return
	}
	// Written immediately, no batching: a crash right after completion must
	// not lose the record.
	if err := l.client.Set(ctx, l.key(deviceID, quizID), raw, 0).Err(); err != nil {
		slog.Warn("completion ledger write failed", "quizId", quizID, "err", err)
	}
}

func (l *Ledger) key(deviceID, quizID string) string {
	return "record:" + deviceID + ":" + quizID
}
