package memory

import (
	"context"
	"sync"

	"fanquiz-service/internal/domain"
)

// Ledger is an in-memory implementation of app.CompletionLedger.
// Records never expire and are never evicted.
type Ledger struct {
	mu      sync.RWMutex
	records map[string]domain.CompletionRecord
}

func NewLedger() *Ledger {
	return &Ledger{records: make(map[string]domain.CompletionRecord)}
}

func (l *Ledger) Get(_ context.Context, deviceID, quizID string) (domain.CompletionRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	record, ok := l.records[ledgerKey(deviceID, quizID)]
	return record, ok
}

func (l *Ledger) Put(_ context.Context, deviceID, quizID string, record domain.CompletionRecord) {
	l.mu.Lock()
	l.records[ledgerKey(deviceID, quizID)] = record
	l.mu.Unlock()
}

func ledgerKey(deviceID, quizID string) string {
	return deviceID + ":" + quizID
}
