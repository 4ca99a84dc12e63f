package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fanquiz-service/internal/app"
	"fanquiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DocumentCache caches published documents with TTL in front of a slower
// store to avoid repeated backing-store hits. Documents are immutable after
// publish, so a cached copy never goes stale within its TTL.
type DocumentCache struct {
	inner app.DocumentStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewDocumentCache(inner app.DocumentStore, ttl time.Duration) *DocumentCache {
	return &DocumentCache{
		inner: inner,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedQuiz),
	}
}

// Create passes through to the backing store and primes the cache with the
// freshly assigned document.
func (c *DocumentCache) Create(ctx context.Context, quiz domain.Quiz) (string, error) {
	id, err := c.inner.Create(ctx, quiz)
	if err != nil {
		return "", err
	}
	quiz.ID = id
	c.mu.Lock()
	c.cache[id] = cachedQuiz{quiz: quiz, expiresAt: c.clock().Add(c.ttlWithJitter())}
	c.mu.Unlock()
	return id, nil
}

func (c *DocumentCache) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := c.inner.Get(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		c.cache[quizID] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *DocumentCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
