package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"fanquiz-service/internal/app"
	"fanquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DocumentCache caches full quiz documents in Redis and falls back to the
// backing store on a miss. The whole document is cached (not just the answer
// key) because takers need prompts, options and image URLs to render:
// SET quiz:{quizID}:doc {json} EX {ttl}.
type DocumentCache struct {
	client *redis.Client
	inner  app.DocumentStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewDocumentCache(client *redis.Client, inner app.DocumentStore, ttl time.Duration) *DocumentCache {
	return &DocumentCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create passes through to the backing store and primes the cache
// best-effort; a failed prime only costs a later cache miss.
func (c *DocumentCache) Create(ctx context.Context, quiz domain.Quiz) (string, error) {
	id, err := c.inner.Create(ctx, quiz)
	if err != nil {
		return "", err
	}
	quiz.ID = id
	if raw, err := json.Marshal(quiz); err == nil {
		_ = c.client.Set(ctx, c.key(id), raw, c.ttlWithJitter()).Err()
	}
	return id, nil
}

func (c *DocumentCache) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := c.cached(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := c.inner.Get(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		if raw, err := json.Marshal(quiz); err == nil {
			_ = c.client.Set(ctx, c.key(quizID), raw, c.ttlWithJitter()).Err()
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *DocumentCache) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil || len(raw) == 0 {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (c *DocumentCache) key(quizID string) string {
	return "quiz:" + quizID + ":doc"
}

func (c *DocumentCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
