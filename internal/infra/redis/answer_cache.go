package redis

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// AnswerKeyLoader builds an answer key from the backing store.
type AnswerKeyLoader interface {
	AnswerKey(ctx context.Context, quizID int64) (map[int64]string, error)
}

// AnswerKeyCache caches quiz answer keys in Redis (one hash per quiz) and
// falls back to a loader on cache miss.
// Keys are stored as: HSET quiz:{quizID}:answers {questionID} {answerText}
// Empty keys are never cached, so a quiz that gains questions later is not
// shadowed by a stale negative entry.
type AnswerKeyCache struct {
	client *redis.Client
	loader AnswerKeyLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewAnswerKeyCache(client *redis.Client, loader AnswerKeyLoader, ttl time.Duration) *AnswerKeyCache {
	return &AnswerKeyCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *AnswerKeyCache) AnswerKey(ctx context.Context, quizID int64) (map[int64]string, error) {
	key := c.answersKey(quizID)

	cached, err := c.client.HGetAll(ctx, key).Result()
	if err == nil && len(cached) > 0 {
		return parseAnswerKey(cached)
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := c.client.HGetAll(ctx, key).Result()
		if err == nil && len(cached) > 0 {
			return parseAnswerKey(cached)
		}

		answers, err := c.loader.AnswerKey(ctx, quizID)
		if err != nil {
			return nil, err
		}
		if len(answers) == 0 {
			return answers, nil
		}

		pipe := c.client.Pipeline()
		for questionID, answer := range answers {
			pipe.HSet(ctx, key, strconv.FormatInt(questionID, 10), answer)
		}
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttlWithJitter())
		}
		_, _ = pipe.Exec(ctx)

		return answers, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[int64]string), nil
}

// Invalidate drops the cached key for a quiz, e.g. after its links change.
func (c *AnswerKeyCache) Invalidate(ctx context.Context, quizID int64) error {
	return c.client.Del(ctx, c.answersKey(quizID)).Err()
}

func (c *AnswerKeyCache) answersKey(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10) + ":answers"
}

func parseAnswerKey(cached map[string]string) (map[int64]string, error) {
	answers := make(map[int64]string, len(cached))
	for field, answer := range cached {
		questionID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt answer key field %q: %w", field, err)
		}
		answers[questionID] = answer
	}
	return answers, nil
}

func (c *AnswerKeyCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
