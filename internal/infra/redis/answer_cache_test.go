package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingLoader struct {
	answers map[int64]map[int64]string
	calls   int
}

func (l *countingLoader) AnswerKey(_ context.Context, quizID int64) (map[int64]string, error) {
	l.calls++
	return l.answers[quizID], nil
}

func TestAnswerKeyCachedInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{answers: map[int64]map[int64]string{
		1: {10: "Paris", 11: "42"},
	}}
	cache := NewAnswerKeyCache(client, loader, time.Minute)

	key, err := cache.AnswerKey(context.Background(), 1)
	if err != nil {
		t.Fatalf("answer key: %v", err)
	}
	if len(key) != 2 || key[10] != "Paris" {
		t.Fatalf("unexpected key: %+v", key)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second call should hit the redis hash, loader not incremented.
	key, err = cache.AnswerKey(context.Background(), 1)
	if err != nil {
		t.Fatalf("answer key (cached): %v", err)
	}
	if key[11] != "42" || loader.calls != 1 {
		t.Fatalf("expected cache hit, key=%+v calls=%d", key, loader.calls)
	}
}

func TestEmptyAnswerKeyNotCached(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{answers: map[int64]map[int64]string{}}
	cache := NewAnswerKeyCache(client, loader, time.Minute)

	if _, err := cache.AnswerKey(context.Background(), 5); err != nil {
		t.Fatalf("answer key: %v", err)
	}
	if _, err := cache.AnswerKey(context.Background(), 5); err != nil {
		t.Fatalf("answer key: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("empty keys must not be cached, loader calls=%d", loader.calls)
	}
}

func TestInvalidateDropsHash(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{answers: map[int64]map[int64]string{7: {1: "x"}}}
	cache := NewAnswerKeyCache(client, loader, time.Minute)

	if _, err := cache.AnswerKey(context.Background(), 7); err != nil {
		t.Fatalf("answer key: %v", err)
	}
	if !mr.Exists("quiz:7:answers") {
		t.Fatalf("expected redis hash to be set")
	}
	if err := cache.Invalidate(context.Background(), 7); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("quiz:7:answers") {
		t.Fatalf("expected redis hash removed")
	}
}
