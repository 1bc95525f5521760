package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type item struct {
	Title string `json:"title"`
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := New(time.Minute)

	if err := c.Set(ctx, "k", []item{{Title: "a"}}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got []item
	ok, err := c.Get(ctx, "k", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].Title != "a" {
		t.Fatalf("unexpected value: %+v", got)
	}

	// mutating the returned slice must not leak back into the cache
	got[0].Title = "mutated"
	var again []item
	_, _ = c.Get(ctx, "k", &again)
	if again[0].Title != "a" {
		t.Fatalf("cache shared memory with caller: %+v", again)
	}
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New(time.Second)

	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", item{Title: "a"})

	c.now = func() time.Time { return now.Add(2 * time.Second) }

	var got item
	if ok, _ := c.Get(ctx, "k", &got); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCache_GenerationRetiresOldEntries(t *testing.T) {
	ctx := context.Background()
	c := New(time.Minute)
	genKey := TasksGenKey("u1")

	gen, err := c.Generation(ctx, genKey)
	if err != nil || gen != 0 {
		t.Fatalf("fresh generation: gen=%d err=%v", gen, err)
	}

	stale := TasksListKey("u1", gen)

	if next, _ := c.Bump(ctx, genKey); next != 1 {
		t.Fatalf("bump returned %d, want 1", next)
	}

	// a write that raced the bump lands under the retired key
	_ = c.Set(ctx, stale, []item{{Title: "old"}})

	gen, _ = c.Generation(ctx, genKey)

	var got []item
	if ok, _ := c.Get(ctx, TasksListKey("u1", gen), &got); ok {
		t.Fatalf("current generation must not see the late write: %+v", got)
	}
}

func TestTasksKeys(t *testing.T) {
	if TasksListKey("u1", 0) == TasksListKey("u2", 0) {
		t.Fatalf("keys must differ per user")
	}
	if TasksListKey("u1", 0) == TasksListKey("u1", 1) {
		t.Fatalf("keys must differ per generation")
	}
	if TasksGenKey("u1") == TasksListKey("u1", 0) {
		t.Fatalf("generation and list keys must not collide")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	s := NewRedisStore(rdb, time.Minute)
	key := "test:" + t.Name()
	genKey := "test:gen:" + t.Name()
	defer rdb.Del(ctx, key, genKey)

	if err := s.Set(ctx, key, item{Title: "a"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got item
	ok, err := s.Get(ctx, key, &got)
	if err != nil || !ok || got.Title != "a" {
		t.Fatalf("get: ok=%v err=%v got=%+v", ok, err, got)
	}

	if gen, err := s.Generation(ctx, genKey); err != nil || gen != 0 {
		t.Fatalf("unset generation: gen=%d err=%v", gen, err)
	}

	if gen, err := s.Bump(ctx, genKey); err != nil || gen != 1 {
		t.Fatalf("bump: gen=%d err=%v", gen, err)
	}

	if gen, _ := s.Generation(ctx, genKey); gen != 1 {
		t.Fatalf("generation after bump: %d", gen)
	}

	if ttl := rdb.TTL(ctx, genKey).Val(); ttl <= 0 {
		t.Fatalf("generation key should expire, ttl=%s", ttl)
	}
}
