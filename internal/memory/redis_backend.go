package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using a Redis hash per thread
// (<prefix><thread-id>, field = memory id, value = JSON memory).
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// RedisConfig holds Redis connection configuration for the memory store.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string
	// Password is the Redis password (optional).
	Password string
	// DB is the Redis database number.
	DB int
	// Prefix is the key prefix for memory keys (default: "dayplan:memory:").
	Prefix string
}

// NewRedisStore creates a Redis-backed memory store and verifies the
// connection with a short ping.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient creates a Redis store from an existing client.
// Useful for testing with miniredis.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "dayplan:memory:"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (r *RedisStore) threadKey(threadID string) string {
	return r.prefix + threadID
}

// Save implements Store.
func (r *RedisStore) Save(ctx context.Context, threadID, content string, tags []string, importance int) (*Memory, error) {
	threadID = normalizeThread(threadID)

	mem := Memory{
		ID:         uuid.NewString(),
		ThreadID:   threadID,
		Content:    content,
		Tags:       tags,
		Importance: importance,
		CreatedAt:  r.now(),
	}

	data, err := json.Marshal(mem)
	if err != nil {
		return nil, fmt.Errorf("marshal memory: %w", err)
	}
	if err := r.client.HSet(ctx, r.threadKey(threadID), mem.ID, data).Err(); err != nil {
		return nil, fmt.Errorf("save memory: %w", err)
	}
	return &mem, nil
}

func (r *RedisStore) loadAll(ctx context.Context, threadID string) ([]Memory, error) {
	raw, err := r.client.HGetAll(ctx, r.threadKey(threadID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load memories: %w", err)
	}

	memories := make([]Memory, 0, len(raw))
	for _, v := range raw {
		var m Memory
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			continue
		}
		memories = append(memories, m)
	}

	sort.Slice(memories, func(i, j int) bool {
		return memories[i].CreatedAt.After(memories[j].CreatedAt)
	})
	return memories, nil
}

// List implements Store.
func (r *RedisStore) List(ctx context.Context, threadID string, limit int) ([]Memory, error) {
	memories, err := r.loadAll(ctx, normalizeThread(threadID))
	if err != nil {
		return nil, err
	}
	return clip(memories, limit), nil
}

// Search implements Store.
func (r *RedisStore) Search(ctx context.Context, threadID, query string, limit int) ([]Memory, error) {
	memories, err := r.loadAll(ctx, normalizeThread(threadID))
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	var matched []Memory
	for i := range memories {
		if matchesQuery(&memories[i], lowered) {
			matched = append(matched, memories[i])
		}
	}
	return clip(matched, limit), nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, threadID, memoryID string) error {
	removed, err := r.client.HDel(ctx, r.threadKey(normalizeThread(threadID)), memoryID).Result()
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrMemoryNotFound, memoryID)
	}
	return nil
}

// Close releases the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
