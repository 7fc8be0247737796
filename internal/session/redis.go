package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ghzx55/graderevive/internal/config"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/go-redis/redis/v8"
)

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return rdb, nil
}

// RedisStore keeps session snapshots as JSON with a sliding TTL, so several
// API instances can serve the same session. Saves are WATCH/MULTI checked
// against the stored version.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return FromSnapshot(snap), nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	key := r.key(s.ID)
	snap := s.Snapshot()
	snap.Version++
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, exists, err := storedVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := checkVersion(stored, exists, s.Version); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == redis.TxFailedErr:
		return errors.ErrSessionConflict
	case errors.Is(err, errors.ErrSessionConflict, errors.ErrSessionNotFound):
		return err
	case err != nil:
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.Version = snap.Version
	return nil
}

func storedVersion(ctx context.Context, tx *redis.Tx, key string) (int64, bool, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to load session: %w", err)
	}

	var head struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return head.Version, true, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return errors.ErrSessionNotFound
	}
	return nil
}

// NewStore builds the store selected by cfg.Session.Backend. The returned
// close func releases backend resources.
func NewStore(cfg *config.Config) (Store, func() error, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Session.TTL), client.Close, nil
	default:
		return NewMemoryStore(cfg.Session.TTL), func() error { return nil }, nil
	}
}
