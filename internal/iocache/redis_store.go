package iocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces every gitpet key in a shared Redis database.
const redisKeyPrefix = "gitpet:"

const redisTimeout = 5 * time.Second

// redisEnvelope is the JSON document stored under each Redis key.
type redisEnvelope struct {
	Version   int    `json:"version"`
	Timestamp int64  `json:"timestamp"`
	Value     []byte `json:"value"`
}

// RedisStore keeps key-value entries in Redis as JSON envelopes.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ contract.KVStore = &RedisStore{} // Compile-time check

// NewRedisStore connects to Redis given "host:port" or a redis:// URL.
func NewRedisStore(connStr string) (*RedisStore, error) {
	opts, err := redisOptions(connStr)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis database. Check that the server is running and connection parameters are valid: %w", err)
	}

	return &RedisStore{client: client, prefix: redisKeyPrefix, now: time.Now}, nil
}

func redisOptions(connStr string) (*redis.Options, error) {
	if strings.HasPrefix(connStr, "redis://") || strings.HasPrefix(connStr, "rediss://") {
		opts, err := redis.ParseURL(connStr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		return opts, nil
	}
	if connStr == "" {
		return nil, errors.New("redis backend requires store-db-connect as host:port or redis:// URL")
	}
	return &redis.Options{Addr: connStr}, nil
}

// GetMany retrieves the entries stored under keys with a single MGET.
func (s *RedisStore) GetMany(ctx context.Context, keys ...string) (map[string]contract.Entry, error) {
	out := make(map[string]contract.Entry, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	values, err := s.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var env redisEnvelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			return nil, fmt.Errorf("corrupt redis entry %s: %w", keys[i], err)
		}
		out[keys[i]] = contract.Entry{Value: env.Value, Version: env.Version, Timestamp: env.Timestamp}
	}
	return out, nil
}

// Set writes a single key.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, version int) error {
	data, err := json.Marshal(redisEnvelope{Version: version, Timestamp: s.now().UnixNano(), Value: value})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, 0).Err()
}

// Delete removes keys.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.client.Del(ctx, full...).Err()
}

// scanKeys lists every key under the store prefix, without the prefix.
func (s *RedisStore) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	return keys, iter.Err()
}

// Clear deletes every gitpet key.
func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return err
	}
	return s.Delete(ctx, keys...)
}

// GetStatus returns status information about the store.
func (s *RedisStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{Backend: string(schema.RedisBackend), Connected: s.client != nil}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	keys, err := s.scanKeys(ctx)
	if err != nil {
		return status, fmt.Errorf("failed to list keys: %w", err)
	}
	status.TotalEntries = len(keys)
	if len(keys) == 0 {
		return status, nil
	}

	entries, err := s.GetMany(ctx, keys...)
	if err != nil {
		return status, err
	}
	var newest, oldest int64
	for _, e := range entries {
		if newest == 0 || e.Timestamp > newest {
			newest = e.Timestamp
		}
		if oldest == 0 || e.Timestamp < oldest {
			oldest = e.Timestamp
		}
		status.TableSizeBytes += int64(len(e.Value))
	}
	status.LastEntryTime = time.Unix(0, newest)
	status.OldestEntryTime = time.Unix(0, oldest)
	return status, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
