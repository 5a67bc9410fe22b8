package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const clearBatchSize = 100

// RedisKV stores each key as "<namespace>:<key>".
type RedisKV struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisKV(rdb redis.UniversalClient, namespace string) *RedisKV {
	return &RedisKV{rdb: rdb, prefix: namespace + ":"}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("RedisKV.Get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("RedisKV.Set %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("RedisKV.Delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every key under the namespace, not only the known ones.
func (r *RedisKV) Clear(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, r.matchPattern(), clearBatchSize).Iterator()
	batch := make([]string, 0, clearBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatchSize {
			if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("RedisKV.Clear: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("RedisKV.Clear: scan: %w", err)
	}
	if len(batch) > 0 {
		if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("RedisKV.Clear: %w", err)
		}
	}
	return nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

// matchPattern matches every key under the prefix and nothing else, even
// when the namespace contains glob characters.
func (r *RedisKV) matchPattern() string {
	return globEscaper.Replace(r.prefix) + "*"
}
