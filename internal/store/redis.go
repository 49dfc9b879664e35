package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"landmarkbot/pkg/types"

	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 100

// RedisRepository keeps each record as a redis hash.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// UpdateFields writes set and removes del on key in a single MULTI/EXEC.
func (r *RedisRepository) UpdateFields(ctx context.Context, key string, set map[string]string, del []string) error {
	if len(set) == 0 && len(del) == 0 {
		return nil
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(set) > 0 {
			values := make(map[string]interface{}, len(set))
			for field, value := range set {
				values[field] = value
			}
			pipe.HSet(ctx, key, values)
		}
		if len(del) > 0 {
			pipe.HDel(ctx, key, del...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update fields of %s: %w", key, err)
	}

	return nil
}

func (r *RedisRepository) Fields(ctx context.Context, key string) (map[string]string, error) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read fields of %s: %w", key, err)
	}
	return fields, nil
}

// Keys returns every key starting with prefix, sorted.
func (r *RedisRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)

	iter := r.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan keys with prefix %s: %w", prefix, err)
	}

	// SCAN may return a key more than once.
	sort.Strings(keys)
	return dedupeSorted(keys), nil
}

// Rename moves from to to. It fails with types.ErrKeyExists rather than
// overwrite an existing key.
func (r *RedisRepository) Rename(ctx context.Context, from, to string) error {
	ok, err := r.client.RenameNX(ctx, from, to).Result()
	if err != nil {
		if strings.Contains(err.Error(), "no such key") {
			return fmt.Errorf("rename %s: %w", from, types.ErrRecordNotFound)
		}
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}

	if !ok {
		return fmt.Errorf("rename %s to %s: %w", from, to, types.ErrKeyExists)
	}

	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func dedupeSorted(in []string) []string {
	out := in[:0]
	for i, v := range in {
		if i > 0 && v == in[i-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}
