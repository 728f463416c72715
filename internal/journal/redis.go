package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list holding journal entries.
const DefaultRedisKey = "zplemu:prints"

// RedisRecorder keeps the newest entries in a capped Redis list.
type RedisRecorder struct {
	rdb  *redis.Client
	key  string
	size int
}

// NewRedisRecorder returns a recorder keeping at most size entries under key.
func NewRedisRecorder(rdb *redis.Client, key string, size int) *RedisRecorder {
	if key == "" {
		key = DefaultRedisKey
	}
	if size <= 0 {
		size = 100
	}
	return &RedisRecorder{rdb: rdb, key: key, size: size}
}

func (r *RedisRecorder) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, r.key, data)
		p.LTrim(ctx, r.key, 0, int64(r.size-1))
		return nil
	})
	return err
}

func (r *RedisRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > r.size {
		limit = r.size
	}
	raw, err := r.rdb.LRange(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decode journal entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *RedisRecorder) Close() error {
	return r.rdb.Close()
}
