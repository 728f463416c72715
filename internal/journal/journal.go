// Package journal keeps a record of printed labels. It stores paths and
// metadata only, never the rendered documents.
package journal

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	u "zplemu/internal/utils"
)

// Entry describes one successfully written label.
type Entry struct {
	Path         string    `json:"path"`
	PayloadBytes int       `json:"payload_bytes"`
	RequestID    string    `json:"request_id,omitempty"`
	PrintedAt    time.Time `json:"printed_at"`
}

// Recorder appends entries and lists the most recent ones, newest first.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

func (Nop) Close() error { return nil }

// Open returns the recorder selected by journal.driver.
func Open(ctx context.Context, cfg u.Config) (Recorder, error) {
	switch cfg.Journal.Driver {
	case u.JournalRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisHost,
			DB:   cfg.Cache.JournalDB,
		})
		return NewRedisRecorder(rdb, DefaultRedisKey, cfg.Journal.Size), nil
	case u.JournalPostgres:
		return OpenPostgres(ctx, cfg.Journal.Postgres)
	default:
		return Nop{}, nil
	}
}
