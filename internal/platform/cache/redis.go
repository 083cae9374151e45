package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options locate the Redis instance behind sessions, page memos, the
// dashboard cache and the job queue.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// PingTimeout bounds the connectivity check in New.
const PingTimeout = 5 * time.Second

// New connects to Redis and fails fast when the server does not answer.
func New(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping redis %s/%d: %w", opts.Addr, opts.DB, err)
	}
	return client, nil
}
