package redis

import (
	"context"
	"fmt"
	"log/slog"
	"starmus/internal/config"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindow trims the author's window, rejects once it holds max entries,
// and records token at most once so retried submissions are not counted twice.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= max then
	return 0
end
redis.call('ZADD', key, 'NX', now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// Limiter is a redis backed sliding window rate limiter
type Limiter struct {
	client *redis.Client
	config config.RateLimitConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewClient connects to redis and checks the connection
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewLimiter returns Limiter
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *slog.Logger) *Limiter {
	return &Limiter{
		client: client,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Allow reports whether authorID may have one more submission within the window.
func (l *Limiter) Allow(ctx context.Context, authorID string, token string) (bool, error) {
	key := "ratelimit:submission:" + authorID

	allowed, err := slidingWindow.Run(ctx, l.client, []string{key},
		l.now().UnixMilli(),
		l.config.Window.Milliseconds(),
		l.config.Max,
		token,
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rate limit: %w", err)
	}

	if allowed == 0 {
		l.logger.Warn("submission rate limited",
			slog.String("authorID", authorID),
			slog.Int("max", l.config.Max),
			slog.Duration("window", l.config.Window))
		return false, nil
	}
	return true, nil
}
