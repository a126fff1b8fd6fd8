package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"college-schedule/backend/config"
)

// Client обёртка над go-redis: блокировка загрузки, счётчики лимита запросов и версия кэша
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient подключается к Redis и проверяет соединение
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("подключение к Redis: %w", err)
	}

	logger.Info("Redis подключён", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Распределённая блокировка ──

const lockPrefix = "schedule:lock:"

// releaseScript снимает блокировку, только если она принадлежит владельцу
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// AcquireLock SET NX PX; false: блокировка уже занята
func (c *Client) AcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, lockPrefix+name, owner, ttl).Result()
}

// ReleaseLock снимает блокировку владельца
func (c *Client) ReleaseLock(ctx context.Context, name, owner string) error {
	return releaseScript.Run(ctx, c.rdb, []string{lockPrefix + name}, owner).Err()
}

// ── Лимит запросов ──

const rateLimitPrefix = "schedule:ratelimit:"

// CheckRateLimit фиксированное окно: true, пока число запросов в окне не превышает limit
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := rateLimitPrefix + key
	n, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, k, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ── Версия набора записей ──

const generationPrefix = "schedule:generation:"

// Generation счётчик версий в Redis, общий для всех реплик
type Generation struct {
	rdb *goredis.Client
	key string
}

// Generation счётчик с именем name
func (c *Client) Generation(name string) *Generation {
	return &Generation{rdb: c.rdb, key: generationPrefix + name}
}

// Current текущая версия; пока счётчика нет, версия 0
func (g *Generation) Current(ctx context.Context) (int64, error) {
	n, err := g.rdb.Get(ctx, g.key).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return n, err
}

// Bump INCR
func (g *Generation) Bump(ctx context.Context) (int64, error) {
	return g.rdb.Incr(ctx, g.key).Result()
}

// Close закрывает соединение
func (c *Client) Close() error {
	return c.rdb.Close()
}
