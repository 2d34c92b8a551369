package xsnapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// RedisStore 把快照保存在 Redis 的一个键中。
//
// Save 与 Load 在网络错误时按固定间隔重试；键不存在（redis.Nil）不重试。
// 配置 WithBreaker 后，一次完整的重试序列计为熔断器的一次调用。
type RedisStore struct {
	client   redis.UniversalClient
	key      string
	ttl      time.Duration
	attempts uint
	delay    time.Duration
	logger   *slog.Logger

	tripAfter   uint32
	openTimeout time.Duration
	breaker     *gobreaker.CircuitBreaker[[]byte]
}

// RedisOption 定义 RedisStore 可选配置函数类型。
type RedisOption func(*RedisStore)

// WithTTL 设置快照键的过期时间。默认 0 表示不过期。
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithRetry 设置重试次数（含首次）与间隔。默认 3 次、100ms。
func WithRetry(attempts uint, delay time.Duration) RedisOption {
	return func(s *RedisStore) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithBreaker 在重试之外加一层熔断：连续 failures 次操作失败后熔断，
// openTimeout 后进入半开状态试探。熔断期间 Save 与 Load 返回 ErrUnavailable。
func WithBreaker(failures uint32, openTimeout time.Duration) RedisOption {
	return func(s *RedisStore) {
		if failures > 0 && openTimeout > 0 {
			s.tripAfter = failures
			s.openTimeout = openTimeout
		}
	}
}

// WithRedisLogger 设置重试日志记录器。默认使用 slog.Default()。
func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(s *RedisStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewRedisStore 创建 RedisStore。
func NewRedisStore(client redis.UniversalClient, key string, opts ...RedisOption) (*RedisStore, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if key == "" {
		return nil, ErrEmptyKey
	}
	s := &RedisStore{
		client:   client,
		key:      key,
		attempts: 3,
		delay:    100 * time.Millisecond,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tripAfter > 0 {
		s.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "xsnapshot:" + key,
			Timeout: s.openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= s.tripAfter
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, redis.Nil)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				s.logger.Warn("xsnapshot: redis breaker state changed",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			},
		})
	}
	return s, nil
}

// Key 返回快照所在的 Redis 键。
func (s *RedisStore) Key() string {
	return s.key
}

// guard 在配置了熔断器时通过熔断器执行 fn。
func (s *RedisStore) guard(fn func() ([]byte, error)) ([]byte, error) {
	if s.breaker == nil {
		return fn()
	}
	data, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return data, err
}

func (s *RedisStore) retryOptions(ctx context.Context, op string) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, redis.Nil)
		}),
		retry.OnRetry(func(n uint, err error) {
			s.logger.WarnContext(ctx, "xsnapshot: redis operation failed, retrying",
				slog.String("op", op),
				slog.String("key", s.key),
				slog.Uint64("attempt", uint64(n)+1),
				slog.Any("error", err),
			)
		}),
	}
}

// Save 实现 Store。
func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	_, err := s.guard(func() ([]byte, error) {
		return nil, retry.New(s.retryOptions(ctx, "save")...).Do(func() error {
			return s.client.Set(ctx, s.key, data, s.ttl).Err()
		})
	})
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	if err != nil {
		return fmt.Errorf("xsnapshot: redis set %s: %w", s.key, err)
	}
	return nil
}

// Load 实现 Store。
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.guard(func() ([]byte, error) {
		return retry.NewWithData[[]byte](s.retryOptions(ctx, "load")...).Do(func() ([]byte, error) {
			return s.client.Get(ctx, s.key).Bytes()
		})
	})
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if errors.Is(err, ErrUnavailable) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("xsnapshot: redis get %s: %w", s.key, err)
	}
	return data, nil
}
