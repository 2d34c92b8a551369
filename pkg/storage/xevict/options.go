package xevict

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Option 定义 EvictingMap 可选配置函数类型。
type Option func(*options)

type options struct {
	logger     *slog.Logger
	name       string
	clock      clockwork.Clock
	anchor     time.Time
	touchLimit int
}

func defaultOptions() options {
	return options{
		logger:     slog.Default(),
		clock:      clockwork.NewRealClock(),
		touchLimit: -1,
	}
}

// WithLogger 设置日志记录器。
// 默认使用 slog.Default()。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置实例名称，作为日志字段 "store" 输出。
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithClock 设置时间源。测试中可传入 clockwork.NewFakeClock()。
// 传入 nil 将被忽略。
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithAnchor 设置锚点时间，截断到秒。默认为创建时刻。
func WithAnchor(anchor time.Time) Option {
	return func(o *options) {
		o.anchor = anchor
	}
}

// WithTouchConcurrency 限制 SizesForKeys 中并发 Touch 的数量。
// n <= 0 表示不限制（默认）。
func WithTouchConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.touchLimit = n
		} else {
			o.touchLimit = -1
		}
	}
}
