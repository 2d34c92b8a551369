package xsnapshot

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/omeyang/xcas/xsnapshot"

// Option 定义 Persister 与 Scheduler 的可选配置函数类型。
type Option func(*options)

type options struct {
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	saveTimeout    time.Duration
	location       *time.Location
	skipUnchanged  bool
}

func defaultOptions() options {
	return options{
		logger:         slog.Default(),
		tracerProvider: otel.GetTracerProvider(),
		saveTimeout:    time.Minute,
		location:       time.Local,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithLogger 设置日志记录器。默认使用 slog.Default()。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracerProvider 设置 TracerProvider。默认使用全局 TracerProvider。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *options) {
		if provider != nil {
			o.tracerProvider = provider
		}
	}
}

// WithSaveTimeout 设置 Scheduler 单次保存的超时。默认 1 分钟，<= 0 表示不设超时。
func WithSaveTimeout(d time.Duration) Option {
	return func(o *options) {
		o.saveTimeout = d
	}
}

// WithLocation 设置 Scheduler 解析 cron 表达式使用的时区。默认 time.Local。
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithSkipUnchanged 让 Persister 在快照编码结果未变化时跳过写入。
// 仅适用于存储内容不会被外部修改的场景。
func WithSkipUnchanged() Option {
	return func(o *options) {
		o.skipUnchanged = true
	}
}
