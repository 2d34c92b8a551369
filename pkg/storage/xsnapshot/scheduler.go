package xsnapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Saver 是可被周期调用的保存操作，Persister 实现了该接口。
type Saver interface {
	Save(ctx context.Context) error
}

// cronParser 支持可选秒字段与 @every 等描述符。
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateSchedule 检查 cron 表达式能否被 Scheduler 接受。
func ValidateSchedule(spec string) error {
	if _, err := cronParser.Parse(spec); err != nil {
		return fmt.Errorf("xsnapshot: invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Scheduler 按 cron 表达式周期性保存快照。
// 上一次保存尚未结束时跳过本次触发。保存失败只记录日志。
type Scheduler struct {
	cron    *cron.Cron
	saver   Saver
	logger  *slog.Logger
	timeout time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewScheduler 创建 Scheduler。spec 非法时返回错误。
func NewScheduler(saver Saver, spec string, opts ...Option) (*Scheduler, error) {
	if saver == nil {
		return nil, ErrNilSaver
	}
	o := applyOptions(opts)
	c := cron.New(
		cron.WithLocation(o.location),
		cron.WithParser(cronParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:    c,
		saver:   saver,
		logger:  o.logger,
		timeout: o.saveTimeout,
		baseCtx: ctx,
		cancel:  cancel,
	}
	if _, err := c.AddFunc(spec, s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("xsnapshot: invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx := s.baseCtx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	if err := s.saver.Save(ctx); err != nil {
		s.logger.ErrorContext(ctx, "xsnapshot: scheduled save failed", slog.Any("error", err))
		return
	}
	s.logger.DebugContext(ctx, "xsnapshot: scheduled save done", slog.Duration("took", time.Since(start)))
}

// Start 在后台启动调度。
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并取消正在进行的保存，等待其结束或 ctx 到期。
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
