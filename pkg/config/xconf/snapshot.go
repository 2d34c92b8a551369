package xconf

import (
	"github.com/redis/go-redis/v9"

	"github.com/omeyang/xcas/pkg/storage/xsnapshot"
)

// Store 按配置创建快照存储。
//
// RedisKey 非空且 client 非 nil 时使用 Redis，否则使用 Path。
// 两者都不可用时返回 ErrNoSnapshotStore。
func (s SnapshotSettings) Store(client redis.UniversalClient, opts ...xsnapshot.RedisOption) (xsnapshot.Store, error) {
	if s.RedisKey != "" && client != nil {
		return xsnapshot.NewRedisStore(client, s.RedisKey, opts...)
	}
	if s.Path != "" {
		return xsnapshot.NewFileStore(s.Path)
	}
	return nil, ErrNoSnapshotStore
}

// Scheduler 按 Schedule 创建定时保存的调度器，尚未启动。
// Schedule 为空时返回 nil, nil。
func (s SnapshotSettings) Scheduler(saver xsnapshot.Saver, opts ...xsnapshot.Option) (*xsnapshot.Scheduler, error) {
	if s.Schedule == "" {
		return nil, nil
	}
	return xsnapshot.NewScheduler(saver, s.Schedule, opts...)
}
