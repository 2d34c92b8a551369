package xconf

import (
	"fmt"

	"github.com/omeyang/xcas/pkg/storage/xevict"
	"github.com/omeyang/xcas/pkg/storage/xsnapshot"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Settings 是 xcas 的完整运行配置。
type Settings struct {
	Eviction xevict.Config    `koanf:"eviction"`
	Snapshot SnapshotSettings `koanf:"snapshot"`
}

// SnapshotSettings 描述快照的持久化方式。
type SnapshotSettings struct {
	// Path 快照文件路径。为空表示不落盘。
	Path string `koanf:"path"`

	// Codec 编码名称：json、cbor 或 msgpack。
	Codec string `koanf:"codec"`

	// Schedule 定时保存的 cron 表达式，支持可选秒字段和 @every。为空表示不定时保存。
	Schedule string `koanf:"schedule"`

	// RedisKey 快照在 Redis 中的 key。为空表示不写 Redis。
	RedisKey string `koanf:"redis_key"`
}

// Defaults 返回默认配置：不限制淘汰，快照使用 CBOR 编码。
func Defaults() Settings {
	return Settings{
		Snapshot: SnapshotSettings{
			Codec: xsnapshot.CodecCBOR,
		},
	}
}

// Validate 检查配置是否合法。
func (s Settings) Validate() error {
	if err := s.Eviction.Validate(); err != nil {
		return fmt.Errorf("%w: eviction: %w", ErrInvalidSettings, err)
	}
	switch s.Snapshot.Codec {
	case xsnapshot.CodecJSON, xsnapshot.CodecCBOR, xsnapshot.CodecMsgpack:
	default:
		return fmt.Errorf("%w: snapshot codec %q: %w", ErrInvalidSettings, s.Snapshot.Codec, xsnapshot.ErrUnknownCodec)
	}
	if s.Snapshot.Schedule != "" {
		if err := xsnapshot.ValidateSchedule(s.Snapshot.Schedule); err != nil {
			return fmt.Errorf("%w: snapshot: %w", ErrInvalidSettings, err)
		}
	}
	return nil
}
