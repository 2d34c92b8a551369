package xevict

import "math"

// Config 定义淘汰上限。所有字段为 0 表示不启用对应限制。
type Config struct {
	// MaxBytes 条目总字节数上限。总量达到该值即触发淘汰。
	MaxBytes uint64 `koanf:"max_bytes" json:"max_bytes" yaml:"max_bytes"`

	// EvictBytes 超出 MaxBytes 时额外腾出的字节数（滞回量）。
	// 仅在 MaxBytes 非 0 时生效；不小于 MaxBytes 时一次淘汰到空。
	EvictBytes uint64 `koanf:"evict_bytes" json:"evict_bytes" yaml:"evict_bytes"`

	// MaxSeconds 条目最大年龄（秒）。
	MaxSeconds uint32 `koanf:"max_seconds" json:"max_seconds" yaml:"max_seconds"`

	// MaxCount 最大条目数。
	MaxCount uint64 `koanf:"max_count" json:"max_count" yaml:"max_count"`
}

// Validate 检查配置是否合法。
func (c Config) Validate() error {
	if c.MaxSeconds > math.MaxInt32 {
		return ErrMaxSecondsOverflow
	}
	return nil
}
