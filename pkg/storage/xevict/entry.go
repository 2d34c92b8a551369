package xevict

import "context"

// Entry 是 EvictingMap 管理的条目句柄。
//
// 句柄通常是指针，可能同时被表外的多个持有者引用。
// 表只在条目永久离开（淘汰、删除、被替换）时调用一次 Unref。
type Entry interface {
	// Len 返回条目引用的字节数，必须快速且无阻塞。
	Len() uint64

	// IsEmpty 报告条目是否为零长度。
	IsEmpty() bool

	// Touch 在读路径上复核条目有效性。返回 false 时条目会被移出表。
	Touch(ctx context.Context) bool

	// Unref 在条目离开表时调用，恰好一次。
	// 调用期间表内不会发生任何插入或删除，实现中不得回调本表。
	Unref(ctx context.Context)
}

// NopLifecycle 提供 Touch 恒为 true、Unref 无操作的默认实现，可嵌入条目类型。
type NopLifecycle struct{}

// Touch 总是返回 true。
func (NopLifecycle) Touch(context.Context) bool { return true }

// Unref 无操作。
func (NopLifecycle) Unref(context.Context) {}

// Pair 是 InsertMany 的一个输入项。
type Pair[K comparable, T Entry] struct {
	Key  K
	Data T
}

// Lookup 是 SizesForKeys 对单个键的结果。
type Lookup struct {
	Size  uint64
	Found bool
}
