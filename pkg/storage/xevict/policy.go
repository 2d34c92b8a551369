package xevict

import "context"

// shouldEvict 判断给定候选条目是否应被淘汰。
// n 与 sumBytes 是调用方视角下的条目数与总字节数，maxBytes 是本轮生效的字节上限，
// age 是候选条目相对锚点的秒数，elapsed 是锚点至今的秒数。
// 字节限制是否启用只看 c.MaxBytes，滞回目标为 0 时淘汰到空。
func (c Config) shouldEvict(n int, age int32, sumBytes, maxBytes uint64, elapsed int32) bool {
	overSize := c.MaxBytes != 0 && sumBytes >= maxBytes
	overAge := c.MaxSeconds != 0 && int64(age) < int64(elapsed)-int64(c.MaxSeconds)
	overCount := c.MaxCount != 0 && uint64(n) > c.MaxCount
	return overSize || overAge || overCount
}

// shrinkTarget 返回本轮淘汰的字节上限。
// 原始字节上限已被突破且配置了滞回量时，目标降为 MaxBytes-EvictBytes。
func (c Config) shrinkTarget(sumBytes uint64) uint64 {
	if c.MaxBytes == 0 || c.EvictBytes == 0 || sumBytes < c.MaxBytes {
		return c.MaxBytes
	}
	if c.EvictBytes >= c.MaxBytes {
		return 0
	}
	return c.MaxBytes - c.EvictBytes
}

// evictItems 从最旧的一端连续淘汰，直到策略不再触发。调用方必须持有 m.mu。
func (m *EvictingMap[K, T]) evictItems(ctx context.Context) {
	if m.st.lru.Len() == 0 {
		return
	}
	maxBytes := m.cfg.shrinkTarget(m.st.sumBytes)
	elapsed := m.elapsed()
	for {
		key, item, ok := m.st.lru.Oldest()
		if !ok || !m.cfg.shouldEvict(m.st.lru.Len(), item.age, m.st.sumBytes, maxBytes, elapsed) {
			return
		}
		if _, _, popped := m.st.lru.PopOldest(); !popped {
			panic("xevict: oldest entry vanished between peek and pop")
		}
		m.release(ctx, key, item, reasonEvicted)
	}
}
