package xevict

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SizeForKey 返回单个键的条目大小。是 SizesForKeys 的单键形式。
func (m *EvictingMap[K, T]) SizeForKey(ctx context.Context, key K) (uint64, bool) {
	r := m.SizesForKeys(ctx, []K{key})[0]
	return r.Size, r.Found
}

// SizesForKeys 批量返回键对应的条目大小，结果与 keys 一一对应。
//
// 整个调用持有一次锁。每个键按策略分类：应保留的条目并发调用 Touch，
// 应淘汰的条目在 Touch 进行的同时被移出并 Unref。分类时使用局部的
// 条目数与总字节数递减，后续键看到的是"前面的候选已被淘汰"的视图，
// 避免批量查询在字节上限附近引发整表级联淘汰。
func (m *EvictingMap[K, T]) SizesForKeys(ctx context.Context, keys []K) []Lookup {
	results := make([]Lookup, len(keys))
	if len(keys) == 0 {
		return results
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	type touchJob struct {
		idx  int
		item *evictionItem[T]
	}
	var (
		touches  []touchJob
		removals []K
		n        = m.st.lru.Len()
		sum      = m.st.sumBytes
		elapsed  = m.elapsed()
	)
	for i, key := range keys {
		item, ok := m.st.lru.Get(key)
		if !ok {
			continue
		}
		if m.cfg.shouldEvict(n, item.age, sum, m.cfg.MaxBytes, elapsed) {
			sum = subSat(sum, item.size)
			n--
			removals = append(removals, key)
			continue
		}
		touches = append(touches, touchJob{idx: i, item: item})
	}

	touched := make([]bool, len(touches))
	var g errgroup.Group
	g.SetLimit(m.touchLimit)
	for j, job := range touches {
		g.Go(func() error {
			touched[j] = job.item.data.Touch(ctx)
			return nil
		})
	}

	for _, key := range removals {
		if item, ok := m.st.lru.Pop(key); ok {
			m.release(ctx, key, item, reasonEvicted)
		}
	}

	_ = g.Wait() // Touch 不返回错误

	for j, job := range touches {
		key := keys[job.idx]
		if !touched[j] {
			m.dropIfSame(ctx, key, job.item)
			continue
		}
		// 同一批次中重复出现的键可能已被移出
		if cur, ok := m.st.lru.Peek(key); ok && cur == job.item {
			results[job.idx] = Lookup{Size: job.item.data.Len(), Found: true}
		}
	}
	return results
}

func subSat(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
