package xevict

import (
	"context"
	"time"
)

// Snapshot 是表的顺序元数据快照。
// Items 按访问顺序排列，最新在前；AnchorTime 是锚点的 Unix 秒数。
type Snapshot[K comparable] struct {
	Items      []SnapshotItem[K] `json:"items" cbor:"items" msgpack:"items"`
	AnchorTime uint64            `json:"anchor_time" cbor:"anchor_time" msgpack:"anchor_time"`
}

// SnapshotItem 是快照中的一条记录。
type SnapshotItem[K comparable] struct {
	Key                K     `json:"key" cbor:"key" msgpack:"key"`
	SecondsSinceAnchor int32 `json:"seconds_since_anchor" cbor:"seconds_since_anchor" msgpack:"seconds_since_anchor"`
}

// BuildSnapshot 先执行淘汰，再按从新到旧的顺序导出全部条目。
func (m *EvictingMap[K, T]) BuildSnapshot(ctx context.Context) Snapshot[K] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictItems(ctx)

	snap := Snapshot[K]{
		Items:      make([]SnapshotItem[K], 0, m.st.lru.Len()),
		AnchorTime: uint64(max(m.anchor.Unix(), 0)),
	}
	m.st.lru.Range(func(key K, item *evictionItem[T]) bool {
		snap.Items = append(snap.Items, SnapshotItem[K]{Key: key, SecondsSinceAnchor: item.age})
		return true
	})
	return snap
}

// RestoreSnapshot 用快照替换表内容。
//
// 锚点替换为快照中的锚点；现有条目以"删除"原因释放；快照条目通过 build 构造后
// 按原顺序恢复，最后执行一次淘汰清理已过期的条目。
// 恢复不计入累计插入字节数。调用方需保证恢复期间没有其他依赖锚点的并发操作。
func (m *EvictingMap[K, T]) RestoreSnapshot(ctx context.Context, snap Snapshot[K], build func(K) T) error {
	if build == nil {
		return ErrNilEntryBuilder
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.anchor = time.Unix(int64(snap.AnchorTime), 0)
	for {
		key, item, ok := m.st.lru.PopOldest()
		if !ok {
			break
		}
		m.release(ctx, key, item, reasonRemoved)
	}

	// 从最旧的一端插入，Put 的提升语义使最终顺序与快照一致
	for i := len(snap.Items) - 1; i >= 0; i-- {
		rec := snap.Items[i]
		data := build(rec.Key)
		item := &evictionItem[T]{age: rec.SecondsSinceAnchor, size: data.Len(), data: data}
		if old, ok := m.st.lru.Put(rec.Key, item); ok {
			m.release(ctx, rec.Key, old, reasonReplaced)
		}
		m.st.sumBytes += item.size
	}
	m.evictItems(ctx)
	return nil
}
