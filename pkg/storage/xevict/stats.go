package xevict

import (
	"slices"
	"time"
)

// maxSizeSamples 是条目大小分布统计的最大采样数（从最新条目开始）。
const maxSizeSamples = 1_000_000

// Counter 是单调计数及其最后变化时间。
type Counter struct {
	Value       uint64
	LastChanged time.Time
}

// SizeStats 是条目大小分布。
type SizeStats struct {
	Count int
	Min   uint64
	Max   uint64
	Mean  float64
	P50   uint64
	P90   uint64
	P99   uint64
}

// Stats 是 EvictingMap 的一次完整读数。
type Stats struct {
	MaxBytes        uint64
	EvictBytes      uint64
	MaxSeconds      uint32
	MaxCount        uint64
	AnchorTimestamp int64

	SumStoreSizeBytes uint64
	ItemsInStore      int

	// OldestItemTimestamp 与 NewestItemTimestamp 为 Unix 秒数，表为空时为 -1。
	OldestItemTimestamp int64
	NewestItemTimestamp int64

	EvictedItems          Counter
	EvictedBytes          uint64
	ReplacedItems         Counter
	ReplacedBytes         uint64
	RemovedItems          Counter
	RemovedBytes          uint64
	LifetimeInsertedBytes uint64

	ItemSize SizeStats
}

// Stats 返回当前读数。
func (m *EvictingMap[K, T]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	anchor := m.anchor.Unix()
	s := Stats{
		MaxBytes:              m.cfg.MaxBytes,
		EvictBytes:            m.cfg.EvictBytes,
		MaxSeconds:            m.cfg.MaxSeconds,
		MaxCount:              m.cfg.MaxCount,
		AnchorTimestamp:       anchor,
		SumStoreSizeBytes:     m.st.sumBytes,
		ItemsInStore:          m.st.lru.Len(),
		OldestItemTimestamp:   -1,
		NewestItemTimestamp:   -1,
		EvictedItems:          m.st.evictedItems.export(),
		EvictedBytes:          m.st.evictedBytes,
		ReplacedItems:         m.st.replacedItems.export(),
		ReplacedBytes:         m.st.replacedBytes,
		RemovedItems:          m.st.removedItems.export(),
		RemovedBytes:          m.st.removedBytes,
		LifetimeInsertedBytes: m.st.insertedBytes,
	}
	if _, oldest, ok := m.st.lru.Oldest(); ok {
		s.OldestItemTimestamp = anchor + int64(oldest.age)
	}

	// 分布使用插入时记录的大小，与 SumStoreSizeBytes 口径一致
	items := m.st.lru.Newest(maxSizeSamples)
	if len(items) > 0 {
		s.NewestItemTimestamp = anchor + int64(items[0].age)
	}
	sizes := make([]uint64, len(items))
	for i, item := range items {
		sizes[i] = item.size
	}
	s.ItemSize = summarize(sizes)
	return s
}

func (c counter) export() Counter {
	return Counter{Value: c.value, LastChanged: c.lastChanged}
}

// summarize 计算分布，会原地排序 sizes。
func summarize(sizes []uint64) SizeStats {
	if len(sizes) == 0 {
		return SizeStats{}
	}
	slices.Sort(sizes)
	var total float64
	for _, v := range sizes {
		total += float64(v)
	}
	return SizeStats{
		Count: len(sizes),
		Min:   sizes[0],
		Max:   sizes[len(sizes)-1],
		Mean:  total / float64(len(sizes)),
		P50:   percentile(sizes, 50),
		P90:   percentile(sizes, 90),
		P99:   percentile(sizes, 99),
	}
}

// percentile 使用最近秩法，sorted 必须非空且已排序。
func percentile(sorted []uint64, p int) uint64 {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
