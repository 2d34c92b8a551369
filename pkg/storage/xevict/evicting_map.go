package xevict

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/omeyang/xcas/pkg/util/xlru"
)

// releaseReason 标记条目离开表的原因。
type releaseReason uint8

const (
	reasonEvicted releaseReason = iota
	reasonReplaced
	reasonRemoved
)

func (r releaseReason) String() string {
	switch r {
	case reasonEvicted:
		return "evicted"
	case reasonReplaced:
		return "replaced"
	case reasonRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// evictionItem 是表内的记录。以指针存放，用于提交 Touch 结果时做同一性检查。
type evictionItem[T Entry] struct {
	age  int32  // 相对锚点的秒数
	size uint64 // 插入时的 Len()
	data T
}

type counter struct {
	value       uint64
	lastChanged time.Time
}

type state[K comparable, T Entry] struct {
	lru      *xlru.Ordered[K, *evictionItem[T]]
	sumBytes uint64

	evictedItems  counter
	evictedBytes  uint64
	replacedItems counter
	replacedBytes uint64
	removedItems  counter
	removedBytes  uint64
	insertedBytes uint64
}

// EvictingMap 是按访问顺序淘汰的条目记账表。
// 必须通过 [New] 创建。所有方法都是并发安全的。
type EvictingMap[K comparable, T Entry] struct {
	mu     sync.Mutex
	cfg    Config
	anchor time.Time
	st     state[K, T]

	clock      clockwork.Clock
	logger     *slog.Logger
	touchLimit int
}

// New 创建 EvictingMap。配置非法时返回 Config.Validate 的错误。
func New[K comparable, T Entry](cfg Config, opts ...Option) (*EvictingMap[K, T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	anchor := o.anchor
	if anchor.IsZero() {
		anchor = o.clock.Now()
	}
	logger := o.logger
	if o.name != "" {
		logger = logger.With(slog.String("store", o.name))
	}
	return &EvictingMap[K, T]{
		cfg:        cfg,
		anchor:     anchor.Truncate(time.Second),
		st:         state[K, T]{lru: xlru.New[K, *evictionItem[T]]()},
		clock:      o.clock,
		logger:     logger,
		touchLimit: o.touchLimit,
	}, nil
}

// elapsed 返回锚点至今的秒数，超出 int32 时饱和。调用方必须持有 m.mu。
func (m *EvictingMap[K, T]) elapsed() int32 {
	secs := int64(m.clock.Since(m.anchor) / time.Second)
	switch {
	case secs > math.MaxInt32:
		return math.MaxInt32
	case secs < math.MinInt32:
		return math.MinInt32
	default:
		return int32(secs)
	}
}

// release 更新总量与计数器，并调用 Unref。调用方必须持有 m.mu，且条目已从 lru 中移出。
func (m *EvictingMap[K, T]) release(ctx context.Context, key K, item *evictionItem[T], reason releaseReason) {
	if item.size > m.st.sumBytes {
		panic(fmt.Sprintf("xevict: size accounting underflow: releasing %d of %d bytes", item.size, m.st.sumBytes))
	}
	m.st.sumBytes -= item.size
	now := m.clock.Now()
	switch reason {
	case reasonEvicted:
		m.st.evictedItems.inc(now)
		m.st.evictedBytes += item.size
	case reasonReplaced:
		m.st.replacedItems.inc(now)
		m.st.replacedBytes += item.size
	case reasonRemoved:
		m.st.removedItems.inc(now)
		m.st.removedBytes += item.size
	}
	if m.logger.Enabled(ctx, slog.LevelDebug) {
		m.logger.DebugContext(ctx, "xevict: entry released",
			slog.Any("key", key),
			slog.String("reason", reason.String()),
			slog.Uint64("bytes", item.size),
		)
	}
	item.data.Unref(ctx)
}

func (c *counter) inc(now time.Time) {
	c.value++
	c.lastChanged = now
}

// dropIfSame 在 Touch 失败后移除条目，仅当表中仍是同一条目时生效。调用方必须持有 m.mu。
func (m *EvictingMap[K, T]) dropIfSame(ctx context.Context, key K, item *evictionItem[T]) {
	cur, ok := m.st.lru.Peek(key)
	if !ok || cur != item {
		return
	}
	m.st.lru.Pop(key)
	m.logger.InfoContext(ctx, "xevict: touch failed, dropping entry", slog.Any("key", key))
	m.release(ctx, key, item, reasonEvicted)
}

// Get 返回键对应的条目并将其提升为最新。
//
// Touch 在锁外调用。Touch 返回 false 时移除该条目并返回 false。
func (m *EvictingMap[K, T]) Get(ctx context.Context, key K) (T, bool) {
	var zero T
	m.mu.Lock()
	m.evictItems(ctx)
	item, ok := m.st.lru.Get(key)
	m.mu.Unlock()
	if !ok {
		return zero, false
	}

	if item.data.Touch(ctx) {
		return item.data, true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropIfSame(ctx, key, item)
	return zero, false
}

// Insert 以当前时刻插入条目。键已存在时返回被替换的旧条目和 true。
func (m *EvictingMap[K, T]) Insert(ctx context.Context, key K, data T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return first(m.insertMany(ctx, []Pair[K, T]{{Key: key, Data: data}}, m.elapsed()))
}

// InsertWithTime 以指定的相对锚点秒数插入条目。
func (m *EvictingMap[K, T]) InsertWithTime(ctx context.Context, key K, data T, secondsSinceAnchor int32) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return first(m.insertMany(ctx, []Pair[K, T]{{Key: key, Data: data}}, secondsSinceAnchor))
}

// InsertMany 按顺序插入多个条目，返回被替换的旧条目。
// 每次插入后都会执行一次淘汰。空输入直接返回，不加锁。
func (m *EvictingMap[K, T]) InsertMany(ctx context.Context, pairs []Pair[K, T]) []T {
	if len(pairs) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertMany(ctx, pairs, m.elapsed())
}

func (m *EvictingMap[K, T]) insertMany(ctx context.Context, pairs []Pair[K, T], age int32) []T {
	var replaced []T
	for _, p := range pairs {
		item := &evictionItem[T]{age: age, size: p.Data.Len(), data: p.Data}
		if old, ok := m.st.lru.Put(p.Key, item); ok {
			m.release(ctx, p.Key, old, reasonReplaced)
			replaced = append(replaced, old.data)
		}
		m.st.sumBytes += item.size
		m.st.insertedBytes += item.size
		m.evictItems(ctx)
	}
	return replaced
}

func first[T any](items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[0], true
}

// Remove 先执行淘汰，再移除键。返回 true 表示键存在并被移除。
func (m *EvictingMap[K, T]) Remove(ctx context.Context, key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(ctx, key)
}

// RemoveIf 在同一次加锁内检查条件并移除。pred 返回 false 时不做任何修改。
// pred 在锁内执行，不得回调本表。
func (m *EvictingMap[K, T]) RemoveIf(ctx context.Context, key K, pred func(T) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.st.lru.Peek(key)
	if !ok || !pred(item.data) {
		return false
	}
	return m.remove(ctx, key)
}

func (m *EvictingMap[K, T]) remove(ctx context.Context, key K) bool {
	m.evictItems(ctx)
	item, ok := m.st.lru.Pop(key)
	if !ok {
		return false
	}
	m.release(ctx, key, item, reasonRemoved)
	return true
}

// Len 返回当前条目数。
func (m *EvictingMap[K, T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.lru.Len()
}

// Config 返回当前生效的配置。
func (m *EvictingMap[K, T]) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// SetConfig 替换淘汰上限并立即执行一次淘汰。配置非法时不做修改。
func (m *EvictingMap[K, T]) SetConfig(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	m.evictItems(ctx)
	return nil
}

// AnchorTime 返回当前锚点。
func (m *EvictingMap[K, T]) AnchorTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.anchor
}
