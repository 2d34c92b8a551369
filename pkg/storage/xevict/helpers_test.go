package xevict

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var testAnchor = time.Unix(1_700_000_000, 0)

// testEntry 记录 Touch/Unref 调用次数，可通过钩子注入行为。
type testEntry struct {
	size    uint64
	invalid atomic.Bool
	touches atomic.Int32
	unrefs  atomic.Int32

	onTouch func(ctx context.Context)
	onUnref func(ctx context.Context)
}

func newEntry(size uint64) *testEntry {
	return &testEntry{size: size}
}

func (e *testEntry) Len() uint64   { return e.size }
func (e *testEntry) IsEmpty() bool { return e.size == 0 }

func (e *testEntry) Touch(ctx context.Context) bool {
	e.touches.Add(1)
	if e.onTouch != nil {
		e.onTouch(ctx)
	}
	return !e.invalid.Load()
}

func (e *testEntry) Unref(ctx context.Context) {
	e.unrefs.Add(1)
	if e.onUnref != nil {
		e.onUnref(ctx)
	}
}

func newTestMap(t testing.TB, cfg Config, opts ...Option) (*EvictingMap[string, *testEntry], *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testAnchor)
	m, err := New[string, *testEntry](cfg, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	return m, clock
}

// keysOf 返回从新到旧排列的键。
func keysOf(m *EvictingMap[string, *testEntry]) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.lru.Keys()
}

// sumOfPresent 按表内条目重新计算总字节数。
func sumOfPresent(m *EvictingMap[string, *testEntry]) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum uint64
	m.st.lru.Range(func(_ string, item *evictionItem[*testEntry]) bool {
		sum += item.data.Len()
		return true
	})
	return sum
}
