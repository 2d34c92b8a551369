package xsnapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xcas/pkg/storage/xevict"
	"github.com/omeyang/xcas/pkg/util/xdigest"
)

type blob struct {
	xevict.NopLifecycle
	size uint64
}

func (b *blob) Len() uint64   { return b.size }
func (b *blob) IsEmpty() bool { return b.size == 0 }

func buildBlob(d xdigest.Digest) *blob { return &blob{size: d.Len()} }

func digestOf(s string) xdigest.Digest { return xdigest.FromBytes([]byte(s)) }

// newPopulatedMap 按顺序插入 a、b、c 三个摘要，c 为最新。
func newPopulatedMap(t *testing.T) *xevict.EvictingMap[xdigest.Digest, *blob] {
	t.Helper()
	m, err := xevict.New[xdigest.Digest, *blob](xevict.Config{})
	require.NoError(t, err)
	ctx := context.Background()
	for _, s := range []string{"a", "bb", "ccc"} {
		d := digestOf(s)
		m.Insert(ctx, d, buildBlob(d))
	}
	return m
}

func sampleSnapshot() xevict.Snapshot[xdigest.Digest] {
	return xevict.Snapshot[xdigest.Digest]{
		Items: []xevict.SnapshotItem[xdigest.Digest]{
			{Key: digestOf("ccc"), SecondsSinceAnchor: 12},
			{Key: digestOf("bb"), SecondsSinceAnchor: -3},
			{Key: digestOf("a"), SecondsSinceAnchor: 0},
		},
		AnchorTime: 1_700_000_000,
	}
}
