package xevict_test

import (
	"context"
	"fmt"

	"github.com/omeyang/xcas/pkg/storage/xevict"
	"github.com/omeyang/xcas/pkg/util/xdigest"
)

// blob 是只记录大小的条目，生命周期钩子使用默认实现。
type blob struct {
	xevict.NopLifecycle
	size uint64
}

func (b *blob) Len() uint64   { return b.size }
func (b *blob) IsEmpty() bool { return b.size == 0 }

func Example() {
	ctx := context.Background()
	m, err := xevict.New[xdigest.Digest, *blob](xevict.Config{MaxBytes: 100, EvictBytes: 20})
	if err != nil {
		panic(err)
	}

	a := xdigest.FromBytes([]byte("a"))
	b := xdigest.FromBytes([]byte("b"))
	m.Insert(ctx, a, &blob{size: 60})
	m.Insert(ctx, b, &blob{size: 50})

	for _, r := range m.SizesForKeys(ctx, []xdigest.Digest{a, b}) {
		fmt.Println(r.Found, r.Size)
	}
	fmt.Println("items:", m.Len())

	// Output:
	// false 0
	// true 50
	// items: 1
}

func ExampleEvictingMap_RestoreSnapshot() {
	ctx := context.Background()
	src, _ := xevict.New[string, *blob](xevict.Config{})
	src.Insert(ctx, "x", &blob{size: 1})
	src.Insert(ctx, "y", &blob{size: 2})

	snap := src.BuildSnapshot(ctx)

	dst, _ := xevict.New[string, *blob](xevict.Config{})
	if err := dst.RestoreSnapshot(ctx, snap, func(string) *blob { return &blob{size: 1} }); err != nil {
		panic(err)
	}
	for _, item := range dst.BuildSnapshot(ctx).Items {
		fmt.Println(item.Key)
	}

	// Output:
	// y
	// x
}
