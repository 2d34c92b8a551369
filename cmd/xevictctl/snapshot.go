package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/omeyang/xcas/pkg/config/xconf"
	"github.com/omeyang/xcas/pkg/storage/xevict"
	"github.com/omeyang/xcas/pkg/storage/xsnapshot"
	"github.com/omeyang/xcas/pkg/util/xdigest"
)

// maxSnapshotBytes 单个快照文件的解码上限。
const maxSnapshotBytes = 1 << 30

type digestSnapshot = xevict.Snapshot[xdigest.Digest]

// digestEntry 以摘要中的大小作为条目长度，没有外部引用需要释放。
type digestEntry struct {
	xevict.NopLifecycle
	digest xdigest.Digest
}

func newDigestEntry(d xdigest.Digest) digestEntry { return digestEntry{digest: d} }

func (e digestEntry) Len() uint64   { return e.digest.Len() }
func (e digestEntry) IsEmpty() bool { return e.digest.Len() == 0 }

// newSnapshotCodec 按名称创建带解码上限的快照编码器。
func newSnapshotCodec(name string) (xsnapshot.Codec[digestSnapshot], error) {
	inner, err := xsnapshot.NewCodec[digestSnapshot](name)
	if err != nil {
		return nil, err
	}
	return xsnapshot.Limit[digestSnapshot]{Inner: inner, MaxDecode: maxSnapshotBytes}, nil
}

// restoreFrom 从文件恢复快照到 m。文件不存在视为错误。
func restoreFrom(
	ctx context.Context,
	e *env,
	m *xevict.EvictingMap[xdigest.Digest, digestEntry],
	codec xsnapshot.Codec[digestSnapshot],
	path string,
) error {
	store, err := xsnapshot.NewFileStore(path)
	if err != nil {
		return err
	}
	p, err := xsnapshot.NewPersister(m, store, codec, xsnapshot.WithLogger(e.logger))
	if err != nil {
		return err
	}
	restored, err := p.Restore(ctx, newDigestEntry)
	if err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	if !restored {
		return fmt.Errorf("%s: %w", path, xsnapshot.ErrNotFound)
	}
	return nil
}

func readSnapshot(ctx context.Context, codec xsnapshot.Codec[digestSnapshot], path string) (digestSnapshot, error) {
	store, err := xsnapshot.NewFileStore(path)
	if err != nil {
		return digestSnapshot{}, err
	}
	data, err := store.Load(ctx)
	if err != nil {
		return digestSnapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	snap, err := codec.Decode(data)
	if err != nil {
		return digestSnapshot{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return snap, nil
}

// pruneTarget 描述 prune 的输出位置。
// 优先级：--out，其次配置中的 snapshot 存储，最后覆盖输入文件。
type pruneTarget struct {
	in        string
	out       string
	redisAddr string
}

// open 打开输出存储。返回的 close 函数释放 Redis 连接，总是非 nil。
func (t pruneTarget) open(s xconf.SnapshotSettings, logger *slog.Logger) (xsnapshot.Store, func(), error) {
	if t.out != "" {
		fs, err := xsnapshot.NewFileStore(t.out)
		if err != nil {
			return nil, func() {}, err
		}
		return fs, func() {}, nil
	}

	var client redis.UniversalClient
	closeFn := func() {}
	if t.redisAddr != "" {
		c := redis.NewClient(&redis.Options{Addr: t.redisAddr})
		client = c
		closeFn = func() { _ = c.Close() }
	}
	store, err := s.Store(client, xsnapshot.WithRedisLogger(logger))
	if errors.Is(err, xconf.ErrNoSnapshotStore) {
		var fs *xsnapshot.FileStore
		if fs, err = xsnapshot.NewFileStore(t.in); err == nil {
			store = fs
		}
	}
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	return store, closeFn, nil
}

func storeName(s xsnapshot.Store) string {
	switch st := s.(type) {
	case *xsnapshot.FileStore:
		return st.Path()
	case *xsnapshot.RedisStore:
		return "redis:" + st.Key()
	default:
		return fmt.Sprintf("%T", s)
	}
}
