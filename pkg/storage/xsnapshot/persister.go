package xsnapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xcas/pkg/storage/xevict"
)

// Span 名称与属性键。
const (
	SpanSave    = "xsnapshot.save"
	SpanRestore = "xsnapshot.restore"

	attrItems   = "xsnapshot.items"
	attrBytes   = "xsnapshot.bytes"
	attrSkipped = "xsnapshot.skipped"
)

// Persister 在 EvictingMap 与 Store 之间保存和恢复快照。
type Persister[K comparable, T xevict.Entry] struct {
	m      *xevict.EvictingMap[K, T]
	store  Store
	codec  Codec[xevict.Snapshot[K]]
	tracer trace.Tracer
	logger *slog.Logger

	skipUnchanged bool

	// saveMu 串行化 Save，保证 lastSum 与存储内容一致。
	saveMu  sync.Mutex
	lastSum uint64
	saved   bool
}

// NewPersister 创建 Persister。
func NewPersister[K comparable, T xevict.Entry](
	m *xevict.EvictingMap[K, T],
	store Store,
	codec Codec[xevict.Snapshot[K]],
	opts ...Option,
) (*Persister[K, T], error) {
	if m == nil {
		return nil, ErrNilMap
	}
	if store == nil {
		return nil, ErrNilStore
	}
	if codec == nil {
		return nil, ErrNilCodec
	}
	o := applyOptions(opts)
	return &Persister[K, T]{
		m:      m,
		store:  store,
		codec:  codec,
		tracer: o.tracerProvider.Tracer(instrumentationName),
		logger: o.logger,

		skipUnchanged: o.skipUnchanged,
	}, nil
}

// Save 构建快照、编码并写入存储。
// 启用 WithSkipUnchanged 时，编码结果与上次成功保存的相同则不写存储。
func (p *Persister[K, T]) Save(ctx context.Context) (err error) {
	ctx, span := p.tracer.Start(ctx, SpanSave)
	defer func() { endSpan(span, err) }()

	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	snap := p.m.BuildSnapshot(ctx)
	data, err := p.codec.Encode(snap)
	if err != nil {
		return fmt.Errorf("xsnapshot: encode: %w", err)
	}
	span.SetAttributes(
		attribute.Int(attrItems, len(snap.Items)),
		attribute.Int(attrBytes, len(data)),
	)

	sum := xxhash.Sum64(data)
	if p.skipUnchanged && p.saved && sum == p.lastSum {
		span.SetAttributes(attribute.Bool(attrSkipped, true))
		p.logger.DebugContext(ctx, "xsnapshot: snapshot unchanged, skip saving")
		return nil
	}
	if err := p.store.Save(ctx, data); err != nil {
		return err
	}
	p.lastSum, p.saved = sum, true
	p.logger.DebugContext(ctx, "xsnapshot: snapshot saved",
		slog.Int("items", len(snap.Items)),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// Restore 读取快照并恢复到表中，build 为每个键构造条目。
// 存储中没有快照时返回 (false, nil)，表保持不变。
func (p *Persister[K, T]) Restore(ctx context.Context, build func(K) T) (restored bool, err error) {
	ctx, span := p.tracer.Start(ctx, SpanRestore)
	defer func() { endSpan(span, err) }()

	data, err := p.store.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		span.SetAttributes(attribute.Int(attrItems, 0))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	snap, err := p.codec.Decode(data)
	if err != nil {
		return false, fmt.Errorf("xsnapshot: decode: %w", err)
	}
	span.SetAttributes(
		attribute.Int(attrItems, len(snap.Items)),
		attribute.Int(attrBytes, len(data)),
	)
	if err := p.m.RestoreSnapshot(ctx, snap, build); err != nil {
		return false, err
	}
	p.logger.InfoContext(ctx, "xsnapshot: snapshot restored",
		slog.Int("items", len(snap.Items)),
		slog.Int("live", p.m.Len()),
	)
	return true, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
