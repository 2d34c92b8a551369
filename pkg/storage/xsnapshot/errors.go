package xsnapshot

import "errors"

var (
	// ErrNotFound 表示存储中没有快照。
	ErrNotFound = errors.New("xsnapshot: snapshot not found")

	// ErrUnknownCodec 表示编解码器名称未知。
	ErrUnknownCodec = errors.New("xsnapshot: unknown codec")

	// ErrPayloadTooLarge 表示待解码数据超过上限。
	ErrPayloadTooLarge = errors.New("xsnapshot: payload too large")

	// ErrNilMap 表示未提供 EvictingMap。
	ErrNilMap = errors.New("xsnapshot: map must not be nil")

	// ErrNilStore 表示未提供 Store。
	ErrNilStore = errors.New("xsnapshot: store must not be nil")

	// ErrNilCodec 表示未提供 Codec。
	ErrNilCodec = errors.New("xsnapshot: codec must not be nil")

	// ErrNilClient 表示未提供 Redis 客户端。
	ErrNilClient = errors.New("xsnapshot: redis client must not be nil")

	// ErrUnavailable 表示 Redis 熔断器处于打开状态，请求未发出。
	ErrUnavailable = errors.New("xsnapshot: redis store unavailable")

	// ErrEmptyKey 表示 Redis 键为空。
	ErrEmptyKey = errors.New("xsnapshot: redis key must not be empty")

	// ErrNilSaver 表示 Scheduler 未提供 Saver。
	ErrNilSaver = errors.New("xsnapshot: saver must not be nil")
)
