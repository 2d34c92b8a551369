// Package xsnapshot 持久化 xevict.EvictingMap 的快照。
//
// 快照只包含键、相对锚点的秒数与锚点时间，不包含条目内容。
// 本包负责把快照编码为字节并保存到外部存储，进程重启后再恢复到表中。
//
// # 组成
//
//   - Codec：快照编解码，内置 JSON、CBOR（RFC 8949 确定性编码）与 msgpack
//   - Store：字节级存储，内置 FileStore（原子写文件）与 RedisStore（带重试）
//   - Persister：组合表、编解码器与存储，提供带追踪的 Save / Restore
//   - Scheduler：基于 cron 表达式周期性调用 Save
//
// # 快速开始
//
//	store, _ := xsnapshot.NewFileStore("/var/lib/cas/lru.cbor")
//	codec, _ := xsnapshot.NewCodec[xevict.Snapshot[xdigest.Digest]](xsnapshot.CodecCBOR)
//	p, _ := xsnapshot.NewPersister(m, store, codec)
//	restored, err := p.Restore(ctx, buildEntry)
//	...
//	sched, _ := xsnapshot.NewScheduler(p, "@every 5m")
//	sched.Start()
//	defer sched.Stop(ctx)
//
// # 注意事项
//
//   - 编码与 I/O 均在表锁之外进行，Save 只在 BuildSnapshot 期间短暂持锁
//   - Restore 会替换表的锚点，调用方需保证恢复期间没有其他依赖锚点的并发操作
//   - 存储中没有快照时 Restore 返回 (false, nil)
package xsnapshot
