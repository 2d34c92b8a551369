// Package xevict 提供内容寻址存储的淘汰记账表 EvictingMap。
//
// EvictingMap 不保存任何字节内容，只记录"哪些条目存在、各自多大、
// 最近何时被访问"，并按字节数、年龄、条目数三类上限驱动淘汰，
// 在条目永久离开时调用其 Unref 释放外部资源。
//
// # 核心特性
//
//   - 泛型键：任意 comparable 类型，典型用法是 xdigest.Digest
//   - 三类上限：MaxBytes / MaxSeconds / MaxCount，0 表示不限制
//   - 字节滞回：超出 MaxBytes 时一次淘汰到 MaxBytes-EvictBytes 以下，避免边界抖动
//   - 生命周期：读路径调用 Touch 复核有效性，离开时恰好调用一次 Unref
//   - 批量查询：SizesForKeys 一次加锁评估多个键，Touch 并发执行
//   - 快照：BuildSnapshot / RestoreSnapshot 以锚点时间加相对秒数保存顺序元数据
//   - 指标：Stats 读取全部计数，RegisterMetrics 导出为 OpenTelemetry 可观测指标
//
// # 并发模型
//
// 所有操作共享一把互斥锁。淘汰、删除、替换时的 Unref 在锁内同步调用，
// 因此 Unref 执行期间整张表不会发生任何插入或删除。
//
// 唯一的例外是 Get：它在锁外调用 Touch，Touch 失败后重新加锁，
// 仅当表中仍是同一个条目时才移除。期间若该键已被替换或淘汰，清理静默跳过。
//
// # 年龄与锚点
//
// 条目年龄以"相对锚点的秒数"（int32）记录。锚点默认为创建时刻（截断到秒），
// 快照中保存锚点的 Unix 秒数，恢复时替换锚点，因此跨重启的年龄语义不变。
//
// # 注意事项
//
//   - RestoreSnapshot 会替换锚点，调用方需保证恢复期间没有其他依赖锚点的操作
//   - InsertMany 在每次插入后都执行一次淘汰，而不是整批插入后执行一次
//   - 条目大小在插入时记录，之后 Len() 的变化不影响记账
package xevict
