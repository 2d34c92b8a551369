// Package storage 提供内容寻址存储的元数据子包。
//
// 子包列表：
//   - xevict: 按字节、年龄、数量淘汰的并发安全 LRU 表，负责条目生命周期与指标
//   - xsnapshot: 表顺序快照的编解码、文件/Redis 存储、带追踪的保存恢复与定时保存
//
// 设计原则：
//   - 表本身不做 I/O，持久化由 xsnapshot 在锁外完成
//   - 内置可观测性（指标、追踪）
//   - 存储后端通过接口替换
package storage
