// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xdigest: 内容摘要（SHA-256 + 字节数），可比较、可排序，支持文本与二进制编码
//   - xfile: 文件操作工具，路径校验、目录创建、原子写入
//   - xlru: 无容量上限的有序 LRU 表，供调用方自行决定淘汰
//
// 设计原则：
//   - 安全处理路径遍历
//   - 零值与错误语义明确
package util
