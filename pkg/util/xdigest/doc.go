// Package xdigest 定义内容寻址存储使用的摘要键。
//
// Digest 由 SHA-256 哈希与内容字节数组成，可比较、可作为 map 键，
// 具有全序（先比较哈希字节，再比较大小）。
//
// 文本形式为 "<64 位小写十六进制>-<字节数>"，二进制形式为
// 32 字节哈希加 8 字节大端序大小，供 CBOR/msgpack 等编解码器使用。
package xdigest
