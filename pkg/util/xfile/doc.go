// Package xfile 提供快照文件读写所需的文件系统工具。
//
//   - SanitizePath：路径格式净化，拒绝空路径、空字节、".." 穿越和目录路径
//   - EnsureDir：确保文件的父目录存在
//   - WriteAtomic：临时文件写入、fsync 后 rename，读者不会看到半写入的文件
//
// WriteAtomic 要求临时文件与目标文件位于同一文件系统，因此临时文件创建在目标目录下。
package xfile
