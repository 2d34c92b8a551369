package xfile

import (
	"os"
	"path/filepath"
)

// DefaultDirPerm 默认目录权限（所有者 rwx，组 r-x）。
const DefaultDirPerm = 0750

// EnsureDir 确保文件的父目录存在。目录已存在时不报错，也不修改其权限。
func EnsureDir(filename string) error {
	if filename == "" {
		return ErrEmptyPath
	}
	if containsNullByte(filename) {
		return ErrNullByte
	}
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, DefaultDirPerm)
}
