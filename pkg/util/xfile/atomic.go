package xfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteAtomic 原子地把 data 写入 filename。
//
// 数据先写入同目录下的临时文件并 fsync，再 rename 覆盖目标文件。
// 任一步失败都会删除临时文件，目标文件保持原状。
func WriteAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	path, err := SanitizePath(filename)
	if err != nil {
		return err
	}
	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("xfile: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("xfile: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, removeIfExists(tmp.Name()))
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("xfile: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("xfile: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("xfile: close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("xfile: chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("xfile: rename temp file: %w", err)
	}
	return nil
}

func removeIfExists(name string) error {
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
