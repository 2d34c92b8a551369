package xsnapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/omeyang/xcas/pkg/util/xfile"
)

// Store 是快照的字节级存储。
type Store interface {
	// Save 覆盖保存快照。
	Save(ctx context.Context, data []byte) error

	// Load 读取快照。没有快照时返回 ErrNotFound。
	Load(ctx context.Context) ([]byte, error)
}

// defaultFilePerm 快照文件权限。
const defaultFilePerm = 0o600

// FileStore 把快照保存为本地文件。写入是原子的。
type FileStore struct {
	path string
}

// NewFileStore 创建 FileStore。路径会经过 xfile.SanitizePath 校验。
func NewFileStore(path string) (*FileStore, error) {
	cleaned, err := xfile.SanitizePath(path)
	if err != nil {
		return nil, fmt.Errorf("xsnapshot: invalid path: %w", err)
	}
	return &FileStore{path: cleaned}, nil
}

// Path 返回规范化后的文件路径。
func (s *FileStore) Path() string {
	return s.path
}

// Save 实现 Store。
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return xfile.WriteAtomic(s.path, data, defaultFilePerm)
}

// Load 实现 Store。
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("xsnapshot: read %s: %w", s.path, err)
	}
	return data, nil
}
