package xfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{name: "创建多层目录", filename: filepath.Join(tmpDir, "a", "b", "snap.json")},
		{name: "目录已存在", filename: filepath.Join(tmpDir, "snap.json")},
		{name: "当前目录文件", filename: "snap.json"},
		{name: "空路径", filename: "", wantErr: ErrEmptyPath},
		{name: "空字节", filename: "a\x00/b", wantErr: ErrNullByte},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureDir(tt.filename)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("EnsureDir(%q) = %v, want %v", tt.filename, err, tt.wantErr)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "a", "b")); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "snap.json")

	t.Run("创建新文件", func(t *testing.T) {
		if err := WriteAtomic(path, []byte("v1"), 0o600); err != nil {
			t.Fatalf("WriteAtomic: %v", err)
		}
		assertFile(t, path, "v1")
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("perm = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("覆盖已有文件", func(t *testing.T) {
		if err := WriteAtomic(path, []byte("v2"), 0o600); err != nil {
			t.Fatalf("WriteAtomic: %v", err)
		}
		assertFile(t, path, "v2")
	})

	t.Run("不遗留临时文件", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(path))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only target file, got %d entries", len(entries))
		}
	})

	t.Run("非法路径", func(t *testing.T) {
		if err := WriteAtomic("../escape", nil, 0o600); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("expected ErrPathTraversal, got %v", err)
		}
	})

	t.Run("目标是目录时失败并清理", func(t *testing.T) {
		target := filepath.Join(dir, "isdir")
		if err := os.MkdirAll(filepath.Join(target, "child"), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := WriteAtomic(target, []byte("x"), 0o600); err == nil {
			t.Fatal("expected rename onto non-empty directory to fail")
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if filepath.Ext(e.Name()) != "" && e.Name()[0] == '.' {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}
