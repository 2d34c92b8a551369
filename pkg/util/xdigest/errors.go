package xdigest

import "errors"

var (
	// ErrInvalidFormat 表示文本不符合 "<hash>-<size>" 格式。
	ErrInvalidFormat = errors.New("xdigest: invalid digest format")

	// ErrInvalidHash 表示哈希部分不是 64 位十六进制。
	ErrInvalidHash = errors.New("xdigest: invalid hash")

	// ErrInvalidSize 表示大小部分不是非负整数。
	ErrInvalidSize = errors.New("xdigest: invalid size")
)
