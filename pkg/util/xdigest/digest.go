package xdigest

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// HashSize 是哈希字节数。
const HashSize = sha256.Size

// binarySize 是二进制编码长度。
const binarySize = HashSize + 8

// Digest 是内容摘要：哈希加内容大小。零值表示空摘要。
type Digest struct {
	Hash      [HashSize]byte
	SizeBytes int64
}

// New 由哈希与大小构造 Digest。
func New(hash [HashSize]byte, size int64) Digest {
	return Digest{Hash: hash, SizeBytes: size}
}

// FromBytes 计算内容的 SHA-256 摘要。
func FromBytes(data []byte) Digest {
	return Digest{Hash: sha256.Sum256(data), SizeBytes: int64(len(data))}
}

// Parse 解析 "<hash>-<size>" 形式的文本。
func Parse(s string) (Digest, error) {
	hashPart, sizePart, ok := strings.Cut(s, "-")
	if !ok {
		return Digest{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	var d Digest
	if len(hashPart) != hex.EncodedLen(HashSize) {
		return Digest{}, fmt.Errorf("%w: %q", ErrInvalidHash, hashPart)
	}
	if _, err := hex.Decode(d.Hash[:], []byte(hashPart)); err != nil {
		return Digest{}, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	size, err := strconv.ParseInt(sizePart, 10, 64)
	if err != nil || size < 0 {
		return Digest{}, fmt.Errorf("%w: %q", ErrInvalidSize, sizePart)
	}
	d.SizeBytes = size
	return d, nil
}

// MustParse 同 Parse，失败时 panic。仅用于测试与常量。
func MustParse(s string) Digest {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// HashString 返回哈希的十六进制形式。
func (d Digest) HashString() string {
	return hex.EncodeToString(d.Hash[:])
}

// String 返回 "<hash>-<size>"。
func (d Digest) String() string {
	return d.HashString() + "-" + strconv.FormatInt(d.SizeBytes, 10)
}

// Len 返回内容大小，负数按 0 处理。
func (d Digest) Len() uint64 {
	if d.SizeBytes < 0 {
		return 0
	}
	return uint64(d.SizeBytes)
}

// IsZero 报告是否为零值。
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Compare 返回 -1、0 或 +1。先比较哈希，再比较大小。
func (d Digest) Compare(other Digest) int {
	if c := bytes.Compare(d.Hash[:], other.Hash[:]); c != 0 {
		return c
	}
	return cmp.Compare(d.SizeBytes, other.SizeBytes)
}

// Compare 是 [Digest.Compare] 的函数形式，便于 slices.SortFunc。
func Compare(a, b Digest) int {
	return a.Compare(b)
}

// MarshalText 实现 encoding.TextMarshaler。
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler。
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBinary 实现 encoding.BinaryMarshaler。
func (d Digest) MarshalBinary() ([]byte, error) {
	buf := make([]byte, binarySize)
	copy(buf, d.Hash[:])
	binary.BigEndian.PutUint64(buf[HashSize:], uint64(d.SizeBytes))
	return buf, nil
}

// UnmarshalBinary 实现 encoding.BinaryUnmarshaler。
func (d *Digest) UnmarshalBinary(data []byte) error {
	if len(data) != binarySize {
		return fmt.Errorf("%w: binary length %d", ErrInvalidFormat, len(data))
	}
	size := int64(binary.BigEndian.Uint64(data[HashSize:]))
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	copy(d.Hash[:], data[:HashSize])
	d.SizeBytes = size
	return nil
}
