package xsnapshot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// 内置编解码器名称。
const (
	CodecJSON    = "json"
	CodecCBOR    = "cbor"
	CodecMsgpack = "msgpack"
)

// Codec 把值 V 编码为字节并解码回来。
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// JSON 使用 encoding/json。零值可用。Indent 为 true 时输出带缩进的 JSON。
type JSON[V any] struct {
	Indent bool
}

// Encode 实现 Codec。
func (c JSON[V]) Encode(v V) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// Decode 实现 Codec。
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

// CBOR 使用 fxamacker/cbor 的 RFC 8949 核心确定性编码，相同快照总是得到相同字节。
// 零值不可用，必须通过 [NewCBOR] 创建。
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBOR 创建 CBOR 编解码器。
func NewCBOR[V any]() (CBOR[V], error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return CBOR[V]{}, fmt.Errorf("xsnapshot: cbor enc mode: %w", err)
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return CBOR[V]{}, fmt.Errorf("xsnapshot: cbor dec mode: %w", err)
	}
	return CBOR[V]{enc: em, dec: dm}, nil
}

// Encode 实现 Codec。
func (c CBOR[V]) Encode(v V) ([]byte, error) {
	return c.enc.Marshal(v)
}

// Decode 实现 Codec。
func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, err
}

// Msgpack 使用 vmihailenco/msgpack/v5。零值可用。
type Msgpack[V any] struct{}

// Encode 实现 Codec。
func (Msgpack[V]) Encode(v V) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode 实现 Codec。
func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(b, &v)
	return v, err
}

// Limit 包装另一个编解码器，解码前检查数据长度。MaxDecode <= 0 表示不限制。
type Limit[V any] struct {
	Inner     Codec[V]
	MaxDecode int
}

// Encode 实现 Codec。
func (c Limit[V]) Encode(v V) ([]byte, error) {
	return c.Inner.Encode(v)
}

// Decode 实现 Codec。
func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}

// NewCodec 按名称创建编解码器，名称不区分大小写。
func NewCodec[V any](name string) (Codec[V], error) {
	switch strings.ToLower(name) {
	case CodecJSON:
		return JSON[V]{}, nil
	case CodecCBOR:
		c, err := NewCBOR[V]()
		if err != nil {
			return nil, err
		}
		return c, nil
	case CodecMsgpack:
		return Msgpack[V]{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
