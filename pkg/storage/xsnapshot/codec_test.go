package xsnapshot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xcas/pkg/storage/xevict"
	"github.com/omeyang/xcas/pkg/util/xdigest"
)

type snapshot = xevict.Snapshot[xdigest.Digest]

func TestCodecs_RoundTrip(t *testing.T) {
	for _, name := range []string{CodecJSON, CodecCBOR, CodecMsgpack} {
		t.Run(name, func(t *testing.T) {
			c, err := NewCodec[snapshot](name)
			require.NoError(t, err)

			want := sampleSnapshot()
			data, err := c.Encode(want)
			require.NoError(t, err)
			got, err := c.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNewCodec(t *testing.T) {
	c, err := NewCodec[snapshot]("CBOR")
	require.NoError(t, err)
	assert.IsType(t, CBOR[snapshot]{}, c)

	_, err = NewCodec[snapshot]("yaml")
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestCBOR_Deterministic(t *testing.T) {
	c, err := NewCBOR[snapshot]()
	require.NoError(t, err)
	a, err := c.Encode(sampleSnapshot())
	require.NoError(t, err)
	b, err := c.Encode(sampleSnapshot())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestJSON_TextKeys(t *testing.T) {
	data, err := JSON[snapshot]{Indent: true}.Encode(sampleSnapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), digestOf("ccc").String())
	assert.Contains(t, string(data), "\n  ")
}

func TestLimit(t *testing.T) {
	c := Limit[snapshot]{Inner: Msgpack[snapshot]{}, MaxDecode: 16}
	data, err := c.Encode(sampleSnapshot())
	require.NoError(t, err)
	require.Greater(t, len(data), 16)

	_, err = c.Decode(data)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	unlimited := Limit[snapshot]{Inner: Msgpack[snapshot]{}}
	got, err := unlimited.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}
