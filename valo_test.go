package valo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/valo/codec"
	"github.com/arloliu/valo/errs"
	"github.com/arloliu/valo/value"
)

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	in := value.NewList(
		int64(1),
		"two",
		nil,
		[]byte{3, 3, 3},
		&value.Tuple2{A: "k", B: int64(42)},
	)

	data, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	require.True(t, Equal(in, out))
}

func TestMarshal_UsesBasicCodec(t *testing.T) {
	data, err := Marshal(int64(7))
	require.NoError(t, err)

	fromBasic, err := codec.Basic.Marshal(int64(7))
	require.NoError(t, err)
	require.Equal(t, fromBasic, data)
}

func TestAssertEncodable(t *testing.T) {
	require.NoError(t, AssertEncodable("ok"))
	require.NoError(t, AssertEncodable(value.NewList()))

	type unknown struct{}
	require.ErrorIs(t, AssertEncodable(unknown{}), errs.ErrUnserializable)
}

func TestUnmarshal_IgnoresTrailingBytes(t *testing.T) {
	data, err := Marshal(true)
	require.NoError(t, err)

	out, err := Unmarshal(append(data, 0xFF))
	require.NoError(t, err)
	require.Equal(t, true, out)
}

func TestUnmarshal_Corrupt(t *testing.T) {
	_, err := Unmarshal([]byte{0x00})
	require.ErrorIs(t, err, errs.ErrCorrupt)
}
