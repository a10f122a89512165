package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/valo/errs"
	"github.com/arloliu/valo/tag"
	"github.com/arloliu/valo/value"
)

func TestRegistry_SingletonStability(t *testing.T) {
	singletons := map[RegistryID]any{
		RegPosLongKey:         PosLongKey,
		RegStringKey:          StringKey,
		RegPosIntKey:          PosIntKey,
		RegLong:               Long,
		RegInt:                Int,
		RegEmpty:              Empty,
		RegNullableComparator: NullableNaturalComparator,
		RegComparator:         NaturalComparator,
		RegBasic:              Basic,
		RegStringNoSize:       StringNoSize,
		RegBoolean:            Boolean,
		RegByteArrayNoSize:    ByteArrayNoSize,
	}

	for id, want := range singletons {
		w := newTestWriter(t)
		w.WriteUint8(byte(tag.MapDB))
		w.PackUint(uint32(id))

		got, err := Basic.Unmarshal(w.Bytes())
		require.NoError(t, err, "sub-id %d", id)
		require.True(t, got == want, "sub-id %d must decode to the registry instance", id)

		// and the encode side maps the instance back to the same sub-id
		data := mustMarshal(t, want)
		require.Equal(t, w.Bytes(), data, "sub-id %d", id)
	}
}

func TestRegistry_UnknownSubID(t *testing.T) {
	w := newTestWriter(t)
	w.WriteUint8(byte(tag.MapDB))
	w.PackUint(99)

	_, err := Basic.Unmarshal(w.Bytes())
	require.ErrorIs(t, err, errs.ErrCorrupt)
}

func TestRegistry_ThisCodec(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	data, err := c.Marshal(c)
	require.NoError(t, err)

	got, err := c.Unmarshal(data)
	require.NoError(t, err)
	require.Same(t, c, got)

	// a different codec decoding the same bytes resolves to itself
	other, err := New()
	require.NoError(t, err)

	got, err = other.Unmarshal(data)
	require.NoError(t, err)
	require.Same(t, other, got)
}

func TestRegistry_BasicBeatsThis(t *testing.T) {
	// the shared default codec always encodes as the basic sub-id, even
	// through itself
	data, err := Basic.Marshal(Basic)
	require.NoError(t, err)

	w := newTestWriter(t)
	w.WriteUint8(byte(tag.MapDB))
	w.PackUint(uint32(RegBasic))
	require.Equal(t, w.Bytes(), data)
}

func TestRegistry_BasicKeyCodec(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	data, err := c.Marshal(NewBasicKey(c))
	require.NoError(t, err)

	got, err := c.Unmarshal(data)
	require.NoError(t, err)

	bk, ok := got.(*BasicKeyCodec)
	require.True(t, ok)
	require.Same(t, c, bk.codec)
}

func TestRegistry_Tuple2KeyCodecRoundTrip(t *testing.T) {
	in := &Tuple2KeyCodec{
		ACmp:   NaturalComparator,
		ACodec: StringNoSize,
		BCodec: Long,
	}

	got, err := Basic.Unmarshal(mustMarshal(t, in))
	require.NoError(t, err)

	out, ok := got.(*Tuple2KeyCodec)
	require.True(t, ok)
	require.Same(t, NaturalComparator, out.ACmp)
	require.Same(t, StringNoSize, out.ACodec)
	require.Same(t, Long, out.BCodec)
}

func TestRegistry_Tuple4KeyCodecNested(t *testing.T) {
	in := &Tuple4KeyCodec{
		ACmp:   NaturalComparator,
		BCmp:   NullableNaturalComparator,
		CCmp:   nil,
		ACodec: Long,
		BCodec: Int,
		CCodec: Boolean,
		DCodec: Basic,
	}

	got, err := Basic.Unmarshal(mustMarshal(t, in))
	require.NoError(t, err)

	out := got.(*Tuple4KeyCodec)
	require.Same(t, NaturalComparator, out.ACmp)
	require.Same(t, NullableNaturalComparator, out.BCmp)
	require.Nil(t, out.CCmp)
	require.Same(t, Long, out.ACodec)
	require.Same(t, Int, out.BCodec)
	require.Same(t, Boolean, out.CCodec)
	require.Same(t, Basic, out.DCodec)
}

func TestValueCodecs_RoundTrip(t *testing.T) {
	tests := []struct {
		codec ValueCodec
		v     any
	}{
		{Long, int64(-123456789)},
		{Int, int32(98765)},
		{Boolean, true},
		{Boolean, false},
		{StringNoSize, "no length prefix"},
		{ByteArrayNoSize, []byte{9, 8, 7}},
	}

	for _, tt := range tests {
		w := newTestWriter(t)
		require.NoError(t, tt.codec.EncodeValue(w, tt.v))

		got, err := tt.codec.DecodeValue(newTestReader(w.Bytes()))
		require.NoError(t, err)
		require.Equal(t, tt.v, got)
	}
}

func TestValueCodec_Empty(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, Empty.EncodeValue(w, "ignored"))
	require.Zero(t, w.Len())

	got, err := Empty.DecodeValue(newTestReader(nil))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestKeyCodecs_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		codec KeyCodec
		keys  []any
	}{
		{"pos long", PosLongKey, []any{int64(0), int64(42), int64(1 << 40)}},
		{"pos int", PosIntKey, []any{int32(0), int32(7), int32(1 << 20)}},
		{"string", StringKey, []any{"", "alpha", "βeta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWriter(t)
			require.NoError(t, tt.codec.EncodeKeys(w, tt.keys))

			got, err := tt.codec.DecodeKeys(newTestReader(w.Bytes()), len(tt.keys))
			require.NoError(t, err)
			require.Equal(t, tt.keys, got)
		})
	}
}

func TestKeyCodecs_RejectBadKeys(t *testing.T) {
	w := newTestWriter(t)
	require.Error(t, PosLongKey.EncodeKeys(w, []any{int64(-1)}))
	require.Error(t, PosIntKey.EncodeKeys(w, []any{"not an int"}))
	require.Error(t, StringKey.EncodeKeys(w, []any{int64(1)}))
}

func TestTupleKeyCodec_Keys(t *testing.T) {
	kc := &Tuple2KeyCodec{ACmp: NaturalComparator, ACodec: Long, BCodec: Boolean}
	keys := []any{
		&value.Tuple2{A: int64(1), B: true},
		&value.Tuple2{A: int64(2), B: false},
	}

	w := newTestWriter(t)
	require.NoError(t, kc.EncodeKeys(w, keys))

	got, err := kc.DecodeKeys(newTestReader(w.Bytes()), len(keys))
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range keys {
		require.True(t, value.Equal(keys[i], got[i]))
	}
}

func TestHash_StableAndDistinct(t *testing.T) {
	require.Equal(t, StringNoSize.Hash("key"), StringNoSize.Hash("key"))
	require.NotEqual(t, StringNoSize.Hash("key"), StringNoSize.Hash("other"))

	require.Equal(t, Long.Hash(int64(42)), Long.Hash(int64(42)))
	require.NotEqual(t, Long.Hash(int64(42)), Long.Hash(int64(43)))

	require.Equal(t, Basic.Hash(value.NewList(int64(1))), Basic.Hash(value.NewList(int64(1))))
}

func TestKeyHash_Stable(t *testing.T) {
	require.Equal(t, StringKey.HashKey("k"), StringKey.HashKey("k"))
	require.NotEqual(t, PosLongKey.HashKey(int64(1)), PosLongKey.HashKey(int64(2)))

	kc := &Tuple2KeyCodec{ACodec: Long, BCodec: Boolean}
	k := &value.Tuple2{A: int64(9), B: true}
	require.Equal(t, kc.HashKey(k), kc.HashKey(k))
}
