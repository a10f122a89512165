package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/valo/endian"
	"github.com/arloliu/valo/errs"
)

func newPair(t *testing.T, write func(w *Writer)) *Reader {
	t.Helper()

	w := NewWriter(endian.GetBigEndianEngine())
	t.Cleanup(w.Release)
	write(w)

	return NewReader(w.Bytes(), endian.GetBigEndianEngine())
}

func TestWriter_BigEndianScalars(t *testing.T) {
	w := NewWriter(endian.GetBigEndianEngine())
	defer w.Release()

	w.WriteUint16(0x1234)
	w.WriteUint32(0xDEADBEEF)
	w.WriteUint64(0x0102030405060708)

	require.Equal(t, []byte{
		0x12, 0x34,
		0xDE, 0xAD, 0xBE, 0xEF,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}, w.Bytes())
}

func TestPackUint_Golden(t *testing.T) {
	tests := []struct {
		val  uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{0x61, []byte{0x61}}, // 'a' is a single group
		{127, []byte{0x7F}},
		{128, []byte{0x81, 0x00}},
		{300, []byte{0x82, 0x2C}},
		{1<<32 - 1, []byte{0x8F, 0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, tt := range tests {
		w := NewWriter(endian.GetBigEndianEngine())
		w.PackUint(tt.val)
		require.Equal(t, tt.want, w.Bytes(), "value %d", tt.val)

		r := NewReader(w.Bytes(), endian.GetBigEndianEngine())
		got, err := r.UnpackUint()
		require.NoError(t, err)
		require.Equal(t, tt.val, got)
		require.Equal(t, 0, r.Remaining())
		w.Release()
	}
}

func TestPackULong_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 42, 1<<63 - 1, 1 << 63, 1<<64 - 1}

	for _, val := range values {
		r := newPair(t, func(w *Writer) { w.PackULong(val) })
		got, err := r.UnpackULong()
		require.NoError(t, err)
		require.Equal(t, val, got)
	}
}

func TestUnpackUint_Overlong(t *testing.T) {
	// five continuation bytes exhaust a 32-bit packed integer before the
	// terminating sixth byte is reached
	r := NewReader([]byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x01}, endian.GetBigEndianEngine())
	_, err := r.UnpackUint()
	require.ErrorIs(t, err, errs.ErrCorrupt)
}

func TestUnpackULong_Overlong(t *testing.T) {
	data := make([]byte, 11)
	for i := range data {
		data[i] = 0x81
	}

	r := NewReader(data, endian.GetBigEndianEngine())
	_, err := r.UnpackULong()
	require.ErrorIs(t, err, errs.ErrCorrupt)
}

func TestReader_ShortRead(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02}, endian.GetBigEndianEngine())
	_, err := r.ReadUint32()
	require.ErrorIs(t, err, errs.ErrUnexpectedEnd)

	r = NewReader([]byte{0x80}, endian.GetBigEndianEngine())
	_, err = r.UnpackUint()
	require.ErrorIs(t, err, errs.ErrUnexpectedEnd)

	r = NewReader(nil, endian.GetBigEndianEngine())
	_, err = r.ReadUint8()
	require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
}

func TestReadFully_Copies(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	r := NewReader(src, endian.GetBigEndianEngine())

	out, err := r.ReadFully(4)
	require.NoError(t, err)
	require.Equal(t, src, out)

	out[0] = 99
	require.Equal(t, byte(1), src[0])
}

func TestWriteUTF_RoundTrip(t *testing.T) {
	tests := []string{
		"",
		"core.RecordRef",
		"with\x00nul",
		"héllo wörld",
		"日本語",
		strings.Repeat("k", 300),
	}

	for _, s := range tests {
		r := newPair(t, func(w *Writer) { w.WriteUTF(s) })
		got, err := r.ReadUTF()
		require.NoError(t, err)
		require.Equal(t, s, got)
		require.Equal(t, 0, r.Remaining())
	}
}

func TestWriteUTF_NulIsTwoBytes(t *testing.T) {
	w := NewWriter(endian.GetBigEndianEngine())
	defer w.Release()

	w.WriteUTF("\x00")
	// two-byte length prefix, then the 0xC0 0x80 modified form
	require.Equal(t, []byte{0x00, 0x02, 0xC0, 0x80}, w.Bytes())
}

func TestWriter_Reset(t *testing.T) {
	w := NewWriter(endian.GetBigEndianEngine())
	defer w.Release()

	w.WriteUint64(42)
	require.Equal(t, 8, w.Len())

	w.Reset()
	require.Equal(t, 0, w.Len())
}
