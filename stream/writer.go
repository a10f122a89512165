// Package stream implements the byte-level primitives of the valo wire
// format: big-endian scalar reads and writes, the 7-bit packed unsigned
// integer encoding used for lengths and counts, and the length-prefixed
// modified UTF-8 form used for class-token names.
//
// Writer appends to a pooled byte buffer; Reader is a cursor over a byte
// slice. Both are single-goroutine objects.
package stream

import (
	"math"
	"math/bits"

	"github.com/arloliu/valo/endian"
	"github.com/arloliu/valo/internal/pool"
)

// Writer accumulates an encoded stream in a pooled buffer.
//
// Note: The Writer is NOT thread-safe. Each writer instance should be used by
// a single goroutine at a time.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a Writer using the specified endian engine for raw
// multi-byte scalars. The valo format is big-endian; tests may substitute
// engines, production callers use endian.GetBigEndianEngine().
func NewWriter(engine endian.EndianEngine) *Writer {
	return &Writer{
		engine: engine,
		buf:    pool.GetRecordBuffer(),
	}
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf.MustWriteByte(v)
}

// WriteUint16 writes a 16-bit scalar in the writer's byte order.
func (w *Writer) WriteUint16(v uint16) {
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
}

// WriteUint32 writes a 32-bit scalar in the writer's byte order.
func (w *Writer) WriteUint32(v uint32) {
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
}

// WriteUint64 writes a 64-bit scalar in the writer's byte order.
func (w *Writer) WriteUint64(v uint64) {
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)
}

// WriteFloat32 writes an IEEE-754 single-precision scalar.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes an IEEE-754 double-precision scalar.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.MustWrite(data)
}

// PackUint writes a non-negative 32-bit integer as 7-bit groups, most
// significant group first. Every byte except the last has its high bit set.
// The encoding is minimal: at most 5 bytes.
func (w *Writer) PackUint(v uint32) {
	shift := 31 - bits.LeadingZeros32(v)
	shift -= shift % 7
	for shift > 0 {
		w.buf.MustWriteByte(byte(v>>uint(shift)&0x7F) | 0x80)
		shift -= 7
	}
	w.buf.MustWriteByte(byte(v & 0x7F))
}

// PackULong writes an unsigned 64-bit integer in the same 7-bit group shape
// as PackUint. The encoding is minimal: at most 10 bytes.
func (w *Writer) PackULong(v uint64) {
	shift := 63 - bits.LeadingZeros64(v)
	shift -= shift % 7
	for shift > 0 {
		w.buf.MustWriteByte(byte(v>>uint(shift)&0x7F) | 0x80)
		shift -= 7
	}
	w.buf.MustWriteByte(byte(v & 0x7F))
}

// WriteUTF writes a string as a 16-bit byte-length prefix followed by the
// modified UTF-8 form of its UTF-16 code units: NUL and U+0080..U+07FF take
// two bytes, everything above takes three, surrogate halves are written
// individually. This is the shape used for class-token names.
func (w *Writer) WriteUTF(s string) {
	units := utf16Units(s)

	total := 0
	for _, c := range units {
		total += modifiedUTFLen(c)
	}

	w.WriteUint16(uint16(total)) //nolint:gosec
	for _, c := range units {
		switch {
		case c >= 0x0001 && c <= 0x007F:
			w.buf.MustWriteByte(byte(c))
		case c == 0 || c <= 0x07FF:
			w.buf.MustWriteByte(0xC0 | byte(c>>6))
			w.buf.MustWriteByte(0x80 | byte(c&0x3F))
		default:
			w.buf.MustWriteByte(0xE0 | byte(c>>12))
			w.buf.MustWriteByte(0x80 | byte(c>>6&0x3F))
			w.buf.MustWriteByte(0x80 | byte(c&0x3F))
		}
	}
}

func modifiedUTFLen(c uint16) int {
	switch {
	case c >= 0x0001 && c <= 0x007F:
		return 1
	case c == 0 || c <= 0x07FF:
		return 2
	default:
		return 3
	}
}

// Bytes returns the encoded data as a byte slice.
//
// The returned slice shares the underlying buffer with the writer.
// Do not modify the returned slice, and do not use it after Release.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the written data but keeps the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// Release returns the buffer to the pool. The writer must not be used after
// calling Release.
func (w *Writer) Release() {
	if w.buf != nil {
		pool.PutRecordBuffer(w.buf)
		w.buf = nil
	}
}
