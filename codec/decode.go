package codec

import (
	"fmt"
	"math"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/arloliu/valo/errs"
	"github.com/arloliu/valo/stream"
	"github.com/arloliu/valo/tag"
	"github.com/arloliu/valo/value"
)

// decode is the single dispatch point for the decode side. It mirrors encode:
// immediates are handled without a reference table, container headers create
// the table lazily and register the container before its children are read.
func (c *Codec) decode(r *stream.Reader, refs *RefTable) (any, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	head := tag.Tag(b)

	if v, done, err := c.decodeImmediate(r, head, refs); done {
		return v, err
	}

	if refs == nil {
		refs = newRefTable()
	}

	switch head {
	case tag.ObjectStack:
		idx, err := r.UnpackUint()
		if err != nil {
			return nil, err
		}
		v, ok := refs.Get(int(idx))
		if !ok {
			return nil, fmt.Errorf("%w: back-reference %d outside table of %d", errs.ErrCorrupt, idx, refs.Len())
		}

		return v, nil

	case tag.ArrayList:
		l := &value.List{}
		refs.Push(l)

		return l, c.readItems(r, &l.Items, refs)
	case tag.ArrayListPackedLong:
		return c.decodeListPackedLong(r, refs)
	case tag.LinkedList:
		l := &value.LinkedList{}
		refs.Push(l)

		return l, c.readItems(r, &l.Items, refs)
	case tag.HashSet:
		s := &value.HashSet{}
		refs.Push(s)

		return s, c.readItems(r, &s.Items, refs)
	case tag.LinkedHashSet:
		s := &value.LinkedHashSet{}
		refs.Push(s)

		return s, c.readItems(r, &s.Items, refs)
	case tag.TreeSet:
		return c.decodeTreeSet(r, refs)

	case tag.HashMap:
		m := &value.HashMap{}
		refs.Push(m)

		return m, c.readEntriesCounted(r, &m.Entries, refs)
	case tag.LinkedHashMap:
		m := &value.LinkedHashMap{}
		refs.Push(m)

		return m, c.readEntriesCounted(r, &m.Entries, refs)
	case tag.Properties:
		p := &value.Properties{}
		refs.Push(p)

		return p, c.readEntriesCounted(r, &p.Entries, refs)
	case tag.TreeMap:
		return c.decodeTreeMap(r, refs)

	case tag.Tuple2:
		t := &value.Tuple2{}
		refs.Push(t)
		if t.A, err = c.decode(r, refs); err != nil {
			return nil, err
		}
		if t.B, err = c.decode(r, refs); err != nil {
			return nil, err
		}

		return t, nil
	case tag.Tuple3:
		t := &value.Tuple3{}
		refs.Push(t)
		if t.A, err = c.decode(r, refs); err != nil {
			return nil, err
		}
		if t.B, err = c.decode(r, refs); err != nil {
			return nil, err
		}
		if t.C, err = c.decode(r, refs); err != nil {
			return nil, err
		}

		return t, nil
	case tag.Tuple4:
		t := &value.Tuple4{}
		refs.Push(t)
		if t.A, err = c.decode(r, refs); err != nil {
			return nil, err
		}
		if t.B, err = c.decode(r, refs); err != nil {
			return nil, err
		}
		if t.C, err = c.decode(r, refs); err != nil {
			return nil, err
		}
		if t.D, err = c.decode(r, refs); err != nil {
			return nil, err
		}

		return t, nil

	case tag.ArrayObject:
		return c.decodeObjectArray(r, refs)
	case tag.ArrayObjectAllNull:
		return c.decodeObjectArrayAllNull(r, refs)
	case tag.ArrayObjectPackedLong:
		return c.decodeObjectArrayPackedLong(r, refs)
	case tag.ArrayObjectNoRefs:
		return c.decodeObjectArrayNoRefs(r, refs)

	case tag.Record:
		if c.ext != nil {
			return c.ext.DecodeUnknown(c, r, head, refs)
		}

		return nil, fmt.Errorf("%w: record header 0x%02X", errs.ErrUnsupported, uint8(head))
	}

	if c.ext != nil {
		return c.ext.DecodeUnknown(c, r, head, refs)
	}

	return nil, fmt.Errorf("%w: 0x%02X", errs.ErrUnknownTag, uint8(head))
}

// decodeImmediate handles every header that needs no reference table. It
// reports whether it claimed the header.
func (c *Codec) decodeImmediate(r *stream.Reader, head tag.Tag, refs *RefTable) (any, bool, error) {
	// literal and inline ranges first, they are not single switch cases
	switch {
	case head >= tag.IntM9 && head <= tag.Int16:
		return int32(head) - int32(tag.Int0), true, nil //nolint:gosec
	case head >= tag.LongM9 && head <= tag.Long16:
		return int64(head) - int64(tag.Long0), true, nil
	case head >= tag.String0 && head <= tag.String10:
		v, err := c.readStringUnits(r, int(head-tag.String0))
		return v, true, err
	}

	switch head {
	case tag.ZeroFail:
		return nil, true, fmt.Errorf("%w: zero header", errs.ErrCorrupt)
	case tag.Null:
		return nil, true, nil
	case tag.BooleanTrue:
		return true, true, nil
	case tag.BooleanFalse:
		return false, true, nil

	case tag.IntMinValue:
		return int32(math.MinInt32), true, nil
	case tag.IntMaxValue:
		return int32(math.MaxInt32), true, nil
	case tag.IntF1, tag.IntF2, tag.IntF3:
		u, err := readLE(r, 1+int(head-tag.IntF1)/2)
		return int32(u), true, err //nolint:gosec
	case tag.IntMF1, tag.IntMF2, tag.IntMF3:
		u, err := readLE(r, 1+int(head-tag.IntMF1)/2)
		return -int32(u), true, err //nolint:gosec
	case tag.Int:
		u, err := r.ReadUint32()
		return int32(u), true, err //nolint:gosec

	case tag.LongMinValue:
		return int64(math.MinInt64), true, nil
	case tag.LongMaxValue:
		return int64(math.MaxInt64), true, nil
	case tag.LongF1, tag.LongF2, tag.LongF3, tag.LongF4, tag.LongF5, tag.LongF6, tag.LongF7:
		u, err := readLE(r, 1+int(head-tag.LongF1)/2)
		return int64(u), true, err //nolint:gosec
	case tag.LongMF1, tag.LongMF2, tag.LongMF3, tag.LongMF4, tag.LongMF5, tag.LongMF6, tag.LongMF7:
		u, err := readLE(r, 1+int(head-tag.LongMF1)/2)
		return -int64(u), true, err //nolint:gosec
	case tag.Long:
		u, err := r.ReadUint64()
		return int64(u), true, err //nolint:gosec

	case tag.ByteM1:
		return int8(-1), true, nil
	case tag.Byte0:
		return int8(0), true, nil
	case tag.Byte1:
		return int8(1), true, nil
	case tag.Byte:
		b, err := r.ReadUint8()
		return int8(b), true, err //nolint:gosec

	case tag.Char0:
		return value.Char(0), true, nil
	case tag.Char1:
		return value.Char(1), true, nil
	case tag.Char255:
		b, err := r.ReadUint8()
		return value.Char(b), true, err
	case tag.Char:
		u, err := r.ReadUint16()
		return value.Char(u), true, err

	case tag.ShortM1:
		return int16(-1), true, nil
	case tag.Short0:
		return int16(0), true, nil
	case tag.Short1:
		return int16(1), true, nil
	case tag.Short255:
		b, err := r.ReadUint8()
		return int16(b), true, err
	case tag.ShortM255:
		b, err := r.ReadUint8()
		return -int16(b), true, err
	case tag.Short:
		u, err := r.ReadUint16()
		return int16(u), true, err //nolint:gosec

	case tag.FloatM1:
		return float32(-1), true, nil
	case tag.Float0:
		return float32(0), true, nil
	case tag.Float1:
		return float32(1), true, nil
	case tag.Float255:
		b, err := r.ReadUint8()
		return float32(b), true, err
	case tag.FloatShort:
		u, err := r.ReadUint16()
		return float32(int16(u)), true, err //nolint:gosec
	case tag.Float:
		f, err := r.ReadFloat32()
		return f, true, err

	case tag.DoubleM1:
		return float64(-1), true, nil
	case tag.Double0:
		return float64(0), true, nil
	case tag.Double1:
		return float64(1), true, nil
	case tag.Double255:
		b, err := r.ReadUint8()
		return float64(b), true, err
	case tag.DoubleShort:
		u, err := r.ReadUint16()
		return float64(int16(u)), true, err //nolint:gosec
	case tag.DoubleInt:
		u, err := r.ReadUint32()
		return float64(int32(u)), true, err //nolint:gosec
	case tag.Double:
		f, err := r.ReadFloat64()
		return f, true, err

	case tag.ArrayByteAllEqual:
		v, err := c.decodeByteArrayAllEqual(r)
		return v, true, err
	case tag.ArrayByte:
		n, err := r.UnpackUint()
		if err != nil {
			return nil, true, err
		}
		v, err := r.ReadFully(int(n))
		return v, true, err
	case tag.ArrayBoolean:
		v, err := c.decodeBooleanArray(r)
		return v, true, err
	case tag.ArrayShort:
		v, err := decodeU16Array(r, func(u uint16) int16 { return int16(u) }) //nolint:gosec
		return v, true, err
	case tag.ArrayChar:
		v, err := decodeU16Array(r, func(u uint16) value.Char { return value.Char(u) })
		return v, true, err
	case tag.ArrayFloat:
		v, err := decodeFixedArray(r, 4, (*stream.Reader).ReadFloat32)
		return v, true, err
	case tag.ArrayDouble:
		v, err := decodeFixedArray(r, 8, (*stream.Reader).ReadFloat64)
		return v, true, err

	case tag.ArrayIntByte:
		v, err := decodeFixedArray(r, 1, func(r *stream.Reader) (int32, error) {
			b, err := r.ReadUint8()
			return int32(int8(b)), err //nolint:gosec
		})
		return v, true, err
	case tag.ArrayIntShort:
		v, err := decodeU16Array(r, func(u uint16) int32 { return int32(int16(u)) }) //nolint:gosec
		return v, true, err
	case tag.ArrayIntPacked:
		v, err := decodeFixedArray(r, 1, func(r *stream.Reader) (int32, error) {
			u, err := r.UnpackUint()
			return int32(u), err //nolint:gosec
		})
		return v, true, err
	case tag.ArrayInt:
		v, err := decodeFixedArray(r, 4, func(r *stream.Reader) (int32, error) {
			u, err := r.ReadUint32()
			return int32(u), err //nolint:gosec
		})
		return v, true, err

	case tag.ArrayLongByte:
		v, err := decodeFixedArray(r, 1, func(r *stream.Reader) (int64, error) {
			b, err := r.ReadUint8()
			return int64(int8(b)), err //nolint:gosec
		})
		return v, true, err
	case tag.ArrayLongShort:
		v, err := decodeU16Array(r, func(u uint16) int64 { return int64(int16(u)) }) //nolint:gosec
		return v, true, err
	case tag.ArrayLongPacked:
		v, err := decodeFixedArray(r, 1, func(r *stream.Reader) (int64, error) {
			u, err := r.UnpackULong()
			return int64(u), err //nolint:gosec
		})
		return v, true, err
	case tag.ArrayLongInt:
		v, err := decodeFixedArray(r, 4, func(r *stream.Reader) (int64, error) {
			u, err := r.ReadUint32()
			return int64(int32(u)), err //nolint:gosec
		})
		return v, true, err
	case tag.ArrayLong:
		v, err := decodeFixedArray(r, 8, func(r *stream.Reader) (int64, error) {
			u, err := r.ReadUint64()
			return int64(u), err //nolint:gosec
		})
		return v, true, err

	case tag.String:
		n, err := r.UnpackUint()
		if err != nil {
			return nil, true, err
		}
		v, err := c.readStringUnits(r, int(n))
		return v, true, err

	case tag.BigInteger:
		v, err := readBigInt(r)
		return v, true, err
	case tag.BigDecimal:
		unscaled, err := readBigInt(r)
		if err != nil {
			return nil, true, err
		}
		scale, err := r.UnpackUint()
		if err != nil {
			return nil, true, err
		}

		return value.NewBigDecimal(unscaled, int32(scale)), true, nil //nolint:gosec
	case tag.Class:
		name, err := r.ReadUTF()
		return value.Class(name), true, err
	case tag.Date:
		u, err := r.ReadUint64()
		if err != nil {
			return nil, true, err
		}

		return time.UnixMilli(int64(u)).UTC(), true, nil //nolint:gosec
	case tag.UUID:
		b, err := r.ReadFully(16)
		if err != nil {
			return nil, true, err
		}
		var id uuid.UUID
		copy(id[:], b)

		return id, true, nil

	case tag.FunHI:
		return value.HI, true, nil
	case tag.MapDB:
		v, err := c.decodeRegistry(r, refs)
		return v, true, err
	case tag.JavaSerialization:
		return nil, true, fmt.Errorf("%w: foreign serialization header", errs.ErrCorrupt)
	}

	return nil, false, nil
}

// readLE reads an n-byte little-endian unsigned payload.
func readLE(r *stream.Reader, n int) (uint64, error) {
	var u uint64
	for i := 0; i < n; i++ {
		b, err := r.ReadUint8()
		if err != nil {
			return 0, err
		}
		u |= uint64(b) << (8 * i)
	}

	return u, nil
}

// arrayLen validates a packed element count against the remaining input,
// with each element occupying at least minBytes bytes. This bounds the
// allocation a corrupt length can force.
func arrayLen(r *stream.Reader, minBytes int) (int, error) {
	n, err := r.UnpackUint()
	if err != nil {
		return 0, err
	}
	if int64(n)*int64(minBytes) > int64(r.Remaining()) {
		return 0, fmt.Errorf("%w: %d elements but %d bytes remain", errs.ErrUnexpectedEnd, n, r.Remaining())
	}

	return int(n), nil
}

func decodeFixedArray[T any](r *stream.Reader, minBytes int, read func(*stream.Reader) (T, error)) ([]T, error) {
	n, err := arrayLen(r, minBytes)
	if err != nil {
		return nil, err
	}

	out := make([]T, n)
	for i := range out {
		if out[i], err = read(r); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func decodeU16Array[T any](r *stream.Reader, conv func(uint16) T) ([]T, error) {
	return decodeFixedArray(r, 2, func(r *stream.Reader) (T, error) {
		u, err := r.ReadUint16()
		return conv(u), err
	})
}

func (c *Codec) decodeByteArrayAllEqual(r *stream.Reader) ([]byte, error) {
	n, err := r.UnpackUint()
	if err != nil {
		return nil, err
	}
	fill, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	for i := range out {
		out[i] = fill
	}

	return out, nil
}

// decodeBooleanArray reads the boolean count, then ceil(n/8) payload bytes;
// element i sits in bit i%8 of byte i/8.
func (c *Codec) decodeBooleanArray(r *stream.Reader) ([]bool, error) {
	n, err := r.UnpackUint()
	if err != nil {
		return nil, err
	}

	packed, err := r.ReadFully((int(n) + 7) / 8)
	if err != nil {
		return nil, err
	}

	out := make([]bool, n)
	for i := range out {
		out[i] = packed[i/8]&(1<<(i%8)) != 0
	}

	return out, nil
}

func (c *Codec) readStringUnits(r *stream.Reader, n int) (string, error) {
	if n > r.Remaining() {
		return "", fmt.Errorf("%w: %d code units but %d bytes remain", errs.ErrUnexpectedEnd, n, r.Remaining())
	}

	units := make([]uint16, n)
	for i := range units {
		u, err := r.UnpackUint()
		if err != nil {
			return "", err
		}
		units[i] = uint16(u) //nolint:gosec
	}

	return string(utf16.Decode(units)), nil
}

func (c *Codec) readItems(r *stream.Reader, items *[]any, refs *RefTable) error {
	n, err := arrayLen(r, 1)
	if err != nil {
		return err
	}

	*items = make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := c.decode(r, refs)
		if err != nil {
			return err
		}
		*items = append(*items, v)
	}

	return nil
}

func (c *Codec) readEntriesCounted(r *stream.Reader, entries *[]value.Entry, refs *RefTable) error {
	n, err := arrayLen(r, 2)
	if err != nil {
		return err
	}

	return c.readEntries(r, entries, n, refs)
}

func (c *Codec) readEntries(r *stream.Reader, entries *[]value.Entry, n int, refs *RefTable) error {
	*entries = make([]value.Entry, 0, n)
	for i := 0; i < n; i++ {
		k, err := c.decode(r, refs)
		if err != nil {
			return err
		}
		v, err := c.decode(r, refs)
		if err != nil {
			return err
		}
		*entries = append(*entries, value.Entry{Key: k, Value: v})
	}

	return nil
}

func (c *Codec) decodeTreeSet(r *stream.Reader, refs *RefTable) (*value.TreeSet, error) {
	n, err := arrayLen(r, 1)
	if err != nil {
		return nil, err
	}

	s := &value.TreeSet{}
	refs.Push(s)

	if s.Comparator, err = c.decode(r, refs); err != nil {
		return nil, err
	}

	s.Items = make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := c.decode(r, refs)
		if err != nil {
			return nil, err
		}
		s.Items = append(s.Items, v)
	}

	return s, nil
}

func (c *Codec) decodeTreeMap(r *stream.Reader, refs *RefTable) (*value.TreeMap, error) {
	n, err := arrayLen(r, 2)
	if err != nil {
		return nil, err
	}

	m := &value.TreeMap{}
	refs.Push(m)

	if m.Comparator, err = c.decode(r, refs); err != nil {
		return nil, err
	}

	return m, c.readEntries(r, &m.Entries, n, refs)
}

// unpackULongShifted reads one packed-long fast-path slot: 0 is nil,
// anything else is the value minus one.
func unpackULongShifted(r *stream.Reader) (any, error) {
	u, err := r.UnpackULong()
	if err != nil {
		return nil, err
	}
	if u == 0 {
		return nil, nil
	}

	return int64(u - 1), nil //nolint:gosec
}

func (c *Codec) decodeListPackedLong(r *stream.Reader, refs *RefTable) (*value.List, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	l := &value.List{Items: make([]any, 0, n)}
	refs.Push(l)

	for i := 0; i < int(n); i++ {
		v, err := unpackULongShifted(r)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, v)
	}

	return l, nil
}

func (c *Codec) decodeObjectArray(r *stream.Reader, refs *RefTable) (*value.ObjectArray, error) {
	n, err := arrayLen(r, 1)
	if err != nil {
		return nil, err
	}
	name, err := r.ReadUTF()
	if err != nil {
		return nil, err
	}

	arr := &value.ObjectArray{Component: value.Class(name), Items: make([]any, 0, n)}
	refs.Push(arr)

	for i := 0; i < n; i++ {
		v, err := c.decode(r, refs)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, v)
	}

	return arr, nil
}

func (c *Codec) decodeObjectArrayAllNull(r *stream.Reader, refs *RefTable) (*value.ObjectArray, error) {
	n, err := r.UnpackUint()
	if err != nil {
		return nil, err
	}
	name, err := r.ReadUTF()
	if err != nil {
		return nil, err
	}

	arr := &value.ObjectArray{Component: value.Class(name), Items: make([]any, n)}
	refs.Push(arr)

	return arr, nil
}

func (c *Codec) decodeObjectArrayPackedLong(r *stream.Reader, refs *RefTable) (*value.ObjectArray, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	arr := &value.ObjectArray{Component: value.ClassLong, Items: make([]any, 0, n)}
	refs.Push(arr)

	for i := 0; i < int(n); i++ {
		v, err := unpackULongShifted(r)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, v)
	}

	return arr, nil
}

// decodeObjectArrayNoRefs reads the elements with a nil reference table; the
// writer of this header guarantees the elements are leaf scalars.
func (c *Codec) decodeObjectArrayNoRefs(r *stream.Reader, refs *RefTable) (*value.ObjectArray, error) {
	n, err := arrayLen(r, 1)
	if err != nil {
		return nil, err
	}
	name, err := r.ReadUTF()
	if err != nil {
		return nil, err
	}

	arr := &value.ObjectArray{Component: value.Class(name), Items: make([]any, 0, n)}
	refs.Push(arr)

	for i := 0; i < n; i++ {
		v, err := c.decode(r, nil)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, v)
	}

	return arr, nil
}
