package codec

import (
	"fmt"
	"math"
	"math/big"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/arloliu/valo/errs"
	"github.com/arloliu/valo/stream"
	"github.com/arloliu/valo/tag"
	"github.com/arloliu/valo/value"
)

// encode is the single dispatch point for the encode side. refs is nil at the
// top level and created lazily when the first container value is reached;
// once it exists it is consulted for every container before classification.
func (c *Codec) encode(w *stream.Writer, v any, refs *RefTable) error {
	if refs != nil && trackable(v) {
		if i := refs.IndexOf(v); i >= 0 {
			// already serialized inside this call, emit a back-reference
			w.WriteUint8(uint8(tag.ObjectStack))
			w.PackUint(uint32(i)) //nolint:gosec
			return nil
		}
		refs.Push(v)
	}

	if done, err := c.encodeImmediate(w, v); done {
		return err
	}

	if v == value.HI {
		w.WriteUint8(uint8(tag.FunHI))
		return nil
	}

	if id, ok := c.registryIDOf(v); ok {
		w.WriteUint8(uint8(tag.MapDB))
		w.PackUint(uint32(id))
		return nil
	}

	if trackable(v) {
		if refs == nil {
			refs = newRefTable()
			refs.Push(v)
		}

		return c.encodeContainer(w, v, refs)
	}

	if done, err := c.encodeRegistryComposite(w, v, refs); done {
		return err
	}

	if c.ext != nil {
		return c.ext.EncodeUnknown(c, w, v, refs)
	}

	return fmt.Errorf("%w: %T", errs.ErrUnserializable, v)
}

// encodeImmediate handles every shape that needs no reference table: nil,
// scalars, strings and primitive arrays. It reports whether it claimed v.
func (c *Codec) encodeImmediate(w *stream.Writer, v any) (bool, error) {
	switch val := v.(type) {
	case nil:
		w.WriteUint8(uint8(tag.Null))
	case bool:
		if val {
			w.WriteUint8(uint8(tag.BooleanTrue))
		} else {
			w.WriteUint8(uint8(tag.BooleanFalse))
		}
	case int8:
		encodeByte(w, val)
	case int16:
		encodeShort(w, val)
	case int32:
		encodeInt(w, val)
	case int64:
		encodeLong(w, val)
	case int:
		encodeLong(w, int64(val))
	case value.Char:
		encodeChar(w, val)
	case float32:
		encodeFloat(w, val)
	case float64:
		encodeDouble(w, val)
	case string:
		encodeString(w, val)
	case *big.Int:
		w.WriteUint8(uint8(tag.BigInteger))
		writeBigInt(w, val)
	case *value.BigDecimal:
		w.WriteUint8(uint8(tag.BigDecimal))
		writeBigInt(w, val.Unscaled)
		w.PackUint(uint32(val.Scale)) //nolint:gosec
	case value.Class:
		w.WriteUint8(uint8(tag.Class))
		w.WriteUTF(string(val))
	case time.Time:
		w.WriteUint8(uint8(tag.Date))
		w.WriteUint64(uint64(val.UnixMilli())) //nolint:gosec
	case uuid.UUID:
		w.WriteUint8(uint8(tag.UUID))
		w.WriteBytes(val[:])
	case []byte:
		encodeByteArray(w, val)
	case []bool:
		encodeBooleanArray(w, val)
	case []int16:
		w.WriteUint8(uint8(tag.ArrayShort))
		w.PackUint(uint32(len(val))) //nolint:gosec
		for _, s := range val {
			w.WriteUint16(uint16(s)) //nolint:gosec
		}
	case []value.Char:
		w.WriteUint8(uint8(tag.ArrayChar))
		w.PackUint(uint32(len(val))) //nolint:gosec
		for _, ch := range val {
			w.WriteUint16(uint16(ch))
		}
	case []float32:
		w.WriteUint8(uint8(tag.ArrayFloat))
		w.PackUint(uint32(len(val))) //nolint:gosec
		for _, f := range val {
			w.WriteFloat32(f)
		}
	case []float64:
		w.WriteUint8(uint8(tag.ArrayDouble))
		w.PackUint(uint32(len(val))) //nolint:gosec
		for _, f := range val {
			w.WriteFloat64(f)
		}
	case []int32:
		encodeIntArray(w, val)
	case []int64:
		encodeLongArray(w, val)
	default:
		return false, nil
	}

	return true, nil
}

// trackable reports whether v participates in reference tracking. Only the
// pointer-shaped containers do; scalars, strings and primitive arrays are
// immediates on both the encode and decode side, which keeps the two
// reference tables in lock-step.
func trackable(v any) bool {
	switch v.(type) {
	case *value.List, *value.LinkedList,
		*value.HashSet, *value.LinkedHashSet, *value.TreeSet,
		*value.HashMap, *value.LinkedHashMap, *value.TreeMap, *value.Properties,
		*value.Tuple2, *value.Tuple3, *value.Tuple4,
		*value.ObjectArray:
		return true
	}

	return false
}

// writeLE writes the low n bytes of u, least significant first. The
// width-adaptive integer payloads are little-endian by format definition.
func writeLE(w *stream.Writer, u uint64, n int) {
	for i := 0; i < n; i++ {
		w.WriteUint8(byte(u >> (8 * i)))
	}
}

func encodeInt(w *stream.Writer, val int32) {
	if val >= -9 && val <= 16 {
		w.WriteUint8(uint8(int32(tag.Int0) + val)) //nolint:gosec
		return
	}

	switch {
	case val == math.MinInt32:
		w.WriteUint8(uint8(tag.IntMinValue))
	case val == math.MaxInt32:
		w.WriteUint8(uint8(tag.IntMaxValue))
	case val > 0:
		u := uint64(val)
		switch {
		case u <= 0xFF:
			w.WriteUint8(uint8(tag.IntF1))
			writeLE(w, u, 1)
		case u <= 0xFFFF:
			w.WriteUint8(uint8(tag.IntF2))
			writeLE(w, u, 2)
		case u <= 0xFFFFFF:
			w.WriteUint8(uint8(tag.IntF3))
			writeLE(w, u, 3)
		default:
			w.WriteUint8(uint8(tag.Int))
			w.WriteUint32(uint32(val)) //nolint:gosec
		}
	default:
		u := uint64(-int64(val))
		switch {
		case u <= 0xFF:
			w.WriteUint8(uint8(tag.IntMF1))
			writeLE(w, u, 1)
		case u <= 0xFFFF:
			w.WriteUint8(uint8(tag.IntMF2))
			writeLE(w, u, 2)
		case u <= 0xFFFFFF:
			w.WriteUint8(uint8(tag.IntMF3))
			writeLE(w, u, 3)
		default:
			w.WriteUint8(uint8(tag.Int))
			w.WriteUint32(uint32(val)) //nolint:gosec
		}
	}
}

func encodeLong(w *stream.Writer, val int64) {
	if val >= -9 && val <= 16 {
		w.WriteUint8(uint8(int64(tag.Long0) + val)) //nolint:gosec
		return
	}

	switch {
	case val == math.MinInt64:
		w.WriteUint8(uint8(tag.LongMinValue))
	case val == math.MaxInt64:
		w.WriteUint8(uint8(tag.LongMaxValue))
	case val > 0:
		encodeLongWidth(w, uint64(val), longFTags)
	default:
		ok := encodeLongWidthNeg(w, uint64(-val), longMFTags)
		if !ok {
			w.WriteUint8(uint8(tag.Long))
			w.WriteUint64(uint64(val)) //nolint:gosec
		}
	}
}

var longFTags = [7]tag.Tag{
	tag.LongF1, tag.LongF2, tag.LongF3, tag.LongF4, tag.LongF5, tag.LongF6, tag.LongF7,
}

var longMFTags = [7]tag.Tag{
	tag.LongMF1, tag.LongMF2, tag.LongMF3, tag.LongMF4, tag.LongMF5, tag.LongMF6, tag.LongMF7,
}

// encodeLongWidth writes a positive long with the tightest of the seven
// width-adaptive headers, falling back to the full 8-byte form.
func encodeLongWidth(w *stream.Writer, u uint64, tags [7]tag.Tag) {
	limit := uint64(0xFF)
	for n := 1; n <= 7; n++ {
		if u <= limit {
			w.WriteUint8(uint8(tags[n-1]))
			writeLE(w, u, n)

			return
		}
		limit = limit<<8 | 0xFF
	}

	w.WriteUint8(uint8(tag.Long))
	w.WriteUint64(u)
}

// encodeLongWidthNeg writes the absolute value of a negative long the same
// way. It reports false when even seven bytes do not fit and the caller must
// emit the full form.
func encodeLongWidthNeg(w *stream.Writer, u uint64, tags [7]tag.Tag) bool {
	limit := uint64(0xFF)
	for n := 1; n <= 7; n++ {
		if u <= limit {
			w.WriteUint8(uint8(tags[n-1]))
			writeLE(w, u, n)

			return true
		}
		limit = limit<<8 | 0xFF
	}

	return false
}

func encodeByte(w *stream.Writer, val int8) {
	switch val {
	case -1:
		w.WriteUint8(uint8(tag.ByteM1))
	case 0:
		w.WriteUint8(uint8(tag.Byte0))
	case 1:
		w.WriteUint8(uint8(tag.Byte1))
	default:
		w.WriteUint8(uint8(tag.Byte))
		w.WriteUint8(uint8(val)) //nolint:gosec
	}
}

func encodeChar(w *stream.Writer, val value.Char) {
	switch {
	case val == 0:
		w.WriteUint8(uint8(tag.Char0))
	case val == 1:
		w.WriteUint8(uint8(tag.Char1))
	case val <= 255:
		w.WriteUint8(uint8(tag.Char255))
		w.WriteUint8(uint8(val)) //nolint:gosec
	default:
		w.WriteUint8(uint8(tag.Char))
		w.WriteUint16(uint16(val))
	}
}

func encodeShort(w *stream.Writer, val int16) {
	switch {
	case val == -1:
		w.WriteUint8(uint8(tag.ShortM1))
	case val == 0:
		w.WriteUint8(uint8(tag.Short0))
	case val == 1:
		w.WriteUint8(uint8(tag.Short1))
	case val > 0 && val < 255:
		w.WriteUint8(uint8(tag.Short255))
		w.WriteUint8(uint8(val)) //nolint:gosec
	case val < 0 && val > -255:
		w.WriteUint8(uint8(tag.ShortM255))
		w.WriteUint8(uint8(-val)) //nolint:gosec
	default:
		w.WriteUint8(uint8(tag.Short))
		w.WriteUint16(uint16(val)) //nolint:gosec
	}
}

func encodeFloat(w *stream.Writer, v float32) {
	switch {
	case v == -1:
		w.WriteUint8(uint8(tag.FloatM1))
	case v == 0:
		w.WriteUint8(uint8(tag.Float0))
	case v == 1:
		w.WriteUint8(uint8(tag.Float1))
	case v >= 0 && v <= 255 && float32(int32(v)) == v:
		w.WriteUint8(uint8(tag.Float255))
		w.WriteUint8(uint8(int32(v))) //nolint:gosec
	case v >= math.MinInt16 && v <= math.MaxInt16 && float32(int16(v)) == v:
		w.WriteUint8(uint8(tag.FloatShort))
		w.WriteUint16(uint16(int16(v))) //nolint:gosec
	default:
		w.WriteUint8(uint8(tag.Float))
		w.WriteFloat32(v)
	}
}

func encodeDouble(w *stream.Writer, v float64) {
	switch {
	case v == -1:
		w.WriteUint8(uint8(tag.DoubleM1))
	case v == 0:
		w.WriteUint8(uint8(tag.Double0))
	case v == 1:
		w.WriteUint8(uint8(tag.Double1))
	case v >= 0 && v <= 255 && float64(int32(v)) == v:
		w.WriteUint8(uint8(tag.Double255))
		w.WriteUint8(uint8(int32(v))) //nolint:gosec
	case v >= math.MinInt16 && v <= math.MaxInt16 && float64(int16(v)) == v:
		w.WriteUint8(uint8(tag.DoubleShort))
		w.WriteUint16(uint16(int16(v))) //nolint:gosec
	case v >= math.MinInt32 && v <= math.MaxInt32 && float64(int32(v)) == v:
		w.WriteUint8(uint8(tag.DoubleInt))
		w.WriteUint32(uint32(int32(v))) //nolint:gosec
	default:
		w.WriteUint8(uint8(tag.Double))
		w.WriteFloat64(v)
	}
}

// encodeString writes the length in UTF-16 code units, folded into the
// header for lengths up to ten, then each code unit as a packed integer.
func encodeString(w *stream.Writer, s string) {
	units := utf16.Encode([]rune(s))
	n := len(units)

	switch {
	case n == 0:
		w.WriteUint8(uint8(tag.String0))
		return
	case n <= 10:
		w.WriteUint8(uint8(int(tag.String0) + n)) //nolint:gosec
	default:
		w.WriteUint8(uint8(tag.String))
		w.PackUint(uint32(n)) //nolint:gosec
	}

	for _, u := range units {
		w.PackUint(uint32(u))
	}
}

func encodeByteArray(w *stream.Writer, b []byte) {
	allEqual := len(b) > 0
	for i := 1; i < len(b); i++ {
		if b[i-1] != b[i] {
			allEqual = false
			break
		}
	}

	if allEqual {
		w.WriteUint8(uint8(tag.ArrayByteAllEqual))
		w.PackUint(uint32(len(b))) //nolint:gosec
		w.WriteUint8(b[0])
	} else {
		w.WriteUint8(uint8(tag.ArrayByte))
		w.PackUint(uint32(len(b))) //nolint:gosec
		w.WriteBytes(b)
	}
}

// encodeBooleanArray bit-packs eight booleans per byte, element 0 in bit 0
// of byte 0. The packed count is the number of booleans, not bytes.
func encodeBooleanArray(w *stream.Writer, a []bool) {
	w.WriteUint8(uint8(tag.ArrayBoolean))
	w.PackUint(uint32(len(a))) //nolint:gosec

	packed := make([]byte, (len(a)+7)/8)
	for i, v := range a {
		if v {
			packed[i/8] |= 1 << (i % 8)
		}
	}
	w.WriteBytes(packed)
}

// encodeIntArray scans once for min/max, then emits the tightest of the
// four payload widths.
func encodeIntArray(w *stream.Writer, a []int32) {
	maxv := int32(math.MinInt32)
	minv := int32(math.MaxInt32)
	for _, i := range a {
		maxv = max(maxv, i)
		minv = min(minv, i)
	}

	switch {
	case math.MinInt8 <= minv && maxv <= math.MaxInt8:
		w.WriteUint8(uint8(tag.ArrayIntByte))
		w.PackUint(uint32(len(a))) //nolint:gosec
		for _, i := range a {
			w.WriteUint8(uint8(i)) //nolint:gosec
		}
	case math.MinInt16 <= minv && maxv <= math.MaxInt16:
		w.WriteUint8(uint8(tag.ArrayIntShort))
		w.PackUint(uint32(len(a))) //nolint:gosec
		for _, i := range a {
			w.WriteUint16(uint16(i)) //nolint:gosec
		}
	case minv >= 0:
		w.WriteUint8(uint8(tag.ArrayIntPacked))
		w.PackUint(uint32(len(a))) //nolint:gosec
		for _, i := range a {
			w.PackUint(uint32(i))
		}
	default:
		w.WriteUint8(uint8(tag.ArrayInt))
		w.PackUint(uint32(len(a))) //nolint:gosec
		for _, i := range a {
			w.WriteUint32(uint32(i)) //nolint:gosec
		}
	}
}

// encodeLongArray is the long analog of encodeIntArray with an extra 32-bit
// tier. The packed tier wins over the int tier for all-non-negative arrays.
func encodeLongArray(w *stream.Writer, a []int64) {
	maxv := int64(math.MinInt64)
	minv := int64(math.MaxInt64)
	for _, i := range a {
		maxv = max(maxv, i)
		minv = min(minv, i)
	}

	switch {
	case math.MinInt8 <= minv && maxv <= math.MaxInt8:
		w.WriteUint8(uint8(tag.ArrayLongByte))
		w.PackUint(uint32(len(a))) //nolint:gosec
		for _, i := range a {
			w.WriteUint8(uint8(i)) //nolint:gosec
		}
	case math.MinInt16 <= minv && maxv <= math.MaxInt16:
		w.WriteUint8(uint8(tag.ArrayLongShort))
		w.PackUint(uint32(len(a))) //nolint:gosec
		for _, i := range a {
			w.WriteUint16(uint16(i)) //nolint:gosec
		}
	case minv >= 0:
		w.WriteUint8(uint8(tag.ArrayLongPacked))
		w.PackUint(uint32(len(a))) //nolint:gosec
		for _, i := range a {
			w.PackULong(uint64(i))
		}
	case math.MinInt32 <= minv && maxv <= math.MaxInt32:
		w.WriteUint8(uint8(tag.ArrayLongInt))
		w.PackUint(uint32(len(a))) //nolint:gosec
		for _, i := range a {
			w.WriteUint32(uint32(i)) //nolint:gosec
		}
	default:
		w.WriteUint8(uint8(tag.ArrayLong))
		w.PackUint(uint32(len(a))) //nolint:gosec
		for _, i := range a {
			w.WriteUint64(uint64(i)) //nolint:gosec
		}
	}
}

// encodeContainer handles every trackable shape. refs is always non-nil here
// and v is already registered in it.
func (c *Codec) encodeContainer(w *stream.Writer, v any, refs *RefTable) error {
	switch val := v.(type) {
	case *value.List:
		return c.encodeList(w, val, refs)
	case *value.LinkedList:
		return c.encodeItems(w, tag.LinkedList, val.Items, refs)
	case *value.HashSet:
		return c.encodeItems(w, tag.HashSet, val.Items, refs)
	case *value.LinkedHashSet:
		return c.encodeItems(w, tag.LinkedHashSet, val.Items, refs)
	case *value.TreeSet:
		w.WriteUint8(uint8(tag.TreeSet))
		w.PackUint(uint32(len(val.Items))) //nolint:gosec
		if err := c.encode(w, val.Comparator, refs); err != nil {
			return err
		}
		for _, item := range val.Items {
			if err := c.encode(w, item, refs); err != nil {
				return err
			}
		}

		return nil
	case *value.TreeMap:
		w.WriteUint8(uint8(tag.TreeMap))
		w.PackUint(uint32(len(val.Entries))) //nolint:gosec
		if err := c.encode(w, val.Comparator, refs); err != nil {
			return err
		}

		return c.encodeEntries(w, val.Entries, refs)
	case *value.HashMap:
		return c.encodeMap(w, tag.HashMap, val.Entries, refs)
	case *value.LinkedHashMap:
		return c.encodeMap(w, tag.LinkedHashMap, val.Entries, refs)
	case *value.Properties:
		return c.encodeMap(w, tag.Properties, val.Entries, refs)
	case *value.Tuple2:
		w.WriteUint8(uint8(tag.Tuple2))

		return c.encodeAll(w, refs, val.A, val.B)
	case *value.Tuple3:
		w.WriteUint8(uint8(tag.Tuple3))

		return c.encodeAll(w, refs, val.A, val.B, val.C)
	case *value.Tuple4:
		w.WriteUint8(uint8(tag.Tuple4))

		return c.encodeAll(w, refs, val.A, val.B, val.C, val.D)
	case *value.ObjectArray:
		return c.encodeObjectArray(w, val, refs)
	}

	return fmt.Errorf("%w: %T", errs.ErrUnserializable, v)
}

func (c *Codec) encodeAll(w *stream.Writer, refs *RefTable, vals ...any) error {
	for _, v := range vals {
		if err := c.encode(w, v, refs); err != nil {
			return err
		}
	}

	return nil
}

func (c *Codec) encodeItems(w *stream.Writer, header tag.Tag, items []any, refs *RefTable) error {
	w.WriteUint8(uint8(header))
	w.PackUint(uint32(len(items))) //nolint:gosec
	for _, item := range items {
		if err := c.encode(w, item, refs); err != nil {
			return err
		}
	}

	return nil
}

func (c *Codec) encodeMap(w *stream.Writer, header tag.Tag, entries []value.Entry, refs *RefTable) error {
	w.WriteUint8(uint8(header))
	w.PackUint(uint32(len(entries))) //nolint:gosec

	return c.encodeEntries(w, entries, refs)
}

func (c *Codec) encodeEntries(w *stream.Writer, entries []value.Entry, refs *RefTable) error {
	for _, e := range entries {
		if err := c.encode(w, e.Key, refs); err != nil {
			return err
		}
		if err := c.encode(w, e.Value, refs); err != nil {
			return err
		}
	}

	return nil
}

// packableLongItem reports whether x may live in a packed-long fast path:
// nil, a non-negative long, or the open-interval sentinel MaxInt64.
func packableLongItem(x any) bool {
	if x == nil {
		return true
	}
	l, ok := x.(int64)

	return ok && (l >= 0 || l == math.MaxInt64)
}

// packULongShifted writes x with the packed-long null shift: 0 means nil,
// anything else is the value plus one. MaxInt64 wraps to MinInt64 and back,
// the decoder's subtraction restores it.
func packULongShifted(w *stream.Writer, x any) {
	if x == nil {
		w.PackULong(0)
		return
	}
	w.PackULong(uint64(x.(int64)) + 1) //nolint:gosec
}

// encodeList emits the packed-long fast path for lists of fewer than 255
// record references, the dominant list shape in stored B-tree values.
func (c *Codec) encodeList(w *stream.Writer, l *value.List, refs *RefTable) error {
	packable := len(l.Items) < 255
	if packable {
		for _, x := range l.Items {
			if !packableLongItem(x) {
				packable = false
				break
			}
		}
	}

	if packable {
		w.WriteUint8(uint8(tag.ArrayListPackedLong))
		w.WriteUint8(uint8(len(l.Items))) //nolint:gosec
		for _, x := range l.Items {
			packULongShifted(w, x)
		}

		return nil
	}

	return c.encodeItems(w, tag.ArrayList, l.Items, refs)
}

func (c *Codec) encodeObjectArray(w *stream.Writer, arr *value.ObjectArray, refs *RefTable) error {
	packable := len(arr.Items) <= 255
	allNull := true
	for _, x := range arr.Items {
		if x != nil {
			allNull = false
			if packable && !packableLongItem(x) {
				packable = false
			}
		}
		if !packable && !allNull {
			break
		}
	}

	switch {
	case allNull:
		w.WriteUint8(uint8(tag.ArrayObjectAllNull))
		w.PackUint(uint32(len(arr.Items))) //nolint:gosec
		w.WriteUTF(string(arr.Component))
	case packable:
		w.WriteUint8(uint8(tag.ArrayObjectPackedLong))
		w.WriteUint8(uint8(len(arr.Items))) //nolint:gosec
		for _, x := range arr.Items {
			packULongShifted(w, x)
		}
	default:
		w.WriteUint8(uint8(tag.ArrayObject))
		w.PackUint(uint32(len(arr.Items))) //nolint:gosec
		w.WriteUTF(string(arr.Component))
		for _, x := range arr.Items {
			if err := c.encode(w, x, refs); err != nil {
				return err
			}
		}
	}

	return nil
}

// encodable is the shallow classification behind AssertEncodable.
func (c *Codec) encodable(v any) bool {
	switch v.(type) {
	case nil, bool, int8, int16, int32, int64, int, value.Char,
		float32, float64, string, *big.Int, *value.BigDecimal,
		value.Class, time.Time, uuid.UUID,
		[]byte, []bool, []int16, []value.Char, []float32, []float64,
		[]int32, []int64:
		return true
	}

	if trackable(v) || v == value.HI {
		return true
	}
	if _, ok := c.registryIDOf(v); ok {
		return true
	}

	switch v.(type) {
	case *BasicKeyCodec, *Tuple2KeyCodec, *Tuple3KeyCodec, *Tuple4KeyCodec:
		return true
	}

	return false
}
