package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/valo/endian"
	"github.com/arloliu/valo/errs"
	"github.com/arloliu/valo/stream"
	"github.com/arloliu/valo/tag"
	"github.com/arloliu/valo/value"
)

// RegistryID is a sub-id under the MapDB header. The assignment is part of
// the wire format; extend it additively, never renumber.
type RegistryID uint32

const (
	RegPosLongKey         RegistryID = 1
	RegStringKey          RegistryID = 2
	RegPosIntKey          RegistryID = 3
	RegLong               RegistryID = 4
	RegInt                RegistryID = 5
	RegEmpty              RegistryID = 6
	RegTuple2Key          RegistryID = 7
	RegTuple3Key          RegistryID = 8
	RegTuple4Key          RegistryID = 9
	RegNullableComparator RegistryID = 10
	RegComparator         RegistryID = 11
	RegThis               RegistryID = 12
	RegBasic              RegistryID = 13
	RegStringNoSize       RegistryID = 14
	RegBasicKey           RegistryID = 15
	RegBoolean            RegistryID = 16
	RegByteArrayNoSize    RegistryID = 17
)

// ValueCodec is a fixed-shape element codec. Unlike the self-describing
// Codec, a ValueCodec writes no header byte; the host knows the shape from
// the collection's configuration. Hash feeds the host's hash-tree buckets.
type ValueCodec interface {
	EncodeValue(w *stream.Writer, v any) error
	DecodeValue(r *stream.Reader) (any, error)
	Hash(v any) uint64
}

// KeyCodec serializes the key arrays of B-tree nodes.
type KeyCodec interface {
	EncodeKeys(w *stream.Writer, keys []any) error
	DecodeKeys(r *stream.Reader, count int) ([]any, error)
	HashKey(key any) uint64
}

// The process-wide singletons. The registry encodes each by sub-id, so their
// identities must be stable for the process lifetime; hosts compare them
// with ==, never structurally.
var (
	// PosLongKey packs non-negative long keys.
	PosLongKey KeyCodec = &posLongKeyCodec{}
	// PosIntKey packs non-negative int keys.
	PosIntKey KeyCodec = &posIntKeyCodec{}
	// StringKey writes length-prefixed UTF-8 string keys.
	StringKey KeyCodec = &stringKeyCodec{}

	// Long is the raw 8-byte long codec.
	Long ValueCodec = &longCodec{}
	// Int is the raw 4-byte int codec.
	Int ValueCodec = &intCodec{}
	// Boolean is the single-byte boolean codec.
	Boolean ValueCodec = &booleanCodec{}
	// Empty writes nothing and reads nil; it backs key-only collections.
	Empty ValueCodec = &emptyCodec{}
	// StringNoSize writes a string's UTF-8 bytes with no length prefix and
	// reads to the end of the record.
	StringNoSize ValueCodec = &stringNoSizeCodec{}
	// ByteArrayNoSize writes a byte slice raw and reads to the end of the
	// record.
	ByteArrayNoSize ValueCodec = &byteArrayNoSizeCodec{}

	// NaturalComparator orders scalars by their natural order and rejects nil.
	NaturalComparator Comparator = &naturalComparator{}
	// NullableNaturalComparator orders like NaturalComparator with nil
	// sorting before everything.
	NullableNaturalComparator Comparator = &naturalComparator{nullable: true}
)

// registryIDOf maps a singleton to its sub-id by identity. Constructed codecs
// (basic key, tuple keys) are matched by type elsewhere; they carry state.
func (c *Codec) registryIDOf(v any) (RegistryID, bool) {
	switch {
	case v == PosLongKey:
		return RegPosLongKey, true
	case v == PosIntKey:
		return RegPosIntKey, true
	case v == StringKey:
		return RegStringKey, true
	case v == Long:
		return RegLong, true
	case v == Int:
		return RegInt, true
	case v == Boolean:
		return RegBoolean, true
	case v == Empty:
		return RegEmpty, true
	case v == StringNoSize:
		return RegStringNoSize, true
	case v == ByteArrayNoSize:
		return RegByteArrayNoSize, true
	case v == NaturalComparator:
		return RegComparator, true
	case v == NullableNaturalComparator:
		return RegNullableComparator, true
	case v == Basic:
		return RegBasic, true
	case v == c:
		return RegThis, true
	}

	return 0, false
}

// encodeRegistryComposite handles the constructed registry codecs, which
// write their sub-id followed by their components through the main dispatch.
func (c *Codec) encodeRegistryComposite(w *stream.Writer, v any, refs *RefTable) (bool, error) {
	switch val := v.(type) {
	case *BasicKeyCodec:
		w.WriteUint8(uint8(tag.MapDB))
		w.PackUint(uint32(RegBasicKey))

		return true, nil
	case *Tuple2KeyCodec:
		w.WriteUint8(uint8(tag.MapDB))
		w.PackUint(uint32(RegTuple2Key))

		return true, c.encodeAll(w, refs, val.ACmp, val.ACodec, val.BCodec)
	case *Tuple3KeyCodec:
		w.WriteUint8(uint8(tag.MapDB))
		w.PackUint(uint32(RegTuple3Key))

		return true, c.encodeAll(w, refs,
			val.ACmp, val.BCmp, val.ACodec, val.BCodec, val.CCodec)
	case *Tuple4KeyCodec:
		w.WriteUint8(uint8(tag.MapDB))
		w.PackUint(uint32(RegTuple4Key))

		return true, c.encodeAll(w, refs,
			val.ACmp, val.BCmp, val.CCmp, val.ACodec, val.BCodec, val.CCodec, val.DCodec)
	}

	return false, nil
}

// decodeRegistry resolves a MapDB header: the packed sub-id follows, and for
// the constructed codecs, their components.
func (c *Codec) decodeRegistry(r *stream.Reader, refs *RefTable) (any, error) {
	id, err := r.UnpackUint()
	if err != nil {
		return nil, err
	}

	switch RegistryID(id) {
	case RegPosLongKey:
		return PosLongKey, nil
	case RegPosIntKey:
		return PosIntKey, nil
	case RegStringKey:
		return StringKey, nil
	case RegLong:
		return Long, nil
	case RegInt:
		return Int, nil
	case RegBoolean:
		return Boolean, nil
	case RegEmpty:
		return Empty, nil
	case RegStringNoSize:
		return StringNoSize, nil
	case RegByteArrayNoSize:
		return ByteArrayNoSize, nil
	case RegComparator:
		return NaturalComparator, nil
	case RegNullableComparator:
		return NullableNaturalComparator, nil
	case RegBasic:
		return Basic, nil
	case RegThis:
		return c, nil
	case RegBasicKey:
		return NewBasicKey(c), nil

	case RegTuple2Key:
		k := &Tuple2KeyCodec{}
		if k.ACmp, err = c.decodeComparator(r, refs); err != nil {
			return nil, err
		}
		if k.ACodec, err = c.decodeValueCodec(r, refs); err != nil {
			return nil, err
		}
		if k.BCodec, err = c.decodeValueCodec(r, refs); err != nil {
			return nil, err
		}

		return k, nil
	case RegTuple3Key:
		k := &Tuple3KeyCodec{}
		if k.ACmp, err = c.decodeComparator(r, refs); err != nil {
			return nil, err
		}
		if k.BCmp, err = c.decodeComparator(r, refs); err != nil {
			return nil, err
		}
		if k.ACodec, err = c.decodeValueCodec(r, refs); err != nil {
			return nil, err
		}
		if k.BCodec, err = c.decodeValueCodec(r, refs); err != nil {
			return nil, err
		}
		if k.CCodec, err = c.decodeValueCodec(r, refs); err != nil {
			return nil, err
		}

		return k, nil
	case RegTuple4Key:
		k := &Tuple4KeyCodec{}
		if k.ACmp, err = c.decodeComparator(r, refs); err != nil {
			return nil, err
		}
		if k.BCmp, err = c.decodeComparator(r, refs); err != nil {
			return nil, err
		}
		if k.CCmp, err = c.decodeComparator(r, refs); err != nil {
			return nil, err
		}
		if k.ACodec, err = c.decodeValueCodec(r, refs); err != nil {
			return nil, err
		}
		if k.BCodec, err = c.decodeValueCodec(r, refs); err != nil {
			return nil, err
		}
		if k.CCodec, err = c.decodeValueCodec(r, refs); err != nil {
			return nil, err
		}
		if k.DCodec, err = c.decodeValueCodec(r, refs); err != nil {
			return nil, err
		}

		return k, nil
	}

	return nil, fmt.Errorf("%w: unknown registry sub-id %d", errs.ErrCorrupt, id)
}

func (c *Codec) decodeComparator(r *stream.Reader, refs *RefTable) (Comparator, error) {
	v, err := c.decode(r, refs)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	cmp, ok := v.(Comparator)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a comparator", errs.ErrCorrupt, v)
	}

	return cmp, nil
}

func (c *Codec) decodeValueCodec(r *stream.Reader, refs *RefTable) (ValueCodec, error) {
	v, err := c.decode(r, refs)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	vc, ok := v.(ValueCodec)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a value codec", errs.ErrCorrupt, v)
	}

	return vc, nil
}

// ---- scalar value codecs ----

type longCodec struct{}

func (longCodec) EncodeValue(w *stream.Writer, v any) error {
	l, ok := v.(int64)
	if !ok {
		return fmt.Errorf("%w: %T is not int64", errs.ErrUnserializable, v)
	}
	w.WriteUint64(uint64(l)) //nolint:gosec

	return nil
}

func (longCodec) DecodeValue(r *stream.Reader) (any, error) {
	u, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}

	return int64(u), nil //nolint:gosec
}

func (longCodec) Hash(v any) uint64 {
	l, ok := v.(int64)
	if !ok {
		return 0
	}

	return hashUint64(uint64(l)) //nolint:gosec
}

type intCodec struct{}

func (intCodec) EncodeValue(w *stream.Writer, v any) error {
	i, ok := v.(int32)
	if !ok {
		return fmt.Errorf("%w: %T is not int32", errs.ErrUnserializable, v)
	}
	w.WriteUint32(uint32(i)) //nolint:gosec

	return nil
}

func (intCodec) DecodeValue(r *stream.Reader) (any, error) {
	u, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	return int32(u), nil //nolint:gosec
}

func (intCodec) Hash(v any) uint64 {
	i, ok := v.(int32)
	if !ok {
		return 0
	}

	return hashUint64(uint64(uint32(i)))
}

type booleanCodec struct{}

func (booleanCodec) EncodeValue(w *stream.Writer, v any) error {
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("%w: %T is not bool", errs.ErrUnserializable, v)
	}
	if b {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}

	return nil
}

func (booleanCodec) DecodeValue(r *stream.Reader) (any, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	return b != 0, nil
}

func (booleanCodec) Hash(v any) uint64 {
	if b, ok := v.(bool); ok && b {
		return hashUint64(1)
	}

	return hashUint64(0)
}

type emptyCodec struct{}

func (emptyCodec) EncodeValue(*stream.Writer, any) error { return nil }

func (emptyCodec) DecodeValue(*stream.Reader) (any, error) { return nil, nil }

func (emptyCodec) Hash(any) uint64 { return 0 }

type stringNoSizeCodec struct{}

func (stringNoSizeCodec) EncodeValue(w *stream.Writer, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: %T is not string", errs.ErrUnserializable, v)
	}
	w.WriteBytes([]byte(s))

	return nil
}

func (stringNoSizeCodec) DecodeValue(r *stream.Reader) (any, error) {
	b, err := r.ReadFully(r.Remaining())
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (stringNoSizeCodec) Hash(v any) uint64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}

	return xxhash.Sum64String(s)
}

type byteArrayNoSizeCodec struct{}

func (byteArrayNoSizeCodec) EncodeValue(w *stream.Writer, v any) error {
	b, ok := v.([]byte)
	if !ok {
		return fmt.Errorf("%w: %T is not []byte", errs.ErrUnserializable, v)
	}
	w.WriteBytes(b)

	return nil
}

func (byteArrayNoSizeCodec) DecodeValue(r *stream.Reader) (any, error) {
	return r.ReadFully(r.Remaining())
}

func (byteArrayNoSizeCodec) Hash(v any) uint64 {
	b, ok := v.([]byte)
	if !ok {
		return 0
	}

	return xxhash.Sum64(b)
}

// ---- B-tree key codecs ----

type posLongKeyCodec struct{}

func (posLongKeyCodec) EncodeKeys(w *stream.Writer, keys []any) error {
	for _, k := range keys {
		l, ok := k.(int64)
		if !ok || l < 0 {
			return fmt.Errorf("%w: %v is not a non-negative long key", errs.ErrUnserializable, k)
		}
		w.PackULong(uint64(l))
	}

	return nil
}

func (posLongKeyCodec) DecodeKeys(r *stream.Reader, count int) ([]any, error) {
	keys := make([]any, 0, count)
	for i := 0; i < count; i++ {
		u, err := r.UnpackULong()
		if err != nil {
			return nil, err
		}
		keys = append(keys, int64(u)) //nolint:gosec
	}

	return keys, nil
}

func (posLongKeyCodec) HashKey(key any) uint64 {
	l, ok := key.(int64)
	if !ok {
		return 0
	}

	return hashUint64(uint64(l)) //nolint:gosec
}

type posIntKeyCodec struct{}

func (posIntKeyCodec) EncodeKeys(w *stream.Writer, keys []any) error {
	for _, k := range keys {
		i, ok := k.(int32)
		if !ok || i < 0 {
			return fmt.Errorf("%w: %v is not a non-negative int key", errs.ErrUnserializable, k)
		}
		w.PackUint(uint32(i))
	}

	return nil
}

func (posIntKeyCodec) DecodeKeys(r *stream.Reader, count int) ([]any, error) {
	keys := make([]any, 0, count)
	for i := 0; i < count; i++ {
		u, err := r.UnpackUint()
		if err != nil {
			return nil, err
		}
		keys = append(keys, int32(u)) //nolint:gosec
	}

	return keys, nil
}

func (posIntKeyCodec) HashKey(key any) uint64 {
	i, ok := key.(int32)
	if !ok {
		return 0
	}

	return hashUint64(uint64(uint32(i)))
}

type stringKeyCodec struct{}

func (stringKeyCodec) EncodeKeys(w *stream.Writer, keys []any) error {
	for _, k := range keys {
		s, ok := k.(string)
		if !ok {
			return fmt.Errorf("%w: %T is not a string key", errs.ErrUnserializable, k)
		}
		w.PackUint(uint32(len(s))) //nolint:gosec
		w.WriteBytes([]byte(s))
	}

	return nil
}

func (stringKeyCodec) DecodeKeys(r *stream.Reader, count int) ([]any, error) {
	keys := make([]any, 0, count)
	for i := 0; i < count; i++ {
		n, err := r.UnpackUint()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadFully(int(n))
		if err != nil {
			return nil, err
		}
		keys = append(keys, string(b))
	}

	return keys, nil
}

func (stringKeyCodec) HashKey(key any) uint64 {
	s, ok := key.(string)
	if !ok {
		return 0
	}

	return xxhash.Sum64String(s)
}

// BasicKeyCodec delegates each key to the self-describing codec it was
// created with. Decoding the registry entry always rebinds it to the
// decoding codec instance.
type BasicKeyCodec struct {
	codec *Codec
}

// NewBasicKey creates a BasicKeyCodec bound to c.
func NewBasicKey(c *Codec) *BasicKeyCodec {
	return &BasicKeyCodec{codec: c}
}

func (k *BasicKeyCodec) EncodeKeys(w *stream.Writer, keys []any) error {
	for _, key := range keys {
		if err := k.codec.Encode(w, key); err != nil {
			return err
		}
	}

	return nil
}

func (k *BasicKeyCodec) DecodeKeys(r *stream.Reader, count int) ([]any, error) {
	keys := make([]any, 0, count)
	for i := 0; i < count; i++ {
		v, err := k.codec.Decode(r)
		if err != nil {
			return nil, err
		}
		keys = append(keys, v)
	}

	return keys, nil
}

func (k *BasicKeyCodec) HashKey(key any) uint64 {
	return k.codec.Hash(key)
}

// Tuple2KeyCodec serializes two-field tuple keys with per-field codecs. The
// comparator travels with the codec so an index can be reopened with the
// ordering it was built with.
type Tuple2KeyCodec struct {
	ACmp   Comparator
	ACodec ValueCodec
	BCodec ValueCodec
}

func (k *Tuple2KeyCodec) EncodeKeys(w *stream.Writer, keys []any) error {
	for _, key := range keys {
		t, ok := key.(*value.Tuple2)
		if !ok {
			return fmt.Errorf("%w: %T is not a 2-tuple key", errs.ErrUnserializable, key)
		}
		if err := k.ACodec.EncodeValue(w, t.A); err != nil {
			return err
		}
		if err := k.BCodec.EncodeValue(w, t.B); err != nil {
			return err
		}
	}

	return nil
}

func (k *Tuple2KeyCodec) DecodeKeys(r *stream.Reader, count int) ([]any, error) {
	keys := make([]any, 0, count)
	for i := 0; i < count; i++ {
		t := &value.Tuple2{}
		var err error
		if t.A, err = k.ACodec.DecodeValue(r); err != nil {
			return nil, err
		}
		if t.B, err = k.BCodec.DecodeValue(r); err != nil {
			return nil, err
		}
		keys = append(keys, t)
	}

	return keys, nil
}

func (k *Tuple2KeyCodec) HashKey(key any) uint64 {
	t, ok := key.(*value.Tuple2)
	if !ok {
		return 0
	}

	return hashFields(func(w *stream.Writer) error {
		if err := k.ACodec.EncodeValue(w, t.A); err != nil {
			return err
		}

		return k.BCodec.EncodeValue(w, t.B)
	})
}

// Tuple3KeyCodec serializes three-field tuple keys.
type Tuple3KeyCodec struct {
	ACmp   Comparator
	BCmp   Comparator
	ACodec ValueCodec
	BCodec ValueCodec
	CCodec ValueCodec
}

func (k *Tuple3KeyCodec) EncodeKeys(w *stream.Writer, keys []any) error {
	for _, key := range keys {
		t, ok := key.(*value.Tuple3)
		if !ok {
			return fmt.Errorf("%w: %T is not a 3-tuple key", errs.ErrUnserializable, key)
		}
		if err := k.ACodec.EncodeValue(w, t.A); err != nil {
			return err
		}
		if err := k.BCodec.EncodeValue(w, t.B); err != nil {
			return err
		}
		if err := k.CCodec.EncodeValue(w, t.C); err != nil {
			return err
		}
	}

	return nil
}

func (k *Tuple3KeyCodec) DecodeKeys(r *stream.Reader, count int) ([]any, error) {
	keys := make([]any, 0, count)
	for i := 0; i < count; i++ {
		t := &value.Tuple3{}
		var err error
		if t.A, err = k.ACodec.DecodeValue(r); err != nil {
			return nil, err
		}
		if t.B, err = k.BCodec.DecodeValue(r); err != nil {
			return nil, err
		}
		if t.C, err = k.CCodec.DecodeValue(r); err != nil {
			return nil, err
		}
		keys = append(keys, t)
	}

	return keys, nil
}

func (k *Tuple3KeyCodec) HashKey(key any) uint64 {
	t, ok := key.(*value.Tuple3)
	if !ok {
		return 0
	}

	return hashFields(func(w *stream.Writer) error {
		if err := k.ACodec.EncodeValue(w, t.A); err != nil {
			return err
		}
		if err := k.BCodec.EncodeValue(w, t.B); err != nil {
			return err
		}

		return k.CCodec.EncodeValue(w, t.C)
	})
}

// Tuple4KeyCodec serializes four-field tuple keys.
type Tuple4KeyCodec struct {
	ACmp   Comparator
	BCmp   Comparator
	CCmp   Comparator
	ACodec ValueCodec
	BCodec ValueCodec
	CCodec ValueCodec
	DCodec ValueCodec
}

func (k *Tuple4KeyCodec) EncodeKeys(w *stream.Writer, keys []any) error {
	for _, key := range keys {
		t, ok := key.(*value.Tuple4)
		if !ok {
			return fmt.Errorf("%w: %T is not a 4-tuple key", errs.ErrUnserializable, key)
		}
		if err := k.ACodec.EncodeValue(w, t.A); err != nil {
			return err
		}
		if err := k.BCodec.EncodeValue(w, t.B); err != nil {
			return err
		}
		if err := k.CCodec.EncodeValue(w, t.C); err != nil {
			return err
		}
		if err := k.DCodec.EncodeValue(w, t.D); err != nil {
			return err
		}
	}

	return nil
}

func (k *Tuple4KeyCodec) DecodeKeys(r *stream.Reader, count int) ([]any, error) {
	keys := make([]any, 0, count)
	for i := 0; i < count; i++ {
		t := &value.Tuple4{}
		var err error
		if t.A, err = k.ACodec.DecodeValue(r); err != nil {
			return nil, err
		}
		if t.B, err = k.BCodec.DecodeValue(r); err != nil {
			return nil, err
		}
		if t.C, err = k.CCodec.DecodeValue(r); err != nil {
			return nil, err
		}
		if t.D, err = k.DCodec.DecodeValue(r); err != nil {
			return nil, err
		}
		keys = append(keys, t)
	}

	return keys, nil
}

func (k *Tuple4KeyCodec) HashKey(key any) uint64 {
	t, ok := key.(*value.Tuple4)
	if !ok {
		return 0
	}

	return hashFields(func(w *stream.Writer) error {
		if err := k.ACodec.EncodeValue(w, t.A); err != nil {
			return err
		}
		if err := k.BCodec.EncodeValue(w, t.B); err != nil {
			return err
		}
		if err := k.CCodec.EncodeValue(w, t.C); err != nil {
			return err
		}

		return k.DCodec.EncodeValue(w, t.D)
	})
}

// ---- ValueCodec view of the self-describing codec ----

// EncodeValue lets a Codec serve as an element codec inside tuple-key codecs.
func (c *Codec) EncodeValue(w *stream.Writer, v any) error {
	return c.Encode(w, v)
}

// DecodeValue is the decode half of the ValueCodec view.
func (c *Codec) DecodeValue(r *stream.Reader) (any, error) {
	return c.Decode(r)
}

// Hash returns a 64-bit hash of v's encoded form.
func (c *Codec) Hash(v any) uint64 {
	data, err := c.Marshal(v)
	if err != nil {
		return 0
	}

	return xxhash.Sum64(data)
}

func hashUint64(u uint64) uint64 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], u)

	return xxhash.Sum64(b[:])
}

func hashFields(write func(w *stream.Writer) error) uint64 {
	w := stream.NewWriter(endian.GetBigEndianEngine())
	defer w.Release()

	if err := write(w); err != nil {
		return 0
	}

	return xxhash.Sum64(w.Bytes())
}
