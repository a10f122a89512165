// Package codec implements the self-describing binary value codec used by the
// embedded database for its stored records.
//
// Every value is written as a one-byte header (see the tag package) followed
// by a shape-specific payload. The writer picks the densest header whose
// value class contains the value: small integers collapse into the header
// itself, mid-size integers use width-adaptive little-endian payloads, and
// homogeneous arrays select a payload width from a single min/max scan.
// Containers recurse through the same dispatch; a per-call identity table
// turns shared and cyclic references into back-references, so object graphs
// survive a round trip with their sharing structure intact.
//
// # Basic Usage
//
//	c, _ := codec.New()
//	data, err := c.Marshal(value.NewList(int64(1), "two", nil))
//	...
//	v, err := c.Unmarshal(data)
//
// The package-level Basic codec is the shared default instance; the singleton
// registry refers to it by a stable sub-id, so hosts that persist codec
// configuration get the same instance back on decode.
//
// # Concurrency
//
// A Codec is immutable after New and safe for concurrent use; all per-call
// state lives in the Writer/Reader and the reference table. A single
// encode or decode call is strictly single-threaded.
package codec

import (
	"fmt"

	"github.com/arloliu/valo/endian"
	"github.com/arloliu/valo/errs"
	"github.com/arloliu/valo/internal/options"
	"github.com/arloliu/valo/stream"
	"github.com/arloliu/valo/tag"
)

// Extension hooks user-defined record types into the codec. EncodeUnknown
// receives every value the core dispatcher cannot classify; DecodeUnknown
// receives every header byte the core does not recognize, including the
// Record header. Implementations may recurse through EncodeWith/DecodeWith
// with the supplied reference table to keep back-references working.
type Extension interface {
	EncodeUnknown(c *Codec, w *stream.Writer, v any, refs *RefTable) error
	DecodeUnknown(c *Codec, r *stream.Reader, head tag.Tag, refs *RefTable) (any, error)
}

// Codec encodes and decodes values of the universe described in the value
// package.
type Codec struct {
	engine endian.EndianEngine
	ext    Extension
}

// Option configures a Codec during New.
type Option = options.Option[*Codec]

// WithExtension installs the record extension invoked for values and headers
// the core codec does not handle.
func WithExtension(ext Extension) Option {
	return options.NoError(func(c *Codec) {
		c.ext = ext
	})
}

// New creates a Codec. The wire format is big-endian for raw multi-byte
// scalars; this is fixed and not configurable.
func New(opts ...Option) (*Codec, error) {
	c := &Codec{
		engine: endian.GetBigEndianEngine(),
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Basic is the shared default codec instance. The singleton registry encodes
// it by sub-id, so it must be process-wide stable.
var Basic = mustNew()

func mustNew() *Codec {
	c, err := New()
	if err != nil {
		panic(err)
	}

	return c
}

// Engine returns the endian engine used for raw multi-byte scalars.
func (c *Codec) Engine() endian.EndianEngine {
	return c.engine
}

// Encode writes one value to w. This is the top-level entry point: the
// reference table is created lazily when the first container value is
// encountered.
func (c *Codec) Encode(w *stream.Writer, v any) error {
	return c.encode(w, v, nil)
}

// EncodeWith writes one value to w, resolving back-references against refs.
// It exists for record extensions that recurse into the core dispatcher;
// other callers use Encode.
func (c *Codec) EncodeWith(w *stream.Writer, v any, refs *RefTable) error {
	return c.encode(w, v, refs)
}

// Decode reads one value from r.
func (c *Codec) Decode(r *stream.Reader) (any, error) {
	return c.decode(r, nil)
}

// DecodeWith reads one value from r, resolving back-references against refs.
// It exists for record extensions that recurse into the core dispatcher;
// other callers use Decode.
func (c *Codec) DecodeWith(r *stream.Reader, refs *RefTable) (any, error) {
	return c.decode(r, refs)
}

// DecodeRecord reads one stored record of the given size. A zero size means
// the record slot is empty: nil is returned without consuming any input.
func (c *Codec) DecodeRecord(r *stream.Reader, size int) (any, error) {
	if size == 0 {
		return nil, nil
	}

	return c.decode(r, nil)
}

// Marshal encodes a single value into a fresh byte slice.
func (c *Codec) Marshal(v any) ([]byte, error) {
	w := stream.NewWriter(c.engine)
	defer w.Release()

	if err := c.encode(w, v, nil); err != nil {
		return nil, err
	}

	out := make([]byte, w.Len())
	copy(out, w.Bytes())

	return out, nil
}

// Unmarshal decodes a single value from data. Trailing bytes are left
// untouched; a stream is a concatenation of self-delimiting values.
func (c *Codec) Unmarshal(data []byte) (any, error) {
	r := stream.NewReader(data, c.engine)

	return c.decode(r, nil)
}

// AssertEncodable classifies v without writing anything and reports whether
// the codec (or its installed extension) would accept it. Hosts call this
// before admitting a value into a stored collection. The check is shallow:
// container elements are classified when they are actually encoded.
func (c *Codec) AssertEncodable(v any) error {
	if c.encodable(v) {
		return nil
	}
	if c.ext != nil {
		// the extension owns everything the core rejects
		return nil
	}

	return fmt.Errorf("%w: %T", errs.ErrUnserializable, v)
}

// CheckCanonical verifies that data is the canonical (minimal) encoding of
// the value it contains: the stream is decoded and re-encoded, and the bytes
// must match. The regular decoder tolerates non-minimal encodings so older
// writers stay readable; this is the strict conformance check for hosts that
// want to reject them.
func (c *Codec) CheckCanonical(data []byte) error {
	v, err := c.Unmarshal(data)
	if err != nil {
		return err
	}

	enc, err := c.Marshal(v)
	if err != nil {
		return err
	}

	if len(enc) != len(data) {
		return fmt.Errorf("%w: non-canonical encoding, %d bytes instead of %d",
			errs.ErrCorrupt, len(data), len(enc))
	}
	for i := range enc {
		if enc[i] != data[i] {
			return fmt.Errorf("%w: non-canonical encoding at offset %d", errs.ErrCorrupt, i)
		}
	}

	return nil
}
