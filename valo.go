// Package valo provides a compact, self-describing binary codec for the
// value universe stored by an embedded key-value database: scalars,
// strings, big numbers, primitive arrays, ordered and mapping containers,
// small tuples, and a registry of well-known helper singletons.
//
// Every encoded value starts with a one-byte header that selects its decode
// branch. The encoder always picks the densest header that fits: integers
// between -9 and 16 are a single byte, mid-size integers store only the
// bytes they need, short strings fold their length into the header, and
// primitive arrays choose a payload width from one min/max scan. Shared and
// cyclic references inside a single value graph are preserved through
// back-references, so a list that contains itself round-trips intact.
//
// # Basic Usage
//
// Encoding and decoding through the default codec:
//
//	import "github.com/arloliu/valo"
//
//	data, err := valo.Marshal(value.NewList(int64(1), "two", nil))
//	if err != nil {
//	    ...
//	}
//
//	v, err := valo.Unmarshal(data)
//
// Containers decode as the pointer types of the value package, scalars as
// their native Go types (int64, string, float64, ...).
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the codec
// package. For fine-grained control (streaming multiple values, record
// extensions, key codecs), use the codec, stream, and value packages
// directly.
package valo

import (
	"github.com/arloliu/valo/codec"
	"github.com/arloliu/valo/value"
)

// Marshal encodes a single value with the default codec and returns its
// byte form.
//
// Parameters:
//   - v: Any value of the codec universe (see the value package)
//
// Returns:
//   - []byte: The encoded bytes, starting with the value's header byte.
//   - error: An error if v (or a nested element) is not encodable.
func Marshal(v any) ([]byte, error) {
	return codec.Basic.Marshal(v)
}

// Unmarshal decodes a single value from data with the default codec.
// Trailing bytes after the first value are ignored; an encoded stream is a
// concatenation of self-delimiting values.
//
// Parameters:
//   - data: Encoded bytes produced by Marshal or a compatible writer
//
// Returns:
//   - any: The decoded value.
//   - error: A corruption, truncation, or unknown-header error.
func Unmarshal(data []byte) (any, error) {
	return codec.Basic.Unmarshal(data)
}

// AssertEncodable reports whether the default codec accepts v. Hosts call
// this before admitting a value into a stored collection; the check is
// shallow and does not walk container elements.
func AssertEncodable(v any) error {
	return codec.Basic.AssertEncodable(v)
}

// Equal reports structural equivalence of two decoded values: value equality
// for scalars, sequence equality for ordered containers, set equality for
// hash containers. It is the equivalence Marshal/Unmarshal round trips
// preserve.
func Equal(a, b any) bool {
	return value.Equal(a, b)
}
