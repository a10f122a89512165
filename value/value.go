// Package value defines the universe of values the valo codec understands.
//
// Scalars map onto native Go types (bool, int8..int64, float32/64, string,
// time.Time, uuid.UUID, *big.Int) and primitive arrays onto native slices.
// Containers, tuples and object arrays are the pointer types declared here;
// the codec tracks them by identity inside a single encode or decode call, so
// shared references and cycles survive a round trip.
package value

import "math/big"

// Char is a single 16-bit unicode code unit. It is a distinct value shape,
// separate from the integer widths.
type Char uint16

// Class is an opaque component-type token carried by object arrays and class
// values. The codec stores it as a qualified textual name and does not
// interpret it; the host's class-token resolver gives it meaning.
type Class string

// Common component tokens used by the codec's own fast paths.
const (
	ClassObject Class = "object"
	ClassLong   Class = "int64"
)

// BigDecimal is an arbitrary-precision decimal: an unscaled integer plus a
// signed 32-bit scale. The numeric value is Unscaled * 10^-Scale.
type BigDecimal struct {
	Unscaled *big.Int
	Scale    int32
}

// NewBigDecimal creates a BigDecimal from an unscaled integer and a scale.
func NewBigDecimal(unscaled *big.Int, scale int32) *BigDecimal {
	return &BigDecimal{Unscaled: unscaled, Scale: scale}
}

// Entry is a single key/value pair of a map container.
type Entry struct {
	Key   any
	Value any
}

// List is an ordered, random-access sequence.
type List struct {
	Items []any
}

// LinkedList is an ordered sequence with list-node semantics on the host side.
// The codec writes it like the general List form under its own header byte;
// the packed-long fast path is used for List only.
type LinkedList struct {
	Items []any
}

// HashSet is an unordered set. The codec writes elements in the order they
// appear in Items and promises only set equality across a round trip.
type HashSet struct {
	Items []any
}

// LinkedHashSet is a set that preserves insertion order across a round trip.
type LinkedHashSet struct {
	Items []any
}

// TreeSet is an ordered set sorted by Comparator. A nil Comparator means
// natural ordering. The codec serializes the comparator before the elements
// and leaves the actual ordering to the host.
type TreeSet struct {
	Comparator any
	Items      []any
}

// HashMap is an unordered key/value mapping. Entry order is preserved as
// written but only set-of-entries equality is promised.
type HashMap struct {
	Entries []Entry
}

// LinkedHashMap is a mapping that preserves insertion order across a round trip.
type LinkedHashMap struct {
	Entries []Entry
}

// TreeMap is a mapping sorted by Comparator. A nil Comparator means natural
// ordering.
type TreeMap struct {
	Comparator any
	Entries    []Entry
}

// Properties is a string-to-string mapping.
type Properties struct {
	Entries []Entry
}

// Tuple2 is a fixed-arity record of two values.
type Tuple2 struct {
	A any
	B any
}

// Tuple3 is a fixed-arity record of three values.
type Tuple3 struct {
	A any
	B any
	C any
}

// Tuple4 is a fixed-arity record of four values.
type Tuple4 struct {
	A any
	B any
	C any
	D any
}

// ObjectArray is a heterogeneous array carrying the component-type token the
// decoder needs to allocate a typed array on the host side.
type ObjectArray struct {
	Component Class
	Items     []any
}

// NewList creates a List holding the given items.
func NewList(items ...any) *List {
	return &List{Items: items}
}

// NewObjectArray creates an ObjectArray with the given component token.
func NewObjectArray(component Class, items ...any) *ObjectArray {
	return &ObjectArray{Component: component, Items: items}
}

// hiSentinel has non-zero size so that HI's pointer is distinct from other
// zero-size allocations.
type hiSentinel struct{ _ byte }

// HI is the greater-than-everything marker. Hosts use it as the open upper
// bound of tuple range scans; it compares greater than every other value and
// serializes by identity.
var HI any = &hiSentinel{}
