package value

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Equal reports structural equivalence of two values in the codec universe:
// value equality for scalars, sequence equality for ordered containers, set
// equality for hash sets and hash maps, and field-wise equality for tuples
// and object arrays. Cyclic graphs are handled; two graphs are considered
// equal if their unrollings match.
func Equal(a, b any) bool {
	return equal(a, b, make(map[visitPair]bool))
}

// visitPair keys the in-progress comparisons so cyclic structures terminate.
type visitPair struct {
	a any
	b any
}

func equal(a, b any, seen map[visitPair]bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if isComposite(a) && isComposite(b) {
		pair := visitPair{a: a, b: b}
		if seen[pair] {
			return true
		}
		seen[pair] = true
	}

	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int8:
		bv, ok := b.(int8)
		return ok && av == bv
	case int16:
		bv, ok := b.(int16)
		return ok && av == bv
	case int32:
		bv, ok := b.(int32)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case Char:
		bv, ok := b.(Char)
		return ok && av == bv
	case float32:
		bv, ok := b.(float32)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case Class:
		bv, ok := b.(Class)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case uuid.UUID:
		bv, ok := b.(uuid.UUID)
		return ok && av == bv
	case *big.Int:
		bv, ok := b.(*big.Int)
		return ok && av.Cmp(bv) == 0
	case *BigDecimal:
		bv, ok := b.(*BigDecimal)
		return ok && av.Scale == bv.Scale && av.Unscaled.Cmp(bv.Unscaled) == 0

	case []byte:
		bv, ok := b.([]byte)
		return ok && bytesEqual(av, bv)
	case []bool:
		bv, ok := b.([]bool)
		return ok && sliceEqual(av, bv)
	case []int16:
		bv, ok := b.([]int16)
		return ok && sliceEqual(av, bv)
	case []Char:
		bv, ok := b.([]Char)
		return ok && sliceEqual(av, bv)
	case []int32:
		bv, ok := b.([]int32)
		return ok && sliceEqual(av, bv)
	case []int64:
		bv, ok := b.([]int64)
		return ok && sliceEqual(av, bv)
	case []float32:
		bv, ok := b.([]float32)
		return ok && sliceEqual(av, bv)
	case []float64:
		bv, ok := b.([]float64)
		return ok && sliceEqual(av, bv)

	case *List:
		bv, ok := b.(*List)
		return ok && itemsEqual(av.Items, bv.Items, seen)
	case *LinkedList:
		bv, ok := b.(*LinkedList)
		return ok && itemsEqual(av.Items, bv.Items, seen)
	case *LinkedHashSet:
		bv, ok := b.(*LinkedHashSet)
		return ok && itemsEqual(av.Items, bv.Items, seen)
	case *HashSet:
		bv, ok := b.(*HashSet)
		return ok && itemSetEqual(av.Items, bv.Items, seen)
	case *TreeSet:
		bv, ok := b.(*TreeSet)
		return ok && equal(av.Comparator, bv.Comparator, seen) && itemsEqual(av.Items, bv.Items, seen)

	case *HashMap:
		bv, ok := b.(*HashMap)
		return ok && entrySetEqual(av.Entries, bv.Entries, seen)
	case *LinkedHashMap:
		bv, ok := b.(*LinkedHashMap)
		return ok && entriesEqual(av.Entries, bv.Entries, seen)
	case *TreeMap:
		bv, ok := b.(*TreeMap)
		return ok && equal(av.Comparator, bv.Comparator, seen) && entriesEqual(av.Entries, bv.Entries, seen)
	case *Properties:
		bv, ok := b.(*Properties)
		return ok && entrySetEqual(av.Entries, bv.Entries, seen)

	case *Tuple2:
		bv, ok := b.(*Tuple2)
		return ok && equal(av.A, bv.A, seen) && equal(av.B, bv.B, seen)
	case *Tuple3:
		bv, ok := b.(*Tuple3)
		return ok && equal(av.A, bv.A, seen) && equal(av.B, bv.B, seen) && equal(av.C, bv.C, seen)
	case *Tuple4:
		bv, ok := b.(*Tuple4)
		return ok && equal(av.A, bv.A, seen) && equal(av.B, bv.B, seen) &&
			equal(av.C, bv.C, seen) && equal(av.D, bv.D, seen)

	case *ObjectArray:
		bv, ok := b.(*ObjectArray)
		return ok && av.Component == bv.Component && itemsEqual(av.Items, bv.Items, seen)

	case *hiSentinel:
		return a == b
	}

	// Remaining shapes (registry singletons and the like) compare by identity.
	return identityEqual(a, b)
}

// isComposite reports whether v is one of the pointer composites that can
// participate in cycles.
func isComposite(v any) bool {
	switch v.(type) {
	case *List, *LinkedList, *HashSet, *LinkedHashSet, *TreeSet,
		*HashMap, *LinkedHashMap, *TreeMap, *Properties,
		*Tuple2, *Tuple3, *Tuple4, *ObjectArray:
		return true
	}

	return false
}

// identityEqual compares two values of comparable dynamic type by ==, and
// falls back to false for anything uncomparable.
func identityEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()

	return a == b
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func itemsEqual(a, b []any, seen map[visitPair]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i], seen) {
			return false
		}
	}

	return true
}

func itemSetEqual(a, b []any, seen map[visitPair]bool) bool {
	if len(a) != len(b) {
		return false
	}

	matched := make([]bool, len(b))
outer:
	for _, av := range a {
		for i, bv := range b {
			if !matched[i] && equal(av, bv, seen) {
				matched[i] = true
				continue outer
			}
		}

		return false
	}

	return true
}

func entriesEqual(a, b []Entry, seen map[visitPair]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i].Key, b[i].Key, seen) || !equal(a[i].Value, b[i].Value, seen) {
			return false
		}
	}

	return true
}

func entrySetEqual(a, b []Entry, seen map[visitPair]bool) bool {
	if len(a) != len(b) {
		return false
	}

	matched := make([]bool, len(b))
outer:
	for _, ae := range a {
		for i, be := range b {
			if !matched[i] && equal(ae.Key, be.Key, seen) && equal(ae.Value, be.Value, seen) {
				matched[i] = true
				continue outer
			}
		}

		return false
	}

	return true
}
