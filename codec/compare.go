package codec

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/valo/value"
)

// Comparator orders two values of the codec universe. Implementations are
// serialized by the registry so tree collections can be reopened with the
// ordering they were built with.
type Comparator interface {
	// Compare returns a negative number, zero, or a positive number when a
	// sorts before, equal to, or after b. It panics on values it cannot
	// order, mirroring the contract tree collections rely on.
	Compare(a, b any) int
}

// naturalComparator orders scalars of the same shape by their natural order.
// HI sorts after everything. The nullable variant sorts nil before
// everything; the strict variant panics on nil.
type naturalComparator struct {
	nullable bool
}

func (c *naturalComparator) Compare(a, b any) int {
	if a == nil || b == nil {
		if !c.nullable {
			panic("natural comparator: nil value")
		}
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if a == value.HI || b == value.HI {
		switch {
		case a == b:
			return 0
		case a == value.HI:
			return 1
		default:
			return -1
		}
	}

	if n := compareNatural(a, b, c); n != incomparable {
		return n
	}

	panic(fmt.Sprintf("natural comparator: cannot order %T against %T", a, b))
}

// incomparable is returned by compareNatural when the pair has no natural
// order; Compare turns it into a panic, tuple comparison propagates it.
const incomparable = math.MaxInt

func compareNatural(a, b any, c *naturalComparator) int {
	switch av := a.(type) {
	case bool:
		if bv, ok := b.(bool); ok {
			return compareBool(av, bv)
		}
	case int8:
		if bv, ok := b.(int8); ok {
			return compareOrdered(av, bv)
		}
	case int16:
		if bv, ok := b.(int16); ok {
			return compareOrdered(av, bv)
		}
	case int32:
		if bv, ok := b.(int32); ok {
			return compareOrdered(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return compareOrdered(av, bv)
		}
	case value.Char:
		if bv, ok := b.(value.Char); ok {
			return compareOrdered(av, bv)
		}
	case float32:
		if bv, ok := b.(float32); ok {
			return compareOrdered(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return compareOrdered(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return compareOrdered(av, bv)
		}
	case value.Class:
		if bv, ok := b.(value.Class); ok {
			return compareOrdered(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case uuid.UUID:
		if bv, ok := b.(uuid.UUID); ok {
			return bytes.Compare(av[:], bv[:])
		}
	case *big.Int:
		if bv, ok := b.(*big.Int); ok {
			return av.Cmp(bv)
		}
	case *value.BigDecimal:
		if bv, ok := b.(*value.BigDecimal); ok {
			return compareBigDecimal(av, bv)
		}
	case *value.Tuple2:
		if bv, ok := b.(*value.Tuple2); ok {
			return compareFields(c, []any{av.A, av.B}, []any{bv.A, bv.B})
		}
	case *value.Tuple3:
		if bv, ok := b.(*value.Tuple3); ok {
			return compareFields(c, []any{av.A, av.B, av.C}, []any{bv.A, bv.B, bv.C})
		}
	case *value.Tuple4:
		if bv, ok := b.(*value.Tuple4); ok {
			return compareFields(c,
				[]any{av.A, av.B, av.C, av.D}, []any{bv.A, bv.B, bv.C, bv.D})
		}
	}

	return incomparable
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	default:
		return 1
	}
}

func compareOrdered[T interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint16 | ~float32 | ~float64 | ~string
}](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareBigDecimal aligns the two scales before comparing unscaled values.
func compareBigDecimal(a, b *value.BigDecimal) int {
	ua, ub := a.Unscaled, b.Unscaled
	if a.Scale != b.Scale {
		ua, ub = new(big.Int).Set(ua), new(big.Int).Set(ub)
		if a.Scale < b.Scale {
			ua.Mul(ua, pow10(uint(b.Scale-a.Scale)))
		} else {
			ub.Mul(ub, pow10(uint(a.Scale-b.Scale)))
		}
	}

	return ua.Cmp(ub)
}

func pow10(n uint) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// compareFields orders tuples field by field. HI in any field short-circuits
// per the comparator's HI rule, which is what makes HI usable as an open
// range bound.
func compareFields(c *naturalComparator, a, b []any) int {
	for i := range a {
		if n := c.Compare(a[i], b[i]); n != 0 {
			return n
		}
	}

	return 0
}
