package codec

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/valo/value"
)

func TestNaturalComparator_Scalars(t *testing.T) {
	cmp := NaturalComparator

	require.Negative(t, cmp.Compare(int64(1), int64(2)))
	require.Positive(t, cmp.Compare(int64(2), int64(1)))
	require.Zero(t, cmp.Compare(int64(5), int64(5)))

	require.Negative(t, cmp.Compare("alpha", "beta"))
	require.Zero(t, cmp.Compare("x", "x"))

	require.Negative(t, cmp.Compare(false, true))
	require.Negative(t, cmp.Compare(int32(-1), int32(0)))
	require.Negative(t, cmp.Compare(1.5, 2.5))

	require.Negative(t, cmp.Compare(big.NewInt(10), big.NewInt(11)))
}

func TestNaturalComparator_BigDecimalScales(t *testing.T) {
	// 1.20 == 1.2 despite different scales
	a := value.NewBigDecimal(big.NewInt(120), 2)
	b := value.NewBigDecimal(big.NewInt(12), 1)
	require.Zero(t, NaturalComparator.Compare(a, b))

	c := value.NewBigDecimal(big.NewInt(121), 2)
	require.Positive(t, NaturalComparator.Compare(c, b))
}

func TestNaturalComparator_HISortsLast(t *testing.T) {
	cmp := NaturalComparator

	require.Positive(t, cmp.Compare(value.HI, int64(1<<62)))
	require.Positive(t, cmp.Compare(value.HI, "zzzz"))
	require.Negative(t, cmp.Compare(int64(1), value.HI))
	require.Zero(t, cmp.Compare(value.HI, value.HI))
}

func TestNaturalComparator_TupleRangeBound(t *testing.T) {
	cmp := NaturalComparator

	a := &value.Tuple2{A: "k", B: int64(1)}
	b := &value.Tuple2{A: "k", B: int64(2)}
	bound := &value.Tuple2{A: "k", B: value.HI}

	require.Negative(t, cmp.Compare(a, b))
	require.Negative(t, cmp.Compare(b, bound))
	require.Positive(t, cmp.Compare(bound, a))
}

func TestNaturalComparator_NilHandling(t *testing.T) {
	require.Panics(t, func() { NaturalComparator.Compare(nil, int64(1)) })

	cmp := NullableNaturalComparator
	require.Negative(t, cmp.Compare(nil, int64(1)))
	require.Positive(t, cmp.Compare("x", nil))
	require.Zero(t, cmp.Compare(nil, nil))
}

func TestNaturalComparator_MixedTypesPanic(t *testing.T) {
	require.Panics(t, func() { NaturalComparator.Compare(int64(1), "one") })
}
