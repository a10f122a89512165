package value

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEqual_Scalars(t *testing.T) {
	require.True(t, Equal(nil, nil))
	require.False(t, Equal(nil, int64(0)))

	require.True(t, Equal(int64(5), int64(5)))
	require.False(t, Equal(int64(5), int32(5))) // widths are distinct shapes

	require.True(t, Equal("abc", "abc"))
	require.True(t, Equal(Char(7), Char(7)))
	require.False(t, Equal(Char(7), int16(7)))

	require.True(t, Equal(big.NewInt(42), big.NewInt(42)))
	require.False(t, Equal(big.NewInt(42), big.NewInt(43)))

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.True(t, Equal(id, id))
}

func TestEqual_TimeIgnoresLocation(t *testing.T) {
	utc := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	shifted := utc.In(time.FixedZone("plus2", 2*3600))
	require.True(t, Equal(utc, shifted))
}

func TestEqual_BigDecimalComparesParts(t *testing.T) {
	require.True(t, Equal(NewBigDecimal(big.NewInt(120), 2), NewBigDecimal(big.NewInt(120), 2)))
	// same numeric value, different scale: distinct for structural equality
	require.False(t, Equal(NewBigDecimal(big.NewInt(120), 2), NewBigDecimal(big.NewInt(12), 1)))
}

func TestEqual_Slices(t *testing.T) {
	require.True(t, Equal([]byte{1, 2}, []byte{1, 2}))
	require.False(t, Equal([]byte{1, 2}, []byte{2, 1}))
	require.True(t, Equal([]int64{5}, []int64{5}))
	require.False(t, Equal([]int64{5}, []int32{5}))
	require.True(t, Equal([]bool{true, false}, []bool{true, false}))
}

func TestEqual_OrderedContainers(t *testing.T) {
	require.True(t, Equal(NewList(int64(1), "a"), NewList(int64(1), "a")))
	require.False(t, Equal(NewList(int64(1), "a"), NewList("a", int64(1))))

	require.True(t, Equal(
		&LinkedHashSet{Items: []any{"a", "b"}},
		&LinkedHashSet{Items: []any{"a", "b"}},
	))
	require.False(t, Equal(
		&LinkedHashSet{Items: []any{"a", "b"}},
		&LinkedHashSet{Items: []any{"b", "a"}},
	))
}

func TestEqual_HashContainersIgnoreOrder(t *testing.T) {
	require.True(t, Equal(
		&HashSet{Items: []any{"a", "b", int64(3)}},
		&HashSet{Items: []any{int64(3), "a", "b"}},
	))
	require.False(t, Equal(
		&HashSet{Items: []any{"a"}},
		&HashSet{Items: []any{"b"}},
	))

	require.True(t, Equal(
		&HashMap{Entries: []Entry{{Key: "a", Value: int64(1)}, {Key: "b", Value: int64(2)}}},
		&HashMap{Entries: []Entry{{Key: "b", Value: int64(2)}, {Key: "a", Value: int64(1)}}},
	))
}

func TestEqual_ContainerVariantsAreDistinct(t *testing.T) {
	require.False(t, Equal(NewList("a"), &LinkedList{Items: []any{"a"}}))
	require.False(t, Equal(&HashSet{Items: []any{"a"}}, &LinkedHashSet{Items: []any{"a"}}))
}

func TestEqual_Tuples(t *testing.T) {
	require.True(t, Equal(&Tuple2{A: "k", B: int64(1)}, &Tuple2{A: "k", B: int64(1)}))
	require.False(t, Equal(&Tuple2{A: "k", B: int64(1)}, &Tuple2{A: "k", B: int64(2)}))
	require.True(t, Equal(&Tuple3{A: HI}, &Tuple3{A: HI}))
}

func TestEqual_ObjectArrays(t *testing.T) {
	require.True(t, Equal(
		NewObjectArray("object", int64(1), nil),
		NewObjectArray("object", int64(1), nil),
	))
	require.False(t, Equal(
		NewObjectArray("object", int64(1)),
		NewObjectArray("int64", int64(1)),
	))
}

func TestEqual_CyclicGraphs(t *testing.T) {
	mkCycle := func() *List {
		l := &List{}
		l.Items = append(l.Items, l)
		return l
	}

	require.True(t, Equal(mkCycle(), mkCycle()))

	// cycle against a non-cycle of the same length
	plain := NewList(NewList())
	require.False(t, Equal(mkCycle(), plain))
}

func TestEqual_SharedVsDuplicated(t *testing.T) {
	shared := NewList(int64(1))
	a := NewList(shared, shared)
	b := NewList(NewList(int64(1)), NewList(int64(1)))

	// unrollings match even though sharing differs
	require.True(t, Equal(a, b))
}
