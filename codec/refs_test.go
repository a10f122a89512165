package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/valo/tag"
	"github.com/arloliu/valo/value"
)

func TestRefs_SelfReferentialList(t *testing.T) {
	l := &value.List{}
	l.Items = append(l.Items, l)

	data := mustMarshal(t, l)
	require.Equal(t, []byte{
		byte(tag.ArrayList), 0x01,
		byte(tag.ObjectStack), 0x00,
	}, data)

	got, err := Basic.Unmarshal(data)
	require.NoError(t, err)

	out, ok := got.(*value.List)
	require.True(t, ok)
	require.Len(t, out.Items, 1)
	require.Same(t, out, out.Items[0])
}

func TestRefs_SharedSubObject(t *testing.T) {
	shared := value.NewList(int64(1), int64(-2))
	outer := value.NewList(shared, shared)

	got, err := Basic.Unmarshal(mustMarshal(t, outer))
	require.NoError(t, err)

	out := got.(*value.List)
	require.Len(t, out.Items, 2)
	require.Same(t, out.Items[0], out.Items[1])
	require.True(t, value.Equal(shared, out.Items[0]))
}

func TestRefs_CycleThroughMap(t *testing.T) {
	m := &value.HashMap{}
	l := value.NewList(m)
	m.Entries = append(m.Entries, value.Entry{Key: "loop", Value: l})

	got, err := Basic.Unmarshal(mustMarshal(t, m))
	require.NoError(t, err)

	out := got.(*value.HashMap)
	require.Len(t, out.Entries, 1)

	inner := out.Entries[0].Value.(*value.List)
	require.Same(t, out, inner.Items[0])
}

func TestRefs_TupleSharing(t *testing.T) {
	shared := value.NewList(int64(7))
	tup := &value.Tuple2{A: shared, B: shared}

	got, err := Basic.Unmarshal(mustMarshal(t, tup))
	require.NoError(t, err)

	out := got.(*value.Tuple2)
	require.Same(t, out.A, out.B)
}

func TestRefs_EqualScalarsAreNotShared(t *testing.T) {
	// two equal strings are distinct values, not back-references
	in := value.NewList("same", "same")
	data := mustMarshal(t, in)

	count := 0
	for _, b := range data {
		if tag.Tag(b) == tag.ObjectStack {
			count++
		}
	}
	require.Zero(t, count)
	require.True(t, value.Equal(in, roundTrip(t, in)))
}

func TestRefs_DistinctEmptyListsStayDistinct(t *testing.T) {
	a := &value.List{}
	b := &value.List{}
	in := value.NewList(a, b)

	got, err := Basic.Unmarshal(mustMarshal(t, in))
	require.NoError(t, err)

	out := got.(*value.List)
	require.NotSame(t, out.Items[0], out.Items[1])
}

func TestRefTable_IdentityLookup(t *testing.T) {
	refs := newRefTable()

	a := &value.List{}
	b := &value.List{}

	require.Equal(t, -1, refs.IndexOf(a))

	refs.Push(a)
	require.Equal(t, 0, refs.IndexOf(a))
	require.Equal(t, -1, refs.IndexOf(b))

	refs.Push(b)
	require.Equal(t, 1, refs.IndexOf(b))

	v, ok := refs.Get(1)
	require.True(t, ok)
	require.Same(t, b, v)

	_, ok = refs.Get(2)
	require.False(t, ok)
}
