package tag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTag_WireValuesArePinned(t *testing.T) {
	// spot checks across the table; these values are wire format
	require.Equal(t, Tag(0), ZeroFail)
	require.Equal(t, Tag(1), Null)
	require.Equal(t, Tag(4), IntM9)
	require.Equal(t, Tag(13), Int0)
	require.Equal(t, Tag(29), Int16)
	require.Equal(t, Tag(38), Int)
	require.Equal(t, Tag(39), LongM9)
	require.Equal(t, Tag(48), Long0)
	require.Equal(t, Tag(81), Long)
	require.Equal(t, Tag(109), ArrayByte)
	require.Equal(t, Tag(125), String0)
	require.Equal(t, Tag(136), String)
	require.Equal(t, Tag(150), MapDB)
	require.Equal(t, Tag(158), ArrayObject)
	require.Equal(t, Tag(163), ArrayList)
	require.Equal(t, Tag(172), JavaSerialization)
	require.Equal(t, Tag(174), ObjectStack)
}

func TestTag_LiteralArithmetic(t *testing.T) {
	// the int and long literal bands are addressed by offset from the zero tag
	require.Equal(t, Int0, IntM9+9)
	require.Equal(t, Int16, Int0+16)
	require.Equal(t, Long0, LongM9+9)
	require.Equal(t, Long16, Long0+16)
	require.Equal(t, String10, String0+10)
}

func TestTag_String(t *testing.T) {
	require.Equal(t, "Null", Null.String())
	require.Equal(t, "IntM9", IntM9.String())
	require.Equal(t, "Int0", Int0.String())
	require.Equal(t, "Int16", Int16.String())
	require.Equal(t, "LongM1", LongM1.String())
	require.Equal(t, "String7", String7.String())
	require.Equal(t, "ArrayListPackedLong", ArrayListPackedLong.String())
	require.Equal(t, "ObjectStack", ObjectStack.String())
	require.Equal(t, "Unknown", Tag(145).String())
	require.Equal(t, "Unknown", Tag(255).String())
}
