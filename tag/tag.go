// Package tag defines the header byte written at the start of every encoded
// value.
//
// The header space is a single flat 0..255 enumeration. Each value starts
// with exactly one header byte that fully determines the decode branch for
// the bytes that follow. Header 0 is reserved as an uninitialized-memory
// guard and is never written; reading it is a corruption error.
//
// Assignments are part of the wire format and must never be renumbered.
// New headers may only be added in the unassigned ranges (143..149, 175..255).
package tag

import "strconv"

// Tag is the one-byte header identifying the shape of an encoded value.
type Tag uint8

const (
	// ZeroFail is invalid on the wire; it catches zeroed storage being
	// misread as a value.
	ZeroFail Tag = 0

	Null         Tag = 1
	BooleanTrue  Tag = 2
	BooleanFalse Tag = 3

	// IntM9..Int16 encode the int32 literals -9..16 with no payload.
	IntM9 Tag = 4
	IntM8 Tag = 5
	IntM7 Tag = 6
	IntM6 Tag = 7
	IntM5 Tag = 8
	IntM4 Tag = 9
	IntM3 Tag = 10
	IntM2 Tag = 11
	IntM1 Tag = 12
	Int0  Tag = 13
	Int1  Tag = 14
	Int2  Tag = 15
	Int3  Tag = 16
	Int4  Tag = 17
	Int5  Tag = 18
	Int6  Tag = 19
	Int7  Tag = 20
	Int8  Tag = 21
	Int9  Tag = 22
	Int10 Tag = 23
	Int11 Tag = 24
	Int12 Tag = 25
	Int13 Tag = 26
	Int14 Tag = 27
	Int15 Tag = 28
	Int16 Tag = 29

	IntMinValue Tag = 30
	IntMaxValue Tag = 31

	// IntF1..IntF3 carry the non-negative value in 1..3 little-endian bytes.
	// The MF variants carry the absolute value of a negative int the same way.
	IntMF1 Tag = 32
	IntF1  Tag = 33
	IntMF2 Tag = 34
	IntF2  Tag = 35
	IntMF3 Tag = 36
	IntF3  Tag = 37
	Int    Tag = 38

	// LongM9..Long16 encode the int64 literals -9..16 with no payload.
	LongM9 Tag = 39
	LongM8 Tag = 40
	LongM7 Tag = 41
	LongM6 Tag = 42
	LongM5 Tag = 43
	LongM4 Tag = 44
	LongM3 Tag = 45
	LongM2 Tag = 46
	LongM1 Tag = 47
	Long0  Tag = 48
	Long1  Tag = 49
	Long2  Tag = 50
	Long3  Tag = 51
	Long4  Tag = 52
	Long5  Tag = 53
	Long6  Tag = 54
	Long7  Tag = 55
	Long8  Tag = 56
	Long9  Tag = 57
	Long10 Tag = 58
	Long11 Tag = 59
	Long12 Tag = 60
	Long13 Tag = 61
	Long14 Tag = 62
	Long15 Tag = 63
	Long16 Tag = 64

	LongMinValue Tag = 65
	LongMaxValue Tag = 66

	LongMF1 Tag = 67
	LongF1  Tag = 68
	LongMF2 Tag = 69
	LongF2  Tag = 70
	LongMF3 Tag = 71
	LongF3  Tag = 72
	LongMF4 Tag = 73
	LongF4  Tag = 74
	LongMF5 Tag = 75
	LongF5  Tag = 76
	LongMF6 Tag = 77
	LongF6  Tag = 78
	LongMF7 Tag = 79
	LongF7  Tag = 80
	Long    Tag = 81

	ByteM1 Tag = 82
	Byte0  Tag = 83
	Byte1  Tag = 84
	Byte   Tag = 85

	Char0   Tag = 86
	Char1   Tag = 87
	Char255 Tag = 88
	Char    Tag = 89

	ShortM1   Tag = 90
	Short0    Tag = 91
	Short1    Tag = 92
	Short255  Tag = 93
	ShortM255 Tag = 94
	Short     Tag = 95

	FloatM1    Tag = 96
	Float0     Tag = 97
	Float1     Tag = 98
	Float255   Tag = 99
	FloatShort Tag = 100
	Float      Tag = 101

	DoubleM1    Tag = 102
	Double0     Tag = 103
	Double1     Tag = 104
	Double255   Tag = 105
	DoubleShort Tag = 106
	DoubleInt   Tag = 107
	Double      Tag = 108

	ArrayByte         Tag = 109
	ArrayByteAllEqual Tag = 110

	ArrayBoolean Tag = 111
	ArrayShort   Tag = 112
	ArrayChar    Tag = 113
	ArrayFloat   Tag = 114
	ArrayDouble  Tag = 115

	ArrayIntByte   Tag = 116
	ArrayIntShort  Tag = 117
	ArrayIntPacked Tag = 118
	ArrayInt       Tag = 119

	ArrayLongByte   Tag = 120
	ArrayLongShort  Tag = 121
	ArrayLongPacked Tag = 122
	ArrayLongInt    Tag = 123
	ArrayLong       Tag = 124

	// String1..String10 encode the length in the header itself; the payload
	// is the code units, each written as a packed unsigned integer.
	String0  Tag = 125
	String1  Tag = 126
	String2  Tag = 127
	String3  Tag = 128
	String4  Tag = 129
	String5  Tag = 130
	String6  Tag = 131
	String7  Tag = 132
	String8  Tag = 133
	String9  Tag = 134
	String10 Tag = 135
	String   Tag = 136

	BigDecimal Tag = 137
	BigInteger Tag = 138

	Class Tag = 139
	Date  Tag = 140
	FunHI Tag = 141
	UUID  Tag = 142

	// 143..149 unassigned, reserved for other non-recursive values.

	// MapDB is followed by a packed sub-id into the singleton registry.
	MapDB Tag = 150

	Tuple2 Tag = 151
	Tuple3 Tag = 152
	Tuple4 Tag = 153
	Tuple5 Tag = 154 // reserved, never written
	Tuple6 Tag = 155 // reserved, never written
	Tuple7 Tag = 156 // reserved, never written
	Tuple8 Tag = 157 // reserved, never written

	ArrayObject Tag = 158

	// Fast paths for record-reference arrays and lists.
	ArrayObjectPackedLong Tag = 159
	ArrayListPackedLong   Tag = 160
	ArrayObjectAllNull    Tag = 161
	ArrayObjectNoRefs     Tag = 162

	ArrayList     Tag = 163
	TreeMap       Tag = 164
	HashMap       Tag = 165
	LinkedHashMap Tag = 166
	TreeSet       Tag = 167
	HashSet       Tag = 168
	LinkedHashSet Tag = 169
	LinkedList    Tag = 170
	Properties    Tag = 171

	// JavaSerialization marks data written by a foreign serialization
	// framework; decoding it always fails.
	JavaSerialization Tag = 172

	// Record is handled by the pluggable record extension; the core codec
	// never writes it.
	Record Tag = 173

	// ObjectStack is a back-reference: a packed index into the per-call
	// reference table of previously decoded values.
	ObjectStack Tag = 174
)

var names = map[Tag]string{
	ZeroFail:     "ZeroFail",
	Null:         "Null",
	BooleanTrue:  "BooleanTrue",
	BooleanFalse: "BooleanFalse",

	IntMinValue: "IntMinValue",
	IntMaxValue: "IntMaxValue",
	IntMF1:      "IntMF1",
	IntF1:       "IntF1",
	IntMF2:      "IntMF2",
	IntF2:       "IntF2",
	IntMF3:      "IntMF3",
	IntF3:       "IntF3",
	Int:         "Int",

	LongMinValue: "LongMinValue",
	LongMaxValue: "LongMaxValue",
	LongMF1:      "LongMF1",
	LongF1:       "LongF1",
	LongMF2:      "LongMF2",
	LongF2:       "LongF2",
	LongMF3:      "LongMF3",
	LongF3:       "LongF3",
	LongMF4:      "LongMF4",
	LongF4:       "LongF4",
	LongMF5:      "LongMF5",
	LongF5:       "LongF5",
	LongMF6:      "LongMF6",
	LongF6:       "LongF6",
	LongMF7:      "LongMF7",
	LongF7:       "LongF7",
	Long:         "Long",

	ByteM1: "ByteM1",
	Byte0:  "Byte0",
	Byte1:  "Byte1",
	Byte:   "Byte",

	Char0:   "Char0",
	Char1:   "Char1",
	Char255: "Char255",
	Char:    "Char",

	ShortM1:   "ShortM1",
	Short0:    "Short0",
	Short1:    "Short1",
	Short255:  "Short255",
	ShortM255: "ShortM255",
	Short:     "Short",

	FloatM1:    "FloatM1",
	Float0:     "Float0",
	Float1:     "Float1",
	Float255:   "Float255",
	FloatShort: "FloatShort",
	Float:      "Float",

	DoubleM1:    "DoubleM1",
	Double0:     "Double0",
	Double1:     "Double1",
	Double255:   "Double255",
	DoubleShort: "DoubleShort",
	DoubleInt:   "DoubleInt",
	Double:      "Double",

	ArrayByte:         "ArrayByte",
	ArrayByteAllEqual: "ArrayByteAllEqual",
	ArrayBoolean:      "ArrayBoolean",
	ArrayShort:        "ArrayShort",
	ArrayChar:         "ArrayChar",
	ArrayFloat:        "ArrayFloat",
	ArrayDouble:       "ArrayDouble",

	ArrayIntByte:   "ArrayIntByte",
	ArrayIntShort:  "ArrayIntShort",
	ArrayIntPacked: "ArrayIntPacked",
	ArrayInt:       "ArrayInt",

	ArrayLongByte:   "ArrayLongByte",
	ArrayLongShort:  "ArrayLongShort",
	ArrayLongPacked: "ArrayLongPacked",
	ArrayLongInt:    "ArrayLongInt",
	ArrayLong:       "ArrayLong",

	String: "String",

	BigDecimal: "BigDecimal",
	BigInteger: "BigInteger",
	Class:      "Class",
	Date:       "Date",
	FunHI:      "FunHI",
	UUID:       "UUID",

	MapDB: "MapDB",

	Tuple2: "Tuple2",
	Tuple3: "Tuple3",
	Tuple4: "Tuple4",
	Tuple5: "Tuple5",
	Tuple6: "Tuple6",
	Tuple7: "Tuple7",
	Tuple8: "Tuple8",

	ArrayObject:           "ArrayObject",
	ArrayObjectPackedLong: "ArrayObjectPackedLong",
	ArrayListPackedLong:   "ArrayListPackedLong",
	ArrayObjectAllNull:    "ArrayObjectAllNull",
	ArrayObjectNoRefs:     "ArrayObjectNoRefs",

	ArrayList:     "ArrayList",
	TreeMap:       "TreeMap",
	HashMap:       "HashMap",
	LinkedHashMap: "LinkedHashMap",
	TreeSet:       "TreeSet",
	HashSet:       "HashSet",
	LinkedHashSet: "LinkedHashSet",
	LinkedList:    "LinkedList",
	Properties:    "Properties",

	JavaSerialization: "JavaSerialization",
	Record:            "Record",
	ObjectStack:       "ObjectStack",
}

// String returns a human-readable name for the tag. Literal int/long and
// inline string tags render with their embedded value.
func (t Tag) String() string {
	switch {
	case t >= IntM9 && t <= Int16:
		return "Int" + literalSuffix(int(t)-int(IntM9)-9)
	case t >= LongM9 && t <= Long16:
		return "Long" + literalSuffix(int(t)-int(LongM9)-9)
	case t >= String0 && t <= String10:
		return "String" + literalSuffix(int(t)-int(String0))
	}

	if name, ok := names[t]; ok {
		return name
	}

	return "Unknown"
}

func literalSuffix(v int) string {
	if v < 0 {
		return "M" + strconv.Itoa(-v)
	}

	return strconv.Itoa(v)
}
