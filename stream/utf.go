package stream

import "unicode/utf16"

// utf16Units converts a Go string to its UTF-16 code unit sequence. The wire
// format counts and addresses strings in code units, not bytes or runes.
func utf16Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// stringFromUTF16 rebuilds a Go string from UTF-16 code units, pairing
// surrogates where they occur.
func stringFromUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}
