// Package errs defines the sentinel error values shared across valo packages.
//
// Callers should match errors with errors.Is; encode/decode paths wrap these
// sentinels with additional context via fmt.Errorf("%w: ...").
package errs

import "errors"

var (
	// ErrCorrupt indicates the input stream is not a valid valo stream:
	// a zero header byte, a malformed packed integer, a foreign
	// serialization header, or a back-reference index past the end of the
	// reference table.
	ErrCorrupt = errors.New("data corrupted")

	// ErrUnexpectedEnd indicates the input was exhausted in the middle of a
	// value.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrUnserializable indicates a value outside the supported universe was
	// passed to the encoder and no extension claimed it.
	ErrUnserializable = errors.New("value not serializable")

	// ErrUnknownTag indicates a header byte the decoder does not recognize
	// and no extension claimed.
	ErrUnknownTag = errors.New("unknown header tag")

	// ErrUnsupported indicates a record tag that requires an extension codec
	// (user-defined records) which is not installed.
	ErrUnsupported = errors.New("record extension not installed")
)
