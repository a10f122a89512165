package codec

import (
	"testing"

	"github.com/arloliu/valo/endian"
	"github.com/arloliu/valo/stream"
)

func newTestWriter(t *testing.T) *stream.Writer {
	t.Helper()

	w := stream.NewWriter(endian.GetBigEndianEngine())
	t.Cleanup(w.Release)

	return w
}

func newTestReader(data []byte) *stream.Reader {
	return stream.NewReader(data, endian.GetBigEndianEngine())
}
