package codec

import (
	"math/big"

	"github.com/arloliu/valo/stream"
)

// writeBigInt writes v as a packed byte-length followed by the minimal
// signed two's-complement big-endian byte form. Zero is a single 0x00 byte;
// a positive value whose top bit would read as a sign gets one leading zero.
func writeBigInt(w *stream.Writer, v *big.Int) {
	b := bigIntBytes(v)
	w.PackUint(uint32(len(b))) //nolint:gosec
	w.WriteBytes(b)
}

func bigIntBytes(v *big.Int) []byte {
	sign := v.Sign()
	if sign == 0 {
		return []byte{0}
	}

	if sign > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}

		return b
	}

	// negative: find the smallest byte count n with v >= -2^(8n-1), then
	// write 2^(8n) + v big-endian
	abs := new(big.Int).Neg(v)
	n := 1
	bound := new(big.Int).Lsh(big.NewInt(1), 7)
	for abs.Cmp(bound) > 0 {
		n++
		bound.Lsh(bound, 8)
	}

	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	tc := new(big.Int).Add(mod, v)
	b := tc.Bytes()

	// the top bit of tc is always set, so b has exactly n bytes
	return b
}

// readBigInt reads the form written by writeBigInt.
func readBigInt(r *stream.Reader) (*big.Int, error) {
	n, err := r.UnpackUint()
	if err != nil {
		return nil, err
	}

	b, err := r.ReadFully(int(n))
	if err != nil {
		return nil, err
	}

	return bigIntFromBytes(b), nil
}

func bigIntFromBytes(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, mod)
	}

	return v
}
