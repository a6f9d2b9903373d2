package texture

import "encoding/binary"

// bitReader consumes a 128-bit little-endian block least significant bit first.
type bitReader struct {
	lo, hi uint64
}

func newBitReader(block []byte) bitReader {
	return bitReader{
		lo: binary.LittleEndian.Uint64(block[0:]),
		hi: binary.LittleEndian.Uint64(block[8:]),
	}
}

func (r *bitReader) read(n uint) uint32 {
	if n == 0 {
		return 0
	}
	v := r.lo & (1<<n - 1)
	r.lo = r.lo>>n | r.hi<<(64-n)
	r.hi >>= n
	return uint32(v)
}

func (r *bitReader) bit() uint32 {
	return r.read(1)
}

// bptcInterpolate blends two endpoints with a weight in 1/64 units.
func bptcInterpolate(e0, e1, w int32) int32 {
	return ((64-w)*e0 + w*e1 + 32) >> 6
}
