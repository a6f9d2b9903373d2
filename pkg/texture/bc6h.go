package texture

import "github.com/x448/float16"

// BC6H endpoint fields. The first twelve index endpoint*3+channel where
// endpoints are w, x (subset 0) and y, z (subset 1).
const (
	fRW = iota
	fGW
	fBW
	fRX
	fGX
	fBX
	fRY
	fGY
	fBY
	fRZ
	fGZ
	fBZ
	fPD // partition
)

// bc6Run copies header bits into field f, starting at bit from and walking
// toward bit to. A descending run stores reversed bits.
type bc6Run struct {
	f, from, to uint8
}

type bc6Mode struct {
	subsets     int
	transformed bool
	epBits      uint
	deltaBits   [3]uint
	layout      []bc6Run
}

// bc6Modes is indexed by the 5-bit mode value; two-bit modes 0 and 1 are
// stored at 0 and 1. Entries with no layout are reserved.
var bc6Modes = [32]bc6Mode{
	0b00000: {2, true, 10, [3]uint{5, 5, 5}, []bc6Run{
		{fGY, 4, 4}, {fBY, 4, 4}, {fBZ, 4, 4}, {fRW, 0, 9}, {fGW, 0, 9}, {fBW, 0, 9},
		{fRX, 0, 4}, {fGZ, 4, 4}, {fGY, 0, 3}, {fGX, 0, 4}, {fBZ, 0, 0}, {fGZ, 0, 3},
		{fBX, 0, 4}, {fBZ, 1, 1}, {fBY, 0, 3}, {fRY, 0, 4}, {fBZ, 2, 2}, {fRZ, 0, 4},
		{fBZ, 3, 3}, {fPD, 0, 4},
	}},
	0b00001: {2, true, 7, [3]uint{6, 6, 6}, []bc6Run{
		{fGY, 5, 5}, {fGZ, 4, 5}, {fRW, 0, 6}, {fBZ, 0, 1}, {fBY, 4, 4}, {fGW, 0, 6},
		{fBY, 5, 5}, {fBZ, 2, 2}, {fGY, 4, 4}, {fBW, 0, 6}, {fBZ, 3, 3}, {fBZ, 5, 5},
		{fBZ, 4, 4}, {fRX, 0, 5}, {fGY, 0, 3}, {fGX, 0, 5}, {fGZ, 0, 3}, {fBX, 0, 5},
		{fBY, 0, 3}, {fRY, 0, 5}, {fRZ, 0, 5}, {fPD, 0, 4},
	}},
	0b00010: {2, true, 11, [3]uint{5, 4, 4}, []bc6Run{
		{fRW, 0, 9}, {fGW, 0, 9}, {fBW, 0, 9}, {fRX, 0, 4}, {fRW, 10, 10}, {fGY, 0, 3},
		{fGX, 0, 3}, {fGW, 10, 10}, {fBZ, 0, 0}, {fGZ, 0, 3}, {fBX, 0, 3}, {fBW, 10, 10},
		{fBZ, 1, 1}, {fBY, 0, 3}, {fRY, 0, 4}, {fBZ, 2, 2}, {fRZ, 0, 4}, {fBZ, 3, 3},
		{fPD, 0, 4},
	}},
	0b00110: {2, true, 11, [3]uint{4, 5, 4}, []bc6Run{
		{fRW, 0, 9}, {fGW, 0, 9}, {fBW, 0, 9}, {fRX, 0, 3}, {fRW, 10, 10}, {fGZ, 4, 4},
		{fGY, 0, 3}, {fGX, 0, 4}, {fGW, 10, 10}, {fGZ, 0, 3}, {fBX, 0, 3}, {fBW, 10, 10},
		{fBZ, 1, 1}, {fBY, 0, 3}, {fRY, 0, 3}, {fBZ, 0, 0}, {fBZ, 2, 2}, {fRZ, 0, 3},
		{fGY, 4, 4}, {fBZ, 3, 3}, {fPD, 0, 4},
	}},
	0b01010: {2, true, 11, [3]uint{4, 4, 5}, []bc6Run{
		{fRW, 0, 9}, {fGW, 0, 9}, {fBW, 0, 9}, {fRX, 0, 3}, {fRW, 10, 10}, {fBY, 4, 4},
		{fGY, 0, 3}, {fGX, 0, 3}, {fGW, 10, 10}, {fBZ, 0, 0}, {fGZ, 0, 3}, {fBX, 0, 4},
		{fBW, 10, 10}, {fBY, 0, 3}, {fRY, 0, 3}, {fBZ, 1, 2}, {fRZ, 0, 3}, {fBZ, 4, 4},
		{fBZ, 3, 3}, {fPD, 0, 4},
	}},
	0b01110: {2, true, 9, [3]uint{5, 5, 5}, []bc6Run{
		{fRW, 0, 8}, {fBY, 4, 4}, {fGW, 0, 8}, {fGY, 4, 4}, {fBW, 0, 8}, {fBZ, 4, 4},
		{fRX, 0, 4}, {fGZ, 4, 4}, {fGY, 0, 3}, {fGX, 0, 4}, {fBZ, 0, 0}, {fGZ, 0, 3},
		{fBX, 0, 4}, {fBZ, 1, 1}, {fBY, 0, 3}, {fRY, 0, 4}, {fBZ, 2, 2}, {fRZ, 0, 4},
		{fBZ, 3, 3}, {fPD, 0, 4},
	}},
	0b10010: {2, true, 8, [3]uint{6, 5, 5}, []bc6Run{
		{fRW, 0, 7}, {fGZ, 4, 4}, {fBY, 4, 4}, {fGW, 0, 7}, {fBZ, 2, 2}, {fGY, 4, 4},
		{fBW, 0, 7}, {fBZ, 3, 4}, {fRX, 0, 5}, {fGY, 0, 3}, {fGX, 0, 4}, {fBZ, 0, 0},
		{fGZ, 0, 3}, {fBX, 0, 4}, {fBZ, 1, 1}, {fBY, 0, 3}, {fRY, 0, 5}, {fRZ, 0, 5},
		{fPD, 0, 4},
	}},
	0b10110: {2, true, 8, [3]uint{5, 6, 5}, []bc6Run{
		{fRW, 0, 7}, {fBZ, 0, 0}, {fBY, 4, 4}, {fGW, 0, 7}, {fGY, 5, 5}, {fGY, 4, 4},
		{fBW, 0, 7}, {fGZ, 5, 5}, {fBZ, 4, 4}, {fRX, 0, 4}, {fGZ, 4, 4}, {fGY, 0, 3},
		{fGX, 0, 5}, {fGZ, 0, 3}, {fBX, 0, 4}, {fBZ, 1, 1}, {fBY, 0, 3}, {fRY, 0, 4},
		{fBZ, 2, 2}, {fRZ, 0, 4}, {fBZ, 3, 3}, {fPD, 0, 4},
	}},
	0b11010: {2, true, 8, [3]uint{5, 5, 6}, []bc6Run{
		{fRW, 0, 7}, {fBZ, 1, 1}, {fBY, 4, 4}, {fGW, 0, 7}, {fBY, 5, 5}, {fGY, 4, 4},
		{fBW, 0, 7}, {fBZ, 5, 5}, {fBZ, 4, 4}, {fRX, 0, 4}, {fGZ, 4, 4}, {fGY, 0, 3},
		{fGX, 0, 4}, {fBZ, 0, 0}, {fGZ, 0, 3}, {fBX, 0, 5}, {fBY, 0, 3}, {fRY, 0, 4},
		{fBZ, 2, 2}, {fRZ, 0, 4}, {fBZ, 3, 3}, {fPD, 0, 4},
	}},
	0b11110: {2, false, 6, [3]uint{6, 6, 6}, []bc6Run{
		{fRW, 0, 5}, {fGZ, 4, 4}, {fBZ, 0, 1}, {fBY, 4, 4}, {fGW, 0, 5}, {fGY, 5, 5},
		{fBY, 5, 5}, {fBZ, 2, 2}, {fGY, 4, 4}, {fBW, 0, 5}, {fGZ, 5, 5}, {fBZ, 3, 3},
		{fBZ, 5, 5}, {fBZ, 4, 4}, {fRX, 0, 5}, {fGY, 0, 3}, {fGX, 0, 5}, {fGZ, 0, 3},
		{fBX, 0, 5}, {fBY, 0, 3}, {fRY, 0, 5}, {fRZ, 0, 5}, {fPD, 0, 4},
	}},
	0b00011: {1, false, 10, [3]uint{10, 10, 10}, []bc6Run{
		{fRW, 0, 9}, {fGW, 0, 9}, {fBW, 0, 9}, {fRX, 0, 9}, {fGX, 0, 9}, {fBX, 0, 9},
	}},
	0b00111: {1, true, 11, [3]uint{9, 9, 9}, []bc6Run{
		{fRW, 0, 9}, {fGW, 0, 9}, {fBW, 0, 9}, {fRX, 0, 8}, {fRW, 10, 10},
		{fGX, 0, 8}, {fGW, 10, 10}, {fBX, 0, 8}, {fBW, 10, 10},
	}},
	0b01011: {1, true, 12, [3]uint{8, 8, 8}, []bc6Run{
		{fRW, 0, 9}, {fGW, 0, 9}, {fBW, 0, 9}, {fRX, 0, 7}, {fRW, 11, 10},
		{fGX, 0, 7}, {fGW, 11, 10}, {fBX, 0, 7}, {fBW, 11, 10},
	}},
	0b01111: {1, true, 16, [3]uint{4, 4, 4}, []bc6Run{
		{fRW, 0, 9}, {fGW, 0, 9}, {fBW, 0, 9}, {fRX, 0, 3}, {fRW, 15, 10},
		{fGX, 0, 3}, {fGW, 15, 10}, {fBX, 0, 3}, {fBW, 15, 10},
	}},
}

func signExtend(v int32, bits uint) int32 {
	shift := 32 - bits
	return v << shift >> shift
}

func bc6Unquantize(v int32, bits uint, signed bool) int32 {
	if !signed {
		switch {
		case bits >= 15, v == 0:
			return v
		case v == 1<<bits-1:
			return 0xffff
		}
		return (v<<16 + 0x8000) >> bits
	}
	if bits >= 16 {
		return v
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var u int32
	switch {
	case v == 0:
		u = 0
	case v >= 1<<(bits-1)-1:
		u = 0x7fff
	default:
		u = (v<<15 + 0x4000) >> (bits - 1)
	}
	if neg {
		u = -u
	}
	return u
}

// bc6Finish scales an interpolated value to half-float bits.
func bc6Finish(v int32, signed bool) uint16 {
	if !signed {
		return uint16(v * 31 >> 6)
	}
	if v < 0 {
		return 0x8000 | uint16((-v)*31>>5)
	}
	return uint16(v * 31 >> 5)
}

func halfToFloat(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

// decodeBC6H decodes one block. It returns false for a reserved mode, in
// which case the tile is opaque black.
func decodeBC6H(block []byte, signed bool, t *[16]rgbaF) bool {
	br := newBitReader(block)
	mode := br.read(2)
	if mode > 1 {
		mode |= br.read(3) << 2
	}
	m := &bc6Modes[mode]
	if m.layout == nil {
		for i := range t {
			t[i] = rgbaF{0, 0, 0, 1}
		}
		return false
	}

	var fields [13]int32
	for _, run := range m.layout {
		if run.from <= run.to {
			for b := run.from; b <= run.to; b++ {
				fields[run.f] |= int32(br.bit()) << b
			}
		} else {
			for b := int(run.from); b >= int(run.to); b-- {
				fields[run.f] |= int32(br.bit()) << b
			}
		}
	}

	endpoints := 2 * m.subsets
	var ep [4][3]int32
	for i := 0; i < endpoints; i++ {
		copy(ep[i][:], fields[i*3:i*3+3])
	}
	for c := 0; c < 3; c++ {
		if signed {
			ep[0][c] = signExtend(ep[0][c], m.epBits)
		}
		if m.transformed || signed {
			for i := 1; i < endpoints; i++ {
				ep[i][c] = signExtend(ep[i][c], m.deltaBits[c])
			}
		}
		if m.transformed {
			for i := 1; i < endpoints; i++ {
				v := (ep[i][c] + ep[0][c]) & (1<<m.epBits - 1)
				if signed {
					v = signExtend(v, m.epBits)
				}
				ep[i][c] = v
			}
		}
		for i := 0; i < endpoints; i++ {
			ep[i][c] = bc6Unquantize(ep[i][c], m.epBits, signed)
		}
	}

	partition := int(fields[fPD])
	indexBits := uint(3)
	weights := bptcWeights3[:]
	if m.subsets == 1 {
		indexBits = 4
		weights = bptcWeights4[:]
	}
	for i := 0; i < 16; i++ {
		n := indexBits
		if isAnchor(m.subsets, partition, i) {
			n--
		}
		w := weights[br.read(n)]
		s := subsetOf(m.subsets, partition, i) * 2
		var c rgbaF
		for ch := 0; ch < 3; ch++ {
			v := bptcInterpolate(ep[s][ch], ep[s+1][ch], w)
			c[ch] = halfToFloat(bc6Finish(v, signed))
		}
		c[3] = 1
		t[i] = c
	}
	return true
}
