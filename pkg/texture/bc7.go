package texture

import "math/bits"

type pbitKind uint8

const (
	pbitNone pbitKind = iota
	pbitShared
	pbitUnique
)

type bc7Mode struct {
	subsets    int
	partBits   uint
	rotBits    uint
	selBits    uint
	colorBits  uint
	alphaBits  uint
	pbits      pbitKind
	indexBits  uint
	index2Bits uint
}

var bc7Modes = [8]bc7Mode{
	{subsets: 3, partBits: 4, colorBits: 4, pbits: pbitUnique, indexBits: 3},
	{subsets: 2, partBits: 6, colorBits: 6, pbits: pbitShared, indexBits: 3},
	{subsets: 3, partBits: 6, colorBits: 5, indexBits: 2},
	{subsets: 2, partBits: 6, colorBits: 7, pbits: pbitUnique, indexBits: 2},
	{subsets: 1, rotBits: 2, selBits: 1, colorBits: 5, alphaBits: 6, indexBits: 2, index2Bits: 3},
	{subsets: 1, rotBits: 2, colorBits: 7, alphaBits: 8, indexBits: 2, index2Bits: 2},
	{subsets: 1, colorBits: 7, alphaBits: 7, pbits: pbitUnique, indexBits: 4},
	{subsets: 2, partBits: 6, colorBits: 5, alphaBits: 5, pbits: pbitUnique, indexBits: 2},
}

func bptcWeights(n uint) []int32 {
	switch n {
	case 2:
		return bptcWeights2[:]
	case 3:
		return bptcWeights3[:]
	}
	return bptcWeights4[:]
}

// expandBits replicates the top bits of an n-bit value into an 8-bit one.
func expandBits(v uint32, n uint) int32 {
	v <<= 8 - n
	return int32(v | v>>n)
}

// decodeBC7 decodes one block. A reserved mode (first byte zero) yields
// transparent black and returns false.
func decodeBC7(block []byte, t *tile8) bool {
	if block[0] == 0 {
		*t = tile8{}
		return false
	}
	mode := bits.TrailingZeros8(block[0])
	m := &bc7Modes[mode]
	br := newBitReader(block)
	br.read(uint(mode) + 1)

	partition := int(br.read(m.partBits))
	rotation := br.read(m.rotBits)
	selector := br.read(m.selBits)

	endpoints := 2 * m.subsets
	var raw [6][4]uint32
	for ch := 0; ch < 3; ch++ {
		for e := 0; e < endpoints; e++ {
			raw[e][ch] = br.read(m.colorBits)
		}
	}
	for e := 0; e < endpoints; e++ {
		raw[e][3] = br.read(m.alphaBits)
	}

	colorBits, alphaBits := m.colorBits, m.alphaBits
	switch m.pbits {
	case pbitUnique:
		for e := 0; e < endpoints; e++ {
			p := br.bit()
			for ch := range raw[e] {
				raw[e][ch] = raw[e][ch]<<1 | p
			}
		}
		colorBits++
		if alphaBits > 0 {
			alphaBits++
		}
	case pbitShared:
		for s := 0; s < m.subsets; s++ {
			p := br.bit()
			for e := 2 * s; e < 2*s+2; e++ {
				for ch := 0; ch < 3; ch++ {
					raw[e][ch] = raw[e][ch]<<1 | p
				}
			}
		}
		colorBits++
	}

	var ep [6][4]int32
	for e := 0; e < endpoints; e++ {
		for ch := 0; ch < 3; ch++ {
			ep[e][ch] = expandBits(raw[e][ch], colorBits)
		}
		ep[e][3] = 255
		if alphaBits > 0 {
			ep[e][3] = expandBits(raw[e][3], alphaBits)
		}
	}

	var idx, idx2 [16]uint32
	for i := 0; i < 16; i++ {
		n := m.indexBits
		if isAnchor(m.subsets, partition, i) {
			n--
		}
		idx[i] = br.read(n)
	}
	if m.index2Bits > 0 {
		for i := 0; i < 16; i++ {
			n := m.index2Bits
			if i == 0 {
				n--
			}
			idx2[i] = br.read(n)
		}
	}

	w1 := bptcWeights(m.indexBits)
	w2 := bptcWeights(m.index2Bits)
	for i := 0; i < 16; i++ {
		s := subsetOf(m.subsets, partition, i) * 2
		cw, aw := w1[idx[i]], w1[idx[i]]
		if m.index2Bits > 0 {
			aw = w2[idx2[i]]
			if selector == 1 {
				cw, aw = aw, cw
			}
		}
		var c rgba8
		for ch := 0; ch < 3; ch++ {
			c[ch] = uint8(bptcInterpolate(ep[s][ch], ep[s+1][ch], cw))
		}
		c[3] = uint8(bptcInterpolate(ep[s][3], ep[s+1][3], aw))
		if rotation > 0 {
			r := rotation - 1
			c[r], c[3] = c[3], c[r]
		}
		t[i] = c
	}
	return true
}
