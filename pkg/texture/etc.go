package texture

import "encoding/binary"

// ETC blocks are big-endian 64-bit words. Per-texel index bits are stored
// column-major: bit j covers texel (x, y) with j = x*4 + y.

func ext4(v uint64) int32 { return int32(v&15) * 0x11 }
func ext5(v uint64) int32 { v &= 31; return int32(v<<3 | v>>2) }
func ext6(v uint64) int32 { v &= 63; return int32(v<<2 | v>>4) }
func ext7(v uint64) int32 { v &= 127; return int32(v<<1 | v>>6) }

// etcDelta sign-extends a 3-bit differential.
func etcDelta(v uint64) int32 {
	return int32(v&7) << 29 >> 29
}

func etcIndex(v uint64, j int) int {
	return int(v>>j&1 | v>>(j+15)&2)
}

func etcColor(r, g, b int32) rgba8 {
	return rgba8{clampByte(int(r)), clampByte(int(g)), clampByte(int(b)), 255}
}

func decodeETCColor(v uint64, etc2 bool, t *tile8) {
	diff := v>>33&1 == 1
	if diff && etc2 {
		r := int32(v>>59&31) + etcDelta(v>>56)
		g := int32(v>>51&31) + etcDelta(v>>48)
		b := int32(v>>43&31) + etcDelta(v>>40)
		switch {
		case r < 0 || r > 31:
			decodeETCT(v, t)
			return
		case g < 0 || g > 31:
			decodeETCH(v, t)
			return
		case b < 0 || b > 31:
			decodeETCPlanar(v, t)
			return
		}
	}

	var base [2][3]int32
	for ch := 0; ch < 3; ch++ {
		shift := 8 * uint(ch)
		if diff {
			a := v >> (59 - shift) & 31
			d := etcDelta(v >> (56 - shift))
			base[0][ch] = ext5(a)
			base[1][ch] = ext5(uint64(int32(a)+d) & 31)
		} else {
			base[0][ch] = ext4(v >> (60 - shift))
			base[1][ch] = ext4(v >> (56 - shift))
		}
	}
	tables := [2]uint64{v >> 37 & 7, v >> 34 & 7}
	flip := v>>32&1 == 1

	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			sub := 0
			if (flip && y >= 2) || (!flip && x >= 2) {
				sub = 1
			}
			mod := etcModifiers[tables[sub]][etcIndex(v, x*4+y)]
			c := base[sub]
			t[y*4+x] = etcColor(c[0]+mod, c[1]+mod, c[2]+mod)
		}
	}
}

func paintETC(v uint64, paint *[4]rgba8, t *tile8) {
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			t[y*4+x] = paint[etcIndex(v, x*4+y)]
		}
	}
}

func decodeETCT(v uint64, t *tile8) {
	r0 := ext4(v>>57&12 | v>>56&3)
	g0 := ext4(v >> 52)
	b0 := ext4(v >> 48)
	r1 := ext4(v >> 44)
	g1 := ext4(v >> 40)
	b1 := ext4(v >> 36)
	d := etcDistances[v>>33&6|v>>32&1]
	paint := [4]rgba8{
		etcColor(r0, g0, b0),
		etcColor(r1+d, g1+d, b1+d),
		etcColor(r1, g1, b1),
		etcColor(r1-d, g1-d, b1-d),
	}
	paintETC(v, &paint, t)
}

func decodeETCH(v uint64, t *tile8) {
	r0 := v >> 59 & 15
	g0 := v>>55&14 | v>>52&1
	b0 := v>>48&8 | v>>47&7
	r1 := v >> 43 & 15
	g1 := v >> 39 & 15
	b1 := v >> 35 & 15
	di := v>>32&4 | v>>31&2
	if r0<<8|g0<<4|b0 >= r1<<8|g1<<4|b1 {
		di |= 1
	}
	d := etcDistances[di]
	c0 := [3]int32{ext4(r0), ext4(g0), ext4(b0)}
	c1 := [3]int32{ext4(r1), ext4(g1), ext4(b1)}
	paint := [4]rgba8{
		etcColor(c0[0]+d, c0[1]+d, c0[2]+d),
		etcColor(c0[0]-d, c0[1]-d, c0[2]-d),
		etcColor(c1[0]+d, c1[1]+d, c1[2]+d),
		etcColor(c1[0]-d, c1[1]-d, c1[2]-d),
	}
	paintETC(v, &paint, t)
}

func decodeETCPlanar(v uint64, t *tile8) {
	o := [3]int32{
		ext6(v >> 57),
		ext7(v>>50&64 | v>>49&63),
		ext6(v>>43&32 | v>>40&24 | v>>39&7),
	}
	h := [3]int32{
		ext6(v>>33&62 | v>>32&1),
		ext7(v >> 25),
		ext6(v >> 19),
	}
	vv := [3]int32{
		ext6(v >> 13),
		ext7(v >> 6),
		ext6(v),
	}
	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 4; x++ {
			var c rgba8
			for ch := 0; ch < 3; ch++ {
				c[ch] = clampByte(int((x*(h[ch]-o[ch]) + y*(vv[ch]-o[ch]) + 4*o[ch] + 2) >> 2))
			}
			c[3] = 255
			t[y*4+x] = c
		}
	}
}

// decodeEACAlpha writes an 8-bit EAC channel into ch.
func decodeEACAlpha(v uint64, t *tile8, ch int) {
	base := int32(v >> 56)
	mul := int32(v >> 52 & 15)
	mods := &eacModifiers[v>>48&15]
	for i := 0; i < 16; i++ {
		j := 15 - i
		x, y := j/4, j%4
		t[y*4+x][ch] = clampByte(int(base + mods[v>>(3*i)&7]*mul))
	}
}

// decodeEAC11 writes an unsigned 11-bit EAC channel, rounded to 8 bits, into ch.
func decodeEAC11(v uint64, t *tile8, ch int) {
	base := int32(v>>56)*8 + 4
	mul := int32(v >> 52 & 15)
	mods := &eacModifiers[v>>48&15]
	for i := 0; i < 16; i++ {
		mod := mods[v>>(3*i)&7]
		val := base + mod
		if mul != 0 {
			val = base + mod*mul*8
		}
		val = min(max(val, 0), 2047)
		j := 15 - i
		x, y := j/4, j%4
		t[y*4+x][ch] = uint8((val*255 + 1023) / 2047)
	}
}

func decodeETC1(block []byte, t *tile8) bool {
	decodeETCColor(binary.BigEndian.Uint64(block), false, t)
	return true
}

func decodeETC2(block []byte, t *tile8) bool {
	decodeETCColor(binary.BigEndian.Uint64(block), true, t)
	return true
}

func decodeETC2EAC(block []byte, t *tile8) bool {
	decodeETCColor(binary.BigEndian.Uint64(block[8:]), true, t)
	decodeEACAlpha(binary.BigEndian.Uint64(block), t, 3)
	return true
}

func decodeEACR11(block []byte, t *tile8) bool {
	*t = tile8{}
	decodeEAC11(binary.BigEndian.Uint64(block), t, 0)
	for i := range t {
		t[i][3] = 255
	}
	return true
}

func decodeEACRG11(block []byte, t *tile8) bool {
	*t = tile8{}
	decodeEAC11(binary.BigEndian.Uint64(block), t, 0)
	decodeEAC11(binary.BigEndian.Uint64(block[8:]), t, 1)
	for i := range t {
		t[i][3] = 255
	}
	return true
}
