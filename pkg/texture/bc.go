package texture

import "encoding/binary"

// rgba8 is a decoded texel in R, G, B, A order.
type rgba8 [4]uint8

// rgbaF is a decoded HDR texel in R, G, B, A order.
type rgbaF [4]float32

// tile8 holds one decoded 4x4 block in row-major texel order.
type tile8 [16]rgba8

func expand565(c uint16) rgba8 {
	r5 := c >> 11 & 0x1f
	g6 := c >> 5 & 0x3f
	b5 := c & 0x1f
	return rgba8{
		uint8(r5<<3 | r5>>2),
		uint8(g6<<2 | g6>>4),
		uint8(b5<<3 | b5>>2),
		255,
	}
}

// bc1Palette builds the four colours of a BC1 colour block. When
// fourColor is false and c0 < c1, index 3 is opaque black.
func bc1Palette(c0, c1 uint16, fourColor bool) [4]rgba8 {
	var pal [4]rgba8
	pal[0] = expand565(c0)
	pal[1] = expand565(c1)
	a, b := pal[0], pal[1]
	if fourColor || c0 > c1 {
		for ch := 0; ch < 3; ch++ {
			pal[2][ch] = uint8((2*int(a[ch]) + int(b[ch])) / 3)
			pal[3][ch] = uint8((int(a[ch]) + 2*int(b[ch])) / 3)
		}
	} else {
		for ch := 0; ch < 3; ch++ {
			pal[2][ch] = uint8((int(a[ch]) + int(b[ch])) / 2)
		}
		if c0 == c1 {
			// A flat block stays flat.
			pal[3] = a
		}
	}
	pal[2][3], pal[3][3] = 255, 255
	return pal
}

func decodeColorBlock(block []byte, fourColor bool, t *tile8) {
	c0 := binary.LittleEndian.Uint16(block[0:])
	c1 := binary.LittleEndian.Uint16(block[2:])
	indices := binary.LittleEndian.Uint32(block[4:])
	pal := bc1Palette(c0, c1, fourColor)
	for i := 0; i < 16; i++ {
		t[i] = pal[indices>>(2*i)&3]
	}
}

// gradient8 expands the two anchors of a BC3 alpha or BC4 block into the
// eight-entry palette.
func gradient8(a0, a1 uint8) [8]uint8 {
	var p [8]uint8
	p[0], p[1] = a0, a1
	e0, e1 := int(a0), int(a1)
	if a0 > a1 {
		for i := 2; i < 8; i++ {
			p[i] = uint8((e0*(8-i) + e1*(i-1)) / 7)
		}
		return p
	}
	for i := 2; i < 6; i++ {
		p[i] = uint8((e0*(6-i) + e1*(i-1)) / 5)
	}
	p[6], p[7] = 0, 255
	return p
}

// decodeGradientBlock decodes an 8-byte BC4-style block into one channel.
func decodeGradientBlock(block []byte, t *tile8, ch int) {
	pal := gradient8(block[0], block[1])
	bits := binary.LittleEndian.Uint64(block) >> 16
	for i := 0; i < 16; i++ {
		t[i][ch] = pal[bits>>(3*i)&7]
	}
}

func decodeBC1(block []byte, t *tile8) bool {
	decodeColorBlock(block, false, t)
	return true
}

func decodeBC3(block []byte, t *tile8) bool {
	decodeColorBlock(block[8:], true, t)
	decodeGradientBlock(block[:8], t, 3)
	return true
}

func decodeBC4(block []byte, t *tile8) bool {
	decodeGradientBlock(block, t, 0)
	for i := range t {
		v := t[i][0]
		t[i] = rgba8{v, v, v, 255}
	}
	return true
}

func decodeBC5(block []byte, t *tile8) bool {
	decodeGradientBlock(block[:8], t, 0)
	decodeGradientBlock(block[8:], t, 1)
	for i := range t {
		t[i][2], t[i][3] = 0, 255
	}
	return true
}
