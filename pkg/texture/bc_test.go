package texture

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// bitWriter packs fields least significant bit first, the order bitReader
// consumes them.
type bitWriter struct {
	buf [16]byte
	pos uint
}

func (w *bitWriter) put(v uint64, n uint) {
	for i := uint(0); i < n; i++ {
		if v>>i&1 == 1 {
			w.buf[w.pos/8] |= 1 << (w.pos % 8)
		}
		w.pos++
	}
}

func bc1Block(c0, c1 uint16, indices uint32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:], c0)
	binary.LittleEndian.PutUint16(b[2:], c1)
	binary.LittleEndian.PutUint32(b[4:], indices)
	return b
}

// gradientBlock builds a BC4-style block with a 3-bit index per texel.
func gradientBlock(a0, a1 uint8, idx func(i int) uint64) []byte {
	b := make([]byte, 8)
	var bits uint64
	for i := 0; i < 16; i++ {
		bits |= idx(i) << (3 * i)
	}
	binary.LittleEndian.PutUint64(b, bits<<16|uint64(a1)<<8|uint64(a0))
	return b
}

func decodeLDR(t testing.TB, format Format, w, h int, src []byte, flags DecodeFlags) *Surface {
	t.Helper()
	s := NewSurface(w, h, LayoutBGRA8)
	if err := Decode(s, src, format, flags); err != nil {
		t.Fatalf("Decode(%v): %v", format, err)
	}
	return s
}

// bgra returns the texel at (x, y) in surface byte order.
func bgra(s *Surface, x, y int) [4]uint8 {
	b, g, r, a := s.BGRA(x, y)
	return [4]uint8{b, g, r, a}
}

func expectUniform(t *testing.T, s *Surface, want [4]uint8) {
	t.Helper()
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if got := bgra(s, x, y); got != want {
				t.Fatalf("texel (%d,%d): got BGRA %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestBC1RedBlock(t *testing.T) {
	s := decodeLDR(t, BC1, 4, 4, bc1Block(0xF800, 0x001F, 0), FlagNone)
	expectUniform(t, s, [4]uint8{0, 0, 255, 255})
}

func TestBC1Palette(t *testing.T) {
	// Texels 0..3 use indices 0..3, the rest index 0.
	const indices = 0xE4

	tests := []struct {
		name   string
		c0, c1 uint16
		want   [4][4]uint8 // BGRA per index
	}{
		{
			name: "FourColor",
			c0:   0xF800, c1: 0x001F,
			want: [4][4]uint8{{0, 0, 255, 255}, {255, 0, 0, 255}, {85, 0, 170, 255}, {170, 0, 85, 255}},
		},
		{
			name: "ThreeColor",
			c0:   0x001F, c1: 0xF800,
			want: [4][4]uint8{{255, 0, 0, 255}, {0, 0, 255, 255}, {127, 0, 127, 255}, {0, 0, 0, 255}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := decodeLDR(t, BC1, 4, 4, bc1Block(tt.c0, tt.c1, indices), FlagNone)
			for i := 0; i < 4; i++ {
				if got := bgra(s, i, 0); got != tt.want[i] {
					t.Errorf("index %d: got %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestBC1FlatBlockIgnoresIndices(t *testing.T) {
	// 0x7BEF expands to (123, 125, 123).
	s := decodeLDR(t, BC1, 4, 4, bc1Block(0x7BEF, 0x7BEF, 0xE4E4E4E4), FlagNone)
	expectUniform(t, s, [4]uint8{123, 125, 123, 255})
}

func TestGradientPalette(t *testing.T) {
	tests := []struct {
		name   string
		a0, a1 uint8
		want   [8]uint8
	}{
		{"SevenStep", 255, 0, [8]uint8{255, 0, 218, 182, 145, 109, 72, 36}},
		{"FiveStep", 0, 255, [8]uint8{0, 255, 51, 102, 153, 204, 0, 255}},
		{"Flat", 90, 90, [8]uint8{90, 90, 90, 90, 90, 90, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradient8(tt.a0, tt.a1); got != tt.want {
				t.Errorf("gradient8(%d, %d) = %v, want %v", tt.a0, tt.a1, got, tt.want)
			}
		})
	}
}

func TestGradientSevenStepsAreSevenths(t *testing.T) {
	want := map[uint8]bool{0: true, 255: true}
	for k := 1; k <= 6; k++ {
		want[uint8(255*k/7)] = true
	}
	pal := gradient8(255, 0)
	for i, v := range pal {
		if !want[v] {
			t.Errorf("entry %d = %d is not 0, 255 or a multiple of 255/7", i, v)
		}
	}
}

func TestBC4(t *testing.T) {
	block := gradientBlock(255, 0, func(i int) uint64 { return uint64(i % 8) })
	s := decodeLDR(t, BC4, 4, 4, block, FlagNone)
	pal := gradient8(255, 0)
	for i := 0; i < 16; i++ {
		v := pal[i%8]
		if got := bgra(s, i%4, i/4); got != [4]uint8{v, v, v, 255} {
			t.Errorf("texel %d: got %v, want gray %d", i, got, v)
		}
	}
}

func TestBC3(t *testing.T) {
	alpha := gradientBlock(0, 255, func(i int) uint64 { return uint64(i % 8) })
	// c0 < c1 would select three-colour mode in BC1; BC3 always interpolates.
	color := bc1Block(0x001F, 0xF800, 0xE4)
	s := decodeLDR(t, BC3, 4, 4, append(alpha, color...), FlagNone)

	pal := gradient8(0, 255)
	for i := 0; i < 16; i++ {
		if got := bgra(s, i%4, i/4)[3]; got != pal[i%8] {
			t.Errorf("texel %d alpha: got %d, want %d", i, got, pal[i%8])
		}
	}
	if got := bgra(s, 3, 0); got[0] != 85 || got[2] != 170 {
		t.Errorf("index 3 colour: got %v, want B=85 R=170", got)
	}
}

func TestBC5(t *testing.T) {
	r := gradientBlock(200, 200, func(int) uint64 { return 0 })
	g := gradientBlock(40, 40, func(int) uint64 { return 0 })
	s := decodeLDR(t, BC5, 4, 4, append(r, g...), FlagNone)
	expectUniform(t, s, [4]uint8{0, 40, 200, 255})
}

func TestEdgeClipping(t *testing.T) {
	const w, h, stride = 5, 5, 5*4 + 8

	// One colour per block: red, green, blue, white.
	colors := []uint16{0xF800, 0x07E0, 0x001F, 0xFFFF}
	want := [][4]uint8{{0, 0, 255, 255}, {0, 255, 0, 255}, {255, 0, 0, 255}, {255, 255, 255, 255}}
	var src []byte
	for _, c := range colors {
		src = append(src, bc1Block(c, c, 0)...)
	}

	// The buffer ends right after the last texel; any overhang write would panic.
	pix := bytes.Repeat([]byte{0xAA}, (h-1)*stride+w*4)
	s, err := WrapBGRA8(pix, w, h, stride)
	if err != nil {
		t.Fatalf("WrapBGRA8: %v", err)
	}
	if err := Decode(s, src, BC1, FlagNone); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	written := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			block := y/4*2 + x/4
			if got := bgra(s, x, y); got != want[block] {
				t.Errorf("texel (%d,%d): got %v, want %v", x, y, got, want[block])
			}
			written++
		}
		if y < h-1 {
			for _, b := range pix[y*stride+w*4 : (y+1)*stride] {
				if b != 0xAA {
					t.Fatalf("row %d padding overwritten", y)
				}
			}
		}
	}
	if written != 25 {
		t.Errorf("checked %d texels, want 25", written)
	}
}

func TestBC1IntoFloatSurface(t *testing.T) {
	s := NewSurface(4, 4, LayoutRGBA32F)
	if err := Decode(s, bc1Block(0xF800, 0xF800, 0), BC1, FlagNone); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := s.RGBAF(2, 2); got != [4]float32{1, 0, 0, 1} {
		t.Errorf("got %v, want opaque red", got)
	}
}

func TestDegenerateBlocks(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		block  []byte
		want   [4]uint8 // BGRA
	}{
		{"BC1", BC1, bc1Block(0x7BEF, 0x7BEF, 0), [4]uint8{123, 125, 123, 255}},
		{"BC3", BC3, append(gradientBlock(77, 77, func(int) uint64 { return 0 }), bc1Block(0x7BEF, 0x7BEF, 0)...), [4]uint8{123, 125, 123, 77}},
		{"BC4", BC4, gradientBlock(42, 42, func(int) uint64 { return 0 }), [4]uint8{42, 42, 42, 255}},
		{"BC5", BC5, append(gradientBlock(9, 9, func(int) uint64 { return 0 }), gradientBlock(99, 99, func(int) uint64 { return 0 })...), [4]uint8{0, 99, 9, 255}},
		{"BC7", BC7, bc7Mode6Block(0x50, 1, 0x50, 1, nil), [4]uint8{0xA1, 0xA1, 0xA1, 0xA1}},
		{"ETC1", ETC1, etcIndividualGray, [4]uint8{138, 138, 138, 255}},
		{"ETC2", ETC2, etcIndividualGray, [4]uint8{138, 138, 138, 255}},
		{"ETC2EAC", ETC2EAC, append([]byte{200, 0x00, 0, 0, 0, 0, 0, 0}, etcIndividualGray...), [4]uint8{138, 138, 138, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := decodeLDR(t, tt.format, 4, 4, tt.block, FlagNone)
			expectUniform(t, s, tt.want)
		})
	}
}
