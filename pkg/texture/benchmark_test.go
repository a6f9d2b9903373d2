package texture

import (
	"bytes"
	"testing"
)

// tiledPayload repeats one block to fill a width x height image.
func tiledPayload(format Format, width, height int, block []byte) []byte {
	return bytes.Repeat(block, format.ImageSize(width, height)/len(block))
}

func BenchmarkDecode(b *testing.B) {
	const w, h = 256, 256
	idx := make([]uint64, 16)
	for i := range idx {
		idx[i] = uint64(i)
	}

	cases := []struct {
		format Format
		block  []byte
		layout Layout
	}{
		{BC1, bc1Block(0xF800, 0x001F, 0xE4E4E4E4), LayoutBGRA8},
		{BC3, append(gradientBlock(0, 255, func(i int) uint64 { return uint64(i % 8) }), bc1Block(0xF800, 0x001F, 0x1B1B1B1B)...), LayoutBGRA8},
		{BC5, append(gradientBlock(255, 0, func(i int) uint64 { return uint64(i % 8) }), gradientBlock(10, 200, func(int) uint64 { return 3 })...), LayoutBGRA8},
		{BC6H, bc6Mode3Block(512), LayoutRGBA32F},
		{BC7, bc7Mode6Block(3, 0, 120, 1, idx), LayoutBGRA8},
		{ETC1, []byte{0x87, 0x87, 0x87, 0x26, 0xFF, 0x00, 0xF0, 0x0F}, LayoutBGRA8},
		{ETC2EAC, append([]byte{0x64, 0x30, 0x80, 0, 0, 0, 0, 0}, etcIndividualGray...), LayoutBGRA8},
		{RGBA16161616F, u16s(0x3800, 0x3C00, 0x4000, 0x3C00), LayoutBGRA8},
		{RGBA32323232F, f32s(0.25, 0.5, 2, 1), LayoutRGBA32F},
	}

	for _, tc := range cases {
		src := tiledPayload(tc.format, w, h, tc.block)
		b.Run(tc.format.String(), func(b *testing.B) {
			dst := NewSurface(w, h, tc.layout)
			b.SetBytes(int64(len(src)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := Decode(dst, src, tc.format, FlagNone); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPostProcess(b *testing.B) {
	src := tiledPayload(BC5, 256, 256,
		append(gradientBlock(255, 0, func(i int) uint64 { return uint64(i % 8) }),
			gradientBlock(0, 255, func(i int) uint64 { return uint64(i % 8) })...))

	for _, flags := range []DecodeFlags{FlagNormalize, FlagHemiOctRB, FlagNormalize | FlagInvert} {
		b.Run(flags.String(), func(b *testing.B) {
			dst := NewSurface(256, 256, LayoutBGRA8)
			b.SetBytes(int64(len(src)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := Decode(dst, src, BC5, flags); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkToneMap(b *testing.B) {
	src := grayBuffer(256*256, 0.75, 1)
	dst := NewSurface(256, 256, LayoutBGRA8)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := ToneMap(dst, src, FlagNone); err != nil {
			b.Fatal(err)
		}
	}
}
