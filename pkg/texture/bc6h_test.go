package texture

import (
	"errors"
	"testing"
)

// bc6Mode3Block builds a one-subset, untransformed block with identical
// 10-bit endpoints and zero indices.
func bc6Mode3Block(ep uint64) []byte {
	var w bitWriter
	w.put(0b00011, 5)
	for i := 0; i < 6; i++ {
		w.put(ep, 10)
	}
	return w.buf[:]
}

func decodeHDR(t *testing.T, format Format, src []byte, opts ...Option) (*Surface, error) {
	t.Helper()
	s := NewSurface(4, 4, LayoutRGBA32F)
	return s, Decode(s, src, format, FlagNone, opts...)
}

func TestBC6HUniform(t *testing.T) {
	// 512 unquantizes to 32800, which finishes to half 0x3E0F.
	s, err := decodeHDR(t, BC6H, bc6Mode3Block(512))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	const v = 1.5146484375
	for i := 0; i < 16; i++ {
		if got := s.RGBAF(i%4, i/4); got != [4]float32{v, v, v, 1} {
			t.Fatalf("texel %d: got %v, want %v", i, got, v)
		}
	}
}

func TestBC6HSigned(t *testing.T) {
	// As a signed 10-bit value 512 is -512, the most negative endpoint.
	s, err := decodeHDR(t, BC6HSigned, bc6Mode3Block(512))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := s.RGBAF(1, 2); got != [4]float32{-65504, -65504, -65504, 1} {
		t.Errorf("got %v, want most negative half", got)
	}
}

func TestBC6HZero(t *testing.T) {
	s, err := decodeHDR(t, BC6H, bc6Mode3Block(0))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := s.RGBAF(3, 3); got != [4]float32{0, 0, 0, 1} {
		t.Errorf("got %v, want opaque black", got)
	}
}

func TestBC6HReservedMode(t *testing.T) {
	block := make([]byte, 16)
	block[0] = 0b10011

	s, err := decodeHDR(t, BC6H, block)
	if err != nil {
		t.Fatalf("Decode without strict modes: %v", err)
	}
	if got := s.RGBAF(0, 0); got != [4]float32{0, 0, 0, 1} {
		t.Errorf("reserved mode: got %v, want opaque black", got)
	}

	if _, err := decodeHDR(t, BC6H, block, WithStrictModes()); !errors.Is(err, ErrMalformedBlockMode) {
		t.Errorf("expected ErrMalformedBlockMode, got %v", err)
	}
}

func TestBC6HLayoutsCoverHeader(t *testing.T) {
	for mode, m := range bc6Modes {
		if m.layout == nil {
			continue
		}
		bits := 2
		if mode > 1 {
			bits = 5
		}
		for _, r := range m.layout {
			if r.from <= r.to {
				bits += int(r.to-r.from) + 1
			} else {
				bits += int(r.from-r.to) + 1
			}
		}
		want := 82
		if m.subsets == 1 {
			want = 65
		}
		if bits != want {
			t.Errorf("mode %05b: header is %d bits, want %d", mode, bits, want)
		}
	}
}

func TestBC6HIntoLDRSurface(t *testing.T) {
	s := NewSurface(4, 4, LayoutBGRA8)
	if err := Decode(s, bc6Mode3Block(512), BC6H, FlagNone); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	expectUniform(t, s, [4]uint8{255, 255, 255, 255})
}

// headerWriter writes BC6H header fields bit run by bit run.
type headerWriter struct{ bitWriter }

// bits writes bits lo..hi of v.
func (w *headerWriter) bits(v uint64, lo, hi uint) {
	w.put(v>>lo, hi-lo+1)
}

// reversed writes bits hi down to lo of v.
func (w *headerWriter) reversed(v uint64, hi, lo uint) {
	for b := hi; b+1 > lo; b-- {
		w.put(v>>b, 1)
	}
}

func halfTexel(r, g, b uint16) [4]float32 {
	return [4]float32{halfToFloat(r), halfToFloat(g), halfToFloat(b), 1}
}

func TestBC6HMode0TwoSubsets(t *testing.T) {
	// w = (100, 200, 300); deltas x = (3, -2, 5), y = (-4, 1, 0), z = (2, 2, 2).
	const (
		rw, gw, bw = 100, 200, 300
		rx, gx, bx = 3, 30, 5
		ry, gy, by = 28, 1, 0
		rz, gz, bz = 2, 2, 2
	)
	var w headerWriter
	w.put(0b00, 2)
	w.bits(gy, 4, 4)
	w.bits(by, 4, 4)
	w.bits(bz, 4, 4)
	w.bits(rw, 0, 9)
	w.bits(gw, 0, 9)
	w.bits(bw, 0, 9)
	w.bits(rx, 0, 4)
	w.bits(gz, 4, 4)
	w.bits(gy, 0, 3)
	w.bits(gx, 0, 4)
	w.bits(bz, 0, 0)
	w.bits(gz, 0, 3)
	w.bits(bx, 0, 4)
	w.bits(bz, 1, 1)
	w.bits(by, 0, 3)
	w.bits(ry, 0, 4)
	w.bits(bz, 2, 2)
	w.bits(rz, 0, 4)
	w.bits(bz, 3, 3)
	w.bits(0, 0, 4) // partition
	putIndices(&w.bitWriter, 3, [16]uint64{1: 7, 3: 7, 4: 4, 15: 3}, 0, 15)

	s, err := decodeHDR(t, BC6H, w.buf[:])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// Expected half bits: unquantize (v<<16+0x8000)>>10, interpolate, then *31>>6.
	tests := []struct {
		texel int
		want  [4]float32
	}{
		{0, halfTexel(0x0c2b, 0x1847, 0x2463)},  // w
		{1, halfTexel(0x0c88, 0x1809, 0x24fe)},  // x
		{2, halfTexel(0x0baf, 0x1866, 0x2463)},  // y
		{3, halfTexel(0x0c69, 0x1885, 0x24a1)},  // z
		{4, halfTexel(0x0c61, 0x1823, 0x24bd)},  // w..x, weight 37
		{5, halfTexel(0x0c2b, 0x1847, 0x2463)},  // w
		{15, halfTexel(0x0bfd, 0x1873, 0x247d)}, // y..z, weight 27
	}
	for _, tt := range tests {
		if got := s.RGBAF(tt.texel%4, tt.texel/4); got != tt.want {
			t.Errorf("texel %d: got %v, want %v", tt.texel, got, tt.want)
		}
	}
}

func TestBC6HReversedEndpointBits(t *testing.T) {
	// Mode 01111 stores endpoint bits 15..10 high bit first.
	const (
		rw, gw, bw = 0x8000, 0x0400, 0x1234
		rx, gx, bx = 1, 0xf, 0 // +1, -1, 0
	)
	var w headerWriter
	w.put(0b01111, 5)
	w.bits(rw, 0, 9)
	w.bits(gw, 0, 9)
	w.bits(bw, 0, 9)
	w.bits(rx, 0, 3)
	w.reversed(rw, 15, 10)
	w.bits(gx, 0, 3)
	w.reversed(gw, 15, 10)
	w.bits(bx, 0, 3)
	w.reversed(bw, 15, 10)
	putIndices(&w.bitWriter, 4, [16]uint64{1: 15}, 0)

	s, err := decodeHDR(t, BC6H, w.buf[:])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// 16-bit endpoints skip unquantization: half bits are v*31>>6.
	if got, want := s.RGBAF(0, 0), halfTexel(0x3e00, 0x01f0, 0x08d1); got != want {
		t.Errorf("texel 0: got %v, want %v", got, want)
	}
	if got, want := s.RGBAF(1, 0), halfTexel(0x3e00, 0x01ef, 0x08d1); got != want {
		t.Errorf("texel 1: got %v, want %v", got, want)
	}
}

func TestBC6HIntoLDRSurfacePostProcessed(t *testing.T) {
	s := NewSurface(4, 4, LayoutBGRA8)
	if err := Decode(s, bc6Mode3Block(512), BC6H, FlagInvert); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	expectUniform(t, s, [4]uint8{255, 0, 255, 255})
}
