package texture

import (
	"encoding/binary"
	"math"
)

var le = binary.LittleEndian

// raw8 decoders produce 8-bit texels and go through post-processing.
var raw8 = [formatCount]func(p []byte) rgba8{
	I8: func(p []byte) rgba8 {
		return rgba8{p[0], p[0], p[0], 255}
	},
	IA88: func(p []byte) rgba8 {
		return rgba8{p[0], p[0], p[0], p[1]}
	},
	RGBA8888: func(p []byte) rgba8 {
		return rgba8{p[0], p[1], p[2], p[3]}
	},
	BGRA8888: func(p []byte) rgba8 {
		return rgba8{p[2], p[1], p[0], p[3]}
	},
}

// rawF decoders produce float texels. Integer channels are scaled to [0,1].
var rawF = [formatCount]func(p []byte) rgbaF{
	R16: func(p []byte) rgbaF {
		return rgbaF{unorm16(p), 0, 0, 1}
	},
	RG1616: func(p []byte) rgbaF {
		return rgbaF{unorm16(p), unorm16(p[2:]), 0, 1}
	},
	RGBA16161616: func(p []byte) rgbaF {
		return rgbaF{unorm16(p), unorm16(p[2:]), unorm16(p[4:]), unorm16(p[6:])}
	},
	R16F: func(p []byte) rgbaF {
		return rgbaF{half(p), 0, 0, 1}
	},
	RG1616F: func(p []byte) rgbaF {
		return rgbaF{half(p), half(p[2:]), 0, 1}
	},
	RGBA16161616F: func(p []byte) rgbaF {
		return rgbaF{half(p), half(p[2:]), half(p[4:]), half(p[6:])}
	},
	R32F: func(p []byte) rgbaF {
		return rgbaF{f32(p), 0, 0, 1}
	},
	RG3232F: func(p []byte) rgbaF {
		return rgbaF{f32(p), f32(p[4:]), 0, 1}
	},
	RGB323232F: func(p []byte) rgbaF {
		return rgbaF{f32(p), f32(p[4:]), f32(p[8:]), 1}
	},
	RGBA32323232F: func(p []byte) rgbaF {
		return rgbaF{f32(p), f32(p[4:]), f32(p[8:]), f32(p[12:])}
	},
	R11G11B10F: func(p []byte) rgbaF {
		v := le.Uint32(p)
		return rgbaF{smallFloat(v&0x7ff, 6), smallFloat(v>>11&0x7ff, 6), smallFloat(v>>22, 5), 1}
	},
}

func unorm16(p []byte) float32 { return float32(le.Uint16(p)) / 65535 }
func half(p []byte) float32    { return halfToFloat(le.Uint16(p)) }
func f32(p []byte) float32     { return math.Float32frombits(le.Uint32(p)) }

// smallFloat expands an unsigned float with a 5-bit exponent (bias 15) and
// an m-bit mantissa. Inf and NaN saturate to the largest half value.
func smallFloat(v uint32, m uint) float32 {
	exp := int(v >> m & 31)
	mant := float64(v & (1<<m - 1))
	scale := float64(uint32(1) << m)
	switch exp {
	case 0:
		return float32(math.Ldexp(mant/scale, -14))
	case 31:
		return 65504
	}
	return float32(math.Ldexp(1+mant/scale, exp-15))
}

// toneMapped reports whether an LDR projection of the format goes through
// ToneMap instead of linear clamping.
func (d *decoder) toneMapped() bool {
	return d.dst.Layout == LayoutBGRA8 && (d.format == RGBA16161616 || d.format == RGBA16161616F)
}

// raw decodes texels row-major until the image or the input runs out.
func (d *decoder) raw(src []byte) {
	bpt := d.format.BytesPerTexel()
	n := min(len(src)/bpt, d.width*d.height)

	if fn := raw8[d.format]; fn != nil {
		for i := 0; i < n; i++ {
			d.put8(i%d.width, i/d.width, fn(src[i*bpt:]))
		}
		return
	}

	fn := rawF[d.format]
	if d.toneMapped() {
		buf := make([]float32, n*4)
		for i := 0; i < n; i++ {
			c := fn(src[i*bpt:])
			copy(buf[i*4:], c[:])
		}
		toneMap(d.dst, buf, d.flags)
		return
	}
	for i := 0; i < n; i++ {
		d.putF(i%d.width, i/d.width, fn(src[i*bpt:]))
	}
}
