// Package texture decodes GPU block-compressed and raw texel data into
// 8-bit BGRA or float RGBA surfaces.
//
// Supported families:
//   - BC1, BC3, BC4, BC5 (S3TC/RGTC)
//   - BC6H (signed and unsigned half floats) and BC7
//   - ETC1, ETC2, ETC2 with EAC alpha, EAC R11/RG11
//   - raw 8/16/32-bit integer and float layouts
//
// Decoding is synchronous and allocation-light. Lookup tables are read-only,
// so distinct images may be decoded concurrently.
package texture

import (
	"fmt"
	"log/slog"
)

// Option configures a single Decode call.
type Option func(*decodeConfig)

type decodeConfig struct {
	logger *slog.Logger
	strict bool
}

// WithLogger overrides the package logger for one call.
func WithLogger(l *slog.Logger) Option {
	return func(c *decodeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStrictModes makes reserved BC6H/BC7 block modes fail the call with
// ErrMalformedBlockMode. The surface is still fully written.
func WithStrictModes() Option {
	return func(c *decodeConfig) {
		c.strict = true
	}
}

// Decode decodes src, one image of the given format, into dst. The image
// dimensions are taken from dst.
func Decode(dst *Surface, src []byte, format Format, flags DecodeFlags, opts ...Option) error {
	cfg := decodeConfig{logger: Logger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !format.Valid() {
		return decodeErr(format, "dispatch", ErrUnsupportedFormat)
	}
	if err := flags.Validate(); err != nil {
		return decodeErr(format, "dispatch", err)
	}
	if err := dst.validate(); err != nil {
		return decodeErr(format, "dispatch", err)
	}
	if need := format.MinInputSize(); len(src) < need {
		return decodeErr(format, "dispatch",
			fmt.Errorf("%w: have %d bytes, need at least %d", ErrTruncatedInput, len(src), need))
	}

	d := newDecoder(dst, format, flags)
	cfg.logger.Debug("decoding image",
		"format", format,
		"width", dst.Width,
		"height", dst.Height,
		"layout", dst.Layout,
		"flags", flags)

	d.run(src)

	if want := format.ImageSize(dst.Width, dst.Height); len(src) < want {
		cfg.logger.Warn("image data shorter than expected, remainder left untouched",
			"format", format, "have", len(src), "want", want)
	}
	if d.malformed > 0 {
		cfg.logger.Warn("reserved block modes decoded as fallback color",
			"format", format, "blocks", d.malformed)
		if cfg.strict {
			return decodeErr(format, "decode",
				fmt.Errorf("%w: %d blocks", ErrMalformedBlockMode, d.malformed))
		}
	}
	return nil
}

// decoder is bound to one surface for one image and discarded afterwards.
type decoder struct {
	dst       *Surface
	format    Format
	flags     DecodeFlags
	width     int
	height    int
	post      bool
	forceLDR  bool
	malformed int
}

func newDecoder(dst *Surface, format Format, flags DecodeFlags) *decoder {
	return &decoder{
		dst:      dst,
		format:   format,
		flags:    flags,
		width:    dst.Width,
		height:   dst.Height,
		post:     flags.postProcessed(),
		forceLDR: flags.Has(FlagForceLDR),
	}
}

// run selects the per-format loop once for the whole image.
func (d *decoder) run(src []byte) {
	switch d.format {
	case BC1:
		d.blocks8(src, decodeBC1)
	case BC3:
		d.blocks8(src, decodeBC3)
	case BC4:
		d.blocks8(src, decodeBC4)
	case BC5:
		d.blocks8(src, decodeBC5)
	case BC6H:
		d.blocksF(src, false)
	case BC6HSigned:
		d.blocksF(src, true)
	case BC7:
		d.blocks8(src, decodeBC7)
	case ETC1:
		d.blocks8(src, decodeETC1)
	case ETC2:
		d.blocks8(src, decodeETC2)
	case ETC2EAC:
		d.blocks8(src, decodeETC2EAC)
	case EACR11:
		d.blocks8(src, decodeEACR11)
	case EACRG11:
		d.blocks8(src, decodeEACRG11)
	default:
		d.raw(src)
	}
}

// blocks8 walks the image in row-major block order, decoding each block
// with fn and clipping the tile against the surface edges.
func (d *decoder) blocks8(src []byte, fn func([]byte, *tile8) bool) {
	size := d.format.BlockSize()
	bw, bh := blockCount(d.width), blockCount(d.height)
	var t tile8
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			if len(src) < size {
				return
			}
			if !fn(src[:size], &t) {
				d.malformed++
			}
			src = src[size:]
			for i := 0; i < 16; i++ {
				d.put8(bx*4+i&3, by*4+i>>2, t[i])
			}
		}
	}
}

func (d *decoder) blocksF(src []byte, signed bool) {
	bw, bh := blockCount(d.width), blockCount(d.height)
	var t [16]rgbaF
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			if len(src) < 16 {
				return
			}
			if !decodeBC6H(src[:16], signed, &t) {
				d.malformed++
			}
			src = src[16:]
			for i := 0; i < 16; i++ {
				d.putF(bx*4+i&3, by*4+i>>2, t[i])
			}
		}
	}
}

// put8 applies post-processing and stores an 8-bit texel. Coordinates
// outside the surface are dropped.
func (d *decoder) put8(x, y int, c rgba8) {
	if x >= d.width || y >= d.height {
		return
	}
	if d.post {
		c = postProcess(c, d.flags)
	}
	storeTexel(d.dst, x, y, c)
}

// putF stores a float texel. On LDR surfaces it is projected to 8 bits and
// post-processed like any other 8-bit texel.
func (d *decoder) putF(x, y int, c rgbaF) {
	if x >= d.width || y >= d.height {
		return
	}
	s := d.dst
	if s.Layout == LayoutBGRA8 {
		c8 := rgba8{unorm8(c[0]), unorm8(c[1]), unorm8(c[2]), unorm8(c[3])}
		if d.post {
			c8 = postProcess(c8, d.flags)
		}
		storeTexel(s, x, y, c8)
		return
	}
	if d.forceLDR {
		for ch := range c {
			c[ch] = clamp01(c[ch])
		}
	}
	i := y*(s.Stride/4) + x*4
	p := s.PixF[i : i+4 : i+4]
	copy(p, c[:])
}
