package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
)

// Layout is the channel layout of a Surface.
type Layout uint8

const (
	// LayoutBGRA8 stores four 8-bit channels in B, G, R, A byte order.
	LayoutBGRA8 Layout = iota + 1
	// LayoutRGBA32F stores four float32 channels in R, G, B, A order.
	LayoutRGBA32F
)

// BytesPerTexel returns the size of one texel in the layout.
func (l Layout) BytesPerTexel() int {
	switch l {
	case LayoutBGRA8:
		return 4
	case LayoutRGBA32F:
		return 16
	}
	return 0
}

func (l Layout) String() string {
	switch l {
	case LayoutBGRA8:
		return "BGRA8"
	case LayoutRGBA32F:
		return "RGBA32F"
	}
	return fmt.Sprintf("Layout(%d)", uint8(l))
}

// Surface is the destination of a decode. Stride is measured in bytes for
// both layouts and may include row padding. Only the buffer matching Layout
// is used.
type Surface struct {
	Width  int
	Height int
	Stride int
	Layout Layout
	Pix    []byte
	PixF   []float32
}

// NewSurface allocates a tightly packed surface.
func NewSurface(width, height int, layout Layout) *Surface {
	s := &Surface{
		Width:  width,
		Height: height,
		Stride: width * layout.BytesPerTexel(),
		Layout: layout,
	}
	switch layout {
	case LayoutBGRA8:
		s.Pix = make([]byte, s.Stride*height)
	case LayoutRGBA32F:
		s.PixF = make([]float32, s.Stride/4*height)
	}
	return s
}

// WrapBGRA8 wraps a caller-owned 8-bit buffer.
func WrapBGRA8(pix []byte, width, height, stride int) (*Surface, error) {
	s := &Surface{Width: width, Height: height, Stride: stride, Layout: LayoutBGRA8, Pix: pix}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// WrapRGBA32F wraps a caller-owned float buffer. stride is in bytes and must
// be a multiple of 4.
func WrapRGBA32F(pix []float32, width, height, stride int) (*Surface, error) {
	s := &Surface{Width: width, Height: height, Stride: stride, Layout: LayoutRGBA32F, PixF: pix}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// PreferredLayout returns the layout that preserves a format's range.
func PreferredLayout(format Format, flags DecodeFlags) Layout {
	if format.IsHDR() && !flags.Has(FlagForceLDR) {
		return LayoutRGBA32F
	}
	return LayoutBGRA8
}

func (s *Surface) validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil surface", ErrInvalidSurface)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidSurface, s.Width, s.Height)
	}
	bpt := s.Layout.BytesPerTexel()
	if bpt == 0 {
		return fmt.Errorf("%w: unknown layout %v", ErrInvalidSurface, s.Layout)
	}
	if s.Stride < s.Width*bpt {
		return fmt.Errorf("%w: stride %d shorter than row of %d bytes", ErrInvalidSurface, s.Stride, s.Width*bpt)
	}
	need := (s.Height-1)*s.Stride + s.Width*bpt
	switch s.Layout {
	case LayoutBGRA8:
		if len(s.Pix) < need {
			return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrInvalidSurface, len(s.Pix), need)
		}
	case LayoutRGBA32F:
		if s.Stride%4 != 0 {
			return fmt.Errorf("%w: float stride %d not a multiple of 4", ErrInvalidSurface, s.Stride)
		}
		if len(s.PixF)*4 < need {
			return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrInvalidSurface, len(s.PixF)*4, need)
		}
	}
	return nil
}

// BGRA returns the 8-bit texel at (x, y). Float surfaces are projected.
func (s *Surface) BGRA(x, y int) (b, g, r, a uint8) {
	if s.Layout == LayoutRGBA32F {
		c := s.RGBAF(x, y)
		return unorm8(c[2]), unorm8(c[1]), unorm8(c[0]), unorm8(c[3])
	}
	i := y*s.Stride + x*4
	return s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3]
}

// RGBAF returns the float texel at (x, y). 8-bit surfaces are scaled to [0,1].
func (s *Surface) RGBAF(x, y int) [4]float32 {
	if s.Layout == LayoutBGRA8 {
		b, g, r, a := s.BGRA(x, y)
		return [4]float32{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
	}
	i := y*(s.Stride/4) + x*4
	return [4]float32{s.PixF[i], s.PixF[i+1], s.PixF[i+2], s.PixF[i+3]}
}

// Image copies the surface into a non-premultiplied RGBA image.
func (s *Surface) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < s.Width; x++ {
			b, g, r, a := s.BGRA(x, y)
			o := x * 4
			row[o], row[o+1], row[o+2], row[o+3] = r, g, b, a
		}
	}
	return img
}

// Bytes returns the raw surface buffer, floats little-endian encoded.
func (s *Surface) Bytes() []byte {
	if s.Layout == LayoutBGRA8 {
		return s.Pix
	}
	out := make([]byte, len(s.PixF)*4)
	for i, f := range s.PixF {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// unorm8 projects a float onto [0,255], rounding to nearest.
func unorm8(f float32) uint8 {
	if !(f > 0) {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

func clamp01(f float32) float32 {
	if !(f > 0) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
