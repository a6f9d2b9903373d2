package texture

import (
	"fmt"
	"math"
)

// toneMapEpsilon floors luminance before the logarithm.
const toneMapEpsilon = 1e-6

// ToneMap projects a row-major RGBA float buffer onto dst with a global
// log-average exposure operator. The whole buffer is scanned once for the
// average luminance before any texel is written, so src must hold the
// fully decoded image. Texels beyond len(src)/4 are left untouched.
// Post-processing flags are applied to the mapped 8-bit texels.
func ToneMap(dst *Surface, src []float32, flags DecodeFlags) error {
	if err := dst.validate(); err != nil {
		return fmt.Errorf("tone map: %w", err)
	}
	if err := flags.Validate(); err != nil {
		return fmt.Errorf("tone map: %w", err)
	}
	toneMap(dst, src, flags)
	return nil
}

func luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

func toneMap(dst *Surface, src []float32, flags DecodeFlags) {
	post := flags.postProcessed()
	n := min(len(src)/4, dst.Width*dst.Height)
	if n == 0 {
		return
	}

	var sum float64
	for i := 0; i < n; i++ {
		p := src[i*4:]
		y := luminance(float64(p[0]), float64(p[1]), float64(p[2]))
		sum += math.Log(max(y, toneMapEpsilon))
	}
	avg := math.Exp(sum / float64(n))

	for i := 0; i < n; i++ {
		p := src[i*4 : i*4+4]
		r, g, b := float64(p[0]), float64(p[1]), float64(p[2])
		y := luminance(r, g, b)
		u := (b - y) * 0.565
		v := (r - y) * 0.713
		// (4Y/L)/(1+4Y/L)/Y with Y cancelled, so black stays finite.
		m := (4 / avg) / (1 + 4*max(y, 0)/avg)

		c := rgba8{
			toneChannel((y + 1.403*v) * m),
			toneChannel((y - 0.344*u - 0.714*v) * m),
			toneChannel((y + 1.770*u) * m),
			unorm8(p[3]),
		}
		if post {
			c = postProcess(c, flags)
		}
		storeTexel(dst, i%dst.Width, i/dst.Width, c)
	}
}

func toneChannel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	return unorm8(float32(math.Pow(v, 2.25)))
}

// storeTexel writes an already final 8-bit texel into either layout.
func storeTexel(s *Surface, x, y int, c rgba8) {
	if s.Layout == LayoutBGRA8 {
		i := y*s.Stride + x*4
		p := s.Pix[i : i+4 : i+4]
		p[0], p[1], p[2], p[3] = c[2], c[1], c[0], c[3]
		return
	}
	i := y*(s.Stride/4) + x*4
	p := s.PixF[i : i+4 : i+4]
	for ch := range p {
		p[ch] = float32(c[ch]) / 255
	}
}
