package texture

import "math"

// postProcess applies the 8-bit transforms selected by flags in a fixed
// order: YCoCg, normal reconstruction, green inversion.
func postProcess(c rgba8, flags DecodeFlags) rgba8 {
	if flags&FlagYCoCg != 0 {
		c = undoYCoCg(c)
	}
	switch {
	case flags&FlagNormalize != 0:
		c = reconstructNormal(c)
	case flags&FlagHemiOctRB != 0:
		c = decodeHemiOct(c)
	}
	if flags&FlagInvert != 0 {
		c[1] = ^c[1]
	}
	return c
}

// undoYCoCg converts a scaled (Co, Cg, scale, Y) texel back to RGB.
func undoYCoCg(c rgba8) rgba8 {
	s := int(c[2])>>3 + 1
	co := (int(c[0]) - 128) / s
	cg := (int(c[1]) - 128) / s
	y := int(c[3])
	return rgba8{
		clampByte(y + co - cg),
		clampByte(y + cg),
		clampByte(y - co - cg),
		255,
	}
}

// reconstructNormal treats R and G as premultiplied X and Y in [-255,255]
// and derives Z so the normal has unit length.
func reconstructNormal(c rgba8) rgba8 {
	x := int(c[0])*2 - 255
	y := int(c[1])*2 - 255
	var z float64
	if zz := 255*255 - x*x - y*y; zz > 0 {
		z = math.Sqrt(float64(zz))
	}
	return rgba8{
		clampByte(x/2 + 128),
		clampByte(y/2 + 128),
		clampByte(int(math.Round(z/2 + 128))),
		c[3],
	}
}

// decodeHemiOct unpacks a hemi-octahedron normal from R and G. The
// original blue channel moves to alpha.
func decodeHemiOct(c rgba8) rgba8 {
	r, g := float64(c[0]), float64(c[1])
	nx := (r+g)/255 - 1.003922
	ny := (r - g) / 255
	nz := 1 - math.Abs(nx) - math.Abs(ny)
	if l := math.Sqrt(nx*nx + ny*ny + nz*nz); l > 0 {
		nx, ny, nz = nx/l, ny/l, nz/l
	}
	return rgba8{
		unorm8(float32(nx*0.5 + 0.5)),
		unorm8(float32(ny*0.5 + 0.5)),
		unorm8(float32(nz*0.5 + 0.5)),
		c[2],
	}
}
