package texture

import (
	"fmt"
	"math"
	"math/bits"
)

// Format identifies the encoding of one image's texel data.
type Format uint16

// Supported formats. The zero value is deliberately invalid.
const (
	FormatUnknown Format = iota

	// Block-compressed formats, one 4x4 tile per block.
	BC1
	BC3
	BC4
	BC5
	BC6H
	BC6HSigned
	BC7
	ETC1
	ETC2
	ETC2EAC
	EACR11
	EACRG11

	// Raw formats, one texel after another.
	I8
	IA88
	RGBA8888
	BGRA8888
	R16
	RG1616
	RGBA16161616
	R16F
	RG1616F
	RGBA16161616F
	R32F
	RG3232F
	RGB323232F
	RGBA32323232F
	R11G11B10F

	formatCount
)

type formatInfo struct {
	name      string
	blockSize int // bytes per 4x4 block, 0 for raw formats
	texelSize int // bytes per texel, 0 for block formats
	hdr       bool
}

var formatTable = [formatCount]formatInfo{
	FormatUnknown: {name: "UNKNOWN"},

	BC1:        {name: "BC1", blockSize: 8},
	BC3:        {name: "BC3", blockSize: 16},
	BC4:        {name: "BC4", blockSize: 8},
	BC5:        {name: "BC5", blockSize: 16},
	BC6H:       {name: "BC6H", blockSize: 16, hdr: true},
	BC6HSigned: {name: "BC6H_SF16", blockSize: 16, hdr: true},
	BC7:        {name: "BC7", blockSize: 16},
	ETC1:       {name: "ETC1", blockSize: 8},
	ETC2:       {name: "ETC2", blockSize: 8},
	ETC2EAC:    {name: "ETC2_EAC", blockSize: 16},
	EACR11:     {name: "EAC_R11", blockSize: 8},
	EACRG11:    {name: "EAC_RG11", blockSize: 16},

	I8:            {name: "I8", texelSize: 1},
	IA88:          {name: "IA88", texelSize: 2},
	RGBA8888:      {name: "RGBA8888", texelSize: 4},
	BGRA8888:      {name: "BGRA8888", texelSize: 4},
	R16:           {name: "R16", texelSize: 2, hdr: true},
	RG1616:        {name: "RG1616", texelSize: 4, hdr: true},
	RGBA16161616:  {name: "RGBA16161616", texelSize: 8, hdr: true},
	R16F:          {name: "R16F", texelSize: 2, hdr: true},
	RG1616F:       {name: "RG1616F", texelSize: 4, hdr: true},
	RGBA16161616F: {name: "RGBA16161616F", texelSize: 8, hdr: true},
	R32F:          {name: "R32F", texelSize: 4, hdr: true},
	RG3232F:       {name: "RG3232F", texelSize: 8, hdr: true},
	RGB323232F:    {name: "RGB323232F", texelSize: 12, hdr: true},
	RGBA32323232F: {name: "RGBA32323232F", texelSize: 16, hdr: true},
	R11G11B10F:    {name: "R11G11B10F", texelSize: 4, hdr: true},
}

func (f Format) info() (formatInfo, bool) {
	if f == FormatUnknown || f >= formatCount {
		return formatInfo{}, false
	}
	return formatTable[f], true
}

// Valid reports whether f is a format the dispatcher can decode.
func (f Format) Valid() bool {
	_, ok := f.info()
	return ok
}

func (f Format) String() string {
	if info, ok := f.info(); ok {
		return info.name
	}
	return fmt.Sprintf("Format(%d)", uint16(f))
}

// IsBlockCompressed reports whether f encodes 4x4 texel tiles.
func (f Format) IsBlockCompressed() bool {
	info, _ := f.info()
	return info.blockSize > 0
}

// BlockSize returns the number of bytes per 4x4 block, or 0 for raw formats.
func (f Format) BlockSize() int {
	info, _ := f.info()
	return info.blockSize
}

// BytesPerTexel returns the texel size of a raw format, or 0 for block formats.
func (f Format) BytesPerTexel() int {
	info, _ := f.info()
	return info.texelSize
}

// IsHDR reports whether the natural output of f is floating point.
func (f Format) IsHDR() bool {
	info, _ := f.info()
	return info.hdr
}

// ImageSize returns the number of bytes a full width x height image
// occupies, or 0 when the size does not fit in an int.
func (f Format) ImageSize(width, height int) int {
	info, ok := f.info()
	if !ok || width <= 0 || height <= 0 {
		return 0
	}
	if info.blockSize > 0 {
		return mulSize(blockCount(width), blockCount(height), info.blockSize)
	}
	return mulSize(width, height, info.texelSize)
}

func mulSize(a, b, unit int) int {
	hi, n := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 {
		return 0
	}
	hi, n = bits.Mul64(n, uint64(unit))
	if hi != 0 || n > math.MaxInt {
		return 0
	}
	return int(n)
}

// MinInputSize returns the smallest buffer the dispatcher accepts: one block
// for block formats, one texel for raw formats.
func (f Format) MinInputSize() int {
	info, _ := f.info()
	if info.blockSize > 0 {
		return info.blockSize
	}
	return info.texelSize
}

// ParseFormat looks a format up by its String name, case-sensitively.
func ParseFormat(name string) (Format, error) {
	for f := BC1; f < formatCount; f++ {
		if formatTable[f].name == name {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

func blockCount(n int) int {
	return n/4 + (n%4+3)/4
}
