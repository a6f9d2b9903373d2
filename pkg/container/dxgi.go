package container

import (
	"fmt"

	"github.com/EchoTools/texdecode/pkg/texture"
)

// DXGI_FORMAT values referenced by DX10 headers and texture metadata.
const (
	DXGIFormatUnknown           = 0
	DXGIFormatR32G32B32A32Float = 2
	DXGIFormatR32G32B32Float    = 6
	DXGIFormatR16G16B16A16Float = 10
	DXGIFormatR16G16B16A16Unorm = 11
	DXGIFormatR32G32Float       = 16
	DXGIFormatR11G11B10Float    = 26
	DXGIFormatR8G8B8A8Unorm     = 28
	DXGIFormatR8G8B8A8UnormSRGB = 29
	DXGIFormatR16G16Float       = 34
	DXGIFormatR16G16Unorm       = 35
	DXGIFormatR32Float          = 41
	DXGIFormatR16Float          = 54
	DXGIFormatR16Unorm          = 56
	DXGIFormatR8Unorm           = 61
	DXGIFormatBC1Unorm          = 71
	DXGIFormatBC1UnormSRGB      = 72
	DXGIFormatBC2Unorm          = 74
	DXGIFormatBC2UnormSRGB      = 75
	DXGIFormatBC3Unorm          = 77
	DXGIFormatBC3UnormSRGB      = 78
	DXGIFormatBC4Unorm          = 80
	DXGIFormatBC4SNorm          = 81
	DXGIFormatBC5Unorm          = 83
	DXGIFormatBC5SNorm          = 84
	DXGIFormatB8G8R8A8Unorm     = 87
	DXGIFormatB8G8R8A8Typeless  = 90
	DXGIFormatB8G8R8A8UnormSRGB = 91
	DXGIFormatBC6HUF16          = 95
	DXGIFormatBC6HSF16          = 96
	DXGIFormatBC7Unorm          = 98
	DXGIFormatBC7UnormSRGB      = 99
)

type dxgiEntry struct {
	name   string
	format texture.Format
}

var dxgiFormats = map[uint32]dxgiEntry{
	DXGIFormatR32G32B32A32Float: {"R32G32B32A32_FLOAT", texture.RGBA32323232F},
	DXGIFormatR32G32B32Float:    {"R32G32B32_FLOAT", texture.RGB323232F},
	DXGIFormatR16G16B16A16Float: {"R16G16B16A16_FLOAT", texture.RGBA16161616F},
	DXGIFormatR16G16B16A16Unorm: {"R16G16B16A16_UNORM", texture.RGBA16161616},
	DXGIFormatR32G32Float:       {"R32G32_FLOAT", texture.RG3232F},
	DXGIFormatR11G11B10Float:    {"R11G11B10_FLOAT", texture.R11G11B10F},
	DXGIFormatR8G8B8A8Unorm:     {"R8G8B8A8_UNORM", texture.RGBA8888},
	DXGIFormatR8G8B8A8UnormSRGB: {"R8G8B8A8_UNORM_SRGB", texture.RGBA8888},
	DXGIFormatR16G16Float:       {"R16G16_FLOAT", texture.RG1616F},
	DXGIFormatR16G16Unorm:       {"R16G16_UNORM", texture.RG1616},
	DXGIFormatR32Float:          {"R32_FLOAT", texture.R32F},
	DXGIFormatR16Float:          {"R16_FLOAT", texture.R16F},
	DXGIFormatR16Unorm:          {"R16_UNORM", texture.R16},
	DXGIFormatR8Unorm:           {"R8_UNORM", texture.I8},
	DXGIFormatBC1Unorm:          {"BC1_UNORM", texture.BC1},
	DXGIFormatBC1UnormSRGB:      {"BC1_UNORM_SRGB", texture.BC1},
	DXGIFormatBC2Unorm:          {"BC2_UNORM", texture.FormatUnknown},
	DXGIFormatBC2UnormSRGB:      {"BC2_UNORM_SRGB", texture.FormatUnknown},
	DXGIFormatBC3Unorm:          {"BC3_UNORM", texture.BC3},
	DXGIFormatBC3UnormSRGB:      {"BC3_UNORM_SRGB", texture.BC3},
	DXGIFormatBC4Unorm:          {"BC4_UNORM", texture.BC4},
	DXGIFormatBC4SNorm:          {"BC4_SNORM", texture.FormatUnknown},
	DXGIFormatBC5Unorm:          {"BC5_UNORM", texture.BC5},
	DXGIFormatBC5SNorm:          {"BC5_SNORM", texture.FormatUnknown},
	DXGIFormatB8G8R8A8Unorm:     {"B8G8R8A8_UNORM", texture.BGRA8888},
	DXGIFormatB8G8R8A8Typeless:  {"B8G8R8A8_TYPELESS", texture.BGRA8888},
	DXGIFormatB8G8R8A8UnormSRGB: {"B8G8R8A8_UNORM_SRGB", texture.BGRA8888},
	DXGIFormatBC6HUF16:          {"BC6H_UF16", texture.BC6H},
	DXGIFormatBC6HSF16:          {"BC6H_SF16", texture.BC6HSigned},
	DXGIFormatBC7Unorm:          {"BC7_UNORM", texture.BC7},
	DXGIFormatBC7UnormSRGB:      {"BC7_UNORM_SRGB", texture.BC7},
}

// DXGIName returns a human-readable name for a DXGI_FORMAT value.
func DXGIName(format uint32) string {
	if e, ok := dxgiFormats[format]; ok {
		return e.name
	}
	return fmt.Sprintf("UNKNOWN(0x%x)", format)
}

// FormatFromDXGI maps a DXGI_FORMAT value to the decoder format. Known but
// undecodable values (BC2, signed BC4/BC5) report ErrUnsupportedFormat too.
func FormatFromDXGI(format uint32) (texture.Format, error) {
	e, ok := dxgiFormats[format]
	if !ok || e.format == texture.FormatUnknown {
		return texture.FormatUnknown, fmt.Errorf("%w: DXGI %s", texture.ErrUnsupportedFormat, DXGIName(format))
	}
	return e.format, nil
}

// DXGIFromFormat returns the canonical DXGI value for a decoder format, or
// DXGIFormatUnknown when none exists (ETC, EAC, IA88).
func DXGIFromFormat(f texture.Format) uint32 {
	if !f.Valid() {
		return DXGIFormatUnknown
	}
	switch f {
	case texture.BC1:
		return DXGIFormatBC1Unorm
	case texture.BC3:
		return DXGIFormatBC3Unorm
	case texture.BC4:
		return DXGIFormatBC4Unorm
	case texture.BC5:
		return DXGIFormatBC5Unorm
	case texture.BC6H:
		return DXGIFormatBC6HUF16
	case texture.BC6HSigned:
		return DXGIFormatBC6HSF16
	case texture.BC7:
		return DXGIFormatBC7Unorm
	case texture.RGBA8888:
		return DXGIFormatR8G8B8A8Unorm
	case texture.BGRA8888:
		return DXGIFormatB8G8R8A8Unorm
	}
	for v, e := range dxgiFormats {
		if e.format == f {
			return v
		}
	}
	return DXGIFormatUnknown
}
