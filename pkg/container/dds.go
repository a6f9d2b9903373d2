package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/EchoTools/texdecode/pkg/texture"
)

const (
	// DDSMagic is "DDS " read as a little-endian uint32.
	DDSMagic = 0x20534444

	ddsHeaderSize      = 124
	ddsPixelFormatSize = 32
	dx10HeaderSize     = 20

	ddsFlagCaps        = 0x00000001
	ddsFlagHeight      = 0x00000002
	ddsFlagWidth       = 0x00000004
	ddsFlagPixelFormat = 0x00001000
	ddsFlagMipMapCount = 0x00020000
	ddsFlagLinearSize  = 0x00080000

	ddsCapsTexture = 0x00001000
	ddsCapsMipMap  = 0x00400000

	ddpfAlphaPixels = 0x00000001
	ddpfFourCC      = 0x00000004
	ddpfRGB         = 0x00000040
	ddpfLuminance   = 0x00020000

	dx10Texture2D = 3
)

// Size limits, the Direct3D 11 maximums for 2D textures.
const (
	MaxDimension = 16384
	MaxMipLevels = 15
)

var (
	// ErrInvalidDDS is returned for files that are not DDS or are cut short.
	ErrInvalidDDS = errors.New("invalid DDS file")
	// ErrDimensions is returned for images larger than MaxDimension, with a
	// zero edge, or with more than MaxMipLevels mips.
	ErrDimensions = errors.New("texture dimensions out of range")
)

// DDSHeader is the magic plus the 124-byte DDS_HEADER.
type DDSHeader struct {
	Magic             uint32
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       DDSPixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// DDSPixelFormat is the 32-byte DDS_PIXELFORMAT.
type DDSPixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      [4]byte
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// DDSDX10Header follows the main header when FourCC is "DX10".
type DDSDX10Header struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// DDSInfo is what the decoder needs from a DDS header.
type DDSInfo struct {
	Width      uint32
	Height     uint32
	MipLevels  uint32
	DXGIFormat uint32 // DXGIFormatUnknown for FourCC-only formats such as ETC
	FourCC     string
	Format     texture.Format
	DataOffset uint32 // payload start, relative to the beginning of the file
}

// Mip locates one mip level inside a file.
type Mip struct {
	Level  int
	Width  int
	Height int
	Offset int64
	Size   int
}

var legacyFourCC = map[string]texture.Format{
	"DXT1": texture.BC1,
	"DXT5": texture.BC3,
	"ATI1": texture.BC4,
	"BC4U": texture.BC4,
	"ATI2": texture.BC5,
	"BC5U": texture.BC5,
	"ETC1": texture.ETC1,
	"ETC2": texture.ETC2,
}

// ParseDDS reads the DDS header (and DX10 extension if present) from r.
// r is left positioned at the start of the payload.
func ParseDDS(r io.Reader) (*DDSInfo, error) {
	var h DDSHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidDDS, err)
	}
	if h.Magic != DDSMagic {
		return nil, fmt.Errorf("%w: magic 0x%08x", ErrInvalidDDS, h.Magic)
	}

	info := &DDSInfo{
		Width:      h.Width,
		Height:     h.Height,
		MipLevels:  max(h.MipMapCount, 1),
		DataOffset: 4 + ddsHeaderSize,
	}
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDDS, err)
	}

	pf := h.PixelFormat
	switch {
	case pf.Flags&ddpfFourCC != 0:
		info.FourCC = string(pf.FourCC[:])
		if info.FourCC == "DX10" {
			var dx10 DDSDX10Header
			if err := binary.Read(r, binary.LittleEndian, &dx10); err != nil {
				return nil, fmt.Errorf("%w: read DX10 header: %v", ErrInvalidDDS, err)
			}
			info.DataOffset += dx10HeaderSize
			info.DXGIFormat = dx10.DXGIFormat
			f, err := FormatFromDXGI(dx10.DXGIFormat)
			if err != nil {
				return nil, err
			}
			info.Format = f
			return info, nil
		}
		f, ok := legacyFourCC[info.FourCC]
		if !ok {
			return nil, fmt.Errorf("%w: FourCC %q", texture.ErrUnsupportedFormat, info.FourCC)
		}
		info.Format = f
	case pf.Flags&ddpfRGB != 0 && pf.RGBBitCount == 32:
		switch pf.RBitMask {
		case 0x00ff0000:
			info.Format = texture.BGRA8888
		case 0x000000ff:
			info.Format = texture.RGBA8888
		default:
			return nil, fmt.Errorf("%w: RGB masks %08x/%08x/%08x",
				texture.ErrUnsupportedFormat, pf.RBitMask, pf.GBitMask, pf.BBitMask)
		}
	case pf.Flags&ddpfLuminance != 0 && pf.RGBBitCount == 8:
		info.Format = texture.I8
	case pf.Flags&ddpfLuminance != 0 && pf.Flags&ddpfAlphaPixels != 0 && pf.RGBBitCount == 16:
		info.Format = texture.IA88
	default:
		return nil, fmt.Errorf("%w: pixel format flags 0x%x", texture.ErrUnsupportedFormat, pf.Flags)
	}
	info.DXGIFormat = DXGIFromFormat(info.Format)
	return info, nil
}

// Validate checks the dimensions and mip count against the size limits.
func (info *DDSInfo) Validate() error {
	switch {
	case info.Width == 0, info.Height == 0, info.Width > MaxDimension, info.Height > MaxDimension:
		return fmt.Errorf("%w: %dx%d", ErrDimensions, info.Width, info.Height)
	case info.MipLevels > MaxMipLevels:
		return fmt.Errorf("%w: %d mip levels", ErrDimensions, info.MipLevels)
	}
	return nil
}

// MipSize returns the byte size of one mip level.
func (info *DDSInfo) MipSize(level int) int {
	w, h := info.mipDims(level)
	return info.Format.ImageSize(w, h)
}

func (info *DDSInfo) mipDims(level int) (int, int) {
	return max(1, int(info.Width)>>level), max(1, int(info.Height)>>level)
}

// MipRange returns the location of a mip level. Levels are stored largest
// first, each directly after the previous one.
func (info *DDSInfo) MipRange(level int) (Mip, error) {
	if level < 0 || level >= int(info.MipLevels) {
		return Mip{}, fmt.Errorf("mip level %d out of range [0,%d)", level, info.MipLevels)
	}
	offset := int64(info.DataOffset)
	for i := 0; i < level; i++ {
		offset += int64(info.MipSize(i))
	}
	w, h := info.mipDims(level)
	return Mip{Level: level, Width: w, Height: h, Offset: offset, Size: info.MipSize(level)}, nil
}

// DataSize returns the total payload size across all mip levels.
func (info *DDSInfo) DataSize() int {
	var n int
	for i := 0; i < int(info.MipLevels); i++ {
		n += info.MipSize(i)
	}
	return n
}

// EncodeDDS prepends a DX10 DDS header describing m to payload. The payload
// must match the descriptor's RawFileSize.
func EncodeDDS(m *Metadata, payload []byte) ([]byte, error) {
	if m == nil {
		return nil, errors.New("metadata is required")
	}
	if uint32(len(payload)) != m.RawFileSize {
		return nil, fmt.Errorf("payload size %d doesn't match metadata size %d", len(payload), m.RawFileSize)
	}
	info, err := m.Info()
	if err != nil {
		return nil, err
	}

	h := DDSHeader{
		Magic:             DDSMagic,
		Size:              ddsHeaderSize,
		Flags:             ddsFlagCaps | ddsFlagHeight | ddsFlagWidth | ddsFlagPixelFormat | ddsFlagLinearSize,
		Height:            m.Height,
		Width:             m.Width,
		PitchOrLinearSize: uint32(info.MipSize(0)),
		MipMapCount:       m.MipLevels,
		PixelFormat: DDSPixelFormat{
			Size:   ddsPixelFormatSize,
			Flags:  ddpfFourCC,
			FourCC: [4]byte{'D', 'X', '1', '0'},
		},
		Caps: ddsCapsTexture,
	}
	if m.MipLevels > 1 {
		h.Flags |= ddsFlagMipMapCount
		h.Caps |= ddsCapsMipMap
	}
	dx10 := DDSDX10Header{
		DXGIFormat:        m.DXGIFormat,
		ResourceDimension: dx10Texture2D,
		ArraySize:         max(m.ArraySize, 1),
	}

	var buf bytes.Buffer
	buf.Grow(4 + ddsHeaderSize + dx10HeaderSize + len(payload))
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, &dx10); err != nil {
		return nil, fmt.Errorf("write DX10 header: %w", err)
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}
