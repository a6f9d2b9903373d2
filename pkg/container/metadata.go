// Package container reads the files that carry texel data to the decoder:
// DDS files (legacy FourCC and DX10 headers) and the fixed 256-byte
// texture descriptors that accompany headerless payloads.
package container

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/EchoTools/texdecode/pkg/texture"
)

// MetadataSize is the fixed size of a texture descriptor.
const MetadataSize = 256

// Metadata is the 256-byte descriptor stored next to a headerless payload.
type Metadata struct {
	Width       uint32    // +0x00
	Height      uint32    // +0x04
	MipLevels   uint32    // +0x08
	DXGIFormat  uint32    // +0x0C
	DDSFileSize uint32    // +0x10: payload size once wrapped in a DDS header
	RawFileSize uint32    // +0x14: payload size as stored
	Flags       uint32    // +0x18
	ArraySize   uint32    // +0x1C
	Reserved    [224]byte // +0x20
}

// ParseMetadata reads one descriptor from r.
func ParseMetadata(r io.Reader) (*Metadata, error) {
	data := make([]byte, MetadataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	m := new(Metadata)
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalBinary decodes a descriptor. data must be exactly MetadataSize bytes.
func (m *Metadata) UnmarshalBinary(data []byte) error {
	if len(data) != MetadataSize {
		return fmt.Errorf("metadata is %d bytes, want %d", len(data), MetadataSize)
	}
	le := binary.LittleEndian
	m.Width = le.Uint32(data[0x00:])
	m.Height = le.Uint32(data[0x04:])
	m.MipLevels = le.Uint32(data[0x08:])
	m.DXGIFormat = le.Uint32(data[0x0C:])
	m.DDSFileSize = le.Uint32(data[0x10:])
	m.RawFileSize = le.Uint32(data[0x14:])
	m.Flags = le.Uint32(data[0x18:])
	m.ArraySize = le.Uint32(data[0x1C:])
	copy(m.Reserved[:], data[0x20:])
	return nil
}

// MarshalBinary encodes the descriptor to MetadataSize bytes.
func (m *Metadata) MarshalBinary() ([]byte, error) {
	data := make([]byte, MetadataSize)
	le := binary.LittleEndian
	le.PutUint32(data[0x00:], m.Width)
	le.PutUint32(data[0x04:], m.Height)
	le.PutUint32(data[0x08:], m.MipLevels)
	le.PutUint32(data[0x0C:], m.DXGIFormat)
	le.PutUint32(data[0x10:], m.DDSFileSize)
	le.PutUint32(data[0x14:], m.RawFileSize)
	le.PutUint32(data[0x18:], m.Flags)
	le.PutUint32(data[0x1C:], m.ArraySize)
	copy(data[0x20:], m.Reserved[:])
	return data, nil
}

// Format returns the decoder format named by DXGIFormat.
func (m *Metadata) Format() (texture.Format, error) {
	return FormatFromDXGI(m.DXGIFormat)
}

// Info describes the payload as if it were a DDS file with no header.
func (m *Metadata) Info() (*DDSInfo, error) {
	f, err := m.Format()
	if err != nil {
		return nil, err
	}
	info := &DDSInfo{
		Width:      m.Width,
		Height:     m.Height,
		MipLevels:  max(m.MipLevels, 1),
		DXGIFormat: m.DXGIFormat,
		Format:     f,
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

func (m *Metadata) String() string {
	return fmt.Sprintf("Texture: %dx%d, %d mips, format=%s, dds_size=%d, raw_size=%d",
		m.Width, m.Height, m.MipLevels, DXGIName(m.DXGIFormat), m.DDSFileSize, m.RawFileSize)
}
