// Package archive compresses and expands texel payloads. It handles bare
// compressed blocks (Decompress, Compress) and a small self-describing
// container with a 24-byte header (NewReader, NewWriter).
package archive

import (
	"encoding/binary"
	"fmt"
)

// Magic values select the stream codec of an archive.
var (
	Magic    = [4]byte{'Z', 'S', 'T', 'D'}
	MagicLZ4 = [4]byte{'L', 'Z', '4', 'F'}
)

// HeaderSize is the fixed binary size of an archive header.
const HeaderSize = 24 // 4 + 4 + 8 + 8 bytes

const headerLength = HeaderSize - 8

// Header precedes the compressed stream.
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32
	Length           uint64 // uncompressed size
	CompressedLength uint64
}

// NewHeader returns a header for the given codec and sizes.
func NewHeader(codec Codec, uncompressedSize, compressedSize uint64) *Header {
	h := &Header{
		Magic:            Magic,
		HeaderLength:     headerLength,
		Length:           uncompressedSize,
		CompressedLength: compressedSize,
	}
	if codec == CodecLZ4 {
		h.Magic = MagicLZ4
	}
	return h
}

// Codec reports the stream codec named by the magic.
func (h *Header) Codec() (Codec, error) {
	switch h.Magic {
	case Magic:
		return CodecZSTD, nil
	case MagicLZ4:
		return CodecLZ4, nil
	}
	return CodecNone, fmt.Errorf("invalid magic: %x", h.Magic)
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if _, err := h.Codec(); err != nil {
		return err
	}
	if h.HeaderLength != headerLength {
		return fmt.Errorf("invalid header length: expected %d, got %d", headerLength, h.HeaderLength)
	}
	if h.Length == 0 {
		return fmt.Errorf("uncompressed size is zero")
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to buf, which must hold HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint64(buf[8:16], h.Length)
	binary.LittleEndian.PutUint64(buf[16:24], h.CompressedLength)
}

// UnmarshalBinary decodes and validates the header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from buf without validating it.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(data[4:8])
	h.Length = binary.LittleEndian.Uint64(data[8:16])
	h.CompressedLength = binary.LittleEndian.Uint64(data[16:24])
}
