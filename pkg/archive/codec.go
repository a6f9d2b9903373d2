package archive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies how a texel payload is compressed on disk.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecZSTD
	CodecLZ4
)

// ErrSizeMismatch is returned when a payload does not expand to the
// size recorded for it.
var ErrSizeMismatch = errors.New("decompressed size mismatch")

// ErrNoStreamCodec is returned when an archive is requested with a codec
// that has no stream form.
var ErrNoStreamCodec = errors.New("codec cannot be used for archives")

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZSTD:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	}
	return fmt.Sprintf("Codec(%d)", uint8(c))
}

// ParseCodec accepts the names returned by Codec.String.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(s) {
	case "", "none", "raw":
		return CodecNone, nil
	case "zstd":
		return CodecZSTD, nil
	case "lz4":
		return CodecLZ4, nil
	}
	return CodecNone, fmt.Errorf("unknown codec %q", s)
}

// Decompress expands one compressed payload to exactly size bytes. An LZ4
// payload that is not smaller than size is taken to be stored uncompressed.
func Decompress(codec Codec, src []byte, size int) ([]byte, error) {
	switch codec {
	case CodecNone:
		if len(src) < size {
			return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrSizeMismatch, len(src), size)
		}
		return src[:size], nil

	case CodecZSTD:
		out, err := zstd.Decompress(make([]byte, 0, size), src)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(out), size)
		}
		return out, nil

	case CodecLZ4:
		if len(src) >= size {
			return src[:size], nil
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(src, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, n, size)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown codec %v", codec)
}

// Compress is the inverse of Decompress. Incompressible LZ4 input is
// returned as is.
func Compress(codec Codec, src []byte) ([]byte, error) {
	switch codec {
	case CodecNone:
		return src, nil

	case CodecZSTD:
		out, err := zstd.CompressLevel(nil, src, DefaultCompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("zstd compress: %w", err)
		}
		return out, nil

	case CodecLZ4:
		out := make([]byte, lz4.CompressBlockBound(len(src)))
		n, err := lz4.CompressBlock(src, out, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(src) {
			return src, nil
		}
		return out[:n], nil
	}
	return nil, fmt.Errorf("unknown codec %v", codec)
}
