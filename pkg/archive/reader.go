package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
	"github.com/pierrec/lz4/v4"
)

// DefaultCompressionLevel is the zstd level used by writers and Compress.
const DefaultCompressionLevel = zstd.BestSpeed

// Reader expands the stream that follows an archive header.
type Reader struct {
	header    Header
	zReader   io.ReadCloser
	headerBuf [HeaderSize]byte
}

// NewReader reads and validates the header, then returns a reader for the
// decompressed content.
func NewReader(r io.Reader) (*Reader, error) {
	reader := &Reader{}
	if _, err := io.ReadFull(r, reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := reader.header.UnmarshalBinary(reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	codec, _ := reader.header.Codec()
	switch codec {
	case CodecLZ4:
		reader.zReader = io.NopCloser(lz4.NewReader(r))
	default:
		reader.zReader = zstd.NewReader(r)
	}
	return reader, nil
}

// Header returns the archive header.
func (r *Reader) Header() *Header {
	return &r.header
}

func (r *Reader) Read(p []byte) (n int, err error) {
	return r.zReader.Read(p)
}

func (r *Reader) Close() error {
	return r.zReader.Close()
}

// Length returns the uncompressed data length.
func (r *Reader) Length() int {
	return int(r.header.Length)
}

// ReadAll reads the entire decompressed content of an archive.
func ReadAll(r io.Reader) ([]byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data := make([]byte, reader.Length())
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}
