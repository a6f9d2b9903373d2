package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
	"github.com/pierrec/lz4/v4"
)

// Writer compresses data behind an archive header. The header is written
// up front and patched with the compressed size on Close.
type Writer struct {
	dst     io.WriteSeeker
	zWriter io.WriteCloser
	header  *Header
	codec   Codec
	level   int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompressionLevel sets the zstd compression level.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// WithCodec selects the stream codec: CodecZSTD or CodecLZ4.
func WithCodec(codec Codec) WriterOption {
	return func(w *Writer) {
		w.codec = codec
	}
}

// NewWriter writes a placeholder header to dst and returns a writer for
// uncompressedSize bytes of content.
func NewWriter(dst io.WriteSeeker, uncompressedSize uint64, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		dst:   dst,
		codec: CodecZSTD,
		level: DefaultCompressionLevel,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.codec != CodecZSTD && w.codec != CodecLZ4 {
		return nil, fmt.Errorf("%w: %v", ErrNoStreamCodec, w.codec)
	}
	w.header = NewHeader(w.codec, uncompressedSize, 0)

	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}
	if _, err := dst.Write(headerBytes); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	switch w.codec {
	case CodecLZ4:
		w.zWriter = lz4.NewWriter(dst)
	default:
		w.zWriter = zstd.NewWriterLevel(dst, w.level)
	}
	return w, nil
}

func (w *Writer) Write(p []byte) (n int, err error) {
	return w.zWriter.Write(p)
}

// Close flushes the compressor and rewrites the header with the final
// compressed size.
func (w *Writer) Close() error {
	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get position: %w", err)
	}
	w.header.CompressedLength = uint64(pos) - HeaderSize

	if _, err := w.dst.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek to start: %w", err)
	}
	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}
	if _, err := w.dst.Write(headerBytes); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	return nil
}

// Encode compresses data and writes it as an archive to dst.
func Encode(dst io.WriteSeeker, data []byte, opts ...WriterOption) error {
	w, err := NewWriter(dst, uint64(len(data)), opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return w.Close()
}
