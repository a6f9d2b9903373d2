package archive

import (
	"bytes"
	"testing"
)

// blockPayload mimics BC7 data: 16-byte blocks with a few repeating patterns.
func blockPayload(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte((i / 16 % 7) * (i % 16))
	}
	return data
}

func BenchmarkDecompress(b *testing.B) {
	original := blockPayload(256 * 1024)

	for _, codec := range []Codec{CodecZSTD, CodecLZ4} {
		packed, err := Compress(codec, original)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(codec.String(), func(b *testing.B) {
			b.SetBytes(int64(len(original)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Decompress(codec, packed, len(original)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkHeader(b *testing.B) {
	header := NewHeader(CodecZSTD, 1024*1024, 512*1024)
	data, _ := header.MarshalBinary()

	b.Run("EncodeTo", func(b *testing.B) {
		buf := make([]byte, HeaderSize)
		for i := 0; i < b.N; i++ {
			header.EncodeTo(buf)
		}
	})

	b.Run("Unmarshal", func(b *testing.B) {
		h := &Header{}
		for i := 0; i < b.N; i++ {
			if err := h.UnmarshalBinary(data); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkEncodeDecode(b *testing.B) {
	data := blockPayload(1024 * 1024)

	b.Run("Encode", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		for i := 0; i < b.N; i++ {
			var buf bytes.Buffer
			if err := Encode(&seekableBuffer{Buffer: &buf}, data); err != nil {
				b.Fatal(err)
			}
		}
	})

	var buf bytes.Buffer
	_ = Encode(&seekableBuffer{Buffer: &buf}, data)
	encoded := buf.Bytes()

	b.Run("Decode", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		for i := 0; i < b.N; i++ {
			if _, err := ReadAll(bytes.NewReader(encoded)); err != nil {
				b.Fatal(err)
			}
		}
	})
}
