package export

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/EchoTools/texdecode/pkg/archive"
	"github.com/EchoTools/texdecode/pkg/texture"
)

func testSurface(t *testing.T, w, h int) *texture.Surface {
	t.Helper()
	s := texture.NewSurface(w, h, texture.LayoutBGRA8)
	for i := 0; i < w*h; i++ {
		s.Pix[i*4+0] = byte(i)
		s.Pix[i*4+1] = byte(i * 3)
		s.Pix[i*4+2] = byte(i * 7)
		s.Pix[i*4+3] = 255
	}
	return s
}

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Kind
		wantErr bool
	}{
		{"out.png", KindPNG, false},
		{"dir/OUT.BMP", KindBMP, false},
		{"a.tif", KindTIFF, false},
		{"a.tiff", KindTIFF, false},
		{"a.raw", KindRaw, false},
		{"a.jpg", 0, true},
		{"noext", 0, true},
	}
	for _, tt := range tests {
		got, err := KindFromPath(tt.path)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownKind) {
				t.Errorf("KindFromPath(%q): expected ErrUnknownKind, got %v", tt.path, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("KindFromPath(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
		}
	}
}

func TestWriteImages(t *testing.T) {
	s := testSurface(t, 8, 4)
	want := s.Image()

	decoders := map[Kind]func(*bytes.Reader) (image.Image, error){
		KindPNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		KindBMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		KindTIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
	}

	for kind, decode := range decoders {
		t.Run(kind.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, s, kind); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Bounds() != want.Bounds() {
				t.Fatalf("bounds: got %v, want %v", got.Bounds(), want.Bounds())
			}
			for y := 0; y < 4; y++ {
				for x := 0; x < 8; x++ {
					r0, g0, b0, _ := want.At(x, y).RGBA()
					r1, g1, b1, _ := got.At(x, y).RGBA()
					if r0 != r1 || g0 != g1 || b0 != b1 {
						t.Fatalf("texel (%d,%d): got %v, want %v", x, y, got.At(x, y), want.At(x, y))
					}
				}
			}
		})
	}
}

func TestWritePreview(t *testing.T) {
	s := testSurface(t, 64, 16)
	var buf bytes.Buffer
	if err := Write(&buf, s, KindPNG, WithPreview(16)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 4 {
		t.Errorf("preview size: got %dx%d, want 16x4", b.Dx(), b.Dy())
	}

	small := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	if Preview(small, 16) != image.Image(small) {
		t.Error("images within the limit should be returned unchanged")
	}
}

func TestWriteRaw(t *testing.T) {
	s := testSurface(t, 5, 3)
	path := filepath.Join(t.TempDir(), "dump.raw")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(f, s, KindRaw, WithCodec(archive.CodecLZ4)); err != nil {
		f.Close()
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := archive.ReadAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, s.Pix) {
		t.Error("raw dump does not match surface bytes")
	}

	if err := Write(&bytes.Buffer{}, s, KindRaw); err == nil {
		t.Error("expected error for raw output to a non-seekable writer")
	}
}
