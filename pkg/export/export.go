// Package export writes decoded surfaces to image files.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/EchoTools/texdecode/pkg/archive"
	"github.com/EchoTools/texdecode/pkg/texture"
)

// Kind is an output file type.
type Kind uint8

const (
	KindPNG Kind = iota + 1
	KindBMP
	KindTIFF
	KindRaw // surface bytes in a compressed archive
)

// ErrUnknownKind is returned for output paths with no matching Kind.
var ErrUnknownKind = errors.New("unknown output kind")

func (k Kind) String() string {
	switch k {
	case KindPNG:
		return "png"
	case KindBMP:
		return "bmp"
	case KindTIFF:
		return "tiff"
	case KindRaw:
		return "raw"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Ext returns the canonical file extension, including the dot.
func (k Kind) Ext() string {
	return "." + k.String()
}

// KindFromPath picks the output kind from a file extension.
func KindFromPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return KindPNG, nil
	case ".bmp":
		return KindBMP, nil
	case ".tif", ".tiff":
		return KindTIFF, nil
	case ".raw":
		return KindRaw, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, path)
}

type config struct {
	preview int
	codec   archive.Codec
}

// Option configures Write.
type Option func(*config)

// WithPreview shrinks images whose longer edge exceeds maxEdge, keeping
// the aspect ratio. It has no effect on raw dumps.
func WithPreview(maxEdge int) Option {
	return func(c *config) {
		c.preview = maxEdge
	}
}

// WithCodec selects the archive codec for raw dumps.
func WithCodec(codec archive.Codec) Option {
	return func(c *config) {
		c.codec = codec
	}
}

// Write encodes s to w. KindRaw needs w to be an io.WriteSeeker.
func Write(w io.Writer, s *texture.Surface, kind Kind, opts ...Option) error {
	cfg := config{codec: archive.CodecZSTD}
	for _, opt := range opts {
		opt(&cfg)
	}

	if kind == KindRaw {
		ws, ok := w.(io.WriteSeeker)
		if !ok {
			return fmt.Errorf("raw output needs a seekable writer")
		}
		return WriteRaw(ws, s, cfg.codec)
	}

	var img image.Image = s.Image()
	if cfg.preview > 0 {
		img = Preview(img, cfg.preview)
	}

	var err error
	switch kind {
	case KindPNG:
		err = png.Encode(w, img)
	case KindBMP:
		err = bmp.Encode(w, img)
	case KindTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	return nil
}

// WriteRaw stores the surface buffer as an archive. Float surfaces are
// written as little-endian float32.
func WriteRaw(w io.WriteSeeker, s *texture.Surface, codec archive.Codec) error {
	if err := archive.Encode(w, s.Bytes(), archive.WithCodec(codec)); err != nil {
		return fmt.Errorf("encode raw: %w", err)
	}
	return nil
}

// Preview returns img scaled down so neither edge exceeds maxEdge. Smaller
// images are returned unchanged.
func Preview(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxEdge && b.Dy() <= maxEdge {
		return img
	}
	g := gift.New(gift.ResizeToFit(maxEdge, maxEdge, gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(b))
	g.Draw(dst, img)
	return dst
}
