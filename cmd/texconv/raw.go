package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EchoTools/texdecode/pkg/archive"
	"github.com/EchoTools/texdecode/pkg/container"
	"github.com/EchoTools/texdecode/pkg/export"
	"github.com/EchoTools/texdecode/pkg/texture"
)

type rawOptions struct {
	decodeOptions
	format string
	width  int
	height int
	meta   string
	codec  archive.Codec
	size   int
}

func runRaw(args []string) error {
	fs := newFlagSet("raw", "[-format NAME -width W -height H | -meta file.meta] [flags] input output")
	var opts rawOptions
	opts.register(fs)
	fs.StringVar(&opts.format, "format", "", "pixel format, e.g. BC7, ETC2_EAC or RGBA16161616F")
	fs.IntVar(&opts.width, "width", 0, "image width in texels")
	fs.IntVar(&opts.height, "height", 0, "image height in texels")
	fs.StringVar(&opts.meta, "meta", "", "256-byte texture descriptor supplying format and size")
	fs.Func("codec", "compression of the input payload: none, zstd, lz4", func(s string) error {
		codec, err := archive.ParseCodec(s)
		if err != nil {
			return err
		}
		opts.codec = codec
		return nil
	})
	fs.IntVar(&opts.size, "size", 0, "decompressed payload size, required with -codec")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("raw needs an input and an output path")
	}
	newLogger(opts.verbose)

	in, out := fs.Arg(0), fs.Arg(1)
	if err := convertRaw(in, out, &opts); err != nil {
		return err
	}
	fmt.Printf("Decoded %s -> %s\n", in, out)
	return nil
}

func convertRaw(in, out string, opts *rawOptions) error {
	payload, err := loadPayload(in, opts.codec, opts.size)
	if err != nil {
		return err
	}

	var info *container.DDSInfo
	if opts.meta != "" {
		m, err := readMetadata(opts.meta)
		if err != nil {
			return err
		}
		if strings.EqualFold(filepath.Ext(out), ".dds") {
			data, err := container.EncodeDDS(m, payload)
			if err != nil {
				return err
			}
			return os.WriteFile(out, data, 0644)
		}
		if info, err = m.Info(); err != nil {
			return err
		}
	} else {
		if opts.format == "" || opts.width <= 0 || opts.height <= 0 {
			return errors.New("raw needs -meta or -format, -width and -height")
		}
		if opts.width > container.MaxDimension || opts.height > container.MaxDimension {
			return fmt.Errorf("%w: %dx%d", container.ErrDimensions, opts.width, opts.height)
		}
		format, err := texture.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		info = &container.DDSInfo{
			Width:     uint32(opts.width),
			Height:    uint32(opts.height),
			MipLevels: uint32(opts.mip + 1),
			Format:    format,
		}
		if err := info.Validate(); err != nil {
			return err
		}
	}

	kind, err := export.KindFromPath(out)
	if err != nil {
		return err
	}
	mip, err := info.MipRange(opts.mip)
	if err != nil {
		return err
	}
	if mip.Offset >= int64(len(payload)) {
		return fmt.Errorf("mip %d starts at %d, past the %d byte payload", mip.Level, mip.Offset, len(payload))
	}
	data := payload[mip.Offset:min(mip.Offset+int64(mip.Size), int64(len(payload)))]

	s, err := opts.decode(data, info.Format, mip.Width, mip.Height)
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}
	return writeSurface(out, s, kind, &opts.decodeOptions)
}

func readMetadata(path string) (*container.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()
	return container.ParseMetadata(f)
}

// loadPayload reads an input file and expands it. Files that start with
// an archive header are unpacked regardless of codec.
func loadPayload(path string, codec archive.Codec, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if codec == archive.CodecNone {
		if isArchive(data) {
			return archive.ReadAll(bytes.NewReader(data))
		}
		return data, nil
	}
	if size <= 0 {
		return nil, fmt.Errorf("-size is required with -codec %s", codec)
	}
	return archive.Decompress(codec, data, size)
}

func isArchive(data []byte) bool {
	if len(data) < archive.HeaderSize {
		return false
	}
	var h archive.Header
	if err := h.UnmarshalBinary(data[:archive.HeaderSize]); err != nil {
		return false
	}
	return h.Validate() == nil
}
