package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/EchoTools/texdecode/pkg/container"
	"github.com/EchoTools/texdecode/pkg/export"
	"github.com/EchoTools/texdecode/pkg/texture"
)

func runDecode(args []string) error {
	fs := newFlagSet("decode", "[flags] input.dds output.(png|bmp|tiff|raw)")
	var opts decodeOptions
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("decode needs an input and an output path")
	}
	newLogger(opts.verbose)

	in, out := fs.Arg(0), fs.Arg(1)
	if err := decodeDDSFile(in, out, &opts); err != nil {
		return err
	}
	fmt.Printf("Decoded %s -> %s\n", in, out)
	return nil
}

// decodeDDSFile decodes one mip level of a DDS file into an image file.
// The output type follows the extension of out.
func decodeDDSFile(in, out string, opts *decodeOptions) error {
	kind, err := export.KindFromPath(out)
	if err != nil {
		return err
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	info, err := container.ParseDDS(f)
	if err != nil {
		return fmt.Errorf("parse header: %w", err)
	}
	mip, err := info.MipRange(opts.mip)
	if err != nil {
		return err
	}
	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if mip.Offset >= st.Size() {
		return fmt.Errorf("mip %d starts at %d, past the end of the %d byte file", mip.Level, mip.Offset, st.Size())
	}

	// A file cut short is decoded as far as it goes.
	data := make([]byte, min(int64(mip.Size), st.Size()-mip.Offset))
	n, err := f.ReadAt(data, mip.Offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read data: %w", err)
	}

	s, err := opts.decode(data[:n], info.Format, mip.Width, mip.Height)
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}
	return writeSurface(out, s, kind, opts)
}

func writeSurface(path string, s *texture.Surface, kind export.Kind, opts *decodeOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.Write(f, s, kind, export.WithPreview(opts.preview), export.WithCodec(opts.rawCodec)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
